package handler

import (
	"net/http"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// SubmitRequest 志愿申请：重复申请返回 400 纯文本
func (h *RequestHandler) SubmitRequest(c *gin.Context) {
	var req model.VolunteerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c, err)
		return
	}
	res, err := h.svc.Submit(c.Request.Context(), &req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *RequestHandler) ListMyRequests(c *gin.Context) {
	list, err := h.svc.ListByVolunteer(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// CancelRequest 取消申请，名额不归还
func (h *RequestHandler) CancelRequest(c *gin.Context) {
	res, err := h.svc.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
