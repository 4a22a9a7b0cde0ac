package handler

import (
	"net/http"

	"Volunteer_Hub/internal/model"
	"Volunteer_Hub/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

// CreatePost 发布招募帖
func (h *PostHandler) CreatePost(c *gin.Context) {
	var post model.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		invalidParams(c, err)
		return
	}
	res, err := h.svc.CreatePost(c.Request.Context(), &post)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListPosts 全部帖子，按 date 升序
func (h *PostHandler) ListPosts(c *gin.Context) {
	list, err := h.svc.ListPosts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SearchPosts ?search= 按标题搜索
func (h *PostHandler) SearchPosts(c *gin.Context) {
	list, err := h.svc.SearchPosts(c.Request.Context(), c.Query("search"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetPost 不存在时返回 null
func (h *PostHandler) GetPost(c *gin.Context) {
	post, err := h.svc.GetPost(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *PostHandler) ListMyPosts(c *gin.Context) {
	list, err := h.svc.ListByOrganizer(c.Request.Context(), c.Param("email"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *PostHandler) UpdatePost(c *gin.Context) {
	var post model.Post
	if err := c.ShouldBindJSON(&post); err != nil {
		invalidParams(c, err)
		return
	}
	res, err := h.svc.UpsertPost(c.Request.Context(), c.Param("id"), &post)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *PostHandler) DeletePost(c *gin.Context) {
	res, err := h.svc.DeletePost(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
