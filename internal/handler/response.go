package handler

import (
	"errors"
	"net/http"
	"strings"

	"Volunteer_Hub/internal/repository"
	"Volunteer_Hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DuplicateRequestMsg 重复申请时返回的纯文本，前端直接展示
const DuplicateRequestMsg = "You have already requested in this"

// writeError 统一的错误到状态码映射
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateRequest):
		c.String(http.StatusBadRequest, DuplicateRequestMsg)
	case errors.Is(err, repository.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid id"})
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}

func invalidParams(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
}

// RegisterValidators 在 gin 的校验引擎上注册自定义规则，需在绑定前调用
func RegisterValidators() {
	binding.EnableDecoderDisallowUnknownFields = true
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", notBlank)
	}
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}
