package handler

import (
	"net/http"
	"time"

	"Volunteer_Hub/internal/middleware"
	"Volunteer_Hub/internal/pkg"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	secret     []byte
	ttl        time.Duration
	production bool
	now        func() time.Time
}

type IssueTokenReq struct {
	Email string `json:"email" binding:"required,email"`
	Name  string `json:"name"`
}

// now 为 nil 时使用 time.Now
func NewAuthHandler(secret []byte, ttl time.Duration, production bool, now func() time.Time) *AuthHandler {
	if now == nil {
		now = time.Now
	}
	return &AuthHandler{secret: secret, ttl: ttl, production: production, now: now}
}

// IssueToken 签发 token 并写入 http-only cookie
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req IssueTokenReq
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidParams(c, err)
		return
	}

	token, err := pkg.IssueToken(pkg.Identity{Email: req.Email, Name: req.Name}, h.secret, h.now(), h.ttl)
	if err != nil {
		writeError(c, err)
		return
	}

	h.setTokenCookie(c, token, int(h.ttl/time.Second))
	c.String(http.StatusOK, token)
}

// Logout 无状态 token，清掉 cookie 即可
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setTokenCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// 生产环境前后端跨站：Secure + SameSite=None；本地开发：非 Secure + Strict
func (h *AuthHandler) setTokenCookie(c *gin.Context, value string, maxAge int) {
	if h.production {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteStrictMode)
	}
	c.SetCookie(middleware.TokenCookieName, value, maxAge, "/", "", h.production, true)
}
