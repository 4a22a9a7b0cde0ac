package middleware

import (
	"net/http"
	"time"

	"Volunteer_Hub/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextIdentityKey = "identity"
	TokenCookieName    = "token"
)

// AuthMiddleware 从 cookie 取 token 校验，通过后把身份注入上下文
func AuthMiddleware(secret []byte, now func() time.Time) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(TokenCookieName)
		if err != nil || tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized access"})
			return
		}

		identity, err := pkg.ParseToken(tokenStr, secret, now())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized access"})
			return
		}

		c.Set(ContextIdentityKey, identity)
		c.Next()
	}
}

// OwnerOnly 路径参数里的邮箱必须和 token 身份一致，需挂在 AuthMiddleware 之后
func OwnerOnly(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "unauthorized access"})
			return
		}
		if c.Param(param) != identity.Email {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"msg": "forbidden access"})
			return
		}
		c.Next()
	}
}

func CurrentIdentity(c *gin.Context) (*pkg.Identity, bool) {
	v, ok := c.Get(ContextIdentityKey)
	if !ok {
		return nil, false
	}
	identity, ok := v.(*pkg.Identity)
	return identity, ok && identity != nil
}
