package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Volunteer_Hub/internal/pkg"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSecret = []byte("middleware-secret")
	testNow    = time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthEngine(reached *bool) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(testSecret, func() time.Time { return testNow }))
	r.GET("/me", func(c *gin.Context) {
		*reached = true
		identity, ok := CurrentIdentity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, identity.Email)
	})
	r.GET("/owner/:email", OwnerOnly("email"), func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusOK)
	})
	return r
}

func tokenFor(t *testing.T, email string, issuedAt time.Time, ttl time.Duration) string {
	t.Helper()
	token, err := pkg.IssueToken(pkg.Identity{Email: email}, testSecret, issuedAt, ttl)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		cookie     string
		wantStatus int
		wantReach  bool
	}{
		{"no cookie", "", http.StatusUnauthorized, false},
		{"garbage token", "abc.def.ghi", http.StatusUnauthorized, false},
		{"expired token", tokenFor(t, "ann@example.com", testNow.Add(-2*time.Hour), time.Hour), http.StatusUnauthorized, false},
		{"valid token", tokenFor(t, "ann@example.com", testNow, time.Hour), http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := newAuthEngine(&reached)

			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: tt.cookie})
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantReach, reached)
			if tt.wantReach {
				assert.Equal(t, "ann@example.com", w.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareIgnoresAuthorizationHeader(t *testing.T) {
	reached := false
	r := newAuthEngine(&reached)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "ann@example.com", testNow, time.Hour))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, reached)
}

func TestOwnerOnly(t *testing.T) {
	token := tokenFor(t, "ann@example.com", testNow, time.Hour)

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"owner", "/owner/ann@example.com", http.StatusOK},
		{"someone else", "/owner/bob@example.com", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reached := false
			r := newAuthEngine(&reached)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.AddCookie(&http.Cookie{Name: TokenCookieName, Value: token})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, reached)
		})
	}
}

func TestOwnerOnlyWithoutIdentity(t *testing.T) {
	r := gin.New()
	r.GET("/owner/:email", OwnerOnly("email"), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/owner/ann@example.com", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
