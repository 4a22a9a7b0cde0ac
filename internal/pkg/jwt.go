package pkg

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenMissing = errors.New("token missing")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
	ErrEmptyEmail   = errors.New("email required")
)

// DefaultTokenTTL token 有效期一年，登出只清 cookie
const DefaultTokenTTL = 365 * 24 * time.Hour

// Identity token 里携带的身份
type Identity struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type Claims struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken 签发 HS256 token
func IssueToken(id Identity, secret []byte, now time.Time, ttl time.Duration) (string, error) {
	if strings.TrimSpace(id.Email) == "" {
		return "", ErrEmptyEmail
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: id.Email,
		Name:  id.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   "access",
		},
	})
	return token.SignedString(secret)
}

// ParseToken 校验签名和有效期，不依赖任何 web 框架；now 由调用方传入
func ParseToken(raw string, secret []byte, now time.Time) (*Identity, error) {
	if raw == "" {
		return nil, ErrTokenMissing
	}
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Email == "" {
		return nil, ErrTokenInvalid
	}
	return &Identity{Email: claims.Email, Name: claims.Name}, nil
}
