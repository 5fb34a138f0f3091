// Package auth validates JWT bearer tokens and enforces role checks on the
// administrative surface.
package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/jonesrussell/gojobs/internal/logger"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"

	RoleAdmin = "admin"
)

// Claims is the token payload issued by the auth service.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

type Middleware struct {
	secret []byte
	logger logger.Logger
}

func NewMiddleware(secret string, log logger.Logger) *Middleware {
	return &Middleware{
		secret: []byte(secret),
		logger: log,
	}
}

// Authenticate validates the bearer token and stores the caller's identity on
// the request context. Requests without a valid token get 401.
func (m *Middleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := m.parseToken(c.GetHeader("Authorization"))
		if err != nil {
			m.logger.Debug("Rejected request with invalid token",
				logger.String("path", c.Request.URL.Path),
				logger.Error(err),
			)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Next()
	}
}

// RequireAdmin gates a route on the admin role. Must run after Authenticate.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextKeyRole) != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func (m *Middleware) parseToken(header string) (*Claims, error) {
	if header == "" {
		return nil, errors.New("missing authorization header")
	}

	tokenString, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return nil, errors.New("authorization header is not a bearer token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}
