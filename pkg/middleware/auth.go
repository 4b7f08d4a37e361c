package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/rafaelmedeirospb83/guimaps-admin/pkg/common"
)

const (
	// SessionIDKey is the gin context key for the operator session ID
	SessionIDKey = "session_id"
	// AdminIDKey is the gin context key for the authenticated admin ID
	AdminIDKey = "admin_id"
	// UpstreamTokenKey is the gin context key for the upstream bearer token
	UpstreamTokenKey = "upstream_token"
)

// SessionClaims are the claims inside the BFF-issued session JWT
type SessionClaims struct {
	SessionID string `json:"sid"`
	AdminID   string `json:"admin_id"`
	jwt.RegisteredClaims
}

// SessionLoader resolves a session ID into the upstream bearer token it holds.
// Implemented by internal/auth on top of redis.
type SessionLoader interface {
	UpstreamToken(ctx context.Context, sessionID string) (string, error)
}

// AuthMiddleware validates the session JWT and loads the operator session. Any
// failure here is a forced logout: the SPA clears credentials and redirects to
// login.
func AuthMiddleware(jwtSecret string, sessions SessionLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := parseSessionToken(c.GetHeader("Authorization"), jwtSecret)
		if err != nil {
			common.AppErrorResponse(c, common.ErrUnauthorized)
			c.Abort()
			return
		}

		token, err := sessions.UpstreamToken(c.Request.Context(), claims.SessionID)
		if err != nil || token == "" {
			common.AppErrorResponse(c, common.ErrUnauthorized)
			c.Abort()
			return
		}

		c.Set(SessionIDKey, claims.SessionID)
		c.Set(AdminIDKey, claims.AdminID)
		c.Set(UpstreamTokenKey, token)

		c.Next()
	}
}

func parseSessionToken(header, secret string) (*SessionClaims, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, errors.New("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.SessionID == "" {
		return nil, errors.New("invalid session token")
	}
	return claims, nil
}

// GetSessionID extracts the session ID set by AuthMiddleware
func GetSessionID(c *gin.Context) (string, error) {
	return getStringKey(c, SessionIDKey)
}

// GetAdminID extracts the authenticated admin ID
func GetAdminID(c *gin.Context) (string, error) {
	return getStringKey(c, AdminIDKey)
}

// GetUpstreamToken extracts the upstream bearer token for the current session
func GetUpstreamToken(c *gin.Context) (string, error) {
	return getStringKey(c, UpstreamTokenKey)
}

func getStringKey(c *gin.Context, key string) (string, error) {
	v, exists := c.Get(key)
	if !exists {
		return "", errors.New(key + " not set")
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", errors.New(key + " not set")
	}
	return s, nil
}
