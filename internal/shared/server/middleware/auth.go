package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvbuilder-backend/internal/shared/auth"
	"cvbuilder-backend/internal/shared/server/respond"
)

const (
	accountIDKey    = "accountId"
	accountEmailKey = "accountEmail"
	accountRoleKey  = "accountRole"
)

// Auth validates bearer tokens and stores identity in context. Health,
// auth, and public share endpoints are reachable without a token; dev
// endpoints are open only outside production.
func Auth(env string, tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			return
		}

		if isPublicPath(env, c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if token == "" {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		claims, err := tokens.ParseAccessToken(token)
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
			return
		}

		c.Set(accountIDKey, claims.Subject)
		if claims.Email != "" {
			c.Set(accountEmailKey, claims.Email)
		}
		if claims.Role != "" {
			c.Set(accountRoleKey, claims.Role)
		}
		c.Next()
	}
}

func isPublicPath(env, path string) bool {
	if path == "/api/v1/health" {
		return true
	}
	if strings.HasPrefix(path, "/api/v1/auth/") {
		return true
	}
	if strings.HasPrefix(path, "/api/v1/shared/") {
		return true
	}
	if env == "dev" && strings.HasPrefix(path, "/api/v1/dev/") {
		return true
	}
	return false
}

// AccountIDFromContext fetches the account ID set by the auth middleware.
func AccountIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(accountIDKey)
	if id, ok := val.(string); ok {
		return id
	}
	return ""
}

// AccountEmailFromContext fetches the account email set by the auth middleware.
func AccountEmailFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(accountEmailKey)
	if email, ok := val.(string); ok {
		return email
	}
	return ""
}

// AccountRoleFromContext fetches the account role set by the auth middleware.
func AccountRoleFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	val, _ := c.Get(accountRoleKey)
	if role, ok := val.(string); ok {
		return role
	}
	return ""
}
