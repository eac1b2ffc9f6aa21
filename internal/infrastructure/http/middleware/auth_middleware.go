package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/dealwise/deal-assistant/pkg/jwt"
)

// Echo context keys set by the auth middleware
const (
	ContextUserID   = "user_id"
	ContextTenantID = "tenant_id"
	ContextEmail    = "user_email"
	ContextRole     = "user_role"
)

// EchoAuth returns an Echo middleware that validates the access token and sets
// user_id and tenant_id (uuid.UUID) into the Echo context.
func EchoAuth(manager *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := manager.ValidateAccessToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(ContextUserID, claims.UserID)
			c.Set(ContextTenantID, claims.TenantID)
			c.Set(ContextEmail, claims.Email)
			c.Set(ContextRole, claims.Role)

			return next(c)
		}
	}
}

func extractToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

// UserID reads the authenticated user ID from the Echo context
func UserID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextUserID).(uuid.UUID)
	return id, ok
}

// TenantID reads the authenticated tenant ID from the Echo context
func TenantID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ContextTenantID).(uuid.UUID)
	return id, ok
}
