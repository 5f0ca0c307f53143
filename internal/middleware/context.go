package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/helha/gdpr-app/internal/auth"
)

// Context keys used to store authentication metadata.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyClaims    = "claims"
	ContextKeyRequestID = "request_id"
)

// UserIDFromContext returns the authenticated user's numeric id.
func UserIDFromContext(c echo.Context) (int64, bool) {
	raw, ok := c.Get(ContextKeyUserID).(string)
	if !ok || raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// ClaimsFromContext returns the verified token claims, if any.
func ClaimsFromContext(c echo.Context) (*auth.Claims, bool) {
	claims, ok := c.Get(ContextKeyClaims).(*auth.Claims)
	return claims, ok && claims != nil
}

func deny(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"status": "error", "message": message})
}
