package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/clockio/timetrack-system/internal/core/domain"
)

// sessionClaims is the identity injected by the Session middleware.
type sessionClaims struct {
	UserID   string
	Name     string
	Email    string
	Role     string
	IsOwner  bool
	TenantID string
}

// ctxClaims extracts the session claims and performs a fast-fail check
// before any service call: a session without a user id is structurally
// valid but operationally unusable.
func ctxClaims(c echo.Context) (sessionClaims, error) {
	claims := sessionClaims{}
	claims.UserID, _ = c.Get("user_id").(string)
	claims.Name, _ = c.Get("name").(string)
	claims.Email, _ = c.Get("email").(string)
	claims.Role, _ = c.Get("role").(string)
	claims.IsOwner, _ = c.Get("is_owner").(bool)
	claims.TenantID, _ = c.Get("tenant_id").(string)

	if claims.UserID == "" {
		return sessionClaims{}, echo.NewHTTPError(http.StatusUnauthorized, "missing session claims")
	}
	return claims, nil
}

// canAdminister reports whether the caller may perform admin operations:
// admins by role, owners unconditionally.
func (s sessionClaims) canAdminister() bool {
	return s.IsOwner || s.Role == domain.RoleAdmin
}
