package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// RequireRoles gates a route to the given roles. Owners always pass: the
// Owner flag outranks role bookkeeping everywhere, including here.
func RequireRoles(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isOwner, _ := c.Get("is_owner").(bool); isOwner {
				return next(c)
			}

			role, _ := c.Get("role").(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
