package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// AdminGuard ensures only admin users can access admin routes
func AdminGuard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ident, ok := CurrentUser(c)
		if !ok || ident.Role != "admin" {
			return c.JSON(http.StatusForbidden, echo.Map{
				"message": "Admin access only",
			})
		}
		return next(c)
	}
}
