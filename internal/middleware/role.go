package middleware // middleware provides shared request processing for handlers

import (
	"net/http" // http package defines standard HTTP status codes

	"github.com/labstack/echo/v4" // echo provides middleware chaining and context
)

// RequireAdmin aborts with 403 unless the request carries an account in
// the ADMIN or SUPERADMIN role. It assumes RequireAuth ran earlier in the
// chain so the account is already in context.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := CurrentAccount(c)
			if account == nil || !account.Role.IsAdmin() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
			}
			return next(c)
		}
	}
}

// RequireSuperadmin aborts with 403 unless the account holds SUPERADMIN.
func RequireSuperadmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			account := CurrentAccount(c)
			if account == nil || !account.Role.IsSuperadmin() {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "superadmin access required"})
			}
			return next(c)
		}
	}
}
