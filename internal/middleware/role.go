package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/taskboard/internal/apperr"
	"github.com/iliyamo/taskboard/internal/auth"
	"github.com/iliyamo/taskboard/internal/model"
)

// RequireAdmin returns a middleware that restricts a route to ADMIN users.
// It must be composed after SessionAuth: when no resolved identity is in
// the context the middleware fails closed with an unauthorized response
// rather than treating the absent role as merely non-admin.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := auth.IdentityFrom(c)
			if !ok {
				// Miscomposed chain or anonymous request; never guess.
				return apperr.Unauthorized()
			}
			if id.Role != model.RoleAdmin {
				return apperr.Forbidden()
			}
			return next(c)
		}
	}
}
