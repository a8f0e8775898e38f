package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ibpipeline/pipeline-api/internal/core/domain"
)

// Require enforces the access policy for a single permission. Denial
// short-circuits before the handler runs, so no state is mutated and no
// audit event is emitted for a forbidden request.
func Require(perm domain.Permission) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(string)
			if !domain.Allowed(role, perm) {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
