package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/core/domain"
)

// RBAC enforces role-based access control on a route group. The Gate already
// guards restricted prefixes; RBAC is for routes whose prefix alone does not
// say who may call them.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[id.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
