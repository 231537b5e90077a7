package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/core/domain"
)

const identityKey = "identity"

// IdentityFrom returns the identity the Gate attached to c.
func IdentityFrom(c echo.Context) (domain.Identity, bool) {
	id, ok := c.Get(identityKey).(domain.Identity)
	return id, ok
}

// WithIdentity attaches id to c. The Gate does this for every authenticated
// request; tests and handlers that mint a session use it directly.
func WithIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}
