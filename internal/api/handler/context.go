package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/api/middleware"
	"github.com/99minutos/storefront/internal/core/domain"
)

// requireIdentity returns the identity the Gate attached to the request.
// Routes behind the Gate always have one; a missing identity means the
// route was mounted on a public prefix by mistake.
func requireIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c)
	if !ok || id.UserID == "" {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
