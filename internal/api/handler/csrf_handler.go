package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// TokenIssuer mints CSRF tokens bound to a session.
type TokenIssuer interface {
	Issue(ctx context.Context, sessionID string) (string, error)
}

type CSRFHandler struct {
	issuer  TokenIssuer
	cookies CookieConfig
}

func NewCSRFHandler(issuer TokenIssuer, cookies CookieConfig) *CSRFHandler {
	return &CSRFHandler{issuer: issuer, cookies: cookies}
}

// Issue handles GET /api/csrf.
//
// @Summary      Issue a CSRF token
// @Description  Returns a single-use token bound to the caller's session. Send it back in the X-CSRF-Token header or the csrf_token form field.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  csrfResponse
// @Failure      302
// @Router       /api/csrf [get]
func (h *CSRFHandler) Issue(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}

	token, err := h.issuer.Issue(c.Request().Context(), id.SessionKey())
	if err != nil {
		return err
	}

	h.cookies.setCSRF(c, token)
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return c.JSON(http.StatusOK, csrfResponse{CSRFToken: token})
}
