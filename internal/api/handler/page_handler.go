package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/api/middleware"
)

// PageHandler answers the storefront's page routes with a JSON description
// of the page. Rendering belongs to the frontend.
type PageHandler struct {
	callbackParam string
}

func NewPageHandler(callbackParam string) *PageHandler {
	return &PageHandler{callbackParam: callbackParam}
}

// Page returns a handler describing the named page and, when present, the
// signed-in user.
func (h *PageHandler) Page(name string) echo.HandlerFunc {
	return h.page(name, http.StatusOK)
}

// Login describes a login page, echoing back where to go after sign-in.
func (h *PageHandler) Login(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, pageResponse{
			Page:        name,
			CallbackURL: c.QueryParam(h.callbackParam),
		})
	}
}

// Forbidden is where the Gate sends users lacking the required role.
func (h *PageHandler) Forbidden() echo.HandlerFunc {
	return h.page("forbidden", http.StatusForbidden)
}

func (h *PageHandler) page(name string, status int) echo.HandlerFunc {
	return func(c echo.Context) error {
		resp := pageResponse{Page: name}
		if id, ok := middleware.IdentityFrom(c); ok {
			resp.User = &id
		}
		return c.JSON(status, resp)
	}
}
