package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/api/middleware"
	"github.com/99minutos/storefront/internal/infrastructure/session"
)

// CookieConfig controls the attributes of the cookies the API sets.
type CookieConfig struct {
	Secure     bool
	SessionTTL time.Duration
}

func (cc CookieConfig) setSession(c echo.Context, value string) {
	c.SetCookie(&http.Cookie{
		Name:     session.CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(cc.SessionTTL / time.Second),
		HttpOnly: true,
		Secure:   cc.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// setCSRF delivers the newest token to the page. Scripts must read it, so it
// is not HttpOnly.
func (cc CookieConfig) setCSRF(c echo.Context, token string) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CSRFCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(cc.SessionTTL / time.Second),
		Secure:   cc.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (cc CookieConfig) clear(c echo.Context) {
	for _, name := range []string{session.CookieName, middleware.CSRFCookieName} {
		c.SetCookie(&http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: name == session.CookieName,
			Secure:   cc.Secure,
		})
	}
}
