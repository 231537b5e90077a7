package middleware

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

const (
	CSRFHeaderName = "X-CSRF-Token"
	CSRFFormField  = "csrf_token"
	CSRFCookieName = "csrf_token"
)

var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

// TokenChecker consumes a CSRF token, failing with domain.ErrCSRFInvalid.
type TokenChecker interface {
	RequireValid(ctx context.Context, sessionID, token string) error
}

// CSRF rejects state-changing requests that do not echo back a token issued
// to the caller's session. The token is read from the X-CSRF-Token header or
// the csrf_token form field, never from the cookie that delivered it. Must
// run after Gate.
func CSRF(checker TokenChecker, audit ports.AuditSink, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if safeMethods[req.Method] {
				return next(c)
			}

			id, ok := IdentityFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}

			token := req.Header.Get(CSRFHeaderName)
			if token == "" {
				token = c.FormValue(CSRFFormField)
			}

			if err := checker.RequireValid(req.Context(), id.SessionKey(), token); err != nil {
				log.Warn().
					Str("session_id", id.SessionKey()).
					Str("method", req.Method).
					Str("path", req.URL.Path).
					Bool("token_present", token != "").
					Msg("csrf check failed")
				record(audit, c, domain.EventCSRFRejected, id)
				return err
			}
			return next(c)
		}
	}
}
