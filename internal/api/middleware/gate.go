package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/api/metrics"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
	"github.com/99minutos/storefront/internal/core/service"
)

// GateConfig configures the session gate.
type GateConfig struct {
	Policy     service.AccessPolicy
	Codec      ports.SessionCodec
	CookieName string
	// Audit receives unauthenticated and role-denied events. Optional.
	Audit ports.AuditSink
	Log   zerolog.Logger
}

// Gate intercepts every request before routing. Public paths pass through
// untouched. Otherwise the session cookie is decoded; requests without a
// trustworthy session are redirected to the login page of their site
// section with the original destination as callback, and requests whose
// role does not match a restricted prefix are redirected to the forbidden
// page. Neither case is reported as an error.
func Gate(cfg GateConfig) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			d := cfg.Policy.Decide(req.URL.Path, req.URL.RequestURI(), func() (domain.Identity, bool) {
				return decodeSession(c, cfg.CookieName, cfg.Codec)
			})
			metrics.GateDecisionsTotal.WithLabelValues(string(d.Outcome)).Inc()

			switch d.Outcome {
			case service.OutcomePublic:
				return next(c)
			case service.OutcomeAllowed:
				WithIdentity(c, d.Identity)
				return next(c)
			case service.OutcomeUnauthenticated:
				cfg.Log.Debug().Str("path", req.URL.Path).Str("redirect", d.Redirect).Msg("no session, redirecting to login")
				record(cfg.Audit, c, domain.EventUnauthenticated, domain.Identity{})
			case service.OutcomeRoleDenied:
				cfg.Log.Warn().
					Str("path", req.URL.Path).
					Str("user_id", d.Identity.UserID).
					Str("role", string(d.Identity.Role)).
					Msg("role denied")
				record(cfg.Audit, c, domain.EventRoleDenied, d.Identity)
			}
			return c.Redirect(http.StatusFound, d.Redirect)
		}
	}
}

// decodeSession reads the session credential. Every failure, including a
// panicking codec, means "no session".
func decodeSession(c echo.Context, cookieName string, codec ports.SessionCodec) (id domain.Identity, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			id, ok = domain.Identity{}, false
		}
	}()

	raw, found := SessionCredential(c, cookieName)
	if !found {
		return domain.Identity{}, false
	}
	id, err := codec.Decode(raw)
	if err != nil {
		return domain.Identity{}, false
	}
	return id, true
}

// SessionCredential returns the raw value of the named cookie. net/http
// drops values outside the cookie-octet alphabet, such as unescaped JSON,
// so those are read from the Cookie header directly.
func SessionCredential(c echo.Context, name string) (string, bool) {
	if cookie, err := c.Cookie(name); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	for _, line := range c.Request().Header.Values("Cookie") {
		for _, part := range strings.Split(line, ";") {
			k, v, ok := strings.Cut(strings.TrimSpace(part), "=")
			if ok && k == name && v != "" {
				return v, true
			}
		}
	}
	return "", false
}

func record(sink ports.AuditSink, c echo.Context, kind domain.SecurityEventKind, id domain.Identity) {
	if sink == nil {
		return
	}
	req := c.Request()
	sink.Record(domain.SecurityEvent{
		Kind:      kind,
		SessionID: id.SessionKey(),
		UserID:    id.UserID,
		Role:      id.Role,
		Method:    req.Method,
		Path:      req.URL.Path,
		RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
		At:        time.Now().UTC(),
	})
}
