package handler

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/storefront/internal/api/middleware"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
	"github.com/99minutos/storefront/internal/infrastructure/session"
)

const (
	sectionShop  = "shop"
	sectionAdmin = "admin"
)

type AuthHandler struct {
	authService ports.AuthService
	codec       ports.SessionCodec
	audit       ports.AuditSink
	cookies     CookieConfig
}

// NewAuthHandler builds the login/logout endpoints. codec decodes the
// credential a login replaces; codec and audit may be nil.
func NewAuthHandler(authService ports.AuthService, codec ports.SessionCodec, audit ports.AuditSink, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, codec: codec, audit: audit, cookies: cookies}
}

// Login authenticates a user and sets the session cookie.
//
// @Summary      Login
// @Description  Verifies the credentials and sets the session cookie. Logging into the admin section requires the admin role.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	if req.Section == "" {
		req.Section = sectionShop
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	if req.Section == sectionAdmin && !result.Identity.IsAdmin() {
		return domain.ErrForbidden
	}

	// The replaced session's tokens must not outlive its cookie.
	if prev, ok := h.previousSession(c); ok && prev.SessionKey() != result.Identity.SessionKey() {
		if err := h.authService.Logout(c.Request().Context(), prev); err != nil {
			return err
		}
	}

	h.cookies.setSession(c, result.Credential)
	h.record(c, domain.EventLogin, result.Identity)

	return c.JSON(http.StatusOK, loginResponse{
		User:     result.User,
		Identity: result.Identity,
		Redirect: safeRedirect(req.CallbackURL, req.Section),
	})
}

// Logout drops every CSRF token of the session and clears the cookies.
//
// @Summary      Logout
// @Tags         auth
// @Param        X-CSRF-Token  header  string  true  "CSRF token"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), id); err != nil {
		return err
	}

	h.cookies.clear(c)
	h.record(c, domain.EventLogout, id)
	return c.NoContent(http.StatusNoContent)
}

// Me returns the identity carried by the session cookie.
//
// @Summary      Current identity
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.Identity
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := requireIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}

func (h *AuthHandler) record(c echo.Context, kind domain.SecurityEventKind, id domain.Identity) {
	if h.audit == nil {
		return
	}
	req := c.Request()
	h.audit.Record(domain.SecurityEvent{
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

// previousSession decodes the session cookie sent along with a login.
func (h *AuthHandler) previousSession(c echo.Context) (domain.Identity, bool) {
	if h.codec == nil {
		return domain.Identity{}, false
	}
	raw, ok := middleware.SessionCredential(c, session.CookieName)
	if !ok {
		return domain.Identity{}, false
	}
	id, err := h.codec.Decode(raw)
	if err != nil {
		return domain.Identity{}, false
	}
	return id, true
}

// safeRedirect only follows callbacks that stay on this site.
func safeRedirect(callback, section string) string {
	if isLocalPath(callback) {
		return callback
	}
	if section == sectionAdmin {
		return "/admin"
	}
	return "/"
}

// isLocalPath accepts absolute paths on this host. Browsers drop tabs and
// newlines while parsing, so "/\t/evil.example" would become "//evil.example";
// any control byte or backslash is refused.
func isLocalPath(p string) bool {
	for i := 0; i < len(p); i++ {
		if p[i] < 0x20 || p[i] == 0x7f || p[i] == '\\' {
			return false
		}
	}
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return false
	}
	u, err := url.Parse(p)
	return err == nil && u.Scheme == "" && u.Host == "" && u.User == nil
}
