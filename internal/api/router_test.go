package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/service"
	"github.com/99minutos/storefront/internal/infrastructure/memory"
	"github.com/99minutos/storefront/internal/infrastructure/session"
)

type recordingSink struct {
	kinds []domain.SecurityEventKind
}

func (s *recordingSink) Record(e domain.SecurityEvent) { s.kinds = append(s.kinds, e.Kind) }

type storefront struct {
	e     *echo.Echo
	audit *recordingSink
}

func newStorefront(t *testing.T) *storefront {
	t.Helper()
	log := zerolog.Nop()

	csrf := service.NewCSRFService(memory.NewTokenStore(), domain.DefaultMaxTokens, log)
	auth := service.NewAuthService(memory.NewUserRepository(), session.JSONCodec{}, csrf, log)
	ctx := context.Background()
	_, err := auth.Register(ctx, "buyer@example.com", "password", "Buyer", domain.RoleBuyer)
	require.NoError(t, err)
	_, err = auth.Register(ctx, "admin@example.com", "password", "Admin", domain.RoleAdmin)
	require.NoError(t, err)

	sink := &recordingSink{}
	e := NewRouter(Deps{
		Log:      log,
		Policy:   service.DefaultAccessPolicy(),
		Codec:    session.JSONCodec{},
		CSRF:     csrf,
		Auth:     auth,
		Catalog:  service.NewCatalogService(log),
		Cart:     service.NewCartService(log),
		Orders:   service.NewOrderService(log),
		Audit:    sink,
		Registry: prometheus.NewRegistry(),
	})
	return &storefront{e: e, audit: sink}
}

func (s *storefront) do(method, target, body string, headers map[string]string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func (s *storefront) login(t *testing.T, email, section string, cookies ...*http.Cookie) *http.Cookie {
	t.Helper()
	body := `{"email":"` + email + `","password":"password","section":"` + section + `"}`
	rec := s.do(http.MethodPost, "/api/auth/login", body, nil, cookies...)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			return &http.Cookie{Name: c.Name, Value: c.Value}
		}
	}
	t.Fatalf("login set no session cookie")
	return nil
}

func (s *storefront) csrfToken(t *testing.T, sess *http.Cookie) string {
	t.Helper()
	rec := s.do(http.MethodGet, "/api/csrf", "", nil, sess)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		CSRFToken string `json:"csrfToken"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.CSRFToken, 64)
	return resp.CSRFToken
}

func TestRouter_MutationNeedsSingleUseToken(t *testing.T) {
	s := newStorefront(t)
	sess := s.login(t, "buyer@example.com", "shop")
	token := s.csrfToken(t, sess)
	item := `{"product_id":"p1","quantity":1}`

	rec := s.do(http.MethodPost, "/api/cart/items", item, nil, sess)
	assert.Equal(t, http.StatusForbidden, rec.Code, "missing token")

	rec = s.do(http.MethodPost, "/api/cart/items", item, map[string]string{"X-CSRF-Token": token}, sess)
	assert.Equal(t, http.StatusNotImplemented, rec.Code, "valid token reaches the handler")

	rec = s.do(http.MethodPost, "/api/cart/items", item, map[string]string{"X-CSRF-Token": token}, sess)
	assert.Equal(t, http.StatusForbidden, rec.Code, "token reuse")
	assert.JSONEq(t, `{"error":"invalid csrf token"}`, rec.Body.String())

	assert.Contains(t, s.audit.kinds, domain.EventCSRFRejected)
}

func TestRouter_TokenIsBoundToSession(t *testing.T) {
	s := newStorefront(t)
	first := s.login(t, "buyer@example.com", "shop")
	second := s.login(t, "buyer@example.com", "shop")
	token := s.csrfToken(t, first)

	rec := s.do(http.MethodPost, "/api/orders", "", map[string]string{"X-CSRF-Token": token}, second)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = s.do(http.MethodPost, "/api/orders", "", map[string]string{"X-CSRF-Token": token}, first)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestRouter_LogoutInvalidatesTokens(t *testing.T) {
	s := newStorefront(t)
	sess := s.login(t, "buyer@example.com", "shop")
	stale := s.csrfToken(t, sess)
	logoutToken := s.csrfToken(t, sess)

	rec := s.do(http.MethodPost, "/api/auth/logout", "", map[string]string{"X-CSRF-Token": logoutToken}, sess)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/orders", "", map[string]string{"X-CSRF-Token": stale}, sess)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Gate(t *testing.T) {
	s := newStorefront(t)
	buyer := s.login(t, "buyer@example.com", "shop")
	admin := s.login(t, "admin@example.com", "admin")

	rec := s.do(http.MethodGet, "/admin/orders?page=2", "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin/login?callbackUrl="+url.QueryEscape("/admin/orders?page=2"), rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/orders", "", nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get("Location"), "/login?callbackUrl="))

	rec = s.do(http.MethodGet, "/api/admin/orders", "", nil, buyer)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/forbidden", rec.Header().Get("Location"))

	rec = s.do(http.MethodGet, "/api/admin/orders", "", nil, admin)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)

	rec = s.do(http.MethodGet, "/login", "", nil, &http.Cookie{Name: session.CookieName, Value: "garbage"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/catalog/products", "", nil)
	assert.Equal(t, http.StatusNotImplemented, rec.Code, "catalog is public")

	rec = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Contains(t, s.audit.kinds, domain.EventUnauthenticated)
	assert.Contains(t, s.audit.kinds, domain.EventRoleDenied)
}

func TestRouter_AdminLoginRefusesBuyer(t *testing.T) {
	s := newStorefront(t)
	rec := s.do(http.MethodPost, "/api/auth/login", `{"email":"buyer@example.com","password":"password","section":"admin"}`, nil)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestRouter_AdminMutationNeedsToken(t *testing.T) {
	s := newStorefront(t)
	admin := s.login(t, "admin@example.com", "admin")
	body := `{"status":"shipped"}`

	rec := s.do(http.MethodPatch, "/api/admin/orders/o1/status", body, nil, admin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	token := s.csrfToken(t, admin)
	rec = s.do(http.MethodPatch, "/api/admin/orders/o1/status", body, map[string]string{"X-CSRF-Token": token}, admin)
	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	s := newStorefront(t)
	s.do(http.MethodGet, "/health", "", nil)

	rec := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")
}

func TestRouter_ReloginDropsReplacedSessionTokens(t *testing.T) {
	s := newStorefront(t)
	old := s.login(t, "buyer@example.com", "shop")
	token := s.csrfToken(t, old)

	fresh := s.login(t, "buyer@example.com", "shop", old)
	require.NotEqual(t, old.Value, fresh.Value)

	rec := s.do(http.MethodPost, "/api/orders", "", map[string]string{"X-CSRF-Token": token}, old)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_UnknownAPIRouteIsNotFound(t *testing.T) {
	s := newStorefront(t)
	sess := s.login(t, "buyer@example.com", "shop")

	rec := s.do(http.MethodPost, "/api/nope", `{}`, nil, sess)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodDelete, "/api/cart/items/p1/extra", "", nil, sess)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
