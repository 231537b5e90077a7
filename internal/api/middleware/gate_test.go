package middleware

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/service"
	"github.com/99minutos/storefront/internal/infrastructure/session"
)

type sinkRecorder struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
}

func (s *sinkRecorder) Record(e domain.SecurityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

type panickingCodec struct{}

func (panickingCodec) Encode(domain.Identity) (string, error) { return "", nil }
func (panickingCodec) Decode(string) (domain.Identity, error) { panic("boom") }

// gateServer mounts a handler that echoes the identity seen by the route.
func gateServer(t *testing.T, codec session.JSONCodec, sink *sinkRecorder) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Use(Gate(GateConfig{
		Policy:     service.DefaultAccessPolicy(),
		Codec:      codec,
		CookieName: session.CookieName,
		Audit:      sink,
		Log:        zerolog.Nop(),
	}))
	reached := func(c echo.Context) error {
		id, _ := IdentityFrom(c)
		return c.JSON(http.StatusOK, id)
	}
	for _, p := range []string{"/login", "/admin/login", "/admin/orders", "/orders", "/api/admin/orders", "/catalog"} {
		e.GET(p, reached)
	}
	return e
}

func credential(t *testing.T, raw string) *http.Cookie {
	t.Helper()
	return &http.Cookie{Name: session.CookieName, Value: url.QueryEscape(raw)}
}

func do(e *echo.Echo, target string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestGate_PublicPathWithoutSession(t *testing.T) {
	e := gateServer(t, session.JSONCodec{}, &sinkRecorder{})

	rec := do(e, "/login", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_PublicPathIgnoresGarbageCredential(t *testing.T) {
	e := gateServer(t, session.JSONCodec{}, &sinkRecorder{})

	rec := do(e, "/admin/login", &http.Cookie{Name: session.CookieName, Value: "{not valid json"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_MalformedCredentialRedirectsToAdminLogin(t *testing.T) {
	sink := &sinkRecorder{}
	e := gateServer(t, session.JSONCodec{}, sink)

	rec := do(e, "/admin/orders", &http.Cookie{Name: session.CookieName, Value: "{not valid json"})

	require.Equal(t, http.StatusFound, rec.Code)
	loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
	require.NoError(t, err)
	assert.Equal(t, "/admin/login", loc.Path)
	assert.Equal(t, "/admin/orders", loc.Query().Get("callbackUrl"))

	require.Len(t, sink.events, 1)
	assert.Equal(t, domain.EventUnauthenticated, sink.events[0].Kind)
	assert.Equal(t, "/admin/orders", sink.events[0].Path)
}

func TestGate_FailsClosed(t *testing.T) {
	e := gateServer(t, session.JSONCodec{}, &sinkRecorder{})

	cases := map[string]*http.Cookie{
		"missing":      nil,
		"empty":        {Name: session.CookieName, Value: ""},
		"not json":     {Name: session.CookieName, Value: "garbage"},
		"missing role": credential(t, `{"userId":"u1"}`),
		"unknown role": credential(t, `{"userId":"u1","role":"root"}`),
	}
	for name, cookie := range cases {
		t.Run(name, func(t *testing.T) {
			rec := do(e, "/orders?tab=open", cookie)
			require.Equal(t, http.StatusFound, rec.Code)
			loc, err := url.Parse(rec.Header().Get(echo.HeaderLocation))
			require.NoError(t, err)
			assert.Equal(t, "/login", loc.Path)
			assert.Equal(t, "/orders?tab=open", loc.Query().Get("callbackUrl"))
		})
	}
}

func TestGate_PanickingCodecIsNoSession(t *testing.T) {
	e := echo.New()
	e.Use(Gate(GateConfig{
		Policy:     service.DefaultAccessPolicy(),
		Codec:      panickingCodec{},
		CookieName: session.CookieName,
		Log:        zerolog.Nop(),
	}))
	e.GET("/orders", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	rec := do(e, "/orders", &http.Cookie{Name: session.CookieName, Value: "x"})
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestGate_BuyerOnAdminPathIsForbidden(t *testing.T) {
	sink := &sinkRecorder{}
	e := gateServer(t, session.JSONCodec{}, sink)
	buyer := credential(t, `{"userId":"u1","role":"buyer"}`)

	for _, path := range []string{"/admin/orders", "/api/admin/orders"} {
		rec := do(e, path, buyer)
		require.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/forbidden", rec.Header().Get(echo.HeaderLocation), path)
	}

	require.Len(t, sink.events, 2)
	assert.Equal(t, domain.EventRoleDenied, sink.events[0].Kind)
	assert.Equal(t, "u1", sink.events[0].UserID)
}

func TestGate_AdminOnAdminPathIsAllowed(t *testing.T) {
	e := gateServer(t, session.JSONCodec{}, &sinkRecorder{})

	rec := do(e, "/admin/orders", credential(t, `{"userId":"u2","role":"admin","sessionId":"s9"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"u2","role":"admin","sessionId":"s9"}`, rec.Body.String())
}

func TestGate_BuyerOnShopPathIsAllowed(t *testing.T) {
	e := gateServer(t, session.JSONCodec{}, &sinkRecorder{})

	rec := do(e, "/orders", credential(t, `{"userId":"u1","role":"buyer"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_UnescapedJSONCredential(t *testing.T) {
	e := gateServer(t, session.JSONCodec{}, &sinkRecorder{})

	get := func(path, header string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Cookie", header)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := get("/admin/orders", `session={"userId":"u1","role":"buyer"}`)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/forbidden", rec.Header().Get(echo.HeaderLocation))

	rec = get("/admin/orders", `theme=dark; session={"userId":"u2","role":"admin"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"userId":"u2","role":"admin"}`, rec.Body.String())

	rec = get("/admin/orders", `session={"userId":"u1"}`)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Header().Get(echo.HeaderLocation), "/admin/login?"))
}
