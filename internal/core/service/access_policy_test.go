package service

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/99minutos/storefront/internal/core/domain"
)

func withSession(id domain.Identity) func() (domain.Identity, bool) {
	return func() (domain.Identity, bool) { return id, true }
}

func noSession() (domain.Identity, bool) { return domain.Identity{}, false }

var (
	buyer = domain.Identity{UserID: "u1", Role: domain.RoleBuyer}
	admin = domain.Identity{UserID: "u2", Role: domain.RoleAdmin}
)

func callback(t *testing.T, redirect string) (string, string) {
	t.Helper()
	u, err := url.Parse(redirect)
	require.NoError(t, err)
	return u.Path, u.Query().Get("callbackUrl")
}

func TestDecide_PublicBypassSkipsSession(t *testing.T) {
	p := DefaultAccessPolicy()
	for _, path := range []string{"/login", "/admin/login", "/forbidden", "/api/auth/login", "/catalog/shoes", "/health", "/swagger/index.html"} {
		d := p.Decide(path, path, func() (domain.Identity, bool) {
			t.Fatalf("session decoded for public path %s", path)
			return domain.Identity{}, false
		})
		assert.Equal(t, OutcomePublic, d.Outcome, path)
		assert.Empty(t, d.Redirect, path)
	}
}

func TestDecide_PublicWinsOverRestricted(t *testing.T) {
	// /admin/login matches both the public /admin/login and the admin /admin rule.
	d := DefaultAccessPolicy().Decide("/admin/login", "/admin/login", noSession)
	assert.Equal(t, OutcomePublic, d.Outcome)
}

func TestDecide_UnauthenticatedRedirectsToSectionLogin(t *testing.T) {
	p := DefaultAccessPolicy()
	cases := []struct {
		path, target, login string
	}{
		{"/admin/orders", "/admin/orders", "/admin/login"},
		{"/api/admin/orders", "/api/admin/orders?status=paid", "/admin/login"},
		{"/cart", "/cart", "/login"},
		{"/orders/42", "/orders/42?tab=items", "/login"},
		{"/", "/", "/login"},
	}
	for _, tc := range cases {
		d := p.Decide(tc.path, tc.target, noSession)
		assert.Equal(t, OutcomeUnauthenticated, d.Outcome, tc.path)
		assert.False(t, d.Authenticated)

		login, cb := callback(t, d.Redirect)
		assert.Equal(t, tc.login, login, tc.path)
		assert.Equal(t, tc.target, cb, tc.path)
	}
}

func TestDecide_RoleGate(t *testing.T) {
	p := DefaultAccessPolicy()
	for _, path := range []string{"/admin", "/admin/orders", "/api/admin/orders/1/status"} {
		d := p.Decide(path, path, withSession(buyer))
		assert.Equal(t, OutcomeRoleDenied, d.Outcome, path)
		assert.Equal(t, "/forbidden", d.Redirect, path)
		assert.Equal(t, buyer, d.Identity)

		d = p.Decide(path, path, withSession(admin))
		assert.Equal(t, OutcomeAllowed, d.Outcome, path)
		assert.Empty(t, d.Redirect)
	}
}

func TestDecide_AnyRoleAllowedOnUnrestrictedPaths(t *testing.T) {
	p := DefaultAccessPolicy()
	for _, id := range []domain.Identity{buyer, admin} {
		d := p.Decide("/orders", "/orders", withSession(id))
		assert.Equal(t, OutcomeAllowed, d.Outcome)
		assert.True(t, d.Authenticated)
		assert.Equal(t, id, d.Identity)
		assert.Nil(t, d.Rule)
	}
}

func TestDecide_PrecedenceOverride(t *testing.T) {
	p := AccessPolicy{
		Rules: []AccessRule{
			{Prefix: "/reports"},
			{Prefix: "/reports/finance", Role: domain.RoleAdmin, Precedence: 10},
		},
		DefaultLoginPath: "/login",
		ForbiddenPath:    "/forbidden",
		CallbackParam:    "callbackUrl",
	}

	assert.Equal(t, OutcomePublic, p.Decide("/reports/weekly", "/reports/weekly", noSession).Outcome)
	assert.Equal(t, OutcomeRoleDenied, p.Decide("/reports/finance/q1", "/reports/finance/q1", withSession(buyer)).Outcome)
	assert.Equal(t, OutcomeAllowed, p.Decide("/reports/finance/q1", "/reports/finance/q1", withSession(admin)).Outcome)
}

func TestClassify(t *testing.T) {
	p := DefaultAccessPolicy()

	assert.Nil(t, p.Classify("/cart"))

	r := p.Classify("/admin/orders")
	require.NotNil(t, r)
	assert.Equal(t, domain.RoleAdmin, r.Role)

	r = p.Classify("/admin/login")
	require.NotNil(t, r)
	assert.True(t, r.Public())
}

func TestLoginPath(t *testing.T) {
	p := DefaultAccessPolicy()
	assert.Equal(t, "/admin/login", p.LoginPath("/admin/orders"))
	assert.Equal(t, "/admin/login", p.LoginPath("/api/admin/orders"))
	assert.Equal(t, "/login", p.LoginPath("/cart"))
}
