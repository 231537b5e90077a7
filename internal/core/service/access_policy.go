package service

import (
	"net/url"
	"strings"

	"github.com/99minutos/storefront/internal/core/domain"
)

// Outcome is the terminal state of a gate decision.
type Outcome string

const (
	OutcomePublic          Outcome = "public"
	OutcomeUnauthenticated Outcome = "unauthenticated"
	OutcomeRoleDenied      Outcome = "role_denied"
	OutcomeAllowed         Outcome = "allowed"
)

// AccessRule classifies every path starting with Prefix. A rule with an
// empty Role is public: matching requests bypass the session check
// entirely. A rule with a Role requires an authenticated identity holding
// that role.
//
// When several rules match, the highest Precedence wins; between rules of
// equal precedence a public rule wins. Raising a restricted rule's
// precedence lets it override a broader public prefix.
type AccessRule struct {
	Prefix     string
	Role       domain.Role
	Precedence int
}

// Public reports whether the rule bypasses authentication.
func (r AccessRule) Public() bool { return r.Role == "" }

// LoginRoute sends unauthenticated requests under Prefix to Path.
type LoginRoute struct {
	Prefix string
	Path   string
}

// AccessPolicy is the configuration of the session gate.
type AccessPolicy struct {
	Rules []AccessRule
	// Logins are checked in order; the first matching prefix wins.
	Logins           []LoginRoute
	DefaultLoginPath string
	ForbiddenPath    string
	// CallbackParam carries the original destination on login redirects.
	CallbackParam string
}

// DefaultAccessPolicy returns the storefront's policy: a buyer shop at the
// root and an admin section under /admin, each with its own login page.
func DefaultAccessPolicy() AccessPolicy {
	return AccessPolicy{
		Rules: []AccessRule{
			{Prefix: "/login"},
			{Prefix: "/admin/login"},
			{Prefix: "/forbidden"},
			{Prefix: "/api/auth/login"},
			{Prefix: "/api/catalog"},
			{Prefix: "/catalog"},
			{Prefix: "/health"},
			{Prefix: "/metrics"},
			{Prefix: "/swagger/"},
			{Prefix: "/static/"},
			{Prefix: "/admin", Role: domain.RoleAdmin},
			{Prefix: "/api/admin", Role: domain.RoleAdmin},
		},
		Logins: []LoginRoute{
			{Prefix: "/admin", Path: "/admin/login"},
			{Prefix: "/api/admin", Path: "/admin/login"},
		},
		DefaultLoginPath: "/login",
		ForbiddenPath:    "/forbidden",
		CallbackParam:    "callbackUrl",
	}
}

// Decision is the result of evaluating a request against the policy.
// Redirect is set for the Unauthenticated and RoleDenied outcomes; Identity
// is set once a session was decoded.
type Decision struct {
	Outcome       Outcome
	Redirect      string
	Rule          *AccessRule
	Identity      domain.Identity
	Authenticated bool
}

// Classify returns the rule governing path, or nil when no rule matches.
func (p AccessPolicy) Classify(path string) *AccessRule {
	var best *AccessRule
	for i := range p.Rules {
		r := &p.Rules[i]
		if !strings.HasPrefix(path, r.Prefix) {
			continue
		}
		if best == nil || r.Precedence > best.Precedence ||
			(r.Precedence == best.Precedence && r.Public() && !best.Public()) {
			best = r
		}
	}
	return best
}

// Decide runs the gate state machine for one request. target is the
// original path plus query, used as the login callback. identify decodes
// the request's session; it is only called for non-public paths and reports
// false when no trustworthy session is present.
func (p AccessPolicy) Decide(path, target string, identify func() (domain.Identity, bool)) Decision {
	rule := p.Classify(path)
	if rule != nil && rule.Public() {
		return Decision{Outcome: OutcomePublic, Rule: rule}
	}

	id, ok := identify()
	if !ok {
		return Decision{Outcome: OutcomeUnauthenticated, Redirect: p.loginRedirect(path, target), Rule: rule}
	}

	d := Decision{Rule: rule, Identity: id, Authenticated: true}
	if rule != nil && id.Role != rule.Role {
		d.Outcome = OutcomeRoleDenied
		d.Redirect = p.ForbiddenPath
		return d
	}
	d.Outcome = OutcomeAllowed
	return d
}

// LoginPath returns the login page responsible for path.
func (p AccessPolicy) LoginPath(path string) string {
	for _, l := range p.Logins {
		if strings.HasPrefix(path, l.Prefix) {
			return l.Path
		}
	}
	return p.DefaultLoginPath
}

func (p AccessPolicy) loginRedirect(path, target string) string {
	if target == "" {
		target = path
	}
	q := url.Values{}
	q.Set(p.CallbackParam, target)
	return p.LoginPath(path) + "?" + q.Encode()
}
