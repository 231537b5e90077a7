package domain

import "errors"

var (
	// ErrInvalidSession is returned by credential codecs for any credential
	// that must not be trusted: missing, unparseable, tampered, expired, or
	// lacking a known role.
	ErrInvalidSession = errors.New("invalid session")
	// ErrUnauthenticated is returned by handlers reached without an identity.
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("access forbidden")
)

// Identity is the decoded session principal. Role is fixed for the
// lifetime of the session; a role change requires a new login.
type Identity struct {
	UserID    string `json:"userId"`
	Role      Role   `json:"role"`
	SessionID string `json:"sessionId,omitempty"`
}

// SessionKey identifies the session for per-session state such as CSRF
// token sets. Credentials minted before session ids existed fall back to
// the user id.
func (i Identity) SessionKey() string {
	if i.SessionID != "" {
		return i.SessionID
	}
	return i.UserID
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
