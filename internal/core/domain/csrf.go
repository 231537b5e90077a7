package domain

import "errors"

// DefaultMaxTokens is how many unconsumed CSRF tokens a session may hold.
// Issuing past the limit evicts the oldest token.
const DefaultMaxTokens = 10

// ErrCSRFInvalid rejects a state-changing request whose anti-forgery token
// was missing, unknown to the session, or already used. The caller may issue
// a fresh token and ask the client to retry.
var ErrCSRFInvalid = errors.New("invalid csrf token")
