package ports

import "context"

// TokenSetStore owns the per-session sets of unconsumed CSRF tokens.
// Implementations must keep insertion order within a set and must not let
// operations on one session block operations on another.
type TokenSetStore interface {
	// Append adds token to the session's set, creating the set if needed,
	// then evicts the oldest tokens until at most limit remain.
	Append(ctx context.Context, sessionID, token string, limit int) error
	// Consume removes token from the session's set and reports whether it
	// was present.
	Consume(ctx context.Context, sessionID, token string) (bool, error)
	// Drop deletes the session's whole set. Dropping an absent set is a no-op.
	Drop(ctx context.Context, sessionID string) error
}
