// Package session encodes the storefront's session credential: the value of
// the "session" cookie that the gate decodes on every request.
//
// Two codecs share one contract. JSONCodec stores the identity as URL-escaped
// JSON and trusts whatever parses; it exists for local development and for
// clients that mint their own credentials. SignedCodec stores an HS256 JWT
// and also rejects tampered or expired credentials. Both fail closed: any
// value they cannot fully trust decodes to domain.ErrInvalidSession.
package session

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/99minutos/storefront/internal/core/domain"
)

// CookieName is the name of the cookie carrying the session credential.
const CookieName = "session"

// JSONCodec encodes an identity as URL-escaped JSON, e.g.
// %7B%22userId%22%3A%22u1%22%2C%22role%22%3A%22buyer%22%7D.
// URL escaping keeps the value within the cookie-octet alphabet. Decode
// also accepts the unescaped JSON object as is.
type JSONCodec struct{}

func (JSONCodec) Encode(id domain.Identity) (string, error) {
	if _, ok := domain.ParseRole(string(id.Role)); !ok {
		return "", fmt.Errorf("encode session: %w", domain.ErrInvalidSession)
	}
	b, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return url.QueryEscape(string(b)), nil
}

func (JSONCodec) Decode(value string) (domain.Identity, error) {
	if value == "" {
		return domain.Identity{}, domain.ErrInvalidSession
	}
	raw := value
	if !strings.HasPrefix(value, "{") {
		var err error
		if raw, err = url.QueryUnescape(value); err != nil {
			return domain.Identity{}, domain.ErrInvalidSession
		}
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil {
		return domain.Identity{}, domain.ErrInvalidSession
	}
	return checkIdentity(id)
}

// checkIdentity enforces the minimum credential contents: a known role.
func checkIdentity(id domain.Identity) (domain.Identity, error) {
	role, ok := domain.ParseRole(string(id.Role))
	if !ok {
		return domain.Identity{}, domain.ErrInvalidSession
	}
	id.Role = role
	return id, nil
}
