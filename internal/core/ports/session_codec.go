package ports

import "github.com/99minutos/storefront/internal/core/domain"

// SessionCodec converts between an Identity and the value stored in the
// session cookie. Decode must fail with domain.ErrInvalidSession for any
// value it cannot fully trust.
type SessionCodec interface {
	Encode(id domain.Identity) (string, error)
	Decode(value string) (domain.Identity, error)
}
