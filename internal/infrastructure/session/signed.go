package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/99minutos/storefront/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

type claims struct {
	UserID    string `json:"userId"`
	Role      string `json:"role"`
	SessionID string `json:"sessionId,omitempty"`
	jwt.RegisteredClaims
}

// SignedCodec encodes an identity as an HS256 JWT. Credentials with a bad
// signature, another algorithm, or a past expiry decode to
// domain.ErrInvalidSession just like unparseable ones.
type SignedCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewSignedCodec returns a SignedCodec; ttl <= 0 selects 24h.
func NewSignedCodec(secret string, ttl time.Duration) (*SignedCodec, error) {
	if secret == "" {
		return nil, errors.New("session: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &SignedCodec{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (c *SignedCodec) Encode(id domain.Identity) (string, error) {
	if _, ok := domain.ParseRole(string(id.Role)); !ok {
		return "", fmt.Errorf("encode session: %w", domain.ErrInvalidSession)
	}

	now := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		UserID:    id.UserID,
		Role:      string(id.Role),
		SessionID: id.SessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	})
	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("encode session: %w", err)
	}
	return signed, nil
}

func (c *SignedCodec) Decode(value string) (domain.Identity, error) {
	if value == "" {
		return domain.Identity{}, domain.ErrInvalidSession
	}

	var cl claims
	tkn, err := jwt.ParseWithClaims(value, &cl, func(token *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !tkn.Valid {
		return domain.Identity{}, domain.ErrInvalidSession
	}

	return checkIdentity(domain.Identity{
		UserID:    cl.UserID,
		Role:      domain.Role(cl.Role),
		SessionID: cl.SessionID,
	})
}
