package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/api/metrics"
	"github.com/99minutos/storefront/internal/core/domain"
	"github.com/99minutos/storefront/internal/core/ports"
)

// tokenBytes is the amount of randomness in a CSRF token (256 bits). Tokens
// are rendered as 64 lowercase hex characters.
const tokenBytes = 32

// CSRFService issues and validates session-bound, single-use anti-forgery
// tokens. The token sets live in a ports.TokenSetStore, so the same contract
// holds in one process or against a shared cache.
type CSRFService struct {
	store     ports.TokenSetStore
	maxTokens int
	log       zerolog.Logger
}

// NewCSRFService returns a CSRFService keeping at most maxTokens unconsumed
// tokens per session. maxTokens <= 0 selects domain.DefaultMaxTokens.
func NewCSRFService(store ports.TokenSetStore, maxTokens int, log zerolog.Logger) *CSRFService {
	if maxTokens <= 0 {
		maxTokens = domain.DefaultMaxTokens
	}
	return &CSRFService{store: store, maxTokens: maxTokens, log: log}
}

// Issue generates a new token and registers it for sessionID, evicting the
// session's oldest token when the set is full.
func (s *CSRFService) Issue(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", fmt.Errorf("csrf issue: %w", domain.ErrInvalidSession)
	}

	token, err := newToken()
	if err != nil {
		return "", fmt.Errorf("csrf issue: %w", err)
	}

	if err := s.store.Append(ctx, sessionID, token, s.maxTokens); err != nil {
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("csrf token store append failed")
		return "", fmt.Errorf("csrf issue: %w", err)
	}

	metrics.CSRFTokensIssuedTotal.Inc()
	s.log.Debug().Str("session_id", sessionID).Msg("csrf token issued")
	return token, nil
}

// Validate reports whether token was issued to sessionID and not yet used.
// A successful validation consumes the token, so a second call with the same
// arguments returns false. Store failures are treated as a rejection.
func (s *CSRFService) Validate(ctx context.Context, sessionID, token string) bool {
	if token == "" || sessionID == "" {
		metrics.CSRFValidationsTotal.WithLabelValues("missing").Inc()
		return false
	}

	ok, err := s.store.Consume(ctx, sessionID, token)
	if err != nil {
		metrics.CSRFValidationsTotal.WithLabelValues("error").Inc()
		s.log.Error().Err(err).Str("session_id", sessionID).Msg("csrf token store consume failed")
		return false
	}
	if !ok {
		metrics.CSRFValidationsTotal.WithLabelValues("rejected").Inc()
		s.log.Warn().Str("session_id", sessionID).Msg("csrf token rejected")
		return false
	}

	metrics.CSRFValidationsTotal.WithLabelValues("accepted").Inc()
	return true
}

// RequireValid is Validate for callers that prefer error control flow.
func (s *CSRFService) RequireValid(ctx context.Context, sessionID, token string) error {
	if !s.Validate(ctx, sessionID, token) {
		return domain.ErrCSRFInvalid
	}
	return nil
}

// InvalidateAll discards every unconsumed token of sessionID. It is called
// at logout and on session rotation.
func (s *CSRFService) InvalidateAll(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.store.Drop(ctx, sessionID); err != nil {
		return fmt.Errorf("csrf invalidate: %w", err)
	}
	s.log.Debug().Str("session_id", sessionID).Msg("csrf tokens invalidated")
	return nil
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
