package memory

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
)

const defaultAuditCapacity = 1000

// AuditRepository implements ports.AuditRepository without a database: every
// event is written to the log and the most recent ones are kept in memory.
type AuditRepository struct {
	mu       sync.Mutex
	events   []domain.SecurityEvent
	capacity int
	log      zerolog.Logger
}

// NewAuditRepository keeps the last capacity events; capacity <= 0 selects 1000.
func NewAuditRepository(capacity int, log zerolog.Logger) *AuditRepository {
	if capacity <= 0 {
		capacity = defaultAuditCapacity
	}
	return &AuditRepository{capacity: capacity, log: log}
}

func (r *AuditRepository) Insert(_ context.Context, event *domain.SecurityEvent) error {
	r.log.Info().
		Str("kind", string(event.Kind)).
		Str("session_id", event.SessionID).
		Str("user_id", event.UserID).
		Str("path", event.Path).
		Str("request_id", event.RequestID).
		Time("at", event.At).
		Msg("security event")

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.events) == r.capacity {
		r.events = append(r.events[:0], r.events[1:]...)
	}
	r.events = append(r.events, *event)
	return nil
}

// Events returns a copy of the retained events, oldest first.
func (r *AuditRepository) Events() []domain.SecurityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.SecurityEvent, len(r.events))
	copy(out, r.events)
	return out
}
