package ports

import (
	"context"

	"github.com/99minutos/storefront/internal/core/domain"
)

// AuditRepository persists security events.
type AuditRepository interface {
	Insert(ctx context.Context, event *domain.SecurityEvent) error
}

// AuditSink accepts security events from the request path. Record must not
// block the caller.
type AuditSink interface {
	Record(event domain.SecurityEvent)
}
