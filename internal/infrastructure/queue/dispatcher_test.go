package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/99minutos/storefront/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.SecurityEvent
	err    error
}

func (r *recordingRepo) Insert(_ context.Context, event *domain.SecurityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, *event)
	return nil
}

func (r *recordingRepo) snapshot() []domain.SecurityEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.SecurityEvent(nil), r.events...)
}

func TestAuditDispatcher_StoresEverythingBeforeStopping(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(3, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	for i := 0; i < 100; i++ {
		d.Record(domain.SecurityEvent{Kind: domain.EventCSRFRejected, SessionID: fmt.Sprintf("s%d", i%7)})
	}
	cancel()
	d.Wait()

	if got := len(repo.snapshot()); got != 100 {
		t.Fatalf("expected 100 stored events, got %d", got)
	}
}

func TestAuditDispatcher_PreservesPerSessionOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewAuditDispatcher(4, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	kinds := []domain.SecurityEventKind{domain.EventLogin, domain.EventCSRFRejected, domain.EventRoleDenied, domain.EventLogout}
	for _, k := range kinds {
		d.Record(domain.SecurityEvent{Kind: k, SessionID: "s1"})
	}
	cancel()
	d.Wait()

	events := repo.snapshot()
	if len(events) != len(kinds) {
		t.Fatalf("expected %d events, got %d", len(kinds), len(events))
	}
	for i, k := range kinds {
		if events[i].Kind != k {
			t.Fatalf("event %d: expected %s, got %s", i, k, events[i].Kind)
		}
	}
}

func TestAuditDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewAuditDispatcher(8, &recordingRepo{}, zerolog.Nop())
	for _, sid := range []string{"", "a", "session-123"} {
		first := d.shardIndex(sid)
		if first < 0 || first >= 8 {
			t.Fatalf("index %d out of range", first)
		}
		if d.shardIndex(sid) != first {
			t.Fatalf("shard index for %q not stable", sid)
		}
	}
}

func TestAuditDispatcher_RecordNeverBlocks(t *testing.T) {
	d := NewAuditDispatcher(1, &recordingRepo{}, zerolog.Nop())

	// Workers are not started, so the single queue fills and further
	// events are dropped instead of blocking the caller.
	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.SecurityEvent{Kind: domain.EventUnauthenticated})
	}
	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected a full queue of %d, got %d", channelBuffer, got)
	}
}

func TestAuditDispatcher_InsertFailureDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("mongo unavailable")}
	d := NewAuditDispatcher(1, repo, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	d.Record(domain.SecurityEvent{Kind: domain.EventLogin})
	d.Record(domain.SecurityEvent{Kind: domain.EventLogout})
	cancel()
	d.Wait()

	if len(repo.snapshot()) != 0 {
		t.Fatalf("expected no stored events")
	}
}

func TestNewAuditDispatcher_DefaultWorkers(t *testing.T) {
	d := NewAuditDispatcher(0, &recordingRepo{}, zerolog.Nop())
	if len(d.workers) != defaultWorkers {
		t.Fatalf("expected %d workers, got %d", defaultWorkers, len(d.workers))
	}
}
