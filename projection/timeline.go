// Package projection builds local timelines from observed events.
// Handles ordering and per-message history.
// Does not emit events or interact with UI directly.
package projection

import (
	"context"
	"optimistic-chat/contract"
	"optimistic-chat/domain"
	"optimistic-chat/domain/event"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

var _ contract.EventSink = (*Timeline)(nil)

// Timeline records, for each message, the statuses it went through.
type Timeline struct {
	mu      sync.RWMutex
	order   []uuid.UUID
	history map[uuid.UUID][]domain.Status
}

func NewTimeline() *Timeline {
	return &Timeline{
		history: make(map[uuid.UUID][]domain.Status),
	}
}

func (t *Timeline) Consume(_ context.Context, e event.DomainEvent) error {
	status, ok := event.StatusOf(e)
	if !ok {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	id := e.MessageID()
	if _, seen := t.history[id]; !seen {
		t.order = append(t.order, id)
	}
	t.history[id] = append(t.history[id], status)
	return nil
}

// History returns the statuses observed for a message, oldest first.
func (t *Timeline) History(id uuid.UUID) []domain.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]domain.Status(nil), t.history[id]...)
}

// Order returns message ids in the order they were first observed.
func (t *Timeline) Order() []uuid.UUID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return append([]uuid.UUID(nil), t.order...)
}

// Counts returns how many messages currently hold each status.
func (t *Timeline) Counts() map[domain.Status]int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return lo.CountValuesBy(t.order, func(id uuid.UUID) domain.Status {
		statuses := t.history[id]
		return statuses[len(statuses)-1]
	})
}
