package event

import (
	"optimistic-chat/domain"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is emitted on every observable change of a message.
type DomainEvent interface {
	MessageID() uuid.UUID
	OccurredAt() time.Time
}

// MessageSubmitted is the optimistic enqueue: the record exists and is sending.
type MessageSubmitted struct {
	ID   uuid.UUID
	Text string
	At   time.Time
}

func (m MessageSubmitted) MessageID() uuid.UUID  { return m.ID }
func (m MessageSubmitted) OccurredAt() time.Time { return m.At }

// StatusChanged covers resolutions (sending -> sent|error) and retries (error -> sending).
type StatusChanged struct {
	ID   uuid.UUID
	Text string
	From domain.Status
	To   domain.Status
	At   time.Time
}

func (s StatusChanged) MessageID() uuid.UUID  { return s.ID }
func (s StatusChanged) OccurredAt() time.Time { return s.At }

// StatusOf returns the status a message holds right after the event.
func StatusOf(e DomainEvent) (domain.Status, bool) {
	switch evt := e.(type) {
	case MessageSubmitted:
		return domain.StatusSending, true
	case StatusChanged:
		return evt.To, true
	default:
		return 0, false
	}
}
