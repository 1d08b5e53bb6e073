package projection

import (
	"context"
	"optimistic-chat/domain"
	"optimistic-chat/domain/event"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestTimeline_Consume_Transitions(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()
	ctx := context.Background()
	first, second := uuid.New(), uuid.New()
	at := time.Now()

	events := []event.DomainEvent{
		event.MessageSubmitted{ID: first, Text: "a", At: at},
		event.MessageSubmitted{ID: second, Text: "b", At: at},
		event.StatusChanged{ID: second, From: domain.StatusSending, To: domain.StatusSent, At: at},
		event.StatusChanged{ID: first, From: domain.StatusSending, To: domain.StatusError, At: at},
		event.StatusChanged{ID: first, From: domain.StatusError, To: domain.StatusSending, At: at},
	}
	for _, e := range events {
		req.NoError(timeline.Consume(ctx, e))
	}

	// Then the order is the one of the first observation
	req.Equal([]uuid.UUID{first, second}, timeline.Order())

	// And each message keeps its own history
	req.Equal([]domain.Status{domain.StatusSending, domain.StatusError, domain.StatusSending}, timeline.History(first))
	req.Equal([]domain.Status{domain.StatusSending, domain.StatusSent}, timeline.History(second))

	req.Equal(map[domain.Status]int{domain.StatusSending: 1, domain.StatusSent: 1}, timeline.Counts())
}

func TestTimeline_Unknown_Message(t *testing.T) {
	req := require.New(t)
	timeline := NewTimeline()

	req.Empty(timeline.History(uuid.New()))
	req.Empty(timeline.Order())
	req.Empty(timeline.Counts())
}
