package sink

import (
	"context"
	"log/slog"
	"optimistic-chat/domain"
	"optimistic-chat/domain/event"
	"optimistic-chat/mocks"
	"optimistic-chat/repositories"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestJournalSink_Stores_Transitions(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockITransitionRepository(ctrl)
	journal := NewJournalSink(repository, log)

	id := uuid.New()
	at := time.Now().UTC()

	gomock.InOrder(
		repository.EXPECT().StoreTransition(repositories.DiskTransition{
			MessageID: id, Text: "hello", To: domain.StatusSending, At: at,
		}).Return(nil),
		repository.EXPECT().StoreTransition(repositories.DiskTransition{
			MessageID: id, Text: "hello", From: domain.StatusSending, To: domain.StatusSent, At: at,
		}).Return(nil),
	)

	req.NoError(journal.Consume(context.Background(), event.MessageSubmitted{ID: id, Text: "hello", At: at}))
	req.NoError(journal.Consume(context.Background(), event.StatusChanged{
		ID: id, Text: "hello", From: domain.StatusSending, To: domain.StatusSent, At: at,
	}))
}

func TestJournalSink_Canceled_Context(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repository := mocks.NewMockITransitionRepository(ctrl)
	journal := NewJournalSink(repository, slog.Default())

	// Given a sink timeout already elapsed, nothing is written
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := journal.Consume(ctx, event.MessageSubmitted{ID: uuid.New()})
	req.ErrorIs(err, context.Canceled)
}

func TestJournalSink_With_Badger(t *testing.T) {
	req := require.New(t)
	db, err := repositories.OpenInMemory()
	req.NoError(err)
	defer db.Close()

	repository := repositories.NewTransitionRepository(db, slog.Default())
	journal := NewJournalSink(repository, slog.Default())
	id := uuid.New()
	at := time.Now().UTC()

	req.NoError(journal.Consume(context.Background(), event.MessageSubmitted{ID: id, Text: "hi", At: at}))
	req.NoError(journal.Consume(context.Background(), event.StatusChanged{
		ID: id, Text: "hi", From: domain.StatusSending, To: domain.StatusError, At: at.Add(time.Millisecond),
	}))

	transitions, err := repository.GetTransitions(id)
	req.NoError(err)
	req.Len(transitions, 2)
	req.Equal(domain.StatusError, transitions[1].To)
	req.Equal(domain.StatusSending, transitions[1].From)
}
