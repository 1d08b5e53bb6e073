package sink

import (
	"context"
	"fmt"
	"log/slog"
	"optimistic-chat/contract"
	"optimistic-chat/domain"
	"optimistic-chat/domain/event"
	"optimistic-chat/repositories"
)

var _ contract.EventSink = JournalSink{}

// JournalSink writes every transition into the session journal.
type JournalSink struct {
	repository repositories.ITransitionRepository
	log        *slog.Logger
}

func NewJournalSink(repository repositories.ITransitionRepository, log *slog.Logger) JournalSink {
	return JournalSink{repository: repository, log: log}
}

func (j JournalSink) Consume(ctx context.Context, e event.DomainEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch evt := e.(type) {
	case event.MessageSubmitted:
		return j.repository.StoreTransition(repositories.DiskTransition{
			MessageID: evt.ID,
			Text:      evt.Text,
			To:        domain.StatusSending,
			At:        evt.At,
		})
	case event.StatusChanged:
		return j.repository.StoreTransition(repositories.DiskTransition{
			MessageID: evt.ID,
			Text:      evt.Text,
			From:      evt.From,
			To:        evt.To,
			At:        evt.At,
		})
	default:
		j.log.Debug(fmt.Sprintf("Not implemented event : %T", evt))
		return nil
	}
}
