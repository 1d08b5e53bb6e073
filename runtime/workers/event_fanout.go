package workers

import (
	"context"
	"log/slog"
	"optimistic-chat/contract"
	"optimistic-chat/domain/event"
	"time"
)

var _ contract.Worker = (*EventFanout)(nil)

// EventFanout broadcasts domain events to multiple in-process consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// durability, or retries. EventFanout is not a message broker.
// Sinks are called one after the other, so each sink sees the events of a
// given message in the order they were emitted.
//
// It is intended for side effects (UI, journal, projections),
// not for core domain logic.
type EventFanout struct {
	log          *slog.Logger
	domainEvents chan event.DomainEvent
	sinks        []contract.EventSink
	sinkTimeout  time.Duration
}

func NewEventFanout(log *slog.Logger, sinks []contract.EventSink,
	domainEvents chan event.DomainEvent, sinkTimeout time.Duration) *EventFanout {
	return &EventFanout{
		log:          log,
		domainEvents: domainEvents,
		sinks:        sinks,
		sinkTimeout:  sinkTimeout,
	}
}

func (w *EventFanout) Run(ctx context.Context) error {
	for {
		select {
		case evt, ok := <-w.domainEvents:
			if !ok {
				return nil
			}
			w.Fanout(ctx, evt)
		case <-ctx.Done():
			w.drain()
			w.log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// Fanout One sink for each event, each bounded by the sink timeout.
func (w *EventFanout) Fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx, cancel := context.WithTimeout(ctx, w.sinkTimeout)
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.log.Warn("Sink failed to consume event",
				"sink", contract.GetSinkName(sink), "id", evt.MessageID(), "error", err)
		}
		cancel()
	}
}

// drain flushes what was already emitted before shutdown.
func (w *EventFanout) drain() {
	for {
		select {
		case evt, ok := <-w.domainEvents:
			if !ok {
				return
			}
			w.Fanout(context.Background(), evt)
		default:
			return
		}
	}
}
