package workers

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"optimistic-chat/contract"
	"optimistic-chat/domain"
	"optimistic-chat/errors"
	"sync"

	"github.com/samber/lo"
)

var _ contract.Worker = (*DeliveryWorker)(nil)

// DeliveryWorker turns DeliverCommands into resolved attempts.
// Every command runs in its own goroutine so that each message has its own
// timer and resolutions can come back in any order.
type DeliveryWorker struct {
	log       *slog.Logger
	deliverer contract.Deliverer
	applier   contract.ResultApplier
	commands  chan domain.DeliverCommand
}

func NewDeliveryWorker(
	log *slog.Logger,
	deliverer contract.Deliverer,
	applier contract.ResultApplier,
	commands chan domain.DeliverCommand) *DeliveryWorker {
	return &DeliveryWorker{
		log:       log,
		deliverer: deliverer,
		applier:   applier,
		commands:  commands,
	}
}

// Run returns once ctx is done and every in-flight attempt has returned.
// Attempts still pending at that point are abandoned and never applied.
func (w *DeliveryWorker) Run(ctx context.Context) error {
	var inFlight sync.WaitGroup
	defer inFlight.Wait()

	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping delivery worker")
			return nil
		case cmd, ok := <-w.commands:
			if !ok {
				w.log.Debug("Delivery channel is closed")
				return nil
			}
			inFlight.Add(1)
			go func() {
				defer inFlight.Done()
				w.deliver(ctx, cmd)
			}()
		}
	}
}

func (w *DeliveryWorker) deliver(ctx context.Context, cmd domain.DeliverCommand) {
	err := w.attempt(ctx, cmd)
	if ctx.Err() != nil {
		w.log.Debug("Delivery discarded on shutdown", "id", cmd.ID)
		return
	}
	if err != nil && !stdErrors.Is(err, errors.ErrDeliveryFailed) {
		w.log.Warn("Unexpected delivery error", "id", cmd.ID, "error", err)
	}
	w.applier.ApplyResult(cmd.ID, lo.Ternary(err == nil, domain.OutcomeSuccess, domain.OutcomeFailure))
}

// attempt runs outside the supervisor's goroutine, a panic is turned into a
// failed attempt here.
func (w *DeliveryWorker) attempt(ctx context.Context, cmd domain.DeliverCommand) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", errors.ErrWorkerPanic, r)
			w.log.Error("Delivery panicked", "id", cmd.ID, "error", err)
		}
	}()
	return w.deliverer.Deliver(ctx, cmd.ID, cmd.ForceFailure)
}
