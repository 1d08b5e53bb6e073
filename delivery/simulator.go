// Package delivery provides the stand-in for the network call that sends a message.
package delivery

import (
	"context"
	"log/slog"
	"optimistic-chat/contract"
	"optimistic-chat/errors"
	"time"

	"github.com/google/uuid"
)

// DefaultDelay is the latency of a simulated delivery.
const DefaultDelay = 1500 * time.Millisecond

var _ contract.Deliverer = (*Simulator)(nil)

// Simulator resolves every delivery after a fixed delay.
// The result only depends on the forceFailure flag given by the caller.
type Simulator struct {
	log   *slog.Logger
	delay time.Duration
}

func NewSimulator(log *slog.Logger, delay time.Duration) *Simulator {
	return &Simulator{log: log, delay: delay}
}

func (s *Simulator) Deliver(ctx context.Context, id uuid.UUID, forceFailure bool) error {
	timer := time.NewTimer(s.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.log.Debug("Delivery abandoned", "id", id)
		return ctx.Err()
	case <-timer.C:
	}

	if forceFailure {
		s.log.Debug("Delivery failed", "id", id)
		return errors.ErrDeliveryFailed
	}
	s.log.Debug("Delivery succeeded", "id", id)
	return nil
}
