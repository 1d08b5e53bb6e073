package workers

import (
	"context"
	"log/slog"
	"optimistic-chat/domain"
	"optimistic-chat/errors"
	"optimistic-chat/mocks"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDeliveryWorker_Applies_Outcome(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	deliverer := mocks.NewMockDeliverer(ctrl)
	applier := mocks.NewMockResultApplier(ctrl)
	commands := make(chan domain.DeliverCommand, 2)

	ok, ko := uuid.New(), uuid.New()
	deliverer.EXPECT().Deliver(gomock.Any(), ok, false).Return(nil).Times(1)
	deliverer.EXPECT().Deliver(gomock.Any(), ko, true).Return(errors.ErrDeliveryFailed).Times(1)

	applied := make(chan struct{}, 2)
	applier.EXPECT().ApplyResult(ok, domain.OutcomeSuccess).Do(func(uuid.UUID, domain.Outcome) { applied <- struct{}{} }).Times(1)
	applier.EXPECT().ApplyResult(ko, domain.OutcomeFailure).Do(func(uuid.UUID, domain.Outcome) { applied <- struct{}{} }).Times(1)

	worker := NewDeliveryWorker(log, deliverer, applier, commands)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// When two attempts are requested, one forced to fail
	commands <- domain.DeliverCommand{ID: ok}
	commands <- domain.DeliverCommand{ID: ko, ForceFailure: true}

	// Then both are resolved with their own outcome
	for range 2 {
		select {
		case <-applied:
		case <-time.After(time.Second):
			req.Fail("Outcome was not applied in time")
		}
	}
	cancel()
	req.NoError(<-done)
}

func TestDeliveryWorker_Resolutions_Are_Independent(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	deliverer := mocks.NewMockDeliverer(ctrl)
	applier := mocks.NewMockResultApplier(ctrl)
	commands := make(chan domain.DeliverCommand, 2)

	slow, fast := uuid.New(), uuid.New()
	release := make(chan struct{})
	deliverer.EXPECT().Deliver(gomock.Any(), slow, false).DoAndReturn(
		func(ctx context.Context, _ uuid.UUID, _ bool) error {
			<-release
			return nil
		}).Times(1)
	deliverer.EXPECT().Deliver(gomock.Any(), fast, false).Return(nil).Times(1)

	order := make(chan uuid.UUID, 2)
	applier.EXPECT().ApplyResult(gomock.Any(), domain.OutcomeSuccess).
		Do(func(id uuid.UUID, _ domain.Outcome) { order <- id }).Times(2)

	worker := NewDeliveryWorker(log, deliverer, applier, commands)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// Given a slow attempt submitted before a fast one
	commands <- domain.DeliverCommand{ID: slow}
	commands <- domain.DeliverCommand{ID: fast}

	// Then the fast one resolves first, it is not queued behind the slow one
	select {
	case id := <-order:
		req.Equal(fast, id)
	case <-time.After(time.Second):
		req.Fail("Fast delivery blocked by the slow one")
	}
	close(release)
	req.Equal(slow, <-order)
}

func TestDeliveryWorker_Discards_Pending_On_Shutdown(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	deliverer := mocks.NewMockDeliverer(ctrl)
	applier := mocks.NewMockResultApplier(ctrl)
	commands := make(chan domain.DeliverCommand, 1)

	started := make(chan struct{})
	deliverer.EXPECT().Deliver(gomock.Any(), gomock.Any(), false).DoAndReturn(
		func(ctx context.Context, _ uuid.UUID, _ bool) error {
			close(started)
			<-ctx.Done()
			return ctx.Err()
		}).Times(1)
	// Given no result must be applied after teardown
	applier.EXPECT().ApplyResult(gomock.Any(), gomock.Any()).Times(0)

	worker := NewDeliveryWorker(log, deliverer, applier, commands)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	commands <- domain.DeliverCommand{ID: uuid.New()}
	<-started

	// When the worker is torn down mid-flight
	cancel()

	// Then Run waits for the pending attempt and returns cleanly
	select {
	case err := <-done:
		req.NoError(err)
	case <-time.After(time.Second):
		req.Fail("Worker did not return after cancellation")
	}
}

func TestDeliveryWorker_Panicking_Attempt_Fails(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	deliverer := mocks.NewMockDeliverer(ctrl)
	applier := mocks.NewMockResultApplier(ctrl)
	commands := make(chan domain.DeliverCommand, 2)

	broken, healthy := uuid.New(), uuid.New()
	// Given a deliverer panicking for one message
	deliverer.EXPECT().Deliver(gomock.Any(), broken, false).DoAndReturn(
		func(context.Context, uuid.UUID, bool) error {
			panic("transport exploded")
		}).Times(1)
	deliverer.EXPECT().Deliver(gomock.Any(), healthy, false).Return(nil).Times(1)

	applied := make(chan domain.Outcome, 2)
	applier.EXPECT().ApplyResult(broken, domain.OutcomeFailure).
		Do(func(_ uuid.UUID, o domain.Outcome) { applied <- o }).Times(1)
	applier.EXPECT().ApplyResult(healthy, domain.OutcomeSuccess).
		Do(func(_ uuid.UUID, o domain.Outcome) { applied <- o }).Times(1)

	worker := NewDeliveryWorker(log, deliverer, applier, commands)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	// When both attempts run
	commands <- domain.DeliverCommand{ID: broken}
	commands <- domain.DeliverCommand{ID: healthy}

	// Then the panic becomes a failed attempt and the worker keeps serving
	for range 2 {
		select {
		case <-applied:
		case <-time.After(time.Second):
			req.Fail("Outcome was not applied in time")
		}
	}
	cancel()
	req.NoError(<-done)
}
