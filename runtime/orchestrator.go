// Package runtime wires the message store, the delivery workers and the event
// pipeline together. The state machine itself lives in the domain and the
// repository, this package only decides when transitions happen.
package runtime

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"optimistic-chat/contract"
	"optimistic-chat/domain"
	"optimistic-chat/domain/event"
	"optimistic-chat/errors"
	"optimistic-chat/repositories"
	"optimistic-chat/runtime/workers"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

var _ contract.ResultApplier = (*Orchestrator)(nil)

type Orchestrator struct {
	mu sync.Mutex
	// lifecycle is held shared by Submit and Retry until their attempt is queued,
	// exclusively once the workers are gone.
	lifecycle sync.RWMutex
	// transitions serializes a status change with the publication of its event.
	transitions       sync.Mutex
	log               *slog.Logger
	numWorkers        int
	supervisor        contract.ISupervisor
	messageRepository repositories.IMessageRepository
	deliverer         contract.Deliverer
	permanentSinks    []contract.EventSink
	deliveries        chan domain.DeliverCommand
	domainEvents      chan event.DomainEvent
	sinkTimeout       time.Duration
	metricInterval    time.Duration
	lowCapacity       int
	forceFailure      atomic.Bool
	started           bool
	stopped           bool
	quit              chan struct{}
	halted            chan struct{}
	done              chan struct{}
	now               func() time.Time
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor,
	messageRepository repositories.IMessageRepository, deliverer contract.Deliverer,
	numWorkers, bufferSize int, sinkTimeout time.Duration) *Orchestrator {
	return &Orchestrator{
		log:               log,
		numWorkers:        numWorkers,
		supervisor:        supervisor,
		messageRepository: messageRepository,
		deliverer:         deliverer,
		deliveries:        make(chan domain.DeliverCommand, bufferSize),
		domainEvents:      make(chan event.DomainEvent, bufferSize),
		sinkTimeout:       sinkTimeout,
		quit:              make(chan struct{}),
		halted:            make(chan struct{}),
		done:              make(chan struct{}),
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// Add registers sinks notified of every transition. Must be called before Start.
func (o *Orchestrator) Add(sinks ...contract.EventSink) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.permanentSinks = append(o.permanentSinks, sinks...)
}

// MonitorCapacity samples the internal queues every interval once started.
// lowCapacityThreshold is the usage percent above which a warning is logged.
func (o *Orchestrator) MonitorCapacity(interval time.Duration, lowCapacityThreshold int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.metricInterval = interval
	o.lowCapacity = lowCapacityThreshold
}

// SetForceFailure flips the toggle read by the next Submit or Retry.
// Attempts already started keep the value they were started with.
func (o *Orchestrator) SetForceFailure(fail bool) {
	o.forceFailure.Store(fail)
	o.log.Info("Failure toggle changed", "force_failure", fail)
}

func (o *Orchestrator) ForceFailure() bool {
	return o.forceFailure.Load()
}

// Submit shows the message right away in sending, then asks for its delivery.
// Blank text is ignored: no record, ok is false. Clearing the input buffer is
// left to the caller.
func (o *Orchestrator) Submit(ctx context.Context, text string) (uuid.UUID, bool, error) {
	if domain.IsBlank(text) {
		o.log.Debug("Blank message ignored")
		return uuid.Nil, false, nil
	}
	o.lifecycle.RLock()
	defer o.lifecycle.RUnlock()
	if o.isStopped() {
		return uuid.Nil, false, errors.ErrOrchestratorStopped
	}

	message := domain.NewMessage(text, o.now())
	o.transitions.Lock()
	if err := o.messageRepository.Append(message); err != nil {
		o.transitions.Unlock()
		return uuid.Nil, false, fmt.Errorf("append message: %w", err)
	}
	o.publish(event.MessageSubmitted{ID: message.ID, Text: message.Text, At: message.CreatedAt})
	o.transitions.Unlock()
	o.log.Debug("Message submitted", "id", message.ID)

	o.enqueue(ctx, domain.DeliverCommand{ID: message.ID, ForceFailure: o.forceFailure.Load()})
	return message.ID, true, nil
}

// ApplyResult resolves the pending attempt of a message.
// Unknown ids are ignored. A record which is not sending already had its
// attempt resolved, the extra resolution is dropped.
func (o *Orchestrator) ApplyResult(id uuid.UUID, outcome domain.Outcome) {
	to := outcome.Status()
	o.transitions.Lock()
	defer o.transitions.Unlock()
	message, err := o.messageRepository.Transition(id, domain.StatusSending, to)
	switch {
	case stdErrors.Is(err, errors.ErrMessageNotFound):
		o.log.Debug("Result for unknown message ignored", "id", id, "outcome", outcome)
		return
	case err != nil:
		o.log.Warn("Result ignored", "id", id, "outcome", outcome, "error", err)
		return
	}
	o.log.Debug("Delivery resolved", "id", id, "status", to)
	o.publish(event.StatusChanged{
		ID: id, Text: message.Text, From: domain.StatusSending, To: to, At: message.UpdatedAt,
	})
}

// Retry re-arms a message in error and starts a new delivery attempt.
// Any other status is rejected with ErrNotRetryable.
func (o *Orchestrator) Retry(ctx context.Context, id uuid.UUID) error {
	o.lifecycle.RLock()
	defer o.lifecycle.RUnlock()
	if o.isStopped() {
		return errors.ErrOrchestratorStopped
	}
	if err := o.rearm(id); err != nil {
		return err
	}
	o.log.Debug("Message re-armed", "id", id)

	o.enqueue(ctx, domain.DeliverCommand{ID: id, ForceFailure: o.forceFailure.Load()})
	return nil
}

func (o *Orchestrator) rearm(id uuid.UUID) error {
	o.transitions.Lock()
	defer o.transitions.Unlock()
	message, err := o.messageRepository.Transition(id, domain.StatusError, domain.StatusSending)
	switch {
	case stdErrors.Is(err, errors.ErrInvalidTransition):
		return fmt.Errorf("%w: %s is %s", errors.ErrNotRetryable, id, message.Status)
	case err != nil:
		return err
	}
	o.publish(event.StatusChanged{
		ID: id, Text: message.Text, From: domain.StatusError, To: domain.StatusSending, At: message.UpdatedAt,
	})
	return nil
}

func (o *Orchestrator) Messages() []domain.Message {
	return o.messageRepository.List()
}

func (o *Orchestrator) Message(id uuid.UUID) (domain.Message, error) {
	return o.messageRepository.Get(id)
}

// Position is the 1-based rank of a message in insertion order.
func (o *Orchestrator) Position(id uuid.UUID) (int, error) {
	return o.messageRepository.Position(id)
}

// enqueue hands the attempt to the delivery workers. When the caller gives up
// before the attempt could be queued, the record is resolved as failed so that
// it never stays sending.
func (o *Orchestrator) enqueue(ctx context.Context, cmd domain.DeliverCommand) {
	select {
	case o.deliveries <- cmd:
	case <-ctx.Done():
		o.log.Warn("Delivery could not be queued", "id", cmd.ID, "error", ctx.Err())
		o.ApplyResult(cmd.ID, domain.OutcomeFailure)
	case <-o.quit:
		o.log.Debug("Delivery dropped on shutdown", "id", cmd.ID)
	case <-o.halted:
		o.log.Warn("No delivery worker left", "id", cmd.ID)
		o.ApplyResult(cmd.ID, domain.OutcomeFailure)
	}
}

// failQueued resolves as failed the attempts queued after the workers
// returned, none of them will ever be picked up.
func (o *Orchestrator) failQueued() {
	for {
		select {
		case cmd := <-o.deliveries:
			o.log.Warn("Delivery never started", "id", cmd.ID)
			o.ApplyResult(cmd.ID, domain.OutcomeFailure)
		default:
			return
		}
	}
}

// publish never blocks the caller, events are best effort.
func (o *Orchestrator) publish(evt event.DomainEvent) {
	select {
	case o.domainEvents <- evt:
	default:
		o.log.Warn("Domain event channel full, dropping event", "id", evt.MessageID())
	}
}

func (o *Orchestrator) isStopped() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stopped
}

// Start registers the delivery workers and the fanout to the supervisor and
// runs them in the background. It returns once everything is scheduled.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return errors.ErrOrchestratorStopped
	}
	if o.started {
		o.mu.Unlock()
		return fmt.Errorf("orchestrator already started")
	}
	o.started = true

	fanoutWorker := workers.NewEventFanout(o.log, o.permanentSinks, o.domainEvents, o.sinkTimeout)
	o.supervisor.Add(fanoutWorker)
	for i := 0; i < o.numWorkers; i++ {
		o.supervisor.Add(workers.NewDeliveryWorker(o.log, o.deliverer, o, o.deliveries))
	}
	if o.metricInterval > 0 {
		o.supervisor.Add(workers.NewChannelCapacityWorker(o.log, []workers.NamedChannel{
			{Name: "deliveries", Channel: o.deliveries},
			{Name: "domain_events", Channel: o.domainEvents},
		}, o.metricInterval, o.lowCapacity))
	}
	o.mu.Unlock()

	o.log.Info("Starting orchestrator and all supervised workers", "delivery_workers", o.numWorkers)
	go func() {
		defer close(o.done)
		o.supervisor.Run(ctx)
		close(o.halted)
		o.halt()
	}()
	return nil
}

// halt marks the orchestrator stopped once its workers are gone, whether Stop
// was called or the context given to Start ended.
func (o *Orchestrator) halt() {
	o.lifecycle.Lock()
	defer o.lifecycle.Unlock()

	o.mu.Lock()
	requested := o.stopped
	o.stopped = true
	o.mu.Unlock()

	if !requested {
		o.log.Info("Orchestrator context ended, no more work accepted")
		o.failQueued()
	}
}

// Stop cancels pending deliveries and waits for the workers to return.
// Results of abandoned attempts are discarded: records keep their last status.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if o.stopped {
		o.mu.Unlock()
		return
	}
	o.stopped = true
	started := o.started
	close(o.quit)
	o.mu.Unlock()

	o.log.Info("Requesting orchestrator shutdown")
	o.supervisor.Stop()
	if started {
		<-o.done
	}
	o.log.Debug("Orchestrator stopped")
}
