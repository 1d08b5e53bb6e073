//go:generate go run go.uber.org/mock/mockgen -source=contract.go -destination=../mocks/mock_contract.go -package=mocks
package contract

import (
	"context"
	"optimistic-chat/domain"
	"optimistic-chat/domain/event"
	"reflect"

	"github.com/google/uuid"
)

type ISupervisor interface {
	Add(worker ...Worker) ISupervisor
	Run(ctx context.Context)
	Start(ctx context.Context, worker Worker)
	Stop()
}

type WorkerName string

// Worker doesn't protect itself
// Can be silly, focused
type Worker interface {
	Run(ctx context.Context) error
}

// GetWorkerName uses reflection to retrieve the type name of the worker.
// Used for logging during supervision, no manual naming needed.
func GetWorkerName(w Worker) string {
	if w == nil {
		return "NilWorker"
	}
	t := reflect.TypeOf(w)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

type EventSink interface {
	Consume(ctx context.Context, e event.DomainEvent) error
}

func GetSinkName(s EventSink) string {
	if s == nil {
		return "NilSink"
	}
	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}

// Deliverer stands in for the network call sending a message.
// It returns exactly once per call: nil on success, errors.ErrDeliveryFailed
// on a delivery failure, ctx.Err() if the attempt was abandoned.
type Deliverer interface {
	Deliver(ctx context.Context, id uuid.UUID, forceFailure bool) error
}

// ResultApplier receives the resolution of a delivery attempt.
type ResultApplier interface {
	ApplyResult(id uuid.UUID, outcome domain.Outcome)
}
