package errors

import "fmt"

var (
	ErrWorkerPanic         = fmt.Errorf("worker panic")
	ErrDeliveryFailed      = fmt.Errorf("delivery failed")
	ErrMessageNotFound     = fmt.Errorf("message not found")
	ErrDuplicateMessage    = fmt.Errorf("message already exists")
	ErrInvalidTransition   = fmt.Errorf("invalid status transition")
	ErrNotRetryable        = fmt.Errorf("message is not in error state")
	ErrOrchestratorStopped = fmt.Errorf("orchestrator stopped")
	ErrUnknownCommand      = fmt.Errorf("unknown command")
)
