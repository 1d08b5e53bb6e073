package domain

import (
	"github.com/google/uuid"
)

// DeliverCommand asks a delivery worker to resolve one attempt for a message.
// ForceFailure is the failure toggle as it was when the attempt started.
type DeliverCommand struct {
	ID           uuid.UUID
	ForceFailure bool
}
