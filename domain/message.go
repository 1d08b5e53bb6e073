// Package domain contains core concepts of the chat system.
// This file defines the Message record shown to the user while it is
// being delivered. Only its Status changes after creation.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message represents a chat entry and its delivery progress.
type Message struct {
	ID        uuid.UUID // unique identifier, sole lookup key
	Text      string
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewMessage creates a record in the sending state.
func NewMessage(text string, at time.Time) Message {
	return Message{
		ID:        uuid.New(),
		Text:      text,
		Status:    StatusSending,
		CreatedAt: at,
		UpdatedAt: at,
	}
}

// IsBlank reports whether text is empty once surrounding whitespace is removed.
func IsBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}
