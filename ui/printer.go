package ui

import (
	"context"
	"fmt"
	"io"
	"optimistic-chat/contract"
	"optimistic-chat/domain/event"
	"sync"

	"github.com/google/uuid"
)

var _ contract.EventSink = (*StatusPrinter)(nil)

// Locator gives the 1-based position of a message, the number /retry expects.
type Locator interface {
	Position(id uuid.UUID) (int, error)
}

// StatusPrinter prints one line per transition, the live part of the UI.
// Messages are numbered by their position in the store.
type StatusPrinter struct {
	mu      sync.Mutex
	w       io.Writer
	colours bool
	locator Locator
}

func NewStatusPrinter(w io.Writer, colours bool, locator Locator) *StatusPrinter {
	return &StatusPrinter{w: w, colours: colours, locator: locator}
}

func (p *StatusPrinter) Consume(_ context.Context, e event.DomainEvent) error {
	status, ok := event.StatusOf(e)
	if !ok {
		return nil
	}
	text := ""
	switch evt := e.(type) {
	case event.MessageSubmitted:
		text = evt.Text
	case event.StatusChanged:
		text = evt.Text
	}
	position, err := p.locator.Position(e.MessageID())
	if err != nil {
		return fmt.Errorf("locate message: %w", err)
	}

	line := fmt.Sprintf("[%d] %s  %s", position, Badge(status, p.colours), text)
	if hint := RetryHint(status, position); hint != "" {
		line += "  (" + hint + ")"
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err = fmt.Fprintln(p.w, line)
	return err
}
