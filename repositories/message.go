package repositories

import (
	"fmt"
	"optimistic-chat/domain"
	"optimistic-chat/errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IMessageRepository interface {
	Append(message domain.Message) error
	Get(id uuid.UUID) (domain.Message, error)
	Transition(id uuid.UUID, from, to domain.Status) (domain.Message, error)
	Position(id uuid.UUID) (int, error)
	List() []domain.Message
	Len() int
}

// MessageRepository is the in-memory ordered collection of messages.
// Records are only appended, never removed nor reordered.
// The only mutation allowed on a stored record is a status transition.
type MessageRepository struct {
	mu       sync.RWMutex
	messages []domain.Message
	index    map[uuid.UUID]int // id -> position in messages
	now      func() time.Time
}

func NewMessageRepository() *MessageRepository {
	return &MessageRepository{
		index: make(map[uuid.UUID]int),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (m *MessageRepository) Append(message domain.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.index[message.ID]; ok {
		return fmt.Errorf("%w: %s", errors.ErrDuplicateMessage, message.ID)
	}
	m.index[message.ID] = len(m.messages)
	m.messages = append(m.messages, message)
	return nil
}

func (m *MessageRepository) Get(id uuid.UUID) (domain.Message, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.index[id]
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	}
	return m.messages[pos], nil
}

// Transition is a compare-and-set on the status of a single record.
// It fails when the record is missing, when its current status is not from,
// or when from -> to is not an edge of the status machine.
func (m *MessageRepository) Transition(id uuid.UUID, from, to domain.Status) (domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pos, ok := m.index[id]
	if !ok {
		return domain.Message{}, fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	}
	current := m.messages[pos]
	if current.Status != from || !from.CanTransitionTo(to) {
		return current, fmt.Errorf("%w: %s is %s, wanted %s -> %s",
			errors.ErrInvalidTransition, id, current.Status, from, to)
	}
	current.Status = to
	current.UpdatedAt = m.now()
	m.messages[pos] = current
	return current, nil
}

// Position returns the 1-based rank of the record in insertion order.
func (m *MessageRepository) Position(id uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pos, ok := m.index[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", errors.ErrMessageNotFound, id)
	}
	return pos + 1, nil
}

// List returns a snapshot in insertion order.
func (m *MessageRepository) List() []domain.Message {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return lo.Map(m.messages, func(item domain.Message, _ int) domain.Message {
		return item
	})
}

func (m *MessageRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.messages)
}
