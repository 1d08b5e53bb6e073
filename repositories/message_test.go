package repositories

import (
	"optimistic-chat/domain"
	"optimistic-chat/errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func Test_Append_Keeps_Insertion_Order(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository()
	at := time.Now().UTC()

	// Given three messages appended one after the other
	texts := []string{"a", "b", "c"}
	for i, text := range texts {
		req.NoError(repository.Append(domain.NewMessage(text, at.Add(time.Duration(i)*time.Second))))
	}

	// Then the collection lists them in the same order
	req.Equal(3, repository.Len())
	req.Equal(texts, lo.Map(repository.List(), func(m domain.Message, _ int) string { return m.Text }))
}

func Test_Append_Rejects_Duplicate_ID(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository()
	message := domain.NewMessage("hello", time.Now())

	req.NoError(repository.Append(message))
	err := repository.Append(message)

	req.ErrorIs(err, errors.ErrDuplicateMessage)
	req.Equal(1, repository.Len())
}

func Test_Transition_Only_Touches_Matching_Record(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository()
	first := domain.NewMessage("first", time.Now())
	second := domain.NewMessage("second", time.Now())
	req.NoError(repository.Append(first))
	req.NoError(repository.Append(second))

	// When the second message is resolved as sent
	updated, err := repository.Transition(second.ID, domain.StatusSending, domain.StatusSent)

	// Then only the second record changed
	req.NoError(err)
	req.Equal(domain.StatusSent, updated.Status)
	req.Equal(second.Text, updated.Text)

	got, err := repository.Get(first.ID)
	req.NoError(err)
	req.Equal(domain.StatusSending, got.Status)

	got, err = repository.Get(second.ID)
	req.NoError(err)
	req.Equal(domain.StatusSent, got.Status)
}

func Test_Transition_Unknown_ID(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository()

	_, err := repository.Transition(uuid.New(), domain.StatusSending, domain.StatusSent)

	req.ErrorIs(err, errors.ErrMessageNotFound)
}

func Test_Transition_Rejects_Stale_Or_Illegal_Edge(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository()
	message := domain.NewMessage("hello", time.Now())
	req.NoError(repository.Append(message))

	// Given a message already sent
	_, err := repository.Transition(message.ID, domain.StatusSending, domain.StatusSent)
	req.NoError(err)

	// When a second resolution arrives for the same attempt
	_, err = repository.Transition(message.ID, domain.StatusSending, domain.StatusError)
	req.ErrorIs(err, errors.ErrInvalidTransition)

	// When something tries to leave the terminal state
	_, err = repository.Transition(message.ID, domain.StatusSent, domain.StatusSending)
	req.ErrorIs(err, errors.ErrInvalidTransition)

	// Then the record is still sent
	got, err := repository.Get(message.ID)
	req.NoError(err)
	req.Equal(domain.StatusSent, got.Status)
}

func Test_List_Returns_A_Snapshot(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository()
	message := domain.NewMessage("hello", time.Now())
	req.NoError(repository.Append(message))

	snapshot := repository.List()
	snapshot[0].Status = domain.StatusError

	got, err := repository.Get(message.ID)
	req.NoError(err)
	req.Equal(domain.StatusSending, got.Status)
}

func Test_Position_Is_Insertion_Rank(t *testing.T) {
	req := require.New(t)
	repository := NewMessageRepository()
	first, second := domain.NewMessage("a", time.Now()), domain.NewMessage("b", time.Now())
	req.NoError(repository.Append(first))
	req.NoError(repository.Append(second))

	position, err := repository.Position(second.ID)
	req.NoError(err)
	req.Equal(2, position)

	_, err = repository.Position(uuid.New())
	req.ErrorIs(err, errors.ErrMessageNotFound)
}
