package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestStatus_Transitions(t *testing.T) {
	req := require.New(t)

	req.True(StatusSending.CanTransitionTo(StatusSent))
	req.True(StatusSending.CanTransitionTo(StatusError))
	req.True(StatusError.CanTransitionTo(StatusSending))

	// sent is terminal
	req.True(StatusSent.IsTerminal())
	req.False(StatusSent.CanTransitionTo(StatusSending))
	req.False(StatusSent.CanTransitionTo(StatusError))

	// error is only left through a retry
	req.False(StatusError.IsTerminal())
	req.False(StatusError.CanTransitionTo(StatusSent))
	req.False(StatusSending.CanTransitionTo(StatusSending))
}

func TestStatus_String_Round_Trip(t *testing.T) {
	req := require.New(t)
	for _, s := range []Status{StatusSending, StatusSent, StatusError} {
		parsed, err := ParseStatus(s.String())
		req.NoError(err)
		req.Equal(s, parsed)
	}
	_, err := ParseStatus("delivered")
	req.Error(err)
}

func TestOutcome_Status(t *testing.T) {
	req := require.New(t)
	req.Equal(StatusSent, OutcomeSuccess.Status())
	req.Equal(StatusError, OutcomeFailure.Status())
}

func TestNewMessage_Starts_Sending(t *testing.T) {
	req := require.New(t)
	at := time.Now()

	first := NewMessage("hello", at)
	second := NewMessage("hello", at)

	req.Equal(StatusSending, first.Status)
	req.Equal("hello", first.Text)
	req.Equal(at, first.CreatedAt)
	req.NotEqual(first.ID, second.ID)
}

func TestIsBlank(t *testing.T) {
	req := require.New(t)
	req.True(IsBlank(""))
	req.True(IsBlank("   "))
	req.True(IsBlank("\t\n "))
	req.False(IsBlank(" a "))
}
