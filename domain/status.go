package domain

import "fmt"

// Status is the delivery progress of a Message.
//
//	(none) --submit--> sending --success--> sent (terminal)
//	                   sending --failure--> error
//	error  --retry---> sending
type Status int

const (
	StatusSending Status = iota + 1
	StatusSent
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSending:
		return "sending"
	case StatusSent:
		return "sent"
	case StatusError:
		return "error"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

func ParseStatus(str string) (Status, error) {
	switch str {
	case "sending":
		return StatusSending, nil
	case "sent":
		return StatusSent, nil
	case "error":
		return StatusError, nil
	default:
		return 0, fmt.Errorf("unknown status %q", str)
	}
}

// IsTerminal is true for sent only, error can still be retried.
func (s Status) IsTerminal() bool {
	return s == StatusSent
}

// CanTransitionTo tells whether next is reachable from s in one step.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusSending:
		return next == StatusSent || next == StatusError
	case StatusError:
		return next == StatusSending
	default:
		return false
	}
}

// Outcome is the resolution of one delivery attempt.
type Outcome int

const (
	OutcomeSuccess Outcome = iota + 1
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Status maps the outcome to the status it resolves a sending record to.
func (o Outcome) Status() Status {
	if o == OutcomeSuccess {
		return StatusSent
	}
	return StatusError
}
