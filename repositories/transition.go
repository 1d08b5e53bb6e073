//go:generate go run go.uber.org/mock/mockgen -source=transition.go -destination=../mocks/mock_transition_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"optimistic-chat/domain"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const transitionPrefix = "transition:"

type ITransitionRepository interface {
	StoreTransition(transition DiskTransition) error
	GetTransitions(messageID uuid.UUID) ([]DiskTransition, error)
	Count() (int, error)
}

// TransitionRepository journals every status change of the session.
// It is meant to run on an in-memory badger instance.
type TransitionRepository struct {
	db  *badger.DB
	log *slog.Logger
	seq *atomic.Uint64
}

func NewTransitionRepository(db *badger.DB, log *slog.Logger) TransitionRepository {
	return TransitionRepository{db: db, log: log, seq: &atomic.Uint64{}}
}

// OpenInMemory opens the badger instance backing the journal.
// Nothing is written to disk, the journal dies with the process.
func OpenInMemory() (*badger.DB, error) {
	return badger.Open(badger.DefaultOptions("").
		WithInMemory(true).
		WithLoggingLevel(badger.WARNING))
}

// DiskTransition is a journal entry. From is zero for the initial enqueue.
type DiskTransition struct {
	MessageID uuid.UUID
	Text      string
	From      domain.Status
	To        domain.Status
	At        time.Time
}

// StoreTransition persists a transition under
// "transition:{message_id}:{timestamp_padded}:{seq_padded}" so that a prefix
// scan on a message returns its history in chronological order. The sequence
// number breaks ties between entries written in the same nanosecond.
func (t TransitionRepository) StoreTransition(transition DiskTransition) error {
	key := fmt.Sprintf("%s%s:%019d:%010d",
		transitionPrefix,
		transition.MessageID,
		transition.At.UnixNano(),
		t.seq.Add(1),
	)
	value, err := fromDiskTransition(transition)
	if err != nil {
		return err
	}
	bytes, err := proto.Marshal(value)
	if err != nil {
		return err
	}
	return t.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

func (t TransitionRepository) GetTransitions(messageID uuid.UUID) ([]DiskTransition, error) {
	var transitions []DiskTransition
	err := t.db.View(func(txn *badger.Txn) error {
		prefix := []byte(fmt.Sprintf("%s%s:", transitionPrefix, messageID))
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(value []byte) error {
				var s structpb.Struct
				if err := proto.Unmarshal(value, &s); err != nil {
					return err
				}
				transition, err := toDiskTransition(&s)
				if err != nil {
					return err
				}
				transitions = append(transitions, transition)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return transitions, nil
}

func (t TransitionRepository) Count() (int, error) {
	count := 0
	err := t.db.View(func(txn *badger.Txn) error {
		options := badger.DefaultIteratorOptions
		options.PrefetchValues = false
		it := txn.NewIterator(options)
		defer it.Close()

		prefix := []byte(transitionPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count, err
}

func fromDiskTransition(transition DiskTransition) (*structpb.Struct, error) {
	from := ""
	if transition.From != 0 {
		from = transition.From.String()
	}
	return structpb.NewStruct(map[string]any{
		"message_id": transition.MessageID.String(),
		"text":       transition.Text,
		"from":       from,
		"to":         transition.To.String(),
		"at":         transition.At.UTC().Format(time.RFC3339Nano),
	})
}

func toDiskTransition(s *structpb.Struct) (DiskTransition, error) {
	fields := s.GetFields()
	id, err := uuid.Parse(fields["message_id"].GetStringValue())
	if err != nil {
		return DiskTransition{}, err
	}
	var from domain.Status
	if str := fields["from"].GetStringValue(); str != "" {
		if from, err = domain.ParseStatus(str); err != nil {
			return DiskTransition{}, err
		}
	}
	to, err := domain.ParseStatus(fields["to"].GetStringValue())
	if err != nil {
		return DiskTransition{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
	if err != nil {
		return DiskTransition{}, err
	}
	return DiskTransition{
		MessageID: id,
		Text:      fields["text"].GetStringValue(),
		From:      from,
		To:        to,
		At:        at,
	}, nil
}
