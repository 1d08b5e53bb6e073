package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"optimistic-chat/delivery"
	"optimistic-chat/domain"
	"optimistic-chat/projection"
	"optimistic-chat/repositories"
	"optimistic-chat/runtime"
	"optimistic-chat/runtime/workers"
	"optimistic-chat/sink"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/suite"
)

// BaseSuite runs the whole pipeline in-process: store, delivery workers,
// fanout, timeline and journal. Every test gets a fresh session.
type BaseSuite struct {
	suite.Suite
	Config       Config
	Orchestrator *runtime.Orchestrator
	Timeline     *projection.Timeline
	Journal      repositories.TransitionRepository
	db           *badger.DB
}

// SetupSuite loads the environment configuration before running tests
func (s *BaseSuite) SetupSuite() {
	var err error
	s.Config, err = LoadConfig()
	s.Require().NoError(err)
}

func (s *BaseSuite) SetupTest() {
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	db, err := repositories.OpenInMemory()
	s.Require().NoError(err)
	s.db = db
	s.Journal = repositories.NewTransitionRepository(db, log)
	s.Timeline = projection.NewTimeline()

	s.Orchestrator = runtime.NewOrchestrator(log,
		workers.NewSupervisor(log, 0),
		repositories.NewMessageRepository(),
		delivery.NewSimulator(log, s.Config.DeliveryDelay),
		2, 64, time.Second)
	s.Orchestrator.Add(s.Timeline, sink.NewJournalSink(s.Journal, log))
	s.Require().NoError(s.Orchestrator.Start(context.Background()))
}

func (s *BaseSuite) TearDownTest() {
	s.Orchestrator.Stop()
	s.Require().NoError(s.db.Close())
}

// Step prints a colorized header, then runs the step
func (s *BaseSuite) Step(name string, fn func()) {
	header := fmt.Sprintf("  ====== %s ======", name)
	if s.Config.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	s.T().Log(header)
	fn()
}

// Submit sends text and returns the id of the created record
func (s *BaseSuite) Submit(text string) uuid.UUID {
	id, ok, err := s.Orchestrator.Submit(context.Background(), text)
	s.Require().NoError(err)
	s.Require().True(ok, "no record created for %q", text)
	return id
}

// AwaitStatus waits for a message to reach the given status
func (s *BaseSuite) AwaitStatus(id uuid.UUID, status domain.Status) {
	s.Require().Eventually(func() bool {
		message, err := s.Orchestrator.Message(id)
		return err == nil && message.Status == status
	}, s.Config.Timeout, 5*time.Millisecond, "message %s never reached %s", id, status)
}

// AwaitHistory waits until the journal holds n transitions for a message
func (s *BaseSuite) AwaitHistory(id uuid.UUID, n int) []repositories.DiskTransition {
	var transitions []repositories.DiskTransition
	s.Require().Eventually(func() bool {
		var err error
		transitions, err = s.Journal.GetTransitions(id)
		return err == nil && len(transitions) == n
	}, s.Config.Timeout, 5*time.Millisecond)
	return transitions
}
