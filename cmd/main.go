package main

import (
	"context"
	"fmt"
	"optimistic-chat/delivery"
	"optimistic-chat/internal"
	"optimistic-chat/projection"
	"optimistic-chat/repositories"
	"optimistic-chat/runtime"
	"optimistic-chat/runtime/workers"
	"optimistic-chat/sink"
	"optimistic-chat/ui"
	"os"
	"os/signal"
	"syscall"

	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires every component and keeps the deferred cleanups (journal,
// workers) on the way out, whatever made the program stop.
func run() error {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Session journal (in-memory BadgerDB)
	db, err := repositories.OpenInMemory()
	if err != nil {
		return fmt.Errorf("journal opening failed: %w", err)
	}
	defer func() {
		log.Debug("Closing journal...")
		_ = db.Close()
	}()
	journal := repositories.NewTransitionRepository(db, log)

	// 3. Message store, delivery and sinks
	out := ui.NewLockedWriter(os.Stdout)
	timeline := projection.NewTimeline()
	orchestrator := runtime.NewOrchestrator(
		log,
		workers.NewSupervisor(log, config.RestartInterval),
		repositories.NewMessageRepository(),
		delivery.NewSimulator(log, config.DeliveryDelay),
		config.NumberOfWorkers, config.BufferSize, config.SinkTimeout,
	)
	orchestrator.SetForceFailure(config.ForceFailure)
	orchestrator.MonitorCapacity(config.MetricInterval, config.LowCapacityThreshold)
	orchestrator.Add(
		timeline,
		sink.NewJournalSink(journal, log),
		ui.NewStatusPrinter(out, config.Colours, orchestrator),
	)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Start the delivery pipeline
	if err = orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("orchestrator failed to start: %w", err)
	}
	defer orchestrator.Stop()

	// 6. Read user input until EOF, /quit or a signal
	fmt.Fprintln(out, help)
	errChan := make(chan error, 1)
	go func() {
		errChan <- newConsole(log, orchestrator, journal, timeline, out, config.Colours).Run(ctx, os.Stdin)
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err = <-errChan:
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
	}
	return nil
}
