package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"optimistic-chat/domain"
	"optimistic-chat/errors"
	"optimistic-chat/projection"
	"optimistic-chat/repositories"
	"optimistic-chat/runtime"
	"optimistic-chat/ui"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

const help = `Type a message and press enter to send it.
  /fail on|off   make the next deliveries fail or succeed
  /retry <n>     send again the failed message number n
  /list          show all messages
  /history <n>   show the status changes of message number n
  /stats         count messages per status
  /help          show this help
  /quit          leave`

// console is the input side of the UI: one line, one action.
type console struct {
	log          *slog.Logger
	orchestrator *runtime.Orchestrator
	journal      repositories.ITransitionRepository
	timeline     *projection.Timeline
	out          io.Writer
	colours      bool
}

func newConsole(log *slog.Logger, orchestrator *runtime.Orchestrator,
	journal repositories.ITransitionRepository, timeline *projection.Timeline,
	out io.Writer, colours bool) *console {
	return &console{
		log:          log,
		orchestrator: orchestrator,
		journal:      journal,
		timeline:     timeline,
		out:          out,
		colours:      colours,
	}
}

// Run reads lines until EOF, /quit or ctx is done.
func (c *console) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		quit, err := c.Handle(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(c.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (c *console) Handle(ctx context.Context, line string) (bool, error) {
	if !strings.HasPrefix(strings.TrimSpace(line), "/") {
		_, _, err := c.orchestrator.Submit(ctx, line)
		return false, err
	}

	fields := strings.Fields(line)
	args := fields[1:]
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(c.out, help)
	case "/list":
		ui.RenderMessages(c.out, c.orchestrator.Messages(), c.colours)
	case "/fail":
		return false, c.toggle(args)
	case "/retry":
		message, err := c.messageAt(args)
		if err != nil {
			return false, err
		}
		return false, c.orchestrator.Retry(ctx, message.ID)
	case "/history":
		message, err := c.messageAt(args)
		if err != nil {
			return false, err
		}
		return false, c.history(message)
	case "/stats":
		c.stats()
	default:
		return false, fmt.Errorf("%w: %s", errors.ErrUnknownCommand, fields[0])
	}
	return false, nil
}

func (c *console) toggle(args []string) error {
	switch lo.FirstOr(args, "") {
	case "on":
		c.orchestrator.SetForceFailure(true)
	case "off":
		c.orchestrator.SetForceFailure(false)
	default:
		return fmt.Errorf("usage: /fail on|off")
	}
	fmt.Fprintf(c.out, "deliveries will %s\n", lo.Ternary(c.orchestrator.ForceFailure(), "fail", "succeed"))
	return nil
}

// messageAt resolves the 1-based position shown by /list.
func (c *console) messageAt(args []string) (domain.Message, error) {
	if len(args) != 1 {
		return domain.Message{}, fmt.Errorf("a message number is required")
	}
	position, err := strconv.Atoi(args[0])
	if err != nil {
		return domain.Message{}, fmt.Errorf("invalid message number %q", args[0])
	}
	messages := c.orchestrator.Messages()
	if position < 1 || position > len(messages) {
		return domain.Message{}, fmt.Errorf("%w: no message number %d", errors.ErrMessageNotFound, position)
	}
	return messages[position-1], nil
}

func (c *console) history(message domain.Message) error {
	transitions, err := c.journal.GetTransitions(message.ID)
	if err != nil {
		return fmt.Errorf("read journal: %w", err)
	}
	fmt.Fprintf(c.out, "%s\n", message.Text)
	for _, transition := range transitions {
		from := "-"
		if transition.From != 0 {
			from = transition.From.String()
		}
		fmt.Fprintf(c.out, "  %s  %s -> %s\n",
			transition.At.Local().Format("15:04:05.000"), from, transition.To)
	}
	return nil
}

func (c *console) stats() {
	counts := c.timeline.Counts()
	for _, s := range []domain.Status{domain.StatusSending, domain.StatusSent, domain.StatusError} {
		fmt.Fprintf(c.out, "%s: %d\n", ui.Badge(s, c.colours), counts[s])
	}
}
