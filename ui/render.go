// Package ui renders messages and their delivery status in a terminal.
package ui

import (
	"fmt"
	"io"
	"optimistic-chat/domain"
	"strconv"
	"sync"

	"github.com/gookit/color"
	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const EmptyPlaceholder = "No messages yet. Type something to send it."

func StatusIcon(s domain.Status) string {
	switch s {
	case domain.StatusSending:
		return "⏳"
	case domain.StatusSent:
		return "✓"
	case domain.StatusError:
		return "⚠️"
	default:
		return "?"
	}
}

func StatusLabel(s domain.Status) string {
	switch s {
	case domain.StatusSending:
		return "Sending"
	case domain.StatusSent:
		return "Sent"
	case domain.StatusError:
		return "Failed"
	default:
		return s.String()
	}
}

func statusColor(s domain.Status) color.Color {
	switch s {
	case domain.StatusSent:
		return color.FgGreen
	case domain.StatusError:
		return color.FgRed
	default:
		return color.FgGray
	}
}

// Badge is the icon and label of a status, coloured when asked to.
func Badge(s domain.Status, colours bool) string {
	badge := fmt.Sprintf("%s %s", StatusIcon(s), StatusLabel(s))
	if !colours {
		return badge
	}
	return statusColor(s).Render(badge)
}

// RetryHint is the action offered on a failed message, position is 1-based.
func RetryHint(s domain.Status, position int) string {
	if s != domain.StatusError {
		return ""
	}
	return fmt.Sprintf("/retry %d", position)
}

// RenderMessages prints the messages as a table, in insertion order.
func RenderMessages(w io.Writer, messages []domain.Message, colours bool) {
	if len(messages) == 0 {
		fmt.Fprintln(w, EmptyPlaceholder)
		return
	}
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"#", "Status", "Message", "Action"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.AppendBulk(lo.Map(messages, func(m domain.Message, i int) []string {
		return []string{
			strconv.Itoa(i + 1),
			Badge(m.Status, colours),
			m.Text,
			RetryHint(m.Status, i+1),
		}
	}))
	table.Render()
}

// LockedWriter serializes writes coming from the prompt and from the sinks.
type LockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewLockedWriter(w io.Writer) *LockedWriter {
	return &LockedWriter{w: w}
}

func (l *LockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
