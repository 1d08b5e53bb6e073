package workers

import (
	"context"
	"log/slog"
	"optimistic-chat/contract"
	"reflect"
	"time"

	"github.com/samber/lo"
)

var _ contract.Worker = (*ChannelCapacityWorker)(nil)

type NamedChannel struct {
	Name    string
	Channel any
}

type ChannelCapacity struct {
	ChannelName string
	Capacity    int
	Length      int
}

// UsagePercent is 0 for unbuffered channels.
func (c ChannelCapacity) UsagePercent() int {
	if c.Capacity == 0 {
		return 0
	}
	return c.Length * 100 / c.Capacity
}

// ChannelCapacityWorker periodically reports the length of the internal queues.
// Reading len(channel) and cap(channel) is non-blocking, so this won't interfere
// with other goroutines. A full delivery queue makes Submit block, the warning
// shows it before it happens.
type ChannelCapacityWorker struct {
	log                  *slog.Logger
	channels             []NamedChannel
	metricInterval       time.Duration
	lowCapacityThreshold int // percent of the capacity
}

func NewChannelCapacityWorker(log *slog.Logger, channels []NamedChannel,
	metricInterval time.Duration, lowCapacityThreshold int) *ChannelCapacityWorker {
	return &ChannelCapacityWorker{
		log:                  log,
		channels:             channels,
		metricInterval:       metricInterval,
		lowCapacityThreshold: lowCapacityThreshold,
	}
}

func (w *ChannelCapacityWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Context done, stopping capacity sampling")
			return nil
		case <-ticker.C:
			w.Report(w.Measure())
		}
	}
}

// Measure samples every channel, skipping values which are not channels.
func (w *ChannelCapacityWorker) Measure() []ChannelCapacity {
	return lo.FilterMap(w.channels, func(nc NamedChannel, _ int) (ChannelCapacity, bool) {
		v := reflect.ValueOf(nc.Channel)
		if v.Kind() != reflect.Chan {
			w.log.Error("Provided object is not a channel", "name", nc.Name)
			return ChannelCapacity{}, false
		}
		return ChannelCapacity{ChannelName: nc.Name, Capacity: v.Cap(), Length: v.Len()}, true
	})
}

// Report logs the samples and returns those above the threshold.
func (w *ChannelCapacityWorker) Report(samples []ChannelCapacity) []ChannelCapacity {
	return lo.Filter(samples, func(c ChannelCapacity, _ int) bool {
		if c.UsagePercent() >= w.lowCapacityThreshold {
			w.log.Warn("Channel almost full", "name", c.ChannelName,
				"length", c.Length, "capacity", c.Capacity)
			return true
		}
		w.log.Debug("Channel capacity", "name", c.ChannelName,
			"length", c.Length, "capacity", c.Capacity)
		return false
	})
}
