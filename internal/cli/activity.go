package cli

import (
	"sync/atomic"

	"github.com/gns3/gns3-desktop/internal/events"
	"github.com/gns3/gns3-desktop/internal/logging"
)

// activityLog follows the event bus of a command: progress goes to the debug
// log and skipped-directory warnings are counted for the final summary.
type activityLog struct {
	logger   *logging.Logger
	warnings atomic.Int64
	dropped  int64 // set once the bus is closed
	done     chan struct{}
}

func startActivityLog(bus *events.EventBus, logger *logging.Logger) *activityLog {
	a := &activityLog{logger: logger, done: make(chan struct{})}
	ch := bus.SubscribeAll()
	go func() {
		defer close(a.done)
		for ev := range ch {
			a.record(ev)
		}
		a.dropped = bus.GetDroppedEventCount()
		if a.dropped > 0 {
			a.logger.Debug().Int64("dropped", a.dropped).Msg("Event bus dropped events for slow subscribers")
		}
	}()
	return a
}

func (a *activityLog) record(ev events.Event) {
	switch e := ev.(type) {
	case *events.TransferEvent:
		if e.Type() == events.EventTransferProgress {
			a.logger.Debug().
				Str("run_id", e.RunID).
				Float64("percent", e.Percent).
				Int("files", e.Files).
				Int("total", e.TotalFiles).
				Msg("Progress")
		}
	case *events.LogEvent:
		if e.Level >= events.WarnLevel {
			a.warnings.Add(1)
		}
	}
}

// Wait blocks until the bus is closed and drained.
func (a *activityLog) Wait() { <-a.done }

// Dropped returns how many events the bus dropped. Valid after Wait.
func (a *activityLog) Dropped() int64 { return a.dropped }

// Warnings returns the number of warnings seen so far.
func (a *activityLog) Warnings() int { return int(a.warnings.Load()) }
