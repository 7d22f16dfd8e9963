package cli

import (
	"testing"

	"github.com/gns3/gns3-desktop/internal/events"
	"github.com/gns3/gns3-desktop/internal/logging"
)

func TestActivityLog_CountsWarnings(t *testing.T) {
	bus := events.NewEventBus(0)
	a := startActivityLog(bus, logging.NewNopLogger())

	bus.PublishLog(events.WarnLevel, "Skipping unreadable directory /a", "run", nil)
	bus.PublishLog(events.InfoLevel, "noise", "run", nil)
	bus.PublishTransfer(events.EventTransferProgress, events.TransferEvent{RunID: "run", Percent: 50})
	bus.PublishLog(events.ErrorLevel, "disk gone", "run", nil)
	bus.Close()
	a.Wait()

	if got := a.Warnings(); got != 2 {
		t.Errorf("Warnings() = %d, want 2", got)
	}
	if got := a.Dropped(); got != 0 {
		t.Errorf("Dropped() = %d, want 0", got)
	}
}

func TestActivityLog_ReportsDroppedEvents(t *testing.T) {
	bus := events.NewEventBus(1)
	a := startActivityLog(bus, logging.NewNopLogger())
	_ = bus.Subscribe(events.EventLog) // never read

	for i := 0; i < 3; i++ {
		bus.PublishLog(events.WarnLevel, "skipped", "run", nil)
	}
	bus.Close()
	a.Wait()

	if got := a.Dropped(); got < 2 {
		t.Errorf("Dropped() = %d, want at least 2", got)
	}
}
