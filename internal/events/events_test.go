package events

import (
	"errors"
	"testing"
	"time"
)

func TestEventBus_PublishSubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventTransferProgress)

	bus.PublishTransfer(EventTransferProgress, TransferEvent{
		RunID:      "run-1",
		Source:     "/src",
		Mode:       "copy",
		Percent:    50,
		Files:      1,
		TotalFiles: 2,
	})

	select {
	case received := <-ch:
		ev, ok := received.(*TransferEvent)
		if !ok {
			t.Fatal("Expected TransferEvent")
		}
		if ev.RunID != "run-1" {
			t.Errorf("Expected run ID 'run-1', got '%s'", ev.RunID)
		}
		if ev.Percent != 50 {
			t.Errorf("Expected percent 50, got %f", ev.Percent)
		}
		if ev.Type() != EventTransferProgress {
			t.Errorf("Expected type %s, got %s", EventTransferProgress, ev.Type())
		}
		if ev.Timestamp().IsZero() {
			t.Error("Expected timestamp to be set")
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for event")
	}
}

func TestEventBus_MultipleSubscribers(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch1 := bus.Subscribe(EventLog)
	ch2 := bus.Subscribe(EventLog)

	bus.PublishLog(InfoLevel, "Test log", "run-1", nil)

	for i, ch := range []<-chan Event{ch1, ch2} {
		select {
		case <-ch:
		case <-time.After(100 * time.Millisecond):
			t.Errorf("Subscriber %d did not receive event", i+1)
		}
	}
}

func TestEventBus_SubscribeAll(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	all := bus.SubscribeAll()

	bus.PublishTransfer(EventTransferStarted, TransferEvent{RunID: "a"})
	bus.PublishTransfer(EventTransferFailed, TransferEvent{RunID: "a", Error: errors.New("boom")})

	want := []EventType{EventTransferStarted, EventTransferFailed}
	for _, wt := range want {
		select {
		case ev := <-all:
			if ev.Type() != wt {
				t.Errorf("Expected %s, got %s", wt, ev.Type())
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatalf("Timeout waiting for %s", wt)
		}
	}
}

func TestEventBus_DropsWhenFull(t *testing.T) {
	bus := NewEventBus(1)
	defer bus.Close()

	_ = bus.Subscribe(EventTransferProgress)

	for i := 0; i < 5; i++ {
		bus.PublishTransfer(EventTransferProgress, TransferEvent{Files: i})
	}

	if got := bus.GetDroppedEventCount(); got != 4 {
		t.Errorf("Expected 4 dropped events, got %d", got)
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus(10)
	defer bus.Close()

	ch := bus.Subscribe(EventTransferCompleted)
	bus.Unsubscribe(EventTransferCompleted, ch)

	bus.PublishTransfer(EventTransferCompleted, TransferEvent{RunID: "x"})

	if ev, ok := <-ch; ok {
		t.Errorf("Received %+v after unsubscribe", ev)
	}

	// Unsubscribing twice or after Close is harmless
	bus.Unsubscribe(EventTransferCompleted, ch)
}

func TestEventBus_Close(t *testing.T) {
	bus := NewEventBus(10)
	ch := bus.Subscribe(EventTransferProgress)

	bus.Close()
	bus.Close() // second close is a no-op

	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed")
	}

	// Publishing and subscribing after close must not panic.
	bus.PublishTransfer(EventTransferProgress, TransferEvent{})
	late := bus.Subscribe(EventTransferProgress)
	if _, ok := <-late; ok {
		t.Error("Expected late subscription to be closed")
	}
}

func TestNewEventBus_BufferBounds(t *testing.T) {
	if bus := NewEventBus(0); bus.bufferSize != 1000 {
		t.Errorf("Expected default buffer 1000, got %d", bus.bufferSize)
	}
	if bus := NewEventBus(1 << 20); bus.bufferSize != 5000 {
		t.Errorf("Expected capped buffer 5000, got %d", bus.bufferSize)
	}
}

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level LogLevel
		want  string
	}{
		{DebugLevel, "DEBUG"},
		{InfoLevel, "INFO"},
		{WarnLevel, "WARN"},
		{ErrorLevel, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}
