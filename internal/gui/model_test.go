package gui

import (
	"errors"
	"strings"
	"testing"

	"github.com/gns3/gns3-desktop/internal/transfer"
)

func testRequest(mode transfer.Mode) transfer.Request {
	return transfer.Request{Source: "/images", Destination: "/backup", Mode: mode}
}

func TestDialogModel_Initial(t *testing.T) {
	m := newDialogModel(testRequest(transfer.ModeMove))
	s := m.current()
	if s.WindowName != "Moving files" {
		t.Errorf("WindowName = %q", s.WindowName)
	}
	if !s.CanCancel || s.Done || s.Value != 0 {
		t.Errorf("initial state = %+v", s)
	}
	if !strings.Contains(s.Status, "move /images") {
		t.Errorf("Status = %q", s.Status)
	}
	if newDialogModel(testRequest(transfer.ModeCopy)).current().WindowName != "Copying files" {
		t.Error("copy window title mismatch")
	}
}

func TestDialogModel_Completed(t *testing.T) {
	m := newDialogModel(testRequest(transfer.ModeCopy))

	s := m.apply(transfer.Notification{Kind: transfer.KindProgress, Percent: 40})
	if s.Value != 0.4 || s.Status != "40% of /images" {
		t.Errorf("after progress: %+v", s)
	}

	s = m.apply(transfer.Notification{Kind: transfer.KindCompleted})
	if !s.Done || s.Failed || s.CanCancel || s.Value != 1 {
		t.Errorf("after completed: %+v", s)
	}

	// Channel closing after completion keeps the completed state
	if s = m.closed(); s.Status != "Done" {
		t.Errorf("after close: %+v", s)
	}
}

func TestDialogModel_Failed(t *testing.T) {
	m := newDialogModel(testRequest(transfer.ModeCopy))
	boom := errors.New("no space left on device")

	s := m.apply(transfer.Notification{Kind: transfer.KindFailed, Message: boom.Error(), Err: boom})
	if !s.Done || !s.Failed || s.Err != boom {
		t.Errorf("after failed: %+v", s)
	}
	if s.Status != "Failed: no space left on device" {
		t.Errorf("Status = %q", s.Status)
	}
	if s = m.cancelRequested(); s.Status != "Failed: no space left on device" {
		t.Errorf("cancel after failure changed state: %+v", s)
	}
}

func TestDialogModel_Cancelled(t *testing.T) {
	m := newDialogModel(testRequest(transfer.ModeCopy))

	m.apply(transfer.Notification{Kind: transfer.KindProgress, Percent: 10})
	s := m.cancelRequested()
	if s.CanCancel || s.Status != "Cancelling..." {
		t.Errorf("after cancel: %+v", s)
	}

	// The file in flight still reports progress but the status stays
	s = m.apply(transfer.Notification{Kind: transfer.KindProgress, Percent: 20})
	if s.Status != "Cancelling..." || s.Value != 0.2 {
		t.Errorf("progress while cancelling: %+v", s)
	}

	s = m.closed()
	if !s.Done || s.Failed || s.Status != "Cancelled" {
		t.Errorf("after close: %+v", s)
	}
}

func TestDialogModel_SkippedDirectories(t *testing.T) {
	m := newDialogModel(testRequest(transfer.ModeCopy))

	// A warning can arrive before or after the completed notification
	m.skippedDirectory()
	s := m.apply(transfer.Notification{Kind: transfer.KindCompleted})
	if s.Status != "Done, 1 unreadable directory skipped" {
		t.Errorf("Status = %q", s.Status)
	}
	if s = m.skippedDirectory(); s.Status != "Done, 2 unreadable directories skipped" {
		t.Errorf("Status = %q", s.Status)
	}

	c := newDialogModel(testRequest(transfer.ModeCopy))
	c.apply(transfer.Notification{Kind: transfer.KindProgress, Percent: 100})
	c.closed()
	if s := c.skippedDirectory(); s.Status != "Cancelled" {
		t.Errorf("a cancelled run kept Status = %q", s.Status)
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{-0.5, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
	}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("clamp01(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCheckDisplay(t *testing.T) {
	env := func(vars map[string]string) func(string) string {
		return func(k string) string { return vars[k] }
	}

	tests := []struct {
		name    string
		goos    string
		vars    map[string]string
		wantErr bool
	}{
		{"linux without display", "linux", nil, true},
		{"linux with X11", "linux", map[string]string{"DISPLAY": ":0"}, false},
		{"linux with wayland", "linux", map[string]string{"WAYLAND_DISPLAY": "wayland-0"}, false},
		{"windows", "windows", nil, false},
		{"darwin", "darwin", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkDisplay(tt.goos, env(tt.vars))
			if (err != nil) != tt.wantErr {
				t.Errorf("checkDisplay() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrNoDisplay) {
				t.Errorf("error = %v, want ErrNoDisplay", err)
			}
		})
	}
}
