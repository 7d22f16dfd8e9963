package gui

import (
	"fmt"

	"github.com/gns3/gns3-desktop/internal/transfer"
)

// viewState is everything the dialog renders. It is computed off the UI
// thread and applied inside fyne.Do.
type viewState struct {
	Value      float64 // Progress bar position, 0 to 1
	Status     string
	CanCancel  bool
	Done       bool
	Failed     bool
	Err        error
	WindowName string
}

// dialogModel turns worker notifications into view states.
type dialogModel struct {
	req        transfer.Request
	state      viewState
	cancelling bool
	completed  bool
	skipped    int // unreadable directories reported on the event bus
}

func newDialogModel(req transfer.Request) *dialogModel {
	return &dialogModel{
		req: req,
		state: viewState{
			Status:     fmt.Sprintf("Preparing to %s %s", req.Mode, req.Source),
			CanCancel:  true,
			WindowName: windowTitle(req.Mode),
		},
	}
}

func windowTitle(mode transfer.Mode) string {
	if mode == transfer.ModeMove {
		return "Moving files"
	}
	return "Copying files"
}

func (m *dialogModel) current() viewState { return m.state }

// apply folds one notification into the state.
func (m *dialogModel) apply(n transfer.Notification) viewState {
	switch n.Kind {
	case transfer.KindProgress:
		m.state.Value = clamp01(n.Percent / 100)
		if !m.cancelling {
			m.state.Status = fmt.Sprintf("%.0f%% of %s", n.Percent, m.req.Source)
		}
	case transfer.KindCompleted:
		m.completed = true
		m.state.Value = 1
		m.state.Status = m.doneStatus()
		m.state.CanCancel = false
		m.state.Done = true
	case transfer.KindFailed:
		m.state.Status = "Failed: " + n.Message
		m.state.CanCancel = false
		m.state.Done = true
		m.state.Failed = true
		m.state.Err = n.Err
	}
	return m.state
}

// skippedDirectory records a directory the worker could not read.
func (m *dialogModel) skippedDirectory() viewState {
	m.skipped++
	if m.completed {
		m.state.Status = m.doneStatus()
	}
	return m.state
}

func (m *dialogModel) doneStatus() string {
	switch m.skipped {
	case 0:
		return "Done"
	case 1:
		return "Done, 1 unreadable directory skipped"
	default:
		return fmt.Sprintf("Done, %d unreadable directories skipped", m.skipped)
	}
}

// cancelRequested records that the user pressed Cancel. The worker finishes
// the file in flight before stopping.
func (m *dialogModel) cancelRequested() viewState {
	if m.state.Done {
		return m.state
	}
	m.cancelling = true
	m.state.Status = "Cancelling..."
	m.state.CanCancel = false
	return m.state
}

// closed is called when the notification channel closes. Without a terminal
// notification the run was cancelled.
func (m *dialogModel) closed() viewState {
	if !m.state.Done {
		m.state.Status = "Cancelled"
		m.state.CanCancel = false
		m.state.Done = true
	}
	return m.state
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
