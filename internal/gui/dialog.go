package gui

import (
	"context"
	"sync"
	"sync/atomic"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"github.com/gns3/gns3-desktop/internal/events"
	"github.com/gns3/gns3-desktop/internal/logging"
	"github.com/gns3/gns3-desktop/internal/transfer"
)

// transferWindow binds one worker to a window with a progress bar, a status
// label and a Cancel button.
type transferWindow struct {
	app    fyne.App
	window fyne.Window
	worker *transfer.Worker
	model  *dialogModel
	logger *logging.Logger

	bar    *widget.ProgressBar
	status *widget.Label
	cancel *widget.Button

	mu       sync.Mutex // guards model between the UI thread and watch
	closing  atomic.Bool
	finished chan struct{}
	last     transfer.Notification
	ok       bool
}

// RunTransfer opens a window for w, starts it and blocks until the window is
// closed. It returns the terminal notification; ok is false when the run was
// cancelled. Closing the window or cancelling ctx stops a run that is still going.
// Warnings the worker publishes on bus, if set, are shown in the status line.
func RunTransfer(ctx context.Context, w *transfer.Worker, bus *events.EventBus, logger *logging.Logger) (last transfer.Notification, ok bool, err error) {
	if err := CheckDisplay(); err != nil {
		return last, false, err
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	a := app.NewWithID("net.gns3.transfer")
	a.Settings().SetTheme(&gns3Theme{})

	tw := newTransferWindow(a, w, logger)
	tw.window.Show()

	if err := w.Start(); err != nil {
		return last, false, err
	}
	go func() {
		select {
		case <-ctx.Done():
			tw.logger.Info().Str("run_id", w.ID()).Msg("Cancel requested by signal")
			w.Cancel()
		case <-w.Done():
		}
	}()
	go tw.watch()
	if bus != nil {
		logs := bus.Subscribe(events.EventLog)
		defer bus.Unsubscribe(events.EventLog, logs)
		go tw.watchWarnings(logs)
	}

	a.Run()

	w.Cancel()
	<-tw.finished
	return tw.last, tw.ok, nil
}

func newTransferWindow(a fyne.App, w *transfer.Worker, logger *logging.Logger) *transferWindow {
	tw := &transferWindow{
		app:      a,
		worker:   w,
		model:    newDialogModel(w.Request()),
		logger:   logger,
		finished: make(chan struct{}),
	}

	initial := tw.model.current()
	tw.window = a.NewWindow(initial.WindowName)
	tw.window.SetMaster()
	tw.window.Resize(fyne.NewSize(480, 140))
	tw.window.SetOnClosed(func() {
		tw.closing.Store(true)
		tw.worker.Cancel()
	})

	tw.bar = widget.NewProgressBar()
	tw.status = widget.NewLabel("")
	tw.status.Truncation = fyne.TextTruncateEllipsis
	tw.cancel = widget.NewButton("Cancel", tw.onCancel)

	tw.window.SetContent(container.NewVBox(
		tw.status,
		tw.bar,
		container.NewHBox(layout.NewSpacer(), tw.cancel),
	))
	tw.render(initial)
	return tw
}

// onCancel runs on the UI thread.
func (tw *transferWindow) onCancel() {
	tw.mu.Lock()
	state := tw.model.cancelRequested()
	tw.mu.Unlock()

	tw.logger.Info().Str("run_id", tw.worker.ID()).Msg("Cancel requested from window")
	tw.render(state)
	tw.worker.Cancel()
}

// watch consumes the worker's notifications until the channel closes.
func (tw *transferWindow) watch() {
	defer close(tw.finished)

	for n := range tw.worker.Notifications() {
		tw.mu.Lock()
		state := tw.model.apply(n)
		tw.mu.Unlock()
		if n.IsTerminal() {
			tw.last, tw.ok = n, true
		}
		tw.do(func() { tw.render(state) })
	}

	tw.mu.Lock()
	state := tw.model.closed()
	tw.mu.Unlock()

	tw.do(func() {
		tw.render(state)
		if state.Failed {
			d := dialog.NewError(state.Err, tw.window)
			d.SetOnClosed(tw.app.Quit)
			d.Show()
			return
		}
		tw.app.Quit()
	})
}

// watchWarnings counts this run's skipped directories until logs is closed.
func (tw *transferWindow) watchWarnings(logs <-chan events.Event) {
	for ev := range logs {
		le, ok := ev.(*events.LogEvent)
		if !ok || le.RunID != tw.worker.ID() || le.Level < events.WarnLevel {
			continue
		}
		tw.mu.Lock()
		state := tw.model.skippedDirectory()
		tw.mu.Unlock()
		tw.do(func() { tw.render(state) })
	}
}

// do schedules fn on the UI thread unless the window is already gone.
func (tw *transferWindow) do(fn func()) {
	if tw.closing.Load() {
		return
	}
	fyne.Do(fn)
}

// render must run on the UI thread.
func (tw *transferWindow) render(state viewState) {
	tw.bar.SetValue(state.Value)
	tw.status.SetText(state.Status)
	if state.CanCancel {
		tw.cancel.Enable()
	} else {
		tw.cancel.Disable()
	}
}
