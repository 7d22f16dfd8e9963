// Package progress renders transfer notifications as terminal progress bars,
// either a single bar for one transfer or a stack of bars for a batch.
package progress

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/gns3/gns3-desktop/internal/constants"
	"github.com/gns3/gns3-desktop/internal/transfer"
)

// ErrCancelled is passed to Reporter.Error when a run ends without a
// terminal notification.
var ErrCancelled = errors.New("transfer cancelled")

// Drive feeds the notifications of src into r until the channel closes and
// returns the terminal notification. ok is false when the run was cancelled.
//
// Percentages are mapped onto a bar of constants.ProgressBarScale steps so
// fractional progress on large trees still moves the bar.
func Drive(src Source, description string, r Reporter) (last transfer.Notification, ok bool) {
	r.Start(constants.ProgressBarScale, description)

	for n := range src.Notifications() {
		switch n.Kind {
		case transfer.KindProgress:
			r.Update(percentToSteps(n.Percent))
		case transfer.KindCompleted:
			r.Update(constants.ProgressBarScale)
			r.Finish()
			last, ok = n, true
		case transfer.KindFailed:
			r.Error(n.Err)
			last, ok = n, true
		}
	}

	if !ok {
		r.Error(ErrCancelled)
	}
	return last, ok
}

func percentToSteps(percent float64) int64 {
	switch {
	case percent <= 0:
		return 0
	case percent >= 100:
		return constants.ProgressBarScale
	default:
		return int64(percent / 100 * constants.ProgressBarScale)
	}
}

// NewTerminalReporter returns a CLIProgress when stderr is a terminal and a
// NoOpProgress otherwise, so redirected output is not filled with bar frames.
func NewTerminalReporter() Reporter {
	if term.IsTerminal(int(os.Stderr.Fd())) {
		enableANSIOnWindows(os.Stderr)
		return NewCLIProgress()
	}
	return NewNoOpProgress()
}

// CLIProgress implements progress reporting for CLI mode using progress bars.
type CLIProgress struct {
	bar *progressbar.ProgressBar
	out io.Writer
}

// NewCLIProgress creates a new CLI progress reporter writing to stderr.
func NewCLIProgress() *CLIProgress {
	return NewCLIProgressWriter(os.Stderr)
}

// NewCLIProgressWriter creates a CLI progress reporter writing to w.
func NewCLIProgressWriter(w io.Writer) *CLIProgress {
	return &CLIProgress{out: w}
}

// Start initializes the progress bar with total steps and description.
func (p *CLIProgress) Start(total int64, description string) {
	p.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(constants.ProgressUpdateInterval),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(p.out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
}

// Update updates the progress bar to the current position.
func (p *CLIProgress) Update(current int64) {
	if p.bar != nil {
		_ = p.bar.Set64(current)
	}
}

// Finish completes the progress bar.
func (p *CLIProgress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}

// Error displays an error message below the bar.
func (p *CLIProgress) Error(err error) {
	if err == nil {
		return
	}
	if errors.Is(err, ErrCancelled) {
		fmt.Fprint(p.out, "\nCancelled\n")
		return
	}
	fmt.Fprintf(p.out, "\nError: %v\n", err)
}

// SetDescription updates the progress bar description.
func (p *CLIProgress) SetDescription(desc string) {
	if p.bar != nil {
		p.bar.Describe(desc)
	}
}

// NoOpProgress is a progress reporter that does nothing (for background/silent operations).
type NoOpProgress struct{}

// NewNoOpProgress creates a new no-op progress reporter.
func NewNoOpProgress() *NoOpProgress {
	return &NoOpProgress{}
}

// Start does nothing.
func (p *NoOpProgress) Start(total int64, description string) {}

// Update does nothing.
func (p *NoOpProgress) Update(current int64) {}

// Finish does nothing.
func (p *NoOpProgress) Finish() {}

// Error does nothing.
func (p *NoOpProgress) Error(err error) {}

// SetDescription does nothing.
func (p *NoOpProgress) SetDescription(desc string) {}
