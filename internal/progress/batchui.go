package progress

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"

	"github.com/gns3/gns3-desktop/internal/constants"
)

// BatchUI manages one progress bar per transfer of a batch using mpb.
// Without a terminal it prints one line when a transfer starts and one when
// it ends.
type BatchUI struct {
	progress   *mpb.Progress
	out        io.Writer
	outMu      sync.Mutex
	isTerminal bool
	totalJobs  int
	started    int32 // Atomic counter for bar index (1, 2, 3, ...)
	completed  int32
}

// TransferBar is the row of a single transfer. It implements Reporter.
type TransferBar struct {
	bar         *mpb.Bar
	ui          *BatchUI
	index       int
	verb        string
	source      string
	destination string
	description atomic.Value // string
	startTime   time.Time
	done        atomic.Bool
}

// NewBatchUI creates a batch display for totalJobs transfers on stderr.
func NewBatchUI(totalJobs int) *BatchUI {
	isTerminal := term.IsTerminal(int(os.Stderr.Fd()))
	if isTerminal {
		enableANSIOnWindows(os.Stderr)
	}
	return newBatchUI(totalJobs, os.Stderr, isTerminal)
}

// NewTextBatchUI creates a batch display that only prints plain lines to w.
func NewTextBatchUI(totalJobs int, w io.Writer) *BatchUI {
	return newBatchUI(totalJobs, w, false)
}

func newBatchUI(totalJobs int, w io.Writer, isTerminal bool) *BatchUI {
	var p *mpb.Progress
	if isTerminal {
		p = mpb.New(
			mpb.WithOutput(w),
			mpb.WithRefreshRate(constants.ProgressUpdateInterval),
			mpb.WithWidth(100),
		)
	} else {
		p = mpb.New(mpb.WithOutput(io.Discard))
	}

	return &BatchUI{
		progress:   p,
		out:        w,
		isTerminal: isTerminal,
		totalJobs:  totalJobs,
	}
}

// AddTransferBar creates the row for one transfer. verb is shown as the
// action ("copy" or "move").
func (u *BatchUI) AddTransferBar(verb, source, destination string) *TransferBar {
	index := int(atomic.AddInt32(&u.started, 1))

	tb := &TransferBar{
		ui:          u,
		index:       index,
		verb:        verb,
		source:      source,
		destination: destination,
		startTime:   time.Now(),
	}
	tb.description.Store("")

	if u.isTerminal {
		tb.bar = u.progress.New(constants.ProgressBarScale,
			mpb.BarStyle().
				Lbound("[").
				Filler("█").
				Tip("█").
				Padding("░").
				Rbound("]"),
			mpb.PrependDecorators(
				decor.Any(func(s decor.Statistics) string {
					label := fmt.Sprintf("[%d/%d] %s %s → %s",
						tb.index, u.totalJobs, tb.verb,
						truncatePath(tb.source, 2),
						truncatePath(tb.destination, 2))
					if desc := tb.description.Load().(string); desc != "" {
						return label + " (" + desc + ")"
					}
					return label
				}, decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.Percentage(decor.WCSyncSpace),
				decor.Name("  "),
				decor.Elapsed(decor.ET_STYLE_GO, decor.WCSyncSpace),
			),
			mpb.BarRemoveOnComplete(),
		)
	} else {
		u.printf("%s [%d/%d]: %s → %s\n",
			capitalize(verb), tb.index, u.totalJobs,
			truncatePath(source, 2), truncatePath(destination, 2))
	}

	return tb
}

// Start is a no-op; the bar is created by AddTransferBar with a fixed scale.
func (f *TransferBar) Start(total int64, description string) {
	if description != "" {
		f.description.Store(description)
	}
}

// Update moves the bar to current steps out of constants.ProgressBarScale.
func (f *TransferBar) Update(current int64) {
	if f.bar != nil {
		f.bar.SetCurrent(current)
	}
}

// Finish marks the transfer as succeeded and prints a summary line.
func (f *TransferBar) Finish() {
	if !f.done.CompareAndSwap(false, true) {
		return
	}
	if f.bar != nil {
		f.bar.SetCurrent(constants.ProgressBarScale)
		f.bar.SetTotal(constants.ProgressBarScale, true)
	}
	f.ui.printf("✓ %s → %s (%s)\n",
		truncatePath(f.source, 2),
		truncatePath(f.destination, 2),
		time.Since(f.startTime).Round(time.Millisecond))
	atomic.AddInt32(&f.ui.completed, 1)
}

// Error marks the transfer as failed or cancelled and keeps its bar visible.
func (f *TransferBar) Error(err error) {
	if err == nil || !f.done.CompareAndSwap(false, true) {
		return
	}
	if f.bar != nil {
		f.bar.Abort(false)
	}
	if errors.Is(err, ErrCancelled) {
		f.ui.printf("- %s → %s: cancelled\n", truncatePath(f.source, 2), truncatePath(f.destination, 2))
	} else {
		f.ui.printf("✗ %s → %s: %v\n", truncatePath(f.source, 2), truncatePath(f.destination, 2), err)
	}
	atomic.AddInt32(&f.ui.completed, 1)
}

// SetDescription shows desc next to the label.
func (f *TransferBar) SetDescription(desc string) {
	f.description.Store(desc)
}

// Completed returns how many rows have finished, failed or been cancelled.
func (u *BatchUI) Completed() int {
	return int(atomic.LoadInt32(&u.completed))
}

// Wait blocks until all progress bars complete
func (u *BatchUI) Wait() {
	if u.progress != nil {
		u.progress.Wait()
	}
}

// Writer returns an io.Writer that safely prints above the progress bars.
func (u *BatchUI) Writer() io.Writer {
	if u.isTerminal {
		return u.progress
	}
	return u.out
}

// IsTerminal returns true if output is to a terminal (progress bars are active).
func (u *BatchUI) IsTerminal() bool {
	return u.isTerminal
}

// printf writes through mpb when bars are live so the redraw is not torn.
func (u *BatchUI) printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if u.isTerminal {
		_, _ = u.progress.Write([]byte(msg))
		return
	}
	u.outMu.Lock()
	defer u.outMu.Unlock()
	_, _ = io.WriteString(u.out, msg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// truncatePath truncates a file path to show only the last N components
// Example: truncatePath("/a/b/c/d/file.txt", 3) → "…/c/d/file.txt"
func truncatePath(path string, maxComponents int) string {
	parts := strings.Split(filepath.ToSlash(path), "/")
	if len(parts) <= maxComponents {
		return filepath.Base(path)
	}
	relevant := parts[len(parts)-maxComponents:]
	return "…/" + strings.Join(relevant, "/")
}

// enableANSIOnWindows enables Virtual Terminal processing on Windows for ANSI escape sequences
func enableANSIOnWindows(f *os.File) {
	if runtime.GOOS == "windows" {
		enableWindowsANSI(f)
	}
}
