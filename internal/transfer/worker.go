// Package transfer copies or moves a directory tree on a background goroutine
// and reports progress, completion or failure to the owner over a channel.
package transfer

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/gns3/gns3-desktop/internal/constants"
	"github.com/gns3/gns3-desktop/internal/diskspace"
	"github.com/gns3/gns3-desktop/internal/events"
	"github.com/gns3/gns3-desktop/internal/localfs"
	"github.com/gns3/gns3-desktop/internal/logging"
)

// Options configures a Worker. The zero value is usable.
type Options struct {
	// Logger receives run lifecycle and per-file debug lines. Nil discards.
	Logger *logging.Logger

	// EventBus, if set, receives a TransferEvent for every notification plus
	// started/cancelled markers. Delivery there is best-effort.
	EventBus *events.EventBus

	// CheckSpace verifies free space on the destination filesystem before any
	// data is written, whenever the run will duplicate bytes (copy mode, or a
	// move between filesystems).
	CheckSpace bool

	// PruneEmptySource removes source subdirectories left empty by a successful
	// move. The source root itself is kept.
	PruneEmptySource bool
}

// Worker runs one Request. Create it with NewWorker, call Start once, read
// Notifications until the channel closes, and call Cancel at any time.
type Worker struct {
	id   string
	req  Request
	opts Options
	log  *logging.Logger

	started   atomic.Bool
	cancelled atomic.Bool
	stopOnce  sync.Once
	stop      chan struct{}

	state       atomic.Int32
	totalFiles  atomic.Int64
	totalBytes  atomic.Int64
	transferred atomic.Int64
	bytesDone   atomic.Int64

	notes chan Notification
	done  chan struct{}
}

// NewWorker validates req and returns a worker ready to Start.
func NewWorker(req Request, opts Options) (*Worker, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	w := &Worker{
		id:    uuid.NewString(),
		req:   req,
		opts:  opts,
		stop:  make(chan struct{}),
		notes: make(chan Notification, constants.NotificationBuffer),
		done:  make(chan struct{}),
	}

	base := opts.Logger
	if base == nil {
		base = logging.NewNopLogger()
	}
	w.log = base.Child(base.With().
		Str("run_id", w.id).
		Str("mode", string(req.Mode)).
		Str("source", req.Source).
		Str("destination", req.Destination))

	return w, nil
}

// ID returns the unique identifier of this run.
func (w *Worker) ID() string { return w.id }

// Request returns the request this worker was built for.
func (w *Worker) Request() Request { return w.req }

// State returns the current lifecycle state.
func (w *Worker) State() State { return State(w.state.Load()) }

// Stats returns a snapshot of the worker's counters.
func (w *Worker) Stats() Stats {
	return Stats{
		TotalFiles:       int(w.totalFiles.Load()),
		TotalBytes:       w.totalBytes.Load(),
		FilesTransferred: int(w.transferred.Load()),
		BytesTransferred: w.bytesDone.Load(),
	}
}

// Notifications returns the channel carrying progress and the terminal
// notification. It is closed when the run ends, including after a cancellation.
func (w *Worker) Notifications() <-chan Notification { return w.notes }

// Done is closed when the run has ended.
func (w *Worker) Done() <-chan struct{} { return w.done }

// Wait blocks until the run has ended.
func (w *Worker) Wait() { <-w.done }

// Start launches the run on its own goroutine and returns immediately.
func (w *Worker) Start() error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}
	go w.run()
	return nil
}

// Cancel asks a running transfer to stop before its next directory or file
// operation. The file being transferred when Cancel is called is finished first.
// Nothing already transferred is undone. Calling Cancel before Start, after the
// run ended, or more than once has no effect.
func (w *Worker) Cancel() {
	if !w.started.Load() {
		return
	}
	w.cancelled.Store(true)
	w.stopOnce.Do(func() { close(w.stop) })
}

func (w *Worker) run() {
	defer close(w.done)
	defer close(w.notes)

	w.state.Store(int32(StateRunning))
	w.publish(events.EventTransferStarted, nil)

	files, bytes := localfs.CountFiles(w.req.Source)
	w.totalFiles.Store(int64(files))
	w.totalBytes.Store(bytes)
	if _, err := os.Stat(w.req.Source); err != nil {
		w.log.Warn().Err(err).Msg("Source directory is not readable, nothing to transfer")
	}
	w.log.Info().Int("files", files).Int64("bytes", bytes).Msg("Transfer started")

	if w.shouldStop() {
		w.stopSilently()
		return
	}
	if err := ensureDir(w.req.Destination); err != nil {
		w.fail(&DestinationCreateError{Path: w.req.Destination, Err: err})
		return
	}

	if err := w.preflight(bytes); err != nil {
		w.fail(err)
		return
	}

	stopped, err := w.transferTree(w.req.Source, w.req.Destination)
	switch {
	case stopped:
		w.stopSilently()
		return
	case err != nil:
		w.fail(err)
		return
	}

	if w.req.Mode == ModeMove && w.opts.PruneEmptySource {
		w.pruneEmptyDirs(w.req.Source)
	}

	if !w.emit(Notification{Kind: KindCompleted}) {
		w.stopSilently()
		return
	}
	w.state.Store(int32(StateCompleted))
	w.log.Info().Int("files", int(w.transferred.Load())).Msg("Transfer completed")
	w.publish(events.EventTransferCompleted, nil)
}

// transferTree mirrors srcDir into dstDir top-down: all subdirectories of a
// level are created, then its files transferred, then each subdirectory is
// descended into in name order. stopped is true when a cancellation was seen.
func (w *Worker) transferTree(srcDir, dstDir string) (stopped bool, err error) {
	entries, err := localfs.ListDirectory(srcDir, localfs.ListOptions{IncludeHidden: true})
	if err != nil {
		// Unreadable directories are skipped, as in the counting walk.
		w.log.Warn().Err(err).Str("dir", srcDir).Msg("Skipping unreadable directory")
		if w.opts.EventBus != nil {
			w.opts.EventBus.PublishLog(events.WarnLevel, "Skipping unreadable directory "+srcDir, w.id, err)
		}
		return false, nil
	}
	dirs, files := localfs.SplitEntries(entries)

	for _, d := range dirs {
		if w.shouldStop() {
			return true, nil
		}
		target := filepath.Join(dstDir, d.Name)
		if err := ensureDir(target); err != nil {
			return false, &DestinationCreateError{Path: target, Err: err}
		}
	}

	for _, f := range files {
		if w.shouldStop() {
			return true, nil
		}
		target := filepath.Join(dstDir, f.Name)
		if err := transferEntry(w.req.Mode, f, target); err != nil {
			return false, &TransferError{Source: f.Path, Destination: target, Mode: w.req.Mode, Err: err}
		}
		w.log.Debug().Str("file", f.Path).Msg("Transferred")
		w.bytesDone.Add(f.Size)
		if !w.emitProgress(w.transferred.Add(1)) {
			return true, nil
		}
	}

	for _, d := range dirs {
		if stopped, err := w.transferTree(d.Path, filepath.Join(dstDir, d.Name)); stopped || err != nil {
			return stopped, err
		}
	}
	return false, nil
}

// preflight refuses to start writing when the destination filesystem cannot
// hold the source. Same-filesystem moves are renames and need no space.
func (w *Worker) preflight(bytes int64) error {
	if !w.opts.CheckSpace || bytes == 0 {
		return nil
	}
	if w.req.Mode == ModeMove && sameDevice(w.req.Source, w.req.Destination) {
		return nil
	}
	return diskspace.CheckAvailableSpace(w.req.Destination, bytes, 1+constants.DiskSpaceBufferPercent)
}

// pruneEmptyDirs removes empty directories below root, deepest first.
func (w *Worker) pruneEmptyDirs(root string) {
	var dirs []string
	_ = localfs.Walk(root, localfs.TransferWalk, func(entry localfs.FileEntry) error {
		if entry.IsDir {
			dirs = append(dirs, entry.Path)
		}
		return nil
	})
	// dirs[0] is root
	for i := len(dirs) - 1; i > 0; i-- {
		if err := os.Remove(dirs[i]); err != nil {
			w.log.Debug().Err(err).Str("dir", dirs[i]).Msg("Leaving source directory in place")
		}
	}
}

func (w *Worker) shouldStop() bool {
	return w.cancelled.Load()
}

// emitProgress reports false when the notification was dropped by a cancellation.
func (w *Worker) emitProgress(transferred int64) bool {
	total := w.totalFiles.Load()
	percent := 100.0
	if total > 0 {
		percent = float64(transferred) / float64(total) * 100
	}
	if !w.emit(Notification{Kind: KindProgress, Percent: percent}) {
		return false
	}
	w.publish(events.EventTransferProgress, func(ev *events.TransferEvent) {
		ev.Percent = percent
	})
	return true
}

func (w *Worker) fail(err error) {
	w.log.Error().Err(err).Msg("Transfer failed")
	if !w.emit(Notification{Kind: KindFailed, Message: err.Error(), Err: err}) {
		w.stopSilently()
		return
	}
	w.state.Store(int32(StateFailed))
	w.publish(events.EventTransferFailed, func(ev *events.TransferEvent) {
		ev.Error = err
	})
}

func (w *Worker) stopSilently() {
	w.state.Store(int32(StateCancelled))
	w.log.Info().Int("files", int(w.transferred.Load())).Msg("Transfer cancelled")
	w.publish(events.EventTransferCancelled, nil)
}

// emit delivers n to the owner. It blocks while the channel is full unless the
// run is cancelled, in which case n is dropped and false is returned. A run
// that drops a notification always ends cancelled.
func (w *Worker) emit(n Notification) bool {
	select {
	case w.notes <- n:
		return true
	default:
	}
	select {
	case w.notes <- n:
		return true
	case <-w.stop:
		return false
	}
}

func (w *Worker) publish(eventType events.EventType, fill func(*events.TransferEvent)) {
	if w.opts.EventBus == nil {
		return
	}
	ev := events.TransferEvent{
		RunID:       w.id,
		Source:      w.req.Source,
		Destination: w.req.Destination,
		Mode:        string(w.req.Mode),
		Files:       int(w.transferred.Load()),
		TotalFiles:  int(w.totalFiles.Load()),
	}
	if fill != nil {
		fill(&ev)
	}
	w.opts.EventBus.PublishTransfer(eventType, ev)
}
