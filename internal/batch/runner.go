package batch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gns3/gns3-desktop/internal/constants"
	"github.com/gns3/gns3-desktop/internal/logging"
	"github.com/gns3/gns3-desktop/internal/progress"
	"github.com/gns3/gns3-desktop/internal/transfer"
)

// Options configures a Runner.
type Options struct {
	// MaxConcurrent is the number of transfers running at once.
	// Defaults to constants.DefaultBatchConcurrency, capped at constants.MaxBatchConcurrency.
	MaxConcurrent int

	// Worker is passed to every transfer.NewWorker call.
	Worker transfer.Options

	// UI, if set, gets one bar per job. Nil runs silently.
	UI *progress.BatchUI
}

// Result is the outcome of one job.
type Result struct {
	Job      Job
	RunID    string // Empty when no worker was created
	State    transfer.State
	Stats    transfer.Stats
	Err      error
	Duration time.Duration
}

// Stats counts results by outcome.
type Stats struct {
	Completed int
	Failed    int
	Cancelled int
	Skipped   int // Never started because the batch was cancelled first
}

// Total returns total number of jobs counted.
func (s Stats) Total() int {
	return s.Completed + s.Failed + s.Cancelled + s.Skipped
}

// OK reports whether every job completed.
func (s Stats) OK() bool {
	return s.Total() > 0 && s.Completed == s.Total()
}

// Runner executes jobs, each on its own transfer.Worker.
type Runner struct {
	opts Options
	log  *logging.Logger
}

// NewRunner creates a Runner.
func NewRunner(opts Options) *Runner {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = constants.DefaultBatchConcurrency
	}
	if opts.MaxConcurrent > constants.MaxBatchConcurrency {
		opts.MaxConcurrent = constants.MaxBatchConcurrency
	}
	log := opts.Worker.Logger
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Runner{opts: opts, log: log}
}

// Run executes jobs with at most MaxConcurrent in flight and returns one
// Result per job, in job order. A failing job does not stop the others.
// Cancelling ctx cancels running workers and skips jobs not yet started;
// Run then returns ctx.Err() alongside the partial results.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))

	var g errgroup.Group
	g.SetLimit(r.opts.MaxConcurrent)

	r.log.Info().Int("jobs", len(jobs)).Int("max_concurrent", r.opts.MaxConcurrent).Msg("Batch started")

	for i, job := range jobs {
		if ctx.Err() != nil {
			for j := i; j < len(jobs); j++ {
				results[j] = Result{Job: jobs[j], State: transfer.StatePending}
			}
			break
		}
		i, job := i, job // per-iteration copies (go directive < 1.22)
		g.Go(func() error {
			results[i] = r.runJob(ctx, job)
			return nil
		})
	}
	_ = g.Wait()

	stats := Summarize(results)
	r.log.Info().
		Int("completed", stats.Completed).
		Int("failed", stats.Failed).
		Int("cancelled", stats.Cancelled).
		Int("skipped", stats.Skipped).
		Msg("Batch finished")

	return results, ctx.Err()
}

func (r *Runner) runJob(ctx context.Context, job Job) (res Result) {
	res = Result{Job: job, State: transfer.StatePending}

	// A slot may free up after the batch was cancelled
	if ctx.Err() != nil {
		return res
	}

	start := time.Now()
	defer func() { res.Duration = time.Since(start) }()

	var reporter progress.Reporter = progress.NewNoOpProgress()
	if r.opts.UI != nil {
		reporter = r.opts.UI.AddTransferBar(string(job.Request.Mode), job.Request.Source, job.Request.Destination)
	}

	w, err := transfer.NewWorker(job.Request, r.opts.Worker)
	if err != nil {
		reporter.Error(err)
		res.State = transfer.StateFailed
		res.Err = err
		return res
	}
	res.RunID = w.ID()

	if err := w.Start(); err != nil {
		reporter.Error(err)
		res.State = transfer.StateFailed
		res.Err = err
		return res
	}

	go func() {
		select {
		case <-ctx.Done():
			w.Cancel()
		case <-w.Done():
		}
	}()

	last, ok := progress.Drive(w, "", reporter)
	w.Wait()

	res.State = w.State()
	res.Stats = w.Stats()
	if ok && last.Kind == transfer.KindFailed {
		res.Err = last.Err
	}
	return res
}

// Summarize counts results by outcome.
func Summarize(results []Result) Stats {
	var s Stats
	for _, res := range results {
		switch res.State {
		case transfer.StateCompleted:
			s.Completed++
		case transfer.StateFailed:
			s.Failed++
		case transfer.StateCancelled:
			s.Cancelled++
		default:
			s.Skipped++
		}
	}
	return s
}
