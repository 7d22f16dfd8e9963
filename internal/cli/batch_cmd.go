package cli

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/spf13/cobra"

	"github.com/gns3/gns3-desktop/internal/batch"
	"github.com/gns3/gns3-desktop/internal/config"
	"github.com/gns3/gns3-desktop/internal/constants"
	"github.com/gns3/gns3-desktop/internal/events"
	"github.com/gns3/gns3-desktop/internal/progress"
)

func newBatchCmd() *cobra.Command {
	var (
		f             transferFlags
		maxConcurrent int
	)

	cmd := &cobra.Command{
		Use:   "batch <plan-file>",
		Short: "Run several copies and moves from a plan file",
		Long: `Run the transfers listed in a plan file, one per line:

  # relocate GNS3 storage
  move ~/GNS3/images      /mnt/data/GNS3/images
  copy ~/GNS3/appliances  "/mnt/data/GNS3 appliances"

Up to --max-concurrent transfers run at once (default from transfer.conf).
A failed transfer does not stop the others. A summary table is printed at
the end and the command fails unless every transfer completed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := batch.LoadJobs(args[0])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("max-concurrent") {
				maxConcurrent = GetSettings().Transfer.MaxConcurrent
			}
			if maxConcurrent < 1 || maxConcurrent > constants.MaxBatchConcurrency {
				return config.ErrInvalidMaxConcurrent
			}
			return runBatch(GetContext(), cmd.OutOrStdout(), jobs, maxConcurrent, f)
		},
	}

	cmd.Flags().IntVarP(&maxConcurrent, "max-concurrent", "j", constants.DefaultBatchConcurrency,
		fmt.Sprintf("Transfers running at once (1-%d)", constants.MaxBatchConcurrency))
	cmd.Flags().BoolVar(&f.noSpaceCheck, "no-space-check", false, "Skip the free-space check on each destination")
	cmd.Flags().BoolVar(&f.prune, "prune", false, "Remove source subdirectories left empty by moves")
	cmd.Flags().BoolVar(&f.notify, "notify", false, "Show a desktop notification when the batch finishes")
	return cmd
}

func runBatch(ctx context.Context, out io.Writer, jobs []batch.Job, maxConcurrent int, f transferFlags) error {
	bus := events.NewEventBus(0)
	activity := startActivityLog(bus, GetLogger())
	closeBus := sync.OnceFunc(func() {
		bus.Close()
		activity.Wait()
	})
	defer closeBus()

	ui := progress.NewBatchUI(len(jobs))
	runner := batch.NewRunner(batch.Options{
		MaxConcurrent: maxConcurrent,
		Worker:        workerOptions(f, bus),
		UI:            ui,
	})

	results, runErr := runner.Run(ctx, jobs)
	ui.Wait()
	closeBus()

	batch.RenderSummary(out, results)
	if n := activity.Warnings(); n > 0 {
		fmt.Fprintf(out, "%d unreadable directories were skipped, see the log for details\n", n)
	}

	if runErr != nil {
		return progress.ErrCancelled
	}
	stats := batch.Summarize(results)
	newNotifier(f).BatchFinished(stats.Completed, stats.Total())
	if !stats.OK() {
		return fmt.Errorf("%d of %d transfers did not complete", stats.Total()-stats.Completed, stats.Total())
	}
	return nil
}
