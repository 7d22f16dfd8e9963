package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/inhies/go-bytesize"
	"github.com/spf13/cobra"

	"github.com/gns3/gns3-desktop/internal/events"
	"github.com/gns3/gns3-desktop/internal/gui"
	"github.com/gns3/gns3-desktop/internal/notify"
	"github.com/gns3/gns3-desktop/internal/progress"
	"github.com/gns3/gns3-desktop/internal/transfer"
)

// transferFlags are shared by copy, move and batch.
type transferFlags struct {
	gui          bool
	noSpaceCheck bool
	prune        bool
	notify       bool
}

func newCopyCmd() *cobra.Command {
	return newTransferCmd(transfer.ModeCopy,
		"Copy a directory tree",
		`Copy every file under <source> into <destination>, creating the
destination and any missing subdirectories. Existing files are overwritten.
Permissions and timestamps are preserved; symbolic links are recreated.`)
}

func newMoveCmd() *cobra.Command {
	return newTransferCmd(transfer.ModeMove,
		"Move a directory tree",
		`Move every file under <source> into <destination>. Files are renamed when
both directories are on the same filesystem and copied then deleted otherwise.
The source directories are left in place unless --prune is given.`)
}

func newTransferCmd(mode transfer.Mode, short, long string) *cobra.Command {
	var f transferFlags

	cmd := &cobra.Command{
		Use:   string(mode) + " <source> <destination>",
		Short: short,
		Long:  long,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := transfer.Request{Source: args[0], Destination: args[1], Mode: mode}
			return runTransfer(GetContext(), cmd.OutOrStdout(), req, f)
		},
	}

	cmd.Flags().BoolVar(&f.gui, "gui", false, "Show progress in a desktop window")
	cmd.Flags().BoolVar(&f.noSpaceCheck, "no-space-check", false, "Skip the free-space check on the destination")
	cmd.Flags().BoolVar(&f.notify, "notify", false, "Show a desktop notification when the transfer finishes")
	if mode == transfer.ModeMove {
		cmd.Flags().BoolVar(&f.prune, "prune", false, "Remove source subdirectories left empty by the move")
	}
	return cmd
}

// workerOptions merges preferences and flags.
func workerOptions(f transferFlags, bus *events.EventBus) transfer.Options {
	cfg := GetSettings()
	return transfer.Options{
		Logger:           GetLogger(),
		EventBus:         bus,
		CheckSpace:       cfg.Transfer.CheckDiskSpace && !f.noSpaceCheck,
		PruneEmptySource: cfg.Transfer.PruneEmptySourceDirs || f.prune,
	}
}

// newNotifier enables desktop notifications from transfer.conf or --notify.
func newNotifier(f transferFlags) *notify.Notifier {
	return notify.NewNotifier(GetSettings().Notifications.Enabled || f.notify, GetLogger())
}

func runTransfer(ctx context.Context, out io.Writer, req transfer.Request, f transferFlags) error {
	bus := events.NewEventBus(0)
	activity := startActivityLog(bus, GetLogger())
	closeBus := sync.OnceFunc(func() {
		bus.Close()
		activity.Wait()
	})
	defer closeBus()

	w, err := transfer.NewWorker(req, workerOptions(f, bus))
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		return progress.ErrCancelled
	}

	var (
		last transfer.Notification
		ok   bool
	)
	if f.gui {
		last, ok, err = gui.RunTransfer(ctx, w, bus, GetLogger())
		if err != nil {
			return err
		}
	} else {
		if err := w.Start(); err != nil {
			return err
		}
		// Cancel is a no-op before Start, so watch ctx only once the run exists
		go cancelOnDone(ctx, w)
		last, ok = progress.Drive(w, describe(req), progress.NewTerminalReporter())
	}
	w.Wait()
	closeBus()

	notifier := newNotifier(f)
	if err := outcome(last, ok); err != nil {
		if ok {
			notifier.TransferFailed(req, err.Error())
		}
		return err
	}
	notifier.TransferCompleted(req, w.Stats())
	printDone(out, req, w.Stats(), activity.Warnings())
	return nil
}

// cancelOnDone cancels a started worker when ctx is done.
func cancelOnDone(ctx context.Context, w *transfer.Worker) {
	select {
	case <-ctx.Done():
		w.Cancel()
	case <-w.Done():
	}
}

// outcome maps the end of a run to the command's error.
func outcome(last transfer.Notification, ok bool) error {
	switch {
	case !ok:
		return progress.ErrCancelled
	case last.Kind == transfer.KindFailed && last.Err != nil:
		return last.Err
	case last.Kind == transfer.KindFailed:
		return errors.New(last.Message)
	default:
		return nil
	}
}

func describe(req transfer.Request) string {
	if req.Mode == transfer.ModeMove {
		return "Moving"
	}
	return "Copying"
}

func printDone(out io.Writer, req transfer.Request, stats transfer.Stats, warnings int) {
	verb := "Copied"
	if req.Mode == transfer.ModeMove {
		verb = "Moved"
	}
	fmt.Fprintf(out, "%s %d files (%v) from %s to %s\n",
		verb, stats.FilesTransferred, bytesize.ByteSize(stats.BytesTransferred), req.Source, req.Destination)
	if warnings > 0 {
		fmt.Fprintf(out, "%d unreadable directories were skipped, see the log for details\n", warnings)
	}
}
