package batch

import (
	"fmt"
	"io"
	"time"

	"github.com/inhies/go-bytesize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/gns3/gns3-desktop/internal/transfer"
)

// RenderSummary writes a table of results followed by a one-line total.
func RenderSummary(w io.Writer, results []Result) {
	tb := table.NewWriter()
	tb.SetOutputMirror(w)
	tb.AppendHeader(table.Row{"Line", "Mode", "Source", "Destination", "Files", "Size", "Time", "Status"})

	var totalBytes int64
	for _, res := range results {
		totalBytes += res.Stats.BytesTransferred
		tb.AppendRow(table.Row{
			res.Job.Line,
			res.Job.Request.Mode,
			res.Job.Request.Source,
			res.Job.Request.Destination,
			fmt.Sprintf("%d/%d", res.Stats.FilesTransferred, res.Stats.TotalFiles),
			bytesize.ByteSize(res.Stats.BytesTransferred),
			res.Duration.Round(time.Millisecond),
			statusText(res),
		})
	}

	stats := Summarize(results)
	tb.AppendFooter(table.Row{"", "", "", "", "", bytesize.ByteSize(totalBytes), "",
		fmt.Sprintf("%d/%d ok", stats.Completed, stats.Total())})
	tb.Render()
}

func statusText(res Result) string {
	switch res.State {
	case transfer.StateCompleted:
		return "completed"
	case transfer.StateFailed:
		if res.Err != nil {
			return "failed: " + res.Err.Error()
		}
		return "failed"
	case transfer.StateCancelled:
		return "cancelled"
	default:
		return "skipped"
	}
}
