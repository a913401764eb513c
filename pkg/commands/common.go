package commands

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/taikt/sw-task/pkg/metrics"
)

// printSummary renders the per-field mean/max table for a finished run.
func printSummary(w io.Writer, r *metrics.RunResult) {
	sum := metrics.Reduce(r.Series)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Performance Summary ===")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Avg", "Max"})
	table.Append([]string{"CPU %", f1(sum.CPUAvg), f1(sum.CPUMax)})
	table.Append([]string{"Memory MB", f1(sum.MemoryAvgMB), f1(sum.MemoryMaxMB)})
	table.Append([]string{"Threads", f1(sum.ThreadsAvg), strconv.Itoa(sum.ThreadsMax)})
	table.Append([]string{"Active cores", f1(sum.CoresAvg), strconv.Itoa(sum.CoresMax)})
	table.Render()

	fmt.Fprintf(w, "Duration: %.1fs  Samples: %d  Exit code: %d\n",
		sum.Duration, sum.Samples, r.ExitCode)
	if r.TimedOut() {
		fmt.Fprintln(w, "Workload was terminated at the duration limit.")
	}
}

func f1(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
