package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/ad1ttyya/queuectl/job"
)

// timestampLayout is the ISO-8601 UTC, second-precision, trailing-Z
// format used for every timestamp this package prints.
const timestampLayout = "2006-01-02T15:04:05Z"

// printJobTable renders jobs as an aligned table on stdout.
func printJobTable(jobs []*job.Job) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tSTATE\tATTEMPTS\tMAX_RETRIES\tCREATED_AT\tUPDATED_AT\tRETRY_AT\tLOCKED_BY")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			j.Id, j.Status, j.Attempts, j.MaxRetries,
			formatTime(j.CreatedAt), formatTime(j.UpdatedAt),
			formatOptionalTime(j.RetryAt), formatOptionalString(j.LockedBy))
	}
}

// printStats renders the StatsByState result and active worker count,
// in the fixed state order used throughout the package.
func printStats(stats map[job.Status]int64, active int) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "STATE\tCOUNT")
	for _, s := range []job.Status{job.Pending, job.Processing, job.Completed, job.Failed, job.Dead} {
		fmt.Fprintf(w, "%s\t%d\n", s, stats[s])
	}
	fmt.Fprintf(w, "workers active\t%d\n", active)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(timestampLayout)
}

func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(timestampLayout)
}

func formatOptionalString(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
