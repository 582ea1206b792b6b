package deliver

import (
	"fmt"
	"io"

	"jobscout-engine/internal/domain"
	"jobscout-engine/internal/pipeline"
)

// PrintConsole writes the run report: a fixed-width table of the ranked
// new jobs plus the top matches with their URLs.
func PrintConsole(w io.Writer, out pipeline.Outcome) {
	if out.Summary.DryRun {
		fmt.Fprintln(w, "DRY RUN - no state was persisted")
	}

	if len(out.Jobs) == 0 {
		fmt.Fprintln(w, "No new jobs to report.")
		printSummary(w, out.Summary)
		return
	}

	fmt.Fprintf(w, "%-6s %-32s %-22s %-18s %s\n", "SCORE", "TITLE", "COMPANY", "LOCATION", "SOURCE")
	for _, j := range out.Jobs {
		fmt.Fprintf(w, "%-6d %-32s %-22s %-18s %s\n",
			j.Score, clip(j.Title, 32), clip(j.Company, 22), clip(j.Location, 18), j.Source)
	}

	fmt.Fprintln(w, "\nTop matches:")
	top := out.Jobs
	if len(top) > 3 {
		top = top[:3]
	}
	for i, j := range top {
		fmt.Fprintf(w, "%d. %s at %s (score %d)\n   %s\n", i+1, j.Title, j.Company, j.Score, j.URL)
	}

	printSummary(w, out.Summary)
}

func printSummary(w io.Writer, s pipeline.Summary) {
	fmt.Fprintf(w, "\nScraped %d listings, %d qualified, %d new, %d already seen (%.1fs)\n",
		s.TotalScraped, s.Qualified, s.New, s.Seen, s.Duration.Seconds())

	for _, src := range s.Sources {
		state := "ok"
		if src.PartialFailure {
			state = "partial failure"
		}
		fmt.Fprintf(w, "  %-12s %4d listings  %s\n", src.Source, src.Listings, state)
	}

	if s.CommitErr != nil {
		fmt.Fprintf(w, "WARNING: commit failed, these jobs will reappear next run: %v\n", s.CommitErr)
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

// Breakdown line used by verbose mode.
func FormatBreakdown(b domain.Breakdown) string {
	return fmt.Sprintf("title=%.0f keyword=%.0f location=%.0f recency=%.0f",
		b.Title, b.Keyword, b.Location, b.Recency)
}
