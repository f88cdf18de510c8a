package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"jobscout/internal/scraper"
)

// ConsolePrinter writes jobs to a stream as numbered human-readable blocks,
// skipping detail fields that were never found.
type ConsolePrinter struct {
	Out io.Writer
}

func NewConsolePrinter() *ConsolePrinter {
	return &ConsolePrinter{Out: os.Stdout}
}

func (cp *ConsolePrinter) WriteJobs(jobs []scraper.Enriched) error {
	if len(jobs) == 0 {
		fmt.Fprintln(cp.Out, "No jobs found.")
		return nil
	}

	rule := strings.Repeat("=", 70)
	fmt.Fprintf(cp.Out, "\n%s\n", rule)
	fmt.Fprintf(cp.Out, "RESULTS: %d jobs\n", len(jobs))
	fmt.Fprintf(cp.Out, "%s\n", rule)

	for i, j := range jobs {
		fmt.Fprintf(cp.Out, "\n%d. %s\n", i+1, j.Title)
		fmt.Fprintf(cp.Out, "   Company: %s\n", j.Company)
		fmt.Fprintf(cp.Out, "   Location: %s\n", j.Location)
		if len(j.MatchedKeywords) > 0 {
			fmt.Fprintf(cp.Out, "   Matched: %s\n", strings.Join(j.MatchedKeywords, ", "))
		}
		if j.PayRange != "" {
			fmt.Fprintf(cp.Out, "   💰 Pay: %s\n", j.PayRange)
		}
		if j.EmploymentType != "" {
			fmt.Fprintf(cp.Out, "   📋 Type: %s\n", j.EmploymentType)
		}
		if j.RemoteStatus != "" {
			fmt.Fprintf(cp.Out, "   🏠 Remote: %s\n", j.RemoteStatus)
		}
		if len(j.Benefits) > 0 {
			fmt.Fprintf(cp.Out, "   ✨ Benefits: %s\n", strings.Join(j.Benefits, ", "))
		}
		if j.Summary != "" {
			fmt.Fprintf(cp.Out, "   📝 Summary: %s\n", clipText(j.Summary, 150))
		}
		fmt.Fprintf(cp.Out, "   🔗 URL: %s\n", j.URL)
	}
	return nil
}

func clipText(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
