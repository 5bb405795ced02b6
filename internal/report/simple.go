package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/burrowsec/bober/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display at the end of a crawl.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showSitemap includes the full sitemap in the output. Off by default;
	// the sitemap file is the canonical artifact.
	showSitemap bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithSitemap includes the full visitation-ordered sitemap in the output.
func WithSitemap(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showSitemap = show
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs one session report in human-readable format.
func (w *SimpleWriter) Write(report *model.CrawlReport) (int, error) {
	var sb strings.Builder
	w.writeReport(&sb, report)
	return w.output.Write([]byte(sb.String()))
}

// WriteAll outputs each report in sequence.
func (w *SimpleWriter) WriteAll(reports []*model.CrawlReport) (int, error) {
	var sb strings.Builder
	for _, report := range reports {
		w.writeReport(&sb, report)
	}
	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeReport(sb *strings.Builder, report *model.CrawlReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                          BOBER CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Start URL:      %s\n", report.StartURL))
	sb.WriteString(fmt.Sprintf("Scope:          %s\n", report.Scope))
	sb.WriteString(fmt.Sprintf("Started:        %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Duration:       %s\n", report.Duration.Round(10*time.Millisecond)))

	if report.Complete() {
		sb.WriteString(fmt.Sprintf("Status:         Complete (%s)\n", report.Termination))
	} else {
		sb.WriteString(fmt.Sprintf("Status:         ABORTED - %s\n", report.Error))
	}
	sb.WriteString("\n")

	sb.WriteString("Pages\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Fetched:               %d\n", report.PagesFetched))
	sb.WriteString(fmt.Sprintf("  Fetch failures:        %d\n", report.FetchFailures))
	sb.WriteString(fmt.Sprintf("  Forbidden skipped:     %d\n", report.ForbiddenSkipped))
	sb.WriteString(fmt.Sprintf("  Recursion traps:       %d\n", report.RecursionTrapSkipped))
	sb.WriteString(fmt.Sprintf("  Out of scope:          %d\n", report.OutOfScopeSkipped))
	sb.WriteString(fmt.Sprintf("  Unique URLs seen:      %d\n", report.UniqueKeys))
	sb.WriteString("\n")

	if report.SitemapFile != "" {
		sb.WriteString(fmt.Sprintf("Sitemap written to %s (%d URLs)\n", report.SitemapFile, len(report.Sitemap)))
	} else {
		sb.WriteString(fmt.Sprintf("Sitemap: %d URLs\n", len(report.Sitemap)))
	}

	if w.showSitemap {
		sb.WriteString("\n")
		for _, u := range report.Sitemap {
			sb.WriteString("  ")
			sb.WriteString(u)
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")
}
