package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/burrowsec/bober/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for engagement documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one session report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	w.writeReport(md, report)
	return len(md.String()), md.Build()
}

// WriteAll outputs each report in sequence into one document.
func (w *MarkdownWriter) WriteAll(reports []*model.CrawlReport) (int, error) {
	md := markdown.NewMarkdown(w.output)
	for _, report := range reports {
		w.writeReport(md, report)
	}
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeReport(md *markdown.Markdown, report *model.CrawlReport) {
	md.H1("Bober Crawl Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + report.StartURL + "`"},
			{"Scope", "`" + report.Scope + "`"},
			{"Started", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", report.Duration.String()},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")

	md.H2("Pages")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Disposition", "Count"},
		Rows: [][]string{
			{"Fetched", strconv.Itoa(report.PagesFetched)},
			{"Fetch failures", strconv.Itoa(report.FetchFailures)},
			{"Forbidden skipped", strconv.Itoa(report.ForbiddenSkipped)},
			{"Recursion traps", strconv.Itoa(report.RecursionTrapSkipped)},
			{"Out of scope", strconv.Itoa(report.OutOfScopeSkipped)},
			{"Unique URLs seen", strconv.Itoa(report.UniqueKeys)},
		},
	})
	md.PlainText("")

	md.H2("Sitemap")
	md.PlainText("")
	if report.SitemapFile != "" {
		md.PlainTextf("%d URLs, written to `%s`.", len(report.Sitemap), report.SitemapFile)
	} else {
		md.PlainTextf("%d URLs.", len(report.Sitemap))
	}
	md.PlainText("")
	if len(report.Sitemap) > 0 {
		md.BulletList(codeList(report.Sitemap)...)
		md.PlainText("")
	}
}

// statusText renders the session outcome for the header table.
func (w *MarkdownWriter) statusText(report *model.CrawlReport) string {
	if !report.Complete() {
		return "❌ Aborted - " + report.Error
	}
	return "✅ Complete (" + report.Termination + ")"
}

// codeList wraps each entry in backticks for list rendering.
func codeList(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "`" + item + "`"
	}
	return out
}
