// Package report renders crawl session results in multiple formats:
// human-readable text for the terminal, JSON for tool integration, and
// Markdown for engagement documentation. All writers implement the same
// Writer interface, and MultiWriter fans one report out to several
// destinations.
package report
