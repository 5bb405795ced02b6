package crawl

import (
	"fmt"
	"os"
)

// Sitemap is the append-only, visitation-ordered list of every non-forbidden
// URL the orchestrator attempted. It accumulates in memory for the report
// and, when a path is configured, mirrors each line to disk as it is
// appended, so a crawl killed mid-run still leaves a usable partial sitemap.
type Sitemap struct {
	urls []string
	file *os.File
}

// NewSitemap creates a sitemap. path may be empty to keep the sitemap
// in-memory only. An existing file at path is truncated: the sitemap is a
// per-session artifact, not a cross-session log.
func NewSitemap(path string) (*Sitemap, error) {
	s := &Sitemap{urls: make([]string, 0)}
	if path == "" {
		return s, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to create sitemap file: %w", err)
	}
	s.file = f
	return s, nil
}

// Append records one attempted URL. File writes are unbuffered so every
// appended line is durable before the next fetch begins.
func (s *Sitemap) Append(url string) error {
	s.urls = append(s.urls, url)
	if s.file == nil {
		return nil
	}
	if _, err := s.file.WriteString(url + "\n"); err != nil {
		return fmt.Errorf("failed to append to sitemap file: %w", err)
	}
	return nil
}

// URLs returns the accumulated sitemap in visitation order.
func (s *Sitemap) URLs() []string {
	return s.urls
}

// Len returns the number of recorded URLs.
func (s *Sitemap) Len() int {
	return len(s.urls)
}

// Close closes the underlying file, if any. Safe to call on an in-memory
// sitemap and safe to call twice.
func (s *Sitemap) Close() error {
	if s.file == nil {
		return nil
	}
	f := s.file
	s.file = nil
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close sitemap file: %w", err)
	}
	return nil
}
