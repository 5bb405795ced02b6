package driver

import (
	"context"
	"fmt"
)

// Result is a successful page fetch.
type Result struct {
	// FinalURL is the URL the browser ended up on after redirects.
	FinalURL string

	// Title is the rendered document title, when available.
	Title string

	// RawLinks is every URL-like string extracted from the rendered page:
	// hyperlink and resource attributes, srcset lists, CSS url() references
	// and @import rules, and plain-text URLs in page content. Entries are
	// unresolved and unfiltered; admission is the frontier's job.
	RawLinks []string
}

// Driver fetches pages on behalf of the crawl orchestrator.
//
// Implementations perform at most one navigation at a time; the orchestrator
// is sequential and never issues a second Fetch before the first returns.
type Driver interface {
	// Start launches the underlying browser. It must be called once before
	// the first Fetch.
	Start(ctx context.Context) error

	// Fetch navigates to the target URL and returns the rendered result.
	// An error that is not a *FatalError is a per-page fetch failure
	// (timeout, navigation error) and is non-fatal to the crawl.
	Fetch(ctx context.Context, target string) (*Result, error)

	// Close shuts the browser down and releases its resources.
	Close() error
}

// FatalError reports that the browser process itself is unusable. The
// orchestrator treats it as a session-level failure: the crawl drains and
// whatever was flushed so far remains a valid partial result.
type FatalError struct {
	// Reason describes what made the browser unusable.
	Reason string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *FatalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("browser driver unusable: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("browser driver unusable: %s", e.Reason)
}

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *FatalError) Unwrap() error {
	return e.Err
}
