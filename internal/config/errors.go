package config

import "errors"

var (
	// ErrNoStartURL is returned when no target URL was given.
	ErrNoStartURL = errors.New("no start URL provided")

	// ErrStartOutOfScope is returned when a start URL does not fall inside
	// the effective scope.
	ErrStartOutOfScope = errors.New("start URL out of scope")

	// ErrStartForbidden is returned when a start URL matches a forbidden
	// path prefix.
	ErrStartForbidden = errors.New("start URL matches a forbidden path")

	// ErrForbiddenOutsideScope is returned when a forbidden prefix cannot
	// intersect the scope subtree.
	ErrForbiddenOutsideScope = errors.New("forbidden path cannot intersect scope")

	// ErrInvalidMaxPages is returned when the page budget is below one.
	ErrInvalidMaxPages = errors.New("max pages must be at least 1")

	// ErrInvalidDelay is returned when the fetch delay is negative.
	ErrInvalidDelay = errors.New("delay must not be negative")

	// ErrInvalidMaxRepeat is returned when the state-token repeat limit is
	// negative.
	ErrInvalidMaxRepeat = errors.New("state max repeat must not be negative")

	// ErrInvalidBatchSize is returned when the batch concurrency is below
	// one.
	ErrInvalidBatchSize = errors.New("batch size must be at least 1")

	// ErrConflictingReportFormats is returned when both JSON and Markdown
	// report output are requested.
	ErrConflictingReportFormats = errors.New("JSON and Markdown reports are mutually exclusive")

	// ErrConfigNotFound is returned when an explicitly requested site file
	// does not exist.
	ErrConfigNotFound = errors.New("site config file not found")
)
