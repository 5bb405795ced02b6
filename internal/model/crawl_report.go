package model

import "time"

// CrawlReport is the summary of one crawl session. It is what the report
// writers render and what the database persists alongside per-visit records.
type CrawlReport struct {
	// StartURL is the URL the session was seeded with.
	StartURL string `json:"start_url"`

	// Scope is the session boundary in scheme://host/prefix form.
	Scope string `json:"scope"`

	// StartedAt is when the session entered the Running state.
	StartedAt time.Time `json:"started_at"`

	// Duration is the wall-clock length of the session.
	Duration time.Duration `json:"duration"`

	// PagesFetched is the number of successful fetch attempts.
	PagesFetched int `json:"pages_fetched"`

	// FetchFailures is the number of failed fetch attempts. Failed URLs
	// still appear in the sitemap to preserve the discovery signal.
	FetchFailures int `json:"fetch_failures"`

	// ForbiddenSkipped counts URLs rejected by the forbidden-path filter.
	ForbiddenSkipped int `json:"forbidden_skipped"`

	// RecursionTrapSkipped counts URLs rejected by the state-token guard.
	RecursionTrapSkipped int `json:"recursion_trap_skipped"`

	// OutOfScopeSkipped counts URLs outside the scope, including links
	// admitted after the page budget was exhausted.
	OutOfScopeSkipped int `json:"out_of_scope_skipped"`

	// UniqueKeys is the total number of canonical keys considered.
	UniqueKeys int `json:"unique_keys"`

	// Sitemap is every non-forbidden URL attempted, in visitation order.
	Sitemap []string `json:"sitemap"`

	// SitemapFile is the path the sitemap was flushed to, if any.
	SitemapFile string `json:"sitemap_file,omitempty"`

	// Termination names why the session ended: "frontier exhausted",
	// "page budget reached", or "driver fatal error".
	Termination string `json:"termination"`

	// Error carries the driver-level fatal error message when the session
	// was cut short. Partial results remain valid.
	Error string `json:"error,omitempty"`
}

// NewCrawlReport creates a report for a session that is about to start.
func NewCrawlReport(startURL, scope string) *CrawlReport {
	return &CrawlReport{
		StartURL:  startURL,
		Scope:     scope,
		StartedAt: time.Now(),
		Sitemap:   make([]string, 0),
	}
}

// Attempted returns the number of fetch attempts, successful or not. This is
// the figure bounded by the session's page budget.
func (r *CrawlReport) Attempted() int {
	return r.PagesFetched + r.FetchFailures
}

// Complete reports whether the session ended without a driver-level failure.
func (r *CrawlReport) Complete() bool {
	return r.Error == ""
}
