package crawl

import (
	"fmt"
	"log/slog"

	"github.com/burrowsec/bober/internal/config"
	"github.com/burrowsec/bober/internal/driver"
	"github.com/burrowsec/bober/internal/frontier"
	"github.com/burrowsec/bober/internal/model"
)

// State tracks where a session is in its lifecycle. Transitions are strictly
// forward: Idle → Running → Draining → Terminated.
type State int

const (
	// StateIdle means the session is constructed but Run has not been called.
	StateIdle State = iota

	// StateRunning means the fetch loop is active.
	StateRunning

	// StateDraining means the loop has stopped taking new work and is
	// finalizing queued entries, the sitemap, and the report.
	StateDraining

	// StateTerminated means the session is finished and the report is final.
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateRunning:
		return "Running"
	case StateDraining:
		return "Draining"
	case StateTerminated:
		return "Terminated"
	default:
		return "Unknown"
	}
}

// Session owns everything one crawl of one target needs: the admission gate,
// the frontier queue, the sitemap, and the report under construction. It is
// created once at crawl start from configuration and mutated only by the Run
// loop; no part of it is safe for concurrent use.
type Session struct {
	cfg     *config.Config
	target  string
	scope   frontier.Scope
	gate    *frontier.Gate
	queue   *frontier.Queue
	sitemap *Sitemap
	drv     driver.Driver
	logger  *slog.Logger
	state   State
	report  *model.CrawlReport
}

// NewSession builds a session for one target. sitemapPath may be empty to
// skip the sitemap file; cfg must already be validated.
func NewSession(cfg *config.Config, target, sitemapPath string, drv driver.Driver, logger *slog.Logger) (*Session, error) {
	scope, err := cfg.ScopeFor(target)
	if err != nil {
		return nil, err
	}

	sitemap, err := NewSitemap(sitemapPath)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sitemap: %w", err)
	}

	gate := frontier.NewGate(
		scope,
		frontier.NewPrefixSet(cfg.ForbiddenPaths),
		frontier.NewCanonicalizer(frontier.NewPrefixSet(cfg.QueryAgnosticPaths)),
		frontier.NewTokenGuard(cfg.StateTokens, cfg.StateMaxRepeat),
		frontier.NewTrapGuard(cfg.MaxParamLen, cfg.MaxRepeatSegments),
		frontier.NewVisitedSet(),
	)

	report := model.NewCrawlReport(target, scope.String())
	report.SitemapFile = sitemapPath

	return &Session{
		cfg:     cfg,
		target:  target,
		scope:   scope,
		gate:    gate,
		queue:   frontier.NewQueue(),
		sitemap: sitemap,
		drv:     drv,
		logger:  logger.With("target", target),
		state:   StateIdle,
		report:  report,
	}, nil
}

// State returns the session's lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Report returns the session report. It is only final once the session has
// reached StateTerminated.
func (s *Session) Report() *model.CrawlReport {
	return s.report
}

// Records returns every visited-set entry with its final disposition, in
// insertion order. Used for crawl-history persistence after the session
// terminates.
func (s *Session) Records() []frontier.Record {
	return s.gate.Visited().Records()
}
