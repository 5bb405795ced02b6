package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/burrowsec/bober/internal/driver"
	"github.com/burrowsec/bober/internal/frontier"
	"github.com/burrowsec/bober/internal/model"
)

// Termination reasons recorded in the report.
const (
	terminationExhausted = "frontier exhausted"
	terminationBudget    = "page budget reached"
	terminationFatal     = "driver fatal error"
	terminationCanceled  = "canceled"
)

// Run executes the crawl to completion. It seeds the frontier with the start
// URL (and the seed file, when configured), then loops: dequeue, fetch,
// record the sitemap line, admit discovered links, pace. The loop is strictly
// sequential; exactly one fetch is in flight at any time, which keeps
// proxy-observed traffic ordered and the visited set free of races.
//
// Run always returns a usable report. A driver-level fatal error ends the
// session early and is returned as the error; per-fetch failures are recorded
// and crawling continues.
func (s *Session) Run(ctx context.Context) (*model.CrawlReport, error) {
	if s.state != StateIdle {
		return s.report, fmt.Errorf("session already ran (state %s)", s.state)
	}
	s.state = StateRunning
	s.report.StartedAt = time.Now()

	s.seed()

	fatal := s.loop(ctx)
	s.drain()

	if fatal != nil {
		return s.report, fatal
	}
	return s.report, nil
}

// seed enqueues the start URL and any seed-file URLs through the same
// admission pipeline as discovered links. Seeds run before the first fetch,
// so a seed duplicating the start URL is dropped like any other duplicate.
func (s *Session) seed() {
	s.admit(s.target, nil, "")

	if s.cfg.SeedFile == "" {
		return
	}
	seeds, err := LoadSeeds(s.cfg.SeedFile)
	if err != nil {
		s.logger.Warn("failed to load seed file", "path", s.cfg.SeedFile, "error", err)
		return
	}
	s.logger.Info("loaded seed URLs", "path", s.cfg.SeedFile, "count", len(seeds))
	for _, seed := range seeds {
		s.admit(seed, nil, "")
	}
}

// loop runs the fetch cycle until the frontier drains, the page budget is
// spent, the context is canceled, or the driver fails fatally. The returned
// error is non-nil only for the fatal case.
func (s *Session) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			s.report.Termination = terminationCanceled
			return nil
		}
		if s.report.Attempted() >= s.cfg.MaxPages {
			s.report.Termination = terminationBudget
			return nil
		}

		entry, ok := s.queue.Pop()
		if !ok {
			s.report.Termination = terminationExhausted
			return nil
		}

		if err := s.fetch(ctx, entry); err != nil {
			s.report.Termination = terminationFatal
			s.report.Error = err.Error()
			return err
		}

		if s.queue.Len() > 0 && s.cfg.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.cfg.Delay):
			}
		}
	}
}

// fetch performs one fetch attempt and processes its results. It returns an
// error only when the driver is fatally broken; ordinary fetch failures are
// recorded on the entry and crawling continues.
func (s *Session) fetch(ctx context.Context, entry frontier.Entry) error {
	s.logger.Info("fetching", "url", entry.URL.String(), "queued", s.queue.Len())

	res, err := s.drv.Fetch(ctx, entry.URL.String())
	if err != nil {
		var fatal *driver.FatalError
		if errors.As(err, &fatal) {
			s.gate.Visited().Finalize(entry.Key, frontier.OutcomeFetchFailed)
			s.report.FetchFailures++
			return err
		}

		// The URL was reachable through the gate, so its discovery is
		// preserved in the sitemap even though the fetch failed.
		s.gate.Visited().Finalize(entry.Key, frontier.OutcomeFetchFailed)
		s.report.FetchFailures++
		s.appendSitemap(entry.URL)
		s.logger.Warn("fetch failed", "url", entry.URL.String(), "disposition", "FetchFailed", "error", err)
		return nil
	}

	s.gate.Visited().Finalize(entry.Key, frontier.OutcomeFetched)
	s.report.PagesFetched++

	// Navigation may have redirected. The sitemap records where the browser
	// actually landed, unless that landing spot is itself forbidden.
	base := entry.URL
	if final, err := frontier.Normalize(res.FinalURL, entry.URL); err == nil {
		base = final
	}
	s.appendSitemap(base)

	s.logger.Debug("page fetched",
		"url", entry.URL.String(),
		"final_url", base.String(),
		"title", res.Title,
		"links", len(res.RawLinks),
	)

	for _, raw := range res.RawLinks {
		s.admit(raw, base, entry.URL.String())
	}
	return nil
}

// admit runs one candidate through the gate and reacts to the verdict:
// accepted URLs are queued (or closed out as OutOfScopeSkipped once the page
// budget is spent), everything else is logged with its disposition.
func (s *Session) admit(raw string, base *url.URL, from string) {
	verdict := s.gate.Admit(raw, base)

	switch verdict.Decision {
	case frontier.DecisionAccepted:
		if s.report.Attempted() >= s.cfg.MaxPages {
			// The key is reserved but can never be fetched in this session.
			s.gate.Visited().Finalize(verdict.Key, frontier.OutcomeOutOfScopeSkipped)
			s.logger.Debug("candidate rejected",
				"url", verdict.URL.String(),
				"disposition", frontier.OutcomeOutOfScopeSkipped.String(),
				"reason", terminationBudget,
			)
			return
		}
		s.queue.Push(frontier.Entry{
			URL:            verdict.URL,
			Key:            verdict.Key,
			DiscoveredFrom: from,
			EnqueuedAt:     time.Now(),
		})
		s.logger.Debug("candidate accepted", "url", verdict.URL.String(), "disposition", "Accepted")

	case frontier.DecisionMalformed:
		s.logger.Debug("candidate rejected", "raw", raw, "disposition", verdict.Decision.String())

	default:
		s.logger.Debug("candidate rejected",
			"url", verdict.URL.String(),
			"disposition", verdict.Decision.String(),
			"reason", verdict.Reason,
		)
	}
}

// appendSitemap records an attempted URL unless its path is forbidden. The
// forbidden check repeats here because redirects can land on a forbidden path
// even when the requested URL passed the gate.
func (s *Session) appendSitemap(u *url.URL) {
	if s.gate.Forbidden(u) {
		s.logger.Debug("redirect target forbidden, omitted from sitemap", "url", u.String())
		return
	}
	if err := s.sitemap.Append(u.String()); err != nil {
		s.logger.Warn("sitemap write failed", "error", err)
	}
}

// drain finalizes the session: entries still queued when the loop stopped are
// closed out, the sitemap file is flushed, and the report counters are filled
// from the visited set.
func (s *Session) drain() {
	s.state = StateDraining

	// Queued entries hold reserved keys that will never be fetched now.
	for {
		entry, ok := s.queue.Pop()
		if !ok {
			break
		}
		s.gate.Visited().Finalize(entry.Key, frontier.OutcomeOutOfScopeSkipped)
	}

	if err := s.sitemap.Close(); err != nil {
		s.logger.Warn("sitemap close failed", "error", err)
	}

	visited := s.gate.Visited()
	s.report.ForbiddenSkipped = visited.Count(frontier.OutcomeForbiddenSkipped)
	s.report.RecursionTrapSkipped = visited.Count(frontier.OutcomeRecursionTrapSkipped)
	s.report.OutOfScopeSkipped = visited.Count(frontier.OutcomeOutOfScopeSkipped)
	s.report.UniqueKeys = visited.Len()
	s.report.Sitemap = s.sitemap.URLs()
	s.report.Duration = time.Since(s.report.StartedAt)

	s.state = StateTerminated
	s.logger.Info("session terminated",
		"reason", s.report.Termination,
		"pages_fetched", s.report.PagesFetched,
		"fetch_failures", s.report.FetchFailures,
		"sitemap", s.sitemap.Len(),
	)
}
