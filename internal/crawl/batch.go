package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/burrowsec/bober/internal/config"
	"github.com/burrowsec/bober/internal/driver"
	"github.com/burrowsec/bober/internal/frontier"
	"github.com/burrowsec/bober/internal/model"
)

// DriverFactory creates one browser driver per session. Sessions never share
// a browser: each target gets its own process so one crashing renderer
// cannot poison another target's crawl.
type DriverFactory func() driver.Driver

// Sink receives each session's results as it finishes, before Batch returns.
// It runs on the session's goroutine, so concurrent sessions may call it
// simultaneously; implementations must synchronize. A nil Sink is skipped.
type Sink func(target string, report *model.CrawlReport, visits []frontier.Record)

// Batch crawls several targets with bounded concurrency. Each target runs as
// an independent, strictly sequential session; only sessions of different
// targets overlap. Reports come back in target order regardless of
// completion order.
//
// A fatal driver error aborts only its own session; the other sessions run
// to completion and the first fatal error is returned alongside the reports.
func Batch(ctx context.Context, cfg *config.Config, newDriver DriverFactory, logger *slog.Logger, sink Sink) ([]*model.CrawlReport, error) {
	reports := make([]*model.CrawlReport, len(cfg.Targets))

	// No errgroup.WithContext here: one target's fatal error must not
	// cancel the other sessions. Only the caller's ctx stops the batch.
	var g errgroup.Group
	g.SetLimit(cfg.BatchSize)

	for i, target := range cfg.Targets {
		g.Go(func() error {
			drv := newDriver()
			defer drv.Close()

			if err := drv.Start(ctx); err != nil {
				reports[i] = failedReport(cfg, target, err)
				return err
			}

			sess, err := NewSession(cfg, target, sitemapPath(cfg, i), drv, logger)
			if err != nil {
				reports[i] = failedReport(cfg, target, err)
				return err
			}

			report, err := sess.Run(ctx)
			reports[i] = report
			if sink != nil {
				sink(target, report, sess.Records())
			}
			return err
		})
	}

	err := g.Wait()
	return reports, err
}

// sitemapPath derives the per-session sitemap file name. A single target uses
// the configured path as-is; multiple targets get a numeric suffix before
// the extension (sitemap.txt, sitemap.1.txt, ...).
func sitemapPath(cfg *config.Config, index int) string {
	if cfg.SitemapFile == "" {
		return ""
	}
	if len(cfg.Targets) == 1 || index == 0 {
		return cfg.SitemapFile
	}
	ext := filepath.Ext(cfg.SitemapFile)
	base := strings.TrimSuffix(cfg.SitemapFile, ext)
	return fmt.Sprintf("%s.%d%s", base, index, ext)
}

// failedReport builds a report for a session that never reached its Run loop.
func failedReport(cfg *config.Config, target string, err error) *model.CrawlReport {
	scope := ""
	if s, scopeErr := cfg.ScopeFor(target); scopeErr == nil {
		scope = s.String()
	}
	report := model.NewCrawlReport(target, scope)
	report.Termination = "failed to start"
	report.Error = err.Error()
	return report
}
