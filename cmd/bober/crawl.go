package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/burrowsec/bober/internal/config"
	"github.com/burrowsec/bober/internal/crawl"
	"github.com/burrowsec/bober/internal/database"
	"github.com/burrowsec/bober/internal/driver"
	"github.com/burrowsec/bober/internal/frontier"
	"github.com/burrowsec/bober/internal/log"
	"github.com/burrowsec/bober/internal/model"
	"github.com/burrowsec/bober/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [start-url...]",
		Short: "Crawl a web application within a strict scope",
		Long: `Crawl renders pages of the target application in a headless browser,
routing all traffic through an intercepting proxy, and follows discovered
links breadth-first while a scope, a forbidden-path list, and a recursion
guard keep the crawl inside the authorized boundary.

The result is a visitation-ordered sitemap of the reachable attack surface,
plus a summary report and a crawl-history database entry.

Examples:
  # Crawl a whole host through Burp on the default port
  bober crawl https://shop.example/

  # Restrict the crawl to a path subtree and protect logout
  bober crawl --scope https://shop.example/app \
    --forbidden-paths /app/logout,/app/delete https://shop.example/app

  # Authenticated crawl with query-insensitive product pages
  bober crawl --cookie "session=abc123" \
    --query-agnostic-paths /app/products https://shop.example/app

  # Stop calendar-style recursion traps
  bober crawl --state-tokens embed,feed --state-max-repeat 2 https://blog.example/

Site file (.bober) example:
  defaults:
    stateTokens: [embed, feed, rss2]
  sites:
    shop.example:
      cookie: "session=abc123"
      forbiddenPaths: [/logout, /cart/checkout]`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Scope and filtering flags
	cmd.Flags().StringP("scope", "S", "",
		"Crawl boundary as scheme://host[/prefix] (default: the start URL's host)")
	cmd.Flags().StringSliceP("forbidden-paths", "f", nil,
		"Path prefixes that must never be fetched (e.g. /logout,/admin/delete)")
	cmd.Flags().StringSliceP("query-agnostic-paths", "q", nil,
		"Path prefixes whose query strings are ignored for deduplication")
	cmd.Flags().StringSlice("state-tokens", nil,
		"Tokens whose repetition in a URL marks a recursion trap (e.g. embed,feed)")
	cmd.Flags().Int("state-max-repeat", config.DefaultStateMaxRepeat,
		"Maximum occurrences of a state token before a URL is rejected")
	cmd.Flags().Int("max-param-len", frontier.DefaultMaxParamLen,
		"Longest decoded query value accepted before a URL counts as a trap")
	cmd.Flags().Int("max-repeat-segments", frontier.DefaultMaxRepeatSegments,
		"Repetitions of a segment inside one query value that mark a trap")

	// Crawl behavior flags
	cmd.Flags().IntP("max-pages", "p", config.DefaultMaxPages,
		"Maximum number of fetch attempts per target")
	cmd.Flags().Duration("delay", config.DefaultDelay,
		"Pause between fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultNavigationTimeout,
		"Navigation timeout per page")
	cmd.Flags().String("seed-file", "",
		"Newline-delimited URL list enqueued after the start URL")
	cmd.Flags().String("sitemap", config.DefaultSitemapFile,
		"Sitemap output path (empty to disable the file)")

	// Browser flags
	cmd.Flags().String("proxy", config.DefaultProxy,
		"HTTP proxy for all browser traffic (empty to disable)")
	cmd.Flags().StringP("user-agent", "A", config.DefaultUserAgent,
		"Browser User-Agent string")
	cmd.Flags().String("cookie", "",
		"Raw Cookie header value for authenticated crawls")
	cmd.Flags().Bool("headful", false,
		"Run the browser with a visible window (debugging)")

	// Batch crawling flags
	cmd.Flags().IntP("batch", "b", 1,
		"Number of concurrent sessions when several targets are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Site file path (default: .bober in current or home directory)")

	// Persistence flags
	cmd.Flags().Bool("no-db", false,
		"Skip recording the crawl in the history database")
	cmd.Flags().String("db-dir", "",
		"Crawl history database directory (default: the XDG data directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Cancel the crawl on interrupt; partial results are still reported.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Targets = args

	var err error

	if cfg.Scope, err = cmd.Flags().GetString("scope"); err != nil {
		return nil, err
	}
	if cfg.ForbiddenPaths, err = cmd.Flags().GetStringSlice("forbidden-paths"); err != nil {
		return nil, err
	}
	if cfg.QueryAgnosticPaths, err = cmd.Flags().GetStringSlice("query-agnostic-paths"); err != nil {
		return nil, err
	}
	if cfg.StateTokens, err = cmd.Flags().GetStringSlice("state-tokens"); err != nil {
		return nil, err
	}
	if cfg.StateMaxRepeat, err = cmd.Flags().GetInt("state-max-repeat"); err != nil {
		return nil, err
	}
	if cfg.MaxParamLen, err = cmd.Flags().GetInt("max-param-len"); err != nil {
		return nil, err
	}
	if cfg.MaxRepeatSegments, err = cmd.Flags().GetInt("max-repeat-segments"); err != nil {
		return nil, err
	}
	if cfg.MaxPages, err = cmd.Flags().GetInt("max-pages"); err != nil {
		return nil, err
	}
	if cfg.Delay, err = cmd.Flags().GetDuration("delay"); err != nil {
		return nil, err
	}
	if cfg.NavigationTimeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.SeedFile, err = cmd.Flags().GetString("seed-file"); err != nil {
		return nil, err
	}
	if cfg.SitemapFile, err = cmd.Flags().GetString("sitemap"); err != nil {
		return nil, err
	}
	if cfg.Proxy, err = cmd.Flags().GetString("proxy"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.Cookie, err = cmd.Flags().GetString("cookie"); err != nil {
		return nil, err
	}
	if cfg.Headful, err = cmd.Flags().GetBool("headful"); err != nil {
		return nil, err
	}
	if cfg.BatchSize, err = cmd.Flags().GetInt("batch"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	if cfg.SaveToDB {
		if dbDir == "" {
			dbDir = config.XDGDataDir()
		}
		cfg.DBDir = dbDir
	}

	cfg.Verbose = getVerboseFlag(cmd)

	if err := loadSiteFile(cfg); err != nil {
		return nil, err
	}
	applySiteOverrides(cfg)

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// loadSiteFile loads the .bober site file. An explicitly requested file must
// exist; the implicit cwd/home search failing is not an error.
func loadSiteFile(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path != "" {
		var err error
		cfg.SiteConfigs, err = config.LoadConfigFile(path)
		if err != nil {
			return fmt.Errorf("failed to load site file %s: %w", path, err)
		}
		return nil
	}
	if explicit {
		return fmt.Errorf("site file not found: %s", cfg.ConfigFilePath)
	}
	cfg.SiteConfigs = &config.File{Sites: make(map[string]config.SiteConfig)}
	return nil
}

// applySiteOverrides folds per-host overrides from the site file into the
// config. Overrides apply only to single-target runs; with several targets
// there is one shared config, so only the defaults section can apply, and
// host-specific entries are ignored with a warning at crawl start.
func applySiteOverrides(cfg *config.Config) {
	if cfg.SiteConfigs == nil || len(cfg.Targets) != 1 {
		return
	}

	u, err := frontier.Normalize(cfg.Targets[0], nil)
	if err != nil {
		return // Validate reports the malformed target with a better message
	}

	site := cfg.SiteConfigs.GetSiteConfig(u.Host)
	if site.Cookie != "" && cfg.Cookie == "" {
		cfg.Cookie = site.Cookie
	}
	if len(site.ForbiddenPaths) > 0 && len(cfg.ForbiddenPaths) == 0 {
		cfg.ForbiddenPaths = site.ForbiddenPaths
	}
	if len(site.QueryAgnosticPaths) > 0 && len(cfg.QueryAgnosticPaths) == 0 {
		cfg.QueryAgnosticPaths = site.QueryAgnosticPaths
	}
	if len(site.StateTokens) > 0 && len(cfg.StateTokens) == 0 {
		cfg.StateTokens = site.StateTokens
	}
	if site.MaxPages > 0 && cfg.MaxPages == config.DefaultMaxPages {
		cfg.MaxPages = site.MaxPages
	}
	if site.DelayMillis > 0 && cfg.Delay == config.DefaultDelay {
		cfg.Delay = time.Duration(site.DelayMillis) * time.Millisecond
	}
}

// runCrawl executes the crawl across all targets and writes the reports.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"targets", cfg.Targets,
		"scope", cfg.Scope,
		"proxy", cfg.Proxy,
		"maxPages", cfg.MaxPages,
		"batchSize", cfg.BatchSize,
	)

	if len(cfg.Targets) > 1 && len(cfg.SiteConfigs.Sites) > 0 {
		logger.Warn("host-specific site file entries are ignored with multiple targets; only defaults apply",
			"siteCount", len(cfg.SiteConfigs.Sites))
	}

	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close() //nolint:errcheck // Best effort cleanup
		logger.Info("crawl history database opened", "dir", cfg.DBDir)
	}

	newDriver := func() driver.Driver {
		return driver.NewChromeDriver(driver.Options{
			Proxy:             cfg.Proxy,
			UserAgent:         cfg.UserAgent,
			CookieHeader:      cfg.Cookie,
			NavigationTimeout: cfg.NavigationTimeout,
			Headless:          !cfg.Headful,
		})
	}

	// The sink runs on session goroutines; the mutex serializes DB writes.
	var mu sync.Mutex
	sink := func(target string, rep *model.CrawlReport, visits []frontier.Record) {
		if db == nil {
			return
		}
		mu.Lock()
		defer mu.Unlock()
		if err := saveSession(ctx, db, rep, visits); err != nil {
			logger.Error("failed to save crawl history", "target", target, "error", err)
		}
	}

	start := time.Now()
	reports, err := crawl.Batch(ctx, cfg, newDriver, logger, sink)

	if writeErr := outputReports(cfg, reports); writeErr != nil {
		logger.Error("report output failed", "error", writeErr)
		if err == nil {
			err = writeErr
		}
	}

	logger.Info("crawl finished", "elapsed", time.Since(start).Round(time.Millisecond))
	return err
}

// saveSession persists one finished session and its visits.
func saveSession(ctx context.Context, db *database.CrawlDB, rep *model.CrawlReport, visits []frontier.Record) error {
	id, err := db.CreateSession(ctx, rep.StartURL, rep.Scope)
	if err != nil {
		return err
	}
	if err := db.SaveVisits(ctx, id, visits); err != nil {
		return err
	}
	return db.FinishSession(ctx, id, rep)
}

// outputReports writes the batch report in the requested format.
func outputReports(cfg *config.Config, reports []*model.CrawlReport) error {
	if len(reports) == 0 {
		return nil
	}

	output := os.Stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Reports list the target's internal URLs; owner-only permissions.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600) //nolint:gosec // User-provided output path is intentional
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close() //nolint:errcheck // Flushed by the writers below
		output = f
	}

	var w report.Writer
	switch {
	case cfg.JSONReport:
		w = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		w = report.NewMarkdownWriter(output)
	default:
		w = report.NewSimpleWriter(output)
	}

	if len(reports) == 1 {
		_, err := w.Write(reports[0])
		return err
	}
	_, err := w.WriteAll(reports)
	return err
}
