package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/burrowsec/bober/internal/frontier"
)

// Default configuration values. Network-facing defaults match the tool's
// intended workflow: a headless browser crawling through a local intercepting
// proxy during an authorized test.
const (
	// DefaultProxy is the conventional listen address of a local
	// intercepting proxy (Burp, ZAP, mitmproxy).
	DefaultProxy = "http://127.0.0.1:8080"

	// DefaultNavigationTimeout bounds each page load. Rendered applications
	// are slower than plain documents; 15 seconds covers typical SPAs
	// without letting a dead endpoint stall the crawl.
	DefaultNavigationTimeout = 15 * time.Second

	// DefaultMaxPages caps fetch attempts per session. It exists to
	// terminate crawls of sites that generate unbounded URL permutations.
	DefaultMaxPages = 1000

	// DefaultDelay is inserted after every completed fetch. Pacing keeps
	// proxy-observed traffic orderly and avoids overwhelming the target;
	// it is not required for correctness.
	DefaultDelay = 150 * time.Millisecond

	// DefaultStateMaxRepeat is the occurrence threshold for watched state
	// tokens. 2 tolerates a legitimate repeated segment while stopping
	// self-reproducing chains at the third occurrence.
	DefaultStateMaxRepeat = 2

	// DefaultUserAgent is a current desktop Chrome string. Crawling with a
	// realistic UA keeps targets from serving bot-specific responses that
	// would skew the discovered surface.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
		"AppleWebKit/537.36 (KHTML, like Gecko) " +
		"Chrome/120.0.0.0 Safari/537.36"

	// DefaultSitemapFile is where the visitation-ordered sitemap is written.
	DefaultSitemapFile = "sitemap.txt"

	// AppName is used for XDG directory paths.
	AppName = "bober"
)

// Config holds all options for a crawl run. It is populated from CLI flags
// plus the optional site file and passed by reference into each component;
// there is no global mutable state.
type Config struct {
	// Targets are the start URLs. Each target becomes an independent
	// sequential session; several targets may run concurrently (BatchSize).
	Targets []string

	// Scope is the crawl boundary as scheme://host[/prefix]. Empty means
	// derive scheme://host/ from each target.
	Scope string

	// ForbiddenPaths are path prefixes that must never be fetched,
	// regardless of scope. This protects state-changing endpoints (logout,
	// delete, purchase) during authorized testing.
	ForbiddenPaths []string

	// QueryAgnosticPaths are path prefixes whose query strings are ignored
	// for deduplication.
	QueryAgnosticPaths []string

	// StateTokens are watched strings whose repetition in a URL marks a
	// self-reproducing structure (e.g. embed, feed, rss2).
	StateTokens []string

	// StateMaxRepeat is the per-token occurrence limit.
	StateMaxRepeat int

	// MaxParamLen is the longest decoded query value accepted before a URL
	// is rejected as a recursion trap, independent of state tokens.
	MaxParamLen int

	// MaxRepeatSegments is the occurrence count at which a segment repeated
	// inside one decoded query value marks a recursion trap.
	MaxRepeatSegments int

	// MaxPages caps Fetched+FetchFailed entries per session.
	MaxPages int

	// Delay is the pacing pause after every completed fetch.
	Delay time.Duration

	// NavigationTimeout bounds each page load in the browser.
	NavigationTimeout time.Duration

	// Proxy is the HTTP proxy all browser traffic routes through. Empty
	// disables proxying.
	Proxy string

	// UserAgent is the browser User-Agent string.
	UserAgent string

	// Cookie is a raw Cookie header value for authenticated crawls.
	Cookie string

	// SeedFile is an optional newline-delimited URL list enqueued after the
	// start URL, before the first fetch.
	SeedFile string

	// SitemapFile is the sitemap output path. With multiple targets each
	// session appends a numeric suffix before the extension.
	SitemapFile string

	// BatchSize is the number of concurrently running sessions when several
	// targets are given. Each session's engine stays strictly sequential.
	BatchSize int

	// ConfigFilePath points at the YAML site file. Empty triggers the
	// cwd/home search for .bober.
	ConfigFilePath string

	// SiteConfigs holds per-host overrides loaded from the site file.
	SiteConfigs *File

	// DBDir is the SQLite crawl-history directory. Empty disables history.
	DBDir string

	// SaveToDB records visits and session summaries to the database.
	SaveToDB bool

	// Verbose enables slog.LevelDebug output.
	Verbose bool

	// JSONReport and MarkdownReport select the summary format; they are
	// mutually exclusive. Default is the human-readable writer.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile writes the summary to a file instead of stdout.
	ReportFile string

	// Headful disables headless mode for interactive debugging.
	Headful bool
}

// NewConfig returns a Config with defaults applied. Non-zero defaults live
// here rather than scattered across flag definitions so they are documented
// once and tested once.
func NewConfig() *Config {
	return &Config{
		Proxy:             DefaultProxy,
		NavigationTimeout: DefaultNavigationTimeout,
		MaxPages:          DefaultMaxPages,
		Delay:             DefaultDelay,
		StateMaxRepeat:    DefaultStateMaxRepeat,
		MaxParamLen:       frontier.DefaultMaxParamLen,
		MaxRepeatSegments: frontier.DefaultMaxRepeatSegments,
		UserAgent:         DefaultUserAgent,
		SitemapFile:       DefaultSitemapFile,
		BatchSize:         1,
	}
}

// XDGDataDir returns the XDG data directory for the crawl-history database.
// On Linux: ~/.local/share/bober.
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// ScopeFor resolves the effective scope for one target: the configured scope
// when set, otherwise the target's own scheme://host/.
func (c *Config) ScopeFor(target string) (frontier.Scope, error) {
	if c.Scope != "" {
		return frontier.ParseScope(c.Scope)
	}

	u, err := frontier.Normalize(target, nil)
	if err != nil {
		return frontier.Scope{}, fmt.Errorf("%w: cannot derive scope from %q", frontier.ErrInvalidScope, target)
	}
	return frontier.Scope{Scheme: u.Scheme, Host: u.Host, PathPrefix: "/"}, nil
}

// Validate checks the configuration before any crawling begins. Invalid
// scope specifications and contradictory flags are fatal at startup; a crawl
// is never started on a configuration that could misbehave mid-run.
//
// The first error found is returned: fixing one usually changes the rest.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoStartURL
	}
	if c.MaxPages < 1 {
		return ErrInvalidMaxPages
	}
	if c.Delay < 0 {
		return ErrInvalidDelay
	}
	if c.StateMaxRepeat < 0 {
		return ErrInvalidMaxRepeat
	}
	if c.BatchSize < 1 {
		return ErrInvalidBatchSize
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	for _, target := range c.Targets {
		scope, err := c.ScopeFor(target)
		if err != nil {
			return err
		}
		if err := c.validateTarget(target, scope); err != nil {
			return err
		}
	}
	return nil
}

// validateTarget checks one start URL against its effective scope and the
// forbidden set.
func (c *Config) validateTarget(target string, scope frontier.Scope) error {
	u, err := frontier.Normalize(target, nil)
	if err != nil {
		return fmt.Errorf("%w: start URL %q", frontier.ErrMalformedURL, target)
	}
	if !scope.Contains(u) {
		return fmt.Errorf("%w: start URL %q outside scope %s", ErrStartOutOfScope, target, scope)
	}

	forbidden := frontier.NewPrefixSet(c.ForbiddenPaths)
	if _, ok := forbidden.Match(u); ok {
		return fmt.Errorf("%w: start URL %q", ErrStartForbidden, target)
	}

	// A forbidden prefix that cannot intersect the scope subtree is a
	// contradiction worth failing on: the operator almost certainly meant a
	// different scope or a different prefix.
	for _, prefix := range forbidden.Prefixes() {
		if prefix == "/" {
			continue
		}
		inside := scope.PathPrefix == "/" ||
			prefixWithin(prefix, scope.PathPrefix) ||
			prefixWithin(scope.PathPrefix, prefix)
		if !inside {
			return fmt.Errorf("%w: %q outside scope prefix %q", ErrForbiddenOutsideScope, prefix, scope.PathPrefix)
		}
	}
	return nil
}

// prefixWithin reports whether candidate lies under root at a segment
// boundary.
func prefixWithin(candidate, root string) bool {
	return candidate == root || len(candidate) > len(root) &&
		candidate[:len(root)] == root && candidate[len(root)] == '/'
}
