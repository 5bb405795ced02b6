package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/burrowsec/bober/internal/config"
)

// parseCrawlFlags builds a crawl command, parses args, and returns the
// resulting config without running the crawl.
func parseCrawlFlags(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var cfg *config.Config
	cmd := NewCrawlCmd()
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = buildConfig(cmd, args)
		return err
	}

	root := NewRootCmd()
	root.RemoveCommand(root.Commands()...)
	root.AddCommand(cmd)
	root.SetArgs(append([]string{"crawl"}, args...))

	if err := root.Execute(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func TestNewCrawlCmd(t *testing.T) {
	t.Parallel()

	cmd := NewCrawlCmd()

	t.Run("has expected flags", func(t *testing.T) {
		t.Parallel()

		for _, name := range []string{
			"scope", "forbidden-paths", "query-agnostic-paths",
			"state-tokens", "state-max-repeat", "max-param-len",
			"max-repeat-segments", "max-pages", "delay",
			"timeout", "seed-file", "sitemap", "proxy", "user-agent",
			"cookie", "headful", "batch", "config", "no-db", "db-dir",
			"json", "markdown", "output",
		} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("missing flag %q", name)
			}
		}
	})

	t.Run("proxy defaults to the local intercepting proxy", func(t *testing.T) {
		t.Parallel()

		flag := cmd.Flags().Lookup("proxy")
		if flag.DefValue != config.DefaultProxy {
			t.Errorf("expected default %q, got %q", config.DefaultProxy, flag.DefValue)
		}
	})
}

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	t.Run("defaults applied with a bare target", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseCrawlFlags(t, "https://h.test/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.Targets) != 1 || cfg.Targets[0] != "https://h.test/" {
			t.Errorf("unexpected targets: %v", cfg.Targets)
		}
		if cfg.Proxy != config.DefaultProxy {
			t.Errorf("unexpected proxy: %q", cfg.Proxy)
		}
		if cfg.MaxPages != config.DefaultMaxPages {
			t.Errorf("unexpected max pages: %d", cfg.MaxPages)
		}
		if !cfg.SaveToDB {
			t.Error("expected database saving by default")
		}
	})

	t.Run("filter flags parse as lists", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseCrawlFlags(t,
			"--forbidden-paths", "/logout,/admin/delete",
			"--query-agnostic-paths", "/products",
			"--state-tokens", "embed,feed",
			"--state-max-repeat", "3",
			"https://h.test/",
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(cfg.ForbiddenPaths) != 2 {
			t.Errorf("unexpected forbidden paths: %v", cfg.ForbiddenPaths)
		}
		if len(cfg.QueryAgnosticPaths) != 1 {
			t.Errorf("unexpected query-agnostic paths: %v", cfg.QueryAgnosticPaths)
		}
		if len(cfg.StateTokens) != 2 || cfg.StateMaxRepeat != 3 {
			t.Errorf("unexpected state tokens: %v / %d", cfg.StateTokens, cfg.StateMaxRepeat)
		}
	})

	t.Run("no-db disables persistence", func(t *testing.T) {
		t.Parallel()

		cfg, err := parseCrawlFlags(t, "--no-db", "https://h.test/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.SaveToDB || cfg.DBDir != "" {
			t.Errorf("expected persistence disabled: SaveToDB=%v DBDir=%q", cfg.SaveToDB, cfg.DBDir)
		}
	})

	t.Run("db-dir overrides the data directory", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		cfg, err := parseCrawlFlags(t, "--db-dir", dir, "https://h.test/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.DBDir != dir {
			t.Errorf("expected DB dir %q, got %q", dir, cfg.DBDir)
		}
	})

	t.Run("explicit missing site file is an error", func(t *testing.T) {
		t.Parallel()

		_, err := parseCrawlFlags(t, "--config", filepath.Join(t.TempDir(), "absent"), "https://h.test/")
		if err == nil {
			t.Error("expected an error for missing site file")
		}
	})

	t.Run("site file overrides apply to a single target", func(t *testing.T) {
		t.Parallel()

		content := `
sites:
  h.test:
    cookie: "session=fromfile"
    forbiddenPaths: [/logout]
    delayMillis: 500
`
		path := filepath.Join(t.TempDir(), ".bober")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := parseCrawlFlags(t, "--config", path, "https://h.test/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Cookie != "session=fromfile" {
			t.Errorf("unexpected cookie: %q", cfg.Cookie)
		}
		if len(cfg.ForbiddenPaths) != 1 || cfg.ForbiddenPaths[0] != "/logout" {
			t.Errorf("unexpected forbidden paths: %v", cfg.ForbiddenPaths)
		}
		if cfg.Delay != 500*time.Millisecond {
			t.Errorf("unexpected delay: %v", cfg.Delay)
		}
	})

	t.Run("flags beat site file overrides", func(t *testing.T) {
		t.Parallel()

		content := `
sites:
  h.test:
    cookie: "session=fromfile"
`
		path := filepath.Join(t.TempDir(), ".bober")
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cfg, err := parseCrawlFlags(t, "--config", path, "--cookie", "session=fromflag", "https://h.test/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Cookie != "session=fromflag" {
			t.Errorf("expected the flag to win, got %q", cfg.Cookie)
		}
	})
}
