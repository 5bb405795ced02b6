package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	c := NewConfig()

	if c.Proxy != DefaultProxy {
		t.Errorf("expected proxy %q, got %q", DefaultProxy, c.Proxy)
	}
	if c.NavigationTimeout != 15*time.Second {
		t.Errorf("expected 15s timeout, got %v", c.NavigationTimeout)
	}
	if c.MaxPages != DefaultMaxPages {
		t.Errorf("expected max pages %d, got %d", DefaultMaxPages, c.MaxPages)
	}
	if c.Delay != 150*time.Millisecond {
		t.Errorf("expected 150ms delay, got %v", c.Delay)
	}
	if c.StateMaxRepeat != 2 {
		t.Errorf("expected state max repeat 2, got %d", c.StateMaxRepeat)
	}
	if c.BatchSize != 1 {
		t.Errorf("expected batch size 1, got %d", c.BatchSize)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		c := NewConfig()
		c.Targets = []string{"https://h.test/shop"}
		c.Scope = "https://h.test/shop"
		return c
	}

	t.Run("valid configuration passes", func(t *testing.T) {
		t.Parallel()

		if err := valid().Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("requires a start URL", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		if err := c.Validate(); !errors.Is(err, ErrNoStartURL) {
			t.Errorf("expected ErrNoStartURL, got %v", err)
		}
	})

	t.Run("rejects zero page budget", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.MaxPages = 0
		if err := c.Validate(); !errors.Is(err, ErrInvalidMaxPages) {
			t.Errorf("expected ErrInvalidMaxPages, got %v", err)
		}
	})

	t.Run("rejects negative delay", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.Delay = -time.Second
		if err := c.Validate(); !errors.Is(err, ErrInvalidDelay) {
			t.Errorf("expected ErrInvalidDelay, got %v", err)
		}
	})

	t.Run("rejects negative state repeat limit", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.StateMaxRepeat = -1
		if err := c.Validate(); !errors.Is(err, ErrInvalidMaxRepeat) {
			t.Errorf("expected ErrInvalidMaxRepeat, got %v", err)
		}
	})

	t.Run("rejects zero batch size", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.BatchSize = 0
		if err := c.Validate(); !errors.Is(err, ErrInvalidBatchSize) {
			t.Errorf("expected ErrInvalidBatchSize, got %v", err)
		}
	})

	t.Run("rejects conflicting report formats", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.JSONReport = true
		c.MarkdownReport = true
		if err := c.Validate(); !errors.Is(err, ErrConflictingReportFormats) {
			t.Errorf("expected ErrConflictingReportFormats, got %v", err)
		}
	})

	t.Run("rejects start URL outside scope", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.Targets = []string{"https://h.test/blog"}
		if err := c.Validate(); !errors.Is(err, ErrStartOutOfScope) {
			t.Errorf("expected ErrStartOutOfScope, got %v", err)
		}
	})

	t.Run("rejects start URL on forbidden path", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.Targets = []string{"https://h.test/shop/logout"}
		c.ForbiddenPaths = []string{"/shop/logout"}
		if err := c.Validate(); !errors.Is(err, ErrStartForbidden) {
			t.Errorf("expected ErrStartForbidden, got %v", err)
		}
	})

	t.Run("rejects forbidden path that cannot intersect scope", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.ForbiddenPaths = []string{"/blog/logout"}
		if err := c.Validate(); !errors.Is(err, ErrForbiddenOutsideScope) {
			t.Errorf("expected ErrForbiddenOutsideScope, got %v", err)
		}
	})

	t.Run("forbidden root also forbids the start URL", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.ForbiddenPaths = []string{"/"}
		if err := c.Validate(); !errors.Is(err, ErrStartForbidden) {
			t.Errorf("expected ErrStartForbidden, got %v", err)
		}
	})

	t.Run("accepts forbidden path inside scope", func(t *testing.T) {
		t.Parallel()

		c := valid()
		c.ForbiddenPaths = []string{"/shop/logout"}
		if err := c.Validate(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("rejects malformed start URL", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Targets = []string{"ht tp://bad"}
		if err := c.Validate(); err == nil {
			t.Error("expected an error for malformed start URL")
		}
	})
}

func TestScopeFor(t *testing.T) {
	t.Parallel()

	t.Run("uses explicit scope when set", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		c.Scope = "https://h.test/shop"
		scope, err := c.ScopeFor("https://other.test/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scope.Host != "h.test" || scope.PathPrefix != "/shop" {
			t.Errorf("unexpected scope: %+v", scope)
		}
	})

	t.Run("derives host-wide scope from target", func(t *testing.T) {
		t.Parallel()

		c := NewConfig()
		scope, err := c.ScopeFor("https://h.test/shop/item?id=1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if scope.Scheme != "https" || scope.Host != "h.test" || scope.PathPrefix != "/" {
			t.Errorf("unexpected derived scope: %+v", scope)
		}
	})
}

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads site overrides", func(t *testing.T) {
		t.Parallel()

		content := `
defaults:
  stateTokens:
    - embed
sites:
  shop.test:
    cookie: "session=abc123"
    forbiddenPaths:
      - /logout
    maxPages: 50
`
		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}

		cf, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		site := cf.GetSiteConfig("shop.test")
		if site.Cookie != "session=abc123" {
			t.Errorf("unexpected cookie: %q", site.Cookie)
		}
		if len(site.ForbiddenPaths) != 1 || site.ForbiddenPaths[0] != "/logout" {
			t.Errorf("unexpected forbidden paths: %v", site.ForbiddenPaths)
		}
		if site.MaxPages != 50 {
			t.Errorf("unexpected max pages: %d", site.MaxPages)
		}
		if len(site.StateTokens) != 1 || site.StateTokens[0] != "embed" {
			t.Errorf("defaults not inherited: %v", site.StateTokens)
		}
	})

	t.Run("unknown host falls back to defaults", func(t *testing.T) {
		t.Parallel()

		cf := &File{Defaults: SiteConfig{Cookie: "shared=1"}}
		site := cf.GetSiteConfig("nowhere.test")
		if site.Cookie != "shared=1" {
			t.Errorf("unexpected cookie: %q", site.Cookie)
		}
	})

	t.Run("missing file returns ErrConfigNotFound", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "absent"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid YAML returns an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(path, []byte("sites: [broken"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a YAML parse error")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("explicit existing path wins", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("sites: {}"), 0o600); err != nil {
			t.Fatal(err)
		}
		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("explicit missing path returns empty", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "absent")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}
