package frontier

import (
	"errors"
	"net/url"
	"testing"
)

func TestParseScope(t *testing.T) {
	t.Parallel()

	t.Run("parses scheme host and path prefix", func(t *testing.T) {
		t.Parallel()

		s, err := ParseScope("https://shop.example.test/catalog/")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.Scheme != "https" || s.Host != "shop.example.test" || s.PathPrefix != "/catalog" {
			t.Errorf("unexpected scope: %+v", s)
		}
	})

	t.Run("defaults path prefix to slash", func(t *testing.T) {
		t.Parallel()

		s, err := ParseScope("http://h.test")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.PathPrefix != "/" {
			t.Errorf("expected path prefix /, got %q", s.PathPrefix)
		}
	})

	t.Run("rejects invalid specifications", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "not a url", "ftp://h.test", "/path/only"} {
			if _, err := ParseScope(raw); !errors.Is(err, ErrInvalidScope) {
				t.Errorf("expected ErrInvalidScope for %q, got %v", raw, err)
			}
		}
	})
}

func TestScopeContains(t *testing.T) {
	t.Parallel()

	scope := Scope{Scheme: "https", Host: "h.test", PathPrefix: "/shop"}

	tests := []struct {
		name string
		url  string
		want bool
	}{
		{"path equals prefix", "https://h.test/shop", true},
		{"path under prefix", "https://h.test/shop/x", true},
		{"segment boundary rejects shopping", "https://h.test/shopping/x", false},
		{"http is a different scope than https", "http://h.test/shop", false},
		{"subdomain is a different host", "https://www.h.test/shop", false},
		{"different host", "https://other.test/shop", false},
		{"path outside prefix", "https://h.test/blog", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := url.Parse(tt.url)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", tt.url, err)
			}
			if got := scope.Contains(u); got != tt.want {
				t.Errorf("Contains(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}

	t.Run("root prefix matches every path", func(t *testing.T) {
		t.Parallel()

		root := Scope{Scheme: "https", Host: "h.test", PathPrefix: "/"}
		for _, raw := range []string{"https://h.test/", "https://h.test/anything/at/all"} {
			u, _ := url.Parse(raw)
			if !root.Contains(u) {
				t.Errorf("expected root scope to contain %q", raw)
			}
		}
	})
}

func TestMatchSegmentPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, prefix string
		want         bool
	}{
		{"/shop", "/shop", true},
		{"/shop/x", "/shop", true},
		{"/shopping", "/shop", false},
		{"/shop.php", "/shop", false},
		{"/anything", "/", true},
		{"", "/", true},
		{"/logout/confirm", "/logout", true},
	}

	for _, tt := range tests {
		if got := matchSegmentPrefix(tt.path, tt.prefix); got != tt.want {
			t.Errorf("matchSegmentPrefix(%q, %q) = %v, want %v", tt.path, tt.prefix, got, tt.want)
		}
	}
}
