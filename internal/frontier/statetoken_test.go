package frontier

import (
	"testing"
)

func TestTokenGuardExceeds(t *testing.T) {
	t.Parallel()

	t.Run("second occurrence in path triggers with maxRepeat 1", func(t *testing.T) {
		t.Parallel()

		guard := NewTokenGuard([]string{"embed"}, 1)

		u := mustParse(t, "https://h.test/embed/embed")
		if token, ok := guard.Exceeds(u); !ok || token != "embed" {
			t.Errorf("expected /embed/embed to exceed, got (%q, %v)", token, ok)
		}

		u = mustParse(t, "https://h.test/embed/other")
		if _, ok := guard.Exceeds(u); ok {
			t.Error("expected /embed/other to be accepted")
		}
	})

	t.Run("counts across path and query combined", func(t *testing.T) {
		t.Parallel()

		guard := NewTokenGuard([]string{"feed"}, 1)

		u := mustParse(t, "https://h.test/feed?next=feed")
		if _, ok := guard.Exceeds(u); !ok {
			t.Error("expected path+query occurrences to combine")
		}
	})

	t.Run("splits decoded query values on slash and semicolon", func(t *testing.T) {
		t.Parallel()

		guard := NewTokenGuard([]string{"embed"}, 1)

		u := mustParse(t, "https://h.test/page?next=%2Fembed%2Fembed")
		if _, ok := guard.Exceeds(u); !ok {
			t.Error("expected encoded sub-path occurrences to count")
		}

		u = mustParse(t, "https://h.test/page?opts=embed;embed")
		if _, ok := guard.Exceeds(u); !ok {
			t.Error("expected semicolon-separated occurrences to count")
		}

		u = mustParse(t, "https://h.test/page?a=1&opts=embed;embed&b=2")
		if _, ok := guard.Exceeds(u); !ok {
			t.Error("expected semicolon values inside ampersand pairs to count")
		}
	})

	t.Run("bare query parameters without values are ignored", func(t *testing.T) {
		t.Parallel()

		guard := NewTokenGuard([]string{"embed"}, 1)

		u := mustParse(t, "https://h.test/page?embed&next=embed")
		if _, ok := guard.Exceeds(u); ok {
			t.Error("a keyless parameter must not count as a value")
		}
	})

	t.Run("matching is case-sensitive and exact", func(t *testing.T) {
		t.Parallel()

		guard := NewTokenGuard([]string{"embed"}, 1)

		u := mustParse(t, "https://h.test/Embed/EMBED")
		if _, ok := guard.Exceeds(u); ok {
			t.Error("case variants must not count")
		}

		u = mustParse(t, "https://h.test/embedded/embeds")
		if _, ok := guard.Exceeds(u); ok {
			t.Error("substring hits must not count")
		}
	})

	t.Run("maxRepeat zero rejects first occurrence", func(t *testing.T) {
		t.Parallel()

		guard := NewTokenGuard([]string{"rss2"}, 0)
		u := mustParse(t, "https://h.test/rss2")
		if _, ok := guard.Exceeds(u); !ok {
			t.Error("expected a single occurrence to exceed maxRepeat 0")
		}
	})

	t.Run("no tokens never rejects", func(t *testing.T) {
		t.Parallel()

		guard := NewTokenGuard(nil, 0)
		u := mustParse(t, "https://h.test/embed/embed/embed")
		if _, ok := guard.Exceeds(u); ok {
			t.Error("guard with no tokens must accept everything")
		}
	})

	t.Run("blank tokens are dropped", func(t *testing.T) {
		t.Parallel()

		guard := NewTokenGuard([]string{"  ", ""}, 0)
		u := mustParse(t, "https://h.test/a/b")
		if _, ok := guard.Exceeds(u); ok {
			t.Error("blank tokens must not match")
		}
	})
}
