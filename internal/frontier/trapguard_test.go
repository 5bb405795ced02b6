package frontier

import (
	"strings"
	"testing"
)

func TestTrapGuardTrapped(t *testing.T) {
	t.Parallel()

	t.Run("no query never traps", func(t *testing.T) {
		t.Parallel()

		guard := NewTrapGuard(0, 0)
		u := mustParse(t, "https://h.test/a/a/a/a")
		if reason, ok := guard.Trapped(u); ok {
			t.Errorf("expected no trap without a query, got %q", reason)
		}
	})

	t.Run("oversized decoded value traps", func(t *testing.T) {
		t.Parallel()

		guard := NewTrapGuard(0, 0)

		long := strings.Repeat("x", DefaultMaxParamLen+1)
		u := mustParse(t, "https://h.test/page?next="+long)
		if _, ok := guard.Trapped(u); !ok {
			t.Error("expected an oversized value to trap")
		}

		u = mustParse(t, "https://h.test/page?next="+strings.Repeat("x", DefaultMaxParamLen))
		if _, ok := guard.Trapped(u); ok {
			t.Error("a value at the limit must pass")
		}
	})

	t.Run("repeated segment inside one value traps", func(t *testing.T) {
		t.Parallel()

		guard := NewTrapGuard(0, 0)

		u := mustParse(t, "https://h.test/page?ret=%2Fwp%2Fa%2Fwp%2Fb%2Fwp")
		if _, ok := guard.Trapped(u); !ok {
			t.Error("expected three occurrences of one segment to trap")
		}

		u = mustParse(t, "https://h.test/page?ret=%2Fwp%2Fa%2Fwp%2Fb")
		if _, ok := guard.Trapped(u); ok {
			t.Error("two occurrences must pass with the default limit")
		}
	})

	t.Run("page path reflected in a value traps", func(t *testing.T) {
		t.Parallel()

		guard := NewTrapGuard(0, 0)

		u := mustParse(t, "https://h.test/shop/item?next=%2Fshop%2Fitem")
		if _, ok := guard.Trapped(u); !ok {
			t.Error("expected the reflected path to trap")
		}

		u = mustParse(t, "https://h.test/shop/item?next=%2Fcart")
		if _, ok := guard.Trapped(u); ok {
			t.Error("an unrelated value must pass")
		}
	})

	t.Run("root path is never considered reflected", func(t *testing.T) {
		t.Parallel()

		guard := NewTrapGuard(0, 0)
		u := mustParse(t, "https://h.test/?next=%2Fanything")
		if _, ok := guard.Trapped(u); ok {
			t.Error("a root path must not match inside values")
		}
	})

	t.Run("keyless parameters are ignored", func(t *testing.T) {
		t.Parallel()

		guard := NewTrapGuard(8, 0)
		u := mustParse(t, "https://h.test/page?averylongbarevalue")
		if _, ok := guard.Trapped(u); ok {
			t.Error("a parameter without a value must not trap")
		}
	})

	t.Run("custom limits apply", func(t *testing.T) {
		t.Parallel()

		guard := NewTrapGuard(4, 2)

		u := mustParse(t, "https://h.test/page?v=12345")
		if _, ok := guard.Trapped(u); !ok {
			t.Error("expected the custom length limit to trap")
		}

		u = mustParse(t, "https://h.test/page?ret=a%2Fa")
		if _, ok := guard.Trapped(u); !ok {
			t.Error("expected the custom repeat limit to trap")
		}
	})

	t.Run("non-positive limits fall back to defaults", func(t *testing.T) {
		t.Parallel()

		guard := NewTrapGuard(-1, -1)
		if guard.maxParamLen != DefaultMaxParamLen || guard.maxRepeatSegments != DefaultMaxRepeatSegments {
			t.Errorf("unexpected limits: %d / %d", guard.maxParamLen, guard.maxRepeatSegments)
		}
	})
}
