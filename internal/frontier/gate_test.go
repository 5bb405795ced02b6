package frontier

import (
	"net/url"
	"testing"
)

// newTestGate builds a gate over scope https://h.test/shop with /logout
// forbidden, /shop query-agnostic, and the embed token watched.
func newTestGate(t *testing.T) *Gate {
	t.Helper()

	scope, err := ParseScope("https://h.test/shop")
	if err != nil {
		t.Fatalf("failed to parse scope: %v", err)
	}
	return NewGate(
		scope,
		NewPrefixSet([]string{"/shop/logout"}),
		NewCanonicalizer(NewPrefixSet([]string{"/shop"})),
		NewTokenGuard([]string{"embed"}, 1),
		NewTrapGuard(0, 0),
		NewVisitedSet(),
	)
}

func TestGateAdmit(t *testing.T) {
	t.Parallel()

	base, _ := url.Parse("https://h.test/shop/")

	t.Run("accepts in-scope URL and reserves its key", func(t *testing.T) {
		t.Parallel()

		g := newTestGate(t)
		v := g.Admit("https://h.test/shop/item", nil)
		if v.Decision != DecisionAccepted {
			t.Fatalf("expected Accepted, got %v", v.Decision)
		}
		if !g.Visited().Seen(v.Key) {
			t.Error("accepted key must be reserved in the visited set")
		}
		if g.Visited().Get(v.Key).Outcome != OutcomeEnqueued {
			t.Error("reserved key must carry the Enqueued outcome")
		}
	})

	t.Run("malformed links record nothing", func(t *testing.T) {
		t.Parallel()

		g := newTestGate(t)
		v := g.Admit("javascript:void(0)", base)
		if v.Decision != DecisionMalformed {
			t.Fatalf("expected Malformed, got %v", v.Decision)
		}
		if g.Visited().Len() != 0 {
			t.Error("malformed links must not enter the visited set")
		}
	})

	t.Run("duplicate by canonical key", func(t *testing.T) {
		t.Parallel()

		g := newTestGate(t)
		if v := g.Admit("https://h.test/shop?a=1", nil); v.Decision != DecisionAccepted {
			t.Fatalf("expected first admit Accepted, got %v", v.Decision)
		}
		// Different query, same key under the query-agnostic /shop prefix.
		if v := g.Admit("https://h.test/shop?b=2", nil); v.Decision != DecisionDuplicate {
			t.Errorf("expected Duplicate, got %v", v.Decision)
		}
	})

	t.Run("out of scope is recorded and not retried", func(t *testing.T) {
		t.Parallel()

		g := newTestGate(t)
		v := g.Admit("https://h.test/blog", base)
		if v.Decision != DecisionOutOfScope {
			t.Fatalf("expected OutOfScope, got %v", v.Decision)
		}
		if g.Visited().Get(v.Key).Outcome != OutcomeOutOfScopeSkipped {
			t.Error("expected OutOfScopeSkipped record")
		}
		if v := g.Admit("https://h.test/blog", base); v.Decision != DecisionDuplicate {
			t.Errorf("rediscovery must be Duplicate, got %v", v.Decision)
		}
	})

	t.Run("forbidden path is recorded and never fetched", func(t *testing.T) {
		t.Parallel()

		g := newTestGate(t)
		v := g.Admit("/shop/logout", base)
		if v.Decision != DecisionForbidden {
			t.Fatalf("expected Forbidden, got %v", v.Decision)
		}
		if v.Reason != "/shop/logout" {
			t.Errorf("expected matched prefix in reason, got %q", v.Reason)
		}
		if g.Visited().Get(v.Key).Outcome != OutcomeForbiddenSkipped {
			t.Error("expected ForbiddenSkipped record")
		}
	})

	t.Run("recursion trap is recorded", func(t *testing.T) {
		t.Parallel()

		g := newTestGate(t)
		v := g.Admit("https://h.test/shop/embed/embed", nil)
		if v.Decision != DecisionRecursionTrap {
			t.Fatalf("expected RecursionTrap, got %v", v.Decision)
		}
		if v.Reason != "embed" {
			t.Errorf("expected offending token in reason, got %q", v.Reason)
		}
		if g.Visited().Get(v.Key).Outcome != OutcomeRecursionTrapSkipped {
			t.Error("expected RecursionTrapSkipped record")
		}
	})

	t.Run("shape-based trap is recorded without configured tokens", func(t *testing.T) {
		t.Parallel()

		g := newTestGate(t)
		v := g.Admit("https://h.test/shop/item?next=%2Fshop%2Fitem", nil)
		if v.Decision != DecisionRecursionTrap {
			t.Fatalf("expected RecursionTrap, got %v", v.Decision)
		}
		if g.Visited().Get(v.Key).Outcome != OutcomeRecursionTrapSkipped {
			t.Error("expected RecursionTrapSkipped record")
		}
	})

	t.Run("relative links resolve against the page", func(t *testing.T) {
		t.Parallel()

		g := newTestGate(t)
		v := g.Admit("cart", base)
		if v.Decision != DecisionAccepted {
			t.Fatalf("expected Accepted, got %v", v.Decision)
		}
		if v.URL.String() != "https://h.test/shop/cart" {
			t.Errorf("unexpected resolution: %q", v.URL.String())
		}
	})

	t.Run("forbid-everything prefix rejects all candidates", func(t *testing.T) {
		t.Parallel()

		scope, _ := ParseScope("https://h.test/")
		g := NewGate(
			scope,
			NewPrefixSet([]string{"/"}),
			NewCanonicalizer(NewPrefixSet(nil)),
			NewTokenGuard(nil, 0),
			NewTrapGuard(0, 0),
			NewVisitedSet(),
		)

		for _, raw := range []string{"https://h.test/", "https://h.test/a", "https://h.test/b/c?x=1"} {
			if v := g.Admit(raw, nil); v.Decision != DecisionForbidden {
				t.Errorf("expected Forbidden for %q, got %v", raw, v.Decision)
			}
		}
	})
}

func TestGateForbidden(t *testing.T) {
	t.Parallel()

	g := newTestGate(t)
	if !g.Forbidden(mustParse(t, "https://h.test/shop/logout/now")) {
		t.Error("expected forbidden redirect target to be detected")
	}
	if g.Forbidden(mustParse(t, "https://h.test/shop/item")) {
		t.Error("unexpected forbidden result")
	}
}

func TestDecisionString(t *testing.T) {
	t.Parallel()

	want := map[Decision]string{
		DecisionAccepted:      "Accepted",
		DecisionMalformed:     "MalformedURL",
		DecisionDuplicate:     "Duplicate",
		DecisionOutOfScope:    "OutOfScopeSkipped",
		DecisionForbidden:     "ForbiddenSkipped",
		DecisionRecursionTrap: "RecursionTrapSkipped",
		Decision(42):          "Unknown",
	}
	for d, name := range want {
		if got := d.String(); got != name {
			t.Errorf("Decision(%d).String() = %q, want %q", d, got, name)
		}
	}
}
