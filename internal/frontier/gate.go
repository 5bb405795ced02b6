package frontier

import "net/url"

// Decision is the closed set of outcomes the admission pipeline can produce
// for a discovered URL.
type Decision int

const (
	// DecisionAccepted means the URL passed every stage and its canonical key
	// was reserved in the visited set; the caller should enqueue it.
	DecisionAccepted Decision = iota

	// DecisionMalformed means the string could not be normalized to an
	// absolute http(s) URL. Nothing is recorded; the link is dropped.
	DecisionMalformed

	// DecisionDuplicate means the canonical key was already in the visited
	// set. Nothing new is recorded.
	DecisionDuplicate

	// DecisionOutOfScope means the URL is outside the session scope.
	DecisionOutOfScope

	// DecisionForbidden means the path matched a forbidden prefix.
	DecisionForbidden

	// DecisionRecursionTrap means a state token exceeded its repeat limit.
	DecisionRecursionTrap
)

// String returns the disposition name used in log output.
func (d Decision) String() string {
	switch d {
	case DecisionAccepted:
		return "Accepted"
	case DecisionMalformed:
		return "MalformedURL"
	case DecisionDuplicate:
		return "Duplicate"
	case DecisionOutOfScope:
		return "OutOfScopeSkipped"
	case DecisionForbidden:
		return "ForbiddenSkipped"
	case DecisionRecursionTrap:
		return "RecursionTrapSkipped"
	default:
		return "Unknown"
	}
}

// Verdict is the result of running one URL through the admission pipeline.
type Verdict struct {
	// Decision is the pipeline outcome.
	Decision Decision

	// URL is the normalized URL. Nil when Decision is DecisionMalformed.
	URL *url.URL

	// Key is the canonical key. Empty when Decision is DecisionMalformed.
	Key string

	// Reason names the matched prefix or token for skip decisions, for logs.
	Reason string
}

// Gate runs discovered URLs through the full admission pipeline: normalize,
// canonicalize, dedup, scope check, forbidden-path check, state-token check,
// shape-based trap check.
// It owns the only write path into the visited set, so a URL that reaches
// DecisionAccepted is guaranteed to be fetched at most once per session.
//
// Rejections are not errors; they are expected outcomes of normal operation
// and are recorded in the visited set so the same key is never reconsidered.
type Gate struct {
	scope     Scope
	forbidden *PrefixSet
	canon     *Canonicalizer
	guard     *TokenGuard
	traps     *TrapGuard
	visited   *VisitedSet
}

// NewGate assembles the admission pipeline. All collaborators are required;
// visited is shared with the orchestrator, which finalizes reserved keys
// after each fetch attempt.
func NewGate(scope Scope, forbidden *PrefixSet, canon *Canonicalizer, guard *TokenGuard, traps *TrapGuard, visited *VisitedSet) *Gate {
	return &Gate{
		scope:     scope,
		forbidden: forbidden,
		canon:     canon,
		guard:     guard,
		traps:     traps,
		visited:   visited,
	}
}

// Admit evaluates one discovered string against the session configuration.
// base is the page the link was found on (nil for start and seed URLs).
//
// Dedup happens before the cheaper scope and filter checks because the
// visited set is the single authority for "already considered": a key
// rejected as out-of-scope yesterday must come back Duplicate today, not
// OutOfScope again, so each key is logged with exactly one disposition.
func (g *Gate) Admit(raw string, base *url.URL) Verdict {
	u, err := Normalize(raw, base)
	if err != nil {
		return Verdict{Decision: DecisionMalformed}
	}

	key := g.canon.Key(u)
	if g.visited.Seen(key) {
		return Verdict{Decision: DecisionDuplicate, URL: u, Key: key}
	}

	if !g.scope.Contains(u) {
		g.visited.Add(key, u.String(), OutcomeOutOfScopeSkipped)
		return Verdict{Decision: DecisionOutOfScope, URL: u, Key: key, Reason: g.scope.String()}
	}

	if prefix, ok := g.forbidden.Match(u); ok {
		g.visited.Add(key, u.String(), OutcomeForbiddenSkipped)
		return Verdict{Decision: DecisionForbidden, URL: u, Key: key, Reason: prefix}
	}

	if token, ok := g.guard.Exceeds(u); ok {
		g.visited.Add(key, u.String(), OutcomeRecursionTrapSkipped)
		return Verdict{Decision: DecisionRecursionTrap, URL: u, Key: key, Reason: token}
	}

	if reason, ok := g.traps.Trapped(u); ok {
		g.visited.Add(key, u.String(), OutcomeRecursionTrapSkipped)
		return Verdict{Decision: DecisionRecursionTrap, URL: u, Key: key, Reason: reason}
	}

	g.visited.Add(key, u.String(), OutcomeEnqueued)
	return Verdict{Decision: DecisionAccepted, URL: u, Key: key}
}

// Forbidden reports whether a normalized URL's path matches a forbidden
// prefix. The orchestrator uses this to keep redirect targets (finalUrl after
// navigation) out of the sitemap even though the original URL passed the
// gate.
func (g *Gate) Forbidden(u *url.URL) bool {
	_, ok := g.forbidden.Match(u)
	return ok
}

// Visited exposes the shared visited set for outcome finalization and
// reporting.
func (g *Gate) Visited() *VisitedSet {
	return g.visited
}
