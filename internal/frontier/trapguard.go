package frontier

import (
	"net/url"
	"strconv"
	"strings"
)

// Defaults for the shape-based trap heuristics. They bound query values, not
// paths: path explosions are already stopped by scope and state tokens.
const (
	// DefaultMaxParamLen is the longest decoded query value accepted.
	// Legitimate parameters stay short; return-URL chains that re-embed
	// themselves on every hop grow past this within a few iterations.
	DefaultMaxParamLen = 200

	// DefaultMaxRepeatSegments is the occurrence count at which a repeated
	// segment inside one decoded query value marks the URL as a trap.
	DefaultMaxRepeatSegments = 3
)

// TrapGuard rejects URLs whose query values have the shape of a crawler trap,
// independent of any configured state tokens. It catches the self-reproducing
// redirect and return-URL patterns an operator did not anticipate: an
// oversized decoded value, a segment repeating inside one value, or the page's
// own path reflected into a query value.
type TrapGuard struct {
	maxParamLen       int
	maxRepeatSegments int
}

// NewTrapGuard builds a TrapGuard. Non-positive limits fall back to the
// package defaults.
func NewTrapGuard(maxParamLen, maxRepeatSegments int) *TrapGuard {
	if maxParamLen <= 0 {
		maxParamLen = DefaultMaxParamLen
	}
	if maxRepeatSegments <= 0 {
		maxRepeatSegments = DefaultMaxRepeatSegments
	}
	return &TrapGuard{
		maxParamLen:       maxParamLen,
		maxRepeatSegments: maxRepeatSegments,
	}
}

// Trapped reports whether any query value shows a trap signature and names
// the signature for log output. URLs without a query never trap.
//
// The raw query is split by hand for the same reason as the token guard:
// url.Values drops pairs containing a semicolon.
func (g *TrapGuard) Trapped(u *url.URL) (string, bool) {
	if u.RawQuery == "" {
		return "", false
	}

	pathClean := strings.Trim(u.Path, "/")

	for _, pair := range strings.Split(u.RawQuery, "&") {
		_, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		decoded := value
		if d, err := url.QueryUnescape(value); err == nil {
			decoded = d
		}

		if len(decoded) > g.maxParamLen {
			return "query value longer than " + strconv.Itoa(g.maxParamLen), true
		}

		counts := make(map[string]int)
		for _, seg := range strings.Split(decoded, "/") {
			if seg == "" {
				continue
			}
			counts[seg]++
			if counts[seg] >= g.maxRepeatSegments {
				return "segment " + strconv.Quote(seg) + " repeated in query value", true
			}
		}

		if pathClean != "" && strings.Contains(decoded, pathClean) {
			return "page path reflected in query value", true
		}
	}
	return "", false
}
