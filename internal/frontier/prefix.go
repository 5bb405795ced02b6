package frontier

import (
	"net/url"
	"strings"
)

// PrefixSet is an ordered set of normalized path prefixes, matched with
// segment-boundary semantics. It backs both the forbidden-path filter and the
// query-agnostic path set.
//
// Normalization on construction: a leading slash is enforced, trailing
// slashes are stripped, empty entries are dropped, and duplicates are kept
// out. The entry "/" means "match everything".
type PrefixSet struct {
	prefixes []string
}

// NewPrefixSet builds a PrefixSet from raw entries, typically the elements of
// a comma-separated CLI flag. Longer prefixes are checked first so that log
// output names the most specific match; the boolean result is unaffected.
func NewPrefixSet(entries []string) *PrefixSet {
	seen := make(map[string]bool, len(entries))
	prefixes := make([]string, 0, len(entries))

	for _, entry := range entries {
		p := strings.TrimSpace(entry)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		if p != "/" {
			p = strings.TrimRight(p, "/")
		}
		if !seen[p] {
			seen[p] = true
			prefixes = append(prefixes, p)
		}
	}

	// Longest-first keeps Match deterministic about which prefix it reports.
	for i := 1; i < len(prefixes); i++ {
		for j := i; j > 0 && len(prefixes[j]) > len(prefixes[j-1]); j-- {
			prefixes[j], prefixes[j-1] = prefixes[j-1], prefixes[j]
		}
	}

	return &PrefixSet{prefixes: prefixes}
}

// Match reports whether the URL path falls under any prefix in the set and
// returns the matching prefix.
func (ps *PrefixSet) Match(u *url.URL) (string, bool) {
	return ps.MatchPath(u.Path)
}

// MatchPath is Match for a bare path string.
func (ps *PrefixSet) MatchPath(path string) (string, bool) {
	if path == "" {
		path = "/"
	}
	for _, prefix := range ps.prefixes {
		if matchSegmentPrefix(path, prefix) {
			return prefix, true
		}
	}
	return "", false
}

// Empty reports whether the set has no entries.
func (ps *PrefixSet) Empty() bool {
	return len(ps.prefixes) == 0
}

// Prefixes returns the normalized entries, longest first.
func (ps *PrefixSet) Prefixes() []string {
	out := make([]string, len(ps.prefixes))
	copy(out, ps.prefixes)
	return out
}
