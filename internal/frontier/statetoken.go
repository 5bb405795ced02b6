package frontier

import (
	"net/url"
	"strings"
)

// TokenGuard rejects URLs whose path or query repeats a watched state token
// beyond a configured threshold. This is the recursion guard for
// self-reproducing URL structures: a WordPress feed that embeds a link to
// another feed that embeds itself produces "/embed/embed/embed/..." chains
// that would otherwise grow without bound.
//
// Counting is case-sensitive and exact: a token must equal a whole path
// segment or a whole query-value part to count. Substring hits ("embedded")
// do not.
type TokenGuard struct {
	tokens    []string
	maxRepeat int
}

// NewTokenGuard builds a TokenGuard. maxRepeat is the number of occurrences a
// token may reach before the next one triggers rejection: with maxRepeat 1 a
// token may appear once, and a second occurrence anywhere in the URL rejects.
// Empty and whitespace-only tokens are dropped.
func NewTokenGuard(tokens []string, maxRepeat int) *TokenGuard {
	kept := make([]string, 0, len(tokens))
	for _, t := range tokens {
		t = strings.TrimSpace(t)
		if t != "" {
			kept = append(kept, t)
		}
	}
	return &TokenGuard{tokens: kept, maxRepeat: maxRepeat}
}

// Exceeds reports whether any watched token occurs strictly more than
// maxRepeat times across the URL's path segments and query values combined,
// and returns the offending token.
func (g *TokenGuard) Exceeds(u *url.URL) (string, bool) {
	if len(g.tokens) == 0 {
		return "", false
	}

	parts := pathSegments(u.Path)
	parts = append(parts, queryValueParts(u.RawQuery)...)

	for _, token := range g.tokens {
		count := 0
		for _, part := range parts {
			if part == token {
				count++
				if count > g.maxRepeat {
					return token, true
				}
			}
		}
	}
	return "", false
}

// pathSegments splits a path into its non-empty segments.
func pathSegments(path string) []string {
	segments := make([]string, 0, strings.Count(path, "/"))
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return segments
}

// queryValueParts flattens raw query values into countable parts. The raw
// query is split by hand because url.Values drops any pair containing a
// semicolon, and legacy semicolon-separated values are exactly where trap
// tokens hide. Decoded values are split on "/" and ";" so that a token buried
// inside an encoded sub-path (?next=%2Fembed%2Fembed) is still counted per
// occurrence.
func queryValueParts(rawQuery string) []string {
	parts := make([]string, 0, 8)
	for _, pair := range strings.Split(rawQuery, "&") {
		_, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		if decoded, err := url.QueryUnescape(value); err == nil {
			value = decoded
		}
		for _, part := range strings.FieldsFunc(value, func(r rune) bool {
			return r == '/' || r == ';'
		}) {
			if part != "" {
				parts = append(parts, part)
			}
		}
	}
	return parts
}
