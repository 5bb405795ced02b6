package frontier

import (
	"net/url"
	"sort"
	"strings"
)

// Canonicalizer derives the deduplication identity of a normalized URL.
//
// For paths matching the query-agnostic set, the entire query string is
// ignored: "/shop?a=1" and "/shop?b=2" share one key, which is what keeps a
// faceted-search endpoint from multiplying into unbounded crawl targets. For
// every other path, the decoded query parameters are part of the key, sorted
// so that parameter order can never split a single endpoint into two targets.
//
// Keys are a pure function of (URL, session config): identical inputs always
// produce identical keys regardless of discovery order.
type Canonicalizer struct {
	queryAgnostic *PrefixSet
}

// NewCanonicalizer builds a Canonicalizer over the given query-agnostic path
// set. A nil set is treated as empty.
func NewCanonicalizer(queryAgnostic *PrefixSet) *Canonicalizer {
	if queryAgnostic == nil {
		queryAgnostic = NewPrefixSet(nil)
	}
	return &Canonicalizer{queryAgnostic: queryAgnostic}
}

// Key computes the canonical key for a normalized URL. The URL itself is not
// modified; the original (query included) is still the one that gets fetched
// and written to the sitemap.
func (c *Canonicalizer) Key(u *url.URL) string {
	path := u.Path
	if path == "" {
		path = "/"
	}

	base := u.Scheme + "://" + u.Host + path

	if _, ok := c.queryAgnostic.MatchPath(path); ok {
		return base
	}
	if u.RawQuery == "" {
		return base
	}

	return base + "?" + sortedQuery(u.RawQuery)
}

// sortedQuery decodes the raw query into individual "key=value" parameters
// and joins them back in sorted order. Parameters that fail to decode are
// kept verbatim rather than dropped, so a hostile query string cannot force
// two distinct URLs onto one key.
func sortedQuery(rawQuery string) string {
	parts := strings.Split(rawQuery, "&")
	params := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		if decoded, err := url.QueryUnescape(part); err == nil {
			part = decoded
		}
		params = append(params, part)
	}
	sort.Strings(params)
	return strings.Join(params, "&")
}
