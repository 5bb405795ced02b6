package frontier

import (
	"errors"
	"net/url"
	"strings"
)

// ErrInvalidScope is returned when a scope specification cannot be parsed
// into a scheme, host, and path prefix.
var ErrInvalidScope = errors.New("invalid scope: expected scheme://host[/path]")

// Scope is the crawl boundary: scheme, host, and a path prefix. It is
// immutable for the lifetime of a session.
//
// Scheme and host must match exactly. https and http are distinct scopes (no
// implicit upgrade), and subdomains are different hosts; both rules exist to
// keep an authorized test from wandering into untested infrastructure.
type Scope struct {
	// Scheme is "http" or "https", lower-cased.
	Scheme string

	// Host is the exact host (with port if non-default), lower-cased.
	Host string

	// PathPrefix is the path boundary, segment-matched. "/" admits every path.
	PathPrefix string
}

// ParseScope builds a Scope from a URL-shaped string such as
// "https://shop.example.test/catalog". The path defaults to "/" and loses any
// trailing slash so that "/catalog" and "/catalog/" describe the same scope.
func ParseScope(raw string) (Scope, error) {
	u, err := Normalize(raw, nil)
	if err != nil {
		return Scope{}, ErrInvalidScope
	}

	prefix := u.Path
	if prefix != "/" {
		prefix = strings.TrimRight(prefix, "/")
	}

	return Scope{
		Scheme:     u.Scheme,
		Host:       u.Host,
		PathPrefix: prefix,
	}, nil
}

// Contains reports whether a normalized URL is inside the scope.
func (s Scope) Contains(u *url.URL) bool {
	if !strings.EqualFold(u.Scheme, s.Scheme) {
		return false
	}
	if !strings.EqualFold(u.Host, s.Host) {
		return false
	}
	return matchSegmentPrefix(u.Path, s.PathPrefix)
}

// String renders the scope back into URL form for logs and reports.
func (s Scope) String() string {
	return s.Scheme + "://" + s.Host + s.PathPrefix
}

// matchSegmentPrefix reports whether path lies under prefix with strict
// segment-boundary semantics: the path equals the prefix, or starts with it
// followed immediately by "/". A prefix of "/shop" matches "/shop" and
// "/shop/x" but never "/shopping". A prefix of "/" matches every path.
//
// This single helper is shared by scope, forbidden, and query-agnostic
// matching so the three boundary rules can never diverge.
func matchSegmentPrefix(path, prefix string) bool {
	if prefix == "/" {
		return true
	}
	if path == "" {
		path = "/"
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
