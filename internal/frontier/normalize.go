package frontier

import (
	"errors"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned when a discovered string cannot be resolved to
// an absolute http(s) URL. Malformed links are dropped silently from the
// pipeline; they are never surfaced as fetch errors.
var ErrMalformedURL = errors.New("malformed URL")

// skippedSchemes are link schemes that can never become crawl targets.
// They are common in href attributes and are rejected before parsing.
var skippedSchemes = []string{"javascript:", "mailto:", "tel:", "data:"}

// Normalize resolves a raw discovered string against base and returns it in
// canonical form: lower-cased scheme and host, default port removed, fragment
// removed, dot segments and duplicate slashes collapsed, empty path rewritten
// to "/". base may be nil for absolute inputs such as the start URL.
//
// The returned URL always has scheme http or https; anything else fails with
// ErrMalformedURL.
func Normalize(raw string, base *url.URL) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMalformedURL
	}

	lower := strings.ToLower(raw)
	for _, scheme := range skippedSchemes {
		if strings.HasPrefix(lower, scheme) {
			return nil, ErrMalformedURL
		}
	}

	// Repair the common "https:/host" single-slash mistake seen in
	// hand-written markup before parsing mangles it into a path.
	raw = repairSingleSlash(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return nil, ErrMalformedURL
	}
	if base != nil {
		u = base.ResolveReference(u)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, ErrMalformedURL
	}

	u.Host = strings.ToLower(u.Host)
	if u.Hostname() == "" {
		return nil, ErrMalformedURL
	}
	u.Host = stripDefaultPort(u.Scheme, u.Host)

	u.Fragment = ""
	u.RawFragment = ""
	u.Path = cleanPath(u.Path)
	u.RawPath = ""

	return u, nil
}

// repairSingleSlash rewrites "http:/x" and "https:/x" (single slash after the
// colon) into the intended double-slash form. Only the first occurrence is
// repaired; a correct "://" is left untouched.
func repairSingleSlash(raw string) string {
	for _, scheme := range []string{"http:/", "https:/"} {
		if strings.HasPrefix(raw, scheme) && !strings.HasPrefix(raw, scheme+"/") {
			return scheme + "/" + raw[len(scheme):]
		}
	}
	return raw
}

// stripDefaultPort removes ":80" from http hosts and ":443" from https hosts.
func stripDefaultPort(scheme, host string) string {
	switch {
	case scheme == "http" && strings.HasSuffix(host, ":80"):
		return strings.TrimSuffix(host, ":80")
	case scheme == "https" && strings.HasSuffix(host, ":443"):
		return strings.TrimSuffix(host, ":443")
	}
	return host
}

// cleanPath collapses duplicate slashes and resolves "." and ".." segments.
// Unlike path.Clean it preserves a trailing slash, which is significant for
// crawl targets ("/feed/" and "/feed" are distinct server resources).
func cleanPath(p string) string {
	if p == "" {
		return "/"
	}

	trailing := strings.HasSuffix(p, "/")
	segments := make([]string, 0, strings.Count(p, "/"))
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			// Duplicate slash or current-dir segment: drop.
		case "..":
			if len(segments) > 0 {
				segments = segments[:len(segments)-1]
			}
		default:
			segments = append(segments, seg)
		}
	}

	cleaned := "/" + strings.Join(segments, "/")
	if trailing && cleaned != "/" {
		cleaned += "/"
	}
	return cleaned
}
