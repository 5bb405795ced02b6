package driver

import (
	stdhtml "html"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Attributes whose values are treated as link candidates wherever they occur.
var linkAttrs = map[string]bool{
	"href":     true,
	"src":      true,
	"data-src": true,
	"action":   true,
	"poster":   true,
}

// CSS and plain-text extraction patterns, taken from how the original
// crawler swept stylesheets and page text for URL-like strings.
var (
	cssURLPattern    = regexp.MustCompile(`(?i)url\(\s*["']?([^"')]+)["']?\s*\)`)
	cssImportPattern = regexp.MustCompile(`(?i)@import\s+["']([^"']+)["']`)
	plainURLPattern  = regexp.MustCompile(`https?://[^\s"'<>\\]+`)
)

// maxPlainURLLen guards against pathological unbroken strings in page text.
const maxPlainURLLen = 2000

// ExtractLinks returns every URL-like string found in rendered HTML:
// hyperlink/resource attributes, responsive-image srcset lists, CSS url()
// references and @import rules (inline styles and style elements), and
// plain-text URLs in page content.
//
// Results are deduplicated in first-seen order and returned raw: no
// resolution against the page URL and no scope filtering happens here. The
// frontier gate owns admission, and extraction order must be deterministic
// so that re-runs discover links identically.
func ExtractLinks(rawHTML string) []string {
	seen := make(map[string]bool)
	links := make([]string, 0, 64)

	add := func(candidate string) {
		candidate = strings.TrimSpace(stdhtml.UnescapeString(candidate))
		if candidate == "" || seen[candidate] {
			return
		}
		seen[candidate] = true
		links = append(links, candidate)
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err == nil {
		walkNodes(doc, add)
	}

	// CSS references survive in the raw markup whether they came from style
	// attributes, style elements, or inlined stylesheets.
	for _, m := range cssURLPattern.FindAllStringSubmatch(rawHTML, -1) {
		if !strings.HasPrefix(m[1], "data:") {
			add(m[1])
		}
	}
	for _, m := range cssImportPattern.FindAllStringSubmatch(rawHTML, -1) {
		add(m[1])
	}

	// Plain-text URLs: catches endpoints mentioned in JSON blobs, inline
	// scripts, and visible text that no attribute walk would find.
	for _, m := range plainURLPattern.FindAllString(rawHTML, -1) {
		if len(m) <= maxPlainURLLen {
			add(m)
		}
	}

	return links
}

// walkNodes walks the DOM collecting candidate attributes.
func walkNodes(n *html.Node, add func(string)) {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			switch {
			case linkAttrs[attr.Key]:
				add(attr.Val)
			case attr.Key == "srcset":
				for _, candidate := range splitSrcset(attr.Val) {
					add(candidate)
				}
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkNodes(c, add)
	}
}

// splitSrcset parses a srcset list ("a.jpg 1x, b.jpg 640w") into its URLs,
// dropping the width/density descriptors.
func splitSrcset(srcset string) []string {
	parts := strings.Split(srcset, ",")
	urls := make([]string, 0, len(parts))
	for _, part := range parts {
		fields := strings.Fields(part)
		if len(fields) > 0 {
			urls = append(urls, fields[0])
		}
	}
	return urls
}
