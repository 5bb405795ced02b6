package crawl

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"unicode"
)

// LoadSeeds reads a newline-delimited URL list. Seed files are typically
// pasted from other tools (proxy history exports, earlier sitemaps, scraped
// srcset attributes), so each line is comma-split and srcset width
// descriptors ("https://h.test/img.png 640w") are stripped before the URLs
// are returned. Blank lines and #-comments are skipped.
//
// The returned strings are raw: the caller runs each through the same
// admission pipeline as discovered links.
func LoadSeeds(path string) ([]string, error) {
	f, err := os.Open(path) //nolint:gosec // User-provided seed path is intentional
	if err != nil {
		return nil, fmt.Errorf("failed to open seed file: %w", err)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	var seeds []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, part := range strings.Split(line, ",") {
			seed := stripWidthDescriptor(strings.TrimSpace(part))
			if seed != "" {
				seeds = append(seeds, seed)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return seeds, nil
}

// stripWidthDescriptor removes a trailing srcset descriptor such as "640w"
// or "2x" when the candidate splits into "URL descriptor" form.
func stripWidthDescriptor(s string) string {
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return s
	}
	desc := fields[1]
	if len(desc) < 2 {
		return s
	}
	suffix := desc[len(desc)-1]
	if suffix != 'w' && suffix != 'x' {
		return s
	}
	for _, r := range desc[:len(desc)-1] {
		if !unicode.IsDigit(r) && r != '.' {
			return s
		}
	}
	return fields[0]
}
