package config

// SiteConfig holds per-host overrides for a single target. It lets one site
// file carry tuned filter lists for every application an engagement covers.
type SiteConfig struct {
	// Cookie is a raw Cookie header value for authenticated crawling of
	// this host. Format: "name=value" or "name1=value1; name2=value2".
	Cookie string `yaml:"cookie,omitempty"`

	// ForbiddenPaths replaces the global forbidden-path list for this host.
	ForbiddenPaths []string `yaml:"forbiddenPaths,omitempty"`

	// QueryAgnosticPaths replaces the global query-agnostic list.
	QueryAgnosticPaths []string `yaml:"queryAgnosticPaths,omitempty"`

	// StateTokens replaces the global watched-token list.
	StateTokens []string `yaml:"stateTokens,omitempty"`

	// MaxPages overrides the global page budget. Zero keeps the global
	// value.
	MaxPages int `yaml:"maxPages,omitempty"`

	// DelayMillis overrides the inter-fetch delay, in milliseconds. Zero
	// keeps the global value.
	DelayMillis int `yaml:"delayMillis,omitempty"`
}

// File represents the structure of the .bober site file.
type File struct {
	// Sites maps hostnames (including port, if non-default) to their
	// overrides.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults is applied to every host unless the site entry overrides the
	// field.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the effective configuration for a host, merging the
// site entry over the defaults field by field.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if site, ok := cf.Sites[host]; ok {
		if site.Cookie != "" {
			result.Cookie = site.Cookie
		}
		if len(site.ForbiddenPaths) > 0 {
			result.ForbiddenPaths = site.ForbiddenPaths
		}
		if len(site.QueryAgnosticPaths) > 0 {
			result.QueryAgnosticPaths = site.QueryAgnosticPaths
		}
		if len(site.StateTokens) > 0 {
			result.StateTokens = site.StateTokens
		}
		if site.MaxPages != 0 {
			result.MaxPages = site.MaxPages
		}
		if site.DelayMillis != 0 {
			result.DelayMillis = site.DelayMillis
		}
	}

	return result
}
