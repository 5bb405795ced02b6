// Package config defines the crawl configuration, its defaults, and startup
// validation. It also loads the optional .bober YAML site file that carries
// per-host overrides such as cookies and tuned filter lists.
package config
