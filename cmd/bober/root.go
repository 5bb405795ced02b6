// Package main provides the entry point for the bober CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for bober.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bober",
		Short: "Scoped crawler for JavaScript-heavy web applications",
		Long: `Bober maps the reachable attack surface of a web application during
authorized security testing. Pages are rendered in a headless browser so
JavaScript-built links are discovered, and all traffic is routed through an
intercepting proxy (Burp, ZAP, mitmproxy) to populate its site tree.

A strict scope, a forbidden-path list, and a recursion guard keep the crawl
inside the authorized boundary and away from state-changing endpoints.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging (per-URL dispositions)")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
