// Package main provides the entry point for the bober CLI.
//
// Bober is a scoped crawler for JavaScript-heavy web applications. It renders
// pages in a headless browser, routes all traffic through an intercepting
// proxy, and maps the reachable attack surface of a target while a strict
// scope and forbidden-path configuration keeps it inside the authorized
// boundary.
//
// Usage:
//
//	bober crawl https://shop.example/
//	bober crawl --scope https://shop.example/app https://shop.example/app
//
// See --help for all available options.
package main

// main is the entry point for bober.
func main() {
	Execute()
}
