// Package driver implements the browser-driver collaborator: it renders a
// target URL in headless Chrome and returns the final URL plus every URL-like
// string discovered in the page.
//
// The frontier engine consumes this package through the Driver interface and
// never depends on chromedp directly. The contract mirrors what the engine
// needs and nothing more: one navigation at a time, session-level identity
// configuration (proxy, cookie header, user agent, navigation timeout), and a
// hard distinction between a failed fetch (FetchError, non-fatal, the crawl
// continues) and an unusable browser process (FatalError, the crawl drains).
//
// Design decision: We render with a real browser rather than plain HTTP
// because:
//  1. The targets are JavaScript-heavy applications whose links only exist
//     after rendering
//  2. Traffic must flow through the intercepting proxy exactly as a user's
//     browser would produce it
//  3. chromedp drives Chrome over CDP without a WebDriver intermediary
package driver
