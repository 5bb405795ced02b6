// Package database provides SQLite-based persistence for crawl history.
//
// Each crawl run becomes a sessions row; each canonical key the run
// considered becomes a visits row with its final disposition. History makes
// repeat engagements diffable: the attack surface a target exposed on a
// previous run can be compared against the current one with plain SQL.
package database
