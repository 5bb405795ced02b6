// Package crawl implements the crawl orchestrator: the sequential loop that
// seeds the frontier, dequeues one URL at a time, delegates fetching to the
// browser driver, records the sitemap, and runs every discovered link through
// the admission gate.
//
// A Session owns all mutable crawl state and moves through a strict
// lifecycle (Idle, Running, Draining, Terminated). Inside one session there
// is no concurrency at all; determinism of visitation order is a feature the
// package preserves deliberately, since it makes crawl results reproducible
// and diffable across runs. Batch runs several sessions concurrently, one
// per target, without breaking the per-session guarantee.
package crawl
