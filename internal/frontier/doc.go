// Package frontier implements the crawl-frontier engine: URL normalization,
// scope enforcement, forbidden-path filtering, query-agnostic deduplication,
// state-token recursion guarding, the visited set, and the bounded FIFO queue.
//
// # Architecture
//
// Every URL discovered during a crawl flows through the Gate, which runs the
// pipeline stages in a fixed order and returns one member of a closed set of
// decisions (Accepted, Duplicate, OutOfScope, Forbidden, RecursionTrap,
// Malformed). The Gate is the single authority for "should this URL ever be
// fetched"; the orchestrator in internal/crawl never makes that call itself.
//
// Design decision: We implement the frontier on net/url rather than a crawler
// framework because:
//  1. The dedup and scoping rules here are the product's actual invariants,
//     and they must be unit-testable in isolation
//  2. Frameworks own their visited set; we need canonicalization-time
//     insertion with per-key outcome records
//  3. Tight control over normalization is required for deterministic re-runs
//
// # Concurrency
//
// The frontier is single-writer by design. All types in this package are
// touched only by the orchestrator's control loop, so no locking is used.
// Race-freedom of the visited set depends on that ownership model.
package frontier
