package frontier

import (
	"net/url"
	"time"
)

// Entry is a URL awaiting fetch.
type Entry struct {
	// URL is the normalized URL to fetch.
	URL *url.URL

	// Key is the canonical key reserved for this entry in the visited set.
	Key string

	// DiscoveredFrom is the page URL on which this entry was found. Empty for
	// the start URL and file-loaded seeds.
	DiscoveredFrom string

	// EnqueuedAt is when the entry entered the queue.
	EnqueuedAt time.Time
}

// Queue is the frontier: a FIFO queue of entries awaiting fetch. FIFO order
// gives reproducible, approximately breadth-first visitation across repeated
// runs with identical seeds and identical link-discovery order.
//
// The queue itself is unbounded; the page budget (maxPages) is enforced by
// the orchestrator against completed fetches, because URLs admitted to the
// visited set must still be recorded even when they can no longer be queued.
type Queue struct {
	entries []Entry
}

// NewQueue creates an empty frontier queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an entry to the tail of the queue.
func (q *Queue) Push(e Entry) {
	q.entries = append(q.entries, e)
}

// Pop removes and returns the entry at the head of the queue. The second
// return value is false when the queue is empty.
func (q *Queue) Pop() (Entry, bool) {
	if len(q.entries) == 0 {
		return Entry{}, false
	}
	e := q.entries[0]
	q.entries = q.entries[1:]
	return e, true
}

// Len returns the number of queued entries.
func (q *Queue) Len() int {
	return len(q.entries)
}
