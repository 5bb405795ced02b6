package frontier

import "time"

// Outcome is the final disposition of a canonical key in the visited set.
type Outcome int

const (
	// OutcomeEnqueued marks a key reserved at canonicalization time, before
	// its fetch attempt. It is the only non-terminal outcome and is always
	// finalized to Fetched or FetchFailed (or a skip, if the page budget ran
	// out while the entry waited in the queue).
	OutcomeEnqueued Outcome = iota

	// OutcomeFetched means the fetch attempt completed.
	OutcomeFetched

	// OutcomeFetchFailed means the fetch attempt failed (timeout, navigation
	// failure). Non-fatal; the URL still appears in the sitemap.
	OutcomeFetchFailed

	// OutcomeForbiddenSkipped means the path matched a forbidden prefix. The
	// URL was never fetched and never appears in the sitemap.
	OutcomeForbiddenSkipped

	// OutcomeRecursionTrapSkipped means a state token exceeded its repeat
	// threshold.
	OutcomeRecursionTrapSkipped

	// OutcomeOutOfScopeSkipped means the URL fell outside the session scope,
	// or was accepted after the page budget was already exhausted.
	OutcomeOutOfScopeSkipped
)

// String returns the outcome name used in logs, reports, and the database.
func (o Outcome) String() string {
	switch o {
	case OutcomeEnqueued:
		return "Enqueued"
	case OutcomeFetched:
		return "Fetched"
	case OutcomeFetchFailed:
		return "FetchFailed"
	case OutcomeForbiddenSkipped:
		return "ForbiddenSkipped"
	case OutcomeRecursionTrapSkipped:
		return "RecursionTrapSkipped"
	case OutcomeOutOfScopeSkipped:
		return "OutOfScopeSkipped"
	default:
		return "Unknown"
	}
}

// Record is the visited-set entry for one canonical key.
type Record struct {
	// Key is the canonical key this record belongs to.
	Key string

	// URL is the first normalized URL that produced the key.
	URL string

	// Outcome is the key's current disposition.
	Outcome Outcome

	// Timestamp is when the key was first recorded.
	Timestamp time.Time
}

// VisitedSet maps canonical keys to their records. It is the single gate for
// enqueueing: a key that is present is never reconsidered, which makes
// membership monotonic for the lifetime of a session.
//
// Insertion order is preserved so that re-runs with identical discovery order
// report records identically.
type VisitedSet struct {
	records map[string]*Record
	order   []string
}

// NewVisitedSet creates an empty visited set.
func NewVisitedSet() *VisitedSet {
	return &VisitedSet{records: make(map[string]*Record)}
}

// Seen reports whether a canonical key has already been recorded.
func (v *VisitedSet) Seen(key string) bool {
	_, ok := v.records[key]
	return ok
}

// Add records a key with its initial outcome. It returns false without
// modifying anything if the key is already present: existing records are
// never replaced or removed.
func (v *VisitedSet) Add(key, rawURL string, outcome Outcome) bool {
	if v.Seen(key) {
		return false
	}
	v.records[key] = &Record{
		Key:       key,
		URL:       rawURL,
		Outcome:   outcome,
		Timestamp: time.Now(),
	}
	v.order = append(v.order, key)
	return true
}

// Finalize moves a reserved (Enqueued) key to its terminal outcome. Keys that
// are absent or already terminal are left untouched; a canonical key maps to
// exactly one record and its terminal outcome is written once.
func (v *VisitedSet) Finalize(key string, outcome Outcome) {
	rec, ok := v.records[key]
	if !ok || rec.Outcome != OutcomeEnqueued {
		return
	}
	rec.Outcome = outcome
}

// Get returns the record for a key, or nil.
func (v *VisitedSet) Get(key string) *Record {
	return v.records[key]
}

// Len returns the number of recorded keys.
func (v *VisitedSet) Len() int {
	return len(v.records)
}

// Count returns the number of keys with the given outcome.
func (v *VisitedSet) Count(outcome Outcome) int {
	n := 0
	for _, rec := range v.records {
		if rec.Outcome == outcome {
			n++
		}
	}
	return n
}

// Records returns all records in insertion order.
func (v *VisitedSet) Records() []Record {
	out := make([]Record, 0, len(v.order))
	for _, key := range v.order {
		out = append(out, *v.records[key])
	}
	return out
}
