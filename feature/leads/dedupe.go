package leads

import "sync"

// Tracker is a per-batch running set of seen dedupe keys. It is owned by one
// reconciliation run and supports atomic check-and-insert so that a
// bounded-parallel run still lets at most one record per identity through.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// CheckAndAdd reports whether the key has been seen before, and records it.
// The check and the insert are a single atomic step.
func (t *Tracker) CheckAndAdd(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.seen[key]; ok {
		return true
	}
	t.seen[key] = struct{}{}
	return false
}

// Len returns the number of distinct keys recorded so far.
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.seen)
}

// DetectDuplicates maps each dedupe key that occurs more than once to the
// positions (0-based) of the records sharing it. It is pure: it inspects only
// its input and carries no state between invocations.
func DetectDuplicates(batch []Lead) map[string][]int {
	positions := make(map[string][]int)
	for i, l := range batch {
		key := l.DedupeKey()
		positions[key] = append(positions[key], i)
	}

	duplicates := make(map[string][]int)
	for key, idx := range positions {
		if len(idx) >= 2 {
			duplicates[key] = idx
		}
	}
	return duplicates
}
