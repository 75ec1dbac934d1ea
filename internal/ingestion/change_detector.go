package ingestion

import (
	"slices"
	"sync"
)

// ChangeDetector remembers, per source, the content identifiers seen on the
// previous attempt and counts how many of the current ones are new.
//
// Policies:
//   - the first observation of a source (or one following an empty baseline)
//     counts every identifier as new;
//   - every reported attempt replaces the baseline, including an empty one,
//     so a source that briefly returns nothing reports everything as new on
//     its next non-empty attempt;
//   - an attempt without reported identifiers yields an unknown count (nil)
//     and leaves the baseline untouched.
type ChangeDetector struct {
	mu   sync.Mutex
	last map[string][]string
}

func NewChangeDetector() *ChangeDetector {
	return &ChangeDetector{last: make(map[string][]string)}
}

func (d *ChangeDetector) Compute(sourceID string, currentIDs []string, reported bool) *int {
	if sourceID == "" || !reported {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	prev := d.last[sourceID]
	d.last[sourceID] = slices.Clone(currentIDs)

	changed := len(currentIDs)
	if len(prev) == 0 {
		return &changed
	}

	seen := make(map[string]struct{}, len(prev))
	for _, id := range prev {
		seen[id] = struct{}{}
	}
	changed = 0
	for _, id := range currentIDs {
		if _, ok := seen[id]; !ok {
			changed++
		}
	}
	return &changed
}

// Baseline returns a copy of the identifiers recorded for sourceID.
func (d *ChangeDetector) Baseline(sourceID string) ([]string, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	ids, ok := d.last[sourceID]
	return slices.Clone(ids), ok
}
