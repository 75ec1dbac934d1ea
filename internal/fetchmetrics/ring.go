package fetchmetrics

import (
	"sync"
	"trd/internal/models"
)

// Ring is a fixed-capacity in-memory buffer of fetch metric records. When
// full, appending evicts the oldest record. Every operation is a single
// critical section, so readers never observe a partially applied batch.
type Ring struct {
	mu   sync.Mutex
	buf  []models.FetchMetricRecord
	head int
	size int
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ring{buf: make([]models.FetchMetricRecord, capacity)}
}

func (r *Ring) Append(records ...models.FetchMetricRecord) {
	if len(records) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	capacity := len(r.buf)
	for _, rec := range records {
		if r.size < capacity {
			r.buf[(r.head+r.size)%capacity] = rec
			r.size++
			continue
		}
		r.buf[r.head] = rec
		r.head = (r.head + 1) % capacity
	}
}

// Snapshot returns a copy of the buffered records, oldest first.
func (r *Ring) Snapshot() []models.FetchMetricRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.FetchMetricRecord, r.size)
	capacity := len(r.buf)
	for i := 0; i < r.size; i++ {
		out[i] = r.buf[(r.head+i)%capacity]
	}
	return out
}

func (r *Ring) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

func (r *Ring) Cap() int {
	return len(r.buf)
}

// Query filters and summarizes the in-memory records. Filtering runs on a
// copy, outside the lock.
func (r *Ring) Query(params QueryParams) QueryResult {
	return Query(r.Snapshot(), params)
}
