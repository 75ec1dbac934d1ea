package fetchmetrics

import (
	"trd/internal/models"
	"trd/internal/structures"
)

// Store keeps the ring and its durable mirror together. The ring is always
// written first; a failing durable write never loses the in-memory records.
type Store struct {
	ring *Ring
	log  *Log
}

func NewStore(ring *Ring, log *Log) *Store {
	return &Store{ring: ring, log: log}
}

func (s *Store) Ring() *Ring {
	return s.ring
}

// Record appends records to the ring, then to the log. The returned error
// only describes the durable write.
func (s *Store) Record(records []models.FetchMetricRecord) error {
	if len(records) == 0 {
		return nil
	}
	s.ring.Append(records...)
	return s.log.Append(records)
}

// Restore seeds the ring from the durable log and returns how many records
// were loaded and how many corrupt lines were skipped.
func (s *Store) Restore() (int, int, error) {
	records, skipped, err := s.log.Load()
	if err != nil {
		return 0, 0, err
	}
	s.ring.Append(records...)
	return len(records), skipped, nil
}

// NewFetchMetricsStore builds the ring and its durable log from configuration.
func NewFetchMetricsStore(conf *structures.Config) *Store {
	capacity := conf.FetchMetrics.Capacity
	return NewStore(NewRing(capacity), NewLog(conf.FetchMetrics.LogPath, capacity))
}

func (s *Store) Len() int {
	return s.ring.Len()
}

func (s *Store) Query(params QueryParams) QueryResult {
	return s.ring.Query(params)
}
