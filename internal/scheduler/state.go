package scheduler

import (
	"sync"
	"time"
	"trd/internal/models"
)

// State is the process-wide scheduler state. It is shared between the
// scheduler, which flips running and interval, and the ingestion cycle,
// which stamps the last successful fetch.
type State struct {
	mu              sync.RWMutex
	running         bool
	intervalMinutes int
	lastFetch       *time.Time
}

func newState(intervalMinutes int) *State {
	return &State{intervalMinutes: intervalMinutes}
}

func (s *State) MarkFetched(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFetch = &at
}

func (s *State) Snapshot() models.SchedulerStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := models.SchedulerStatus{Running: s.running, IntervalMinutes: s.intervalMinutes}
	if s.lastFetch != nil {
		last := *s.lastFetch
		status.LastFetchTime = &last
	}
	return status
}

func (s *State) setRunning(running bool, intervalMinutes int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = running
	if intervalMinutes > 0 {
		s.intervalMinutes = intervalMinutes
	}
}
