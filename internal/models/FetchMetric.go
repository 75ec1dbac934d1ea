package models

import "time"

type FetchStatus string

const (
	StatusSuccess FetchStatus = "success"
	StatusCache   FetchStatus = "cache"
	StatusError   FetchStatus = "error"
)

// Known reports whether s is one of the statuses a crawler may report.
func (s FetchStatus) Known() bool {
	switch s {
	case StatusSuccess, StatusCache, StatusError:
		return true
	}
	return false
}

// FetchMetricRecord is one row per (ingestion attempt x source). It is never
// mutated after it has been appended to the ring and the durable log.
//
// ChangedCount is nil when the crawler did not report content identifiers
// for the source, which is distinct from a known zero.
type FetchMetricRecord struct {
	SourceID     string      `json:"source_id"`
	SourceName   string      `json:"source_name"`
	Provider     string      `json:"provider"`
	Status       FetchStatus `json:"status"`
	DurationMs   int64       `json:"duration_ms"`
	ItemsCount   int         `json:"items_count"`
	ChangedCount *int        `json:"changed_count"`
	ContentHash  string      `json:"content_hash"`
	FetchedAt    time.Time   `json:"fetched_at"`
	Error        string      `json:"error,omitempty"`
}

// CrawlMetric is what the crawler reports for a single source of one crawl.
type CrawlMetric struct {
	SourceID    string
	SourceName  string
	Provider    string
	Status      FetchStatus
	DurationMs  int64
	ItemsCount  int
	ContentHash string
	Error       string
	// ContentKeys lists the identifiers of the retrieved items in feed order.
	// Only meaningful when ContentKeysReported is set.
	ContentKeys         []string
	ContentKeysReported bool
}

// Record converts the crawl metric into an immutable metric record.
func (m CrawlMetric) Record(changed *int, fetchedAt time.Time) FetchMetricRecord {
	return FetchMetricRecord{
		SourceID:     m.SourceID,
		SourceName:   m.SourceName,
		Provider:     m.Provider,
		Status:       m.Status,
		DurationMs:   max(m.DurationMs, 0),
		ItemsCount:   max(m.ItemsCount, 0),
		ChangedCount: changed,
		ContentHash:  m.ContentHash,
		FetchedAt:    fetchedAt,
		Error:        m.Error,
	}
}
