package fetchmetrics

import (
	"math"
	"time"
	"trd/internal/models"
)

const (
	DefaultCapacity   = 5000
	DefaultQueryLimit = 200
)

type QueryParams struct {
	Limit    int
	Source   string
	Provider string
}

// SourceSummary aggregates the records of one source within a query window.
// Averages are nil when no record in the window carries the field.
type SourceSummary struct {
	SourceID         string             `json:"source_id"`
	SourceName       string             `json:"source_name"`
	Provider         string             `json:"provider"`
	Success          int                `json:"success"`
	Cache            int                `json:"cache"`
	Error            int                `json:"error"`
	AvgDurationMs    *int64             `json:"avg_duration_ms"`
	AvgItemsCount    *float64           `json:"avg_items_count"`
	AvgChangedCount  *float64           `json:"avg_changed_count"`
	LastStatus       models.FetchStatus `json:"last_status"`
	LastFetchedAt    time.Time          `json:"last_fetched_at"`
	LastChangedCount *int               `json:"last_changed_count"`
	LastContentHash  string             `json:"last_content_hash"`
}

type QueryResult struct {
	Limit   int                        `json:"limit"`
	Metrics []models.FetchMetricRecord `json:"metrics"`
	Summary []SourceSummary            `json:"summary"`
}

type average struct {
	sum float64
	n   int
}

func (a *average) add(v float64) {
	a.sum += v
	a.n++
}

func (a average) rounded() *float64 {
	if a.n == 0 {
		return nil
	}
	v := math.Round(a.sum/float64(a.n)*100) / 100
	return &v
}

func (a average) truncated() *int64 {
	if a.n == 0 {
		return nil
	}
	v := int64(a.sum / float64(a.n))
	return &v
}

type summaryAcc struct {
	summary  SourceSummary
	duration average
	items    average
	changed  average
}

// Query filters records (oldest first) by exact source and provider match,
// keeps the most recent Limit of them and summarizes that window per source.
func Query(records []models.FetchMetricRecord, params QueryParams) QueryResult {
	limit := params.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}

	filtered := make([]models.FetchMetricRecord, 0, len(records))
	for _, rec := range records {
		if params.Provider != "" && rec.Provider != params.Provider {
			continue
		}
		if params.Source != "" && rec.SourceID != params.Source {
			continue
		}
		filtered = append(filtered, rec)
	}
	if len(filtered) > limit {
		filtered = filtered[len(filtered)-limit:]
	}

	var order []string
	accs := make(map[string]*summaryAcc)
	for _, rec := range filtered {
		id := rec.SourceID
		if id == "" {
			id = "unknown"
		}
		acc, ok := accs[id]
		if !ok {
			name := rec.SourceName
			if name == "" {
				name = id
			}
			acc = &summaryAcc{summary: SourceSummary{SourceID: id, SourceName: name, Provider: rec.Provider}}
			accs[id] = acc
			order = append(order, id)
		}

		switch rec.Status {
		case models.StatusSuccess:
			acc.summary.Success++
		case models.StatusCache:
			acc.summary.Cache++
		default:
			acc.summary.Error++
		}

		acc.summary.LastStatus = rec.Status
		acc.summary.LastFetchedAt = rec.FetchedAt
		acc.summary.LastChangedCount = rec.ChangedCount
		acc.summary.LastContentHash = rec.ContentHash

		acc.duration.add(float64(rec.DurationMs))
		acc.items.add(float64(rec.ItemsCount))
		if rec.ChangedCount != nil {
			acc.changed.add(float64(*rec.ChangedCount))
		}
	}

	summary := make([]SourceSummary, 0, len(order))
	for _, id := range order {
		acc := accs[id]
		acc.summary.AvgDurationMs = acc.duration.truncated()
		acc.summary.AvgItemsCount = acc.items.rounded()
		acc.summary.AvgChangedCount = acc.changed.rounded()
		summary = append(summary, acc.summary)
	}

	return QueryResult{Limit: limit, Metrics: filtered, Summary: summary}
}
