package models

import (
	"slices"
	"time"
)

const (
	snapshotDateLayout = "2006-01-02"
	snapshotTimeLayout = "15:04"
)

// Snapshot is the normalized content of one cycle handed to snapshot storage.
type Snapshot struct {
	Date      string                `json:"date"`
	CrawlTime string                `json:"crawl_time"`
	CrawledAt time.Time             `json:"crawled_at"`
	Items     map[string][]NewsItem `json:"items"`
	IDToName  map[string]string     `json:"id_to_name"`
	FailedIDs []string              `json:"failed_ids"`
}

// NewSnapshot normalizes crawl output: items keep feed order and get a
// 1-based rank when the crawler did not assign one.
func NewSnapshot(out *CrawlOutput, at time.Time) *Snapshot {
	snap := &Snapshot{
		Date:      at.Format(snapshotDateLayout),
		CrawlTime: at.Format(snapshotTimeLayout),
		CrawledAt: at,
		Items:     make(map[string][]NewsItem, len(out.Results)),
		IDToName:  make(map[string]string, len(out.IDToName)),
		FailedIDs: slices.Clone(out.FailedIDs),
	}
	for id, name := range out.IDToName {
		snap.IDToName[id] = name
	}
	for id, items := range out.Results {
		normalized := make([]NewsItem, len(items))
		for i, item := range items {
			if item.Rank <= 0 {
				item.Rank = i + 1
			}
			normalized[i] = item
		}
		snap.Items[id] = normalized
		if _, ok := snap.IDToName[id]; !ok {
			snap.IDToName[id] = id
		}
	}
	if snap.FailedIDs == nil {
		snap.FailedIDs = []string{}
	}
	return snap
}

func (s *Snapshot) TotalItems() int {
	total := 0
	for _, items := range s.Items {
		total += len(items)
	}
	return total
}

// Filter returns a shallow view restricted to the given source ids. An empty
// list returns s unchanged.
func (s *Snapshot) Filter(ids []string) *Snapshot {
	if len(ids) == 0 {
		return s
	}
	view := &Snapshot{
		Date:      s.Date,
		CrawlTime: s.CrawlTime,
		CrawledAt: s.CrawledAt,
		Items:     make(map[string][]NewsItem, len(ids)),
		IDToName:  make(map[string]string, len(ids)),
		FailedIDs: []string{},
	}
	for _, id := range ids {
		if items, ok := s.Items[id]; ok {
			view.Items[id] = items
			view.IDToName[id] = s.IDToName[id]
		}
		if slices.Contains(s.FailedIDs, id) {
			view.FailedIDs = append(view.FailedIDs, id)
		}
	}
	return view
}
