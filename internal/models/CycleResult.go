package models

import json "github.com/goccy/go-json"

// CycleResult is the outcome of one ingestion cycle. Failures are values,
// never panics or errors escaping to the caller.
type CycleResult struct {
	Success    bool
	Sources    int
	ItemsCount int
	Error      string
}

func CycleSucceeded(sources, items int) CycleResult {
	return CycleResult{Success: true, Sources: sources, ItemsCount: items}
}

func CycleFailed(err error) CycleResult {
	return CycleResult{Success: false, Error: err.Error()}
}

func (r CycleResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, r.Error})
	}
	return json.Marshal(struct {
		Success    bool `json:"success"`
		Sources    int  `json:"sources"`
		ItemsCount int  `json:"items_count"`
	}{true, r.Sources, r.ItemsCount})
}
