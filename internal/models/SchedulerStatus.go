package models

import "time"

type SchedulerStatus struct {
	Running         bool       `json:"running"`
	IntervalMinutes int        `json:"interval_minutes"`
	LastFetchTime   *time.Time `json:"last_fetch_time"`
}
