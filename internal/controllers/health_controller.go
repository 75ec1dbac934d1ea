package controllers

import (
	"fmt"
	"net/http"
	"os"
	"time"
)

const serviceName = "TrendRadar News Viewer"

type HealthController struct {
	startTime time.Time
	version   string
	configRev string
}

type healthResponse struct {
	Status        string  `json:"status"`
	Service       string  `json:"service"`
	HealthSchema  string  `json:"health_schema"`
	Version       string  `json:"version"`
	ConfigRev     string  `json:"config_rev"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(hc.startTime)
	writeJSON(w, http.StatusOK, healthResponse{
		Status:        "healthy",
		Service:       serviceName,
		HealthSchema:  "2",
		Version:       hc.version,
		ConfigRev:     hc.configRev,
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
	})
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func NewHealthController() *HealthController {
	return &HealthController{
		startTime: time.Now(),
		version:   envOr("APP_VERSION", "unknown"),
		configRev: envOr("CONFIG_REV", "0"),
	}
}
