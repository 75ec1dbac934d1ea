package controllers

import (
	"context"
	"errors"
	"net/http"
	"trd/internal/models"
	"trd/internal/presence"
	"trd/internal/providers"

	json "github.com/goccy/go-json"
)

type PresenceTrackerInterface interface {
	Heartbeat(ctx context.Context, sessionID string) error
	Stats(ctx context.Context) (models.OnlineStats, error)
}

type OnlineController struct {
	logger  providers.Logger
	tracker PresenceTrackerInterface
}

func NewOnlineController(logger providers.Logger, tracker PresenceTrackerInterface) *OnlineController {
	return &OnlineController{logger: logger, tracker: tracker}
}

type pingRequest struct {
	SessionID string `json:"session_id"`
}

// Ping records a heartbeat. A malformed body is treated as an empty one.
func (oc *OnlineController) Ping(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var payload pingRequest
	_ = json.NewDecoder(r.Body).Decode(&payload)

	if err := oc.tracker.Heartbeat(r.Context(), payload.SessionID); err != nil {
		if errors.Is(err, presence.ErrMissingSessionID) {
			writeDetail(w, http.StatusBadRequest, "Missing session_id")
			return
		}
		oc.logger.Errorf(providers.TypePost, "Heartbeat failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (oc *OnlineController) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := oc.tracker.Stats(r.Context())
	if err != nil {
		oc.logger.Errorf(providers.TypeGet, "Presence stats failed: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
