package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"trd/internal/providers"
	"trd/internal/scheduler"
	"trd/internal/scheduler/interfaces"

	"github.com/gookit/validate"
)

const defaultIntervalMinutes = 30

type startRequest struct {
	Interval int `validate:"required|int|min:5|max:1440"`
}

type SchedulerController struct {
	logger    providers.Logger
	scheduler interfaces.SchedulerInterface
}

func NewSchedulerController(logger providers.Logger, scheduler interfaces.SchedulerInterface) *SchedulerController {
	return &SchedulerController{logger: logger, scheduler: scheduler}
}

func (sc *SchedulerController) Start(w http.ResponseWriter, r *http.Request) {
	req := startRequest{Interval: defaultIntervalMinutes}
	if raw := r.URL.Query().Get("interval"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "detail": "interval must be an integer"})
			return
		}
		req.Interval = n
	}

	if v := validate.Struct(&req); !v.Validate() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "detail": v.Errors.One()})
		return
	}

	started, err := sc.scheduler.Start(req.Interval)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scheduler.ErrIntervalOutOfRange) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, map[string]any{"success": false, "detail": err.Error()})
		return
	}

	if !started {
		current := sc.scheduler.Status().IntervalMinutes
		writeJSON(w, http.StatusOK, messageResponse{
			Success:         false,
			Message:         fmt.Sprintf("scheduler already running, interval %d minutes", current),
			IntervalMinutes: current,
		})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Success:         true,
		Message:         fmt.Sprintf("scheduler started, interval %d minutes", req.Interval),
		IntervalMinutes: req.Interval,
	})
}

func (sc *SchedulerController) Stop(w http.ResponseWriter, _ *http.Request) {
	sc.scheduler.Stop()
	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "scheduler stopped"})
}

func (sc *SchedulerController) Status(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sc.scheduler.Status())
}
