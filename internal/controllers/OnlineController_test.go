package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"trd/internal/models"
	"trd/internal/presence"
	"trd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTracker struct {
	heartbeats []string
	stats      models.OnlineStats
	err        error
}

func (s *stubTracker) Heartbeat(_ context.Context, id string) error {
	if s.err != nil {
		return s.err
	}
	if strings.TrimSpace(id) == "" {
		return presence.ErrMissingSessionID
	}
	s.heartbeats = append(s.heartbeats, id)
	return nil
}

func (s *stubTracker) Stats(_ context.Context) (models.OnlineStats, error) {
	return s.stats, s.err
}

func TestPing_RecordsSession(t *testing.T) {
	tracker := &stubTracker{}
	oc := NewOnlineController(&testutil.MockLogger{}, tracker)

	rr := httptest.NewRecorder()
	oc.Ping(rr, httptest.NewRequest(http.MethodPost, "/api/online/ping", strings.NewReader(`{"session_id":"abc"}`)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
	assert.Equal(t, []string{"abc"}, tracker.heartbeats)
}

func TestPing_MissingSessionID(t *testing.T) {
	tracker := &stubTracker{}
	oc := NewOnlineController(&testutil.MockLogger{}, tracker)

	for _, body := range []string{`{}`, `{"session_id":"  "}`, `not json`, ``} {
		rr := httptest.NewRecorder()
		oc.Ping(rr, httptest.NewRequest(http.MethodPost, "/api/online/ping", strings.NewReader(body)))

		assert.Equal(t, http.StatusBadRequest, rr.Code, body)
		assert.JSONEq(t, `{"detail":"Missing session_id"}`, rr.Body.String())
	}
	assert.Empty(t, tracker.heartbeats)
}

func TestPing_StoreFailure(t *testing.T) {
	oc := NewOnlineController(&testutil.MockLogger{}, &stubTracker{err: errors.New("database is locked")})

	rr := httptest.NewRecorder()
	oc.Ping(rr, httptest.NewRequest(http.MethodPost, "/api/online/ping", strings.NewReader(`{"session_id":"abc"}`)))
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestOnlineStats(t *testing.T) {
	tracker := &stubTracker{stats: models.OnlineStats{Online1m: 1, Online5m: 2, Online15m: 3, ServerTime: 1700000000}}
	oc := NewOnlineController(&testutil.MockLogger{}, tracker)

	rr := httptest.NewRecorder()
	oc.Stats(rr, httptest.NewRequest(http.MethodGet, "/api/online", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"online_1m":1,"online_5m":2,"online_15m":3,"server_time":1700000000}`, rr.Body.String())
}
