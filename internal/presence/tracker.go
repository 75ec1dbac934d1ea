package presence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"trd/internal/models"
	"trd/internal/providers"
	"trd/internal/structures"
)

const (
	// SessionRetention is how long a session survives without a heartbeat.
	SessionRetention = 24 * time.Hour
)

var ErrMissingSessionID = errors.New("missing session_id")

// Windows reported by Stats.
const (
	window1m  = time.Minute
	window5m  = 5 * time.Minute
	window15m = 15 * time.Minute
)

// Tracker records anonymous viewer heartbeats and reports how many distinct
// sessions were seen recently.
type Tracker struct {
	mu     sync.Mutex
	db     *sql.DB
	logger providers.Logger
	now    func() time.Time
}

func NewTracker(db *sql.DB, logger providers.Logger) *Tracker {
	return &Tracker{db: db, logger: logger, now: time.Now}
}

// NewPresenceTracker opens the configured database. The returned cleanup
// closes it.
func NewPresenceTracker(conf *structures.Config, logger providers.Logger) (*Tracker, func(), error) {
	db, err := OpenDB(context.Background(), conf.Presence.DBPath)
	if err != nil {
		return nil, nil, err
	}
	logger.Infof(providers.TypeApp, "Presence database opened at %s", conf.Presence.DBPath)

	t := NewTracker(db, logger)
	cleanup := func() {
		if err := t.Close(); err != nil {
			logger.Errorf(providers.TypeApp, "Error closing presence database: %v", err)
		}
	}
	return t, cleanup, nil
}

// Heartbeat upserts the session's last-seen time and prunes sessions older
// than SessionRetention in the same transaction.
func (t *Tracker) Heartbeat(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrMissingSessionID
	}

	now := t.now().Unix()
	cutoff := now - int64(SessionRetention/time.Second)

	t.mu.Lock()
	defer t.mu.Unlock()

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin heartbeat: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO online_sessions (session_id, last_seen) VALUES (?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET last_seen = excluded.last_seen`,
		sessionID, now); err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM online_sessions WHERE last_seen < ?`, cutoff); err != nil {
		return fmt.Errorf("prune sessions: %w", err)
	}

	return tx.Commit()
}

func (t *Tracker) Stats(ctx context.Context) (models.OnlineStats, error) {
	now := t.now()
	ts := now.Unix()

	var stats models.OnlineStats
	err := t.db.QueryRowContext(ctx,
		`SELECT
			COALESCE(SUM(CASE WHEN last_seen >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN last_seen >= ? THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN last_seen >= ? THEN 1 ELSE 0 END), 0)
		 FROM online_sessions`,
		ts-int64(window1m/time.Second),
		ts-int64(window5m/time.Second),
		ts-int64(window15m/time.Second),
	).Scan(&stats.Online1m, &stats.Online5m, &stats.Online15m)
	if err != nil {
		return models.OnlineStats{}, fmt.Errorf("count sessions: %w", err)
	}

	stats.ServerTime = ts
	return stats, nil
}

func (t *Tracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.db.Close()
}
