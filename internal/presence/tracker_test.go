package presence

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"
	"trd/internal/structures"
	"trd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func newTestTracker(t *testing.T) (*Tracker, *fakeClock) {
	t.Helper()
	db, err := OpenDB(context.Background(), filepath.Join(t.TempDir(), "online.db"))
	require.NoError(t, err)

	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	tr := NewTracker(db, &testutil.MockLogger{})
	tr.now = clock.Now
	t.Cleanup(func() { _ = tr.Close() })
	return tr, clock
}

func sessionCount(t *testing.T, tr *Tracker) int {
	t.Helper()
	var n int
	require.NoError(t, tr.db.QueryRow(`SELECT COUNT(*) FROM online_sessions`).Scan(&n))
	return n
}

func TestTracker_EmptyStats(t *testing.T) {
	tr, clock := newTestTracker(t)

	stats, err := tr.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Online1m)
	assert.Zero(t, stats.Online5m)
	assert.Zero(t, stats.Online15m)
	assert.Equal(t, clock.Now().Unix(), stats.ServerTime)
}

func TestTracker_RecentSessionCountsInAllWindows(t *testing.T) {
	tr, clock := newTestTracker(t)
	ctx := context.Background()
	base := clock.Now()

	clock.Set(base.Add(-30 * time.Second))
	require.NoError(t, tr.Heartbeat(ctx, "recent"))
	clock.Set(base)

	stats, err := tr.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Online1m)
	assert.Equal(t, 1, stats.Online5m)
	assert.Equal(t, 1, stats.Online15m)
}

func TestTracker_Windows(t *testing.T) {
	tr, clock := newTestTracker(t)
	ctx := context.Background()
	base := clock.Now()

	for id, age := range map[string]time.Duration{
		"a": 10 * time.Second,
		"b": 2 * time.Minute,
		"c": 10 * time.Minute,
		"d": 30 * time.Minute,
	} {
		clock.Set(base.Add(-age))
		require.NoError(t, tr.Heartbeat(ctx, id))
	}
	clock.Set(base)

	stats, err := tr.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Online1m)
	assert.Equal(t, 2, stats.Online5m)
	assert.Equal(t, 3, stats.Online15m)
	assert.Equal(t, 4, sessionCount(t, tr))
}

func TestTracker_HeartbeatRefreshesSession(t *testing.T) {
	tr, clock := newTestTracker(t)
	ctx := context.Background()
	base := clock.Now()

	clock.Set(base.Add(-10 * time.Minute))
	require.NoError(t, tr.Heartbeat(ctx, "s1"))
	clock.Set(base)
	require.NoError(t, tr.Heartbeat(ctx, " s1 "))

	stats, err := tr.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Online1m)
	assert.Equal(t, 1, sessionCount(t, tr))
}

func TestTracker_PrunesStaleSessions(t *testing.T) {
	tr, clock := newTestTracker(t)
	ctx := context.Background()
	base := clock.Now()

	clock.Set(base.Add(-25 * time.Hour))
	require.NoError(t, tr.Heartbeat(ctx, "stale"))
	clock.Set(base)
	require.NoError(t, tr.Heartbeat(ctx, "fresh"))

	var n int
	require.NoError(t, tr.db.QueryRow(`SELECT COUNT(*) FROM online_sessions WHERE session_id = 'stale'`).Scan(&n))
	assert.Zero(t, n)
	assert.Equal(t, 1, sessionCount(t, tr))
}

func TestTracker_RejectsEmptySessionID(t *testing.T) {
	tr, _ := newTestTracker(t)

	for _, id := range []string{"", "   "} {
		assert.ErrorIs(t, tr.Heartbeat(context.Background(), id), ErrMissingSessionID)
	}
	assert.Zero(t, sessionCount(t, tr))
}

func TestTracker_ConcurrentHeartbeats(t *testing.T) {
	tr, _ := newTestTracker(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, tr.Heartbeat(context.Background(), string(rune('a'+i))))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, sessionCount(t, tr))
}

func TestNewPresenceTracker(t *testing.T) {
	conf := &structures.Config{Presence: structures.PresenceConfig{DBPath: filepath.Join(t.TempDir(), "nested", "online.db")}}

	tr, cleanup, err := NewPresenceTracker(conf, &testutil.MockLogger{})
	require.NoError(t, err)
	defer cleanup()

	require.NoError(t, tr.Heartbeat(context.Background(), "s1"))
	assert.FileExists(t, conf.Presence.DBPath)
}
