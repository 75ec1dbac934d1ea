package testutil

import (
	"context"
	"errors"
	"sync"
	"time"
	"trd/internal/models"
	"trd/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// MockCache implements providers.CacheProviderInterface with a plain map.
type MockCache struct {
	mu            sync.Mutex
	Data          map[string][]byte
	gen           uint64
	Invalidations int
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Generation() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen
}

func (m *MockCache) SetForGeneration(gen uint64, key string, value []byte) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	m.Data[key] = value
	return true
}

func (m *MockCache) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.Invalidations++
	m.Data = make(map[string][]byte)
}

func (m *MockCache) InvalidationCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Invalidations
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu               sync.Mutex
	Requests         int
	CacheHits        int
	CacheMisses      int
	Invalidations    int
	Cycles           map[string]int
	SourceFetches    map[string]int
	SchedulerRunning bool
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Cycles: map[string]int{}, SourceFetches: map[string]int{}}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Requests++
}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheHits++
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CacheMisses++
}
func (m *MockMetrics) IncCacheInvalidations() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Invalidations++
}
func (m *MockMetrics) IncCyclesTotal(result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cycles[result]++
}
func (m *MockMetrics) ObserveCycleDuration(_ time.Duration) {}
func (m *MockMetrics) IncSourceFetch(source, status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFetches[source+":"+status]++
}
func (m *MockMetrics) SetSchedulerRunning(running bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SchedulerRunning = running
}

func (m *MockMetrics) CycleCount(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Cycles[result]
}

// MockSourceResolver implements interfaces.SourceResolverInterface.
type MockSourceResolver struct {
	List []models.Source
	Err  error
}

func (m *MockSourceResolver) Sources() ([]models.Source, error) {
	return m.List, m.Err
}

// MockCrawler implements interfaces.CrawlerInterface with injectable behavior.
type MockCrawler struct {
	mu      sync.Mutex
	CrawlFn func(ctx context.Context, sources []models.Source) (*models.CrawlOutput, error)
	Calls   int
}

func (m *MockCrawler) Crawl(ctx context.Context, sources []models.Source) (*models.CrawlOutput, error) {
	m.mu.Lock()
	m.Calls++
	fn := m.CrawlFn
	m.mu.Unlock()
	if fn == nil {
		return nil, errors.New("crawler not configured")
	}
	return fn(ctx, sources)
}

func (m *MockCrawler) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// MockSnapshotStorage implements interfaces.SnapshotStorageInterface in memory.
type MockSnapshotStorage struct {
	mu      sync.Mutex
	Saved   []*models.Snapshot
	SaveErr error
}

func (m *MockSnapshotStorage) Save(_ context.Context, snapshot *models.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, snapshot)
	return nil
}

func (m *MockSnapshotStorage) Latest(_ context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Saved) == 0 {
		return nil, nil
	}
	return m.Saved[len(m.Saved)-1], nil
}

func (m *MockSnapshotStorage) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Saved)
}

// MockFetchTracker implements interfaces.FetchTrackerInterface.
type MockFetchTracker struct {
	mu   sync.Mutex
	Last *time.Time
}

func (m *MockFetchTracker) MarkFetched(at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Last = &at
}

func (m *MockFetchTracker) LastFetch() *time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Last
}

// MockCompressor implements interfaces.CompressorInterface with injectable behavior.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Close() {}
