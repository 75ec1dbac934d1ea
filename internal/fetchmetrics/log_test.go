package fetchmetrics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"trd/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countLines(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return bytes.Count(data, []byte{'\n'})
}

func TestLog_AppendCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "nested", "fetch_metrics.jsonl")
	l := NewLog(path, 10)

	require.NoError(t, l.Append([]models.FetchMetricRecord{record("a", 1), record("b", 2)}))

	assert.Equal(t, 2, countLines(t, path))
}

func TestLog_EmptyBatchIsNoop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch_metrics.jsonl")
	l := NewLog(path, 10)

	require.NoError(t, l.Append(nil))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestLog_TruncatesToMostRecent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch_metrics.jsonl")
	l := NewLog(path, 4)

	for i := 1; i <= 3; i++ {
		require.NoError(t, l.Append([]models.FetchMetricRecord{record("a", i*2-1), record("a", i*2)}))
	}

	assert.Equal(t, 4, countLines(t, path))
	records, skipped, err := l.Load()
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, records, 4)
	for i, rec := range records {
		assert.Equal(t, 3+i, rec.ItemsCount)
	}
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestLog_PreservesUnknownChangedCount(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch_metrics.jsonl")
	l := NewLog(path, 4)

	zero := 0
	known := record("a", 1)
	known.ChangedCount = &zero
	unknown := record("b", 2)

	require.NoError(t, l.Append([]models.FetchMetricRecord{known, unknown}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"changed_count":0`)
	assert.Contains(t, string(data), `"changed_count":null`)

	records, _, err := l.Load()
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.NotNil(t, records[0].ChangedCount)
	assert.Equal(t, 0, *records[0].ChangedCount)
	assert.Nil(t, records[1].ChangedCount)
}

func TestLog_LoadMissingFile(t *testing.T) {
	l := NewLog(filepath.Join(t.TempDir(), "missing.jsonl"), 4)
	records, skipped, err := l.Load()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}

func TestLog_LoadSkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fetch_metrics.jsonl")
	l := NewLog(path, 10)
	require.NoError(t, l.Append([]models.FetchMetricRecord{record("a", 1)}))

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("{not json\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, l.Append([]models.FetchMetricRecord{record("a", 2)}))

	records, skipped, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, 2, records[1].ItemsCount)
}

func TestLog_AppendFailsOnUnwritablePath(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("file"), 0644))

	l := NewLog(filepath.Join(blocker, "fetch_metrics.jsonl"), 4)
	assert.Error(t, l.Append([]models.FetchMetricRecord{record("a", 1)}))
}
