package ingestion

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeDetector_FirstObservationCountsEverything(t *testing.T) {
	d := NewChangeDetector()

	changed := d.Compute("weibo", []string{"a", "b", "c"}, true)
	require.NotNil(t, changed)
	assert.Equal(t, 3, *changed)
}

func TestChangeDetector_IdenticalSetIsZero(t *testing.T) {
	d := NewChangeDetector()
	d.Compute("weibo", []string{"a", "b", "c"}, true)

	changed := d.Compute("weibo", []string{"c", "b", "a"}, true)
	require.NotNil(t, changed)
	assert.Equal(t, 0, *changed)
}

func TestChangeDetector_CountsOnlyNewIdentifiers(t *testing.T) {
	d := NewChangeDetector()
	d.Compute("weibo", []string{"a", "b", "c"}, true)

	changed := d.Compute("weibo", []string{"a", "b", "x", "y"}, true)
	require.NotNil(t, changed)
	assert.Equal(t, 2, *changed)

	ids, ok := d.Baseline("weibo")
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b", "x", "y"}, ids)
}

func TestChangeDetector_EmptyAttemptResetsBaseline(t *testing.T) {
	d := NewChangeDetector()
	d.Compute("weibo", []string{"a", "b"}, true)

	changed := d.Compute("weibo", nil, true)
	require.NotNil(t, changed)
	assert.Equal(t, 0, *changed)

	changed = d.Compute("weibo", []string{"a", "b"}, true)
	require.NotNil(t, changed)
	assert.Equal(t, 2, *changed, "everything is new after an empty baseline")
}

func TestChangeDetector_UnreportedIsUnknown(t *testing.T) {
	d := NewChangeDetector()
	d.Compute("weibo", []string{"a"}, true)

	assert.Nil(t, d.Compute("weibo", nil, false))

	ids, ok := d.Baseline("weibo")
	require.True(t, ok)
	assert.Equal(t, []string{"a"}, ids, "baseline untouched")
}

func TestChangeDetector_EmptySourceIDIsUnknown(t *testing.T) {
	d := NewChangeDetector()
	assert.Nil(t, d.Compute("", []string{"a"}, true))
}

func TestChangeDetector_SourcesAreIndependent(t *testing.T) {
	d := NewChangeDetector()
	d.Compute("weibo", []string{"a", "b"}, true)

	changed := d.Compute("zhihu", []string{"a", "b"}, true)
	require.NotNil(t, changed)
	assert.Equal(t, 2, *changed)
}

func TestChangeDetector_ConcurrentCompute(t *testing.T) {
	d := NewChangeDetector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Compute("weibo", []string{"a", "b"}, true)
		}()
	}
	wg.Wait()

	changed := d.Compute("weibo", []string{"a", "b"}, true)
	require.NotNil(t, changed)
	assert.Equal(t, 0, *changed)
}
