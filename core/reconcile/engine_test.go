package reconcile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	baseArticle BaseType = "Article"
	basePage    BaseType = "Page"
)

var (
	t1 = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	t2 = time.Date(2024, 3, 2, 10, 0, 0, 0, time.UTC)
)

func newTestRegistry(t *testing.T) *Registry {
	t.Helper()
	r, err := NewRegistry(
		testConverter{entity: "Article", base: baseArticle},
		testConverter{entity: "Page", base: basePage},
	)
	require.NoError(t, err)
	return r
}

func newTestEngine(t *testing.T) (*Engine, *fakeSource, *memoryIndex) {
	t.Helper()
	registry := newTestRegistry(t)
	source := newFakeSource()
	index := newMemoryIndex(registry)
	return NewEngine(registry, source, index, 2), source, index
}

// TestDiff_Addition tests that a live record with no entry is added exactly once.
func TestDiff_Addition(t *testing.T) {
	engine, source, _ := newTestEngine(t)
	source.put(baseArticle, live(7, "Article", t1))

	result, err := engine.Diff(context.Background(), baseArticle)
	require.NoError(t, err)

	assert.Equal(t, []uint{7}, ids(result.ToAdd))
	assert.Empty(t, result.ToUpdate)
	assert.Empty(t, result.ToDelete)
}

// TestDiff_UpdateDetection tests timestamp based change detection.
func TestDiff_UpdateDetection(t *testing.T) {
	tests := []struct {
		name         string
		recordTime   time.Time
		entryTime    time.Time
		expectUpdate bool
	}{
		{name: "source newer", recordTime: t2, entryTime: t1, expectUpdate: true},
		{name: "stored ahead of source", recordTime: t1, entryTime: t2, expectUpdate: true},
		{name: "equal", recordTime: t1, entryTime: t1, expectUpdate: false},
		{name: "equal in another location", recordTime: t1, entryTime: t1.In(time.FixedZone("CET", 3600)), expectUpdate: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, source, index := newTestEngine(t)
			source.put(baseArticle, live(7, "Article", tt.recordTime))
			index.seed(7, "Article", tt.entryTime)

			result, err := engine.Diff(context.Background(), baseArticle)
			require.NoError(t, err)

			assert.Empty(t, result.ToAdd)
			assert.Empty(t, result.ToDelete)
			if tt.expectUpdate {
				assert.Equal(t, []uint{7}, ids(result.ToUpdate))
			} else {
				assert.Empty(t, result.ToUpdate)
			}
		})
	}
}

// TestDiff_Tombstones tests that entries without a live record are deleted.
func TestDiff_Tombstones(t *testing.T) {
	engine, source, index := newTestEngine(t)

	deleted := live(9, "Article", t1)
	deleted.deleted = true
	dangling := live(10, "Article", t1)
	dangling.dangling = true
	source.put(baseArticle, deleted, dangling)

	index.seed(9, "Article", t1)
	index.seed(10, "Article", t1)
	index.seed(11, "Article", t1) // no authoritative row at all

	result, err := engine.Diff(context.Background(), baseArticle)
	require.NoError(t, err)

	assert.Empty(t, result.ToAdd)
	assert.Empty(t, result.ToUpdate)
	assert.Equal(t, []uint{9, 10, 11}, entryIDs(result.ToDelete))
}

// TestDiff_AbsentRecordsAreNotAdded tests that soft-deleted and dangling records are never materialized.
func TestDiff_AbsentRecordsAreNotAdded(t *testing.T) {
	engine, source, _ := newTestEngine(t)

	deleted := live(1, "Article", t1)
	deleted.deleted = true
	dangling := live(2, "Article", t1)
	dangling.dangling = true
	source.put(baseArticle, deleted, dangling, live(3, "Article", t1))

	result, err := engine.Diff(context.Background(), baseArticle)
	require.NoError(t, err)

	assert.Equal(t, []uint{3}, ids(result.ToAdd))
}

// TestDiff_TypeIsolation tests that keys are (id, type) pairs.
func TestDiff_TypeIsolation(t *testing.T) {
	engine, source, index := newTestEngine(t)
	source.put(basePage, live(3, "Page", t1))
	index.seed(3, "Article", t1)

	pageResult, err := engine.Diff(context.Background(), basePage)
	require.NoError(t, err)
	assert.Equal(t, []uint{3}, ids(pageResult.ToAdd))
	assert.Empty(t, pageResult.ToUpdate)
	assert.Empty(t, pageResult.ToDelete)

	articleResult, err := engine.Diff(context.Background(), baseArticle)
	require.NoError(t, err)
	assert.Empty(t, articleResult.ToAdd)
	assert.Equal(t, []uint{3}, entryIDs(articleResult.ToDelete))
}

// TestDiff_EmptySides tests the degenerate snapshots.
func TestDiff_EmptySides(t *testing.T) {
	t.Run("no authoritative records", func(t *testing.T) {
		engine, _, index := newTestEngine(t)
		index.seed(1, "Article", t1)
		index.seed(2, "Article", t1)

		result, err := engine.Diff(context.Background(), baseArticle)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2}, entryIDs(result.ToDelete))
		assert.Empty(t, result.ToAdd)
	})

	t.Run("no index entries", func(t *testing.T) {
		engine, source, _ := newTestEngine(t)
		source.put(baseArticle, live(2, "Article", t1), live(1, "Article", t1))

		result, err := engine.Diff(context.Background(), baseArticle)
		require.NoError(t, err)
		assert.Equal(t, []uint{1, 2}, ids(result.ToAdd))
		assert.Empty(t, result.ToDelete)
	})

	t.Run("both empty", func(t *testing.T) {
		engine, _, _ := newTestEngine(t)

		result, err := engine.Diff(context.Background(), baseArticle)
		require.NoError(t, err)
		assert.True(t, result.Empty())
	})
}

// TestDiff_Disjointness tests that every identity lands in at most one set.
func TestDiff_Disjointness(t *testing.T) {
	engine, source, index := newTestEngine(t)

	for id := uint(1); id <= 40; id++ {
		switch id % 4 {
		case 0: // unchanged
			source.put(baseArticle, live(id, "Article", t1))
			index.seed(id, "Article", t1)
		case 1: // stale
			source.put(baseArticle, live(id, "Article", t2))
			index.seed(id, "Article", t1)
		case 2: // new
			source.put(baseArticle, live(id, "Article", t1))
		case 3: // tombstone
			index.seed(id, "Article", t1)
		}
	}

	result, err := engine.Diff(context.Background(), baseArticle)
	require.NoError(t, err)

	seen := make(map[uint]string)
	check := func(id uint, set string) {
		prev, dup := seen[id]
		assert.False(t, dup, "id %d in both %s and %s", id, prev, set)
		seen[id] = set
	}
	for _, id := range ids(result.ToAdd) {
		check(id, "add")
	}
	for _, id := range ids(result.ToUpdate) {
		check(id, "update")
	}
	for _, id := range entryIDs(result.ToDelete) {
		check(id, "delete")
	}

	assert.Equal(t, Counts{Added: 10, Updated: 10, Deleted: 10}, result.Counts())
}

// TestDiff_DuplicateHandles tests that a record loaded twice is diffed once.
func TestDiff_DuplicateHandles(t *testing.T) {
	engine, source, _ := newTestEngine(t)
	source.put(baseArticle, live(5, "Article", t1), live(5, "Article", t2))

	result, err := engine.Diff(context.Background(), baseArticle)
	require.NoError(t, err)
	require.Len(t, result.ToAdd, 1)
	assert.Equal(t, t1, result.ToAdd[0].LastModified())
}

// TestDiff_UnknownBaseType tests that untracked base types are rejected.
func TestDiff_UnknownBaseType(t *testing.T) {
	engine, _, _ := newTestEngine(t)

	_, err := engine.Diff(context.Background(), BaseType("Layout"))
	assert.ErrorIs(t, err, ErrUnknownBaseType)
}

// TestDiff_ReadFailures tests that load errors from either store are returned.
func TestDiff_ReadFailures(t *testing.T) {
	t.Run("authoritative store", func(t *testing.T) {
		engine, source, _ := newTestEngine(t)
		source.errs[baseArticle] = errors.New("db unavailable")

		_, err := engine.Diff(context.Background(), baseArticle)
		assert.ErrorContains(t, err, "db unavailable")
	})

	t.Run("index store", func(t *testing.T) {
		engine, _, index := newTestEngine(t)
		index.loadErr = errors.New("index unavailable")

		_, err := engine.Diff(context.Background(), baseArticle)
		assert.ErrorContains(t, err, "index unavailable")
	})
}

// TestReconcileAll_Merges tests that per base type results are unioned.
func TestReconcileAll_Merges(t *testing.T) {
	engine, source, index := newTestEngine(t)
	source.put(baseArticle, live(1, "Article", t1), live(2, "Article", t2))
	source.put(basePage, live(1, "Page", t1))
	index.seed(2, "Article", t1)
	index.seed(3, "Page", t1)

	result, err := engine.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, Counts{Added: 2, Updated: 1, Deleted: 1}, result.Counts())
	assert.Equal(t, Counts{Added: 1, Updated: 1}, result.Breakdown[baseArticle])
	assert.Equal(t, Counts{Added: 1, Deleted: 1}, result.Breakdown[basePage])
}

// TestReconcileAll_ReadFailureAborts tests that one failing base type fails the whole diff.
func TestReconcileAll_ReadFailureAborts(t *testing.T) {
	engine, source, _ := newTestEngine(t)
	source.put(baseArticle, live(1, "Article", t1))
	source.errs[basePage] = errors.New("timeout")

	result, err := engine.ReconcileAll(context.Background())
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "timeout")
}

// TestReconcileAll_SharedBaseTypeDiffedOnce tests that converters sharing a base type cause one load.
func TestReconcileAll_SharedBaseTypeDiffedOnce(t *testing.T) {
	registry, err := NewRegistry(
		testConverter{entity: "Article", base: "Webpage"},
		testConverter{entity: "TextPage", base: "Webpage"},
	)
	require.NoError(t, err)

	source := newFakeSource()
	source.put("Webpage", live(1, "Article", t1), live(2, "TextPage", t1))
	engine := NewEngine(registry, source, newMemoryIndex(registry), 0)

	result, err := engine.ReconcileAll(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, source.loads)
	assert.Equal(t, []uint{1, 2}, ids(result.ToAdd))
}
