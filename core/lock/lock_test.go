package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMemory_TryAcquire tests acquisition, contention and expiry of the in-process lock.
func TestMemory_TryAcquire(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m := NewMemory()
	m.clock = func() time.Time { return now }
	ctx := context.Background()

	ok, err := m.TryAcquire(ctx, "run", "a", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.TryAcquire(ctx, "run", "b", time.Hour)
	require.NoError(t, err)
	assert.False(t, ok, "live lock must not be taken")

	ok, err = m.TryAcquire(ctx, "other", "b", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "locks are independent by name")

	now = now.Add(time.Hour)
	ok, err = m.TryAcquire(ctx, "run", "b", time.Hour)
	require.NoError(t, err)
	assert.True(t, ok, "expired lock must be taken over")

	assert.ErrorIs(t, m.Release(ctx, "run", "a"), ErrNotHeld)
	assert.NoError(t, m.Release(ctx, "run", "b"))
	assert.ErrorIs(t, m.Release(ctx, "run", "b"), ErrNotHeld)
}

// TestMemory_CancelledContext tests that a cancelled context never acquires.
func TestMemory_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ok, err := NewMemory().TryAcquire(ctx, "run", "a", time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ok)
}

// TestNew tests backend selection.
func TestNew(t *testing.T) {
	l, err := New("", nil)
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, l)

	_, err = New(BackendDatabase, nil)
	assert.Error(t, err)

	_, err = New("redis", nil)
	assert.ErrorContains(t, err, "unknown lock backend")
}
