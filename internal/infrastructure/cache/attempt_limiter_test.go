package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryAttemptLimiter_LocksAfterMax(t *testing.T) {
	l := NewInMemoryAttemptLimiter()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	for i := 1; i < 3; i++ {
		n, err := l.Fail(ctx, "shop-1", 3, 15*time.Minute)
		require.NoError(t, err)
		assert.Equal(t, i, n)
		locked, _, err := l.Locked(ctx, "shop-1")
		require.NoError(t, err)
		assert.False(t, locked)
	}

	n, err := l.Fail(ctx, "shop-1", 3, 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	locked, left, err := l.Locked(ctx, "shop-1")
	require.NoError(t, err)
	assert.True(t, locked)
	assert.Equal(t, 15*time.Minute, left)

	other, _, _ := l.Locked(ctx, "shop-2")
	assert.False(t, other)

	now = now.Add(15 * time.Minute)
	locked, _, _ = l.Locked(ctx, "shop-1")
	assert.False(t, locked, "lock expires after the lockout")

	n, _ = l.Fail(ctx, "shop-1", 3, 15*time.Minute)
	assert.Equal(t, 1, n, "count restarts after a lock")
}

func TestInMemoryAttemptLimiter_WindowExpires(t *testing.T) {
	l := NewInMemoryAttemptLimiter()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	_, _ = l.Fail(ctx, "shop-1", 3, time.Minute)
	_, _ = l.Fail(ctx, "shop-1", 3, time.Minute)

	now = now.Add(2 * time.Minute)
	n, err := l.Fail(ctx, "shop-1", 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInMemoryAttemptLimiter_Reset(t *testing.T) {
	l := NewInMemoryAttemptLimiter()
	ctx := context.Background()

	_, _ = l.Fail(ctx, "shop-1", 1, time.Minute)
	locked, _, _ := l.Locked(ctx, "shop-1")
	require.True(t, locked)

	require.NoError(t, l.Reset(ctx, "shop-1"))
	locked, _, _ = l.Locked(ctx, "shop-1")
	assert.False(t, locked)
}
