package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestTicker_RunsWithoutOverlap(t *testing.T) {
	var running, maxRunning, runs atomic.Int32
	tk := NewTicker("whatsapp-queue", 2*time.Millisecond, func(ctx context.Context) error {
		n := running.Add(1)
		if n > maxRunning.Load() {
			maxRunning.Store(n)
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		runs.Add(1)
		return nil
	}, zap.NewNop())

	require.NoError(t, tk.Start(context.Background()))
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, tk.Stop(ctx))
	assert.Equal(t, int32(1), maxRunning.Load())
}

func TestTicker_LogsErrors(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	tk := NewTicker("whatsapp-queue", time.Millisecond, func(context.Context) error {
		return errors.New("provider down")
	}, zap.New(core))

	require.NoError(t, tk.Start(context.Background()))
	assert.Eventually(t, func() bool { return recorded.Len() > 0 }, time.Second, time.Millisecond)
	require.NoError(t, tk.Stop(context.Background()))

	entry := recorded.All()[0]
	assert.Equal(t, "Periodic task failed", entry.Message)
	assert.Equal(t, "whatsapp-queue", entry.ContextMap()["ticker"])
}
