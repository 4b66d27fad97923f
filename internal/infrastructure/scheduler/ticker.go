package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Ticker runs fn every interval in a single goroutine, so runs never
// overlap. The WhatsApp queue processor runs on one.
type Ticker struct {
	name     string
	interval time.Duration
	fn       func(ctx context.Context) error
	logger   *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewTicker creates a stopped ticker
func NewTicker(name string, interval time.Duration, fn func(ctx context.Context) error, logger *zap.Logger) *Ticker {
	return &Ticker{name: name, interval: interval, fn: fn, logger: logger.With(zap.String("ticker", name))}
}

// Start begins ticking; calling Start twice is a no-op
func (t *Ticker) Start(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		tick := time.NewTicker(t.interval)
		defer tick.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-tick.C:
				if err := t.fn(ctx); err != nil && ctx.Err() == nil {
					t.logger.Error("Periodic task failed", zap.Error(err))
				}
			}
		}
	}()
	t.logger.Info("Ticker started", zap.Duration("interval", t.interval))
	return nil
}

// Stop cancels the current run and waits for it to return
func (t *Ticker) Stop(ctx context.Context) error {
	t.mu.Lock()
	cancel := t.cancel
	t.cancel = nil
	t.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
