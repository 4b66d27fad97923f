package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// JobSource reports which jobs are due at a given moment, e.g. the shops
// whose automatic backup time has come.
type JobSource interface {
	DueJobs(ctx context.Context, now time.Time) ([]*Job, error)
}

// CronTrigger polls a JobSource on a fixed interval and submits what is due
type CronTrigger struct {
	interval  time.Duration
	source    JobSource
	scheduler *Scheduler
	logger    *zap.Logger
	now       func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCronTrigger creates a trigger that checks source every interval
func NewCronTrigger(interval time.Duration, source JobSource, scheduler *Scheduler, logger *zap.Logger) *CronTrigger {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CronTrigger{
		interval:  interval,
		source:    source,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// Start begins polling
func (c *CronTrigger) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.isRunning {
		return nil
	}
	c.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	go c.runLoop(ctx)

	c.logger.Info("Cron trigger started", zap.Duration("check_interval", c.interval))
	return nil
}

// Stop stops polling
func (c *CronTrigger) Stop(ctx context.Context) error {
	c.mu.Lock()
	if !c.isRunning {
		c.mu.Unlock()
		return nil
	}
	c.isRunning = false
	c.mu.Unlock()

	c.cancel()

	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info("Cron trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *CronTrigger) runLoop(ctx context.Context) {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.check(ctx)
		}
	}
}

// check submits every due job and returns how many were accepted
func (c *CronTrigger) check(ctx context.Context) int {
	jobs, err := c.source.DueJobs(ctx, c.now())
	if err != nil {
		c.logger.Error("Failed to load due jobs", zap.Error(err))
		return 0
	}

	submitted := 0
	for _, job := range jobs {
		err := c.scheduler.SubmitJob(job)
		switch {
		case err == nil:
			submitted++
		case errors.Is(err, ErrJobInFlight):
			// still running from an earlier check
		default:
			c.logger.Error("Failed to submit job",
				zap.String("kind", string(job.Kind)),
				zap.String("tenant_id", job.TenantID.String()),
				zap.Error(err),
			)
		}
	}
	if submitted > 0 {
		c.logger.Info("Submitted due jobs", zap.Int("count", submitted))
	}
	return submitted
}
