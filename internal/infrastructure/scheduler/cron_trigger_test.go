package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubSource struct {
	jobs []*Job
	err  error
	seen []time.Time
}

func (s *stubSource) DueJobs(_ context.Context, now time.Time) ([]*Job, error) {
	s.seen = append(s.seen, now)
	return s.jobs, s.err
}

func TestCronTrigger_SubmitsDueJobs(t *testing.T) {
	release := make(chan struct{})
	s := startScheduler(t, testConfig(), ExecutorFunc(func(ctx context.Context, _ *Job) error {
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	}))
	defer close(release)

	shop := uuid.New()
	src := &stubSource{jobs: []*Job{NewJob(JobKindAutomaticBackup, shop, 0)}}
	trigger := NewCronTrigger(time.Minute, src, s, zap.NewNop())
	fixed := time.Date(2026, 3, 14, 2, 0, 0, 0, time.UTC)
	trigger.now = func() time.Time { return fixed }

	assert.Equal(t, 1, trigger.check(context.Background()))
	require.Len(t, src.seen, 1)
	assert.Equal(t, fixed, src.seen[0])

	// the shop's backup is still running: the next check skips it quietly
	src.jobs = []*Job{NewJob(JobKindAutomaticBackup, shop, 0)}
	assert.Equal(t, 0, trigger.check(context.Background()))
}

func TestCronTrigger_SourceError(t *testing.T) {
	s := startScheduler(t, testConfig(), ExecutorFunc(func(context.Context, *Job) error { return nil }))
	trigger := NewCronTrigger(time.Minute, &stubSource{err: errors.New("db down")}, s, zap.NewNop())
	assert.Equal(t, 0, trigger.check(context.Background()))
}

func TestCronTrigger_StartStop(t *testing.T) {
	s := startScheduler(t, testConfig(), ExecutorFunc(func(context.Context, *Job) error { return nil }))
	trigger := NewCronTrigger(5*time.Millisecond, &stubSource{}, s, zap.NewNop())

	require.NoError(t, trigger.Start(context.Background()))
	require.NoError(t, trigger.Start(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, trigger.Stop(ctx))
	require.NoError(t, trigger.Stop(ctx))
}
