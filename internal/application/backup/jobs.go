package backup

import (
	"context"
	"time"

	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/infrastructure/scheduler"
	"go.uber.org/zap"
)

// automaticBackupRetries is how often a failed scheduled backup is retried
const automaticBackupRetries = 2

// DueJobs lists an automatic backup job for every shop whose schedule has
// come. It is the job source of the backup cron trigger.
func (s *BackupService) DueJobs(ctx context.Context, now time.Time) ([]*scheduler.Job, error) {
	enabled, err := s.settings.FindEnabled(ctx)
	if err != nil {
		return nil, err
	}
	local := now.In(s.opts.Location)
	jobs := make([]*scheduler.Job, 0)
	for _, st := range enabled {
		if st.IsDue(local) {
			jobs = append(jobs, scheduler.NewJob(scheduler.JobKindAutomaticBackup, st.TenantID, automaticBackupRetries))
		}
	}
	return jobs, nil
}

// Register routes the backup job kinds to this service
func (s *BackupService) Register(mux *scheduler.Mux) {
	mux.Handle(scheduler.JobKindAutomaticBackup, scheduler.ExecutorFunc(func(ctx context.Context, job *scheduler.Job) error {
		return s.RunAutomatic(ctx, job.TenantID)
	}))
	mux.Handle(scheduler.JobKindBackupCleanup, scheduler.ExecutorFunc(func(ctx context.Context, job *scheduler.Job) error {
		res, err := s.CleanOld(ctx, job.TenantID)
		if err != nil {
			return err
		}
		logger.Ctx(ctx, s.logger).Debug("Backup cleanup job finished", zap.Int("deleted", res.Deleted))
		return nil
	}))
}

var _ scheduler.JobSource = (*BackupService)(nil)
