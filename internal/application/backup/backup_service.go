package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/backup"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// dumpConcurrency bounds the tables read at once
const dumpConcurrency = 4

// Metrics counts finished backup runs
type Metrics interface {
	BackupFinished(backupType, outcome string)
}

// Options tunes the backup service
type Options struct {
	// StaleAfter without a successful backup turns the status to warning
	StaleAfter time.Duration
	// RestoreEnabled allows restores that write; dry runs are always allowed
	RestoreEnabled bool
	// Location is the shops' timezone for automatic schedules
	Location *time.Location
}

// BackupService creates, lists, restores and prunes tenant snapshots
type BackupService struct {
	records  backup.RecordRepository
	settings backup.SettingsRepository
	dumper   backup.Dumper
	primary  backup.Store
	cloud    backup.Store
	opts     Options
	metrics  Metrics
	logger   *zap.Logger
	now      func() time.Time
}

// NewBackupService creates a new BackupService. cloud may be nil when no
// cloud store is configured.
func NewBackupService(
	records backup.RecordRepository,
	settings backup.SettingsRepository,
	dumper backup.Dumper,
	primary backup.Store,
	cloud backup.Store,
	opts Options,
	logger *zap.Logger,
) *BackupService {
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 48 * time.Hour
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &BackupService{
		records:  records,
		settings: settings,
		dumper:   dumper,
		primary:  primary,
		cloud:    cloud,
		opts:     opts,
		logger:   logger,
		now:      time.Now,
	}
}

// SetMetrics wires the backup counters
func (s *BackupService) SetMetrics(m Metrics) {
	s.metrics = m
}

// GetSettings returns the shop's settings, or the defaults when none are saved
func (s *BackupService) GetSettings(ctx context.Context, tenantID uuid.UUID) (backup.Settings, error) {
	st, err := s.settings.Find(ctx, tenantID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return backup.DefaultSettings(tenantID), nil
		}
		return backup.Settings{}, err
	}
	return *st, nil
}

// UpdateSettings applies the set fields and saves the result
func (s *BackupService) UpdateSettings(ctx context.Context, tenantID uuid.UUID, input UpdateSettingsInput) (backup.Settings, error) {
	st, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return backup.Settings{}, err
	}
	if input.Enabled != nil {
		st.Enabled = *input.Enabled
	}
	if input.Frequency != nil {
		st.Frequency = *input.Frequency
	}
	if input.Time != nil {
		st.Time = *input.Time
	}
	if input.IncludeCloud != nil {
		st.IncludeCloud = *input.IncludeCloud
	}
	if input.MaxBackups != nil {
		st.MaxBackups = *input.MaxBackups
	}
	if input.AutoCleanup != nil {
		st.AutoCleanup = *input.AutoCleanup
	}
	if input.NotifyOnSuccess != nil {
		st.NotifyOnSuccess = *input.NotifyOnSuccess
	}
	if input.NotifyOnFailure != nil {
		st.NotifyOnFailure = *input.NotifyOnFailure
	}
	if err := st.Validate(); err != nil {
		return backup.Settings{}, err
	}
	st.UpdatedAt = s.now()
	if err := s.settings.Save(ctx, &st); err != nil {
		return backup.Settings{}, err
	}
	logger.Ctx(ctx, s.logger).Info("Backup settings updated", zap.Stringer("settings", st))
	return st, nil
}

// Status builds the dashboard header
func (s *BackupService) Status(ctx context.Context, tenantID uuid.UUID) (*StatusResponse, error) {
	records, err := s.records.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	st, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	ov := backup.BuildOverview(records, st, s.now(), s.opts.StaleAfter)
	resp := &StatusResponse{
		TotalBackups: ov.TotalBackups,
		TotalSize:    ov.TotalSize,
		SystemStatus: ov.SystemStatus,
		Settings:     ov.Settings,
	}
	if ov.LastBackup != nil {
		last := ToRecordResponse(ov.LastBackup)
		resp.LastBackup = &last
	}
	return resp, nil
}

// List returns the backup history, newest first
func (s *BackupService) List(ctx context.Context, tenantID uuid.UUID) ([]RecordResponse, error) {
	records, err := s.records.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].StartedAt.After(records[j].StartedAt) })
	out := make([]RecordResponse, len(records))
	for i := range records {
		out[i] = ToRecordResponse(&records[i])
	}
	return out, nil
}

// Statistics aggregates the backup history
func (s *BackupService) Statistics(ctx context.Context, tenantID uuid.UUID) (backup.Statistics, error) {
	records, err := s.records.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return backup.Statistics{}, err
	}
	return backup.ComputeStatistics(records), nil
}

// CreateManual runs a backup now
func (s *BackupService) CreateManual(ctx context.Context, tenantID uuid.UUID) (*RecordResponse, error) {
	st, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	rec, err := s.run(ctx, tenantID, backup.TypeManual, st)
	if rec == nil {
		return nil, err
	}
	resp := ToRecordResponse(rec)
	return &resp, err
}

// RunAutomatic runs the scheduled backup of a shop, marks the day done and
// prunes old backups when auto cleanup is on
func (s *BackupService) RunAutomatic(ctx context.Context, tenantID uuid.UUID) error {
	st, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return err
	}
	_, runErr := s.run(ctx, tenantID, backup.TypeAutomatic, st)

	// a failed day is not retried by the trigger; the job retries instead
	st.LastAutomaticDate = s.now().In(s.opts.Location).Format("2006-01-02")
	if err := s.settings.Save(ctx, &st); err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to record automatic backup date", zap.Error(err))
	}
	if runErr != nil {
		return runErr
	}
	if st.AutoCleanup {
		if _, err := s.CleanOld(ctx, tenantID); err != nil {
			logger.Ctx(ctx, s.logger).Warn("Automatic backup cleanup failed", zap.Error(err))
		}
	}
	return nil
}

// run dumps the tenant's tables, writes the document to the stores and
// records the outcome. The record is returned even when the run failed.
func (s *BackupService) run(ctx context.Context, tenantID uuid.UUID, typ backup.Type, st backup.Settings) (rec *backup.Record, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "backup", "run",
		attribute.String(telemetry.AttrTenantID, tenantID.String()),
		attribute.String(telemetry.AttrBackupType, string(typ)),
	)
	defer telemetry.EndSpan(span, &err)
	log := logger.Ctx(ctx, s.logger).With(zap.String("backup_type", string(typ)))

	rec = backup.NewRecord(tenantID, typ, s.now())
	if err := s.records.Save(ctx, rec); err != nil {
		return nil, err
	}
	log = log.With(zap.String("file_name", rec.FileName))

	location, size, tables, rows, runErr := s.write(ctx, tenantID, rec.FileName, st)
	if runErr != nil {
		rec.Fail(runErr, s.now())
		s.finish(ctx, rec)
		fields := []zap.Field{zap.Error(runErr), zap.Duration("duration", rec.Duration)}
		if st.NotifyOnFailure {
			log.Error("Backup failed", fields...)
		} else {
			log.Warn("Backup failed", fields...)
		}
		return rec, shared.WrapDomainError("BACKUP_FAILED", "Backup failed", runErr)
	}

	rec.Succeed(location, size, tables, rows, s.now())
	s.finish(ctx, rec)
	log.Info("Backup completed",
		zap.String("location", string(location)),
		zap.Int64("size_bytes", size),
		zap.Int("tables", tables),
		zap.Int("records", rows),
		zap.Duration("duration", rec.Duration),
		zap.Bool("notify", st.NotifyOnSuccess),
	)
	return rec, nil
}

func (s *BackupService) finish(ctx context.Context, rec *backup.Record) {
	if err := s.records.Save(ctx, rec); err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to save backup record", zap.Error(err))
	}
	if s.metrics != nil {
		s.metrics.BackupFinished(string(rec.Type), string(rec.Status))
	}
}

// write builds the snapshot and stores it. A failed cloud copy leaves the
// backup local-only.
func (s *BackupService) write(ctx context.Context, tenantID uuid.UUID, key string, st backup.Settings) (backup.Location, int64, int, int, error) {
	snap, err := s.snapshot(ctx, tenantID)
	if err != nil {
		return "", 0, 0, 0, err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", 0, 0, 0, fmt.Errorf("encode snapshot: %w", err)
	}
	size := int64(len(data))

	if err := s.primary.Put(ctx, key, bytes.NewReader(data), size); err != nil {
		return "", 0, 0, 0, fmt.Errorf("write to %s store: %w", s.primary.Name(), err)
	}
	location := backup.LocationLocal
	if st.IncludeCloud && s.cloud != nil {
		if err := s.cloud.Put(ctx, key, bytes.NewReader(data), size); err != nil {
			logger.Ctx(ctx, s.logger).Warn("Cloud backup copy failed",
				zap.String("store", s.cloud.Name()),
				zap.Error(err),
			)
		} else {
			location = backup.LocationBoth
		}
	}
	return location, size, len(snap.Tables), snap.RecordCount(), nil
}

// snapshot dumps every table concurrently
func (s *BackupService) snapshot(ctx context.Context, tenantID uuid.UUID) (*backup.Snapshot, error) {
	snap := &backup.Snapshot{
		Timestamp: s.now().UTC(),
		Version:   backup.SnapshotVersion,
		TenantID:  tenantID,
		Tables:    make(map[string][]map[string]any),
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dumpConcurrency)
	for _, table := range s.dumper.Tables() {
		g.Go(func() error {
			rows, err := s.dumper.Dump(gctx, tenantID, table)
			if err != nil {
				return err
			}
			if rows == nil {
				rows = []map[string]any{}
			}
			mu.Lock()
			snap.Tables[table] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *BackupService) load(ctx context.Context, tenantID, id uuid.UUID) (*backup.Record, error) {
	rec, err := s.records.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("BACKUP_NOT_FOUND", "Backup not found")
		}
		return nil, err
	}
	return rec, nil
}

// Download opens a successful backup's file. The primary store is tried
// first, then the cloud copy.
func (s *BackupService) Download(ctx context.Context, tenantID, id uuid.UUID) (io.ReadCloser, int64, string, error) {
	rec, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, 0, "", err
	}
	if rec.Status != backup.StatusSuccess {
		return nil, 0, "", shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Backup is %s", rec.Status))
	}
	body, size, err := s.open(ctx, rec)
	if err != nil {
		return nil, 0, "", err
	}
	return body, size, rec.FileName, nil
}

func (s *BackupService) open(ctx context.Context, rec *backup.Record) (io.ReadCloser, int64, error) {
	body, size, err := s.primary.Get(ctx, rec.FileName)
	if err == nil {
		return body, size, nil
	}
	if s.cloud == nil || rec.Location == backup.LocationLocal {
		return nil, 0, err
	}
	logger.Ctx(ctx, s.logger).Warn("Backup missing from primary store, using cloud copy",
		zap.String("file_name", rec.FileName),
		zap.Error(err),
	)
	return s.cloud.Get(ctx, rec.FileName)
}

// Restore validates a backup document and, unless DryRun is set, writes its
// rows back in one transaction. Tables the snapshot format does not know
// are reported as skipped.
func (s *BackupService) Restore(ctx context.Context, tenantID uuid.UUID, input RestoreInput) (*backup.RestoreResult, error) {
	if !input.DryRun && !s.opts.RestoreEnabled {
		return nil, shared.NewDomainError("RESTORE_DISABLED", "Restoring backups is disabled on this server")
	}
	data := input.Data
	if input.BackupID != nil {
		rec, err := s.load(ctx, tenantID, *input.BackupID)
		if err != nil {
			return nil, err
		}
		body, _, err := s.open(ctx, rec)
		if err != nil {
			return nil, err
		}
		data, err = io.ReadAll(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("read backup file: %w", err)
		}
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError(shared.ErrInvalidBackup.Code, "Backup file is empty")
	}

	snap, err := backup.ParseSnapshot(data)
	if err != nil {
		return nil, err
	}

	known := make(map[string]bool)
	for _, t := range s.dumper.Tables() {
		known[t] = true
	}
	result := &backup.RestoreResult{
		DryRun:    input.DryRun,
		Timestamp: snap.Timestamp,
		Tables:    make(map[string]int),
	}
	apply := make(map[string][]map[string]any)
	for name, rows := range snap.Tables {
		if !known[name] {
			result.Skipped = append(result.Skipped, name)
			continue
		}
		apply[name] = rows
		result.Tables[name] = len(rows)
		result.TableCount++
		result.RecordCount += len(rows)
	}
	sort.Strings(result.Skipped)

	log := logger.Ctx(ctx, s.logger).With(
		zap.Bool("dry_run", input.DryRun),
		zap.Int("tables", result.TableCount),
		zap.Int("records", result.RecordCount),
	)
	if input.DryRun {
		log.Info("Backup restore validated")
		return result, nil
	}
	if err := s.dumper.Restore(ctx, tenantID, apply); err != nil {
		log.Error("Backup restore failed", zap.Error(err))
		return nil, shared.WrapDomainError("RESTORE_FAILED", "Restore failed, no rows were changed", err)
	}
	log.Warn("Backup restored", zap.Time("snapshot_time", snap.Timestamp))
	return result, nil
}

// CleanOld deletes the backups beyond the newest MaxBackups
func (s *BackupService) CleanOld(ctx context.Context, tenantID uuid.UUID) (*CleanupResult, error) {
	st, err := s.GetSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	records, err := s.records.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	old := backup.SelectForCleanup(records, st.MaxBackups)
	result := &CleanupResult{Kept: len(records) - len(old)}
	log := logger.Ctx(ctx, s.logger)

	for i := range old {
		rec := &old[i]
		if rec.Status == backup.StatusSuccess {
			if err := s.primary.Delete(ctx, rec.FileName); err != nil && !errors.Is(err, shared.ErrNotFound) {
				log.Warn("Failed to delete backup file", zap.String("file_name", rec.FileName), zap.Error(err))
				result.Kept++
				continue
			}
			if s.cloud != nil && rec.Location != backup.LocationLocal {
				if err := s.cloud.Delete(ctx, rec.FileName); err != nil && !errors.Is(err, shared.ErrNotFound) {
					log.Warn("Failed to delete cloud backup copy", zap.String("file_name", rec.FileName), zap.Error(err))
				}
			}
		}
		if err := s.records.Delete(ctx, rec.ID); err != nil {
			return result, err
		}
		result.Deleted++
		result.FreedBytes += rec.SizeBytes
	}
	if result.Deleted > 0 {
		log.Info("Old backups removed",
			zap.Int("deleted", result.Deleted),
			zap.Int64("freed_bytes", result.FreedBytes),
		)
	}
	return result, nil
}

// TestConnection probes the database and every configured store
func (s *BackupService) TestConnection(ctx context.Context) *ConnectionResult {
	result := &ConnectionResult{Healthy: true}
	probe := func(name string, ping func(context.Context) error) {
		check := ConnectionCheck{Name: name, OK: true}
		if err := ping(ctx); err != nil {
			check.OK = false
			check.Error = err.Error()
			result.Healthy = false
		}
		result.Checks = append(result.Checks, check)
	}
	probe("database", s.dumper.Ping)
	probe(s.primary.Name(), s.primary.Ping)
	if s.cloud != nil {
		probe(s.cloud.Name(), s.cloud.Ping)
	}
	return result
}
