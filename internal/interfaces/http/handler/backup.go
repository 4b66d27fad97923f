package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	backupapp "github.com/lats/backend/internal/application/backup"
	"github.com/lats/backend/internal/domain/backup"
)

// maxRestoreUpload caps an uploaded backup document
const maxRestoreUpload = 256 << 20

// BackupService is the backup surface the handler uses
type BackupService interface {
	GetSettings(ctx context.Context, tenantID uuid.UUID) (backup.Settings, error)
	UpdateSettings(ctx context.Context, tenantID uuid.UUID, input backupapp.UpdateSettingsInput) (backup.Settings, error)
	Status(ctx context.Context, tenantID uuid.UUID) (*backupapp.StatusResponse, error)
	List(ctx context.Context, tenantID uuid.UUID) ([]backupapp.RecordResponse, error)
	Statistics(ctx context.Context, tenantID uuid.UUID) (backup.Statistics, error)
	CreateManual(ctx context.Context, tenantID uuid.UUID) (*backupapp.RecordResponse, error)
	Download(ctx context.Context, tenantID, id uuid.UUID) (io.ReadCloser, int64, string, error)
	Restore(ctx context.Context, tenantID uuid.UUID, input backupapp.RestoreInput) (*backup.RestoreResult, error)
	CleanOld(ctx context.Context, tenantID uuid.UUID) (*backupapp.CleanupResult, error)
	TestConnection(ctx context.Context) *backupapp.ConnectionResult
}

// BackupHandler handles backup endpoints
type BackupHandler struct {
	BaseHandler
	service BackupService
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(service BackupService) *BackupHandler {
	return &BackupHandler{service: service}
}

// UpdateBackupSettingsRequest changes the fields that are present
type UpdateBackupSettingsRequest struct {
	Enabled         *bool   `json:"enabled"`
	Frequency       *string `json:"frequency" binding:"omitempty,oneof=daily weekly monthly" example:"daily"`
	Time            *string `json:"time" binding:"omitempty,hhmm" example:"02:00"`
	IncludeCloud    *bool   `json:"include_cloud"`
	MaxBackups      *int    `json:"max_backups" binding:"omitempty,min=1,max=365" example:"30"`
	AutoCleanup     *bool   `json:"auto_cleanup"`
	NotifyOnSuccess *bool   `json:"notify_on_success"`
	NotifyOnFailure *bool   `json:"notify_on_failure"`
}

func (r UpdateBackupSettingsRequest) input() backupapp.UpdateSettingsInput {
	in := backupapp.UpdateSettingsInput{
		Enabled:         r.Enabled,
		Time:            r.Time,
		IncludeCloud:    r.IncludeCloud,
		MaxBackups:      r.MaxBackups,
		AutoCleanup:     r.AutoCleanup,
		NotifyOnSuccess: r.NotifyOnSuccess,
		NotifyOnFailure: r.NotifyOnFailure,
	}
	if r.Frequency != nil {
		f := backup.Frequency(*r.Frequency)
		in.Frequency = &f
	}
	return in
}

// List godoc
// @ID           listBackups
// @Summary      List backups, newest first
// @Tags         backups
// @Produce      json
// @Success      200 {object} APIResponse[[]backupapp.RecordResponse]
// @Security     BearerAuth
// @Router       /backups [get]
func (h *BackupHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	list, err := h.service.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Create godoc
// @ID           createBackup
// @Summary      Take a manual backup now
// @Tags         backups
// @Produce      json
// @Success      201 {object} APIResponse[backupapp.RecordResponse]
// @Failure      500 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /backups [post]
func (h *BackupHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	rec, err := h.service.CreateManual(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rec)
}

// Status godoc
// @ID           backupStatus
// @Summary      Last backup, totals and system status
// @Tags         backups
// @Produce      json
// @Success      200 {object} APIResponse[backupapp.StatusResponse]
// @Security     BearerAuth
// @Router       /backups/status [get]
func (h *BackupHandler) Status(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	status, err := h.service.Status(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Statistics godoc
// @ID           backupStatistics
// @Summary      Backup counts and sizes
// @Tags         backups
// @Produce      json
// @Success      200 {object} APIResponse[backup.Statistics]
// @Security     BearerAuth
// @Router       /backups/statistics [get]
func (h *BackupHandler) Statistics(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	stats, err := h.service.Statistics(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// TestConnection godoc
// @ID           backupTestConnection
// @Summary      Probe the database and backup stores
// @Tags         backups
// @Produce      json
// @Success      200 {object} APIResponse[backupapp.ConnectionResult]
// @Security     BearerAuth
// @Router       /backups/test-connection [post]
func (h *BackupHandler) TestConnection(c *gin.Context) {
	h.Success(c, h.service.TestConnection(c.Request.Context()))
}

// Download godoc
// @ID           downloadBackup
// @Summary      Download a backup document
// @Tags         backups
// @Produce      application/json
// @Param        id path string true "Backup ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /backups/{id}/download [get]
func (h *BackupHandler) Download(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	body, size, name, err := h.service.Download(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer body.Close()
	c.DataFromReader(http.StatusOK, size, "application/json", body, map[string]string{
		"Content-Disposition": `attachment; filename="` + name + `"`,
	})
}

// Restore godoc
// @ID           restoreBackup
// @Summary      Restore from an upload or a stored backup
// @Description  Send the document as multipart field "file" or as the raw body, or pass backup_id.
// @Description  dry_run=true validates without writing.
// @Tags         backups
// @Accept       multipart/form-data
// @Accept       json
// @Produce      json
// @Param        file formData file false "Backup document"
// @Param        backup_id query string false "Stored backup" format(uuid)
// @Param        dry_run query bool false "Validate only"
// @Success      200 {object} APIResponse[backup.RestoreResult]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /backups/restore [post]
func (h *BackupHandler) Restore(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	input := backupapp.RestoreInput{}
	if raw := c.Query("dry_run"); raw != "" {
		dry, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "dry_run must be true or false")
			return
		}
		input.DryRun = dry
	}
	if raw := c.Query("backup_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid backup_id")
			return
		}
		input.BackupID = &id
	} else {
		data, err := h.readUpload(c)
		if err != nil {
			h.BadRequest(c, "Failed to read backup file")
			return
		}
		input.Data = data
	}
	result, err := h.service.Restore(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

func (h *BackupHandler) readUpload(c *gin.Context) ([]byte, error) {
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxRestoreUpload))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxRestoreUpload))
}

// Cleanup godoc
// @ID           cleanupBackups
// @Summary      Delete backups beyond the retention count
// @Tags         backups
// @Produce      json
// @Success      200 {object} APIResponse[backupapp.CleanupResult]
// @Security     BearerAuth
// @Router       /backups/cleanup [post]
func (h *BackupHandler) Cleanup(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	result, err := h.service.CleanOld(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// GetSettings godoc
// @ID           getBackupSettings
// @Summary      Automatic backup settings
// @Tags         backups
// @Produce      json
// @Success      200 {object} APIResponse[backup.Settings]
// @Security     BearerAuth
// @Router       /backups/settings [get]
func (h *BackupHandler) GetSettings(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	st, err := h.service.GetSettings(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, st)
}

// UpdateSettings godoc
// @ID           updateBackupSettings
// @Summary      Change automatic backup settings
// @Tags         backups
// @Accept       json
// @Produce      json
// @Param        request body UpdateBackupSettingsRequest true "Settings"
// @Success      200 {object} APIResponse[backup.Settings]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /backups/settings [put]
func (h *BackupHandler) UpdateSettings(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req UpdateBackupSettingsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	st, err := h.service.UpdateSettings(c.Request.Context(), tenantID, req.input())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, st)
}
