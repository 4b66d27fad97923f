package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/infrastructure/persistence"
	"github.com/lats/backend/internal/interfaces/http/dto"
)

// DatabaseProbe is the database surface the health check reads
type DatabaseProbe interface {
	Ping(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// Probe is an optional dependency check such as Redis
type Probe struct {
	Name string
	Ping func(ctx context.Context) error
}

// SystemHandler handles health and system info endpoints
type SystemHandler struct {
	BaseHandler
	version   string
	db        DatabaseProbe
	probes    []Probe
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(version string, db DatabaseProbe, probes ...Probe) *SystemHandler {
	return &SystemHandler{
		version:   version,
		db:        db,
		probes:    probes,
		startTime: time.Now(),
	}
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name" example:"LATS Backend API"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// HealthResponse reports dependency state
type HealthResponse struct {
	Status       string                       `json:"status" example:"healthy"`
	Time         string                       `json:"time" example:"2026-01-23T12:00:00Z"`
	Database     string                       `json:"database" example:"ok"`
	Dependencies map[string]string            `json:"dependencies,omitempty"`
	Pool         *persistence.ConnectionStats `json:"pool,omitempty"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  503 when the database is unreachable. Other dependencies are reported but do not fail the check.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	resp := HealthResponse{Status: "healthy", Time: time.Now().Format(time.RFC3339), Database: "ok"}
	status := http.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "error"
		status = http.StatusServiceUnavailable
	} else if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &stats
	}
	if len(h.probes) > 0 {
		resp.Dependencies = make(map[string]string, len(h.probes))
		for _, p := range h.probes {
			if err := p.Ping(ctx); err != nil {
				resp.Dependencies[p.Name] = "error"
				continue
			}
			resp.Dependencies[p.Name] = "ok"
		}
	}
	c.JSON(status, resp)
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      "LATS Backend API",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}
