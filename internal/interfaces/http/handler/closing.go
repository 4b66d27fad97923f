package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	closingapp "github.com/lats/backend/internal/application/closing"
	"github.com/lats/backend/internal/domain/closing"
	"github.com/lats/backend/internal/interfaces/http/middleware"
)

// ClosingService is the part of closing.ClosingService the handler uses
type ClosingService interface {
	Summary(ctx context.Context, tenantID uuid.UUID, date string) (*closing.DailySummary, error)
	Status(ctx context.Context, tenantID uuid.UUID, date string) (*closing.DayStatus, error)
	Close(ctx context.Context, tenantID uuid.UUID, input closingapp.CloseDayInput) (*closingapp.ClosureResponse, error)
	PasscodeStatus(ctx context.Context, tenantID uuid.UUID) (*closingapp.PasscodeStatusResponse, error)
	SetPasscode(ctx context.Context, tenantID uuid.UUID, input closingapp.SetPasscodeInput) error
	History(ctx context.Context, tenantID uuid.UUID, from, to string) ([]closingapp.ClosureResponse, error)
	ExportCSV(ctx context.Context, tenantID uuid.UUID, date string) ([]byte, string, error)
}

// ClosingHandler handles the daily closing workflow
type ClosingHandler struct {
	BaseHandler
	closingService ClosingService
}

// NewClosingHandler creates a new ClosingHandler
func NewClosingHandler(closingService ClosingService) *ClosingHandler {
	return &ClosingHandler{closingService: closingService}
}

// CloseDayRequest finalizes a business day
type CloseDayRequest struct {
	Date     string `json:"date" binding:"omitempty,datetime=2006-01-02" example:"2026-03-15"`
	Passcode string `json:"passcode" binding:"required,min=4,max=12" example:"1234"`
}

// SetPasscodeRequest creates or changes the closing passcode
type SetPasscodeRequest struct {
	CurrentPasscode string `json:"current_passcode" binding:"max=12"`
	NewPasscode     string `json:"new_passcode" binding:"required,min=4,max=12,numeric" example:"4821"`
}

type dayQuery struct {
	Date string `form:"date" binding:"omitempty,datetime=2006-01-02"`
}

type rangeQuery struct {
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// Summary godoc
// @ID           closingSummary
// @Summary      Totals of a business day
// @Description  Only completed sales count; split payments count once per method
// @Tags         closing
// @Produce      json
// @Param        date query string false "Business day, defaults to today" example(2026-03-15)
// @Success      200 {object} APIResponse[closing.DailySummary]
// @Security     BearerAuth
// @Router       /closing/summary [get]
func (h *ClosingHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q dayQuery
	if !h.bindQuery(c, &q) {
		return
	}
	summary, err := h.closingService.Summary(c.Request.Context(), tenantID, q.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Status godoc
// @ID           closingStatus
// @Summary      Whether a day is closed
// @Tags         closing
// @Produce      json
// @Param        date query string false "Business day, defaults to today"
// @Success      200 {object} APIResponse[closing.DayStatus]
// @Security     BearerAuth
// @Router       /closing/status [get]
func (h *ClosingHandler) Status(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q dayQuery
	if !h.bindQuery(c, &q) {
		return
	}
	status, err := h.closingService.Status(c.Request.Context(), tenantID, q.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Close godoc
// @ID           closeDay
// @Summary      Close a business day
// @Description  Requires the shop's closing passcode. Five wrong attempts lock closing for fifteen minutes.
// @Tags         closing
// @Accept       json
// @Produce      json
// @Param        request body CloseDayRequest true "Closing"
// @Success      201 {object} APIResponse[closingapp.ClosureResponse]
// @Failure      403 {object} ErrorResponse "Wrong passcode"
// @Failure      409 {object} ErrorResponse "Day already closed"
// @Failure      422 {object} ErrorResponse "Passcode not set"
// @Failure      423 {object} ErrorResponse "Locked out"
// @Security     BearerAuth
// @Router       /closing/close [post]
func (h *ClosingHandler) Close(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req CloseDayRequest
	if !h.bindJSON(c, &req) {
		return
	}
	closure, err := h.closingService.Close(c.Request.Context(), tenantID, closingapp.CloseDayInput{
		Date:     req.Date,
		Passcode: req.Passcode,
		Role:     middleware.GetJWTRole(c),
		UserID:   userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, closure)
}

// PasscodeStatus godoc
// @ID           closingPasscodeStatus
// @Summary      Whether a closing passcode is configured
// @Tags         closing
// @Produce      json
// @Success      200 {object} APIResponse[closingapp.PasscodeStatusResponse]
// @Security     BearerAuth
// @Router       /closing/passcode [get]
func (h *ClosingHandler) PasscodeStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	status, err := h.closingService.PasscodeStatus(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// SetPasscode godoc
// @ID           setClosingPasscode
// @Summary      Set or change the closing passcode
// @Description  The first passcode needs no current passcode; later changes do
// @Tags         closing
// @Accept       json
// @Produce      json
// @Param        request body SetPasscodeRequest true "Passcode"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /closing/passcode [put]
func (h *ClosingHandler) SetPasscode(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req SetPasscodeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	err := h.closingService.SetPasscode(c.Request.Context(), tenantID, closingapp.SetPasscodeInput{
		CurrentPasscode: req.CurrentPasscode,
		NewPasscode:     req.NewPasscode,
		UserID:          userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, MessageData{Message: "Closing passcode updated"})
}

// History godoc
// @ID           closingHistory
// @Summary      Closed days in a range
// @Tags         closing
// @Produce      json
// @Param        from query string false "First day, defaults to thirty days ago"
// @Param        to query string false "Last day, defaults to today"
// @Success      200 {object} APIResponse[[]closingapp.ClosureResponse]
// @Security     BearerAuth
// @Router       /closing/history [get]
func (h *ClosingHandler) History(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q rangeQuery
	if !h.bindQuery(c, &q) {
		return
	}
	closures, err := h.closingService.History(c.Request.Context(), tenantID, q.From, q.To)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, closures)
}

// Export godoc
// @ID           closingExport
// @Summary      Daily sales report as CSV
// @Tags         closing
// @Produce      text/csv
// @Param        date query string false "Business day, defaults to today"
// @Success      200 {file} binary
// @Security     BearerAuth
// @Router       /closing/export [get]
func (h *ClosingHandler) Export(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var q dayQuery
	if !h.bindQuery(c, &q) {
		return
	}
	data, name, err := h.closingService.ExportCSV(c.Request.Context(), tenantID, q.Date)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
