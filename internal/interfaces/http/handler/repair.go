package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	repairapp "github.com/lats/backend/internal/application/repair"
	"github.com/lats/backend/internal/domain/repair"
)

// RepairService is the part of repair.RepairService the handler uses
type RepairService interface {
	Create(ctx context.Context, tenantID uuid.UUID, input repairapp.CreateRepairPartInput) (*repairapp.RepairPartResponse, error)
	BulkCreate(ctx context.Context, tenantID uuid.UUID, inputs []repairapp.CreateRepairPartInput) ([]repairapp.RepairPartResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*repairapp.RepairPartResponse, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, input repairapp.UpdateRepairPartInput) (*repairapp.RepairPartResponse, error)
	ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status repair.PartStatus) (*repairapp.RepairPartResponse, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]repairapp.RepairPartResponse, error)
	ListByStatus(ctx context.Context, tenantID uuid.UUID, status repair.PartStatus) ([]repairapp.RepairPartResponse, error)
	RequestedPartNames(ctx context.Context, tenantID uuid.UUID, deviceID *uuid.UUID) ([]repairapp.RequestedPartResponse, error)
	Stats(ctx context.Context, tenantID, deviceID uuid.UUID) (*repair.Stats, error)
	Use(ctx context.Context, tenantID, id uuid.UUID, input repairapp.UseRepairPartInput) (*repairapp.RepairPartResponse, error)
}

// RepairHandler handles spare parts requested for device repairs
type RepairHandler struct {
	BaseHandler
	repairService RepairService
}

// NewRepairHandler creates a new RepairHandler
func NewRepairHandler(repairService RepairService) *RepairHandler {
	return &RepairHandler{repairService: repairService}
}

// CreateRepairPartRequest requests a spare part for a device
// @Description cost_per_unit defaults to the spare part's cost price
type CreateRepairPartRequest struct {
	DeviceID       uuid.UUID        `json:"device_id" binding:"required" swaggertype:"string" format:"uuid"`
	SparePartID    uuid.UUID        `json:"spare_part_id" binding:"required" swaggertype:"string" format:"uuid"`
	QuantityNeeded int              `json:"quantity_needed" binding:"required,gt=0" example:"1"`
	CostPerUnit    *decimal.Decimal `json:"cost_per_unit,omitempty" swaggertype:"string" example:"65000"`
	Notes          string           `json:"notes" binding:"max=1000"`
}

// BulkCreateRepairPartsRequest creates several parts at once, all or nothing
type BulkCreateRepairPartsRequest struct {
	Parts []CreateRepairPartRequest `json:"parts" binding:"required,min=1,max=50,dive"`
}

// UpdateRepairPartRequest changes the fields that are present
type UpdateRepairPartRequest struct {
	QuantityNeeded *int             `json:"quantity_needed,omitempty" binding:"omitempty,gt=0"`
	CostPerUnit    *decimal.Decimal `json:"cost_per_unit,omitempty" swaggertype:"string"`
	Notes          *string          `json:"notes,omitempty" binding:"omitempty,max=1000"`
	Status         *string          `json:"status,omitempty" binding:"omitempty,oneof=needed ordered accepted received"`
}

// ChangeRepairStatusRequest moves a part forward
type ChangeRepairStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=needed ordered accepted received" example:"ordered"`
}

// UseRepairPartRequest consumes a part on its device
type UseRepairPartRequest struct {
	Notes string `json:"notes" binding:"max=1000"`
}

func (r CreateRepairPartRequest) input(userID uuid.UUID) repairapp.CreateRepairPartInput {
	return repairapp.CreateRepairPartInput{
		DeviceID:       r.DeviceID,
		SparePartID:    r.SparePartID,
		QuantityNeeded: r.QuantityNeeded,
		CostPerUnit:    r.CostPerUnit,
		Notes:          r.Notes,
		UserID:         userID,
	}
}

// Create godoc
// @ID           createRepairPart
// @Summary      Request a spare part for a device
// @Tags         repairs
// @Accept       json
// @Produce      json
// @Param        request body CreateRepairPartRequest true "Repair part"
// @Success      201 {object} APIResponse[repairapp.RepairPartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/parts [post]
func (h *RepairHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req CreateRepairPartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	part, err := h.repairService.Create(c.Request.Context(), tenantID, req.input(userID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, part)
}

// BulkCreate godoc
// @ID           bulkCreateRepairParts
// @Summary      Request several spare parts
// @Description  Either every part is created or none is
// @Tags         repairs
// @Accept       json
// @Produce      json
// @Param        request body BulkCreateRepairPartsRequest true "Repair parts"
// @Success      201 {object} APIResponse[[]repairapp.RepairPartResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/parts/bulk [post]
func (h *RepairHandler) BulkCreate(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req BulkCreateRepairPartsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	inputs := make([]repairapp.CreateRepairPartInput, len(req.Parts))
	for i, p := range req.Parts {
		inputs[i] = p.input(userID)
	}
	parts, err := h.repairService.BulkCreate(c.Request.Context(), tenantID, inputs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, parts)
}

// GetByID godoc
// @ID           getRepairPart
// @Summary      Get a repair part
// @Tags         repairs
// @Produce      json
// @Param        id path string true "Repair part ID" format(uuid)
// @Success      200 {object} APIResponse[repairapp.RepairPartResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/parts/{id} [get]
func (h *RepairHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	part, err := h.repairService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

// Update godoc
// @ID           updateRepairPart
// @Summary      Update a repair part
// @Tags         repairs
// @Accept       json
// @Produce      json
// @Param        id path string true "Repair part ID" format(uuid)
// @Param        request body UpdateRepairPartRequest true "Changes"
// @Success      200 {object} APIResponse[repairapp.RepairPartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/parts/{id} [put]
func (h *RepairHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UpdateRepairPartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	input := repairapp.UpdateRepairPartInput{
		QuantityNeeded: req.QuantityNeeded,
		CostPerUnit:    req.CostPerUnit,
		Notes:          req.Notes,
	}
	if req.Status != nil {
		st := repair.PartStatus(*req.Status)
		input.Status = &st
	}
	part, err := h.repairService.Update(c.Request.Context(), tenantID, id, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

// ChangeStatus godoc
// @ID           changeRepairPartStatus
// @Summary      Move a repair part forward
// @Description  Steps may be skipped but never reversed; use the use endpoint to consume a part
// @Tags         repairs
// @Accept       json
// @Produce      json
// @Param        id path string true "Repair part ID" format(uuid)
// @Param        request body ChangeRepairStatusRequest true "Status"
// @Success      200 {object} APIResponse[repairapp.RepairPartResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/parts/{id}/status [patch]
func (h *RepairHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req ChangeRepairStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	part, err := h.repairService.ChangeStatus(c.Request.Context(), tenantID, id, repair.PartStatus(req.Status))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

// Delete godoc
// @ID           deleteRepairPart
// @Summary      Delete a repair part
// @Description  Used parts cannot be deleted
// @Tags         repairs
// @Param        id path string true "Repair part ID" format(uuid)
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/parts/{id} [delete]
func (h *RepairHandler) Delete(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	if err := h.repairService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Use godoc
// @ID           useRepairPart
// @Summary      Consume a part on its device
// @Description  Decrements spare part stock and records the usage in one transaction
// @Tags         repairs
// @Accept       json
// @Produce      json
// @Param        id path string true "Repair part ID" format(uuid)
// @Param        request body UseRepairPartRequest false "Notes"
// @Success      200 {object} APIResponse[repairapp.RepairPartResponse]
// @Failure      422 {object} ErrorResponse "Insufficient stock"
// @Security     BearerAuth
// @Router       /repairs/parts/{id}/use [post]
func (h *RepairHandler) Use(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req UseRepairPartRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	part, err := h.repairService.Use(c.Request.Context(), tenantID, id, repairapp.UseRepairPartInput{
		UserID: userID,
		Notes:  req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, part)
}

// ListByDevice godoc
// @ID           listDeviceRepairParts
// @Summary      Parts requested for a device
// @Tags         repairs
// @Produce      json
// @Param        deviceId path string true "Device ID" format(uuid)
// @Success      200 {object} APIResponse[[]repairapp.RepairPartResponse]
// @Security     BearerAuth
// @Router       /repairs/devices/{deviceId}/parts [get]
func (h *RepairHandler) ListByDevice(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	deviceID, ok := h.uuidParam(c, "deviceId")
	if !ok {
		return
	}
	parts, err := h.repairService.ListByDevice(c.Request.Context(), tenantID, deviceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, parts)
}

// Stats godoc
// @ID           deviceRepairStats
// @Summary      Repair part statistics of a device
// @Tags         repairs
// @Produce      json
// @Param        deviceId path string true "Device ID" format(uuid)
// @Success      200 {object} APIResponse[repair.Stats]
// @Security     BearerAuth
// @Router       /repairs/devices/{deviceId}/stats [get]
func (h *RepairHandler) Stats(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	deviceID, ok := h.uuidParam(c, "deviceId")
	if !ok {
		return
	}
	stats, err := h.repairService.Stats(c.Request.Context(), tenantID, deviceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// ListByStatus godoc
// @ID           listRepairPartsByStatus
// @Summary      Repair parts in a status
// @Tags         repairs
// @Produce      json
// @Param        status path string true "Status" Enums(needed, ordered, accepted, received, used)
// @Success      200 {object} APIResponse[[]repairapp.RepairPartResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/parts/status/{status} [get]
func (h *RepairHandler) ListByStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	status := repair.PartStatus(c.Param("status"))
	if !status.IsValid() {
		h.BadRequest(c, "Unknown repair part status")
		return
	}
	parts, err := h.repairService.ListByStatus(c.Request.Context(), tenantID, status)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, parts)
}

// Requested godoc
// @ID           requestedRepairParts
// @Summary      Parts still waiting to arrive
// @Description  Parts in needed or ordered status, optionally for one device
// @Tags         repairs
// @Produce      json
// @Param        device_id query string false "Device ID" format(uuid)
// @Success      200 {object} APIResponse[[]repairapp.RequestedPartResponse]
// @Security     BearerAuth
// @Router       /repairs/parts/requested [get]
func (h *RepairHandler) Requested(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var deviceID *uuid.UUID
	if raw := c.Query("device_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid device_id")
			return
		}
		deviceID = &id
	}
	parts, err := h.repairService.RequestedPartNames(c.Request.Context(), tenantID, deviceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, parts)
}
