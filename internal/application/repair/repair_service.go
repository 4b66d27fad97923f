package repair

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/repair"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"github.com/lats/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const unknownPartName = "Unknown Part"

// RepairService manages the spare parts requested for device repairs
type RepairService struct {
	repairRepo     repair.RepairPartRepository
	sparePartRepo  inventory.SparePartRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewRepairService creates a new RepairService
func NewRepairService(repairRepo repair.RepairPartRepository, sparePartRepo inventory.SparePartRepository, logger *zap.Logger) *RepairService {
	return &RepairService{
		repairRepo:    repairRepo,
		sparePartRepo: sparePartRepo,
		logger:        logger,
		now:           time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *RepairService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

func (s *RepairService) publish(ctx context.Context, parts ...*repair.RepairPart) {
	if s.eventPublisher == nil {
		return
	}
	var events []shared.DomainEvent
	for _, p := range parts {
		events = append(events, p.PullDomainEvents()...)
	}
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		logger.Ctx(ctx, s.logger).Error("Failed to publish repair part events", zap.Error(err))
	}
}

func (s *RepairService) newPart(tenantID uuid.UUID, input CreateRepairPartInput, sp *inventory.SparePart) (*repair.RepairPart, error) {
	if !sp.IsActive {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Spare part %s is inactive", sp.Name))
	}
	cost := sp.CostPrice
	if input.CostPerUnit != nil {
		cost = *input.CostPerUnit
	}
	part, err := repair.NewRepairPart(tenantID, input.DeviceID, input.SparePartID, input.QuantityNeeded, cost, input.Notes)
	if err != nil {
		return nil, err
	}
	part.SparePartName = sp.Name
	part.SetCreatedBy(input.UserID)
	return part, nil
}

// Create requests a single spare part for a device
func (s *RepairService) Create(ctx context.Context, tenantID uuid.UUID, input CreateRepairPartInput) (*RepairPartResponse, error) {
	sp, err := s.sparePartRepo.FindByIDForTenant(ctx, tenantID, input.SparePartID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SPARE_PART_NOT_FOUND", "Spare part not found")
		}
		return nil, err
	}
	part, err := s.newPart(tenantID, input, sp)
	if err != nil {
		return nil, err
	}
	if err := s.repairRepo.Save(ctx, part); err != nil {
		return nil, err
	}
	s.publish(ctx, part)

	logger.Ctx(ctx, s.logger).Info("Repair part requested",
		zap.String("repair_part_id", part.ID.String()),
		zap.String("device_id", part.DeviceID.String()),
		zap.String("spare_part", part.SparePartName),
		zap.Int("quantity", part.QuantityNeeded),
	)
	resp := ToRepairPartResponse(part)
	return &resp, nil
}

// BulkCreate requests several parts at once. Nothing is stored unless every
// entry is valid.
func (s *RepairService) BulkCreate(ctx context.Context, tenantID uuid.UUID, inputs []CreateRepairPartInput) ([]RepairPartResponse, error) {
	if len(inputs) == 0 {
		return nil, shared.NewDomainError("NO_ITEMS", "At least one repair part is required")
	}

	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if !seen[in.SparePartID] {
			seen[in.SparePartID] = true
			ids = append(ids, in.SparePartID)
		}
	}
	found, err := s.sparePartRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*inventory.SparePart, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	parts := make([]*repair.RepairPart, 0, len(inputs))
	for i, in := range inputs {
		sp, ok := byID[in.SparePartID]
		if !ok {
			return nil, shared.NewDomainError("SPARE_PART_NOT_FOUND", fmt.Sprintf("Entry %d: spare part not found", i+1))
		}
		part, err := s.newPart(tenantID, in, sp)
		if err != nil {
			var de *shared.DomainError
			if errors.As(err, &de) {
				return nil, shared.NewDomainError(de.Code, fmt.Sprintf("Entry %d: %s", i+1, de.Message))
			}
			return nil, err
		}
		parts = append(parts, part)
	}

	if err := s.repairRepo.SaveBatch(ctx, parts); err != nil {
		return nil, err
	}
	s.publish(ctx, parts...)
	logger.Ctx(ctx, s.logger).Info("Repair parts requested", zap.Int("count", len(parts)))

	out := make([]RepairPartResponse, len(parts))
	for i, p := range parts {
		out[i] = ToRepairPartResponse(p)
	}
	return out, nil
}

func (s *RepairService) load(ctx context.Context, tenantID, id uuid.UUID) (*repair.RepairPart, error) {
	part, err := s.repairRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("REPAIR_PART_NOT_FOUND", "Repair part not found")
		}
		return nil, err
	}
	return part, nil
}

// GetByID returns a repair part
func (s *RepairService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RepairPartResponse, error) {
	part, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToRepairPartResponse(part)
	return &resp, nil
}

// Update changes quantity, cost, notes and optionally moves the status
func (s *RepairService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateRepairPartInput) (*RepairPartResponse, error) {
	part, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.QuantityNeeded != nil || input.CostPerUnit != nil || input.Notes != nil {
		qty, cost, notes := part.QuantityNeeded, part.CostPerUnit, part.Notes
		if input.QuantityNeeded != nil {
			qty = *input.QuantityNeeded
		}
		if input.CostPerUnit != nil {
			cost = *input.CostPerUnit
		}
		if input.Notes != nil {
			notes = *input.Notes
		}
		if err := part.Update(qty, cost, notes); err != nil {
			return nil, err
		}
	}
	if input.Status != nil {
		if err := part.ChangeStatus(*input.Status); err != nil {
			return nil, err
		}
	}

	if err := s.repairRepo.Save(ctx, part); err != nil {
		return nil, err
	}
	s.publish(ctx, part)
	resp := ToRepairPartResponse(part)
	return &resp, nil
}

// ChangeStatus moves a part forward in its lifecycle
func (s *RepairService) ChangeStatus(ctx context.Context, tenantID, id uuid.UUID, status repair.PartStatus) (*RepairPartResponse, error) {
	return s.Update(ctx, tenantID, id, UpdateRepairPartInput{Status: &status})
}

// Delete removes a part that has not been used
func (s *RepairService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	part, err := s.load(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !part.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "A used repair part cannot be deleted")
	}
	if err := s.repairRepo.DeleteForTenant(ctx, tenantID, id); err != nil {
		return err
	}
	logger.Ctx(ctx, s.logger).Info("Repair part deleted", zap.String("repair_part_id", id.String()))
	return nil
}

// ListByDevice lists a device's parts, oldest first
func (s *RepairService) ListByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]RepairPartResponse, error) {
	parts, err := s.repairRepo.FindByDevice(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	return ToRepairPartResponses(parts), nil
}

// ListByStatus lists parts in one status across all devices
func (s *RepairService) ListByStatus(ctx context.Context, tenantID uuid.UUID, status repair.PartStatus) ([]RepairPartResponse, error) {
	if !status.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown repair part status: "+status.String())
	}
	parts, err := s.repairRepo.FindByStatus(ctx, tenantID, status)
	if err != nil {
		return nil, err
	}
	return ToRepairPartResponses(parts), nil
}

// RequestedPartNames lists the parts still needed or on order, optionally
// for a single device
func (s *RepairService) RequestedPartNames(ctx context.Context, tenantID uuid.UUID, deviceID *uuid.UUID) ([]RequestedPartResponse, error) {
	parts, err := s.repairRepo.FindByStatus(ctx, tenantID, repair.PartStatusNeeded, repair.PartStatusOrdered)
	if err != nil {
		return nil, err
	}
	out := make([]RequestedPartResponse, 0, len(parts))
	for _, p := range parts {
		if deviceID != nil && p.DeviceID != *deviceID {
			continue
		}
		name := p.SparePartName
		if name == "" {
			name = unknownPartName
		}
		out = append(out, RequestedPartResponse{
			ID:             p.ID,
			Name:           name,
			DeviceID:       p.DeviceID,
			QuantityNeeded: p.QuantityNeeded,
			Status:         p.Status,
		})
	}
	return out, nil
}

// Stats summarizes the parts of a device
func (s *RepairService) Stats(ctx context.Context, tenantID, deviceID uuid.UUID) (*repair.Stats, error) {
	parts, err := s.repairRepo.FindByDevice(ctx, tenantID, deviceID)
	if err != nil {
		return nil, err
	}
	stats := repair.ComputeStats(parts)
	return &stats, nil
}

// Use consumes the part's full quantity from spare part stock and marks it
// used. Stock, usage row, movement and part are committed together.
func (s *RepairService) Use(ctx context.Context, tenantID, id uuid.UUID, input UseRepairPartInput) (_ *RepairPartResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "repair", "use",
		attribute.String(telemetry.AttrTenantID, tenantID.String()),
		attribute.String(telemetry.AttrRepairPart, id.String()),
	)
	defer telemetry.EndSpan(span, &err)
	part, err := s.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if part.Status == repair.PartStatusUsed {
		return nil, shared.NewDomainError("INVALID_STATE", "Repair part has already been used")
	}

	sp, err := s.sparePartRepo.FindByIDForTenant(ctx, tenantID, part.SparePartID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("SPARE_PART_NOT_FOUND", "Spare part not found")
		}
		return nil, err
	}
	if !sp.CanFulfil(part.QuantityNeeded) {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock: %d available, %d needed", sp.Quantity, part.QuantityNeeded))
	}

	movement, err := sp.Consume(part.QuantityNeeded, part.ID.String())
	if err != nil {
		return nil, err
	}
	movement.By(input.UserID)
	movement.Reason = "Used for device repair"

	now := s.now()
	if err := part.MarkUsed(now); err != nil {
		return nil, err
	}
	usage := &inventory.SparePartUsage{
		ID:           uuid.New(),
		TenantID:     tenantID,
		SparePartID:  sp.ID,
		DeviceID:     part.DeviceID,
		RepairPartID: part.ID,
		Quantity:     part.QuantityNeeded,
		Notes:        input.Notes,
		UsedAt:       now,
	}
	if input.UserID != uuid.Nil {
		usage.UsedBy = &input.UserID
	}

	if err := s.repairRepo.RecordUsage(ctx, part, usage, movement); err != nil {
		return nil, err
	}
	s.publish(ctx, part)

	log := logger.Ctx(ctx, s.logger)
	log.Info("Repair part used",
		zap.String("repair_part_id", part.ID.String()),
		zap.String("device_id", part.DeviceID.String()),
		zap.Int("quantity", part.QuantityUsed),
	)
	if sp.IsLow() {
		log.Warn("Spare part stock low",
			zap.String("spare_part_id", sp.ID.String()),
			zap.String("name", sp.Name),
			zap.Int("quantity", sp.Quantity),
			zap.Int("min_quantity", sp.MinQuantity),
		)
	}
	resp := ToRepairPartResponse(part)
	return &resp, nil
}
