package repair

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/repair"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockRepairPartRepository struct {
	mock.Mock
}

func (m *MockRepairPartRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*repair.RepairPart, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repair.RepairPart), args.Error(1)
}

func (m *MockRepairPartRepository) FindByDevice(ctx context.Context, tenantID, deviceID uuid.UUID) ([]repair.RepairPart, error) {
	args := m.Called(ctx, tenantID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repair.RepairPart), args.Error(1)
}

func (m *MockRepairPartRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, statuses ...repair.PartStatus) ([]repair.RepairPart, error) {
	args := m.Called(ctx, tenantID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repair.RepairPart), args.Error(1)
}

func (m *MockRepairPartRepository) Save(ctx context.Context, part *repair.RepairPart) error {
	return m.Called(ctx, part).Error(0)
}

func (m *MockRepairPartRepository) SaveBatch(ctx context.Context, parts []*repair.RepairPart) error {
	return m.Called(ctx, parts).Error(0)
}

func (m *MockRepairPartRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockRepairPartRepository) RecordUsage(ctx context.Context, part *repair.RepairPart, usage *inventory.SparePartUsage, movement *inventory.StockMovement) error {
	return m.Called(ctx, part, usage, movement).Error(0)
}

type MockSparePartRepository struct {
	mock.Mock
}

func (m *MockSparePartRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.SparePart, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.SparePart), args.Error(1)
}

func (m *MockSparePartRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.SparePart, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.SparePart), args.Error(1)
}

func (m *MockSparePartRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.SparePart, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.SparePart), args.Error(1)
}

func (m *MockSparePartRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSparePartRepository) FindLowStock(ctx context.Context, tenantID uuid.UUID) ([]inventory.SparePart, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.SparePart), args.Error(1)
}

func (m *MockSparePartRepository) Save(ctx context.Context, part *inventory.SparePart) error {
	return m.Called(ctx, part).Error(0)
}

func (m *MockSparePartRepository) ApplyMovement(ctx context.Context, part *inventory.SparePart, movement *inventory.StockMovement) error {
	return m.Called(ctx, part, movement).Error(0)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
