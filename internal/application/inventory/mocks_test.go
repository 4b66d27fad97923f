package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of inventory.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]inventory.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Product), args.Error(1)
}

func (m *MockProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Product, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Product), args.Error(1)
}

func (m *MockProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *inventory.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *MockProductRepository) ApplyMovement(ctx context.Context, product *inventory.Product, movement *inventory.StockMovement) error {
	return m.Called(ctx, product, movement).Error(0)
}

// MockSparePartRepository is a mock implementation of inventory.SparePartRepository
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

// MockStockMovementRepository is a mock implementation of inventory.StockMovementRepository
type MockStockMovementRepository struct {
	mock.Mock
}

func (m *MockStockMovementRepository) FindByItem(ctx context.Context, tenantID uuid.UUID, itemType inventory.ItemType, itemID uuid.UUID, limit int) ([]inventory.StockMovement, error) {
	args := m.Called(ctx, tenantID, itemType, itemID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.StockMovement), args.Error(1)
}
