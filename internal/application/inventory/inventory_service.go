package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

const defaultMovementLimit = 50

// InventoryService manages products, spare parts and manual stock changes
type InventoryService struct {
	productRepo   inventory.ProductRepository
	sparePartRepo inventory.SparePartRepository
	movementRepo  inventory.StockMovementRepository
	logger        *zap.Logger
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(
	productRepo inventory.ProductRepository,
	sparePartRepo inventory.SparePartRepository,
	movementRepo inventory.StockMovementRepository,
	logger *zap.Logger,
) *InventoryService {
	return &InventoryService{
		productRepo:   productRepo,
		sparePartRepo: sparePartRepo,
		movementRepo:  movementRepo,
		logger:        logger,
	}
}

// CreateProduct adds a product. SKUs are unique per shop when given.
func (s *InventoryService) CreateProduct(ctx context.Context, tenantID uuid.UUID, input CreateProductInput) (*ProductResponse, error) {
	sku := strings.TrimSpace(input.SKU)
	if sku != "" {
		exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, sku)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
		}
	}

	product, err := inventory.NewProduct(tenantID, input.Name, sku, input.CostPrice, input.SellingPrice, input.Quantity)
	if err != nil {
		return nil, err
	}
	if input.MinQuantity < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	product.MinQuantity = input.MinQuantity
	product.Category = strings.TrimSpace(input.Category)

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetProduct returns one product
func (s *InventoryService) GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// ListProducts returns a page of products
func (s *InventoryService) ListProducts(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (*shared.Paginated[ProductResponse], error) {
	f := filter.toShared()
	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]ProductResponse, len(products))
	for i := range products {
		items[i] = ToProductResponse(&products[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// AdjustProduct applies a signed correction to a product's stock
func (s *InventoryService) AdjustProduct(ctx context.Context, tenantID, id uuid.UUID, input AdjustStockInput) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	var movement *inventory.StockMovement
	switch {
	case input.Delta > 0:
		movement, err = product.Increase(input.Delta, inventory.MovementRestock, "")
	case input.Delta < 0:
		movement, err = product.Decrease(-input.Delta, inventory.MovementAdjustment, "")
	default:
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Adjustment cannot be zero")
	}
	if err != nil {
		return nil, err
	}
	movement.Reason = strings.TrimSpace(input.Reason)
	movement.By(input.UserID)

	if err := s.productRepo.ApplyMovement(ctx, product, movement); err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("Product stock adjusted",
		zap.String("product_id", product.ID.String()),
		zap.Int("delta", input.Delta),
		zap.Int("quantity", product.Quantity),
	)
	resp := ToProductResponse(product)
	return &resp, nil
}

// CreateSparePart adds a spare part to the repair stock
func (s *InventoryService) CreateSparePart(ctx context.Context, tenantID uuid.UUID, input CreateSparePartInput) (*SparePartResponse, error) {
	part, err := inventory.NewSparePart(tenantID, input.Name, input.PartNumber, input.CostPrice, input.SellingPrice, input.Quantity, input.MinQuantity)
	if err != nil {
		return nil, err
	}
	part.Category = strings.TrimSpace(input.Category)
	part.Brand = strings.TrimSpace(input.Brand)

	if err := s.sparePartRepo.Save(ctx, part); err != nil {
		return nil, err
	}
	logger.Ctx(ctx, s.logger).Info("Spare part created", zap.String("spare_part_id", part.ID.String()))
	resp := ToSparePartResponse(part)
	return &resp, nil
}

// GetSparePart returns one spare part
func (s *InventoryService) GetSparePart(ctx context.Context, tenantID, id uuid.UUID) (*SparePartResponse, error) {
	part, err := s.sparePartRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToSparePartResponse(part)
	return &resp, nil
}

// ListSpareParts returns a page of spare parts
func (s *InventoryService) ListSpareParts(ctx context.Context, tenantID uuid.UUID, filter ListFilter) (*shared.Paginated[SparePartResponse], error) {
	f := filter.toShared()
	parts, err := s.sparePartRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.sparePartRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]SparePartResponse, len(parts))
	for i := range parts {
		items[i] = ToSparePartResponse(&parts[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}

// AdjustSparePart applies a signed correction to a spare part's stock
func (s *InventoryService) AdjustSparePart(ctx context.Context, tenantID, id uuid.UUID, input AdjustStockInput) (*SparePartResponse, error) {
	part, err := s.sparePartRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	movement, err := part.Adjust(input.Delta, strings.TrimSpace(input.Reason))
	if err != nil {
		return nil, err
	}
	movement.By(input.UserID)

	if err := s.sparePartRepo.ApplyMovement(ctx, part, movement); err != nil {
		return nil, err
	}
	log := logger.Ctx(ctx, s.logger)
	log.Info("Spare part stock adjusted",
		zap.String("spare_part_id", part.ID.String()),
		zap.Int("delta", input.Delta),
		zap.Int("quantity", part.Quantity),
	)
	if part.IsLow() {
		log.Warn("Spare part below reorder level",
			zap.String("spare_part_id", part.ID.String()),
			zap.Int("quantity", part.Quantity),
			zap.Int("min_quantity", part.MinQuantity),
		)
	}
	resp := ToSparePartResponse(part)
	return &resp, nil
}

// LowStockSpareParts lists active spare parts at or below their reorder level
func (s *InventoryService) LowStockSpareParts(ctx context.Context, tenantID uuid.UUID) ([]SparePartResponse, error) {
	parts, err := s.sparePartRepo.FindLowStock(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	items := make([]SparePartResponse, len(parts))
	for i := range parts {
		items[i] = ToSparePartResponse(&parts[i])
	}
	return items, nil
}

// Movements returns the most recent ledger lines of one item
func (s *InventoryService) Movements(ctx context.Context, tenantID uuid.UUID, itemType inventory.ItemType, itemID uuid.UUID, limit int) ([]MovementResponse, error) {
	if limit <= 0 || limit > 500 {
		limit = defaultMovementLimit
	}
	movements, err := s.movementRepo.FindByItem(ctx, tenantID, itemType, itemID, limit)
	if err != nil {
		return nil, err
	}
	items := make([]MovementResponse, len(movements))
	for i := range movements {
		items[i] = ToMovementResponse(&movements[i])
	}
	return items, nil
}
