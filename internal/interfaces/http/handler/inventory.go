package handler

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/lats/backend/internal/application/inventory"
	"github.com/lats/backend/internal/domain/inventory"
	"github.com/lats/backend/internal/domain/shared"
)

// InventoryService is the part of inventory.InventoryService the handler uses
type InventoryService interface {
	CreateProduct(ctx context.Context, tenantID uuid.UUID, input inventoryapp.CreateProductInput) (*inventoryapp.ProductResponse, error)
	GetProduct(ctx context.Context, tenantID, id uuid.UUID) (*inventoryapp.ProductResponse, error)
	ListProducts(ctx context.Context, tenantID uuid.UUID, filter inventoryapp.ListFilter) (*shared.Paginated[inventoryapp.ProductResponse], error)
	AdjustProduct(ctx context.Context, tenantID, id uuid.UUID, input inventoryapp.AdjustStockInput) (*inventoryapp.ProductResponse, error)
	CreateSparePart(ctx context.Context, tenantID uuid.UUID, input inventoryapp.CreateSparePartInput) (*inventoryapp.SparePartResponse, error)
	GetSparePart(ctx context.Context, tenantID, id uuid.UUID) (*inventoryapp.SparePartResponse, error)
	ListSpareParts(ctx context.Context, tenantID uuid.UUID, filter inventoryapp.ListFilter) (*shared.Paginated[inventoryapp.SparePartResponse], error)
	AdjustSparePart(ctx context.Context, tenantID, id uuid.UUID, input inventoryapp.AdjustStockInput) (*inventoryapp.SparePartResponse, error)
	LowStockSpareParts(ctx context.Context, tenantID uuid.UUID) ([]inventoryapp.SparePartResponse, error)
	Movements(ctx context.Context, tenantID uuid.UUID, itemType inventory.ItemType, itemID uuid.UUID, limit int) ([]inventoryapp.MovementResponse, error)
}

// InventoryHandler handles product and spare part endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// CreateProductRequest creates a sellable product
// @Description Request body for creating a product
type CreateProductRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200" example:"iPhone 12 screen protector"`
	SKU          string          `json:"sku" binding:"required,min=1,max=64" example:"SP-IP12"`
	Category     string          `json:"category" binding:"max=100" example:"accessories"`
	CostPrice    decimal.Decimal `json:"cost_price" swaggertype:"string" example:"2500"`
	SellingPrice decimal.Decimal `json:"selling_price" swaggertype:"string" example:"5000"`
	Quantity     int             `json:"quantity" binding:"gte=0" example:"25"`
	MinQuantity  int             `json:"min_quantity" binding:"gte=0" example:"5"`
}

// CreateSparePartRequest creates a repair spare part
// @Description Request body for creating a spare part
type CreateSparePartRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=200" example:"Samsung A52 LCD"`
	PartNumber   string          `json:"part_number" binding:"required,min=1,max=64" example:"LCD-A52"`
	Category     string          `json:"category" binding:"max=100" example:"screens"`
	Brand        string          `json:"brand" binding:"max=100" example:"Samsung"`
	CostPrice    decimal.Decimal `json:"cost_price" swaggertype:"string" example:"65000"`
	SellingPrice decimal.Decimal `json:"selling_price" swaggertype:"string" example:"95000"`
	Quantity     int             `json:"quantity" binding:"gte=0" example:"3"`
	MinQuantity  int             `json:"min_quantity" binding:"gte=0" example:"1"`
}

// AdjustStockRequest is a signed manual correction
// @Description Positive deltas add stock, negative deltas remove it
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required,ne=0" example:"-2"`
	Reason string `json:"reason" binding:"required,max=500" example:"Damaged in storage"`
}

// CreateProduct godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[inventoryapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}

	p, err := h.inventoryService.CreateProduct(c.Request.Context(), tenantID, inventoryapp.CreateProductInput{
		Name:         req.Name,
		SKU:          req.SKU,
		Category:     req.Category,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// GetProduct godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	p, err := h.inventoryService.GetProduct(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// ListProducts godoc
// @ID           listProducts
// @Summary      List products
// @Tags         inventory
// @Produce      json
// @Param        search query string false "Name or SKU"
// @Param        category query string false "Category"
// @Param        active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventoryapp.ProductResponse]
// @Security     BearerAuth
// @Router       /inventory/products [get]
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter inventoryapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.inventoryService.ListProducts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AdjustProduct godoc
// @ID           adjustProduct
// @Summary      Adjust product stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[inventoryapp.ProductResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/products/{id}/adjust [post]
func (h *InventoryHandler) AdjustProduct(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	p, err := h.inventoryService.AdjustProduct(c.Request.Context(), tenantID, id, inventoryapp.AdjustStockInput{
		Delta:  req.Delta,
		Reason: req.Reason,
		UserID: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, p)
}

// CreateSparePart godoc
// @ID           createSparePart
// @Summary      Create a spare part
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body CreateSparePartRequest true "Spare part"
// @Success      201 {object} APIResponse[inventoryapp.SparePartResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/spare-parts [post]
func (h *InventoryHandler) CreateSparePart(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateSparePartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sp, err := h.inventoryService.CreateSparePart(c.Request.Context(), tenantID, inventoryapp.CreateSparePartInput{
		Name:         req.Name,
		PartNumber:   req.PartNumber,
		Category:     req.Category,
		Brand:        req.Brand,
		CostPrice:    req.CostPrice,
		SellingPrice: req.SellingPrice,
		Quantity:     req.Quantity,
		MinQuantity:  req.MinQuantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sp)
}

// GetSparePart godoc
// @ID           getSparePart
// @Summary      Get a spare part
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Spare part ID" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.SparePartResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/spare-parts/{id} [get]
func (h *InventoryHandler) GetSparePart(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	sp, err := h.inventoryService.GetSparePart(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sp)
}

// ListSpareParts godoc
// @ID           listSpareParts
// @Summary      List spare parts
// @Tags         inventory
// @Produce      json
// @Param        search query string false "Name or part number"
// @Param        category query string false "Category"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]inventoryapp.SparePartResponse]
// @Security     BearerAuth
// @Router       /inventory/spare-parts [get]
func (h *InventoryHandler) ListSpareParts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter inventoryapp.ListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.inventoryService.ListSpareParts(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AdjustSparePart godoc
// @ID           adjustSparePart
// @Summary      Adjust spare part stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Spare part ID" format(uuid)
// @Param        request body AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[inventoryapp.SparePartResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/spare-parts/{id}/adjust [post]
func (h *InventoryHandler) AdjustSparePart(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sp, err := h.inventoryService.AdjustSparePart(c.Request.Context(), tenantID, id, inventoryapp.AdjustStockInput{
		Delta:  req.Delta,
		Reason: req.Reason,
		UserID: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sp)
}

// LowStockSpareParts godoc
// @ID           lowStockSpareParts
// @Summary      Spare parts at or below their minimum
// @Tags         inventory
// @Produce      json
// @Success      200 {object} APIResponse[[]inventoryapp.SparePartResponse]
// @Security     BearerAuth
// @Router       /inventory/spare-parts/low-stock [get]
func (h *InventoryHandler) LowStockSpareParts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	parts, err := h.inventoryService.LowStockSpareParts(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, parts)
}

// ProductMovements godoc
// @ID           productMovements
// @Summary      Stock ledger of a product
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        limit query int false "Maximum rows" default(50)
// @Success      200 {object} APIResponse[[]inventoryapp.MovementResponse]
// @Security     BearerAuth
// @Router       /inventory/products/{id}/movements [get]
func (h *InventoryHandler) ProductMovements(c *gin.Context) {
	h.movements(c, inventory.ItemTypeProduct)
}

// SparePartMovements godoc
// @ID           sparePartMovements
// @Summary      Stock ledger of a spare part
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Spare part ID" format(uuid)
// @Param        limit query int false "Maximum rows" default(50)
// @Success      200 {object} APIResponse[[]inventoryapp.MovementResponse]
// @Security     BearerAuth
// @Router       /inventory/spare-parts/{id}/movements [get]
func (h *InventoryHandler) SparePartMovements(c *gin.Context) {
	h.movements(c, inventory.ItemTypeSparePart)
}

func (h *InventoryHandler) movements(c *gin.Context, itemType inventory.ItemType) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 || limit > 500 {
		h.BadRequest(c, "limit must be between 1 and 500")
		return
	}
	rows, err := h.inventoryService.Movements(c.Request.Context(), tenantID, itemType, id, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}
