package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	salesapp "github.com/lats/backend/internal/application/sales"
	"github.com/lats/backend/internal/domain/shared"
)

// SaleService is the part of sales.SaleService the handler uses
type SaleService interface {
	ProcessSale(ctx context.Context, tenantID uuid.UUID, input salesapp.ProcessSaleInput) (*salesapp.SaleResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*salesapp.SaleResponse, error)
	GetByNumber(ctx context.Context, tenantID uuid.UUID, saleNumber string) (*salesapp.SaleResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter salesapp.SaleListFilter) (*shared.Paginated[salesapp.SaleResponse], error)
	Refund(ctx context.Context, tenantID, id uuid.UUID, input salesapp.RefundInput) (*salesapp.SaleResponse, error)
	Receipt(ctx context.Context, tenantID, saleID uuid.UUID) (*salesapp.ReceiptResponse, error)
	ReceiptPDF(ctx context.Context, tenantID, saleID uuid.UUID) ([]byte, string, error)
}

// SalesHandler handles checkout and sale history endpoints
type SalesHandler struct {
	BaseHandler
	saleService SaleService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(saleService SaleService) *SalesHandler {
	return &SalesHandler{saleService: saleService}
}

// SaleItemRequest is one product line
type SaleItemRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required" swaggertype:"string" format:"uuid"`
	Quantity  int              `json:"quantity" binding:"required,gt=0" example:"1"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty" swaggertype:"string" example:"45000"`
}

// PaymentRequest is one tender of a possibly split payment
type PaymentRequest struct {
	Method    string          `json:"method" binding:"required,max=50" example:"mobile_money"`
	Amount    decimal.Decimal `json:"amount" swaggertype:"string" example:"45000"`
	Reference string          `json:"reference" binding:"max=100" example:"MP240315.1042.A12345"`
}

// ProcessSaleRequest is a checkout from the till
// @Description Payments must add up to the sale total. Without payments the
// @Description whole total is recorded under payment_method.
type ProcessSaleRequest struct {
	CustomerID    uuid.UUID         `json:"customer_id" binding:"required" swaggertype:"string" format:"uuid"`
	Items         []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Payments      []PaymentRequest  `json:"payments" binding:"omitempty,dive"`
	PaymentMethod string            `json:"payment_method" binding:"max=50" example:"cash"`
	DiscountType  string            `json:"discount_type" binding:"omitempty,oneof=fixed percentage" example:"percentage"`
	DiscountValue decimal.Decimal   `json:"discount_value" swaggertype:"string" example:"10"`
	TaxAmount     *decimal.Decimal  `json:"tax_amount,omitempty" swaggertype:"string"`
	Notes         string            `json:"notes" binding:"max=1000"`
}

// RefundRequest reverses a completed sale
type RefundRequest struct {
	Reason string `json:"reason" binding:"required,max=500" example:"Wrong model"`
}

// Create godoc
// @ID           createSale
// @Summary      Process a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body ProcessSaleRequest true "Sale"
// @Success      201 {object} APIResponse[salesapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Day already closed"
// @Failure      422 {object} ErrorResponse "Insufficient stock or payment mismatch"
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req ProcessSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}

	input := salesapp.ProcessSaleInput{
		CustomerID:    req.CustomerID,
		Items:         make([]salesapp.SaleItemInput, len(req.Items)),
		Payments:      make([]salesapp.PaymentInput, len(req.Payments)),
		PaymentMethod: req.PaymentMethod,
		DiscountType:  req.DiscountType,
		DiscountValue: req.DiscountValue,
		TaxAmount:     req.TaxAmount,
		Notes:         req.Notes,
		SoldBy:        userID,
	}
	for i, it := range req.Items {
		input.Items[i] = salesapp.SaleItemInput{ProductID: it.ProductID, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	for i, p := range req.Payments {
		input.Payments[i] = salesapp.PaymentInput{Method: p.Method, Amount: p.Amount, Reference: p.Reference}
	}

	sale, err := h.saleService.ProcessSale(c.Request.Context(), tenantID, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID godoc
// @ID           getSale
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SalesHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	sale, err := h.saleService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// GetByNumber godoc
// @ID           getSaleByNumber
// @Summary      Get a sale by its number
// @Tags         sales
// @Produce      json
// @Param        number path string true "Sale number" example(SALE-12345678-AB12)
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/number/{number} [get]
func (h *SalesHandler) GetByNumber(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	sale, err := h.saleService.GetByNumber(c.Request.Context(), tenantID, c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        search query string false "Sale number"
// @Param        date query string false "Business day (YYYY-MM-DD)"
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Param        status query string false "Status" Enums(pending, completed, failed, refunded)
// @Param        payment_method query string false "Payment method"
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]salesapp.SaleResponse]
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter salesapp.SaleListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	page, err := h.saleService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Refund godoc
// @ID           refundSale
// @Summary      Refund a sale
// @Description  Restocks the items. Refunds on closed days are rejected.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body RefundRequest true "Refund"
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/refund [post]
func (h *SalesHandler) Refund(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	var req RefundRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sale, err := h.saleService.Refund(c.Request.Context(), tenantID, id, salesapp.RefundInput{
		Reason: req.Reason,
		UserID: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Receipt godoc
// @ID           saleReceipt
// @Summary      Receipt of a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.ReceiptResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	receipt, err := h.saleService.Receipt(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// ReceiptPDF godoc
// @ID           saleReceiptPDF
// @Summary      Receipt of a sale as PDF
// @Tags         sales
// @Produce      application/pdf
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {file} binary
// @Failure      503 {object} ErrorResponse "PDF rendering disabled"
// @Security     BearerAuth
// @Router       /sales/{id}/receipt.pdf [get]
func (h *SalesHandler) ReceiptPDF(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}
	pdf, name, err := h.saleService.ReceiptPDF(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+name+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
