package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	customerapp "github.com/lats/backend/internal/application/customer"
	"github.com/lats/backend/internal/domain/shared"
)

// CustomerService is the part of customer.CustomerService the handler uses
type CustomerService interface {
	Create(ctx context.Context, tenantID uuid.UUID, req customerapp.CreateCustomerRequest) (*customerapp.CustomerResponse, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*customerapp.CustomerResponse, error)
	List(ctx context.Context, tenantID uuid.UUID, filter customerapp.CustomerListFilter) (*shared.Paginated[customerapp.CustomerResponse], error)
}

// CustomerHandler handles customer endpoints
type CustomerHandler struct {
	BaseHandler
	customerService CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CreateCustomerRequest represents a request to create a customer
// @Description Request body for creating a customer
type CreateCustomerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200" example:"Asha Mwakyusa"`
	Phone string `json:"phone" binding:"omitempty,phone" example:"255712345678"`
	Email string `json:"email" binding:"omitempty,email,max=200" example:"asha@example.com"`
	Notes string `json:"notes" binding:"max=1000" example:"Prefers WhatsApp"`
}

// Create godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body CreateCustomerRequest true "Customer"
// @Success      201 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req CreateCustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}

	cust, err := h.customerService.Create(c.Request.Context(), tenantID, customerapp.CreateCustomerRequest{
		Name:  req.Name,
		Phone: req.Phone,
		Email: req.Email,
		Notes: req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, cust)
}

// GetByID godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[customerapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.uuidParam(c, "id")
	if !ok {
		return
	}

	cust, err := h.customerService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cust)
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Search by name, phone or email
// @Tags         customers
// @Produce      json
// @Param        search query string false "Search term"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]customerapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter customerapp.CustomerListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	page, err := h.customerService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
