package customer

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/lats/backend/internal/domain/customer"
	"github.com/lats/backend/internal/domain/shared"
	"github.com/lats/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   customer.CustomerRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.CustomerRepository, logger *zap.Logger) *CustomerService {
	return &CustomerService{customerRepo: customerRepo, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *CustomerService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a customer. A phone number identifies one customer per shop.
func (s *CustomerService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCustomerRequest) (*CustomerResponse, error) {
	phone := strings.TrimSpace(req.Phone)
	if phone != "" {
		existing, err := s.customerRepo.FindByPhone(ctx, tenantID, phone)
		switch {
		case err == nil && existing != nil:
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Customer with this phone already exists")
		case err != nil && !errors.Is(err, shared.ErrNotFound):
			return nil, err
		}
	}

	c, err := customer.NewCustomer(tenantID, req.Name, phone, req.Email)
	if err != nil {
		return nil, err
	}
	c.Notes = strings.TrimSpace(req.Notes)

	if err := s.customerRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	events := c.PullDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			logger.Ctx(ctx, s.logger).Warn("Failed to publish customer events", zap.Error(err))
		}
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// GetByID returns one customer
func (s *CustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	c, err := s.customerRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(c)
	return &resp, nil
}

// List returns a page of customers matching the search on name, phone or email
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter CustomerListFilter) (*shared.Paginated[CustomerResponse], error) {
	f := filter.toShared()
	customers, err := s.customerRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	total, err := s.customerRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, err
	}
	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	page := shared.NewPaginated(items, total, f.Page, f.PageSize)
	return &page, nil
}
