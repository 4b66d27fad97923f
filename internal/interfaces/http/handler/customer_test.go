package handler

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	customerapp "github.com/lats/backend/internal/application/customer"
	"github.com/lats/backend/internal/domain/shared"
)

func TestCustomerHandler(t *testing.T) {
	svc := new(MockCustomerService)
	h := NewCustomerHandler(svc)
	r := newTestEngine(false)
	r.POST("/customers", h.Create)
	r.GET("/customers", h.List)
	r.GET("/customers/:id", h.GetByID)

	t.Run("create", func(t *testing.T) {
		svc.On("Create", mock.Anything, testShopID, customerapp.CreateCustomerRequest{Name: "Asha Mwakyusa", Phone: "255712345678"}).
			Return(&customerapp.CustomerResponse{ID: uuid.New(), Name: "Asha Mwakyusa"}, nil).Once()

		w := perform(r, "POST", "/customers", CreateCustomerRequest{Name: "Asha Mwakyusa", Phone: "255712345678"})
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("phone must be digits", func(t *testing.T) {
		w := perform(r, "POST", "/customers", CreateCustomerRequest{Name: "Asha", Phone: "07-12"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		svc.On("Create", mock.Anything, testShopID, mock.Anything).Return(nil, shared.ErrAlreadyExists).Once()

		w := perform(r, "POST", "/customers", CreateCustomerRequest{Name: "Juma", Phone: "255712345678"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("list", func(t *testing.T) {
		svc.On("List", mock.Anything, testShopID, customerapp.CustomerListFilter{Search: "asha"}).
			Return(&shared.Paginated[customerapp.CustomerResponse]{
				Items: []customerapp.CustomerResponse{{Name: "Asha Mwakyusa"}},
				Total: 1, Page: 1, PageSize: 20, TotalPages: 1,
			}, nil).Once()

		w := perform(r, "GET", "/customers?search=asha", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var list []customerapp.CustomerResponse
		envelope(t, w, &list)
		assert.Equal(t, "Asha Mwakyusa", list[0].Name)
	})

	t.Run("missing", func(t *testing.T) {
		id := uuid.New()
		svc.On("GetByID", mock.Anything, testShopID, id).Return(nil, shared.ErrNotFound).Once()

		w := perform(r, "GET", "/customers/"+id.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	svc.AssertExpectations(t)
}
