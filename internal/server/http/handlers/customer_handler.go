package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/nordpay/billing/internal/domain/errors"
	"github.com/nordpay/billing/internal/domain/model"
	"github.com/nordpay/billing/internal/server/http/dto"
)

// CustomerHandler manages customer-related endpoints.
type CustomerHandler struct {
	facade CustomerFacade
}

// NewCustomerHandler constructs CustomerHandler.
func NewCustomerHandler(facade CustomerFacade) *CustomerHandler {
	return &CustomerHandler{facade: facade}
}

// List handles GET /api/v1/customers.
func (h *CustomerHandler) List(c *gin.Context) {
	customers, err := h.facade.Customers(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(customers) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		response = append(response, toCustomerResponse(customer))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/v1/customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	customer, err := h.facade.Customer(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toCustomerResponse(*customer))
}

func toCustomerResponse(customer model.Customer) dto.CustomerResponse {
	return dto.CustomerResponse{
		ID:        customer.ID,
		Currency:  string(customer.Currency),
		CreatedAt: customer.CreatedAt,
	}
}
