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

// InvoiceHandler manages invoice-related endpoints.
type InvoiceHandler struct {
	facade InvoiceFacade
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(facade InvoiceFacade) *InvoiceHandler {
	return &InvoiceHandler{facade: facade}
}

// List handles GET /api/v1/invoices.
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, err := h.facade.Invoices(c.Request.Context())
	if err != nil {
		c.Status(http.StatusInternalServerError)
		return
	}
	if len(invoices) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, invoice := range invoices {
		response = append(response, toInvoiceResponse(invoice))
	}
	c.JSON(http.StatusOK, response)
}

// Get handles GET /api/v1/invoices/:id.
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	invoice, err := h.facade.Invoice(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrNotFound):
			c.Status(http.StatusNotFound)
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, toInvoiceResponse(*invoice))
}

func toInvoiceResponse(invoice model.Invoice) dto.InvoiceResponse {
	return dto.InvoiceResponse{
		ID:         invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Amount.Value,
		Currency:   string(invoice.Amount.Currency),
		Status:     string(invoice.Status),
		CreatedAt:  invoice.CreatedAt,
		UpdatedAt:  invoice.UpdatedAt,
	}
}
