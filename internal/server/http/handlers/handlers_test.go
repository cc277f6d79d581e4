package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	domainErrors "github.com/nordpay/billing/internal/domain/errors"
	"github.com/nordpay/billing/internal/domain/model"
	"github.com/nordpay/billing/internal/server/http/dto"
	"github.com/nordpay/billing/internal/server/http/middleware"
	testhelpers "github.com/nordpay/billing/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func performRequest(t *testing.T, method, route, path string, handler gin.HandlerFunc, setup func(*gin.Context)) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCurrentSubject(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentSubject(c); got != "" {
		t.Fatalf("expected empty subject when not set, got %q", got)
	}

	c.Set(middleware.SubjectContextKey, "ops")
	if got := CurrentSubject(c); got != "ops" {
		t.Fatalf("expected ops, got %q", got)
	}
}

func TestInvoiceHandlerList(t *testing.T) {
	invoices := []model.Invoice{
		{ID: 1, CustomerID: 2, Amount: model.NewMoney(decimal.RequireFromString("10.50"), model.CurrencyEUR), Status: model.InvoiceStatusPending, CreatedAt: time.Unix(0, 0)},
		{ID: 2, CustomerID: 2, Amount: model.NewMoney(decimal.RequireFromString("20.00"), model.CurrencyEUR), Status: model.InvoiceStatusPaid, CreatedAt: time.Unix(0, 0)},
	}
	facade := testhelpers.InvoiceFacadeStub{InvoicesFn: func(context.Context) ([]model.Invoice, error) {
		return invoices, nil
	}}
	resp := performRequest(t, http.MethodGet, "/invoices", "/invoices", NewInvoiceHandler(facade).List, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var decoded []dto.InvoiceResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != len(invoices) {
		t.Fatalf("expected %d invoices, got %d", len(invoices), len(decoded))
	}
	if decoded[0].Currency != "EUR" || decoded[0].Status != "PENDING" {
		t.Fatalf("unexpected first invoice: %+v", decoded[0])
	}
}

func TestInvoiceHandlerListEmpty(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/invoices", "/invoices", NewInvoiceHandler(testhelpers.InvoiceFacadeStub{}).List, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestInvoiceHandlerListFailure(t *testing.T) {
	facade := testhelpers.InvoiceFacadeStub{InvoicesFn: func(context.Context) ([]model.Invoice, error) {
		return nil, errors.New("boom")
	}}
	resp := performRequest(t, http.MethodGet, "/invoices", "/invoices", NewInvoiceHandler(facade).List, nil)
	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", resp.Code)
	}
}

func TestInvoiceHandlerGet(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.InvoiceFacadeStub
		path   string
		status int
	}{
		{name: "ok", path: "/invoices/1", status: http.StatusOK},
		{name: "bad id", path: "/invoices/abc", status: http.StatusBadRequest},
		{name: "not found", path: "/invoices/999", facade: testhelpers.InvoiceFacadeStub{InvoiceFn: func(context.Context, int64) (*model.Invoice, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "internal", path: "/invoices/1", facade: testhelpers.InvoiceFacadeStub{InvoiceFn: func(context.Context, int64) (*model.Invoice, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/invoices/:id", tt.path, NewInvoiceHandler(tt.facade).Get, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestCustomerHandlerList(t *testing.T) {
	customers := []model.Customer{
		{ID: 1, Currency: model.CurrencyDKK, CreatedAt: time.Unix(0, 0)},
		{ID: 2, Currency: model.CurrencySEK, CreatedAt: time.Unix(0, 0)},
	}
	facade := testhelpers.CustomerFacadeStub{CustomersFn: func(context.Context) ([]model.Customer, error) {
		return customers, nil
	}}
	resp := performRequest(t, http.MethodGet, "/customers", "/customers", NewCustomerHandler(facade).List, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	var decoded []dto.CustomerResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(decoded) != 2 || decoded[0].Currency != "DKK" {
		t.Fatalf("unexpected customers: %+v", decoded)
	}
}

func TestCustomerHandlerListEmpty(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/customers", "/customers", NewCustomerHandler(testhelpers.CustomerFacadeStub{}).List, nil)
	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", resp.Code)
	}
}

func TestCustomerHandlerGet(t *testing.T) {
	tests := []struct {
		name   string
		facade testhelpers.CustomerFacadeStub
		path   string
		status int
	}{
		{name: "ok", path: "/customers/1", status: http.StatusOK},
		{name: "bad id", path: "/customers/x", status: http.StatusBadRequest},
		{name: "not found", path: "/customers/999", facade: testhelpers.CustomerFacadeStub{CustomerFn: func(context.Context, int64) (*model.Customer, error) {
			return nil, domainErrors.ErrNotFound
		}}, status: http.StatusNotFound},
		{name: "internal", path: "/customers/1", facade: testhelpers.CustomerFacadeStub{CustomerFn: func(context.Context, int64) (*model.Customer, error) {
			return nil, errors.New("boom")
		}}, status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := performRequest(t, http.MethodGet, "/customers/:id", tt.path, NewCustomerHandler(tt.facade).Get, nil)
			if resp.Code != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.Code)
			}
		})
	}
}

func TestBillingHandlerCharge(t *testing.T) {
	trigger := &testhelpers.CycleTriggerStub{Result: true}
	resp := performRequest(t, http.MethodPost, "/invoices/charge", "/invoices/charge", NewBillingHandler(trigger).Charge, nil)
	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d", resp.Code)
	}
	if trigger.Calls != 1 {
		t.Fatalf("expected one trigger call, got %d", trigger.Calls)
	}
}

func TestBillingHandlerChargeBusy(t *testing.T) {
	trigger := &testhelpers.CycleTriggerStub{Result: false}
	resp := performRequest(t, http.MethodPost, "/invoices/charge", "/invoices/charge", NewBillingHandler(trigger).Charge, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}

func TestHealthHandler(t *testing.T) {
	resp := performRequest(t, http.MethodGet, "/health", "/health", NewHealthHandler(testhelpers.HealthCheckerStub{}).Check, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}

	checker := testhelpers.HealthCheckerStub{Err: errors.New("db down")}
	resp = performRequest(t, http.MethodGet, "/health", "/health", NewHealthHandler(checker).Check, nil)
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", resp.Code)
	}
}
