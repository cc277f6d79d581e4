package payment

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	domainErrors "github.com/nordpay/billing/internal/domain/errors"
	"github.com/nordpay/billing/internal/domain/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func testInvoice() model.Invoice {
	return model.Invoice{
		ID:         42,
		CustomerID: 7,
		Amount:     model.NewMoney(decimal.RequireFromString("99.95"), model.CurrencyEUR),
		Status:     model.InvoiceStatusSentForPayment,
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*HTTPClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client, server
}

func TestNewHTTPClientRejectsRelativeURL(t *testing.T) {
	if _, err := NewHTTPClient("/charges", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestChargeAccepted(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/charges" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req chargeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.InvoiceID != 42 || req.CustomerID != 7 || req.Currency != "EUR" {
			t.Fatalf("unexpected payload %+v", req)
		}
		if !req.Amount.Equal(decimal.RequireFromString("99.95")) {
			t.Fatalf("unexpected amount %s", req.Amount)
		}
		_ = json.NewEncoder(w).Encode(chargeResponse{Accepted: true})
	})

	accepted, err := client.Charge(context.Background(), testInvoice())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !accepted {
		t.Fatal("expected charge to be accepted")
	}
}

func TestChargeSoftDecline(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chargeResponse{Accepted: false})
	})

	accepted, err := client.Charge(context.Background(), testInvoice())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if accepted {
		t.Fatal("expected soft decline")
	}
}

func TestChargeCustomerNotFound(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.Charge(context.Background(), testInvoice())
	var cnf *domainErrors.CustomerNotFoundError
	if !errors.As(err, &cnf) {
		t.Fatalf("expected customer not found error, got %v", err)
	}
	if cnf.CustomerID != 7 {
		t.Fatalf("expected customer id 7, got %d", cnf.CustomerID)
	}
}

func TestChargeCurrencyMismatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(mismatchResponse{AccountCurrency: "USD"})
	})

	_, err := client.Charge(context.Background(), testInvoice())
	var mismatch *domainErrors.CurrencyMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected currency mismatch error, got %v", err)
	}
	if mismatch.InvoiceID != 42 || mismatch.Account != model.CurrencyUSD {
		t.Fatalf("unexpected mismatch payload %+v", mismatch)
	}
}

func TestChargeServerErrorIsTransient(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Charge(context.Background(), testInvoice())
	if !domainErrors.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestChargeConnectionFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()

	client, err := NewHTTPClient(server.URL, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = client.Charge(context.Background(), testInvoice())
	if !domainErrors.IsTransient(err) {
		t.Fatalf("expected transient error, got %v", err)
	}
}

func TestChargeUnexpectedStatus(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	_, err := client.Charge(context.Background(), testInvoice())
	if err == nil {
		t.Fatal("expected error for unexpected status")
	}
	if domainErrors.IsTransient(err) {
		t.Fatalf("4xx must not be transient: %v", err)
	}
}
