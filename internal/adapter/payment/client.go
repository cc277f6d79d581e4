package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/nordpay/billing/internal/domain/errors"
	"github.com/nordpay/billing/internal/domain/model"
)

// Client exposes the payment gateway charge operation.
type Client interface {
	Charge(ctx context.Context, invoice model.Invoice) (bool, error)
}

// HTTPClient implements Client via the gateway's HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// chargeRequest mirrors the gateway's JSON charge payload.
type chargeRequest struct {
	InvoiceID  int64           `json:"invoice_id"`
	CustomerID int64           `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
}

type chargeResponse struct {
	Accepted bool `json:"accepted"`
}

type mismatchResponse struct {
	AccountCurrency string `json:"account_currency"`
}

// NewHTTPClient creates HTTP payment client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse payment gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("payment gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Charge submits an invoice to the gateway. The returned bool reports whether
// the charge was accepted; false with a nil error is a soft decline.
func (c *HTTPClient) Charge(ctx context.Context, invoice model.Invoice) (bool, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/charges")

	payload, err := json.Marshal(chargeRequest{
		InvoiceID:  invoice.ID,
		CustomerID: invoice.CustomerID,
		Amount:     invoice.Amount.Value,
		Currency:   string(invoice.Amount.Currency),
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, &domainErrors.NetworkError{Op: "charge", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, &domainErrors.NetworkError{Op: "charge", Err: err}
		}
		var data chargeResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return false, err
		}
		return data.Accepted, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, &domainErrors.CustomerNotFoundError{CustomerID: invoice.CustomerID}
	case resp.StatusCode == http.StatusUnprocessableEntity:
		var data mismatchResponse
		body, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(body, &data)
		return false, &domainErrors.CurrencyMismatchError{
			InvoiceID: invoice.ID,
			Invoice:   invoice.Amount.Currency,
			Account:   model.Currency(data.AccountCurrency),
		}
	case resp.StatusCode >= http.StatusInternalServerError:
		return false, &domainErrors.NetworkError{Op: "charge", Err: fmt.Errorf("gateway responded %s", resp.Status)}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("charge request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return false, fmt.Errorf("payment gateway error: %s", resp.Status)
	}
}
