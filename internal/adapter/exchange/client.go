package exchange

import (
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

// Client exposes the currency conversion operation.
type Client interface {
	Convert(ctx context.Context, amount decimal.Decimal, from, to model.Currency) (decimal.Decimal, error)
}

// HTTPClient implements Client via the exchange service HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// response mirrors JSON payload from the exchange service.
type response struct {
	Amount decimal.Decimal `json:"amount"`
}

// NewHTTPClient creates HTTP exchange client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse exchange url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("exchange url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Convert re-denominates amount from one currency to another.
func (c *HTTPClient) Convert(ctx context.Context, amount decimal.Decimal, from, to model.Currency) (decimal.Decimal, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/v1/convert")
	query := endpoint.Query()
	query.Set("amount", amount.String())
	query.Set("from", string(from))
	query.Set("to", string(to))
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return decimal.Decimal{}, &domainErrors.NetworkError{Op: "convert", Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return decimal.Decimal{}, &domainErrors.NetworkError{Op: "convert", Err: err}
		}
		var data response
		if err := json.Unmarshal(body, &data); err != nil {
			return decimal.Decimal{}, err
		}
		return data.Amount, nil
	case resp.StatusCode >= http.StatusInternalServerError:
		return decimal.Decimal{}, &domainErrors.NetworkError{Op: "convert", Err: fmt.Errorf("exchange responded %s", resp.Status)}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("convert request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return decimal.Decimal{}, fmt.Errorf("exchange error: %s", resp.Status)
	}
}
