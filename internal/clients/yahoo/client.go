// Package yahoo provides a client for the Yahoo-style market data feed.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/tradeforge/vtrade/internal/common"
	"github.com/tradeforge/vtrade/internal/interfaces"
	"github.com/tradeforge/vtrade/internal/models"
)

// flexFloat64 handles JSON values that may be either a number or a string.
type flexFloat64 float64

func (f *flexFloat64) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = flexFloat64(num)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s == "" || s == "N/A" {
			*f = 0
			return nil
		}
		num, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = flexFloat64(num)
		return nil
	}
	return fmt.Errorf("cannot unmarshal %s into float64", string(data))
}

const (
	DefaultBaseURL   = "https://marketdata.tradeforge.io/v1"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the MarketDataClient interface.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new market data client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIError represents a provider error response.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("market data API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Market data API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    string(body),
			Endpoint:   path,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

type stockCatalogResponse struct {
	Stocks []models.Stock `json:"stocks"`
}

// ListStocks retrieves the full stock catalog.
func (c *Client) ListStocks(ctx context.Context) ([]models.Stock, error) {
	var catalog stockCatalogResponse
	if err := c.get(ctx, "/stocks", nil, &catalog); err != nil {
		return nil, err
	}
	if catalog.Stocks == nil {
		return nil, fmt.Errorf("invalid catalog response: missing stocks")
	}
	return catalog.Stocks, nil
}

type quoteResponse struct {
	Symbol   string      `json:"symbol"`
	Name     string      `json:"name"`
	Type     string      `json:"type"`
	Currency string      `json:"currency"`
	Price    flexFloat64 `json:"price"`
}

// GetQuotes retrieves live quotes for the given symbols in one request.
// Symbols absent from the response are simply not returned; callers decide
// whether a missing symbol is an error.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) ([]models.Quote, error) {
	if len(symbols) == 0 {
		return nil, nil
	}

	params := url.Values{}
	for _, sym := range symbols {
		params.Add("symbols", sym)
	}

	var raw []quoteResponse
	if err := c.get(ctx, "/quotes", params, &raw); err != nil {
		return nil, err
	}

	quotes := make([]models.Quote, 0, len(raw))
	for _, q := range raw {
		quotes = append(quotes, models.Quote{
			Symbol:        q.Symbol,
			EncodedSymbol: url.QueryEscape(q.Symbol),
			Name:          q.Name,
			Currency:      q.Currency,
			Price:         decimal.NewFromFloat(float64(q.Price)),
			Index:         models.Stock{Type: q.Type}.IsIndex(),
		})
	}
	return quotes, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
