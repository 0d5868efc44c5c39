// Package eodhd provides a client for the EODHD API
package eodhd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/finsightlab/finsight/internal/common"
	"github.com/finsightlab/finsight/internal/interfaces"
	"github.com/finsightlab/finsight/internal/models"
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
		if s == "" || s == "N/A" || s == "NA" {
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
	DefaultBaseURL   = "https://eodhd.com/api"
	DefaultExchange  = "NSE"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client fetches quotes from EODHD. Canonical symbols are exchange-local
// codes; the client appends the exchange suffix the API expects.
type Client struct {
	baseURL    string
	apiKey     string
	exchange   string
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

// WithExchange sets the exchange suffix appended to symbols
func WithExchange(exchange string) ClientOption {
	return func(c *Client) {
		c.exchange = exchange
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

// NewClient creates a new EODHD client
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:  DefaultBaseURL,
		apiKey:   apiKey,
		exchange: DefaultExchange,
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

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("EODHD API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	// Add API key
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", c.apiKey)
	params.Set("fmt", "json")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	c.logger.Debug().Str("url", c.baseURL+path).Msg("EODHD API request")

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

// ticker appends the configured exchange suffix to a canonical symbol.
func (c *Client) ticker(symbol string) string {
	return symbol + "." + c.exchange
}

// realTimeResponse represents the /real-time API response
type realTimeResponse struct {
	Code      string      `json:"code"`
	Timestamp int64       `json:"timestamp"`
	Close     flexFloat64 `json:"close"`
}

// fundamentalsResponse represents the subset of /fundamentals consumed here
type fundamentalsResponse struct {
	General struct {
		Code     string `json:"Code"`
		Name     string `json:"Name"`
		Sector   string `json:"Sector"`
		Industry string `json:"Industry"`
	} `json:"General"`
	Highlights struct {
		PERatio       *flexFloat64 `json:"PERatio"`
		DividendYield *flexFloat64 `json:"DividendYield"`
	} `json:"Highlights"`
}

// GetQuote retrieves the latest price plus sector and valuation fields for a
// canonical symbol. The price comes from the real-time endpoint and is
// required; sector, PE ratio and dividend yield come from the fundamentals
// endpoint and degrade to absent when that call fails.
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	var rt realTimeResponse
	if err := c.get(ctx, fmt.Sprintf("/real-time/%s", c.ticker(symbol)), nil, &rt); err != nil {
		return nil, fmt.Errorf("real-time quote for %s: %w", symbol, err)
	}

	quote := &models.Quote{
		Symbol: symbol,
		Price:  float64(rt.Close),
		AsOf:   time.Unix(rt.Timestamp, 0).UTC(),
	}
	if rt.Timestamp == 0 {
		quote.AsOf = time.Now().UTC()
	}

	var fund fundamentalsResponse
	if err := c.get(ctx, fmt.Sprintf("/fundamentals/%s", c.ticker(symbol)), nil, &fund); err != nil {
		c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Fundamentals unavailable, returning price only")
		return quote, nil
	}

	quote.Sector = fund.General.Sector
	if fund.Highlights.PERatio != nil {
		v := float64(*fund.Highlights.PERatio)
		quote.PERatio = &v
	}
	if fund.Highlights.DividendYield != nil {
		v := float64(*fund.Highlights.DividendYield)
		quote.DividendYield = &v
	}

	return quote, nil
}

// Ensure Client implements MarketDataClient
var _ interfaces.MarketDataClient = (*Client)(nil)
