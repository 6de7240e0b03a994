// Package yahoo provides a client for the Yahoo Finance API
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/rgeddes/folio/internal/common"
	"github.com/rgeddes/folio/internal/models"
)

const (
	DefaultBaseURL   = "https://query1.finance.yahoo.com"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client implements the MarketDataClient interface
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

// NewClient creates a new Yahoo Finance client
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

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("Yahoo API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// get performs a rate-limited GET request
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	// Wait for rate limiter
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
	// The chart endpoint rejects requests without a browser-like agent
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; folio/1.0)")

	c.logger.Debug().Str("url", c.baseURL+path).Msg("Yahoo API request")

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

// quoteSummaryResponse represents the quoteSummary API envelope
type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			Price struct {
				Symbol             string    `json:"symbol"`
				LongName           string    `json:"longName"`
				ShortName          string    `json:"shortName"`
				RegularMarketPrice rawNumber `json:"regularMarketPrice"`
			} `json:"price"`
			SummaryDetail struct {
				TrailingPE    *rawNumber `json:"trailingPE"`
				DividendYield *rawNumber `json:"dividendYield"`
			} `json:"summaryDetail"`
		} `json:"result"`
		Error *apiErrorBody `json:"error"`
	} `json:"quoteSummary"`
}

// rawNumber handles Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapping.
type rawNumber struct {
	Raw float64 `json:"raw"`
}

type apiErrorBody struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// GetQuote retrieves the current price and fundamentals for a symbol
func (c *Client) GetQuote(ctx context.Context, symbol string) (*models.Quote, error) {
	params := url.Values{}
	params.Set("modules", "price,summaryDetail")

	path := fmt.Sprintf("/v10/finance/quoteSummary/%s", url.PathEscape(symbol))

	var envelope quoteSummaryResponse
	if err := c.get(ctx, path, params, &envelope); err != nil {
		return nil, err
	}

	if envelope.QuoteSummary.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    envelope.QuoteSummary.Error.Description,
			Endpoint:   path,
		}
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("no quote data for %s", symbol)
	}

	result := envelope.QuoteSummary.Result[0]

	name := result.Price.LongName
	if name == "" {
		name = result.Price.ShortName
	}
	if name == "" {
		name = symbol
	}

	quote := &models.Quote{
		Symbol:      symbol,
		CompanyName: name,
		Price:       result.Price.RegularMarketPrice.Raw,
	}
	if pe := result.SummaryDetail.TrailingPE; pe != nil && pe.Raw > 0 {
		quote.TrailingPE = models.Float(pe.Raw)
	}
	if dy := result.SummaryDetail.DividendYield; dy != nil && dy.Raw > 0 {
		quote.DividendYield = models.Float(dy.Raw)
	}

	return quote, nil
}

// chartResponse represents the v8 chart API envelope
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *apiErrorBody `json:"error"`
	} `json:"chart"`
}

// GetDailyHistory retrieves daily closes for a symbol over the trailing
// period, oldest first. Bars the provider reports without a close (halted
// or partial days) are dropped.
func (c *Client) GetDailyHistory(ctx context.Context, symbol string, period models.HistoryRange) ([]models.PriceBar, error) {
	params := url.Values{}
	params.Set("range", string(period))
	params.Set("interval", "1d")

	path := fmt.Sprintf("/v8/finance/chart/%s", url.PathEscape(symbol))

	var envelope chartResponse
	if err := c.get(ctx, path, params, &envelope); err != nil {
		return nil, err
	}

	if envelope.Chart.Error != nil {
		return nil, &APIError{
			StatusCode: http.StatusOK,
			Message:    envelope.Chart.Error.Description,
			Endpoint:   path,
		}
	}
	if len(envelope.Chart.Result) == 0 || len(envelope.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no chart data for %s", symbol)
	}

	result := envelope.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close

	bars := make([]models.PriceBar, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		bars = append(bars, models.PriceBar{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}

	return bars, nil
}
