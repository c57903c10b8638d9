// Package yahoo fetches historical daily bars from the Yahoo Finance
// chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/quantkit/crossbt/internal/core"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// validTicker matches symbols like AAPL, MSFT, BRK-B, 0700.HK
var validTicker = regexp.MustCompile(`^[A-Za-z0-9\-]{1,10}(\.[A-Za-z]{1,4})?$`)

func validateTicker(ticker string) error {
	if ticker == "" {
		return fmt.Errorf("ticker cannot be empty")
	}
	if !validTicker.MatchString(ticker) {
		return fmt.Errorf("invalid ticker format: %s", ticker)
	}
	return nil
}

// Client fetches daily bars from Yahoo Finance. It implements
// backtest.BarProvider.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// New creates a Yahoo client with a 10 second request timeout.
func New() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
}

// FetchDaily fetches daily OHLCV bars for the ticker over [start, end].
// Bars with missing quote data are skipped. Returned bars are in the
// ascending date order the chart API emits.
func (c *Client) FetchDaily(ctx context.Context, ticker string, start, end time.Time) ([]core.PriceBar, error) {
	if err := validateTicker(ticker); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s?interval=1d&period1=%d&period2=%d",
		c.baseURL, ticker, start.Unix(), end.Unix())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo error: %s", result.Chart.Error.Description)
	}
	if len(result.Chart.Result) == 0 || len(result.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no data for ticker: %s", ticker)
	}

	r := result.Chart.Result[0]
	quotes := r.Indicators.Quote[0]

	bars := make([]core.PriceBar, 0, len(r.Timestamp))
	for i, ts := range r.Timestamp {
		if i >= len(quotes.Close) || quotes.Close[i] == nil {
			continue // Skip missing data
		}
		bar := core.PriceBar{
			Date:  time.Unix(int64(ts), 0).UTC(),
			Close: *quotes.Close[i],
		}
		if i < len(quotes.Open) && quotes.Open[i] != nil {
			bar.Open = *quotes.Open[i]
		}
		if i < len(quotes.High) && quotes.High[i] != nil {
			bar.High = *quotes.High[i]
		}
		if i < len(quotes.Low) && quotes.Low[i] != nil {
			bar.Low = *quotes.Low[i]
		}
		if i < len(quotes.Volume) && quotes.Volume[i] != nil {
			bar.Volume = int64(*quotes.Volume[i])
		}
		bars = append(bars, bar)
	}

	return bars, nil
}

// Yahoo API response types
type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int      `json:"timestamp"`
	Indicators indicators `json:"indicators"`
}

type indicators struct {
	Quote []quoteIndicator `json:"quote"`
}

type quoteIndicator struct {
	Open   []*float64 `json:"open"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Close  []*float64 `json:"close"`
	Volume []*int     `json:"volume"`
}
