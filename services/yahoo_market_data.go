package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"market-summary/interfaces"
)

// YahooMarketDataService fetches quotes from the Yahoo Finance chart API.
// It is the default provider because it also quotes index symbols
// (^GSPC, ^VIX) and futures (ES=F).
type YahooMarketDataService struct {
	baseURL string
	config  *MarketConfig
	logger  *logrus.Logger
	client  *http.Client
}

// NewYahooMarketDataService creates a new Yahoo Finance quote service
func NewYahooMarketDataService(config *MarketConfig) *YahooMarketDataService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &YahooMarketDataService{
		baseURL: "https://query1.finance.yahoo.com",
		config:  config,
		logger:  logger,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// yahooChartResponse is the subset of the chart API payload we read.
type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol                     string  `json:"symbol"`
				RegularMarketPrice         float64 `json:"regularMarketPrice"`
				RegularMarketPreviousClose float64 `json:"regularMarketPreviousClose"`
				ChartPreviousClose         float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetQuote fetches the current price and previous close for one symbol.
func (s *YahooMarketDataService) GetQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	requestURL := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d",
		s.baseURL, url.PathEscape(s.config.RemapSymbol(symbol)))

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "market-summary/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &QuoteError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, &QuoteError{Symbol: symbol, Err: fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))}
	}

	var chart yahooChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, &QuoteError{Symbol: symbol, Err: fmt.Errorf("failed to decode chart: %w", err)}
	}

	if chart.Chart.Error != nil {
		return nil, &QuoteError{Symbol: symbol, Err: fmt.Errorf("%s: %s", chart.Chart.Error.Code, chart.Chart.Error.Description)}
	}
	if len(chart.Chart.Result) == 0 {
		return nil, &QuoteError{Symbol: symbol, Err: fmt.Errorf("no chart data for %s", symbol)}
	}

	meta := chart.Chart.Result[0].Meta

	currentPrice := meta.RegularMarketPrice
	// Field availability varies; fall back like yfinance does.
	previousClose := meta.RegularMarketPreviousClose
	if previousClose == 0 {
		previousClose = meta.ChartPreviousClose
	}

	if currentPrice == 0 || previousClose == 0 {
		return nil, &QuoteError{Symbol: symbol, Err: fmt.Errorf("could not retrieve price data for %s", symbol)}
	}

	quote := &interfaces.Quote{
		Symbol:             symbol,
		Name:               s.config.DisplayName(symbol),
		CurrentPrice:       round2(currentPrice),
		PreviousClose:      round2(previousClose),
		DailyChangePercent: round2((currentPrice - previousClose) / previousClose * 100),
	}

	s.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"price":  quote.CurrentPrice,
	}).Debug("Fetched quote")

	return quote, nil
}
