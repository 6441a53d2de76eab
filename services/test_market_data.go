package services

import (
	"context"

	"market-summary/interfaces"
)

// syntheticPrice is a fixed current/previous-close pair used in test mode.
type syntheticPrice struct {
	current  float64
	previous float64
}

// Sample values match the long-standing test fixtures so downstream
// consumers see stable numbers.
var syntheticPrices = map[string]syntheticPrice{
	SymbolSP500: {5021.84, 4997.91},
	SymbolVIX:   {14.32, 14.85},
	SymbolESFut: {5030.25, 5005.50},
	"AAPL":      {185.92, 184.40},
	"MSFT":      {415.50, 411.22},
	"GOOGL":     {141.80, 140.95},
	"NVDA":      {682.35, 674.72},
	"TSLA":      {207.83, 211.88},
}

// TestMarketDataService serves synthetic quotes without touching the
// network. Used for mode=test requests and in tests.
type TestMarketDataService struct {
	config *MarketConfig
}

// NewTestMarketDataService creates a synthetic quote service
func NewTestMarketDataService(config *MarketConfig) *TestMarketDataService {
	return &TestMarketDataService{config: config}
}

// GetQuote returns a fixed quote for known symbols and a flat synthetic
// price for anything else, so test-mode portfolios always resolve.
func (s *TestMarketDataService) GetQuote(_ context.Context, symbol string) (*interfaces.Quote, error) {
	price, ok := syntheticPrices[symbol]
	if !ok {
		price = syntheticPrice{current: 100.00, previous: 99.00}
	}

	return &interfaces.Quote{
		Symbol:             symbol,
		Name:               s.config.DisplayName(symbol),
		CurrentPrice:       price.current,
		PreviousClose:      price.previous,
		DailyChangePercent: round2((price.current - price.previous) / price.previous * 100),
	}, nil
}
