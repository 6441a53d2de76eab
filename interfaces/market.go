package interfaces

import (
	"context"
)

// Quote holds the last known and prior-close price for a ticker.
// A failed lookup carries Error instead of prices; the rest of the
// pipeline keeps going with whatever quotes succeeded.
type Quote struct {
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	CurrentPrice       float64 `json:"current_price,omitempty"`
	PreviousClose      float64 `json:"previous_close,omitempty"`
	DailyChangePercent float64 `json:"daily_change_percent,omitempty"`
	Error              string  `json:"error,omitempty"`
}

// Failed reports whether the quote lookup for this symbol failed.
func (q *Quote) Failed() bool {
	return q.Error != ""
}

// QuoteService defines the interface for fetching market quotes
type QuoteService interface {
	GetQuote(ctx context.Context, symbol string) (*Quote, error)
}

// StockHolding is one equity position valued at current prices.
// Derived per request from a Quote and the portfolio export, never persisted.
type StockHolding struct {
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	Shares             int     `json:"shares"`
	CurrentValue       float64 `json:"current_value"`
	DailyChangeDollars float64 `json:"daily_change_dollars"`
}

// PortfolioSummary aggregates all stock holdings for one report.
type PortfolioSummary struct {
	TotalPortfolioValue         float64                  `json:"total_portfolio_value"`
	TotalPortfolioChangeDollars float64                  `json:"total_portfolio_change_dollars"`
	TotalPortfolioChangePercent float64                  `json:"total_portfolio_change_percent"`
	PerStockHoldings            map[string]*StockHolding `json:"per_stock_holdings"`
}
