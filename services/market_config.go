package services

// TrackedTicker pairs a quote symbol with its display name and the key
// used for it in the report JSON.
type TrackedTicker struct {
	Symbol string
	Name   string
	Key    string
}

// MarketConfig is the read-only configuration shared by the position
// builder and the market enricher. It is built once at process start and
// never mutated afterwards.
type MarketConfig struct {
	Indices       []TrackedTicker
	Stocks        []TrackedTicker
	Futures       TrackedTicker
	SymbolRemap   map[string]string
	PortfolioPath string
}

const (
	SymbolSP500  = "^GSPC"
	SymbolVIX    = "^VIX"
	SymbolESFut  = "ES=F"
	symbolCash   = "CASH"
	symbolTotal  = "TOTAL"
)

// DefaultMarketConfig returns the standard tracked tickers and the symbol
// remap table. Quote providers use dashes instead of dots for share
// classes (e.g. BRK-B, not BRK.B).
func DefaultMarketConfig(portfolioPath string) *MarketConfig {
	return &MarketConfig{
		Indices: []TrackedTicker{
			{Symbol: SymbolSP500, Name: "S&P 500", Key: "sp500"},
			{Symbol: SymbolVIX, Name: "CBOE Volatility Index", Key: "vix"},
		},
		Stocks: []TrackedTicker{
			{Symbol: "AAPL", Name: "Apple Inc.", Key: "aapl"},
			{Symbol: "MSFT", Name: "Microsoft Corporation", Key: "msft"},
			{Symbol: "GOOGL", Name: "Alphabet Inc.", Key: "googl"},
			{Symbol: "NVDA", Name: "NVIDIA Corporation", Key: "nvda"},
			{Symbol: "TSLA", Name: "Tesla Inc.", Key: "tsla"},
		},
		Futures: TrackedTicker{Symbol: SymbolESFut, Name: "S&P 500 Futures", Key: "es_futures"},
		SymbolRemap: map[string]string{
			"BRK.B": "BRK-B",
			"BRK.A": "BRK-A",
		},
		PortfolioPath: portfolioPath,
	}
}

// RemapSymbol translates a brokerage ticker into the symbol quote
// providers expect. Applied before any market-data lookup, never during
// parsing.
func (c *MarketConfig) RemapSymbol(symbol string) string {
	if mapped, ok := c.SymbolRemap[symbol]; ok {
		return mapped
	}
	return symbol
}

// TrackedStockSymbols returns the symbols of the fixed tracked-stock list.
func (c *MarketConfig) TrackedStockSymbols() []string {
	symbols := make([]string, 0, len(c.Stocks))
	for _, t := range c.Stocks {
		symbols = append(symbols, t.Symbol)
	}
	return symbols
}

// DisplayName returns the configured display name for a symbol, or the
// symbol itself for untracked tickers.
func (c *MarketConfig) DisplayName(symbol string) string {
	for _, t := range c.Indices {
		if t.Symbol == symbol {
			return t.Name
		}
	}
	for _, t := range c.Stocks {
		if t.Symbol == symbol {
			return t.Name
		}
	}
	if c.Futures.Symbol == symbol {
		return c.Futures.Name
	}
	return symbol
}
