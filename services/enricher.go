package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"market-summary/interfaces"
)

// MarketEnricher overlays quotes onto a built portfolio. Each symbol
// resolves independently: a failed lookup becomes an error-marker Quote
// and an entry in the errors list, never an aborted batch.
type MarketEnricher struct {
	quotes interfaces.QuoteService
	config *MarketConfig
	logger *logrus.Logger
}

// NewMarketEnricher creates a new market enricher
func NewMarketEnricher(quotes interfaces.QuoteService, config *MarketConfig) *MarketEnricher {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &MarketEnricher{
		quotes: quotes,
		config: config,
		logger: logger,
	}
}

// QuoteBatch holds per-symbol results keyed by the original (unmapped)
// symbol, plus the aggregated failure messages.
type QuoteBatch struct {
	Quotes map[string]*interfaces.Quote
	Errors []string
}

// Symbols assembles the lookup batch for one request: the fixed tracked
// list, every equity holding, every option underlying, both index
// symbols, and the futures symbol in morning mode. Duplicates collapse;
// order is deterministic.
func (me *MarketEnricher) Symbols(built *BuildResult, morning bool) []string {
	seen := make(map[string]bool)
	var symbols []string

	add := func(symbol string) {
		if symbol == "" || seen[symbol] {
			return
		}
		seen[symbol] = true
		symbols = append(symbols, symbol)
	}

	for _, t := range me.config.Indices {
		add(t.Symbol)
	}
	if morning {
		add(me.config.Futures.Symbol)
	}
	for _, t := range me.config.Stocks {
		add(t.Symbol)
	}

	var portfolio []string
	for symbol := range built.Holdings {
		portfolio = append(portfolio, symbol)
	}
	for _, opt := range built.Options {
		portfolio = append(portfolio, opt.UnderlyingSymbol)
	}
	sort.Strings(portfolio)
	for _, symbol := range portfolio {
		add(symbol)
	}

	return symbols
}

// FetchQuotes looks up every symbol sequentially. The enricher never
// fails as a whole; callers read Errors to decide the report status.
func (me *MarketEnricher) FetchQuotes(ctx context.Context, symbols []string) *QuoteBatch {
	batch := &QuoteBatch{
		Quotes: make(map[string]*interfaces.Quote, len(symbols)),
	}

	for _, symbol := range symbols {
		quote, err := me.quotes.GetQuote(ctx, symbol)
		if err != nil {
			me.logger.WithError(err).WithField("symbol", symbol).Warn("Quote lookup failed")
			batch.Quotes[symbol] = &interfaces.Quote{
				Symbol: symbol,
				Name:   me.config.DisplayName(symbol),
				Error:  err.Error(),
			}
			batch.Errors = append(batch.Errors, fmt.Sprintf("%s: %v", me.config.DisplayName(symbol), err))
			continue
		}
		batch.Quotes[symbol] = quote
	}

	me.logger.WithFields(logrus.Fields{
		"symbols": len(symbols),
		"errors":  len(batch.Errors),
	}).Info("Quote batch fetched")

	return batch
}
