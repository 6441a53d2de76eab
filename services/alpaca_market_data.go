package services

import (
	"context"
	"fmt"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/sirupsen/logrus"

	"market-summary/interfaces"
)

// AlpacaMarketDataService fetches stock quotes from Alpaca snapshots.
// Alpaca does not serve index or futures symbols; those lookups fail
// per-symbol, which the partial-failure contract already tolerates, so
// this provider suits equity-only deployments.
type AlpacaMarketDataService struct {
	client *marketdata.Client
	config *MarketConfig
	logger *logrus.Logger
}

// NewAlpacaMarketDataService creates a new Alpaca quote service
func NewAlpacaMarketDataService(apiKey, secretKey string, config *MarketConfig) *AlpacaMarketDataService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: secretKey,
	})

	return &AlpacaMarketDataService{
		client: client,
		config: config,
		logger: logger,
	}
}

// GetQuote fetches the latest trade and previous daily close for a symbol.
func (s *AlpacaMarketDataService) GetQuote(ctx context.Context, symbol string) (*interfaces.Quote, error) {
	snapshot, err := s.client.GetSnapshot(s.config.RemapSymbol(symbol), marketdata.GetSnapshotRequest{})
	if err != nil {
		return nil, &QuoteError{Symbol: symbol, Err: fmt.Errorf("failed to fetch snapshot: %w", err)}
	}
	if snapshot == nil || snapshot.LatestTrade == nil || snapshot.PrevDailyBar == nil {
		return nil, &QuoteError{Symbol: symbol, Err: fmt.Errorf("no snapshot data for %s", symbol)}
	}

	currentPrice := snapshot.LatestTrade.Price
	previousClose := snapshot.PrevDailyBar.Close
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
	}).Debug("Fetched snapshot quote")

	return quote, nil
}
