package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(year int, month time.Month, day int) func() time.Time {
	return func() time.Time {
		return time.Date(year, month, day, 15, 30, 0, 0, time.UTC)
	}
}

func newTestBuilder(now func() time.Time) *PositionBuilder {
	pb := NewPositionBuilder(DefaultMarketConfig("unused.csv"))
	pb.now = now
	return pb
}

func TestBuildSeparatesStocksAndOptions(t *testing.T) {
	pb := newTestBuilder(fixedClock(2025, time.January, 15))

	result := pb.Build([]PortfolioRow{
		{Symbol: "AAPL", Quantity: 10},
		{Symbol: "MSFT", Quantity: 5},
		{Symbol: "AAPL250207C00190000", Quantity: 2, LastPrice: 8.50},
	})

	assert.Equal(t, map[string]int{"AAPL": 10, "MSFT": 5}, result.Holdings)
	require.Len(t, result.Options, 1)
	assert.Empty(t, result.Warnings)
}

func TestBuildShortOptionPosition(t *testing.T) {
	pb := newTestBuilder(fixedClock(2025, time.February, 7))

	result := pb.Build([]PortfolioRow{{
		Symbol:       "AAPL250207C00190000",
		Quantity:     -1,
		LastPrice:    8.50,
		PricePaid:    12.50,
		HasPricePaid: true,
	}})

	require.Len(t, result.Options, 1)
	p := result.Options[0]

	assert.Equal(t, "AAPL", p.UnderlyingSymbol)
	assert.Equal(t, -1, p.Quantity)
	assert.True(t, p.IsShort)
	assert.Equal(t, "short", p.PositionType)
	assert.Equal(t, 0, p.DaysToExpiration)
	assert.Equal(t, -850.0, p.CurrentValue)
	// Short gain: sold at 12.50, now 8.50.
	assert.Equal(t, 400.0, p.TotalGain)
	assert.Equal(t, 32.0, p.TotalGainPercent)
}

func TestBuildLongOptionPosition(t *testing.T) {
	pb := newTestBuilder(fixedClock(2026, time.February, 20))

	result := pb.Build([]PortfolioRow{{
		Symbol:       "NVDA Feb 27 '26 $195 Call",
		Quantity:     2,
		LastPrice:    3.40,
		PricePaid:    5.00,
		HasPricePaid: true,
	}})

	require.Len(t, result.Options, 1)
	p := result.Options[0]

	assert.Equal(t, "NVDA", p.UnderlyingSymbol)
	assert.False(t, p.IsShort)
	assert.Equal(t, "long", p.PositionType)
	assert.Equal(t, 7, p.DaysToExpiration)
	assert.Equal(t, 680.0, p.CurrentValue)
	assert.Equal(t, -320.0, p.TotalGain)
	assert.Equal(t, -32.0, p.TotalGainPercent)
}

func TestBuildExportGainColumnsWin(t *testing.T) {
	pb := newTestBuilder(fixedClock(2025, time.January, 15))

	result := pb.Build([]PortfolioRow{{
		Symbol:           "AAPL250207C00190000",
		Quantity:         1,
		LastPrice:        8.50,
		PricePaid:        12.50,
		HasPricePaid:     true,
		TotalGain:        -123.45,
		HasTotalGain:     true,
		TotalGainPercent: -9.88,
		HasGainPercent:   true,
	}})

	require.Len(t, result.Options, 1)
	assert.Equal(t, -123.45, result.Options[0].TotalGain)
	assert.Equal(t, -9.88, result.Options[0].TotalGainPercent)
}

func TestBuildDaysToExpirationFloorsAtZero(t *testing.T) {
	pb := newTestBuilder(fixedClock(2025, time.March, 1))

	result := pb.Build([]PortfolioRow{{
		Symbol:    "AAPL250207C00190000",
		Quantity:  1,
		LastPrice: 0.01,
	}})

	require.Len(t, result.Options, 1)
	assert.Equal(t, 0, result.Options[0].DaysToExpiration)
}

func TestBuildMalformedOptionRowBecomesWarning(t *testing.T) {
	pb := newTestBuilder(fixedClock(2025, time.January, 15))

	result := pb.Build([]PortfolioRow{{
		Symbol:   "NVDA Feb 30 '26 $195 Call",
		Quantity: 1,
	}})

	// The row must not be misread as an equity holding.
	assert.Empty(t, result.Holdings)
	assert.Empty(t, result.Options)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "NVDA Feb 30 '26 $195 Call")
}

func TestBuildZeroQuantityOptionRowBecomesWarning(t *testing.T) {
	pb := newTestBuilder(fixedClock(2025, time.January, 15))

	result := pb.Build([]PortfolioRow{{
		Symbol:    "AAPL250207C00190000",
		Quantity:  0,
		LastPrice: 8.50,
	}})

	assert.Empty(t, result.Options)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "zero quantity")
}

func TestBuildSkipsNonPositiveEquityRows(t *testing.T) {
	pb := newTestBuilder(fixedClock(2025, time.January, 15))

	result := pb.Build([]PortfolioRow{
		{Symbol: "AAPL", Quantity: 0},
		{Symbol: "MSFT", Quantity: -3},
	})

	assert.Empty(t, result.Holdings)
}

func TestBuildAggregatesDuplicateHoldings(t *testing.T) {
	pb := newTestBuilder(fixedClock(2025, time.January, 15))

	result := pb.Build([]PortfolioRow{
		{Symbol: "AAPL", Quantity: 10},
		{Symbol: "AAPL", Quantity: 5},
	})

	assert.Equal(t, map[string]int{"AAPL": 15}, result.Holdings)
}
