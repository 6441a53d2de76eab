package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-summary/interfaces"
)

func TestParseOptionSymbolHumanReadable(t *testing.T) {
	contract, err := ParseOptionSymbol("NVDA Feb 27 '26 $195 Call")
	require.NoError(t, err)

	assert.Equal(t, "NVDA", contract.UnderlyingSymbol)
	assert.Equal(t, time.Date(2026, time.February, 27, 0, 0, 0, 0, time.UTC), contract.ExpirationDate.Time)
	assert.Equal(t, 195.0, contract.StrikePrice)
	assert.Equal(t, interfaces.OptionTypeCall, contract.OptionType)
}

func TestParseOptionSymbolHumanReadablePutWithDecimalStrike(t *testing.T) {
	contract, err := ParseOptionSymbol("TSLA Mar 21 '25 $150.5 Put")
	require.NoError(t, err)

	assert.Equal(t, "TSLA", contract.UnderlyingSymbol)
	assert.Equal(t, 150.5, contract.StrikePrice)
	assert.Equal(t, interfaces.OptionTypePut, contract.OptionType)
}

func TestParseOptionSymbolDottedShareClass(t *testing.T) {
	contract, err := ParseOptionSymbol("BRK.B Jan 16 '26 $300 Put")
	require.NoError(t, err)

	assert.Equal(t, "BRK.B", contract.UnderlyingSymbol)
	assert.Equal(t, interfaces.OptionTypePut, contract.OptionType)
}

func TestParseOptionSymbolCompact(t *testing.T) {
	contract, err := ParseOptionSymbol("AAPL250207C00190000")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", contract.UnderlyingSymbol)
	assert.Equal(t, time.Date(2025, time.February, 7, 0, 0, 0, 0, time.UTC), contract.ExpirationDate.Time)
	assert.Equal(t, 190.0, contract.StrikePrice)
	assert.Equal(t, interfaces.OptionTypeCall, contract.OptionType)
}

func TestParseOptionSymbolCompactFractionalStrike(t *testing.T) {
	contract, err := ParseOptionSymbol("SPY250321P00456500")
	require.NoError(t, err)

	assert.Equal(t, "SPY", contract.UnderlyingSymbol)
	assert.Equal(t, 456.5, contract.StrikePrice)
	assert.Equal(t, interfaces.OptionTypePut, contract.OptionType)
}

func TestParseOptionSymbolTrimsWhitespace(t *testing.T) {
	contract, err := ParseOptionSymbol("  AAPL250207C00190000  ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", contract.UnderlyingSymbol)
}

func TestParseOptionSymbolFailsClosed(t *testing.T) {
	cases := []string{
		"AAPL",
		"",
		"NVDA Feb 30 '26 $195 Call",
		"NVDA Xyz 27 '26 $195 Call",
		"nvda Feb 27 '26 $195 Call",
		"NVDA Feb 27 '26 $195 Straddle",
		"AAPL250207X00190000",
		"AAPL2502C00190000",
		"250207C00190000",
	}

	for _, raw := range cases {
		contract, err := ParseOptionSymbol(raw)
		assert.Nil(t, contract, "expected no contract for %q", raw)
		require.Error(t, err, "expected an error for %q", raw)

		var parseErr *ParseError
		require.True(t, errors.As(err, &parseErr), "expected *ParseError for %q", raw)
		assert.Equal(t, raw, parseErr.Symbol)
	}
}

func TestIsOptionSymbol(t *testing.T) {
	assert.True(t, IsOptionSymbol("NVDA Feb 27 '26 $195 Call"))
	assert.True(t, IsOptionSymbol("AAPL250207C00190000"))
	assert.False(t, IsOptionSymbol("AAPL"))
	assert.False(t, IsOptionSymbol("NVDA Feb 30 '26 $195 Call"))
}

func TestFormatHumanSymbolRoundTrip(t *testing.T) {
	for _, raw := range []string{
		"NVDA Feb 27 '26 $195 Call",
		"TSLA Mar 21 '25 $150.5 Put",
		"BRK.B Jan 16 '26 $300 Put",
	} {
		contract, err := ParseOptionSymbol(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, FormatHumanSymbol(contract))
	}
}

func TestFormatCompactSymbolRoundTrip(t *testing.T) {
	for _, raw := range []string{
		"AAPL250207C00190000",
		"SPY250321P00456500",
		"NVDA260227C00195000",
	} {
		contract, err := ParseOptionSymbol(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, FormatCompactSymbol(contract))
	}
}

func TestFormatCompactSymbolFromHumanParse(t *testing.T) {
	contract, err := ParseOptionSymbol("AAPL Feb 7 '25 $190 Call")
	require.NoError(t, err)
	assert.Equal(t, "AAPL250207C00190000", FormatCompactSymbol(contract))
}
