package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"market-summary/interfaces"
)

// Option symbols arrive in one of two shapes depending on how the
// brokerage export was produced:
//
//	human-readable: NVDA Feb 27 '26 $195 Call
//	compact code:   AAPL250207C00190000
//
// ParseOptionSymbol tries both and fails closed with a *ParseError when
// neither grammar matches.

var humanSymbolPattern = regexp.MustCompile(
	`^([A-Z][A-Z0-9.]*) ([A-Za-z]{3}) (\d{1,2}) '(\d{2}) \$(\d+(?:\.\d+)?) (Call|Put)$`)

var compactSymbolPattern = regexp.MustCompile(
	`^([A-Z][A-Z0-9.]*?)(\d{6})([CP])(\d{8})$`)

var monthAbbreviations = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// ParseOptionSymbol parses a raw identifier into an OptionContract.
func ParseOptionSymbol(raw string) (*interfaces.OptionContract, error) {
	symbol := strings.TrimSpace(raw)

	if contract, ok := parseHumanSymbol(symbol); ok {
		return contract, nil
	}
	if contract, ok := parseCompactSymbol(symbol); ok {
		return contract, nil
	}

	return nil, &ParseError{Symbol: raw, Reason: "matches neither human-readable nor compact grammar"}
}

// IsOptionSymbol reports whether the raw identifier parses as an option
// under either grammar.
func IsOptionSymbol(raw string) bool {
	_, err := ParseOptionSymbol(raw)
	return err == nil
}

func parseHumanSymbol(symbol string) (*interfaces.OptionContract, bool) {
	m := humanSymbolPattern.FindStringSubmatch(symbol)
	if m == nil {
		return nil, false
	}

	month, ok := monthAbbreviations[m[2]]
	if !ok {
		return nil, false
	}

	day, _ := strconv.Atoi(m[3])
	yy, _ := strconv.Atoi(m[4])
	year := 2000 + yy

	// Reject dates that normalize away, e.g. Feb 30.
	expiration := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if expiration.Day() != day || expiration.Month() != month {
		return nil, false
	}

	strike, err := strconv.ParseFloat(m[5], 64)
	if err != nil {
		return nil, false
	}

	return &interfaces.OptionContract{
		UnderlyingSymbol: m[1],
		ExpirationDate:   interfaces.Date{Time: expiration},
		StrikePrice:      strike,
		OptionType:       interfaces.OptionType(m[6]),
	}, true
}

func parseCompactSymbol(symbol string) (*interfaces.OptionContract, bool) {
	m := compactSymbolPattern.FindStringSubmatch(symbol)
	if m == nil {
		return nil, false
	}

	expiration, err := time.Parse("060102", m[2])
	if err != nil {
		return nil, false
	}

	strikeThousandths, err := strconv.Atoi(m[4])
	if err != nil {
		return nil, false
	}

	optionType := interfaces.OptionTypeCall
	if m[3] == "P" {
		optionType = interfaces.OptionTypePut
	}

	return &interfaces.OptionContract{
		UnderlyingSymbol: m[1],
		ExpirationDate:   interfaces.Date{Time: expiration},
		StrikePrice:      float64(strikeThousandths) / 1000.0,
		OptionType:       optionType,
	}, true
}

// FormatHumanSymbol renders a contract in the human-readable grammar.
// It is the exact inverse of the human-readable parse.
func FormatHumanSymbol(c *interfaces.OptionContract) string {
	return fmt.Sprintf("%s %s %d '%02d $%s %s",
		c.UnderlyingSymbol,
		c.ExpirationDate.Format("Jan"),
		c.ExpirationDate.Day(),
		c.ExpirationDate.Year()%100,
		strconv.FormatFloat(c.StrikePrice, 'f', -1, 64),
		c.OptionType,
	)
}

// FormatCompactSymbol renders a contract as a compact brokerage code.
// It is the exact inverse of the compact parse.
func FormatCompactSymbol(c *interfaces.OptionContract) string {
	typeCode := "C"
	if c.OptionType == interfaces.OptionTypePut {
		typeCode = "P"
	}
	return fmt.Sprintf("%s%s%s%08d",
		c.UnderlyingSymbol,
		c.ExpirationDate.Format("060102"),
		typeCode,
		int(math.Round(c.StrikePrice*1000)),
	)
}
