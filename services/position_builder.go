package services

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"market-summary/interfaces"
)

// BuildResult is the typed outcome of one pass over the export rows:
// every row resolves exactly once into either an equity holding or an
// option position, and is never re-inspected by type afterwards.
type BuildResult struct {
	Holdings map[string]int
	Options  []*interfaces.OptionPosition
	Warnings []string
}

// PositionBuilder turns raw export rows into typed positions.
type PositionBuilder struct {
	config *MarketConfig
	logger *logrus.Logger
	now    func() time.Time
}

// NewPositionBuilder creates a new position builder
func NewPositionBuilder(config *MarketConfig) *PositionBuilder {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &PositionBuilder{
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Build partitions rows into stock holdings and option positions. Rows
// whose symbol parses under neither option grammar are treated as
// equities; malformed option-looking rows surface as warnings, never as
// guessed contracts.
func (pb *PositionBuilder) Build(rows []PortfolioRow) *BuildResult {
	result := &BuildResult{
		Holdings: make(map[string]int),
	}

	for _, row := range rows {
		if looksLikeOption(row.Symbol) {
			position, err := pb.buildOptionPosition(row)
			if err != nil {
				pb.logger.WithError(err).WithField("symbol", row.Symbol).Warn("Skipping option row")
				result.Warnings = append(result.Warnings, err.Error())
				continue
			}
			result.Options = append(result.Options, position)
			continue
		}

		shares := int(row.Quantity)
		if shares <= 0 {
			continue
		}
		result.Holdings[row.Symbol] += shares
	}

	pb.logger.WithFields(logrus.Fields{
		"stocks":  len(result.Holdings),
		"options": len(result.Options),
	}).Info("Portfolio positions built")

	return result
}

// looksLikeOption decides which branch a row takes. Anything the parser
// accepts is an option; the human grammar's Call/Put suffix alone is also
// enough to keep a malformed option row out of the equity bucket.
func looksLikeOption(symbol string) bool {
	if IsOptionSymbol(symbol) {
		return true
	}
	return humanSymbolPattern.MatchString(symbol) ||
		compactSymbolPattern.MatchString(symbol) ||
		containsOptionKeyword(symbol)
}

func containsOptionKeyword(symbol string) bool {
	for _, keyword := range []string{" Call", " Put"} {
		if len(symbol) > len(keyword) && symbol[len(symbol)-len(keyword):] == keyword {
			return true
		}
	}
	return false
}

func (pb *PositionBuilder) buildOptionPosition(row PortfolioRow) (*interfaces.OptionPosition, error) {
	contract, err := ParseOptionSymbol(row.Symbol)
	if err != nil {
		return nil, err
	}

	quantity := int(row.Quantity)
	if quantity == 0 {
		return nil, fmt.Errorf("option row %q has zero quantity", row.Symbol)
	}

	isShort := quantity < 0
	positionType := "long"
	if isShort {
		positionType = "short"
	}

	position := &interfaces.OptionPosition{
		Symbol:           row.Symbol,
		OptionContract:   *contract,
		Quantity:         quantity,
		PricePaid:        row.PricePaid,
		CurrentPrice:     row.LastPrice,
		DaysToExpiration: pb.daysToExpiration(contract.ExpirationDate.Time),
		IsShort:          isShort,
		PositionType:     positionType,
		CurrentValue:     round2(float64(quantity) * row.LastPrice * 100),
		DaysGain:         row.DaysGain,
	}

	position.TotalGain, position.TotalGainPercent = pb.resolveGain(row, position)

	return position, nil
}

// resolveGain prefers the export's own Total Gain columns and computes
// from price paid vs current price only when the export omits them.
func (pb *PositionBuilder) resolveGain(row PortfolioRow, p *interfaces.OptionPosition) (float64, float64) {
	gain := row.TotalGain
	if !row.HasTotalGain && row.HasPricePaid {
		contracts := float64(p.Quantity)
		if p.IsShort {
			gain = (p.PricePaid - p.CurrentPrice) * 100 * math.Abs(contracts)
		} else {
			gain = (p.CurrentPrice - p.PricePaid) * 100 * contracts
		}
		gain = round2(gain)
	}

	gainPercent := row.TotalGainPercent
	if !row.HasGainPercent && row.HasPricePaid && p.PricePaid != 0 {
		if p.IsShort {
			gainPercent = (p.PricePaid - p.CurrentPrice) / p.PricePaid * 100
		} else {
			gainPercent = (p.CurrentPrice - p.PricePaid) / p.PricePaid * 100
		}
		gainPercent = round2(gainPercent)
	}

	return gain, gainPercent
}

// daysToExpiration counts whole calendar days from today, floored at 0:
// an expired-but-unsettled contract reports as expiring today.
func (pb *PositionBuilder) daysToExpiration(expiration time.Time) int {
	now := pb.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	expDay := time.Date(expiration.Year(), expiration.Month(), expiration.Day(), 0, 0, 0, 0, time.UTC)

	days := int(expDay.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
