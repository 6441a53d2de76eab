package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// PortfolioRow is one raw line of the brokerage export with its numeric
// columns parsed. Optional columns keep a Has* flag so the position
// builder can fall back to computing the value itself.
type PortfolioRow struct {
	Symbol           string
	Quantity         float64
	LastPrice        float64
	DaysGain         float64
	TotalGain        float64
	HasTotalGain     bool
	TotalGainPercent float64
	HasGainPercent   bool
	Value            float64
	PricePaid        float64
	HasPricePaid     bool
}

// PortfolioLoader reads brokerage CSV exports.
type PortfolioLoader struct {
	logger *logrus.Logger
}

// NewPortfolioLoader creates a new portfolio loader
func NewPortfolioLoader() *PortfolioLoader {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &PortfolioLoader{logger: logger}
}

var requiredColumns = []string{
	"Symbol", "Quantity", "Last Price $", "Day's Gain $",
	"Total Gain $", "Total Gain %", "Value $",
}

// Load reads the portfolio export at path. A missing or unreadable file
// returns a *DataSourceError; that is the only fatal failure in the
// pipeline. CASH and TOTAL summary rows are dropped here.
func (pl *PortfolioLoader) Load(path string) ([]PortfolioRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &DataSourceError{Path: path, Err: err}
	}
	defer f.Close()

	rows, err := pl.parse(f)
	if err != nil {
		return nil, &DataSourceError{Path: path, Err: err}
	}

	pl.logger.WithFields(logrus.Fields{
		"path": path,
		"rows": len(rows),
	}).Info("Portfolio export loaded")

	return rows, nil
}

func (pl *PortfolioLoader) parse(r io.Reader) ([]PortfolioRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Exports produced on Windows open with a UTF-8 BOM.
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return nil, fmt.Errorf("missing required column %q", name)
		}
	}

	var rows []PortfolioRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		field := func(name string) string {
			idx, ok := columns[name]
			if !ok || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		symbol := field("Symbol")
		if symbol == "" {
			continue
		}
		if upper := strings.ToUpper(symbol); upper == symbolCash || upper == symbolTotal {
			continue
		}

		row := PortfolioRow{Symbol: symbol}
		row.Quantity = parseNumber(field("Quantity"))
		row.LastPrice = parseNumber(field("Last Price $"))
		row.DaysGain = parseNumber(field("Day's Gain $"))
		row.Value = parseNumber(field("Value $"))
		row.TotalGain, row.HasTotalGain = parseOptionalNumber(field("Total Gain $"))
		row.TotalGainPercent, row.HasGainPercent = parseOptionalNumber(field("Total Gain %"))
		row.PricePaid, row.HasPricePaid = parseOptionalNumber(field("Price Paid $"))

		rows = append(rows, row)
	}

	return rows, nil
}

// parseNumber strips currency formatting (commas, $, %) and parses the
// remainder, returning 0 for anything unparseable.
func parseNumber(s string) float64 {
	v, _ := parseOptionalNumber(s)
	return v
}

func parseOptionalNumber(s string) (float64, bool) {
	cleaned := strings.NewReplacer(",", "", "$", "", "%", "").Replace(strings.TrimSpace(s))
	if cleaned == "" || cleaned == "--" {
		return 0, false
	}
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}
