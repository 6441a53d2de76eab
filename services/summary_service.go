package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"market-summary/interfaces"
)

// Timing modes select which report shape one request assembles. There
// are no transitions; every request picks one mode independently.
const (
	TimingDefault = ""
	TimingMorning = "morning"
	TimingClose   = "close"
)

const (
	StatusSuccess        = "success"
	StatusPartialFailure = "partial_failure"
	StatusError          = "error"
)

// SummaryOptions are the request-level switches owned by the CLI/HTTP
// boundary: timing mode and the live/test toggle.
type SummaryOptions struct {
	Timing   string
	TestMode bool
}

// MarketSummary is the full report payload for one invocation.
type MarketSummary struct {
	Timestamp             time.Time                         `json:"timestamp"`
	Status                string                            `json:"status"`
	Mode                  string                            `json:"mode"`
	SummaryType           string                            `json:"summary_type,omitempty"`
	Errors                []string                          `json:"errors,omitempty"`
	Indices               map[string]*interfaces.Quote      `json:"indices"`
	Stocks                map[string]*interfaces.Quote      `json:"stocks"`
	Portfolio             *interfaces.PortfolioSummary      `json:"portfolio,omitempty"`
	Options               *OptionsSummary                   `json:"options,omitempty"`
	ActionRecommendations *interfaces.ActionRecommendations `json:"action_recommendations,omitempty"`
	MarketPreview         *MarketPreview                    `json:"market_preview,omitempty"`
	MarketRecap           *MarketRecap                      `json:"market_recap,omitempty"`
}

// OptionsSummary aggregates the option positions for the report.
type OptionsSummary struct {
	Count      int                          `json:"count"`
	TotalValue float64                      `json:"total_value"`
	TotalGain  float64                      `json:"total_gain"`
	Positions  []*interfaces.OptionPosition `json:"positions"`
}

// MarketPreview is the morning-mode addition.
type MarketPreview struct {
	Futures             *interfaces.Quote            `json:"futures,omitempty"`
	FuturesTrend        string                       `json:"futures_trend"`
	VixLevel            string                       `json:"vix_level"`
	TodaysExpirations   []*interfaces.ScoredPosition `json:"todays_expirations"`
	KeyPositionsToWatch []*interfaces.ScoredPosition `json:"key_positions_to_watch"`
}

// MarketRecap is the close-mode addition.
type MarketRecap struct {
	PortfolioVsMarket         *PortfolioVsMarket           `json:"portfolio_vs_market,omitempty"`
	TopGainers                []*interfaces.StockHolding   `json:"top_gainers"`
	TopLosers                 []*interfaces.StockHolding   `json:"top_losers"`
	OptionsBestPerformer      *interfaces.OptionPosition   `json:"options_best_performer,omitempty"`
	OptionsWorstPerformer     *interfaces.OptionPosition   `json:"options_worst_performer,omitempty"`
	PositionsNeedingAttention []*interfaces.ScoredPosition `json:"positions_needing_attention"`
}

// PortfolioVsMarket compares the day's portfolio move against the S&P 500.
type PortfolioVsMarket struct {
	PortfolioChangePercent float64 `json:"portfolio_change_percent"`
	SP500ChangePercent     float64 `json:"sp500_change_percent"`
	RelativePerformance    float64 `json:"relative_performance"`
	Outperformed           bool    `json:"outperformed"`
}

// SummaryService runs the whole pipeline: load, build, enrich, score,
// categorize, assemble. It holds no per-request state; every invocation
// builds its snapshot from scratch.
type SummaryService struct {
	loader     *PortfolioLoader
	builder    *PositionBuilder
	config     *MarketConfig
	liveQuotes interfaces.QuoteService
	testQuotes interfaces.QuoteService
	logger     *logrus.Logger
	now        func() time.Time
}

// NewSummaryService creates a new summary service
func NewSummaryService(config *MarketConfig, liveQuotes interfaces.QuoteService) *SummaryService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &SummaryService{
		loader:     NewPortfolioLoader(),
		builder:    NewPositionBuilder(config),
		config:     config,
		liveQuotes: liveQuotes,
		testQuotes: NewTestMarketDataService(config),
		logger:     logger,
		now:        time.Now,
	}
}

// Generate produces one report. Per-item failures (unparseable rows,
// failed quotes) are aggregated into the errors list and degrade the
// status to partial_failure; only a missing or corrupt portfolio export
// returns an error.
func (ss *SummaryService) Generate(ctx context.Context, opts SummaryOptions) (*MarketSummary, error) {
	rows, err := ss.loader.Load(ss.config.PortfolioPath)
	if err != nil {
		return nil, err
	}

	built := ss.builder.Build(rows)

	quotes := ss.liveQuotes
	mode := "live"
	if opts.TestMode {
		quotes = ss.testQuotes
		mode = "test"
	}

	enricher := NewMarketEnricher(quotes, ss.config)
	symbols := enricher.Symbols(built, opts.Timing == TimingMorning)
	batch := enricher.FetchQuotes(ctx, symbols)

	summary := &MarketSummary{
		Timestamp: ss.now(),
		Mode:      mode,
		Indices:   make(map[string]*interfaces.Quote, len(ss.config.Indices)),
		Stocks:    make(map[string]*interfaces.Quote),
	}

	for _, t := range ss.config.Indices {
		summary.Indices[t.Key] = batch.Quotes[t.Symbol]
	}
	for _, t := range ss.config.Stocks {
		summary.Stocks[t.Key] = batch.Quotes[t.Symbol]
	}
	for symbol := range built.Holdings {
		summary.Stocks[strings.ToLower(symbol)] = batch.Quotes[symbol]
	}

	summary.Portfolio = ss.portfolioSummary(built.Holdings, batch)
	summary.Options = optionsSummary(built.Options)

	scored := ScorePositions(built.Options)
	summary.ActionRecommendations = Categorize(scored)

	reportErrors := append(append([]string{}, built.Warnings...), batch.Errors...)
	if len(reportErrors) > 0 {
		summary.Status = StatusPartialFailure
		summary.Errors = reportErrors
	} else {
		summary.Status = StatusSuccess
	}

	switch opts.Timing {
	case TimingMorning:
		summary.SummaryType = "morning_preview"
		summary.MarketPreview = ss.buildPreview(batch, summary.ActionRecommendations)
	case TimingClose:
		summary.SummaryType = "market_close"
		summary.MarketRecap = ss.buildRecap(summary, built.Options, scored)
	}

	ss.logger.WithFields(logrus.Fields{
		"status":  summary.Status,
		"mode":    mode,
		"timing":  opts.Timing,
		"stocks":  len(built.Holdings),
		"options": len(built.Options),
	}).Info("Market summary generated")

	return summary, nil
}

// portfolioSummary values each equity holding at current prices, the way
// the brokerage would: shares times price now vs shares times previous
// close. Symbols whose quote failed are left out of the totals.
func (ss *SummaryService) portfolioSummary(holdings map[string]int, batch *QuoteBatch) *interfaces.PortfolioSummary {
	if len(holdings) == 0 {
		return nil
	}

	totalCurrent := 0.0
	totalPrevious := 0.0
	detail := make(map[string]*interfaces.StockHolding, len(holdings))

	for symbol, shares := range holdings {
		quote, ok := batch.Quotes[symbol]
		if !ok || quote.Failed() {
			continue
		}

		currentValue := float64(shares) * quote.CurrentPrice
		previousValue := float64(shares) * quote.PreviousClose
		totalCurrent += currentValue
		totalPrevious += previousValue

		detail[strings.ToLower(symbol)] = &interfaces.StockHolding{
			Symbol:             symbol,
			Name:               quote.Name,
			Shares:             shares,
			CurrentValue:       round2(currentValue),
			DailyChangeDollars: round2(currentValue - previousValue),
		}
	}

	changeDollars := totalCurrent - totalPrevious
	changePercent := 0.0
	if totalPrevious > 0 {
		changePercent = changeDollars / totalPrevious * 100
	}

	return &interfaces.PortfolioSummary{
		TotalPortfolioValue:         round2(totalCurrent),
		TotalPortfolioChangeDollars: round2(changeDollars),
		TotalPortfolioChangePercent: round2(changePercent),
		PerStockHoldings:            detail,
	}
}

func optionsSummary(positions []*interfaces.OptionPosition) *OptionsSummary {
	summary := &OptionsSummary{
		Count:     len(positions),
		Positions: positions,
	}
	for _, p := range positions {
		summary.TotalValue += p.CurrentValue
		summary.TotalGain += p.TotalGain
	}
	summary.TotalValue = round2(summary.TotalValue)
	summary.TotalGain = round2(summary.TotalGain)
	return summary
}

// buildPreview assembles the morning additions: futures trend, VIX band,
// today's expirations and the top positions to watch.
func (ss *SummaryService) buildPreview(batch *QuoteBatch, rec *interfaces.ActionRecommendations) *MarketPreview {
	preview := &MarketPreview{
		FuturesTrend:        "unknown",
		VixLevel:            "unknown",
		TodaysExpirations:   make([]*interfaces.ScoredPosition, 0),
		KeyPositionsToWatch: make([]*interfaces.ScoredPosition, 0, 5),
	}

	if futures, ok := batch.Quotes[ss.config.Futures.Symbol]; ok && !futures.Failed() {
		preview.Futures = futures
		preview.FuturesTrend = classifyFuturesTrend(futures.DailyChangePercent)
	}
	if vix, ok := batch.Quotes[SymbolVIX]; ok && !vix.Failed() {
		preview.VixLevel = classifyVixLevel(vix.CurrentPrice)
	}

	for _, p := range rec.AllPositionsByPriority {
		if p.DaysToExpiration == 0 {
			preview.TodaysExpirations = append(preview.TodaysExpirations, p)
		}
	}

	limit := 5
	if len(rec.AllPositionsByPriority) < limit {
		limit = len(rec.AllPositionsByPriority)
	}
	preview.KeyPositionsToWatch = append(preview.KeyPositionsToWatch, rec.AllPositionsByPriority[:limit]...)

	return preview
}

// classifyFuturesTrend buckets the overnight futures move. The neutral
// band is inclusive: exactly +0.3 or -0.3 is still neutral.
func classifyFuturesTrend(changePercent float64) string {
	switch {
	case changePercent > 0.3:
		return "bullish"
	case changePercent < -0.3:
		return "bearish"
	default:
		return "neutral"
	}
}

// classifyVixLevel bands the VIX reading; boundary values fall into the
// lower band (15.0 is normal, 30.0 is elevated).
func classifyVixLevel(vix float64) string {
	switch {
	case vix < 15:
		return "low"
	case vix <= 20:
		return "normal"
	case vix <= 30:
		return "elevated"
	default:
		return "high"
	}
}

// buildRecap assembles the market-close additions.
func (ss *SummaryService) buildRecap(summary *MarketSummary, options []*interfaces.OptionPosition, scored []*interfaces.ScoredPosition) *MarketRecap {
	recap := &MarketRecap{
		TopGainers:                make([]*interfaces.StockHolding, 0, 3),
		TopLosers:                 make([]*interfaces.StockHolding, 0, 3),
		PositionsNeedingAttention: make([]*interfaces.ScoredPosition, 0),
	}

	sp500 := summary.Indices["sp500"]
	if summary.Portfolio != nil && sp500 != nil && !sp500.Failed() {
		relative := round2(summary.Portfolio.TotalPortfolioChangePercent - sp500.DailyChangePercent)
		recap.PortfolioVsMarket = &PortfolioVsMarket{
			PortfolioChangePercent: summary.Portfolio.TotalPortfolioChangePercent,
			SP500ChangePercent:     sp500.DailyChangePercent,
			RelativePerformance:    relative,
			Outperformed:           relative > 0,
		}
	}

	if summary.Portfolio != nil {
		ranked := make([]*interfaces.StockHolding, 0, len(summary.Portfolio.PerStockHoldings))
		for _, h := range summary.Portfolio.PerStockHoldings {
			ranked = append(ranked, h)
		}
		sort.SliceStable(ranked, func(i, j int) bool {
			return ranked[i].DailyChangeDollars > ranked[j].DailyChangeDollars
		})

		top := 3
		if len(ranked) < top {
			top = len(ranked)
		}
		recap.TopGainers = append(recap.TopGainers, ranked[:top]...)
		for i := len(ranked) - 1; i >= len(ranked)-top; i-- {
			recap.TopLosers = append(recap.TopLosers, ranked[i])
		}
	}

	for _, p := range options {
		if recap.OptionsBestPerformer == nil || p.DaysGain > recap.OptionsBestPerformer.DaysGain {
			recap.OptionsBestPerformer = p
		}
		if recap.OptionsWorstPerformer == nil || p.DaysGain < recap.OptionsWorstPerformer.DaysGain {
			recap.OptionsWorstPerformer = p
		}
	}

	for _, p := range scored {
		if p.DaysToExpiration <= 1 || p.CombinedPriorityScore >= 70 {
			recap.PositionsNeedingAttention = append(recap.PositionsNeedingAttention, p)
		}
	}
	sort.SliceStable(recap.PositionsNeedingAttention, func(i, j int) bool {
		return recap.PositionsNeedingAttention[i].CombinedPriorityScore > recap.PositionsNeedingAttention[j].CombinedPriorityScore
	})

	return recap
}
