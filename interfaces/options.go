package interfaces

import (
	"fmt"
	"time"
)

// OptionType is the contract right, "Call" or "Put".
type OptionType string

const (
	OptionTypeCall OptionType = "Call"
	OptionTypePut  OptionType = "Put"
)

// Date is a calendar date that marshals as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate builds a Date at midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format("2006-01-02") + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	t, err := time.Parse(`"2006-01-02"`, string(data))
	if err != nil {
		return fmt.Errorf("invalid date %s: %w", string(data), err)
	}
	d.Time = t
	return nil
}

// OptionContract is the parsed, immutable description of one contract.
type OptionContract struct {
	UnderlyingSymbol string     `json:"underlying_symbol"`
	ExpirationDate   Date       `json:"expiration_date"`
	StrikePrice      float64    `json:"strike_price"`
	OptionType       OptionType `json:"option_type"`
}

// OptionPosition is a contract merged with the row-level quantity and
// price fields from the portfolio export. Quantity sign encodes direction:
// negative quantity is the writer/seller side. CurrentValue keeps the
// export's sign convention (negative for short positions).
type OptionPosition struct {
	Symbol string `json:"symbol"`
	OptionContract
	Quantity         int     `json:"quantity"`
	PricePaid        float64 `json:"price_paid"`
	CurrentPrice     float64 `json:"current_price"`
	DaysToExpiration int     `json:"days_to_expiration"`
	IsShort          bool    `json:"is_short"`
	PositionType     string  `json:"position_type"`
	CurrentValue     float64 `json:"current_value"`
	DaysGain         float64 `json:"days_gain"`
	TotalGain        float64 `json:"total_gain"`
	TotalGainPercent float64 `json:"total_gain_percent"`
}

// ScoredPosition is an OptionPosition plus its priority scores and the
// recommended action. Recomputed on every request, never cached.
type ScoredPosition struct {
	OptionPosition
	TimeUrgencyScore      float64 `json:"time_urgency_score"`
	LossDollarScore       float64 `json:"loss_dollar_score"`
	LossPercentScore      float64 `json:"loss_percent_score"`
	CombinedPriorityScore float64 `json:"combined_priority_score"`
	UrgencyLevel          string  `json:"urgency_level"`
	RecommendedAction     string  `json:"recommended_action"`
	CostToClose           float64 `json:"cost_to_close"`
}

// ActionRecommendations are the named recommendation buckets. Buckets
// may overlap; none is a partition of the position set.
type ActionRecommendations struct {
	ProfitTakingOpportunities []*ScoredPosition `json:"profit_taking_opportunities"`
	UrgentLosses              []*ScoredPosition `json:"urgent_losses"`
	ExpiringThisWeek          []*ScoredPosition `json:"expiring_this_week"`
	ExpiringNextWeek          []*ScoredPosition `json:"expiring_next_week"`
	AllPositionsByPriority    []*ScoredPosition `json:"all_positions_by_priority"`
}
