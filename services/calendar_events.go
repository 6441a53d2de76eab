package services

import (
	"fmt"
	"strings"
	"time"

	"market-summary/interfaces"
)

// Calendar event bodies for option expirations. The engine only builds
// the payloads; uploading them to a calendar backend is an external
// concern.

const (
	eventStartHour       = 9
	eventDurationMinutes = 30
	eventTimeZone        = "America/New_York"

	eventColorProfit = "10" // green
	eventColorLoss   = "11" // red
)

// CalendarEvent mirrors the calendar API event body shape.
type CalendarEvent struct {
	Summary     string         `json:"summary"`
	Description string         `json:"description"`
	Start       EventTime      `json:"start"`
	End         EventTime      `json:"end"`
	Reminders   EventReminders `json:"reminders"`
	ColorID     string         `json:"colorId"`
}

// EventTime is a zoned event timestamp.
type EventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone"`
}

// EventReminders carries popup reminder overrides.
type EventReminders struct {
	UseDefault bool            `json:"useDefault"`
	Overrides  []EventReminder `json:"overrides"`
}

// EventReminder is a single popup reminder, minutes before the event.
type EventReminder struct {
	Method  string `json:"method"`
	Minutes int    `json:"minutes"`
}

// BuildExpirationEvents produces one calendar event per scored position,
// reminding at 30, 7 and 1 days before expiration.
func BuildExpirationEvents(positions []*interfaces.ScoredPosition) []*CalendarEvent {
	events := make([]*CalendarEvent, 0, len(positions))
	for _, p := range positions {
		events = append(events, buildExpirationEvent(p))
	}
	return events
}

func buildExpirationEvent(p *interfaces.ScoredPosition) *CalendarEvent {
	start := time.Date(
		p.ExpirationDate.Year(), p.ExpirationDate.Month(), p.ExpirationDate.Day(),
		eventStartHour, 0, 0, 0, time.UTC,
	)
	end := start.Add(eventDurationMinutes * time.Minute)

	colorID := eventColorProfit
	if p.TotalGain < 0 {
		colorID = eventColorLoss
	}

	return &CalendarEvent{
		Summary:     eventTitle(p),
		Description: eventDescription(p),
		Start:       EventTime{DateTime: start.Format("2006-01-02T15:04:05"), TimeZone: eventTimeZone},
		End:         EventTime{DateTime: end.Format("2006-01-02T15:04:05"), TimeZone: eventTimeZone},
		Reminders: EventReminders{
			UseDefault: false,
			Overrides: []EventReminder{
				{Method: "popup", Minutes: 30 * 24 * 60},
				{Method: "popup", Minutes: 7 * 24 * 60},
				{Method: "popup", Minutes: 1 * 24 * 60},
			},
		},
		ColorID: colorID,
	}
}

func eventTitle(p *interfaces.ScoredPosition) string {
	prefix := "Long"
	if p.IsShort {
		prefix = "Short"
	}
	return fmt.Sprintf("\U0001F4CA %s $%g %s expires (%s)",
		p.UnderlyingSymbol, p.StrikePrice, p.OptionType, prefix)
}

func eventDescription(p *interfaces.ScoredPosition) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Symbol: %s\n", p.Symbol)
	fmt.Fprintf(&b, "Underlying: %s\n", p.UnderlyingSymbol)
	fmt.Fprintf(&b, "Option Type: %s\n", p.OptionType)
	fmt.Fprintf(&b, "Strike Price: $%.2f\n", p.StrikePrice)
	fmt.Fprintf(&b, "Position: %s\n", strings.ToUpper(p.PositionType))
	fmt.Fprintf(&b, "Quantity: %d\n\n", p.Quantity)

	fmt.Fprintf(&b, "=== P&L ===\n")
	fmt.Fprintf(&b, "Current Value: $%.2f\n", p.CurrentValue)
	fmt.Fprintf(&b, "Total P&L: $%.2f (%.2f%%)\n", p.TotalGain, p.TotalGainPercent)
	fmt.Fprintf(&b, "Cost to Close: $%.2f\n\n", p.CostToClose)

	fmt.Fprintf(&b, "Days to Expiration: %d\n\n", p.DaysToExpiration)

	fmt.Fprintf(&b, "=== ACTION RECOMMENDED ===\n")
	fmt.Fprintf(&b, "Priority: %s\n", p.UrgencyLevel)
	fmt.Fprintf(&b, "Score: %.1f\n", p.CombinedPriorityScore)
	fmt.Fprintf(&b, "Action: %s\n", p.RecommendedAction)

	return b.String()
}
