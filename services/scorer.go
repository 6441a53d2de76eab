package services

import (
	"fmt"
	"math"

	"market-summary/interfaces"
)

// Priority scoring is a pure function over one position plus the
// portfolio-wide worst single-position loss. It has no error path and no
// side effects, so every request recomputes scores from scratch.

const (
	// Time urgency decays linearly from 100 on expiration day to 0 at
	// 14 or more days out.
	timeUrgencyHorizonDays = 14.0

	weightTimeUrgency = 0.4
	weightLossDollar  = 0.3
	weightLossPercent = 0.3
)

const (
	UrgencyCritical = "CRITICAL"
	UrgencyHigh     = "HIGH"
	UrgencyMedium   = "MEDIUM"
	UrgencyLow      = "LOW"
)

// MaxLossDollars returns the largest single-position absolute loss across
// the given positions, or 0 when nothing is losing money.
func MaxLossDollars(positions []*interfaces.OptionPosition) float64 {
	maxLoss := 0.0
	for _, p := range positions {
		if p.TotalGain < 0 {
			maxLoss = math.Max(maxLoss, math.Abs(p.TotalGain))
		}
	}
	return maxLoss
}

// ScorePosition computes the component scores, the combined priority
// score and the recommended action for one option position.
func ScorePosition(p *interfaces.OptionPosition, maxLossDollars float64) *interfaces.ScoredPosition {
	if maxLossDollars <= 0 {
		maxLossDollars = 1
	}

	timeScore := clamp(100-float64(p.DaysToExpiration)*(100/timeUrgencyHorizonDays), 0, 100)

	lossDollarScore := 0.0
	if p.TotalGain < 0 {
		lossDollarScore = clamp(math.Abs(p.TotalGain)/maxLossDollars*100, 0, 100)
	}

	lossPercentScore := 0.0
	if p.TotalGainPercent < 0 {
		lossPercentScore = clamp(math.Abs(p.TotalGainPercent), 0, 100)
	}

	combined := round2(weightTimeUrgency*timeScore +
		weightLossDollar*lossDollarScore +
		weightLossPercent*lossPercentScore)

	return &interfaces.ScoredPosition{
		OptionPosition:        *p,
		TimeUrgencyScore:      round2(timeScore),
		LossDollarScore:       round2(lossDollarScore),
		LossPercentScore:      round2(lossPercentScore),
		CombinedPriorityScore: combined,
		UrgencyLevel:          urgencyLevel(combined),
		RecommendedAction:     recommendedAction(p, combined),
		CostToClose:           round2(math.Abs(p.CurrentValue)),
	}
}

// ScorePositions scores every position against the shared max-loss
// aggregate.
func ScorePositions(positions []*interfaces.OptionPosition) []*interfaces.ScoredPosition {
	maxLoss := MaxLossDollars(positions)
	scored := make([]*interfaces.ScoredPosition, 0, len(positions))
	for _, p := range positions {
		scored = append(scored, ScorePosition(p, maxLoss))
	}
	return scored
}

// urgencyLevel bands the rounded combined score. Boundaries are inclusive
// on the lower threshold of each band: exactly 70.00 is HIGH.
func urgencyLevel(score float64) string {
	switch {
	case score >= 90:
		return UrgencyCritical
	case score >= 70:
		return UrgencyHigh
	case score >= 50:
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// recommendedAction applies the priority table. Short-position
// profit-taking rules take precedence over every loss-urgency rule.
func recommendedAction(p *interfaces.OptionPosition, score float64) string {
	switch {
	case p.IsShort && p.TotalGainPercent >= 60:
		return fmt.Sprintf("BUY TO CLOSE - Lock in %.1f%% profit (TAKE PROFIT NOW)", p.TotalGainPercent)
	case p.IsShort && p.TotalGainPercent >= 50:
		return fmt.Sprintf("BUY TO CLOSE - Lock in %.1f%% profit (CONSIDER CLOSING)", p.TotalGainPercent)
	case p.TotalGain < 0:
		switch {
		case score >= 90:
			return "CLOSE IMMEDIATELY - Catastrophic loss, time running out"
		case score >= 70:
			return "HIGH PRIORITY - Consider closing to stop losses"
		case score >= 50:
			return "MONITOR - Review position, consider action if worsens"
		default:
			return "WATCH - Track position for changes"
		}
	default:
		return "HOLD - Position is profitable, no immediate action needed"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
