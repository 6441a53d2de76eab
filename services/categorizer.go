package services

import (
	"sort"

	"market-summary/interfaces"
)

// Categorize partitions scored positions into the named recommendation
// buckets. Buckets may overlap: a position can appear in several.
func Categorize(scored []*interfaces.ScoredPosition) *interfaces.ActionRecommendations {
	rec := &interfaces.ActionRecommendations{
		ProfitTakingOpportunities: make([]*interfaces.ScoredPosition, 0),
		UrgentLosses:              make([]*interfaces.ScoredPosition, 0),
		ExpiringThisWeek:          make([]*interfaces.ScoredPosition, 0),
		ExpiringNextWeek:          make([]*interfaces.ScoredPosition, 0),
		AllPositionsByPriority:    make([]*interfaces.ScoredPosition, 0, len(scored)),
	}

	for _, p := range scored {
		if p.IsShort && p.TotalGainPercent >= 50 {
			rec.ProfitTakingOpportunities = append(rec.ProfitTakingOpportunities, p)
		}
		// A single pass keeps positions matching both urgency conditions
		// from appearing twice.
		if p.CombinedPriorityScore >= 70 || (p.DaysToExpiration <= 7 && p.TotalGain < 0) {
			rec.UrgentLosses = append(rec.UrgentLosses, p)
		}
		if p.DaysToExpiration <= 7 {
			rec.ExpiringThisWeek = append(rec.ExpiringThisWeek, p)
		}
		if p.DaysToExpiration <= 14 {
			rec.ExpiringNextWeek = append(rec.ExpiringNextWeek, p)
		}
		rec.AllPositionsByPriority = append(rec.AllPositionsByPriority, p)
	}

	sort.SliceStable(rec.ProfitTakingOpportunities, func(i, j int) bool {
		return rec.ProfitTakingOpportunities[i].TotalGainPercent > rec.ProfitTakingOpportunities[j].TotalGainPercent
	})

	sort.SliceStable(rec.UrgentLosses, func(i, j int) bool {
		return rec.UrgentLosses[i].CombinedPriorityScore > rec.UrgentLosses[j].CombinedPriorityScore
	})

	sortByExpiration(rec.ExpiringThisWeek)
	sortByExpiration(rec.ExpiringNextWeek)

	sort.SliceStable(rec.AllPositionsByPriority, func(i, j int) bool {
		a, b := rec.AllPositionsByPriority[i], rec.AllPositionsByPriority[j]
		if a.CombinedPriorityScore != b.CombinedPriorityScore {
			return a.CombinedPriorityScore > b.CombinedPriorityScore
		}
		return a.DaysToExpiration < b.DaysToExpiration
	})

	return rec
}

// sortByExpiration orders soonest-expiring first, highest score first
// within the same day.
func sortByExpiration(positions []*interfaces.ScoredPosition) {
	sort.SliceStable(positions, func(i, j int) bool {
		a, b := positions[i], positions[j]
		if a.DaysToExpiration != b.DaysToExpiration {
			return a.DaysToExpiration < b.DaysToExpiration
		}
		return a.CombinedPriorityScore > b.CombinedPriorityScore
	})
}
