package weather

import (
	"time"
)

// AggregateReadings combines multiple provider readings into a single DailySummary.
// Temperatures are averaged; the condition is selected by majority (ties go to the
// condition seen first) and the summary text comes from the first reading with
// that condition.
func AggregateReadings(date time.Time, readings []ProviderReading) DailySummary {
	if len(readings) == 0 {
		return DailySummary{
			Date:      date,
			Condition: ConditionUnknown,
		}
	}

	var sumMax, sumMin float64

	conditionCounts := make(map[Condition]int)
	var order []Condition
	providers := make([]ProviderContribution, 0, len(readings))

	for _, r := range readings {
		sumMax += r.TemperatureMaxC
		sumMin += r.TemperatureMinC

		if _, ok := conditionCounts[r.Condition]; !ok {
			order = append(order, r.Condition)
		}
		conditionCounts[r.Condition]++

		providers = append(providers, ProviderContribution{
			ProviderName: r.ProviderName,
			FetchedAt:    r.FetchedAt,
		})
	}

	n := float64(len(readings))

	// Pick majority condition.
	bestCond := ConditionUnknown
	bestCount := 0
	for _, cond := range order {
		if count := conditionCounts[cond]; count > bestCount {
			bestCount = count
			bestCond = cond
		}
	}

	summary := ""
	for _, r := range readings {
		if r.Condition == bestCond && r.Summary != "" {
			summary = r.Summary
			break
		}
	}
	if summary == "" {
		summary = string(bestCond)
	}

	return DailySummary{
		Date:           date,
		TemperatureMax: sumMax / n,
		TemperatureMin: sumMin / n,
		Summary:        summary,
		Condition:      bestCond,
		Providers:      providers,
	}
}
