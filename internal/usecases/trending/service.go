// Package trending derives per-day metrics and day-over-day deltas from an
// ad's daily breakdown.
package trending

import (
	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/pkg/utils"
)

// Daily enriches a date-sorted daily breakdown with derived metrics and
// trends against the prior day. The first day carries zero deltas with
// HasPrior=false; a zero prior value also clears HasPrior since the percent
// change is not representable.
func Daily(daily []domain.DailyData) []domain.TrendEntry {
	entries := make([]domain.TrendEntry, 0, len(daily))

	for i, day := range daily {
		entry := domain.TrendEntry{
			Date:    day.Date,
			Metrics: day.Metrics,
			Derived: day.Metrics.Derive(),
			Trends:  make(map[string]domain.TrendDelta, 9),
		}

		today := metricValues(day.Metrics, entry.Derived)

		if i == 0 {
			for name := range today {
				entry.Trends[name] = domain.TrendDelta{}
			}
		} else {
			prevDerived := daily[i-1].Metrics.Derive()
			prior := metricValues(daily[i-1].Metrics, prevDerived)

			for name, value := range today {
				entry.Trends[name] = delta(value, prior[name])
			}
		}

		entries = append(entries, entry)
	}

	return entries
}

// PeriodSummary returns per-metric averages over the whole breakdown.
func PeriodSummary(daily []domain.DailyData) map[string]float64 {
	summary := make(map[string]float64, 9)
	if len(daily) == 0 {
		return summary
	}

	for _, day := range daily {
		for name, value := range metricValues(day.Metrics, day.Metrics.Derive()) {
			summary[name] += value
		}
	}

	n := float64(len(daily))
	for name := range summary {
		summary[name] = utils.RoundWithTwoDecimalPlace(summary[name] / n)
	}

	return summary
}

func delta(today, prior float64) domain.TrendDelta {
	change := today - prior
	if prior == 0 {
		return domain.TrendDelta{Change: change}
	}

	return domain.TrendDelta{
		Change:        change,
		ChangePercent: utils.RoundWithTwoDecimalPlace(change / prior * 100),
		HasPrior:      true,
	}
}

func metricValues(m domain.Metrics, d domain.DerivedMetrics) map[string]float64 {
	return map[string]float64{
		domain.MetricSpend:             m.Spend,
		domain.MetricImpressions:       float64(m.Impressions),
		domain.MetricClicks:            float64(m.Clicks),
		domain.MetricConversions:       m.Conversions,
		domain.MetricCTR:               d.CTR,
		domain.MetricCPC:               d.CPC,
		domain.MetricCPM:               d.CPM,
		domain.MetricConversionRate:    d.ConversionRate,
		domain.MetricCostPerConversion: d.CostPerConversion,
	}
}
