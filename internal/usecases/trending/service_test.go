package trending

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adscope/unified-ads-mcp/internal/domain"
)

func TestDaily(t *testing.T) {
	daily := []domain.DailyData{
		{Date: "2025-07-01", Metrics: domain.Metrics{Spend: 1000, Impressions: 100, Clicks: 10, Conversions: 2}},
		{Date: "2025-07-02", Metrics: domain.Metrics{Spend: 1500, Impressions: 200, Clicks: 15, Conversions: 3}},
		{Date: "2025-07-03", Metrics: domain.Metrics{Spend: 1200, Impressions: 150, Clicks: 0, Conversions: 0}},
	}

	entries := Daily(daily)
	assert.Len(t, entries, 3)

	// First day has no prior: zero deltas everywhere.
	for _, delta := range entries[0].Trends {
		assert.False(t, delta.HasPrior)
		assert.Zero(t, delta.Change)
	}

	// Second day compares against the first.
	spend := entries[1].Trends[domain.MetricSpend]
	assert.True(t, spend.HasPrior)
	assert.Equal(t, 500.0, spend.Change)
	assert.Equal(t, 50.0, spend.ChangePercent)

	clicks := entries[1].Trends[domain.MetricClicks]
	assert.Equal(t, 5.0, clicks.Change)
	assert.Equal(t, 50.0, clicks.ChangePercent)

	// Derived metrics are computed per day.
	assert.Equal(t, 10.0, entries[0].Derived.CTR)
	assert.Equal(t, 100.0, entries[0].Derived.CPC)

	// Zero denominators on day three yield zero derived values.
	assert.Zero(t, entries[2].Derived.CPC)
	assert.Zero(t, entries[2].Derived.ConversionRate)
}

func TestDailyZeroPriorClearsHasPrior(t *testing.T) {
	daily := []domain.DailyData{
		{Date: "2025-07-01", Metrics: domain.Metrics{Spend: 0, Impressions: 0, Clicks: 0}},
		{Date: "2025-07-02", Metrics: domain.Metrics{Spend: 700, Impressions: 50, Clicks: 5}},
	}

	entries := Daily(daily)

	spend := entries[1].Trends[domain.MetricSpend]
	assert.False(t, spend.HasPrior)
	assert.Equal(t, 700.0, spend.Change)
	assert.Zero(t, spend.ChangePercent)
}

func TestDailyEmpty(t *testing.T) {
	assert.Empty(t, Daily(nil))
}

func TestPeriodSummary(t *testing.T) {
	daily := []domain.DailyData{
		{Date: "2025-07-01", Metrics: domain.Metrics{Spend: 1000, Impressions: 100, Clicks: 10, Conversions: 2}},
		{Date: "2025-07-02", Metrics: domain.Metrics{Spend: 2000, Impressions: 300, Clicks: 20, Conversions: 4}},
	}

	summary := PeriodSummary(daily)

	assert.Equal(t, 1500.0, summary[domain.MetricSpend])
	assert.Equal(t, 200.0, summary[domain.MetricImpressions])
	assert.Equal(t, 15.0, summary[domain.MetricClicks])
	assert.Equal(t, 3.0, summary[domain.MetricConversions])

	// Average of the per-day CTRs (10% and 6.67%), not the pooled CTR.
	assert.Equal(t, 8.33, summary[domain.MetricCTR])
}

func TestPeriodSummaryEmpty(t *testing.T) {
	assert.Empty(t, PeriodSummary(nil))
}
