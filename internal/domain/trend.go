package domain

// TrendDelta is a day-over-day comparison for a single metric.
// HasPrior is false on the first day and whenever the prior value was zero,
// in which case ChangePercent is not representable.
type TrendDelta struct {
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	HasPrior      bool    `json:"hasPrior"`
}

// TrendEntry is one day of an ad enriched with derived metrics and
// day-over-day deltas keyed by metric name.
type TrendEntry struct {
	Date string `json:"date"`
	Metrics
	Derived DerivedMetrics        `json:"derivedMetrics"`
	Trends  map[string]TrendDelta `json:"trends"`
}

// Metric names used as keys in TrendEntry.Trends and in period summaries.
const (
	MetricSpend             = "spend"
	MetricImpressions       = "impressions"
	MetricClicks            = "clicks"
	MetricConversions       = "conversions"
	MetricCTR               = "ctr"
	MetricCPC               = "cpc"
	MetricCPM               = "cpm"
	MetricConversionRate    = "conversionRate"
	MetricCostPerConversion = "costPerConversion"
)
