package domain

import "sort"

// Metrics holds the raw counters shared by campaigns, ads and daily rows.
// Spend is always KRW past the adapter boundary.
type Metrics struct {
	Spend       float64 `json:"spend"`
	Impressions int64   `json:"impressions"`
	Clicks      int64   `json:"clicks"`
	Conversions float64 `json:"conversions"`
}

// DerivedMetrics are recomputed from KRW totals, never carried over from
// vendor output. Zero denominators yield zero.
type DerivedMetrics struct {
	CTR               float64 `json:"ctr"`
	CPC               float64 `json:"cpc"`
	CPM               float64 `json:"cpm"`
	ConversionRate    float64 `json:"conversionRate"`
	CostPerConversion float64 `json:"costPerConversion"`
}

// Derive computes the canonical derived metrics from raw counters.
func (m Metrics) Derive() DerivedMetrics {
	var d DerivedMetrics

	if m.Impressions > 0 {
		d.CTR = float64(m.Clicks) / float64(m.Impressions) * 100
		d.CPM = m.Spend / float64(m.Impressions) * 1000
	}
	if m.Clicks > 0 {
		d.CPC = m.Spend / float64(m.Clicks)
		d.ConversionRate = m.Conversions / float64(m.Clicks) * 100
	}
	if m.Conversions > 0 {
		d.CostPerConversion = m.Spend / m.Conversions
	}

	return d
}

// Add accumulates other into m.
func (m *Metrics) Add(other Metrics) {
	m.Spend += other.Spend
	m.Impressions += other.Impressions
	m.Clicks += other.Clicks
	m.Conversions += other.Conversions
}

// Campaign is the canonical, platform-independent campaign record.
type Campaign struct {
	Platform     Platform `json:"platform"`
	CampaignID   string   `json:"campaignId"`
	CampaignName string   `json:"campaignName"`
	Metrics
	DerivedMetrics
}

// DailyData is one day of an ad's performance, spend in KRW converted with
// that day's rate.
type DailyData struct {
	Date string `json:"date"`
	Metrics
}

// Ad is the canonical ad record with its per-day breakdown.
type Ad struct {
	Platform     Platform `json:"platform"`
	AdID         string   `json:"adId"`
	AdName       string   `json:"adName"`
	CampaignID   string   `json:"campaignId"`
	CampaignName string   `json:"campaignName"`
	Metrics
	DerivedMetrics
	DailyData []DailyData `json:"dailyData"`
}

// SortCampaignsBySpend orders campaigns by descending spend in place.
func SortCampaignsBySpend(campaigns []*Campaign) {
	sort.SliceStable(campaigns, func(i, j int) bool {
		return campaigns[i].Spend > campaigns[j].Spend
	})
}

// SortAdsBySpend orders ads by descending spend in place.
func SortAdsBySpend(ads []*Ad) {
	sort.SliceStable(ads, func(i, j int) bool {
		return ads[i].Spend > ads[j].Spend
	})
}

// SortDailyData orders an ad's daily rows by ascending date in place.
func SortDailyData(daily []DailyData) {
	sort.SliceStable(daily, func(i, j int) bool {
		return daily[i].Date < daily[j].Date
	})
}
