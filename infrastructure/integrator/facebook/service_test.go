package facebook

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	fbdomain "github.com/adscope/unified-ads-mcp/infrastructure/integrator/facebook/domain"
	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/exchange"
)

type stubRates struct {
	rates map[string]float64
	calls []string
}

func (r *stubRates) RateForDate(_ context.Context, date string) float64 {
	r.calls = append(r.calls, date)
	if rate, ok := r.rates[date]; ok {
		return rate
	}
	return exchange.DefaultUSDRate
}

func (r *stubRates) BatchRates(ctx context.Context, dates []string) map[string]float64 {
	out := make(map[string]float64, len(dates))
	for _, date := range dates {
		out[date] = r.RateForDate(ctx, date)
	}
	return out
}

func (r *stubRates) RateNow(ctx context.Context) float64 { return exchange.DefaultUSDRate }
func (r *stubRates) Info() exchange.Info                 { return exchange.Info{} }

type stubClient struct {
	campaignRows []fbdomain.CampaignInsight
	adRows       []fbdomain.AdInsight
}

func (c *stubClient) CampaignInsights(_ context.Context, _ string, _, _ time.Time) ([]fbdomain.CampaignInsight, error) {
	return c.campaignRows, nil
}

func (c *stubClient) AdInsightsDaily(_ context.Context, _ string, _ []string, _, _ time.Time) ([]fbdomain.AdInsight, error) {
	return c.adRows, nil
}

func (c *stubClient) ListAds(_ context.Context, _ string) ([]fbdomain.Ad, error) { return nil, nil }
func (c *stubClient) GetCreative(_ context.Context, _ string) (*fbdomain.Creative, error) {
	return nil, nil
}
func (c *stubClient) UpdateStatus(_ context.Context, _, _ string) error { return nil }
func (c *stubClient) EnsureValidToken(_ context.Context) error          { return nil }

func queryRange() (time.Time, time.Time) {
	return time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC)
}

func TestListCampaignsNormalizesSpendPerDay(t *testing.T) {
	client := &stubClient{
		campaignRows: []fbdomain.CampaignInsight{
			{
				CampaignID: "c1", CampaignName: "여름 세일",
				Spend: "100.5", Impressions: "1000", Clicks: "50",
				Actions: []fbdomain.Action{
					{ActionType: "lead", Value: "2"},
					{ActionType: "link_click", Value: "50"},
				},
				AccountCurrency: "USD", DateStart: "2025-07-01",
			},
			{
				CampaignID: "c1", CampaignName: "여름 세일",
				Spend: "50", Impressions: "500", Clicks: "25",
				Actions:         []fbdomain.Action{{ActionType: "purchase", Value: "1"}},
				AccountCurrency: "USD", DateStart: "2025-07-02",
			},
			{
				CampaignID: "c2", CampaignName: "국내 브랜드",
				Spend: "70000", Impressions: "9000", Clicks: "300",
				AccountCurrency: "KRW", DateStart: "2025-07-01",
			},
			{
				CampaignID: "c3", CampaignName: "중지된 캠페인",
				Spend: "0", Impressions: "10", Clicks: "0",
				AccountCurrency: "USD", DateStart: "2025-07-01",
			},
		},
	}
	rates := &stubRates{rates: map[string]float64{
		"2025-07-01": 1300,
		"2025-07-02": 1400,
	}}

	integrator := New(&config.Config{}, client, rates)

	start, end := queryRange()
	campaigns, err := integrator.ListCampaignsWithDateFilter(context.Background(), start, end)
	assert.NoError(t, err)

	// Zero-spend campaigns drop out; the rest sort by descending spend.
	assert.Len(t, campaigns, 2)
	assert.Equal(t, "c1", campaigns[0].CampaignID)
	assert.Equal(t, "c2", campaigns[1].CampaignID)

	// Each day converts with its own rate: 100.5*1300 + 50*1400.
	assert.InDelta(t, 200650.0, campaigns[0].Spend, 0.001)
	assert.Equal(t, int64(1500), campaigns[0].Impressions)
	assert.Equal(t, int64(75), campaigns[0].Clicks)
	assert.Equal(t, 3.0, campaigns[0].Conversions)

	// KRW rows never touch the rate service.
	assert.Equal(t, 70000.0, campaigns[1].Spend)
	assert.Equal(t, []string{"2025-07-01", "2025-07-02"}, rates.calls)

	// Derived metrics come from the converted totals.
	assert.InDelta(t, 5.0, campaigns[0].CTR, 0.001)
	assert.InDelta(t, 200650.0/75, campaigns[0].CPC, 0.001)
}

func TestAdLevelPerformanceDailyBreakdown(t *testing.T) {
	client := &stubClient{
		adRows: []fbdomain.AdInsight{
			{
				AdID: "a1", AdName: "이미지 A", CampaignID: "c1", CampaignName: "여름 세일",
				Spend: "20", Impressions: "400", Clicks: "20",
				AccountCurrency: "USD", DateStart: "2025-07-02",
			},
			{
				AdID: "a1", AdName: "이미지 A", CampaignID: "c1", CampaignName: "여름 세일",
				Spend: "10", Impressions: "200", Clicks: "10",
				Actions:         []fbdomain.Action{{ActionType: "lead", Value: "1"}},
				AccountCurrency: "USD", DateStart: "2025-07-01",
			},
			// A row outside the requested campaign set is dropped.
			{
				AdID: "a9", AdName: "다른 캠페인 광고", CampaignID: "c9",
				Spend: "99", Impressions: "1", Clicks: "1",
				AccountCurrency: "USD", DateStart: "2025-07-01",
			},
		},
	}
	rates := &stubRates{rates: map[string]float64{
		"2025-07-01": 1300,
		"2025-07-02": 1400,
	}}

	integrator := New(&config.Config{}, client, rates)

	start, end := queryRange()
	ads, err := integrator.AdLevelPerformance(context.Background(), []string{"c1"}, start, end)
	assert.NoError(t, err)

	assert.Len(t, ads, 1)
	ad := ads[0]
	assert.Equal(t, "a1", ad.AdID)

	// Daily rows sort ascending regardless of vendor order.
	assert.Len(t, ad.DailyData, 2)
	assert.Equal(t, "2025-07-01", ad.DailyData[0].Date)
	assert.Equal(t, "2025-07-02", ad.DailyData[1].Date)

	assert.InDelta(t, 13000.0, ad.DailyData[0].Spend, 0.001)
	assert.InDelta(t, 28000.0, ad.DailyData[1].Spend, 0.001)
	assert.InDelta(t, 41000.0, ad.Spend, 0.001)
	assert.Equal(t, 1.0, ad.Conversions)
}

func TestPlatform(t *testing.T) {
	integrator := New(&config.Config{}, &stubClient{}, &stubRates{})
	assert.Equal(t, domain.PlatformFacebook, integrator.Platform())
}
