package reporting

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying"
)

func fixtureResult(reportType domain.ReportType) *querying.Result {
	campaignMetrics := domain.Metrics{Spend: 100000, Impressions: 2000, Clicks: 100, Conversions: 10}

	ad := &domain.Ad{
		Platform:     domain.PlatformFacebook,
		AdID:         "a1",
		AdName:       "이미지 A",
		CampaignID:   "c1",
		CampaignName: "여름 세일",
		Metrics:      campaignMetrics,
		DailyData: []domain.DailyData{
			{Date: "2025-07-01", Metrics: domain.Metrics{Spend: 40000, Impressions: 800, Clicks: 40, Conversions: 4}},
			{Date: "2025-07-02", Metrics: domain.Metrics{Spend: 60000, Impressions: 1200, Clicks: 60, Conversions: 6}},
		},
	}
	ad.DerivedMetrics = ad.Metrics.Derive()

	campaign := &domain.Campaign{
		Platform:     domain.PlatformFacebook,
		CampaignID:   "c1",
		CampaignName: "여름 세일",
		Metrics:      campaignMetrics,
	}
	campaign.DerivedMetrics = campaign.Metrics.Derive()

	return &querying.Result{
		Command: &domain.Command{
			Keyword:     "여름",
			StartDate:   "2025-07-01",
			EndDate:     "2025-07-02",
			Platforms:   []domain.Platform{domain.PlatformFacebook},
			ReportType:  reportType,
			DisplayUnit: domain.DisplayUnitAd,
			IsValid:     true,
		},
		Platforms: []querying.PlatformResult{
			{
				Platform:  domain.PlatformFacebook,
				Campaigns: []*domain.Campaign{campaign},
				Ads:       []*domain.Ad{ad},
			},
		},
		GeneratedAt: time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC),
	}
}

func TestComposeDispatchesOnFormat(t *testing.T) {
	service := NewService()
	result := fixtureResult(domain.ReportTypeInternal)

	html := service.Compose(result, domain.OutputFormatHTML)
	assert.True(t, len(html) > 0)
	assert.Contains(t, html, "<!DOCTYPE html>")

	text := service.Compose(result, domain.OutputFormatText)
	assert.NotContains(t, text, "<!DOCTYPE html>")
	assert.Contains(t, text, "📊 광고 성과 리포트")
}

func TestComposeTextInternal(t *testing.T) {
	out := NewService().ComposeText(fixtureResult(domain.ReportTypeInternal))

	assert.Contains(t, out, "기간: 2025-07-01 ~ 2025-07-02")
	assert.Contains(t, out, "키워드: 여름")
	assert.Contains(t, out, "━━━ 페이스북 ━━━")
	assert.Contains(t, out, "캠페인: 여름 세일")
	assert.Contains(t, out, "└ 광고: 이미지 A")

	// Cost columns are present for the internal variant.
	assert.Contains(t, out, "지출 ₩100,000")
	assert.Contains(t, out, "CPC ₩1,000")
	assert.Contains(t, out, "CPM ₩50,000")
	assert.Contains(t, out, "CPA ₩10,000")

	// Day two moved up 50% on spend.
	assert.Contains(t, out, "▲ ₩20,000 (50.00%)")
	assert.Contains(t, out, "(no change)")

	assert.Contains(t, out, "📈 전체 요약")
	assert.Contains(t, out, "총 지출: ₩100,000")
	assert.Contains(t, out, "전체 CTR: 5.00%")
}

func TestComposeTextClientHidesCosts(t *testing.T) {
	out := NewService().ComposeText(fixtureResult(domain.ReportTypeClient))

	assert.NotContains(t, out, "지출")
	assert.NotContains(t, out, "CPC")
	assert.NotContains(t, out, "CPM")
	assert.NotContains(t, out, "CPA")
	assert.NotContains(t, out, "₩")

	// Non-cost columns survive, deltas switch to clicks.
	assert.Contains(t, out, "노출 2,000")
	assert.Contains(t, out, "클릭 100")
	assert.Contains(t, out, "▲ 20 (50.00%)")
}

func TestComposeTextCampaignUnitDropsAdTree(t *testing.T) {
	result := fixtureResult(domain.ReportTypeInternal)
	result.Command.DisplayUnit = domain.DisplayUnitCampaign

	out := NewService().ComposeText(result)

	assert.NotContains(t, out, "└ 광고:")
	assert.NotContains(t, out, "이미지 A")

	// Campaign summary and its folded daily lines survive.
	assert.Contains(t, out, "캠페인: 여름 세일")
	assert.Contains(t, out, "지출 ₩100,000")
	assert.Contains(t, out, "2025-07-01: ")
	assert.Contains(t, out, "2025-07-02: ")
	assert.Contains(t, out, "▲ ₩20,000 (50.00%)")
}

func TestComposeTextPlatformError(t *testing.T) {
	result := fixtureResult(domain.ReportTypeInternal)
	result.Platforms = append(result.Platforms, querying.PlatformResult{
		Platform: domain.PlatformGoogle,
		Err:      errors.New("quota exceeded"),
	})

	out := NewService().ComposeText(result)

	assert.Contains(t, out, "━━━ 구글 ━━━")
	assert.Contains(t, out, "error: quota exceeded")
	// The failed platform does not pollute the overall totals.
	assert.Contains(t, out, "총 클릭: 100")
}

func TestComposeTextNoCampaigns(t *testing.T) {
	result := fixtureResult(domain.ReportTypeInternal)
	result.Platforms = []querying.PlatformResult{{Platform: domain.PlatformTikTok}}

	out := NewService().ComposeText(result)
	assert.Contains(t, out, "조회된 캠페인이 없습니다.")
}

func TestComposeHTMLStructure(t *testing.T) {
	out := NewService().ComposeHTML(fixtureResult(domain.ReportTypeInternal))

	assert.Contains(t, out, "<html lang=\"ko\">")
	assert.Contains(t, out, "생성 시각: 2025-07-03 09:00:00")
	assert.Contains(t, out, "<section class=\"platform\" data-platform=\"facebook\">")
	assert.Contains(t, out, "data-campaign-name=\"여름 세일\"")
	assert.Contains(t, out, "<tr data-date=\"2025-07-01\">")
	assert.Contains(t, out, "<tr data-date=\"2025-07-02\">")

	// Filter controls and the script that drives them.
	assert.Contains(t, out, "id=\"filter-date\"")
	assert.Contains(t, out, "id=\"filter-campaign-text\"")
	assert.Contains(t, out, "id=\"filter-campaign\"")
	assert.Contains(t, out, "id=\"filter-platform\"")
	assert.Contains(t, out, "id=\"filter-reset\"")
	assert.Contains(t, out, "classList.toggle('hidden'")

	// Cost columns for the internal variant.
	assert.Contains(t, out, "<th>지출</th>")
	assert.Contains(t, out, "<th>CPC</th><th>CPM</th>")
	assert.Contains(t, out, "<th>CPA</th>")
}

func TestComposeHTMLClientHidesCosts(t *testing.T) {
	out := NewService().ComposeHTML(fixtureResult(domain.ReportTypeClient))

	assert.NotContains(t, out, "<th>지출</th>")
	assert.NotContains(t, out, "<th>CPC</th>")
	assert.NotContains(t, out, "<th>CPM</th>")
	assert.NotContains(t, out, "<th>CPA</th>")
	assert.NotContains(t, out, "₩")

	assert.Contains(t, out, "<th>노출</th><th>클릭</th><th>CTR</th>")
	assert.Contains(t, out, "<th>전환</th><th>전환율</th>")
}

func TestComposeHTMLCampaignUnitDropsAdTables(t *testing.T) {
	result := fixtureResult(domain.ReportTypeInternal)
	result.Command.DisplayUnit = domain.DisplayUnitCampaign

	out := NewService().ComposeHTML(result)

	assert.NotContains(t, out, "class=\"ads\"")
	assert.NotContains(t, out, "class=\"ad-daily\"")
	assert.NotContains(t, out, "이미지 A")

	// Campaign summary and daily tables survive.
	assert.Contains(t, out, "data-campaign-name=\"여름 세일\"")
	assert.Contains(t, out, "<table class=\"summary\">")
	assert.Contains(t, out, "<tr data-date=\"2025-07-01\">")
}

func TestComposeHTMLDeterministic(t *testing.T) {
	service := NewService()
	result := fixtureResult(domain.ReportTypeInternal)

	assert.Equal(t, service.ComposeHTML(result), service.ComposeHTML(result))
}

func TestComposeHTMLCustomTitleNotReEscaped(t *testing.T) {
	result := fixtureResult(domain.ReportTypeInternal)
	result.Command.CustomTitle = "7월 &amp; 8월 리포트"

	out := NewService().ComposeHTML(result)

	assert.Contains(t, out, "<title>7월 &amp; 8월 리포트</title>")
	assert.NotContains(t, out, "&amp;amp;")
}

func TestComposeHTMLPlatformError(t *testing.T) {
	result := fixtureResult(domain.ReportTypeInternal)
	result.Platforms = append(result.Platforms, querying.PlatformResult{
		Platform: domain.PlatformTikTok,
		Err:      errors.New("advertiser <disabled>"),
	})

	out := NewService().ComposeHTML(result)
	assert.Contains(t, out, "<h3 class=\"platform-error\">error: advertiser &lt;disabled&gt;</h3>")
}

func TestRangeDates(t *testing.T) {
	dates := rangeDates("2025-07-30", "2025-08-02")
	assert.Equal(t, []string{"2025-07-30", "2025-07-31", "2025-08-01", "2025-08-02"}, dates)

	assert.Empty(t, rangeDates("bad", "2025-08-02"))
}

func TestCampaignDaily(t *testing.T) {
	ads := []*domain.Ad{
		{
			CampaignID: "c1",
			DailyData: []domain.DailyData{
				{Date: "2025-07-02", Metrics: domain.Metrics{Spend: 100, Clicks: 1}},
				{Date: "2025-07-01", Metrics: domain.Metrics{Spend: 200, Clicks: 2}},
			},
		},
		{
			CampaignID: "c1",
			DailyData: []domain.DailyData{
				{Date: "2025-07-01", Metrics: domain.Metrics{Spend: 50, Clicks: 1}},
			},
		},
	}

	daily := campaignDaily(ads)
	assert.Len(t, daily, 2)
	assert.Equal(t, "2025-07-01", daily[0].Date)
	assert.Equal(t, 250.0, daily[0].Spend)
	assert.Equal(t, int64(3), daily[0].Clicks)
	assert.Equal(t, "2025-07-02", daily[1].Date)
}
