package reporting

import (
	"fmt"
	"strings"

	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying"
	"github.com/adscope/unified-ads-mcp/internal/usecases/trending"
	"github.com/adscope/unified-ads-mcp/pkg/utils"
)

// ComposeText renders the result as a plain-text report: platform sections,
// campaign trees with ads and per-day delta annotations, and an overall
// summary block.
func (s *Service) ComposeText(result *querying.Result) string {
	command := result.Command
	costs := includeCosts(command.ReportType)
	ads := includeAds(command.DisplayUnit)

	var b strings.Builder

	b.WriteString("📊 " + reportTitle(command) + "\n")
	fmt.Fprintf(&b, "기간: %s ~ %s\n", command.StartDate, command.EndDate)
	if command.Keyword != "" {
		fmt.Fprintf(&b, "키워드: %s\n", command.Keyword)
	}
	b.WriteString("\n")

	for _, entry := range result.Platforms {
		fmt.Fprintf(&b, "━━━ %s ━━━\n", entry.Platform.DisplayName())

		if entry.Err != nil {
			fmt.Fprintf(&b, "error: %s\n\n", entry.Err.Error())
			continue
		}

		if len(entry.Campaigns) == 0 {
			b.WriteString("조회된 캠페인이 없습니다.\n\n")
			continue
		}

		for _, campaign := range entry.Campaigns {
			writeTextCampaign(&b, campaign, adsOfCampaign(entry.Ads, campaign.CampaignID), costs, ads)
		}
		b.WriteString("\n")
	}

	writeTextSummary(&b, result, costs)

	return b.String()
}

func writeTextCampaign(b *strings.Builder, campaign *domain.Campaign, ads []*domain.Ad, costs, adBreakdown bool) {
	fmt.Fprintf(b, "캠페인: %s\n", campaign.CampaignName)
	b.WriteString("  " + textMetricsLine(campaign.Metrics, campaign.DerivedMetrics, costs) + "\n")

	if !adBreakdown {
		// Campaign display unit: per-day lines folded from the ads, no ad tree.
		for _, day := range trending.Daily(campaignDaily(ads)) {
			fmt.Fprintf(b, "  %s: %s  %s\n",
				day.Date,
				textDayLine(day.Metrics, costs),
				textDelta(day.Trends[domain.MetricSpend], costs, day.Trends[domain.MetricClicks]))
		}
		return
	}

	for _, ad := range ads {
		fmt.Fprintf(b, "  └ 광고: %s\n", ad.AdName)
		b.WriteString("      " + textMetricsLine(ad.Metrics, ad.DerivedMetrics, costs) + "\n")

		for _, day := range trending.Daily(ad.DailyData) {
			fmt.Fprintf(b, "      %s: %s  %s\n",
				day.Date,
				textDayLine(day.Metrics, costs),
				textDelta(day.Trends[domain.MetricSpend], costs, day.Trends[domain.MetricClicks]))
		}
	}
}

// textMetricsLine renders an aggregate metric line; cost columns drop out
// for the client variant.
func textMetricsLine(m domain.Metrics, d domain.DerivedMetrics, costs bool) string {
	parts := make([]string, 0, 9)
	if costs {
		parts = append(parts, "지출 "+utils.FormatKRW(m.Spend))
	}
	parts = append(parts,
		"노출 "+utils.FormatInt(m.Impressions),
		"클릭 "+utils.FormatInt(m.Clicks),
		"전환 "+utils.FormatInt(int64(m.Conversions)),
		"CTR "+utils.FormatPercent(d.CTR, 2),
	)
	if costs {
		parts = append(parts,
			"CPC "+utils.FormatKRW(d.CPC),
			"CPM "+utils.FormatKRW(d.CPM),
		)
	}
	parts = append(parts, "전환율 "+utils.FormatPercent(d.ConversionRate, 2))
	if costs {
		parts = append(parts, "CPA "+utils.FormatKRW(d.CostPerConversion))
	}
	return strings.Join(parts, " | ")
}

func textDayLine(m domain.Metrics, costs bool) string {
	parts := make([]string, 0, 4)
	if costs {
		parts = append(parts, "지출 "+utils.FormatKRW(m.Spend))
	}
	parts = append(parts,
		"노출 "+utils.FormatInt(m.Impressions),
		"클릭 "+utils.FormatInt(m.Clicks),
		"전환 "+utils.FormatInt(int64(m.Conversions)),
	)
	return strings.Join(parts, ", ")
}

// textDelta annotates a day with its movement against the prior day. Spend
// leads when cost columns are shown, clicks otherwise.
func textDelta(spend domain.TrendDelta, costs bool, clicks domain.TrendDelta) string {
	delta := spend
	format := func(change float64) string { return utils.FormatKRW(change) }
	if !costs {
		delta = clicks
		format = func(change float64) string { return utils.FormatInt(int64(change)) }
	}

	if !delta.HasPrior || delta.Change == 0 {
		return "(no change)"
	}

	marker := "▲"
	change := delta.Change
	if change < 0 {
		marker = "▼"
		change = -change
	}

	return fmt.Sprintf("%s %s (%s)", marker, format(change),
		utils.FormatPercent(delta.ChangePercent, 2))
}

func writeTextSummary(b *strings.Builder, result *querying.Result, costs bool) {
	totals := overallTotals(result)
	derived := totals.Derive()

	b.WriteString("📈 전체 요약\n")
	if costs {
		fmt.Fprintf(b, "총 지출: %s\n", utils.FormatKRW(totals.Spend))
	}
	fmt.Fprintf(b, "총 노출: %s\n", utils.FormatInt(totals.Impressions))
	fmt.Fprintf(b, "총 클릭: %s\n", utils.FormatInt(totals.Clicks))
	fmt.Fprintf(b, "총 전환: %s\n", utils.FormatInt(int64(totals.Conversions)))
	fmt.Fprintf(b, "전체 CTR: %s\n", utils.FormatPercent(derived.CTR, 2))
}
