package reporting

import (
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying"
	"github.com/adscope/unified-ads-mcp/pkg/utils"
)

// ComposeHTML renders the result as one self-contained document with
// embedded styling and client-side filters. Output is byte-stable for the
// same input except the generated-at line.
func (s *Service) ComposeHTML(result *querying.Result) string {
	command := result.Command
	costs := includeCosts(command.ReportType)
	ads := includeAds(command.DisplayUnit)

	var b strings.Builder

	b.WriteString("<!DOCTYPE html>\n<html lang=\"ko\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">\n")
	// The custom title is escaped at parse time already.
	fmt.Fprintf(&b, "<title>%s</title>\n", reportTitle(command))
	b.WriteString("<style>\n" + reportCSS + "</style>\n")
	b.WriteString("</head>\n<body>\n")

	fmt.Fprintf(&b, "<h1>%s</h1>\n", reportTitle(command))
	fmt.Fprintf(&b, "<p class=\"generated-at\">생성 시각: %s</p>\n",
		result.GeneratedAt.Format("2006-01-02 15:04:05"))

	writeBanner(&b, command)
	writeFilterBar(&b, result)

	for _, entry := range result.Platforms {
		writePlatformSection(&b, entry, costs, ads)
	}

	writeOverallSummary(&b, result, costs)

	b.WriteString("<script>\n" + filterScript + "</script>\n")
	b.WriteString("</body>\n</html>\n")

	return b.String()
}

// writeBanner renders the search-conditions banner.
func writeBanner(b *strings.Builder, command *domain.Command) {
	names := make([]string, 0, len(command.Platforms))
	for _, platform := range command.Platforms {
		names = append(names, platform.DisplayName())
	}

	keyword := command.Keyword
	if keyword == "" {
		keyword = "전체"
	}

	b.WriteString("<div class=\"banner\">\n")
	fmt.Fprintf(b, "<span>기간: %s ~ %s</span>\n",
		html.EscapeString(command.StartDate), html.EscapeString(command.EndDate))
	fmt.Fprintf(b, "<span>키워드: %s</span>\n", html.EscapeString(keyword))
	fmt.Fprintf(b, "<span>매체: %s</span>\n", html.EscapeString(strings.Join(names, ", ")))
	fmt.Fprintf(b, "<span>리포트: %s</span>\n", html.EscapeString(string(command.ReportType)))
	b.WriteString("</div>\n")
}

// writeFilterBar renders the controls consumed by the filter script.
func writeFilterBar(b *strings.Builder, result *querying.Result) {
	command := result.Command

	b.WriteString("<div class=\"filter-bar\">\n")

	b.WriteString("<select id=\"filter-date\">\n<option value=\"\">전체 기간</option>\n")
	for _, date := range rangeDates(command.StartDate, command.EndDate) {
		fmt.Fprintf(b, "<option value=\"%s\">%s</option>\n", date, date)
	}
	b.WriteString("</select>\n")

	b.WriteString("<input id=\"filter-campaign-text\" type=\"text\" placeholder=\"캠페인 검색\">\n")

	b.WriteString("<select id=\"filter-campaign\">\n<option value=\"\">전체 캠페인</option>\n")
	for _, name := range campaignNames(result) {
		escaped := html.EscapeString(name)
		fmt.Fprintf(b, "<option value=\"%s\">%s</option>\n", escaped, escaped)
	}
	b.WriteString("</select>\n")

	b.WriteString("<select id=\"filter-platform\">\n<option value=\"\">전체 매체</option>\n")
	for _, entry := range result.Platforms {
		fmt.Fprintf(b, "<option value=\"%s\">%s</option>\n",
			string(entry.Platform), entry.Platform.DisplayName())
	}
	b.WriteString("</select>\n")

	b.WriteString("<button id=\"filter-reset\" type=\"button\">초기화</button>\n")
	b.WriteString("</div>\n")
}

func writePlatformSection(b *strings.Builder, entry querying.PlatformResult, costs, adBreakdown bool) {
	fmt.Fprintf(b, "<section class=\"platform\" data-platform=\"%s\">\n", string(entry.Platform))
	fmt.Fprintf(b, "<h2>%s</h2>\n", entry.Platform.DisplayName())

	if entry.Err != nil {
		fmt.Fprintf(b, "<h3 class=\"platform-error\">error: %s</h3>\n",
			html.EscapeString(entry.Err.Error()))
		b.WriteString("</section>\n")
		return
	}

	if len(entry.Campaigns) == 0 {
		b.WriteString("<p class=\"empty\">조회된 캠페인이 없습니다.</p>\n")
		b.WriteString("</section>\n")
		return
	}

	for _, campaign := range entry.Campaigns {
		writeCampaignBlock(b, campaign, adsOfCampaign(entry.Ads, campaign.CampaignID), costs, adBreakdown)
	}

	b.WriteString("</section>\n")
}

func writeCampaignBlock(b *strings.Builder, campaign *domain.Campaign, ads []*domain.Ad, costs, adBreakdown bool) {
	fmt.Fprintf(b, "<div class=\"campaign\" data-campaign-name=\"%s\">\n",
		html.EscapeString(campaign.CampaignName))
	fmt.Fprintf(b, "<h3>%s</h3>\n", html.EscapeString(campaign.CampaignName))

	// Campaign summary table.
	b.WriteString("<table class=\"summary\">\n")
	writeMetricsHeader(b, "", costs)
	b.WriteString("<tbody>\n<tr>")
	writeMetricsCells(b, campaign.Metrics, campaign.DerivedMetrics, costs)
	b.WriteString("</tr>\n</tbody>\n</table>\n")

	// Campaign daily table, folded from its ads.
	daily := campaignDaily(ads)
	if len(daily) > 0 {
		b.WriteString("<table class=\"daily\">\n")
		writeMetricsHeader(b, "날짜", costs)
		b.WriteString("<tbody>\n")
		for _, day := range daily {
			fmt.Fprintf(b, "<tr data-date=\"%s\"><td>%s</td>", day.Date, day.Date)
			writeMetricsCells(b, day.Metrics, day.Metrics.Derive(), costs)
			b.WriteString("</tr>\n")
		}
		b.WriteString("</tbody>\n</table>\n")
	}

	if adBreakdown && len(ads) > 0 {
		// Per-ad summary table.
		b.WriteString("<table class=\"ads\">\n")
		writeMetricsHeader(b, "광고", costs)
		b.WriteString("<tbody>\n")
		for _, ad := range ads {
			fmt.Fprintf(b, "<tr><td>%s</td>", html.EscapeString(ad.AdName))
			writeMetricsCells(b, ad.Metrics, ad.DerivedMetrics, costs)
			b.WriteString("</tr>\n")
		}
		b.WriteString("</tbody>\n</table>\n")

		// Per-ad daily sub-tables.
		for _, ad := range ads {
			if len(ad.DailyData) == 0 {
				continue
			}
			fmt.Fprintf(b, "<div class=\"ad-daily\">\n<h4>%s</h4>\n", html.EscapeString(ad.AdName))
			b.WriteString("<table class=\"daily\">\n")
			writeMetricsHeader(b, "날짜", costs)
			b.WriteString("<tbody>\n")
			for _, day := range ad.DailyData {
				fmt.Fprintf(b, "<tr data-date=\"%s\"><td>%s</td>", day.Date, day.Date)
				writeMetricsCells(b, day.Metrics, day.Metrics.Derive(), costs)
				b.WriteString("</tr>\n")
			}
			b.WriteString("</tbody>\n</table>\n</div>\n")
		}
	}

	b.WriteString("</div>\n")
}

// writeMetricsHeader renders the shared header row; leading holds the label
// of the first column ("" for a plain summary row).
func writeMetricsHeader(b *strings.Builder, leading string, costs bool) {
	b.WriteString("<thead>\n<tr>")
	if leading != "" {
		fmt.Fprintf(b, "<th>%s</th>", leading)
	}
	if costs {
		b.WriteString("<th>지출</th>")
	}
	b.WriteString("<th>노출</th><th>클릭</th><th>CTR</th>")
	if costs {
		b.WriteString("<th>CPC</th><th>CPM</th>")
	}
	b.WriteString("<th>전환</th><th>전환율</th>")
	if costs {
		b.WriteString("<th>CPA</th>")
	}
	b.WriteString("</tr>\n</thead>\n")
}

func writeMetricsCells(b *strings.Builder, m domain.Metrics, d domain.DerivedMetrics, costs bool) {
	if costs {
		fmt.Fprintf(b, "<td>%s</td>", utils.FormatKRW(m.Spend))
	}
	fmt.Fprintf(b, "<td>%s</td><td>%s</td><td>%s</td>",
		utils.FormatInt(m.Impressions), utils.FormatInt(m.Clicks), utils.FormatPercent(d.CTR, 2))
	if costs {
		fmt.Fprintf(b, "<td>%s</td><td>%s</td>", utils.FormatKRW(d.CPC), utils.FormatKRW(d.CPM))
	}
	fmt.Fprintf(b, "<td>%s</td><td>%s</td>",
		utils.FormatInt(int64(m.Conversions)), utils.FormatPercent(d.ConversionRate, 2))
	if costs {
		fmt.Fprintf(b, "<td>%s</td>", utils.FormatKRW(d.CostPerConversion))
	}
}

func writeOverallSummary(b *strings.Builder, result *querying.Result, costs bool) {
	totals := overallTotals(result)
	derived := totals.Derive()

	b.WriteString("<section class=\"overall\">\n<h2>전체 요약</h2>\n<table class=\"summary\">\n")
	writeMetricsHeader(b, "", costs)
	b.WriteString("<tbody>\n<tr>")
	writeMetricsCells(b, totals, derived, costs)
	b.WriteString("</tr>\n</tbody>\n</table>\n</section>\n")
}

// rangeDates lists every date of the inclusive range. Unparsable bounds
// cannot happen past command validation; they yield an empty list.
func rangeDates(start, end string) []string {
	from, err := utils.ParseDate(start)
	if err != nil {
		return nil
	}
	to, err := utils.ParseDate(end)
	if err != nil {
		return nil
	}

	days := utils.DateRange(*from, *to)
	dates := make([]string, 0, len(days))
	for _, day := range days {
		dates = append(dates, day.Format(time.DateOnly))
	}
	return dates
}

// campaignNames collects unique campaign names across platforms, sorted for
// a stable dropdown.
func campaignNames(result *querying.Result) []string {
	seen := make(map[string]bool)
	names := make([]string, 0)
	for _, entry := range result.Platforms {
		for _, campaign := range entry.Campaigns {
			if !seen[campaign.CampaignName] {
				seen[campaign.CampaignName] = true
				names = append(names, campaign.CampaignName)
			}
		}
	}
	sort.Strings(names)
	return names
}

const reportCSS = `body { font-family: "Pretendard", "Apple SD Gothic Neo", sans-serif; margin: 24px; color: #222; }
h1 { font-size: 22px; }
h2 { font-size: 18px; border-bottom: 2px solid #444; padding-bottom: 4px; }
h3 { font-size: 15px; margin-bottom: 4px; }
h4 { font-size: 13px; margin: 8px 0 4px; color: #555; }
.generated-at { color: #888; font-size: 12px; }
.banner { background: #f4f6f8; padding: 10px 14px; border-radius: 6px; margin-bottom: 12px; }
.banner span { margin-right: 16px; font-size: 13px; }
.filter-bar { display: flex; gap: 8px; margin-bottom: 16px; flex-wrap: wrap; }
.filter-bar select, .filter-bar input, .filter-bar button { padding: 6px 8px; font-size: 13px; }
table { border-collapse: collapse; margin: 6px 0 14px; font-size: 13px; }
th, td { border: 1px solid #ddd; padding: 4px 10px; text-align: right; }
th { background: #fafafa; }
td:first-child, th:first-child { text-align: left; }
.campaign { margin: 12px 0 20px; padding-left: 8px; border-left: 3px solid #e0e0e0; }
.platform-error { color: #c0392b; }
.empty { color: #888; }
.hidden { display: none; }
`

const filterScript = `(function () {
  var dateSel = document.getElementById('filter-date');
  var textInput = document.getElementById('filter-campaign-text');
  var campaignSel = document.getElementById('filter-campaign');
  var platformSel = document.getElementById('filter-platform');
  var resetBtn = document.getElementById('filter-reset');

  function apply() {
    var date = dateSel.value;
    var text = textInput.value.trim().toLowerCase();
    var campaign = campaignSel.value;
    var platform = platformSel.value;

    document.querySelectorAll('section.platform').forEach(function (section) {
      var show = !platform || section.dataset.platform === platform;
      section.classList.toggle('hidden', !show);
    });

    document.querySelectorAll('.campaign').forEach(function (block) {
      var name = block.dataset.campaignName || '';
      var show = true;
      if (text && name.toLowerCase().indexOf(text) === -1) show = false;
      if (campaign && name !== campaign) show = false;
      block.classList.toggle('hidden', !show);
    });

    document.querySelectorAll('tr[data-date]').forEach(function (row) {
      var show = !date || row.dataset.date === date;
      row.classList.toggle('hidden', !show);
    });
  }

  function reset() {
    dateSel.value = '';
    textInput.value = '';
    campaignSel.value = '';
    platformSel.value = '';
    apply();
  }

  dateSel.addEventListener('change', apply);
  textInput.addEventListener('input', apply);
  campaignSel.addEventListener('change', apply);
  platformSel.addEventListener('change', apply);
  resetBtn.addEventListener('click', reset);
})();
`
