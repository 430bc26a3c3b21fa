// Package reporting renders query results as a plain-text summary or a
// self-contained interactive HTML document.
package reporting

import (
	"sort"

	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying"
)

// Composer renders one query result in the requested output mode.
type Composer interface {
	ComposeText(result *querying.Result) string
	ComposeHTML(result *querying.Result) string
}

type Service struct{}

func NewService() *Service {
	return &Service{}
}

// Compose dispatches on the output format.
func (s *Service) Compose(result *querying.Result, format domain.OutputFormat) string {
	if format == domain.OutputFormatHTML {
		return s.ComposeHTML(result)
	}
	return s.ComposeText(result)
}

// includeCosts reports whether cost columns (spend, CPC, CPM, cost per
// conversion) appear in the rendered report. The client variant hides them
// everywhere, including summaries.
func includeCosts(reportType domain.ReportType) bool {
	return reportType != domain.ReportTypeClient
}

// includeAds reports whether the per-ad breakdown is rendered. The campaign
// display unit collapses the report to campaign-level summaries and daily
// tables.
func includeAds(unit domain.DisplayUnit) bool {
	return unit != domain.DisplayUnitCampaign
}

// reportTitle picks the custom title when present.
func reportTitle(command *domain.Command) string {
	if command.CustomTitle != "" {
		return command.CustomTitle
	}
	return "광고 성과 리포트"
}

// overallTotals sums campaign metrics across every successful platform.
func overallTotals(result *querying.Result) domain.Metrics {
	var totals domain.Metrics
	for _, entry := range result.Platforms {
		if entry.Err != nil {
			continue
		}
		for _, campaign := range entry.Campaigns {
			totals.Add(campaign.Metrics)
		}
	}
	return totals
}

// campaignDaily folds the daily rows of a campaign's ads into one
// date-keyed series, sorted ascending.
func campaignDaily(ads []*domain.Ad) []domain.DailyData {
	byDate := make(map[string]*domain.Metrics)
	for _, ad := range ads {
		for _, day := range ad.DailyData {
			m, ok := byDate[day.Date]
			if !ok {
				m = &domain.Metrics{}
				byDate[day.Date] = m
			}
			m.Add(day.Metrics)
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	daily := make([]domain.DailyData, 0, len(dates))
	for _, date := range dates {
		daily = append(daily, domain.DailyData{Date: date, Metrics: *byDate[date]})
	}
	return daily
}

// adsOfCampaign selects the ads belonging to one campaign, order preserved.
func adsOfCampaign(ads []*domain.Ad, campaignID string) []*domain.Ad {
	selected := make([]*domain.Ad, 0, len(ads))
	for _, ad := range ads {
		if ad.CampaignID == campaignID {
			selected = append(selected, ad)
		}
	}
	return selected
}
