// Package marketplace is the spreadsheet-backed adapter. Performance rows
// live in a shared sheet maintained by the marketplace team, one row per ad
// per day, spend already in KRW and conversions in the leads column.
package marketplace

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/marketplace/sheetclient"
	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/domain"
)

// Sheet columns, matching the agreed header row:
// 날짜, 캠페인ID, 캠페인명, 광고명, 지출, 노출, 클릭, 리드수.
const (
	colDate = iota
	colCampaignID
	colCampaignName
	colAdName
	colSpend
	colImpressions
	colClicks
	colLeads
	columnCount
)

type Integrator struct {
	cfg    *config.Config
	reader sheetclient.SheetReader
}

func New(cfg *config.Config, reader sheetclient.SheetReader) *Integrator {
	return &Integrator{
		cfg:    cfg,
		reader: reader,
	}
}

func (s *Integrator) Platform() domain.Platform {
	return domain.PlatformMarketplace
}

// row is one parsed sheet line.
type row struct {
	date         string
	campaignID   string
	campaignName string
	adName       string
	metrics      domain.Metrics
}

func (s *Integrator) rowsInRange(ctx context.Context, start, end time.Time) ([]row, error) {
	cells, err := s.reader.ReadRows(ctx)
	if err != nil {
		return nil, err
	}

	from := start.Format(time.DateOnly)
	to := end.Format(time.DateOnly)

	rows := make([]row, 0, len(cells))
	for i, cell := range cells {
		if len(cell) < columnCount {
			logrus.WithField("row", i+2).Debug("marketplace: short row skipped")
			continue
		}

		date := strings.TrimSpace(cell[colDate])
		if date < from || date > to {
			continue
		}

		rows = append(rows, row{
			date:         date,
			campaignID:   strings.TrimSpace(cell[colCampaignID]),
			campaignName: strings.TrimSpace(cell[colCampaignName]),
			adName:       strings.TrimSpace(cell[colAdName]),
			metrics: domain.Metrics{
				Spend:       parseAmount(cell[colSpend]),
				Impressions: parseCount(cell[colImpressions]),
				Clicks:      parseCount(cell[colClicks]),
				Conversions: parseAmount(cell[colLeads]),
			},
		})
	}

	return rows, nil
}

// ListCampaignsWithDateFilter aggregates sheet rows by campaign over the
// requested range. Spend is already KRW, no rate conversion applies.
func (s *Integrator) ListCampaignsWithDateFilter(ctx context.Context, start, end time.Time) ([]*domain.Campaign, error) {
	rows, err := s.rowsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Campaign)
	order := make([]string, 0)

	for _, r := range rows {
		campaign, ok := byID[r.campaignID]
		if !ok {
			campaign = &domain.Campaign{
				Platform:     domain.PlatformMarketplace,
				CampaignID:   r.campaignID,
				CampaignName: r.campaignName,
			}
			byID[r.campaignID] = campaign
			order = append(order, r.campaignID)
		}
		campaign.Add(r.metrics)
	}

	campaigns := make([]*domain.Campaign, 0, len(order))
	for _, id := range order {
		campaign := byID[id]
		if campaign.Spend <= 0 {
			continue
		}
		campaign.DerivedMetrics = campaign.Derive()
		campaigns = append(campaigns, campaign)
	}

	domain.SortCampaignsBySpend(campaigns)
	return campaigns, nil
}

// AdLevelPerformance aggregates sheet rows by ad for the requested campaigns.
// Ads carry no vendor ID in the sheet, so the campaign-scoped ad name serves
// as the identifier.
func (s *Integrator) AdLevelPerformance(ctx context.Context, campaignIDs []string, start, end time.Time) ([]*domain.Ad, error) {
	rows, err := s.rowsInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	requested := make(map[string]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		requested[id] = true
	}

	byID := make(map[string]*domain.Ad)
	order := make([]string, 0)

	for _, r := range rows {
		if !requested[r.campaignID] {
			continue
		}

		adID := r.campaignID + "/" + r.adName

		ad, ok := byID[adID]
		if !ok {
			ad = &domain.Ad{
				Platform:     domain.PlatformMarketplace,
				AdID:         adID,
				AdName:       r.adName,
				CampaignID:   r.campaignID,
				CampaignName: r.campaignName,
			}
			byID[adID] = ad
			order = append(order, adID)
		}

		ad.Add(r.metrics)
		ad.DailyData = append(ad.DailyData, domain.DailyData{
			Date:    r.date,
			Metrics: r.metrics,
		})
	}

	ads := make([]*domain.Ad, 0, len(order))
	for _, id := range order {
		ad := byID[id]
		domain.SortDailyData(ad.DailyData)
		ad.DerivedMetrics = ad.Derive()
		ads = append(ads, ad)
	}

	domain.SortAdsBySpend(ads)
	return ads, nil
}

// parseAmount reads a numeric cell, tolerating currency symbols and
// thousands separators. Unparsable or negative cells count as zero.
func parseAmount(cell string) float64 {
	cleaned := strings.NewReplacer(",", "", "₩", "", " ", "").Replace(cell)
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

func parseCount(cell string) int64 {
	return int64(parseAmount(cell))
}
