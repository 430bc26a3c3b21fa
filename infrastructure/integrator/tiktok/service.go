// Package tiktok is the short-video platform adapter. It unions integrated
// report rows across the configured advertiser accounts and takes the
// canonical conversion metric directly from the vendor.
package tiktok

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	ttdomain "github.com/adscope/unified-ads-mcp/infrastructure/integrator/tiktok/domain"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/tiktok/tiktokclient"
	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/exchange"
)

type Integrator struct {
	cfg    *config.Config
	client tiktokclient.Client
	rates  exchange.RateService
}

func New(cfg *config.Config, client tiktokclient.Client, rates exchange.RateService) *Integrator {
	return &Integrator{
		cfg:    cfg,
		client: client,
		rates:  rates,
	}
}

func (s *Integrator) Platform() domain.Platform {
	return domain.PlatformTikTok
}

// account pairs an advertiser ID with its billing currency.
type account struct {
	id       string
	currency string
}

// activeAccounts enumerates configured advertisers, skipping disabled ones.
// When the info endpoint fails the configured IDs are used as-is with the
// default currency, so reporting still proceeds.
func (s *Integrator) activeAccounts(ctx context.Context) []account {
	ids := strings.Split(s.cfg.TikTok.AdvertiserID, ",")
	for i := range ids {
		ids[i] = strings.TrimSpace(ids[i])
	}

	infos, err := s.client.AdvertiserInfos(ctx, ids)
	if err != nil {
		logrus.WithError(err).Warn("tiktok: advertiser info fetch failed, using configured IDs")
		accounts := make([]account, 0, len(ids))
		for _, id := range ids {
			if id != "" {
				accounts = append(accounts, account{id: id, currency: "USD"})
			}
		}
		return accounts
	}

	accounts := make([]account, 0, len(infos))
	for _, info := range infos {
		if info.Status != "STATUS_ENABLE" {
			logrus.WithFields(logrus.Fields{
				"advertiser_id": info.AdvertiserID,
				"status":        info.Status,
			}).Debug("tiktok: skipping inactive advertiser")
			continue
		}
		accounts = append(accounts, account{id: info.AdvertiserID, currency: info.Currency})
	}

	return accounts
}

// ListCampaignsWithDateFilter unions campaign performance across active
// advertisers, aggregated from per-day rows.
func (s *Integrator) ListCampaignsWithDateFilter(ctx context.Context, start, end time.Time) ([]*domain.Campaign, error) {
	byID := make(map[string]*domain.Campaign)
	order := make([]string, 0)

	var lastErr error
	failed := 0
	accounts := s.activeAccounts(ctx)

	for _, acct := range accounts {
		rows, err := s.client.Report(ctx, acct.id, "AUCTION_CAMPAIGN",
			[]string{"campaign_id", "stat_time_day"}, start, end)
		if err != nil {
			logrus.WithError(err).WithField("advertiser_id", acct.id).
				Warn("tiktok: campaign report failed for advertiser, skipping")
			lastErr = err
			failed++
			continue
		}

		for _, row := range rows {
			metrics := s.rowMetrics(ctx, row, acct.currency)

			campaign, ok := byID[row.Dimensions.CampaignID]
			if !ok {
				campaign = &domain.Campaign{
					Platform:     domain.PlatformTikTok,
					CampaignID:   row.Dimensions.CampaignID,
					CampaignName: row.Metrics.CampaignName,
				}
				byID[row.Dimensions.CampaignID] = campaign
				order = append(order, row.Dimensions.CampaignID)
			}
			campaign.Add(metrics)
		}
	}

	if failed == len(accounts) && lastErr != nil {
		return nil, lastErr
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

// AdLevelPerformance unions ad-level daily rows for the requested campaigns
// across active advertisers.
func (s *Integrator) AdLevelPerformance(ctx context.Context, campaignIDs []string, start, end time.Time) ([]*domain.Ad, error) {
	requested := make(map[string]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		requested[id] = true
	}

	byID := make(map[string]*domain.Ad)
	order := make([]string, 0)

	var lastErr error
	failed := 0
	accounts := s.activeAccounts(ctx)

	for _, acct := range accounts {
		rows, err := s.client.Report(ctx, acct.id, "AUCTION_AD",
			[]string{"ad_id", "stat_time_day"}, start, end)
		if err != nil {
			logrus.WithError(err).WithField("advertiser_id", acct.id).
				Warn("tiktok: ad report failed for advertiser, skipping")
			lastErr = err
			failed++
			continue
		}

		for _, row := range rows {
			if !requested[row.Metrics.CampaignID] {
				continue
			}

			metrics := s.rowMetrics(ctx, row, acct.currency)

			ad, ok := byID[row.Dimensions.AdID]
			if !ok {
				ad = &domain.Ad{
					Platform:     domain.PlatformTikTok,
					AdID:         row.Dimensions.AdID,
					AdName:       row.Metrics.AdName,
					CampaignID:   row.Metrics.CampaignID,
					CampaignName: row.Metrics.CampaignName,
				}
				byID[row.Dimensions.AdID] = ad
				order = append(order, row.Dimensions.AdID)
			}

			ad.Add(metrics)
			ad.DailyData = append(ad.DailyData, domain.DailyData{
				Date:    statDate(row.Dimensions.StatTimeDay),
				Metrics: metrics,
			})
		}
	}

	if failed == len(accounts) && lastErr != nil {
		return nil, lastErr
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

// rowMetrics normalizes one report row; the canonical conversion metric is
// taken directly, conversion_rate_v2 is deliberately ignored.
func (s *Integrator) rowMetrics(ctx context.Context, row ttdomain.ReportRow, currency string) domain.Metrics {
	spend, err := strconv.ParseFloat(row.Metrics.Spend, 64)
	if err != nil && row.Metrics.Spend != "" {
		logrus.WithFields(logrus.Fields{
			"spend_value": row.Metrics.Spend,
			"error":       err.Error(),
		}).Warn("tiktok: error converting spend to float")
	}

	impressions, _ := strconv.ParseInt(row.Metrics.Impressions, 10, 64)
	clicks, _ := strconv.ParseInt(row.Metrics.Clicks, 10, 64)
	conversions, _ := strconv.ParseFloat(row.Metrics.Conversion, 64)

	if currency == "USD" && spend > 0 {
		spend *= s.rates.RateForDate(ctx, statDate(row.Dimensions.StatTimeDay))
	}

	return domain.Metrics{
		Spend:       spend,
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
	}
}

// statDate trims "2025-07-20 00:00:00" to its date part.
func statDate(statTimeDay string) string {
	if len(statTimeDay) >= 10 {
		return statTimeDay[:10]
	}
	return statTimeDay
}

// ListAds exposes the raw ad listing as an administrative operation.
func (s *Integrator) ListAds(ctx context.Context) ([]ttdomain.Ad, error) {
	var ads []ttdomain.Ad
	for _, acct := range s.activeAccounts(ctx) {
		list, err := s.client.ListAds(ctx, acct.id)
		if err != nil {
			logrus.WithError(err).WithField("advertiser_id", acct.id).
				Warn("tiktok: ad listing failed for advertiser, skipping")
			continue
		}
		ads = append(ads, list...)
	}
	return ads, nil
}

// UpdateCampaignStatus enables or disables a campaign on the first
// advertiser owning it.
func (s *Integrator) UpdateCampaignStatus(ctx context.Context, advertiserID, campaignID, operation string) error {
	return s.client.UpdateCampaignStatus(ctx, advertiserID, campaignID, operation)
}
