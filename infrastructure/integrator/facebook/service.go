// Package facebook is the social-network platform adapter. It normalizes
// Graph API insight rows into the canonical schema, computing conversions
// from the actions array and converting USD spend per day.
package facebook

import (
	"context"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	fbdomain "github.com/adscope/unified-ads-mcp/infrastructure/integrator/facebook/domain"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/facebook/fbclient"
	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/exchange"
	"github.com/adscope/unified-ads-mcp/pkg/utils"
)

type Integrator struct {
	cfg    *config.Config
	client fbclient.Client
	rates  exchange.RateService
}

func New(cfg *config.Config, client fbclient.Client, rates exchange.RateService) *Integrator {
	return &Integrator{
		cfg:    cfg,
		client: client,
		rates:  rates,
	}
}

func (s *Integrator) Platform() domain.Platform {
	return domain.PlatformFacebook
}

// ListCampaignsWithDateFilter returns campaigns with spend in the range,
// aggregated from per-day rows so USD spend converts with each day's rate.
func (s *Integrator) ListCampaignsWithDateFilter(ctx context.Context, start, end time.Time) ([]*domain.Campaign, error) {
	rows, err := s.client.CampaignInsights(ctx, s.cfg.Facebook.AdAccountID, start, end)
	if err != nil {
		logrus.WithError(err).WithField("account_id", s.cfg.Facebook.AdAccountID).
			Error("facebook: campaign insights fetch failed")
		return nil, err
	}

	byID := make(map[string]*domain.Campaign)
	order := make([]string, 0)

	for _, row := range rows {
		metrics := s.rowMetrics(ctx, row.Spend, row.Impressions, row.Clicks, row.Actions, row.AccountCurrency, row.DateStart)

		campaign, ok := byID[row.CampaignID]
		if !ok {
			campaign = &domain.Campaign{
				Platform:     domain.PlatformFacebook,
				CampaignID:   row.CampaignID,
				CampaignName: row.CampaignName,
			}
			byID[row.CampaignID] = campaign
			order = append(order, row.CampaignID)
		}
		campaign.Add(metrics)
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

	logrus.WithFields(logrus.Fields{
		"account_id": s.cfg.Facebook.AdAccountID,
		"campaigns":  len(campaigns),
	}).Debug("facebook: campaigns listed")

	return campaigns, nil
}

// AdLevelPerformance returns canonical ads with their daily breakdown for the
// requested campaigns.
func (s *Integrator) AdLevelPerformance(ctx context.Context, campaignIDs []string, start, end time.Time) ([]*domain.Ad, error) {
	rows, err := s.client.AdInsightsDaily(ctx, s.cfg.Facebook.AdAccountID, campaignIDs, start, end)
	if err != nil {
		logrus.WithError(err).WithField("account_id", s.cfg.Facebook.AdAccountID).
			Error("facebook: ad insights fetch failed")
		return nil, err
	}

	requested := make(map[string]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		requested[id] = true
	}

	byID := make(map[string]*domain.Ad)
	order := make([]string, 0)

	for _, row := range rows {
		// The API filter already restricts campaigns; this guards against
		// vendor rows outside the requested set.
		if len(requested) > 0 && !requested[row.CampaignID] {
			continue
		}

		metrics := s.rowMetrics(ctx, row.Spend, row.Impressions, row.Clicks, row.Actions, row.AccountCurrency, row.DateStart)

		ad, ok := byID[row.AdID]
		if !ok {
			ad = &domain.Ad{
				Platform:     domain.PlatformFacebook,
				AdID:         row.AdID,
				AdName:       row.AdName,
				CampaignID:   row.CampaignID,
				CampaignName: row.CampaignName,
			}
			byID[row.AdID] = ad
			order = append(order, row.AdID)
		}

		ad.Add(metrics)
		ad.DailyData = append(ad.DailyData, domain.DailyData{
			Date:    row.DateStart,
			Metrics: metrics,
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

// rowMetrics normalizes one vendor row: bounded numeric parsing, canonical
// conversions from the actions array, per-day KRW conversion for USD spend.
func (s *Integrator) rowMetrics(ctx context.Context, spendStr, imprStr, clicksStr string, actions []fbdomain.Action, currency, date string) domain.Metrics {
	spend, err := strconv.ParseFloat(spendStr, 64)
	if err != nil && spendStr != "" {
		logrus.WithFields(logrus.Fields{
			"spend_value": spendStr,
			"error":       err.Error(),
		}).Warn("facebook: error converting spend to float")
	}

	impressions, _ := strconv.ParseInt(imprStr, 10, 64)
	clicks, _ := strconv.ParseInt(clicksStr, 10, 64)

	parsed := make([]utils.Action, 0, len(actions))
	for _, action := range actions {
		parsed = append(parsed, utils.Action{Type: action.ActionType, Value: action.Value})
	}
	conversions := utils.ParseActions(parsed)

	if currency == "USD" && spend > 0 {
		spend *= s.rates.RateForDate(ctx, date)
	}

	return domain.Metrics{
		Spend:       spend,
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: conversions,
	}
}

// ListAds exposes the raw ad listing as an administrative operation.
func (s *Integrator) ListAds(ctx context.Context) ([]fbdomain.Ad, error) {
	return s.client.ListAds(ctx, s.cfg.Facebook.AdAccountID)
}

// GetCreative exposes the creative lookup as an administrative operation.
func (s *Integrator) GetCreative(ctx context.Context, adID string) (*fbdomain.Creative, error) {
	return s.client.GetCreative(ctx, adID)
}

// UpdateCampaignStatus toggles a campaign between ACTIVE and PAUSED.
func (s *Integrator) UpdateCampaignStatus(ctx context.Context, campaignID, status string) error {
	return s.client.UpdateStatus(ctx, campaignID, status)
}

// UpdateAdStatus toggles an ad between ACTIVE and PAUSED.
func (s *Integrator) UpdateAdStatus(ctx context.Context, adID, status string) error {
	return s.client.UpdateStatus(ctx, adID, status)
}

// ExchangeInfo reports the rate most recently applied during normalization.
func (s *Integrator) ExchangeInfo() exchange.Info {
	return s.rates.Info()
}
