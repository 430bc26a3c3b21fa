// Package google is the search-engine platform adapter. It enumerates the
// accessible client accounts under the configured manager account, unions
// their results and converts micro-unit costs into canonical KRW metrics.
package google

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	gdomain "github.com/adscope/unified-ads-mcp/infrastructure/integrator/google/domain"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/google/googleclient"
	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/exchange"
)

const microsPerUnit = 1_000_000

type Integrator struct {
	cfg    *config.Config
	client googleclient.Client
	rates  exchange.RateService
}

func New(cfg *config.Config, client googleclient.Client, rates exchange.RateService) *Integrator {
	return &Integrator{
		cfg:    cfg,
		client: client,
		rates:  rates,
	}
}

func (s *Integrator) Platform() domain.Platform {
	return domain.PlatformGoogle
}

// accountIDs enumerates the active, non-manager client accounts reachable
// from the login customer. Per-account failures downstream are tolerated.
func (s *Integrator) accountIDs(ctx context.Context) ([]string, error) {
	query := `SELECT customer_client.id, customer_client.descriptive_name,
		customer_client.status, customer_client.manager
		FROM customer_client WHERE customer_client.level <= 1`

	rows, err := s.client.Search(ctx, s.cfg.Google.LoginCustomer, query)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.CustomerClient == nil {
			continue
		}
		if row.CustomerClient.Manager || row.CustomerClient.Status != "ENABLED" {
			continue
		}
		ids = append(ids, row.CustomerClient.ID)
	}

	if len(ids) == 0 {
		// A plain (non-MCC) login customer is its own only account.
		ids = append(ids, s.cfg.Google.LoginCustomer)
	}

	return ids, nil
}

// ListCampaignsWithDateFilter unions campaign performance across every
// accessible account, aggregated from per-day rows.
func (s *Integrator) ListCampaignsWithDateFilter(ctx context.Context, start, end time.Time) ([]*domain.Campaign, error) {
	accounts, err := s.accountIDs(ctx)
	if err != nil {
		logrus.WithError(err).Error("google: account enumeration failed")
		return nil, err
	}

	query := fmt.Sprintf(`SELECT customer.currency_code, campaign.id, campaign.name,
		metrics.cost_micros, metrics.impressions, metrics.clicks, metrics.conversions,
		segments.date
		FROM campaign
		WHERE segments.date BETWEEN '%s' AND '%s'`,
		start.Format(time.DateOnly), end.Format(time.DateOnly))

	byID := make(map[string]*domain.Campaign)
	order := make([]string, 0)

	for _, account := range accounts {
		rows, err := s.client.Search(ctx, account, query)
		if err != nil {
			// One broken account must not sink the whole platform call.
			logrus.WithError(err).WithField("customer_id", account).
				Warn("google: campaign query failed for account, skipping")
			continue
		}

		for _, row := range rows {
			if row.Campaign == nil || row.Metrics == nil || row.Segments == nil {
				continue
			}

			metrics := s.rowMetrics(ctx, row.Metrics, currencyOf(row), row.Segments.Date)

			campaign, ok := byID[row.Campaign.ID]
			if !ok {
				campaign = &domain.Campaign{
					Platform:     domain.PlatformGoogle,
					CampaignID:   row.Campaign.ID,
					CampaignName: row.Campaign.Name,
				}
				byID[row.Campaign.ID] = campaign
				order = append(order, row.Campaign.ID)
			}
			campaign.Add(metrics)
		}
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

// AdLevelPerformance unions ad-level daily performance for the requested
// campaigns across every accessible account.
func (s *Integrator) AdLevelPerformance(ctx context.Context, campaignIDs []string, start, end time.Time) ([]*domain.Ad, error) {
	accounts, err := s.accountIDs(ctx)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT customer.currency_code, campaign.id, campaign.name,
		ad_group_ad.ad.id, ad_group_ad.ad.name,
		metrics.cost_micros, metrics.impressions, metrics.clicks, metrics.conversions,
		segments.date
		FROM ad_group_ad
		WHERE campaign.id IN (%s) AND segments.date BETWEEN '%s' AND '%s'`,
		strings.Join(campaignIDs, ","),
		start.Format(time.DateOnly), end.Format(time.DateOnly))

	requested := make(map[string]bool, len(campaignIDs))
	for _, id := range campaignIDs {
		requested[id] = true
	}

	byID := make(map[string]*domain.Ad)
	order := make([]string, 0)

	for _, account := range accounts {
		rows, err := s.client.Search(ctx, account, query)
		if err != nil {
			logrus.WithError(err).WithField("customer_id", account).
				Warn("google: ad query failed for account, skipping")
			continue
		}

		for _, row := range rows {
			if row.AdGroupAd == nil || row.Campaign == nil || row.Metrics == nil || row.Segments == nil {
				continue
			}
			if !requested[row.Campaign.ID] {
				continue
			}

			metrics := s.rowMetrics(ctx, row.Metrics, currencyOf(row), row.Segments.Date)

			ad, ok := byID[row.AdGroupAd.Ad.ID]
			if !ok {
				name := row.AdGroupAd.Ad.Name
				if name == "" {
					name = "Ad " + row.AdGroupAd.Ad.ID
				}
				ad = &domain.Ad{
					Platform:     domain.PlatformGoogle,
					AdID:         row.AdGroupAd.Ad.ID,
					AdName:       name,
					CampaignID:   row.Campaign.ID,
					CampaignName: row.Campaign.Name,
				}
				byID[row.AdGroupAd.Ad.ID] = ad
				order = append(order, row.AdGroupAd.Ad.ID)
			}

			ad.Add(metrics)
			ad.DailyData = append(ad.DailyData, domain.DailyData{
				Date:    row.Segments.Date,
				Metrics: metrics,
			})
		}
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

// rowMetrics converts one GAQL row: micro-units to units, then per-day KRW
// conversion when the account bills in USD.
func (s *Integrator) rowMetrics(ctx context.Context, m *gdomain.Metrics, currency, date string) domain.Metrics {
	costMicros, _ := strconv.ParseInt(m.CostMicros, 10, 64)
	impressions, _ := strconv.ParseInt(m.Impressions, 10, 64)
	clicks, _ := strconv.ParseInt(m.Clicks, 10, 64)

	spend := float64(costMicros) / microsPerUnit
	if currency == "USD" && spend > 0 {
		spend *= s.rates.RateForDate(ctx, date)
	}

	return domain.Metrics{
		Spend:       spend,
		Impressions: impressions,
		Clicks:      clicks,
		Conversions: m.Conversions,
	}
}

func currencyOf(row gdomain.Row) string {
	if row.Customer != nil {
		return row.Customer.CurrencyCode
	}
	return ""
}

// ListAdGroups exposes the ad-group listing as an administrative operation.
func (s *Integrator) ListAdGroups(ctx context.Context, customerID string) ([]gdomain.Row, error) {
	query := `SELECT ad_group.id, ad_group.name, ad_group.status, campaign.id, campaign.name
		FROM ad_group WHERE ad_group.status != 'REMOVED'`
	return s.client.Search(ctx, customerID, query)
}

// ListKeywords exposes the keyword listing as an administrative operation.
func (s *Integrator) ListKeywords(ctx context.Context, customerID string) ([]gdomain.Row, error) {
	query := `SELECT ad_group_criterion.keyword.text, ad_group_criterion.keyword.match_type,
		ad_group_criterion.status, ad_group.id, campaign.id
		FROM keyword_view WHERE ad_group_criterion.status != 'REMOVED'`
	return s.client.Search(ctx, customerID, query)
}

// UpdateCampaignStatus toggles a campaign between ENABLED and PAUSED.
func (s *Integrator) UpdateCampaignStatus(ctx context.Context, customerID, campaignID, status string) error {
	return s.client.MutateCampaignStatus(ctx, customerID, campaignID, status)
}
