// Package fbclient talks to the Facebook Graph API: paged insights queries,
// ad listings, creative lookups and status updates.
package fbclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	fbdomain "github.com/adscope/unified-ads-mcp/infrastructure/integrator/facebook/domain"
	"github.com/adscope/unified-ads-mcp/internal/config"
)

type Client interface {
	CampaignInsights(ctx context.Context, accountID string, start, end time.Time) ([]fbdomain.CampaignInsight, error)
	AdInsightsDaily(ctx context.Context, accountID string, campaignIDs []string, start, end time.Time) ([]fbdomain.AdInsight, error)
	ListAds(ctx context.Context, accountID string) ([]fbdomain.Ad, error)
	GetCreative(ctx context.Context, adID string) (*fbdomain.Creative, error)
	UpdateStatus(ctx context.Context, objectID, status string) error
	EnsureValidToken(ctx context.Context) error
}

type GraphClient struct {
	cfg          *config.Config
	tokenManager *TokenManager
	httpClient   *http.Client
}

func NewClient(cfg *config.Config, tokenManager *TokenManager) Client {
	return &GraphClient{
		cfg:          cfg,
		tokenManager: tokenManager,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *GraphClient) EnsureValidToken(ctx context.Context) error {
	return c.tokenManager.EnsureValidToken(ctx)
}

// CampaignInsights returns campaign-level insights for the date range,
// iterating the paging cursor until exhausted.
func (c *GraphClient) CampaignInsights(ctx context.Context, accountID string, start, end time.Time) ([]fbdomain.CampaignInsight, error) {
	params := url.Values{}
	params.Add("level", "campaign")
	params.Add("fields", "campaign_id,campaign_name,spend,impressions,clicks,actions,account_currency")
	params.Add("time_range", timeRange(start, end))
	params.Add("time_increment", "1")
	params.Add("limit", "100")

	var insights []fbdomain.CampaignInsight
	err := c.getAllPages(ctx, c.insightsURL(accountID), params, func(data json.RawMessage) error {
		var page []fbdomain.CampaignInsight
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		insights = append(insights, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return insights, nil
}

// AdInsightsDaily returns one ad-level row per ad per day for the requested
// campaigns, iterating the paging cursor until exhausted.
func (c *GraphClient) AdInsightsDaily(ctx context.Context, accountID string, campaignIDs []string, start, end time.Time) ([]fbdomain.AdInsight, error) {
	params := url.Values{}
	params.Add("level", "ad")
	params.Add("fields", "ad_id,ad_name,campaign_id,campaign_name,spend,impressions,clicks,actions,account_currency")
	params.Add("time_range", timeRange(start, end))
	params.Add("time_increment", "1")
	params.Add("limit", "500")
	if len(campaignIDs) > 0 {
		params.Add("filtering", campaignFilter(campaignIDs))
	}

	var insights []fbdomain.AdInsight
	err := c.getAllPages(ctx, c.insightsURL(accountID), params, func(data json.RawMessage) error {
		var page []fbdomain.AdInsight
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		insights = append(insights, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return insights, nil
}

// ListAds returns every ad of the account, paged.
func (c *GraphClient) ListAds(ctx context.Context, accountID string) ([]fbdomain.Ad, error) {
	params := url.Values{}
	params.Add("fields", "id,name,status,campaign_id")
	params.Add("limit", "200")

	endpoint := fmt.Sprintf("%s/act_%s/ads", c.cfg.Facebook.URL, accountID)

	var ads []fbdomain.Ad
	err := c.getAllPages(ctx, endpoint, params, func(data json.RawMessage) error {
		var page []fbdomain.Ad
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		ads = append(ads, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return ads, nil
}

// GetCreative returns the creative attached to an ad.
func (c *GraphClient) GetCreative(ctx context.Context, adID string) (*fbdomain.Creative, error) {
	params := url.Values{}
	params.Add("fields", "id,name,title,body,image_url,thumbnail_url,object_type")

	endpoint := fmt.Sprintf("%s/%s/adcreatives", c.cfg.Facebook.URL, adID)

	var creatives []fbdomain.Creative
	err := c.getAllPages(ctx, endpoint, params, func(data json.RawMessage) error {
		var page []fbdomain.Creative
		if err := json.Unmarshal(data, &page); err != nil {
			return err
		}
		creatives = append(creatives, page...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(creatives) == 0 {
		return nil, errors.Errorf("facebook: no creative found for ad %s", adID)
	}

	return &creatives[0], nil
}

// UpdateStatus toggles a campaign or ad between ACTIVE and PAUSED.
func (c *GraphClient) UpdateStatus(ctx context.Context, objectID, status string) error {
	if err := c.EnsureValidToken(ctx); err != nil {
		return err
	}

	params := url.Values{}
	params.Add("status", status)
	params.Add("access_token", c.tokenManager.Token())

	endpoint := fmt.Sprintf("%s/%s", c.cfg.Facebook.URL, objectID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(params.Encode()))
	if err != nil {
		return errors.Wrap(err, "facebook: building status request")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "facebook: status request failed")
	}
	defer resp.Body.Close()

	if _, err := c.tokenManager.HandleResponse(ctx, resp); err != nil {
		if errors.Is(err, ErrTokenRefreshed) {
			return c.UpdateStatus(ctx, objectID, status)
		}
		return err
	}

	logrus.WithFields(logrus.Fields{
		"object_id": objectID,
		"status":    status,
	}).Info("facebook: status updated")

	return nil
}

// pagedResponse is the generic Graph listing envelope.
type pagedResponse struct {
	Data   json.RawMessage `json:"data"`
	Paging fbdomain.Paging `json:"paging"`
}

// getAllPages walks paging.next until exhausted; partial pages are never
// surfaced to callers.
func (c *GraphClient) getAllPages(ctx context.Context, endpoint string, params url.Values, collect func(json.RawMessage) error) error {
	if err := c.EnsureValidToken(ctx); err != nil {
		return err
	}

	params.Set("access_token", c.tokenManager.Token())
	next := endpoint + "?" + params.Encode()

	retried := false
	for next != "" {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, next, nil)
		if err != nil {
			return errors.Wrap(err, "facebook: building request")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return errors.Wrap(err, "facebook: request failed")
		}

		body, err := c.tokenManager.HandleResponse(ctx, resp)
		resp.Body.Close()
		if err != nil {
			if errors.Is(err, ErrTokenRefreshed) && !retried {
				retried = true
				params.Set("access_token", c.tokenManager.Token())
				next = endpoint + "?" + params.Encode()
				continue
			}
			return err
		}

		var page pagedResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return errors.Wrap(err, "facebook: decoding page")
		}

		if page.Data != nil {
			if err := collect(page.Data); err != nil {
				return errors.Wrap(err, "facebook: decoding page data")
			}
		}

		next = page.Paging.Next
	}

	return nil
}

func (c *GraphClient) insightsURL(accountID string) string {
	return fmt.Sprintf("%s/act_%s/insights", c.cfg.Facebook.URL, accountID)
}

func timeRange(start, end time.Time) string {
	return fmt.Sprintf(`{"since":"%s","until":"%s"}`,
		start.Format(time.DateOnly), end.Format(time.DateOnly))
}

func campaignFilter(campaignIDs []string) string {
	quoted := make([]string, 0, len(campaignIDs))
	for _, id := range campaignIDs {
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}
	return fmt.Sprintf(`[{"field":"campaign.id","operator":"IN","value":[%s]}]`, strings.Join(quoted, ","))
}
