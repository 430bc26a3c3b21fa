// Package tiktokclient talks to the TikTok Business API: integrated reports
// with page/total_page iteration, advertiser info and status mutations.
package tiktokclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	ttdomain "github.com/adscope/unified-ads-mcp/infrastructure/integrator/tiktok/domain"
	"github.com/adscope/unified-ads-mcp/internal/config"
)

// ErrRateLimited marks a vendor throttle reply; the call may be retried
// later, other calls are unaffected.
var ErrRateLimited = errors.New("tiktok: rate limited")

type Client interface {
	AdvertiserInfos(ctx context.Context, advertiserIDs []string) ([]ttdomain.AdvertiserInfo, error)
	Report(ctx context.Context, advertiserID, dataLevel string, dimensions []string, start, end time.Time) ([]ttdomain.ReportRow, error)
	ListAds(ctx context.Context, advertiserID string) ([]ttdomain.Ad, error)
	UpdateCampaignStatus(ctx context.Context, advertiserID, campaignID, operation string) error
}

type BusinessClient struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewClient(cfg *config.Config) Client {
	return &BusinessClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// AdvertiserInfos returns name, status and billing currency for the given
// advertiser accounts.
func (c *BusinessClient) AdvertiserInfos(ctx context.Context, advertiserIDs []string) ([]ttdomain.AdvertiserInfo, error) {
	ids, _ := json.Marshal(advertiserIDs)

	params := url.Values{}
	params.Add("advertiser_ids", string(ids))
	params.Add("fields", `["advertiser_id","name","status","currency"]`)

	data, err := c.get(ctx, "/advertiser/info/", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		List []ttdomain.AdvertiserInfo `json:"list"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.Wrap(err, "tiktok: decoding advertiser info")
	}

	return payload.List, nil
}

// Report runs the integrated report for one advertiser, iterating
// page/total_page until exhausted.
func (c *BusinessClient) Report(ctx context.Context, advertiserID, dataLevel string, dimensions []string, start, end time.Time) ([]ttdomain.ReportRow, error) {
	dims, _ := json.Marshal(dimensions)
	metrics, _ := json.Marshal(reportMetrics(dataLevel))

	var rows []ttdomain.ReportRow

	for page := 1; ; page++ {
		params := url.Values{}
		params.Add("advertiser_id", advertiserID)
		params.Add("report_type", "BASIC")
		params.Add("data_level", dataLevel)
		params.Add("dimensions", string(dims))
		params.Add("metrics", string(metrics))
		params.Add("start_date", start.Format(time.DateOnly))
		params.Add("end_date", end.Format(time.DateOnly))
		params.Add("page", strconv.Itoa(page))
		params.Add("page_size", "200")

		data, err := c.get(ctx, "/report/integrated/get/", params)
		if err != nil {
			return nil, err
		}

		var payload ttdomain.ReportData
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, errors.Wrap(err, "tiktok: decoding report page")
		}

		rows = append(rows, payload.List...)

		if page >= payload.PageInfo.TotalPage {
			return rows, nil
		}
	}
}

// ListAds returns every ad of the advertiser, paged.
func (c *BusinessClient) ListAds(ctx context.Context, advertiserID string) ([]ttdomain.Ad, error) {
	var ads []ttdomain.Ad

	for page := 1; ; page++ {
		params := url.Values{}
		params.Add("advertiser_id", advertiserID)
		params.Add("page", strconv.Itoa(page))
		params.Add("page_size", "200")

		data, err := c.get(ctx, "/ad/get/", params)
		if err != nil {
			return nil, err
		}

		var payload struct {
			List     []ttdomain.Ad     `json:"list"`
			PageInfo ttdomain.PageInfo `json:"page_info"`
		}
		if err := json.Unmarshal(data, &payload); err != nil {
			return nil, errors.Wrap(err, "tiktok: decoding ad page")
		}

		ads = append(ads, payload.List...)

		if page >= payload.PageInfo.TotalPage {
			return ads, nil
		}
	}
}

// UpdateCampaignStatus enables or disables a campaign
// (operation: ENABLE | DISABLE).
func (c *BusinessClient) UpdateCampaignStatus(ctx context.Context, advertiserID, campaignID, operation string) error {
	payload := map[string]any{
		"advertiser_id":    advertiserID,
		"campaign_ids":     []string{campaignID},
		"operation_status": operation,
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "tiktok: encoding status request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.TikTok.URL+"/campaign/status/update/", bytes.NewReader(encoded))
	if err != nil {
		return errors.Wrap(err, "tiktok: building status request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Access-Token", c.cfg.TikTok.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrap(err, "tiktok: status request failed")
	}
	defer resp.Body.Close()

	_, err = decodeEnvelope(resp)
	return err
}

func (c *BusinessClient) get(ctx context.Context, path string, params url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.TikTok.URL+path+"?"+params.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "tiktok: building request")
	}
	req.Header.Set("Access-Token", c.cfg.TikTok.AccessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "tiktok: request failed")
	}
	defer resp.Body.Close()

	return decodeEnvelope(resp)
}

func decodeEnvelope(resp *http.Response) (json.RawMessage, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "tiktok: reading response body")
	}

	var envelope ttdomain.Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, errors.Wrapf(err, "tiktok: unexpected response, status %d", resp.StatusCode)
	}

	if envelope.RateLimited() {
		return nil, errors.Wrapf(ErrRateLimited, "request_id %s", envelope.RequestID)
	}
	if !envelope.Success() {
		return nil, fmt.Errorf("tiktok: API error %d: %s", envelope.Code, envelope.Message)
	}

	return envelope.Data, nil
}

func reportMetrics(dataLevel string) []string {
	metrics := []string{"spend", "impressions", "clicks", "conversion", "conversion_rate_v2"}
	if dataLevel == "AUCTION_CAMPAIGN" {
		return append(metrics, "campaign_name")
	}
	return append(metrics, "campaign_id", "campaign_name", "ad_name")
}
