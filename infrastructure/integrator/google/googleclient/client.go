// Package googleclient talks to the Google Ads REST API: paged GAQL search
// queries and campaign mutations. Token refresh runs through an injected
// oauth2 TokenSource; the refresh mechanics live outside this package.
package googleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"

	gdomain "github.com/adscope/unified-ads-mcp/infrastructure/integrator/google/domain"
	"github.com/adscope/unified-ads-mcp/internal/config"
)

type Client interface {
	Search(ctx context.Context, customerID, query string) ([]gdomain.Row, error)
	MutateCampaignStatus(ctx context.Context, customerID, campaignID, status string) error
}

type AdsClient struct {
	cfg         *config.Config
	tokenSource oauth2.TokenSource
	httpClient  *http.Client
}

// NewTokenSource builds the refresh-token source for the configured OAuth
// client. Reuse keeps a valid access token cached between calls.
func NewTokenSource(ctx context.Context, cfg *config.Config) oauth2.TokenSource {
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.Google.ClientID,
		ClientSecret: cfg.Google.ClientSecret,
		Endpoint: oauth2.Endpoint{
			TokenURL: "https://oauth2.googleapis.com/token",
		},
	}

	source := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.Google.RefreshToken})
	return oauth2.ReuseTokenSource(nil, source)
}

func NewClient(cfg *config.Config, tokenSource oauth2.TokenSource) Client {
	return &AdsClient{
		cfg:         cfg,
		tokenSource: tokenSource,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Search runs a GAQL query and iterates nextPageToken until exhausted.
func (c *AdsClient) Search(ctx context.Context, customerID, query string) ([]gdomain.Row, error) {
	endpoint := fmt.Sprintf("%s/customers/%s/googleAds:search", c.cfg.Google.URL, customerID)

	var rows []gdomain.Row
	pageToken := ""

	for {
		payload := map[string]string{"query": query}
		if pageToken != "" {
			payload["pageToken"] = pageToken
		}

		body, err := c.post(ctx, endpoint, payload)
		if err != nil {
			return nil, err
		}

		var page gdomain.SearchResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, errors.Wrap(err, "google: decoding search page")
		}

		rows = append(rows, page.Results...)

		if page.NextPageToken == "" {
			return rows, nil
		}
		pageToken = page.NextPageToken
	}
}

// MutateCampaignStatus toggles a campaign between ENABLED and PAUSED.
func (c *AdsClient) MutateCampaignStatus(ctx context.Context, customerID, campaignID, status string) error {
	endpoint := fmt.Sprintf("%s/customers/%s/campaigns:mutate", c.cfg.Google.URL, customerID)

	payload := map[string]any{
		"operations": []map[string]any{
			{
				"updateMask": "status",
				"update": map[string]string{
					"resourceName": fmt.Sprintf("customers/%s/campaigns/%s", customerID, campaignID),
					"status":       status,
				},
			},
		},
	}

	_, err := c.post(ctx, endpoint, payload)
	return err
}

func (c *AdsClient) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	token, err := c.tokenSource.Token()
	if err != nil {
		return nil, errors.Wrap(err, "google: refreshing access token")
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "google: encoding request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, errors.Wrap(err, "google: building request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token.AccessToken)
	req.Header.Set("developer-token", c.cfg.Google.DeveloperToken)
	req.Header.Set("login-customer-id", c.cfg.Google.LoginCustomer)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "google: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "google: reading response body")
	}

	if resp.StatusCode != http.StatusOK {
		var errorResp gdomain.ErrorResponse
		if jsonErr := json.Unmarshal(body, &errorResp); jsonErr == nil && errorResp.Error.Message != "" {
			return nil, errors.Errorf("google: API error %s: %s", errorResp.Error.Status, errorResp.Error.Message)
		}
		return nil, errors.Errorf("google: API error, status %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}
