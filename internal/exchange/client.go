// Package exchange delivers the USD→KRW rate for a given date, backed by the
// Korea Eximbank daily-rate API with an in-memory per-date cache, a persisted
// last-known record and a fixed fallback chain.
package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/pkg/utils"
)

// Client fetches the USD base rate for a single date from the rate provider.
type Client interface {
	FetchUSDRate(ctx context.Context, date time.Time) (float64, error)
}

// rateItem is one currency entry of the provider response.
// Result follows the provider convention: 1 means success.
type rateItem struct {
	Result   int    `json:"result"`
	CurUnit  string `json:"cur_unit"`
	CurName  string `json:"cur_nm"`
	DealBasR string `json:"deal_bas_r"`
}

type eximClient struct {
	baseURL string
	authKey string
}

// NewClient builds the rate-provider client from configuration.
func NewClient(cfg *config.Config) Client {
	return &eximClient{
		baseURL: cfg.Exchange.APIURL,
		authKey: cfg.Exchange.APIKey,
	}
}

func (c *eximClient) FetchUSDRate(ctx context.Context, date time.Time) (float64, error) {
	params := url.Values{}
	params.Add("authkey", c.authKey)
	params.Add("searchdate", date.Format("20060102"))
	params.Add("data", "AP01")

	body, err := utils.MakeRequest(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return 0, errors.Wrap(err, "exchange: rate request failed")
	}

	var items []rateItem
	if err := json.Unmarshal(body, &items); err != nil {
		// A non-array body carries a bare result code; treat any
		// non-success code as a retryable call-level failure.
		var single rateItem
		if jsonErr := json.Unmarshal(body, &single); jsonErr == nil && single.Result != 1 {
			return 0, fmt.Errorf("exchange: provider returned result code %d", single.Result)
		}
		return 0, errors.Wrap(err, "exchange: unexpected response body")
	}

	// Weekends and holidays come back as an empty array.
	if len(items) == 0 {
		return 0, fmt.Errorf("exchange: no rates published for %s", date.Format(time.DateOnly))
	}

	for _, item := range items {
		if item.Result != 1 {
			return 0, fmt.Errorf("exchange: provider returned result code %d for %s", item.Result, item.CurUnit)
		}
		if item.CurUnit == "USD" {
			return parseRate(item.DealBasR)
		}
	}

	return 0, fmt.Errorf("exchange: USD rate missing for %s", date.Format(time.DateOnly))
}

// parseRate parses a comma-grouped decimal such as "1,384.50".
func parseRate(v string) (float64, error) {
	rate, err := strconv.ParseFloat(strings.ReplaceAll(v, ",", ""), 64)
	if err != nil {
		return 0, errors.Wrapf(err, "exchange: malformed rate %q", v)
	}
	if rate <= 0 {
		return 0, fmt.Errorf("exchange: non-positive rate %f", rate)
	}
	return rate, nil
}
