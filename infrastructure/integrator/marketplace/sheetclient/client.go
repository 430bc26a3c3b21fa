// Package sheetclient reads the marketplace performance sheet. The adapter
// consumes rows through the SheetReader interface; the concrete reader talks
// to the spreadsheet values endpoint with an API key.
package sheetclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"

	"github.com/adscope/unified-ads-mcp/internal/config"
)

// SheetReader returns the raw cell rows of the configured range, header
// excluded.
type SheetReader interface {
	ReadRows(ctx context.Context) ([][]string, error)
}

type valuesReader struct {
	cfg        *config.Config
	httpClient *http.Client
}

func NewReader(cfg *config.Config) SheetReader {
	return &valuesReader{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (r *valuesReader) ReadRows(ctx context.Context) ([][]string, error) {
	endpoint := fmt.Sprintf("https://sheets.googleapis.com/v4/spreadsheets/%s/values/%s?key=%s",
		r.cfg.Marketplace.SheetID,
		url.PathEscape(r.cfg.Marketplace.SheetRange),
		url.QueryEscape(r.cfg.Marketplace.APIKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, "marketplace: building sheet request")
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "marketplace: sheet request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "marketplace: reading sheet response")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("marketplace: sheet API error, status %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Values [][]string `json:"values"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "marketplace: decoding sheet values")
	}

	return payload.Values, nil
}
