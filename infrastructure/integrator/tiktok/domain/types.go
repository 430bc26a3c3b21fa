// Package domain holds the TikTok Business API reply shapes.
package domain

import "encoding/json"

// Envelope is the common reply wrapper; Code 0 means success.
type Envelope struct {
	Code      int             `json:"code"`
	Message   string          `json:"message"`
	RequestID string          `json:"request_id"`
	Data      json.RawMessage `json:"data"`
}

// Success reports whether the reply carries a usable payload.
func (e Envelope) Success() bool {
	return e.Code == 0
}

// RateLimited reports whether the vendor throttled the call; such failures
// are retryable for that call only.
func (e Envelope) RateLimited() bool {
	return e.Code == 40100
}

// PageInfo is the page/total_page cursor of listing replies.
type PageInfo struct {
	Page        int `json:"page"`
	PageSize    int `json:"page_size"`
	TotalPage   int `json:"total_page"`
	TotalNumber int `json:"total_number"`
}

// ReportRow is one row of the integrated report.
type ReportRow struct {
	Dimensions struct {
		CampaignID  string `json:"campaign_id"`
		AdID        string `json:"ad_id"`
		StatTimeDay string `json:"stat_time_day"`
	} `json:"dimensions"`
	Metrics struct {
		CampaignID   string `json:"campaign_id"`
		CampaignName string `json:"campaign_name"`
		AdName       string `json:"ad_name"`
		Spend        string `json:"spend"`
		Impressions  string `json:"impressions"`
		Clicks       string `json:"clicks"`
		Conversion   string `json:"conversion"`
		// Present in vendor replies but ignored: canonical conversion
		// rate is recomputed from totals.
		ConversionRateV2 string `json:"conversion_rate_v2"`
	} `json:"metrics"`
}

// ReportData is the integrated report payload.
type ReportData struct {
	List     []ReportRow `json:"list"`
	PageInfo PageInfo    `json:"page_info"`
}

// AdvertiserInfo is one row of the advertiser info endpoint.
type AdvertiserInfo struct {
	AdvertiserID string `json:"advertiser_id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	Currency     string `json:"currency"`
}

// Ad is one row of the ad listing endpoint.
type Ad struct {
	AdID            string `json:"ad_id"`
	AdName          string `json:"ad_name"`
	CampaignID      string `json:"campaign_id"`
	OperationStatus string `json:"operation_status"`
}
