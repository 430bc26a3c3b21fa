// Package domain holds the Google Ads REST reply shapes. int64 metrics
// arrive JSON-encoded as strings and are parsed at the integrator boundary.
package domain

// SearchResponse is one page of a googleAds:search reply.
type SearchResponse struct {
	Results       []Row  `json:"results"`
	NextPageToken string `json:"nextPageToken"`
}

// Row is a single GAQL result row; only the selected fields are populated.
type Row struct {
	Customer       *Customer       `json:"customer,omitempty"`
	CustomerClient *CustomerClient `json:"customerClient,omitempty"`
	Campaign       *Campaign       `json:"campaign,omitempty"`
	AdGroup        *AdGroup        `json:"adGroup,omitempty"`
	AdGroupAd      *AdGroupAd      `json:"adGroupAd,omitempty"`
	Criterion      *Criterion      `json:"adGroupCriterion,omitempty"`
	Metrics        *Metrics        `json:"metrics,omitempty"`
	Segments       *Segments       `json:"segments,omitempty"`
}

type Customer struct {
	ID           string `json:"id"`
	CurrencyCode string `json:"currencyCode"`
}

type CustomerClient struct {
	ID              string `json:"id"`
	DescriptiveName string `json:"descriptiveName"`
	Status          string `json:"status"`
	Manager         bool   `json:"manager"`
}

type Campaign struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type AdGroup struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

type AdGroupAd struct {
	Ad struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"ad"`
	Status string `json:"status"`
}

type Criterion struct {
	Keyword struct {
		Text      string `json:"text"`
		MatchType string `json:"matchType"`
	} `json:"keyword"`
	Status string `json:"status"`
}

// Metrics carries cost values in micro-units (1e6 micros = 1 unit).
type Metrics struct {
	CostMicros              string  `json:"costMicros"`
	Impressions             string  `json:"impressions"`
	Clicks                  string  `json:"clicks"`
	Conversions             float64 `json:"conversions"`
	CostPerConversionMicros string  `json:"costPerConversion"`
}

type Segments struct {
	Date string `json:"date"`
}

// ErrorResponse is the Google Ads REST error envelope.
type ErrorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
