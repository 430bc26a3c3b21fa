// Package domain holds the Facebook Graph API reply shapes. Values arrive as
// strings and are normalized at the integrator boundary.
package domain

// Action is one entry of the insights actions array.
type Action struct {
	ActionType string `json:"action_type"`
	Value      string `json:"value"`
}

// CampaignInsight is one campaign-level insights row.
type CampaignInsight struct {
	CampaignID      string   `json:"campaign_id"`
	CampaignName    string   `json:"campaign_name"`
	Spend           string   `json:"spend"`
	Impressions     string   `json:"impressions"`
	Clicks          string   `json:"clicks"`
	Actions         []Action `json:"actions"`
	AccountCurrency string   `json:"account_currency"`
	DateStart       string   `json:"date_start"`
	DateStop        string   `json:"date_stop"`
}

// AdInsight is one ad-level insights row; with time_increment=1 the API
// returns one row per ad per day.
type AdInsight struct {
	AdID            string   `json:"ad_id"`
	AdName          string   `json:"ad_name"`
	CampaignID      string   `json:"campaign_id"`
	CampaignName    string   `json:"campaign_name"`
	Spend           string   `json:"spend"`
	Impressions     string   `json:"impressions"`
	Clicks          string   `json:"clicks"`
	Actions         []Action `json:"actions"`
	AccountCurrency string   `json:"account_currency"`
	DateStart       string   `json:"date_start"`
	DateStop        string   `json:"date_stop"`
}

// Ad is one row of the ad listing endpoint.
type Ad struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	CampaignID string `json:"campaign_id"`
}

// Creative is the ad creative lookup reply.
type Creative struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	ImageURL     string `json:"image_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	ObjectType   string `json:"object_type"`
}

// Paging carries the Graph API cursor block.
type Paging struct {
	Cursors struct {
		Before string `json:"before"`
		After  string `json:"after"`
	} `json:"cursors"`
	Next string `json:"next"`
}

// ErrorResponse is the Graph API error envelope.
type ErrorResponse struct {
	Error struct {
		Message      string `json:"message"`
		Type         string `json:"type"`
		Code         int    `json:"code"`
		ErrorSubcode int    `json:"error_subcode"`
	} `json:"error"`
}

// Token expiry codes per the Graph API error convention.
const (
	errCodeTokenExpired    = 190
	errSubcodeTokenExpired = 463
)

// IsTokenExpired reports whether the error indicates an expired access token.
func (e *ErrorResponse) IsTokenExpired() bool {
	return e.Error.Code == errCodeTokenExpired || e.Error.ErrorSubcode == errSubcodeTokenExpired
}
