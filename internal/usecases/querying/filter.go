package querying

import (
	"strings"

	"github.com/adscope/unified-ads-mcp/internal/domain"
)

// MatchKeyword applies the keyword predicate to a campaign name. An empty
// keyword passes everything; comma-separated tokens must all match as
// case-insensitive substrings.
func MatchKeyword(name, keyword string) bool {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return true
	}

	lowered := strings.ToLower(name)
	for _, token := range strings.Split(keyword, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if !strings.Contains(lowered, strings.ToLower(token)) {
			return false
		}
	}

	return true
}

// FilterCampaigns returns the campaigns whose names match the keyword,
// preserving order.
func FilterCampaigns(campaigns []*domain.Campaign, keyword string) []*domain.Campaign {
	if strings.TrimSpace(keyword) == "" {
		return campaigns
	}

	filtered := make([]*domain.Campaign, 0, len(campaigns))
	for _, campaign := range campaigns {
		if MatchKeyword(campaign.CampaignName, keyword) {
			filtered = append(filtered, campaign)
		}
	}
	return filtered
}
