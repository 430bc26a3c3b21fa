package querying

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/adscope/unified-ads-mcp/internal/domain"
)

func TestMatchKeyword(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		keyword string
		want    bool
	}{
		{name: "empty keyword passes all", title: "여름 세일", keyword: "", want: true},
		{name: "whitespace keyword passes all", title: "여름 세일", keyword: "  ", want: true},
		{name: "substring match", title: "여름 세일 캠페인", keyword: "세일", want: true},
		{name: "case-insensitive", title: "Summer SALE", keyword: "sale", want: true},
		{name: "no match", title: "여름 세일", keyword: "겨울", want: false},
		{name: "comma tokens are ANDed", title: "여름 신규 세일", keyword: "여름,신규", want: true},
		{name: "one failing token fails all", title: "여름 세일", keyword: "여름,신규", want: false},
		{name: "empty tokens between commas ignored", title: "여름 세일", keyword: "여름,,", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchKeyword(tt.title, tt.keyword))
		})
	}
}

func TestFilterCampaigns(t *testing.T) {
	campaigns := []*domain.Campaign{
		{CampaignName: "여름 세일"},
		{CampaignName: "겨울 준비"},
		{CampaignName: "여름 신규 고객"},
	}

	filtered := FilterCampaigns(campaigns, "여름")
	assert.Len(t, filtered, 2)
	assert.Equal(t, "여름 세일", filtered[0].CampaignName)
	assert.Equal(t, "여름 신규 고객", filtered[1].CampaignName)

	// Empty keyword returns the input unchanged.
	assert.Equal(t, campaigns, FilterCampaigns(campaigns, ""))
}
