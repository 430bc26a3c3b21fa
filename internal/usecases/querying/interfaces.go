package querying

import (
	"context"
	"time"

	"github.com/adscope/unified-ads-mcp/internal/domain"
)

//go:generate mockgen -source=interfaces.go -destination=mocks/adapter_mock.go -package=mocks

// PlatformAdapter is the capability set every platform integration
// implements. Campaign listing precedes ad-level retrieval; both return
// canonical records with spend already in KRW.
type PlatformAdapter interface {
	Platform() domain.Platform

	// ListCampaignsWithDateFilter returns campaigns with spend in the range,
	// aggregated over the range and sorted by descending spend.
	ListCampaignsWithDateFilter(ctx context.Context, start, end time.Time) ([]*domain.Campaign, error)

	// AdLevelPerformance returns ads of the given campaigns with their
	// per-day breakdown, daily rows sorted ascending by date.
	AdLevelPerformance(ctx context.Context, campaignIDs []string, start, end time.Time) ([]*domain.Ad, error)
}
