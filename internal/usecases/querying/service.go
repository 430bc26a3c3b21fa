// Package querying is the unified query core: it fans a parsed command out
// to every requested platform adapter, filters campaigns by keyword, pulls
// ad-level breakdowns for the survivors and returns per-platform results
// with failures isolated.
package querying

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/adscope/unified-ads-mcp/internal/domain"
)

// ErrTimeout marks a platform whose deadline elapsed; the platform is
// omitted from normalization, the others proceed.
var ErrTimeout = errors.New("timeout")

// PlatformResult carries one platform's outcome. Err is set when the
// platform failed; Campaigns and Ads are what survived the keyword filter.
type PlatformResult struct {
	Platform  domain.Platform
	Campaigns []*domain.Campaign
	Ads       []*domain.Ad
	Err       error
}

// Result is the full outcome of one command run, handed to the composer.
type Result struct {
	Command     *domain.Command
	Platforms   []PlatformResult
	GeneratedAt time.Time
}

type Querier interface {
	Run(ctx context.Context, command *domain.Command) *Result
}

type Service struct {
	adapters map[domain.Platform]PlatformAdapter
	now      func() time.Time
}

func NewService(adapters []PlatformAdapter) *Service {
	byPlatform := make(map[domain.Platform]PlatformAdapter, len(adapters))
	for _, adapter := range adapters {
		byPlatform[adapter.Platform()] = adapter
	}

	return &Service{
		adapters: byPlatform,
		now:      time.Now,
	}
}

// Run executes the pipeline for an already-parsed command. It always
// returns a result; platform failures land in their PlatformResult entry.
func (s *Service) Run(ctx context.Context, command *domain.Command) *Result {
	result := &Result{
		Command:     command,
		GeneratedAt: s.now(),
	}

	start, err := time.Parse(time.DateOnly, command.StartDate)
	if err != nil {
		result.Platforms = nil
		return result
	}
	end, err := time.Parse(time.DateOnly, command.EndDate)
	if err != nil {
		result.Platforms = nil
		return result
	}

	// Platforms without configured adapters are silently excluded.
	requested := make([]PlatformAdapter, 0, len(command.Platforms))
	for _, platform := range command.Platforms {
		if adapter, ok := s.adapters[platform]; ok {
			requested = append(requested, adapter)
		}
	}

	results := make([]PlatformResult, len(requested))

	wg := sync.WaitGroup{}
	for i, adapter := range requested {
		wg.Add(1)

		go func(i int, adapter PlatformAdapter) {
			defer wg.Done()
			results[i] = s.runPlatform(ctx, adapter, command, start, end)
		}(i, adapter)
	}
	wg.Wait()

	result.Platforms = results
	return result
}

// runPlatform executes steps 2 through 4 of the pipeline for one platform:
// campaign discovery, keyword filter, ad-level retrieval.
func (s *Service) runPlatform(ctx context.Context, adapter PlatformAdapter, command *domain.Command, start, end time.Time) PlatformResult {
	platform := adapter.Platform()
	entry := PlatformResult{Platform: platform}

	campaigns, err := adapter.ListCampaignsWithDateFilter(ctx, start, end)
	if err != nil {
		entry.Err = classify(err)
		logrus.WithError(err).WithField("platform", string(platform)).
			Warn("campaign discovery failed")
		return entry
	}

	entry.Campaigns = FilterCampaigns(campaigns, command.Keyword)
	if len(entry.Campaigns) == 0 {
		return entry
	}

	ids := make([]string, 0, len(entry.Campaigns))
	for _, campaign := range entry.Campaigns {
		ids = append(ids, campaign.CampaignID)
	}

	ads, err := adapter.AdLevelPerformance(ctx, ids, start, end)
	if err != nil {
		// Campaign summaries survive; only the ad breakdown is lost.
		entry.Err = classify(err)
		logrus.WithError(err).WithField("platform", string(platform)).
			Warn("ad-level retrieval failed")
		return entry
	}

	entry.Ads = ads
	return entry
}

// classify folds deadline failures into the canonical timeout error.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return ErrTimeout
	}
	return err
}
