package querying_test

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying/mocks"
)

func testCommand(platforms ...domain.Platform) *domain.Command {
	return &domain.Command{
		Keyword:    "",
		StartDate:  "2025-07-01",
		EndDate:    "2025-07-07",
		Platforms:  platforms,
		ReportType: domain.ReportTypeInternal,
		IsValid:    true,
	}
}

func TestRunFanOutAndIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	facebook := mocks.NewMockPlatformAdapter(ctrl)
	google := mocks.NewMockPlatformAdapter(ctrl)

	facebook.EXPECT().Platform().Return(domain.PlatformFacebook).AnyTimes()
	google.EXPECT().Platform().Return(domain.PlatformGoogle).AnyTimes()

	fbCampaign := &domain.Campaign{
		Platform:     domain.PlatformFacebook,
		CampaignID:   "c1",
		CampaignName: "여름 세일",
		Metrics:      domain.Metrics{Spend: 100000, Impressions: 1000, Clicks: 50},
	}

	facebook.EXPECT().
		ListCampaignsWithDateFilter(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*domain.Campaign{fbCampaign}, nil)
	facebook.EXPECT().
		AdLevelPerformance(gomock.Any(), []string{"c1"}, gomock.Any(), gomock.Any()).
		Return([]*domain.Ad{{Platform: domain.PlatformFacebook, AdID: "a1", CampaignID: "c1"}}, nil)

	// One broken platform must not sink the other.
	google.EXPECT().
		ListCampaignsWithDateFilter(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("developer token rejected"))

	service := querying.NewService([]querying.PlatformAdapter{facebook, google})

	result := service.Run(context.Background(),
		testCommand(domain.PlatformFacebook, domain.PlatformGoogle))

	assert.Len(t, result.Platforms, 2)

	fb := result.Platforms[0]
	assert.Equal(t, domain.PlatformFacebook, fb.Platform)
	assert.NoError(t, fb.Err)
	assert.Len(t, fb.Campaigns, 1)
	assert.Len(t, fb.Ads, 1)

	gg := result.Platforms[1]
	assert.Equal(t, domain.PlatformGoogle, gg.Platform)
	assert.Error(t, gg.Err)
	assert.Empty(t, gg.Campaigns)
}

func TestRunKeywordFilterSkipsAdRetrieval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adapter := mocks.NewMockPlatformAdapter(ctrl)
	adapter.EXPECT().Platform().Return(domain.PlatformFacebook).AnyTimes()

	adapter.EXPECT().
		ListCampaignsWithDateFilter(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*domain.Campaign{
			{CampaignID: "c1", CampaignName: "겨울 준비"},
		}, nil)
	// No surviving campaign, so no ad-level call is expected.

	service := querying.NewService([]querying.PlatformAdapter{adapter})

	command := testCommand(domain.PlatformFacebook)
	command.Keyword = "여름"

	result := service.Run(context.Background(), command)

	assert.Len(t, result.Platforms, 1)
	assert.NoError(t, result.Platforms[0].Err)
	assert.Empty(t, result.Platforms[0].Campaigns)
	assert.Empty(t, result.Platforms[0].Ads)
}

func TestRunTimeoutClassified(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adapter := mocks.NewMockPlatformAdapter(ctrl)
	adapter.EXPECT().Platform().Return(domain.PlatformTikTok).AnyTimes()

	adapter.EXPECT().
		ListCampaignsWithDateFilter(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.Wrap(context.DeadlineExceeded, "report call"))

	service := querying.NewService([]querying.PlatformAdapter{adapter})

	result := service.Run(context.Background(), testCommand(domain.PlatformTikTok))

	assert.Len(t, result.Platforms, 1)
	assert.ErrorIs(t, result.Platforms[0].Err, querying.ErrTimeout)
	assert.Equal(t, "timeout", result.Platforms[0].Err.Error())
}

func TestRunUnconfiguredPlatformExcluded(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adapter := mocks.NewMockPlatformAdapter(ctrl)
	adapter.EXPECT().Platform().Return(domain.PlatformFacebook).AnyTimes()
	adapter.EXPECT().
		ListCampaignsWithDateFilter(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, nil)

	service := querying.NewService([]querying.PlatformAdapter{adapter})

	// Google is requested but has no adapter: silently excluded.
	result := service.Run(context.Background(),
		testCommand(domain.PlatformFacebook, domain.PlatformGoogle))

	assert.Len(t, result.Platforms, 1)
	assert.Equal(t, domain.PlatformFacebook, result.Platforms[0].Platform)
}

func TestRunAdRetrievalFailureKeepsCampaigns(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adapter := mocks.NewMockPlatformAdapter(ctrl)
	adapter.EXPECT().Platform().Return(domain.PlatformGoogle).AnyTimes()

	adapter.EXPECT().
		ListCampaignsWithDateFilter(gomock.Any(), gomock.Any(), gomock.Any()).
		Return([]*domain.Campaign{{CampaignID: "c9", CampaignName: "브랜드"}}, nil)
	adapter.EXPECT().
		AdLevelPerformance(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("quota exceeded"))

	service := querying.NewService([]querying.PlatformAdapter{adapter})

	result := service.Run(context.Background(), testCommand(domain.PlatformGoogle))

	entry := result.Platforms[0]
	assert.Error(t, entry.Err)
	assert.Len(t, entry.Campaigns, 1)
	assert.Empty(t, entry.Ads)
}

func TestRunPassesCommandDates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	adapter := mocks.NewMockPlatformAdapter(ctrl)
	adapter.EXPECT().Platform().Return(domain.PlatformFacebook).AnyTimes()

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 7, 7, 0, 0, 0, 0, time.UTC)

	adapter.EXPECT().
		ListCampaignsWithDateFilter(gomock.Any(), start, end).
		Return(nil, nil)

	service := querying.NewService([]querying.PlatformAdapter{adapter})
	service.Run(context.Background(), testCommand(domain.PlatformFacebook))
}
