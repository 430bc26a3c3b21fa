package tools

import (
	"context"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"

	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/facebook"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/google"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/tiktok"
	"github.com/adscope/unified-ads-mcp/internal/command"
	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/domain"
	"github.com/adscope/unified-ads-mcp/internal/usecases/exporting"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying"
	"github.com/adscope/unified-ads-mcp/internal/usecases/reporting"
)

// Dependencies wires the tool set. Platform integrators are nil when their
// credentials are absent; their admin tools are then not registered.
type Dependencies struct {
	Cfg      *config.Config
	Querier  querying.Querier
	Composer *reporting.Service
	Exporter exporting.Exporter

	Facebook *facebook.Integrator
	Google   *google.Integrator
	TikTok   *tiktok.Integrator

	Now func() time.Time
}

// NewToolSet builds the full registry: the search pipeline tools plus the
// per-platform admin tools.
func NewToolSet(deps Dependencies) *Registry {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	registry := NewRegistry()
	registerSearchTools(registry, deps)
	registerAdminTools(registry, deps)
	return registry
}

// decodeArgs maps the loosely-typed tool arguments onto a target struct.
func decodeArgs(args map[string]any, target any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errors.Wrap(err, "building argument decoder")
	}
	if err := decoder.Decode(args); err != nil {
		return errors.Wrap(err, "decoding tool arguments")
	}
	return nil
}

type searchArgs struct {
	Command      string `mapstructure:"command"`
	OutputFormat string `mapstructure:"output_format"`
}

type generateArgs struct {
	Command  string `mapstructure:"command"`
	Filename string `mapstructure:"filename"`
}

func registerSearchTools(registry *Registry, deps Dependencies) {
	registry.Register(Definition{
		Name:        "structured_campaign_search",
		Description: "키워드/날짜/매체 구조화 명령으로 전 매체 광고 성과를 조회합니다.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command":       map[string]any{"type": "string", "description": "예: 키워드:신규 날짜:어제 매체:all"},
				"output_format": map[string]any{"type": "string", "enum": []string{"text", "html"}},
			},
			"required": []string{"command"},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in searchArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}

		format := domain.OutputFormatText
		if in.OutputFormat == string(domain.OutputFormatHTML) {
			format = domain.OutputFormatHTML
		}

		result, err := runPipeline(ctx, deps, in.Command)
		if err != nil {
			return "", err
		}
		return deps.Composer.Compose(result, format), nil
	})

	registry.Register(Definition{
		Name:        "search_help",
		Description: "구조화 검색 명령 문법 도움말을 반환합니다.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		return searchHelpText, nil
	})

	registry.Register(Definition{
		Name:        "test_html_output",
		Description: "HTML 리포트 샘플을 반환합니다.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		return deps.Composer.ComposeHTML(sampleResult()), nil
	})

	registry.Register(Definition{
		Name:        "generate_html_file",
		Description: "HTML 리포트를 생성해 파일로 저장하고 30분간 유효한 다운로드 링크를 반환합니다.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"command":  map[string]any{"type": "string"},
				"filename": map[string]any{"type": "string"},
			},
			"required": []string{"command"},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in generateArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}

		result, err := runPipeline(ctx, deps, in.Command)
		if err != nil {
			return "", err
		}

		document := deps.Composer.ComposeHTML(result)

		export, err := deps.Exporter.SaveReport(document, in.Filename)
		if err != nil {
			return "", errors.Wrap(err, "saving report file")
		}

		return "리포트가 생성되었습니다.\n다운로드: " + export.DownloadURL +
			"\n만료: " + export.ExpiresAt.Format("2006-01-02 15:04:05"), nil
	})
}

// runPipeline parses and executes one structured command. Parser failures
// short-circuit with the enumerated reasons.
func runPipeline(ctx context.Context, deps Dependencies, line string) (*querying.Result, error) {
	parsed := command.Parse(line, deps.Now())
	if !parsed.IsValid {
		return nil, errors.Errorf("명령이 올바르지 않습니다: %s", strings.Join(parsed.Errors, "; "))
	}
	return deps.Querier.Run(ctx, parsed), nil
}

// sampleResult is a fixed dataset for test_html_output; the pinned
// timestamp keeps the sample byte-stable.
func sampleResult() *querying.Result {
	daily := []domain.DailyData{
		{Date: "2025-07-01", Metrics: domain.Metrics{Spend: 135000, Impressions: 12000, Clicks: 340, Conversions: 12}},
		{Date: "2025-07-02", Metrics: domain.Metrics{Spend: 148500, Impressions: 13500, Clicks: 410, Conversions: 15}},
	}

	ad := &domain.Ad{
		Platform:     domain.PlatformFacebook,
		AdID:         "sample-ad-1",
		AdName:       "샘플 광고 A",
		CampaignID:   "sample-campaign-1",
		CampaignName: "샘플 캠페인",
		DailyData:    daily,
	}
	for _, day := range daily {
		ad.Add(day.Metrics)
	}
	ad.DerivedMetrics = ad.Derive()

	campaign := &domain.Campaign{
		Platform:     domain.PlatformFacebook,
		CampaignID:   "sample-campaign-1",
		CampaignName: "샘플 캠페인",
		Metrics:      ad.Metrics,
	}
	campaign.DerivedMetrics = campaign.Derive()

	return &querying.Result{
		Command: &domain.Command{
			Keyword:    "샘플",
			StartDate:  "2025-07-01",
			EndDate:    "2025-07-02",
			Platforms:  []domain.Platform{domain.PlatformFacebook},
			ReportType: domain.ReportTypeInternal,
			IsValid:    true,
		},
		Platforms: []querying.PlatformResult{
			{
				Platform:  domain.PlatformFacebook,
				Campaigns: []*domain.Campaign{campaign},
				Ads:       []*domain.Ad{ad},
			},
		},
		GeneratedAt: time.Date(2025, 7, 3, 9, 0, 0, 0, time.UTC),
	}
}

const searchHelpText = `구조화 캠페인 검색 명령 문법

형식: 키:값 쌍을 공백으로 구분해 한 줄로 입력합니다.

필드
  키워드: 캠페인명 검색어. 비우면 전체, 쉼표로 여러 단어 AND 검색 (키워드:신규,여름)
  날짜:   YYYYMMDD 또는 YYYYMMDD-YYYYMMDD 범위. 어제/오늘/N일 지원 (날짜:7일 = 최근 7일)
  매체:   facebook, google, tiktok, marketplace, all (쉼표로 복수 지정)
  리포트: internal(내부) / client(광고주) / A / B
  단위:   campaign(캠페인) / ad(광고)
  제목:   리포트 제목. 마지막에 두면 공백 포함 가능 (최대 100자)

예시
  키워드:신규 날짜:어제 매체:all
  키워드: 날짜:20250701-20250707 매체:facebook,google 리포트:client
  키워드:여름 날짜:30일 매체:all 제목:여름 프로모션 주간 리포트

제약
  조회 기간은 최대 90일입니다. 시작일은 종료일보다 늦을 수 없습니다.`
