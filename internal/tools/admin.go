package tools

import (
	"context"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// registerAdminTools exposes each configured adapter's administrative
// operations one-for-one. Unconfigured platforms register nothing.
func registerAdminTools(registry *Registry, deps Dependencies) {
	if deps.Facebook != nil {
		registerFacebookAdmin(registry, deps)
	}
	if deps.Google != nil {
		registerGoogleAdmin(registry, deps)
	}
	if deps.TikTok != nil {
		registerTikTokAdmin(registry, deps)
	}
}

func asJSON(v any) (string, error) {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding tool result")
	}
	return string(encoded), nil
}

type idStatusArgs struct {
	CampaignID string `mapstructure:"campaign_id"`
	AdID       string `mapstructure:"ad_id"`
	CustomerID string `mapstructure:"customer_id"`
	Advertiser string `mapstructure:"advertiser_id"`
	Status     string `mapstructure:"status"`
}

func registerFacebookAdmin(registry *Registry, deps Dependencies) {
	registry.Register(Definition{
		Name:        "facebook_list_ads",
		Description: "페이스북 광고 계정의 전체 광고 목록을 반환합니다.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		ads, err := deps.Facebook.ListAds(ctx)
		if err != nil {
			return "", err
		}
		return asJSON(ads)
	})

	registry.Register(Definition{
		Name:        "facebook_get_creative",
		Description: "광고의 크리에이티브 정보를 조회합니다.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ad_id": map[string]any{"type": "string"},
			},
			"required": []string{"ad_id"},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in idStatusArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		creative, err := deps.Facebook.GetCreative(ctx, in.AdID)
		if err != nil {
			return "", err
		}
		return asJSON(creative)
	})

	registry.Register(Definition{
		Name:        "facebook_update_campaign_status",
		Description: "페이스북 캠페인 상태를 변경합니다 (ACTIVE/PAUSED).",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"campaign_id": map[string]any{"type": "string"},
				"status":      map[string]any{"type": "string", "enum": []string{"ACTIVE", "PAUSED"}},
			},
			"required": []string{"campaign_id", "status"},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in idStatusArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		if err := deps.Facebook.UpdateCampaignStatus(ctx, in.CampaignID, in.Status); err != nil {
			return "", err
		}
		return "캠페인 상태가 변경되었습니다: " + in.Status, nil
	})

	registry.Register(Definition{
		Name:        "facebook_update_ad_status",
		Description: "페이스북 광고 상태를 변경합니다 (ACTIVE/PAUSED).",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"ad_id":  map[string]any{"type": "string"},
				"status": map[string]any{"type": "string", "enum": []string{"ACTIVE", "PAUSED"}},
			},
			"required": []string{"ad_id", "status"},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in idStatusArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		if err := deps.Facebook.UpdateAdStatus(ctx, in.AdID, in.Status); err != nil {
			return "", err
		}
		return "광고 상태가 변경되었습니다: " + in.Status, nil
	})

	registry.Register(Definition{
		Name:        "facebook_exchange_info",
		Description: "최근 적용된 환율과 그 출처를 반환합니다.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		return asJSON(deps.Facebook.ExchangeInfo())
	})
}

func registerGoogleAdmin(registry *Registry, deps Dependencies) {
	customerOf := func(in idStatusArgs) string {
		if in.CustomerID != "" {
			return in.CustomerID
		}
		return deps.Cfg.Google.LoginCustomer
	}

	registry.Register(Definition{
		Name:        "google_list_ad_groups",
		Description: "구글 광고그룹 목록을 반환합니다.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"customer_id": map[string]any{"type": "string"},
			},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in idStatusArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		rows, err := deps.Google.ListAdGroups(ctx, customerOf(in))
		if err != nil {
			return "", err
		}
		return asJSON(rows)
	})

	registry.Register(Definition{
		Name:        "google_list_keywords",
		Description: "구글 검색 키워드 목록을 반환합니다.",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"customer_id": map[string]any{"type": "string"},
			},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in idStatusArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		rows, err := deps.Google.ListKeywords(ctx, customerOf(in))
		if err != nil {
			return "", err
		}
		return asJSON(rows)
	})

	registry.Register(Definition{
		Name:        "google_update_campaign_status",
		Description: "구글 캠페인 상태를 변경합니다 (ENABLED/PAUSED).",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"customer_id": map[string]any{"type": "string"},
				"campaign_id": map[string]any{"type": "string"},
				"status":      map[string]any{"type": "string", "enum": []string{"ENABLED", "PAUSED"}},
			},
			"required": []string{"campaign_id", "status"},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in idStatusArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		if err := deps.Google.UpdateCampaignStatus(ctx, customerOf(in), in.CampaignID, in.Status); err != nil {
			return "", err
		}
		return "캠페인 상태가 변경되었습니다: " + in.Status, nil
	})
}

func registerTikTokAdmin(registry *Registry, deps Dependencies) {
	registry.Register(Definition{
		Name:        "tiktok_list_ads",
		Description: "틱톡 광고 목록을 반환합니다.",
		InputSchema: map[string]any{"type": "object", "properties": map[string]any{}},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		ads, err := deps.TikTok.ListAds(ctx)
		if err != nil {
			return "", err
		}
		return asJSON(ads)
	})

	registry.Register(Definition{
		Name:        "tiktok_update_campaign_status",
		Description: "틱톡 캠페인 상태를 변경합니다 (ENABLE/DISABLE).",
		InputSchema: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"advertiser_id": map[string]any{"type": "string"},
				"campaign_id":   map[string]any{"type": "string"},
				"status":        map[string]any{"type": "string", "enum": []string{"ENABLE", "DISABLE"}},
			},
			"required": []string{"advertiser_id", "campaign_id", "status"},
		},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		var in idStatusArgs
		if err := decodeArgs(args, &in); err != nil {
			return "", err
		}
		if err := deps.TikTok.UpdateCampaignStatus(ctx, in.Advertiser, in.CampaignID, in.Status); err != nil {
			return "", err
		}
		return "캠페인 상태가 변경되었습니다: " + in.Status, nil
	})
}
