package domain

// Platform identifies one of the supported advertising platforms.
type Platform string

const (
	PlatformFacebook    Platform = "facebook"
	PlatformGoogle      Platform = "google"
	PlatformTikTok      Platform = "tiktok"
	PlatformMarketplace Platform = "marketplace"
)

// AllPlatforms is the full supported set, in display order.
var AllPlatforms = []Platform{
	PlatformFacebook,
	PlatformGoogle,
	PlatformTikTok,
	PlatformMarketplace,
}

// DisplayName returns the label used in report headers.
func (p Platform) DisplayName() string {
	switch p {
	case PlatformFacebook:
		return "페이스북"
	case PlatformGoogle:
		return "구글"
	case PlatformTikTok:
		return "틱톡"
	case PlatformMarketplace:
		return "마켓플레이스"
	}
	return string(p)
}

// Valid reports whether p is one of the supported platforms.
func (p Platform) Valid() bool {
	for _, known := range AllPlatforms {
		if p == known {
			return true
		}
	}
	return false
}
