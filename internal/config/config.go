package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App         App         `mapstructure:",squash"`
	Server      Server      `mapstructure:",squash"`
	Facebook    Facebook    `mapstructure:",squash"`
	Google      Google      `mapstructure:",squash"`
	TikTok      TikTok      `mapstructure:",squash"`
	Marketplace Marketplace `mapstructure:",squash"`
	Exchange    Exchange    `mapstructure:",squash"`
	Report      Report      `mapstructure:",squash"`
	Scheduler   Scheduler   `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	// ExternalURL switches generated download links to a public base URL
	// when the process runs behind a remote transport.
	ExternalURL string `mapstructure:"external_url"`
}

type Facebook struct {
	BaseURL     string `mapstructure:"facebook_base_url"`
	Version     string `mapstructure:"facebook_version"`
	URL         string `mapstructure:"-"`
	AccessToken string `mapstructure:"facebook_access_token"`
	AppID       string `mapstructure:"facebook_app_id"`
	AppSecret   string `mapstructure:"facebook_app_secret"`
	AdAccountID string `mapstructure:"facebook_ad_account_id"`
}

type Google struct {
	URL            string `mapstructure:"google_ads_url"`
	DeveloperToken string `mapstructure:"google_developer_token"`
	ClientID       string `mapstructure:"google_client_id"`
	ClientSecret   string `mapstructure:"google_client_secret"`
	RefreshToken   string `mapstructure:"google_refresh_token"`
	LoginCustomer  string `mapstructure:"google_login_customer_id"`
}

type TikTok struct {
	URL          string `mapstructure:"tiktok_api_url"`
	AccessToken  string `mapstructure:"tiktok_access_token"`
	AdvertiserID string `mapstructure:"tiktok_advertiser_id"`
}

type Marketplace struct {
	SheetID    string `mapstructure:"marketplace_sheet_id"`
	SheetRange string `mapstructure:"marketplace_sheet_range"`
	APIKey     string `mapstructure:"marketplace_api_key"`
}

type Exchange struct {
	APIURL    string `mapstructure:"exchange_api_url"`
	APIKey    string `mapstructure:"exchange_api_key"`
	CachePath string `mapstructure:"exchange_cache_path"`
}

type Report struct {
	TempDir         string `mapstructure:"report_temp_dir"`
	DownloadSecret  string `mapstructure:"report_download_secret"`
	LinkTTLMinutes  int    `mapstructure:"report_link_ttl_minutes"`
	CleanupInterval int    `mapstructure:"report_cleanup_interval_minutes"`
}

type Scheduler struct {
	RatePrewarmCron    string `mapstructure:"rate_prewarm_cron"`
	RatePrewarmEnabled bool   `mapstructure:"rate_prewarm_enabled"`
	CleanupEnabled     bool   `mapstructure:"report_cleanup_enabled"`
}

// Configured reports whether the Facebook adapter has usable credentials.
func (f Facebook) Configured() bool {
	return f.AccessToken != "" && f.AdAccountID != ""
}

// Configured reports whether the Google adapter has usable credentials.
func (g Google) Configured() bool {
	return g.DeveloperToken != "" && g.RefreshToken != "" && g.LoginCustomer != ""
}

// Configured reports whether the TikTok adapter has usable credentials.
func (t TikTok) Configured() bool {
	return t.AccessToken != "" && t.AdvertiserID != ""
}

// Configured reports whether the marketplace adapter has a sheet to read.
func (m Marketplace) Configured() bool {
	return m.SheetID != ""
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8080)
	viper.SetDefault("EXTERNAL_URL", "")

	viper.SetDefault("LOG_LEVEL", "info")

	viper.SetDefault("FACEBOOK_BASE_URL", "https://graph.facebook.com")
	viper.SetDefault("FACEBOOK_VERSION", "v21.0")

	viper.SetDefault("GOOGLE_ADS_URL", "https://googleads.googleapis.com/v18")

	viper.SetDefault("TIKTOK_API_URL", "https://business-api.tiktok.com/open_api/v1.3")

	viper.SetDefault("MARKETPLACE_SHEET_RANGE", "캠페인!A2:H")

	viper.SetDefault("EXCHANGE_API_URL", "https://www.koreaexim.go.kr/site/program/financial/exchangeJSON")
	viper.SetDefault("EXCHANGE_CACHE_PATH", "exchange-rate-cache.json")

	viper.SetDefault("REPORT_TEMP_DIR", filepath.Join(os.TempDir(), "unified-ads-reports"))
	viper.SetDefault("REPORT_DOWNLOAD_SECRET", "")
	viper.SetDefault("REPORT_LINK_TTL_MINUTES", 30)
	viper.SetDefault("REPORT_CLEANUP_INTERVAL_MINUTES", 10)

	viper.SetDefault("RATE_PREWARM_CRON", "10 11 * * 1-5") // weekdays just after publish
	viper.SetDefault("RATE_PREWARM_ENABLED", true)
	viper.SetDefault("REPORT_CLEANUP_ENABLED", true)
}

func NewConfig() (*Config, error) {
	loadEnvFile()

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("no .env file read by viper, relying on environment: ", err)
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Facebook.URL = fmt.Sprintf("%s/%s", config.Facebook.BaseURL, config.Facebook.Version)

	return config, nil
}

// loadEnvFile loads .env from the working directory or its parents.
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Debug("loaded .env from ", location)
			return
		}
	}
}
