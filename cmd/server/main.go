package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/facebook"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/facebook/fbclient"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/google"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/google/googleclient"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/marketplace"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/marketplace/sheetclient"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/tiktok"
	"github.com/adscope/unified-ads-mcp/infrastructure/integrator/tiktok/tiktokclient"
	"github.com/adscope/unified-ads-mcp/internal/api"
	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/exchange"
	"github.com/adscope/unified-ads-mcp/internal/scheduler"
	"github.com/adscope/unified-ads-mcp/internal/tools"
	"github.com/adscope/unified-ads-mcp/internal/usecases/exporting"
	"github.com/adscope/unified-ads-mcp/internal/usecases/querying"
	"github.com/adscope/unified-ads-mcp/internal/usecases/reporting"
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level %q, using info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rateService := exchange.NewService(exchange.NewClient(cfg), cfg.Exchange.CachePath)

	// Platforms without credentials stay out of the adapter set entirely.
	var adapters []querying.PlatformAdapter
	deps := tools.Dependencies{Cfg: cfg}

	if cfg.Facebook.Configured() {
		tokenManager := fbclient.NewTokenManager(cfg)
		integrator := facebook.New(cfg, fbclient.NewClient(cfg, tokenManager), rateService)
		adapters = append(adapters, integrator)
		deps.Facebook = integrator
		logrus.Info("facebook adapter enabled")
	}

	if cfg.Google.Configured() {
		tokenSource := googleclient.NewTokenSource(ctx, cfg)
		integrator := google.New(cfg, googleclient.NewClient(cfg, tokenSource), rateService)
		adapters = append(adapters, integrator)
		deps.Google = integrator
		logrus.Info("google adapter enabled")
	}

	if cfg.TikTok.Configured() {
		integrator := tiktok.New(cfg, tiktokclient.NewClient(cfg), rateService)
		adapters = append(adapters, integrator)
		deps.TikTok = integrator
		logrus.Info("tiktok adapter enabled")
	}

	if cfg.Marketplace.Configured() {
		adapters = append(adapters, marketplace.New(cfg, sheetclient.NewReader(cfg)))
		logrus.Info("marketplace adapter enabled")
	}

	if len(adapters) == 0 {
		logrus.Warn("no platform credentials configured, queries will return empty reports")
	}

	exporter := exporting.NewService(cfg)

	deps.Querier = querying.NewService(adapters)
	deps.Composer = reporting.NewService()
	deps.Exporter = exporter

	registry := tools.NewToolSet(deps)
	logrus.WithField("tools", len(registry.List())).Info("tool registry built")

	prewarmService := scheduler.NewRatePrewarmService(cfg, rateService)
	if err := prewarmService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start rate prewarm scheduler")
	}

	cleanupService := scheduler.NewReportCleanupService(cfg, exporter)
	if err := cleanupService.Start(ctx); err != nil {
		logrus.WithError(err).Error("failed to start report cleanup scheduler")
	}

	server, err := api.New(cfg, exporter, registry)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}
