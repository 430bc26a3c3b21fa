// Package scheduler runs the maintenance jobs: exchange-rate prewarming
// after the provider's publish hour and cleanup of expired report files.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/exchange"
)

// RatePrewarmService fetches today's USD rate on a cron schedule so the
// first query of the day never waits on the provider.
type RatePrewarmService struct {
	scheduler *gocron.Scheduler
	appConfig *config.Config
	rates     exchange.RateService

	runMutex      sync.Mutex
	running       bool
	lastStartedAt time.Time
}

func NewRatePrewarmService(appConfig *config.Config, rates exchange.RateService) *RatePrewarmService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": appConfig.Scheduler.RatePrewarmCron,
		"enabled":       appConfig.Scheduler.RatePrewarmEnabled,
	}).Info("rate prewarm scheduler configured")

	return &RatePrewarmService{
		scheduler: gocron.NewScheduler(time.Local),
		appConfig: appConfig,
		rates:     rates,
	}
}

func (s *RatePrewarmService) Start(ctx context.Context) error {
	if !s.appConfig.Scheduler.RatePrewarmEnabled {
		logrus.Info("rate prewarm disabled by configuration")
		return nil
	}

	_, err := s.scheduler.Cron(s.appConfig.Scheduler.RatePrewarmCron).Do(func() {
		s.prewarm(ctx)
	})
	if err != nil {
		return fmt.Errorf("scheduling rate prewarm: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping rate prewarm scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *RatePrewarmService) prewarm(ctx context.Context) {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		logrus.Info("rate prewarm already running, skipping")
		return
	}
	s.running = true
	s.lastStartedAt = time.Now()
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.running = false
		s.runMutex.Unlock()
	}()

	rate := s.rates.RateNow(ctx)
	info := s.rates.Info()

	logrus.WithFields(logrus.Fields{
		"usd_rate": rate,
		"source":   info.Source,
		"date":     info.Date,
	}).Info("exchange rate prewarmed")
}
