package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"

	"github.com/adscope/unified-ads-mcp/internal/config"
	"github.com/adscope/unified-ads-mcp/internal/usecases/exporting"
)

// ReportCleanupService removes expired report files from the temp
// directory on a fixed interval.
type ReportCleanupService struct {
	scheduler *gocron.Scheduler
	appConfig *config.Config
	exporter  exporting.Exporter

	runMutex sync.Mutex
	running  bool
}

func NewReportCleanupService(appConfig *config.Config, exporter exporting.Exporter) *ReportCleanupService {
	logrus.WithFields(logrus.Fields{
		"interval_minutes": appConfig.Report.CleanupInterval,
		"enabled":          appConfig.Scheduler.CleanupEnabled,
	}).Info("report cleanup scheduler configured")

	return &ReportCleanupService{
		scheduler: gocron.NewScheduler(time.Local),
		appConfig: appConfig,
		exporter:  exporter,
	}
}

func (s *ReportCleanupService) Start(ctx context.Context) error {
	if !s.appConfig.Scheduler.CleanupEnabled {
		logrus.Info("report cleanup disabled by configuration")
		return nil
	}

	interval := s.appConfig.Report.CleanupInterval
	if interval <= 0 {
		interval = 10
	}

	_, err := s.scheduler.Every(interval).Minutes().Do(func() {
		s.cleanup()
	})
	if err != nil {
		return fmt.Errorf("scheduling report cleanup: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("stopping report cleanup scheduler")
		s.scheduler.Stop()
	}()

	return nil
}

func (s *ReportCleanupService) cleanup() {
	s.runMutex.Lock()
	if s.running {
		s.runMutex.Unlock()
		return
	}
	s.running = true
	s.runMutex.Unlock()

	defer func() {
		s.runMutex.Lock()
		s.running = false
		s.runMutex.Unlock()
	}()

	if err := s.exporter.CleanupExpired(); err != nil {
		logrus.WithError(err).Warn("report cleanup failed")
	}
}
