package exchange

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultUSDRate is the hard-coded last resort when every other source fails.
const DefaultUSDRate = 1350.0

// publishHour is the local hour after which the provider has published
// today's business-day rate.
const publishHour = 11

// Source labels recorded in Info() for the value most recently served.
const (
	SourceAPI     = "api"
	SourceCache   = "cache"
	SourceFile    = "file"
	SourceDefault = "default"
)

// Info describes the most recently served rate and where it came from.
type Info struct {
	Date        string    `json:"date"`
	USDRate     float64   `json:"usdRate"`
	LastUpdated time.Time `json:"lastUpdated"`
	Source      string    `json:"source"`
}

// RateService resolves USD→KRW rates per date. Lookups never fail: the
// fallback chain always produces a value.
type RateService interface {
	RateForDate(ctx context.Context, date string) float64
	BatchRates(ctx context.Context, dates []string) map[string]float64
	RateNow(ctx context.Context) float64
	Info() Info
}

// Service implements RateService over the provider client and the persisted
// last-known record.
type Service struct {
	client Client
	store  *fileStore
	now    func() time.Time

	mu       sync.Mutex
	rates    map[string]float64
	lastInfo Info
}

// NewService builds the rate service; cachePath locates the persisted
// exchange-rate-cache.json record.
func NewService(client Client, cachePath string) *Service {
	return &Service{
		client: client,
		store:  newFileStore(cachePath),
		now:    time.Now,
		rates:  make(map[string]float64),
	}
}

// RateForDate returns the USD→KRW rate for a YYYY-MM-DD date. On remote
// failure it walks the fallback chain (today → yesterday → persisted record
// of any age → default constant) and always returns a usable value.
func (s *Service) RateForDate(ctx context.Context, date string) float64 {
	s.mu.Lock()
	if rate, ok := s.rates[date]; ok {
		s.lastInfo = Info{Date: date, USDRate: rate, LastUpdated: s.now(), Source: SourceCache}
		s.mu.Unlock()
		return rate
	}
	s.mu.Unlock()

	day, err := time.Parse(time.DateOnly, date)
	if err != nil {
		logrus.WithField("date", date).Warn("exchange: malformed date, serving default rate")
		return s.serveDefault(date)
	}

	if rate, ok := s.fetch(ctx, day); ok {
		s.remember(date, rate, SourceAPI)
		return rate
	}

	// Fallback 1: today's rate.
	today := s.now()
	if !sameDay(day, today) {
		logrus.WithField("date", date).Warn("exchange: falling back to today's rate")
		if rate, ok := s.fetch(ctx, today); ok {
			s.remember(date, rate, SourceAPI)
			return rate
		}
	}

	// Fallback 2: yesterday's rate.
	yesterday := today.AddDate(0, 0, -1)
	if !sameDay(day, yesterday) {
		logrus.WithField("date", date).Warn("exchange: falling back to yesterday's rate")
		if rate, ok := s.fetch(ctx, yesterday); ok {
			s.remember(date, rate, SourceAPI)
			return rate
		}
	}

	// Fallback 3: the persisted record, regardless of age.
	if record, err := s.store.Load(); err == nil && record != nil && record.USDRate > 0 {
		logrus.WithFields(logrus.Fields{
			"date":        date,
			"cached_date": record.Date,
		}).Warn("exchange: serving persisted rate of any age")
		s.remember(date, record.USDRate, SourceFile)
		return record.USDRate
	}

	// Fallback 4: hard-coded default.
	logrus.WithField("date", date).Warn("exchange: all sources failed, serving default rate")
	return s.serveDefault(date)
}

// BatchRates resolves the rate for every date in dates. Redundant fetches for
// the same date are coalesced by the in-memory cache.
func (s *Service) BatchRates(ctx context.Context, dates []string) map[string]float64 {
	out := make(map[string]float64, len(dates))
	for _, date := range dates {
		if _, ok := out[date]; ok {
			continue
		}
		out[date] = s.RateForDate(ctx, date)
	}
	return out
}

// RateNow returns the currently applicable rate: today's when past the
// provider's publish hour, otherwise yesterday's.
func (s *Service) RateNow(ctx context.Context) float64 {
	now := s.now()

	// The persisted record short-circuits the remote call while current.
	if record, err := s.store.Load(); err == nil && record != nil && s.recordIsCurrent(record, now) {
		s.remember(record.Date, record.USDRate, SourceFile)
		return record.USDRate
	}

	effective := now
	if now.Hour() < publishHour {
		effective = now.AddDate(0, 0, -1)
	}

	return s.RateForDate(ctx, effective.Format(time.DateOnly))
}

// Info returns metadata about the most recently served rate.
func (s *Service) Info() Info {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastInfo
}

// recordIsCurrent reports whether the persisted record still represents the
// applicable business-day rate.
func (s *Service) recordIsCurrent(record *CacheRecord, now time.Time) bool {
	today := now.Format(time.DateOnly)
	yesterday := now.AddDate(0, 0, -1).Format(time.DateOnly)

	if record.Date == today && now.Hour() >= publishHour {
		return true
	}
	if record.Date == yesterday && now.Hour() < publishHour {
		return true
	}
	return false
}

func (s *Service) fetch(ctx context.Context, day time.Time) (float64, bool) {
	rate, err := s.client.FetchUSDRate(ctx, day)
	if err != nil {
		logrus.WithError(err).WithField("date", day.Format(time.DateOnly)).
			Warn("exchange: remote fetch failed")
		return 0, false
	}
	return rate, true
}

// remember stores the resolved rate in memory, updates Info and persists the
// record. The map is write-once-per-date and idempotent, so concurrent misses
// for the same date are harmless.
func (s *Service) remember(date string, rate float64, source string) {
	now := s.now()

	s.mu.Lock()
	s.rates[date] = rate
	s.lastInfo = Info{Date: date, USDRate: rate, LastUpdated: now, Source: source}
	s.mu.Unlock()

	if source == SourceAPI {
		record := &CacheRecord{Date: date, USDRate: rate, LastUpdated: now, Source: source}
		if err := s.store.Save(record); err != nil {
			logrus.WithError(err).Warn("exchange: persisting rate cache failed")
		}
	}
}

func (s *Service) serveDefault(date string) float64 {
	s.mu.Lock()
	s.lastInfo = Info{Date: date, USDRate: DefaultUSDRate, LastUpdated: s.now(), Source: SourceDefault}
	s.mu.Unlock()
	return DefaultUSDRate
}

func sameDay(a, b time.Time) bool {
	return a.Format(time.DateOnly) == b.Format(time.DateOnly)
}
