// README: Holiday and time-of-day rate multiplier service.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"campusgo/internal/modules/rates"
)

// Service answers the three calendar questions the fee engine asks: is a
// date a holiday, what multiplier applies to a date, and what multiplier
// applies to an hour of day. Multiplier tables come from the rate
// configuration; the holiday set comes from an external feed.
type Service struct {
	cfg    rates.CalendarRates
	client *http.Client
	logger *zap.Logger

	mu       sync.RWMutex
	holidays map[string]struct{} // "2006-01-02"
}

func NewService(cfg rates.CalendarRates, logger *zap.Logger) *Service {
	return &Service{
		cfg:      cfg,
		client:   &http.Client{Timeout: 5 * time.Second},
		logger:   logger,
		holidays: make(map[string]struct{}),
	}
}

// LoadHolidays fetches the holiday feed (a JSON array of "2006-01-02"
// dates) from the configured source URL. A fetch failure leaves the
// holiday set empty and the engine degrades to non-holiday rates; only
// rate-table validation is allowed to abort startup.
func (s *Service) LoadHolidays(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.HolidaySourceURL, nil)
	if err != nil {
		return fmt.Errorf("holiday feed request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		s.logger.Warn("holiday feed unreachable, running with empty holiday set",
			zap.String("url", s.cfg.HolidaySourceURL), zap.Error(err))
		return nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		s.logger.Warn("holiday feed returned non-200, running with empty holiday set",
			zap.String("url", s.cfg.HolidaySourceURL), zap.Int("status", resp.StatusCode))
		return nil
	}

	var dates []string
	if err := json.NewDecoder(resp.Body).Decode(&dates); err != nil {
		return fmt.Errorf("decode holiday feed: %w", err)
	}

	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		if _, err := time.Parse("2006-01-02", d); err != nil {
			s.logger.Warn("skipping malformed holiday date", zap.String("date", d))
			continue
		}
		set[d] = struct{}{}
	}

	s.mu.Lock()
	s.holidays = set
	s.mu.Unlock()
	s.logger.Info("holiday set loaded", zap.Int("count", len(set)))
	return nil
}

// SetHolidays replaces the holiday set directly. Used by tests and by
// deployments that source holidays from configuration instead of the feed.
func (s *Service) SetHolidays(dates []string) {
	set := make(map[string]struct{}, len(dates))
	for _, d := range dates {
		set[d] = struct{}{}
	}
	s.mu.Lock()
	s.holidays = set
	s.mu.Unlock()
}

func (s *Service) IsHoliday(t time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.holidays[t.Format("2006-01-02")]
	return ok
}

// DateRateMultiplier returns the multiplier for an order's creation date.
// An explicit per-date entry wins over the generic holiday multiplier;
// ordinary days pay 1.0.
func (s *Service) DateRateMultiplier(t time.Time, cat rates.Category) decimal.Decimal {
	if m, ok := s.cfg.DateMultipliers[cat][t.Format("01-02")]; ok {
		return m
	}
	if s.IsHoliday(t) {
		return s.cfg.HolidayMultiplier
	}
	return decimal.NewFromInt(1)
}

// TimeRangeMultiplier returns the multiplier for an hour of day, 1.0 when
// no configured band covers it. Bands are half-open [from, to).
func (s *Service) TimeRangeMultiplier(hour int, cat rates.Category) decimal.Decimal {
	for _, band := range s.cfg.TimeBands[cat] {
		if hour >= band.FromHour && hour < band.ToHour {
			return band.Multiplier
		}
	}
	return decimal.NewFromInt(1)
}
