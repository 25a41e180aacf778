// README: Rate configuration store backed by PostgreSQL.
package rates

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// Load assembles a validated Config from the fee_* tables. The scalar knobs
// (escalation rate, holiday multipliers, holiday feed URL) live in the
// fee_settings key/value table.
func (s *Store) Load(ctx context.Context) (*Config, error) {
	cfg := &Config{
		Rates:        make(map[Category]Rate),
		Distance:     make(map[Category]DistanceRate),
		Distribution: make(map[Category]DistributionShare),
		ValueAdded:   make(map[Category]ValueAdded),
		Timeout: TimeoutTable{
			BaseFees:     make(map[Category]map[TimeoutKind]decimal.Decimal),
			DeadlinesMin: make(map[Category]map[TimeoutKind]int),
		},
		Calendar: CalendarRates{
			DateMultipliers: make(map[Category]map[string]decimal.Decimal),
			TimeBands:       make(map[Category][]TimeBand),
		},
	}

	if err := s.loadCategoryRates(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.loadTimeoutFees(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.loadCalendar(ctx, cfg); err != nil {
		return nil, err
	}
	if err := s.loadSettings(ctx, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (s *Store) loadCategoryRates(ctx context.Context, cfg *Config) error {
	rows, err := s.db.Query(ctx, `
		SELECT category,
		       base_rate, service_rate, large_item_multiplier, weight_multiplier,
		       free_km, per_km, max_km,
		       platform_share, delivery_share, merchant_share,
		       insurance_rate, signature_fee, packaging_fee
		FROM fee_rates`)
	if err != nil {
		return fmt.Errorf("query fee_rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat string
		var r Rate
		var d DistanceRate
		var sh DistributionShare
		var va ValueAdded
		if err := rows.Scan(&cat,
			&r.BaseRate, &r.ServiceRate, &r.LargeItemMultiplier, &r.WeightMultiplier,
			&d.FreeKm, &d.PerKm, &d.MaxKm,
			&sh.Platform, &sh.Delivery, &sh.Merchant,
			&va.InsuranceRate, &va.SignatureFee, &va.PackagingFee,
		); err != nil {
			return fmt.Errorf("scan fee_rates: %w", err)
		}
		c := Category(cat)
		cfg.Rates[c] = r
		cfg.Distance[c] = d
		cfg.Distribution[c] = sh
		cfg.ValueAdded[c] = va
	}
	return rows.Err()
}

func (s *Store) loadTimeoutFees(ctx context.Context, cfg *Config) error {
	rows, err := s.db.Query(ctx, `
		SELECT category, kind, base_fee, deadline_minutes
		FROM fee_timeout_rates`)
	if err != nil {
		return fmt.Errorf("query fee_timeout_rates: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cat, kind string
		var fee decimal.Decimal
		var deadline int
		if err := rows.Scan(&cat, &kind, &fee, &deadline); err != nil {
			return fmt.Errorf("scan fee_timeout_rates: %w", err)
		}
		c, k := Category(cat), TimeoutKind(kind)
		if cfg.Timeout.BaseFees[c] == nil {
			cfg.Timeout.BaseFees[c] = make(map[TimeoutKind]decimal.Decimal)
			cfg.Timeout.DeadlinesMin[c] = make(map[TimeoutKind]int)
		}
		cfg.Timeout.BaseFees[c][k] = fee
		cfg.Timeout.DeadlinesMin[c][k] = deadline
	}
	return rows.Err()
}

func (s *Store) loadCalendar(ctx context.Context, cfg *Config) error {
	rows, err := s.db.Query(ctx, `
		SELECT category, month_day, multiplier
		FROM fee_date_multipliers`)
	if err != nil {
		return fmt.Errorf("query fee_date_multipliers: %w", err)
	}
	for rows.Next() {
		var cat, monthDay string
		var mult decimal.Decimal
		if err := rows.Scan(&cat, &monthDay, &mult); err != nil {
			rows.Close()
			return fmt.Errorf("scan fee_date_multipliers: %w", err)
		}
		c := Category(cat)
		if cfg.Calendar.DateMultipliers[c] == nil {
			cfg.Calendar.DateMultipliers[c] = make(map[string]decimal.Decimal)
		}
		cfg.Calendar.DateMultipliers[c][monthDay] = mult
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = s.db.Query(ctx, `
		SELECT category, from_hour, to_hour, multiplier
		FROM fee_time_bands
		ORDER BY category, from_hour`)
	if err != nil {
		return fmt.Errorf("query fee_time_bands: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var cat string
		var band TimeBand
		if err := rows.Scan(&cat, &band.FromHour, &band.ToHour, &band.Multiplier); err != nil {
			return fmt.Errorf("scan fee_time_bands: %w", err)
		}
		c := Category(cat)
		cfg.Calendar.TimeBands[c] = append(cfg.Calendar.TimeBands[c], band)
	}
	return rows.Err()
}

func (s *Store) loadSettings(ctx context.Context, cfg *Config) error {
	rows, err := s.db.Query(ctx, `SELECT key, value FROM fee_settings`)
	if err != nil {
		return fmt.Errorf("query fee_settings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("scan fee_settings: %w", err)
		}
		if err := applySetting(cfg, key, value); err != nil {
			return err
		}
	}
	return rows.Err()
}

func applySetting(cfg *Config, key, value string) error {
	asDecimal := func() (decimal.Decimal, error) {
		d, err := decimal.NewFromString(value)
		if err != nil {
			return decimal.Zero, fmt.Errorf("fee_settings %s: %w", key, err)
		}
		return d, nil
	}

	var err error
	switch key {
	case "timeout.large_item_multiplier":
		cfg.Timeout.LargeItemMultiplier, err = asDecimal()
	case "timeout.weight_multiplier":
		cfg.Timeout.WeightMultiplier, err = asDecimal()
	case "timeout.holiday_multiplier":
		cfg.Timeout.HolidayMultiplier, err = asDecimal()
	case "timeout.hourly_rate":
		cfg.Timeout.HourlyRate, err = asDecimal()
	case "timeout.max_escalation_hours":
		var d decimal.Decimal
		if d, err = asDecimal(); err == nil {
			cfg.Timeout.MaxEscalationHours = int(d.IntPart())
		}
	case "calendar.holiday_multiplier":
		cfg.Calendar.HolidayMultiplier, err = asDecimal()
	case "calendar.holiday_source_url":
		cfg.Calendar.HolidaySourceURL = value
	}
	return err
}
