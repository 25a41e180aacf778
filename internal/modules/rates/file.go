// README: YAML rate-table loader for local runs and tests.
package rates

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

type fileRate struct {
	BaseRate            float64 `yaml:"baseRate"`
	ServiceRate         float64 `yaml:"serviceRate"`
	LargeItemMultiplier float64 `yaml:"largeItemMultiplier"`
	WeightMultiplier    float64 `yaml:"weightMultiplier"`
}

type fileDistance struct {
	FreeKm float64 `yaml:"freeKm"`
	PerKm  float64 `yaml:"perKm"`
	MaxKm  float64 `yaml:"maxKm"`
}

type fileTimeout struct {
	BaseFees            map[string]map[string]float64 `yaml:"baseFees"`
	DeadlinesMin        map[string]map[string]int     `yaml:"deadlinesMin"`
	LargeItemMultiplier float64                       `yaml:"largeItemMultiplier"`
	WeightMultiplier    float64                       `yaml:"weightMultiplier"`
	HolidayMultiplier   float64                       `yaml:"holidayMultiplier"`
	MaxEscalationHours  int                           `yaml:"maxEscalationHours"`
	HourlyRate          float64                       `yaml:"hourlyRate"`
}

type fileShare struct {
	Platform float64 `yaml:"platform"`
	Delivery float64 `yaml:"delivery"`
	Merchant float64 `yaml:"merchant"`
}

type fileValueAdded struct {
	InsuranceRate float64 `yaml:"insuranceRate"`
	SignatureFee  float64 `yaml:"signatureFee"`
	PackagingFee  float64 `yaml:"packagingFee"`
}

type fileTimeBand struct {
	FromHour   int     `yaml:"fromHour"`
	ToHour     int     `yaml:"toHour"`
	Multiplier float64 `yaml:"multiplier"`
}

type fileCalendar struct {
	HolidaySourceURL  string                        `yaml:"holidaySourceUrl"`
	HolidayMultiplier float64                       `yaml:"holidayMultiplier"`
	DateMultipliers   map[string]map[string]float64 `yaml:"dateMultipliers"`
	TimeBands         map[string][]fileTimeBand     `yaml:"timeBands"`
}

type fileConfig struct {
	Rates        map[string]fileRate       `yaml:"rates"`
	Distance     map[string]fileDistance   `yaml:"distance"`
	Timeout      fileTimeout               `yaml:"timeout"`
	Distribution map[string]fileShare      `yaml:"distribution"`
	ValueAdded   map[string]fileValueAdded `yaml:"valueAdded"`
	Calendar     fileCalendar              `yaml:"calendar"`
}

// LoadFile reads, parses and validates a rate configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rates file: %w", err)
	}
	return Parse(data)
}

// Parse builds a validated Config from raw YAML.
func Parse(data []byte) (*Config, error) {
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse rates file: %w", err)
	}

	cfg := &Config{
		Rates:        make(map[Category]Rate, len(fc.Rates)),
		Distance:     make(map[Category]DistanceRate, len(fc.Distance)),
		Distribution: make(map[Category]DistributionShare, len(fc.Distribution)),
		ValueAdded:   make(map[Category]ValueAdded, len(fc.ValueAdded)),
	}
	for cat, r := range fc.Rates {
		cfg.Rates[Category(cat)] = Rate{
			BaseRate:            decimal.NewFromFloat(r.BaseRate),
			ServiceRate:         decimal.NewFromFloat(r.ServiceRate),
			LargeItemMultiplier: decimal.NewFromFloat(r.LargeItemMultiplier),
			WeightMultiplier:    decimal.NewFromFloat(r.WeightMultiplier),
		}
	}
	for cat, d := range fc.Distance {
		cfg.Distance[Category(cat)] = DistanceRate{
			FreeKm: decimal.NewFromFloat(d.FreeKm),
			PerKm:  decimal.NewFromFloat(d.PerKm),
			MaxKm:  decimal.NewFromFloat(d.MaxKm),
		}
	}
	for cat, s := range fc.Distribution {
		cfg.Distribution[Category(cat)] = DistributionShare{
			Platform: decimal.NewFromFloat(s.Platform),
			Delivery: decimal.NewFromFloat(s.Delivery),
			Merchant: decimal.NewFromFloat(s.Merchant),
		}
	}
	for cat, v := range fc.ValueAdded {
		cfg.ValueAdded[Category(cat)] = ValueAdded{
			InsuranceRate: decimal.NewFromFloat(v.InsuranceRate),
			SignatureFee:  decimal.NewFromFloat(v.SignatureFee),
			PackagingFee:  decimal.NewFromFloat(v.PackagingFee),
		}
	}

	cfg.Timeout = TimeoutTable{
		BaseFees:            make(map[Category]map[TimeoutKind]decimal.Decimal),
		DeadlinesMin:        make(map[Category]map[TimeoutKind]int),
		LargeItemMultiplier: decimal.NewFromFloat(fc.Timeout.LargeItemMultiplier),
		WeightMultiplier:    decimal.NewFromFloat(fc.Timeout.WeightMultiplier),
		HolidayMultiplier:   decimal.NewFromFloat(fc.Timeout.HolidayMultiplier),
		MaxEscalationHours:  fc.Timeout.MaxEscalationHours,
		HourlyRate:          decimal.NewFromFloat(fc.Timeout.HourlyRate),
	}
	for cat, fees := range fc.Timeout.BaseFees {
		m := make(map[TimeoutKind]decimal.Decimal, len(fees))
		for kind, fee := range fees {
			m[TimeoutKind(kind)] = decimal.NewFromFloat(fee)
		}
		cfg.Timeout.BaseFees[Category(cat)] = m
	}
	for cat, mins := range fc.Timeout.DeadlinesMin {
		m := make(map[TimeoutKind]int, len(mins))
		for kind, mn := range mins {
			m[TimeoutKind(kind)] = mn
		}
		cfg.Timeout.DeadlinesMin[Category(cat)] = m
	}

	cfg.Calendar = CalendarRates{
		HolidaySourceURL:  fc.Calendar.HolidaySourceURL,
		HolidayMultiplier: decimal.NewFromFloat(fc.Calendar.HolidayMultiplier),
		DateMultipliers:   make(map[Category]map[string]decimal.Decimal),
		TimeBands:         make(map[Category][]TimeBand),
	}
	for cat, dates := range fc.Calendar.DateMultipliers {
		m := make(map[string]decimal.Decimal, len(dates))
		for d, mult := range dates {
			m[d] = decimal.NewFromFloat(mult)
		}
		cfg.Calendar.DateMultipliers[Category(cat)] = m
	}
	for cat, bands := range fc.Calendar.TimeBands {
		bs := make([]TimeBand, 0, len(bands))
		for _, b := range bands {
			bs = append(bs, TimeBand{
				FromHour:   b.FromHour,
				ToHour:     b.ToHour,
				Multiplier: decimal.NewFromFloat(b.Multiplier),
			})
		}
		cfg.Calendar.TimeBands[Category(cat)] = bs
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
