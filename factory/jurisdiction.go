/*
Package factory provides JSON to Go rule-registry conversion.

PURPOSE:
  Converts a jurisdiction's JSON threshold definition into a
  rules.Thresholds value and a built engine.Registry. Regulatory values
  change per jurisdiction and over time; compliance officers edit a JSON
  file, and the factory produces the correctly parameterized catalog.
  No regulatory value is hard-coded in the engine.

JSON SCHEMA:
  {
    "jurisdiction": "default",
    "bands": {
      "12-13": {
        "daily_hours": "4",
        "daily_hours_school_day": "2",
        "weekly_hours": "24",
        "weekly_hours_school_week": "12",
        "earliest_start": "07:00",
        "latest_end": "19:00",
        "latest_end_school_night": "19:00"
      },
      ...
    },
    "school_hours_start": "08:00",
    "school_hours_end": "15:30",
    "meal_break_after_hours": "5",
    "machinery_min_age": 16,
    "solo_cash_min_age": 16
  }

KEY FEATURES:
  - Validates structure and clock/decimal formats
  - Falls back to rules.DefaultThresholds for omitted bands
  - Hour values are decimal strings, never floats

USAGE:
  th, err := factory.ParseThresholds(jsonBytes)
  registry := rules.BuildRegistry(th)

SEE ALSO:
  - rules/thresholds.go: The parameter set being populated
  - rules/catalog.go: Registry assembly
*/
package factory

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/shiftguard/compliance-engine/engine"
	"github.com/shiftguard/compliance-engine/rules"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ThresholdsJSON is the JSON representation of a jurisdiction.
type ThresholdsJSON struct {
	Jurisdiction        string                   `json:"jurisdiction"`
	Bands               map[string]BandJSON      `json:"bands"`
	SchoolHoursStart    string                   `json:"school_hours_start"`
	SchoolHoursEnd      string                   `json:"school_hours_end"`
	MealBreakAfterHours string                   `json:"meal_break_after_hours"`
	MachineryMinAge     int                      `json:"machinery_min_age"`
	SoloCashMinAge      int                      `json:"solo_cash_min_age"`
}

// BandJSON holds one age band's limits as strings.
type BandJSON struct {
	DailyHours           string `json:"daily_hours"`
	DailyHoursSchoolDay  string `json:"daily_hours_school_day"`
	WeeklyHours          string `json:"weekly_hours"`
	WeeklyHoursSchoolWk  string `json:"weekly_hours_school_week"`
	EarliestStart        string `json:"earliest_start"`
	LatestEnd            string `json:"latest_end"`
	LatestEndSchoolNight string `json:"latest_end_school_night"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseThresholds converts a jurisdiction JSON document into a complete
// Thresholds value. Omitted fields keep their DefaultThresholds values.
func ParseThresholds(data []byte) (rules.Thresholds, error) {
	var doc ThresholdsJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return rules.Thresholds{}, fmt.Errorf("invalid jurisdiction config: %w", err)
	}

	th := rules.DefaultThresholds()

	for bandName, bandDoc := range doc.Bands {
		band := engine.AgeBand(bandName)
		base, ok := th.Limits[band]
		if !ok {
			return rules.Thresholds{}, fmt.Errorf("unknown age band %q", bandName)
		}
		limits, err := parseBand(bandDoc, base)
		if err != nil {
			return rules.Thresholds{}, fmt.Errorf("band %q: %w", bandName, err)
		}
		th.Limits[band] = limits
	}

	var err error
	if th.SchoolHoursStart, err = clockOr(doc.SchoolHoursStart, th.SchoolHoursStart); err != nil {
		return rules.Thresholds{}, err
	}
	if th.SchoolHoursEnd, err = clockOr(doc.SchoolHoursEnd, th.SchoolHoursEnd); err != nil {
		return rules.Thresholds{}, err
	}
	if th.MealBreakAfterHours, err = decimalOr(doc.MealBreakAfterHours, th.MealBreakAfterHours); err != nil {
		return rules.Thresholds{}, err
	}
	if doc.MachineryMinAge > 0 {
		th.MachineryMinAge = doc.MachineryMinAge
	}
	if doc.SoloCashMinAge > 0 {
		th.SoloCashMinAge = doc.SoloCashMinAge
	}

	return th, nil
}

// LoadThresholds reads a jurisdiction file and parses it. An empty path
// returns the defaults.
func LoadThresholds(path string) (rules.Thresholds, error) {
	if path == "" {
		return rules.DefaultThresholds(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return rules.Thresholds{}, fmt.Errorf("failed to read jurisdiction file: %w", err)
	}
	return ParseThresholds(data)
}

// BuildRegistry is the one-call path from a jurisdiction file to a
// ready registry.
func BuildRegistry(path string) (*engine.Registry, error) {
	th, err := LoadThresholds(path)
	if err != nil {
		return nil, err
	}
	return rules.BuildRegistry(th), nil
}

func parseBand(doc BandJSON, base rules.BandLimits) (rules.BandLimits, error) {
	var err error
	if base.DailyHours, err = decimalOr(doc.DailyHours, base.DailyHours); err != nil {
		return base, err
	}
	if base.DailyHoursSchoolDay, err = decimalOr(doc.DailyHoursSchoolDay, base.DailyHoursSchoolDay); err != nil {
		return base, err
	}
	if base.WeeklyHours, err = decimalOr(doc.WeeklyHours, base.WeeklyHours); err != nil {
		return base, err
	}
	if base.WeeklyHoursSchoolWk, err = decimalOr(doc.WeeklyHoursSchoolWk, base.WeeklyHoursSchoolWk); err != nil {
		return base, err
	}
	if base.EarliestStart, err = clockOr(doc.EarliestStart, base.EarliestStart); err != nil {
		return base, err
	}
	if base.LatestEnd, err = clockOr(doc.LatestEnd, base.LatestEnd); err != nil {
		return base, err
	}
	if base.LatestEndSchoolNight, err = clockOr(doc.LatestEndSchoolNight, base.LatestEndSchoolNight); err != nil {
		return base, err
	}
	return base, nil
}

func decimalOr(s string, fallback decimal.Decimal) (decimal.Decimal, error) {
	if s == "" {
		return fallback, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid hours value %q: %w", s, err)
	}
	return d, nil
}

func clockOr(s string, fallback engine.TimeOfDay) (engine.TimeOfDay, error) {
	if s == "" {
		return fallback, nil
	}
	return engine.ParseTimeOfDay(s)
}
