/*
Package factory provides JSON to Go rate schedule conversion.

PURPOSE:
  Converts JSON wage scale definitions into engine.RateSchedule values.
  This enables rate configuration without code changes - when a new
  season's rate card is published, operators drop a JSON file into the
  scales directory instead of waiting for a release.

WHY JSON?
  - Contract administrators can enter new rate cards themselves
  - Version control for negotiated rates
  - One file per agreement and season

JSON SCHEMA:
  {
    "jurisdiction": "Local802",
    "scale_key": "ClassicalConcert_23_24",
    "name": "Local 802 - Classical Concert (15+ musicians, 23-24)",
    "effective_start": "2023-09-12",
    "effective_end": "2024-09-11",
    "performance": {
      "base_rate": 333.91,
      "principal_multiplier": 1.20,
      "overtime_unit_minutes": 15,
      "overtime_rate": 50.09,
      "overtime_principal_rate": 60.10,
      "health_contribution": 84.00
    },
    "rehearsal": {
      "base_rate": 167.78,
      "principal_multiplier": 1.20,
      "overtime_unit_minutes": 30,
      "overtime_rate": 50.33,
      "overtime_principal_rate": 60.40,
      "health_contribution": 31.50
    },
    "doubling_first_premium": 0.20,
    "pension_rate": 0.1799,
    "work_dues_rate": 0.035,
    "principal_instruments": ["viola", "cello"],
    "cartage": {
      "string_bass_rate": 49.04,
      "string_bass_instruments": ["string bass"],
      "standard_rate": 29.94,
      "standard_instruments": ["cello", "tuba"]
    }
  }

KEY FEATURES:
  - Validates required fields and date formats
  - Sets sensible defaults: multipliers fall back to 1.0 (no premium),
    overtime units to the published 15/30 minute defaults
  - Round-trips schedules back to JSON for admin tooling

USAGE:
  f := factory.NewScheduleFactory()

  // From a JSON string
  s, err := f.ParseSchedule(jsonString)

  // From a directory of rate cards
  n, err := f.LoadDir("configs/scales", book)

SEE ALSO:
  - engine/schedule.go: RateSchedule definition
  - local802/scales.go: Go-based scale configurations
*/
package factory

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/warp/wage-engine/engine"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// ScheduleJSON is the JSON representation of a rate schedule.
type ScheduleJSON struct {
	Jurisdiction   string `json:"jurisdiction"`
	ScaleKey       string `json:"scale_key"`
	Name           string `json:"name,omitempty"`
	EffectiveStart string `json:"effective_start,omitempty"` // YYYY-MM-DD
	EffectiveEnd   string `json:"effective_end,omitempty"`

	Performance *SessionJSON `json:"performance,omitempty"`
	Rehearsal   *SessionJSON `json:"rehearsal,omitempty"`

	DoublingFirstPremium float64 `json:"doubling_first_premium,omitempty"`
	PensionRate          float64 `json:"pension_rate,omitempty"`
	WorkDuesRate         float64 `json:"work_dues_rate,omitempty"`

	PrincipalInstruments []string     `json:"principal_instruments,omitempty"`
	Cartage              *CartageJSON `json:"cartage,omitempty"`
}

// SessionJSON carries the rates for one session type.
type SessionJSON struct {
	BaseRate              float64  `json:"base_rate"`
	PrincipalMultiplier   *float64 `json:"principal_multiplier,omitempty"`
	OvertimeUnitMinutes   *int     `json:"overtime_unit_minutes,omitempty"`
	OvertimeRate          float64  `json:"overtime_rate,omitempty"`
	OvertimePrincipalRate float64  `json:"overtime_principal_rate,omitempty"`
	HealthContribution    float64  `json:"health_contribution,omitempty"`
}

// CartageJSON carries the flat cartage fees and instrument lists.
type CartageJSON struct {
	StringBassRate        float64  `json:"string_bass_rate,omitempty"`
	StringBassInstruments []string `json:"string_bass_instruments,omitempty"`
	StandardRate          float64  `json:"standard_rate,omitempty"`
	StandardInstruments   []string `json:"standard_instruments,omitempty"`
}

// Published rate cards bill performance overtime in 15-minute units and
// rehearsal overtime in 30-minute units unless stated otherwise.
const (
	defaultPerformanceOvertimeUnitMinutes = 15
	defaultRehearsalOvertimeUnitMinutes   = 30
)

// =============================================================================
// SCHEDULE FACTORY
// =============================================================================

// ScheduleFactory converts JSON rate cards to engine schedules.
type ScheduleFactory struct{}

// NewScheduleFactory creates a new schedule factory.
func NewScheduleFactory() *ScheduleFactory {
	return &ScheduleFactory{}
}

// ParseSchedule parses a JSON string into a RateSchedule.
func (f *ScheduleFactory) ParseSchedule(jsonStr string) (*engine.RateSchedule, error) {
	var sj ScheduleJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return nil, fmt.Errorf("failed to parse schedule JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts ScheduleJSON to an engine.RateSchedule.
func (f *ScheduleFactory) FromJSON(sj ScheduleJSON) (*engine.RateSchedule, error) {
	if sj.Jurisdiction == "" {
		return nil, fmt.Errorf("schedule requires a jurisdiction")
	}
	if sj.ScaleKey == "" {
		return nil, fmt.Errorf("schedule %q requires a scale_key", sj.Jurisdiction)
	}

	start, err := parseDate("effective_start", sj.EffectiveStart)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("effective_end", sj.EffectiveEnd)
	if err != nil {
		return nil, err
	}

	s := &engine.RateSchedule{
		Jurisdiction:   sj.Jurisdiction,
		ScaleKey:       sj.ScaleKey,
		Name:           sj.Name,
		EffectiveStart: start,
		EffectiveEnd:   end,

		DoublingFirstPremiumFraction: decimal.NewFromFloat(sj.DoublingFirstPremium),
		PensionRate:                  decimal.NewFromFloat(sj.PensionRate),
		WorkDuesRate:                 decimal.NewFromFloat(sj.WorkDuesRate),

		PrincipalInstruments: sj.PrincipalInstruments,
	}

	if sj.Performance != nil {
		unit, err := overtimeUnit("performance", sj.Performance.OvertimeUnitMinutes, defaultPerformanceOvertimeUnitMinutes)
		if err != nil {
			return nil, err
		}
		s.PerformanceBaseRate = engine.NewAmount(sj.Performance.BaseRate)
		s.PrincipalPerformanceMultiplier = principalMultiplier(sj.Performance.PrincipalMultiplier)
		s.PerformanceOvertimeUnitMinutes = unit
		s.PerformanceOvertimeRate = engine.NewAmount(sj.Performance.OvertimeRate)
		s.PerformanceOvertimePrincipalRate = engine.NewAmount(sj.Performance.OvertimePrincipalRate)
		s.HealthPerPerformance = engine.NewAmount(sj.Performance.HealthContribution)
	}

	if sj.Rehearsal != nil {
		unit, err := overtimeUnit("rehearsal", sj.Rehearsal.OvertimeUnitMinutes, defaultRehearsalOvertimeUnitMinutes)
		if err != nil {
			return nil, err
		}
		s.RehearsalBaseRate = engine.NewAmount(sj.Rehearsal.BaseRate)
		s.PrincipalRehearsalMultiplier = principalMultiplier(sj.Rehearsal.PrincipalMultiplier)
		s.RehearsalOvertimeUnitMinutes = unit
		s.RehearsalOvertimeRate = engine.NewAmount(sj.Rehearsal.OvertimeRate)
		s.RehearsalOvertimePrincipalRate = engine.NewAmount(sj.Rehearsal.OvertimePrincipalRate)
		s.HealthPerRehearsal = engine.NewAmount(sj.Rehearsal.HealthContribution)
	}

	if sj.Cartage != nil {
		s.CartageStringBassRate = engine.NewAmount(sj.Cartage.StringBassRate)
		s.CartageStringBassInstruments = sj.Cartage.StringBassInstruments
		s.CartageStandardRate = engine.NewAmount(sj.Cartage.StandardRate)
		s.CartageStandardInstruments = sj.Cartage.StandardInstruments
	}

	return s, nil
}

// ToJSON converts a RateSchedule to ScheduleJSON.
func (f *ScheduleFactory) ToJSON(s *engine.RateSchedule) ScheduleJSON {
	sj := ScheduleJSON{
		Jurisdiction:         s.Jurisdiction,
		ScaleKey:             s.ScaleKey,
		Name:                 s.Name,
		DoublingFirstPremium: s.DoublingFirstPremiumFraction.InexactFloat64(),
		PensionRate:          s.PensionRate.InexactFloat64(),
		WorkDuesRate:         s.WorkDuesRate.InexactFloat64(),
		PrincipalInstruments: s.PrincipalInstruments,
	}

	if !s.EffectiveStart.IsZero() {
		sj.EffectiveStart = s.EffectiveStart.Format(time.DateOnly)
	}
	if !s.EffectiveEnd.IsZero() {
		sj.EffectiveEnd = s.EffectiveEnd.Format(time.DateOnly)
	}

	perfMult := s.PrincipalPerformanceMultiplier.InexactFloat64()
	perfUnit := s.PerformanceOvertimeUnitMinutes
	sj.Performance = &SessionJSON{
		BaseRate:              s.PerformanceBaseRate.Float64(),
		PrincipalMultiplier:   &perfMult,
		OvertimeUnitMinutes:   &perfUnit,
		OvertimeRate:          s.PerformanceOvertimeRate.Float64(),
		OvertimePrincipalRate: s.PerformanceOvertimePrincipalRate.Float64(),
		HealthContribution:    s.HealthPerPerformance.Float64(),
	}

	rehMult := s.PrincipalRehearsalMultiplier.InexactFloat64()
	rehUnit := s.RehearsalOvertimeUnitMinutes
	sj.Rehearsal = &SessionJSON{
		BaseRate:              s.RehearsalBaseRate.Float64(),
		PrincipalMultiplier:   &rehMult,
		OvertimeUnitMinutes:   &rehUnit,
		OvertimeRate:          s.RehearsalOvertimeRate.Float64(),
		OvertimePrincipalRate: s.RehearsalOvertimePrincipalRate.Float64(),
		HealthContribution:    s.HealthPerRehearsal.Float64(),
	}

	sj.Cartage = &CartageJSON{
		StringBassRate:        s.CartageStringBassRate.Float64(),
		StringBassInstruments: s.CartageStringBassInstruments,
		StandardRate:          s.CartageStandardRate.Float64(),
		StandardInstruments:   s.CartageStandardInstruments,
	}

	return sj
}

// =============================================================================
// FILE LOADING
// =============================================================================

// LoadFile parses one rate card file into a RateSchedule.
func (f *ScheduleFactory) LoadFile(path string) (*engine.RateSchedule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedule file: %w", err)
	}
	s, err := f.ParseSchedule(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return s, nil
}

// LoadDir parses every .json file in dir and registers the resulting
// schedules with the book. It returns the number registered.
func (f *ScheduleFactory) LoadDir(dir string, book *engine.ScheduleBook) (int, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("failed to list schedule files: %w", err)
	}

	loaded := 0
	for _, path := range paths {
		s, err := f.LoadFile(path)
		if err != nil {
			return loaded, err
		}
		if err := book.Register(*s); err != nil {
			return loaded, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		loaded++
	}
	return loaded, nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q: expected YYYY-MM-DD", field, value)
	}
	return t, nil
}

// principalMultiplier defaults an absent or non-positive multiplier to
// 1.0: no premium rather than no pay.
func principalMultiplier(v *float64) decimal.Decimal {
	if v == nil || *v <= 0 {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromFloat(*v)
}

func overtimeUnit(session string, v *int, fallback int) (int, error) {
	if v == nil {
		return fallback, nil
	}
	if *v < 0 {
		return 0, fmt.Errorf("invalid %s overtime_unit_minutes %d: must not be negative", session, *v)
	}
	return *v, nil
}
