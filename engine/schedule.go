/*
schedule.go - Wage scale agreements and instrument classification

PURPOSE:
  A RateSchedule is one union wage-scale agreement flattened into the
  numbers the calculator needs: base rates, overtime unit sizes and
  per-unit rates, premium multipliers and fractions, benefit rates, and
  the instrument lists that drive principal and cartage classification.

KEY CONCEPTS:
  - RateSchedule: immutable once registered; identified by
    (jurisdiction, scale key)
  - Principal classification: substring, case-insensitive match of the
    musician's instrument against the schedule's principal list
  - Cartage tiers: two flat fees; the string-bass list is checked first
    and wins when an instrument somehow matches both lists
  - Effective window: metadata only; lookups outside the window still
    succeed, the calculator logs the mismatch

MATCHING RULES:
  "Principal Second Violin" matches the entry "second violin".
  Matching is deliberately loose: rosters are typed free-text, and the
  agreement lists name chairs, not exact spellings.

EXAMPLE:
  s := local802.ClassicalConcert2324()
  s.IsPrincipal("Principal Viola")          // true
  s.CartageFee("String Bass", true)         // 49.04
  s.CartageFee("String Bass", false)        // 0, fee must be requested

SEE ALSO:
  - book.go: Registration and lookup
  - pay.go: How these rates turn into pay
  - factory/schedule.go: Loading schedules from JSON files
*/
package engine

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// RATE SCHEDULE - One wage-scale agreement
// =============================================================================

type RateSchedule struct {
	Jurisdiction string
	ScaleKey     string

	// Display metadata from the published agreement.
	Name           string
	EffectiveStart time.Time
	EffectiveEnd   time.Time

	// Session base pay. The performance base must be positive for the
	// schedule to be usable; everything else defaults to zero.
	PerformanceBaseRate Amount
	RehearsalBaseRate   Amount

	// Principal chairs earn a multiplied base (e.g. 1.20), never an
	// additive premium. A non-positive multiplier means "no premium
	// configured" and leaves base pay unchanged.
	PrincipalPerformanceMultiplier decimal.Decimal
	PrincipalRehearsalMultiplier   decimal.Decimal

	// Overtime granularity and per-unit rates. Partial units round up.
	PerformanceOvertimeUnitMinutes   int
	RehearsalOvertimeUnitMinutes     int
	PerformanceOvertimeRate          Amount
	PerformanceOvertimePrincipalRate Amount
	RehearsalOvertimeRate            Amount
	RehearsalOvertimePrincipalRate   Amount

	// Fraction of the base+overtime subtotal paid for doubling.
	DoublingFirstPremiumFraction decimal.Decimal

	// Benefit rates. Pension and work dues are fractions of gross;
	// health is a flat amount per participant per session worked.
	PensionRate          decimal.Decimal
	WorkDuesRate         decimal.Decimal
	HealthPerPerformance Amount
	HealthPerRehearsal   Amount

	// Instrument lists, matched as lowercase substrings.
	PrincipalInstruments         []string
	CartageStringBassInstruments []string
	CartageStandardInstruments   []string

	CartageStringBassRate Amount
	CartageStandardRate   Amount
}

// Usable reports whether the schedule can price an engagement. A
// schedule without a positive performance base rate is configuration
// damage and must fail loudly rather than produce zero-pay contracts.
func (s *RateSchedule) Usable() error {
	if !s.PerformanceBaseRate.IsPositive() {
		return &ScheduleInvalidError{
			Jurisdiction: s.Jurisdiction,
			ScaleKey:     s.ScaleKey,
			Reason:       "performance base rate is not positive",
		}
	}
	return nil
}

// Covers reports whether a date falls inside the agreement's effective
// window. Missing bounds are treated as open-ended.
func (s *RateSchedule) Covers(date time.Time) bool {
	if date.IsZero() {
		return true
	}
	if !s.EffectiveStart.IsZero() && date.Before(s.EffectiveStart) {
		return false
	}
	if !s.EffectiveEnd.IsZero() && date.After(s.EffectiveEnd) {
		return false
	}
	return true
}

// =============================================================================
// CLASSIFICATION - Instrument string against schedule lists
// =============================================================================

// IsPrincipal classifies an instrument against the principal list.
// Empty instrument or empty list classifies as non-principal; an empty
// list is a likely misconfiguration the calculator logs, not an error.
func (s *RateSchedule) IsPrincipal(instrument string) bool {
	if instrument == "" || len(s.PrincipalInstruments) == 0 {
		return false
	}
	return matchesAny(instrument, s.PrincipalInstruments)
}

// CartageFee resolves the flat cartage fee for an instrument. The fee
// must be requested on the contract; the string-bass list is checked
// before the standard list so a double match resolves to the higher
// string-bass rate.
func (s *RateSchedule) CartageFee(instrument string, requested bool) Amount {
	if !requested || instrument == "" {
		return ZeroAmount()
	}
	if matchesAny(instrument, s.CartageStringBassInstruments) {
		return s.CartageStringBassRate
	}
	if matchesAny(instrument, s.CartageStandardInstruments) {
		return s.CartageStandardRate
	}
	return ZeroAmount()
}

// matchesAny reports whether any list entry occurs, case-insensitively,
// inside the instrument string.
func matchesAny(instrument string, list []string) bool {
	inst := strings.ToLower(instrument)
	for _, entry := range list {
		if entry == "" {
			continue
		}
		if strings.Contains(inst, strings.ToLower(entry)) {
			return true
		}
	}
	return false
}
