/*
scales.go - Pre-built Local 802 wage scale configurations

PURPOSE:
  Provides ready-to-use rate schedules for AFM Local 802 (New York City)
  single-engagement agreements. Each function returns a fully populated
  engine.RateSchedule carrying the published rates for one agreement and
  season.

AVAILABLE SCALES:
  ClassicalConcert2324: Single classical concert, 15+ musicians, the
                        2023-09-12 through 2024-09-11 season

RATE PROVENANCE:
  Figures come from the published Local 802 single-engagement classical
  rate card: base scale per performance, overtime billed in 15-minute
  units past the 2.5-hour call, a 20% premium for principal chairs and
  for the first double, pension at 17.99%, flat health contributions per
  session, and work dues at 3.5%.

CUSTOMIZATION:
  These are season snapshots. New seasons arrive as JSON files loaded
  through factory.LoadFile rather than new code; this package only
  carries the scales the ledger ships with out of the box.

EXAMPLE:
  book := engine.NewScheduleBook()
  if err := local802.RegisterBuiltin(book); err != nil {
      log.Fatal(err)
  }
  s, err := book.Lookup(local802.Jurisdiction, local802.KeyClassicalConcert2324)

SEE ALSO:
  - engine/schedule.go: RateSchedule definition and classification rules
  - factory/schedule.go: JSON-based schedule loading
*/
package local802

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/warp/wage-engine/engine"
)

// Jurisdiction is the registry key for every scale in this package.
const Jurisdiction = "Local802"

// KeyClassicalConcert2324 identifies the 2023-24 classical concert scale.
const KeyClassicalConcert2324 = "ClassicalConcert_23_24"

// =============================================================================
// CLASSICAL CONCERT, 15+ MUSICIANS, 2023-24 SEASON
// =============================================================================

// ClassicalConcert2324 returns the single-engagement classical concert
// scale for orchestras of fifteen or more musicians, effective
// 2023-09-12 through 2024-09-11.
func ClassicalConcert2324() engine.RateSchedule {
	return engine.RateSchedule{
		Jurisdiction: Jurisdiction,
		ScaleKey:     KeyClassicalConcert2324,
		Name:         "Local 802 - Classical Concert (15+ musicians, 23-24)",

		EffectiveStart: time.Date(2023, time.September, 12, 0, 0, 0, 0, time.UTC),
		EffectiveEnd:   time.Date(2024, time.September, 11, 0, 0, 0, 0, time.UTC),

		PerformanceBaseRate: engine.MustParseAmount("333.91"),
		RehearsalBaseRate:   engine.MustParseAmount("167.78"),

		// Principal chairs earn base scale plus 20%.
		PrincipalPerformanceMultiplier: decimal.NewFromFloat(1.20),
		PrincipalRehearsalMultiplier:   decimal.NewFromFloat(1.20),

		PerformanceOvertimeUnitMinutes:   15,
		RehearsalOvertimeUnitMinutes:     30,
		PerformanceOvertimeRate:          engine.MustParseAmount("50.09"),
		PerformanceOvertimePrincipalRate: engine.MustParseAmount("60.10"),
		RehearsalOvertimeRate:            engine.MustParseAmount("50.33"),
		RehearsalOvertimePrincipalRate:   engine.MustParseAmount("60.40"),

		DoublingFirstPremiumFraction: decimal.NewFromFloat(0.20),

		PensionRate:          decimal.NewFromFloat(0.1799),
		WorkDuesRate:         decimal.NewFromFloat(0.035),
		HealthPerPerformance: engine.MustParseAmount("84.00"),
		HealthPerRehearsal:   engine.MustParseAmount("31.50"),

		// First-chair strings sit outside this list: the concertmaster
		// premium is negotiated separately and is not part of scale.
		PrincipalInstruments: []string{
			"second violin", "viola", "cello", "bass",
			"flute", "oboe", "clarinet", "bassoon",
			"french horn", "trumpet", "trombone", "tuba",
			"timpani", "percussion", "harp", "keyboard",
		},

		CartageStringBassInstruments: []string{"string bass"},
		CartageStringBassRate:        engine.MustParseAmount("49.04"),
		CartageStandardInstruments: []string{
			"cello", "bass clarinet", "contrabass clarinet",
			"contrabassoon", "tuba",
		},
		CartageStandardRate: engine.MustParseAmount("29.94"),
	}
}

// =============================================================================
// REGISTRATION
// =============================================================================

// RegisterBuiltin registers every scale this package ships with.
func RegisterBuiltin(book *engine.ScheduleBook) error {
	for _, s := range []engine.RateSchedule{
		ClassicalConcert2324(),
	} {
		if err := book.Register(s); err != nil {
			return err
		}
	}
	return nil
}
