/*
Package engine computes musician compensation under union wage-scale
agreements.

PURPOSE:
  This package contains the types and algorithms for turning one
  engagement (a performance, optionally with a rehearsal) and a roster of
  musicians into scale wages: base pay, overtime, principal and doubling
  premiums, cartage fees, and the statutory contributions (pension,
  health, work dues) computed on top of them.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A dollar quantity backed by decimal arithmetic
  - Participant: One musician on the roster (leader or side musician)
  - Engagement: The hours/flags snapshot a calculation runs against
  - PayBreakdown: One participant's itemized pay
  - Totals: The contract-level result written back by the caller

DESIGN PRINCIPLES:
  1. Purity: the engine performs no I/O and holds no mutable state
  2. Precision: decimal.Decimal throughout; rounding happens once, at
     the contract-total level
  3. One participant abstraction: the leader goes through exactly the
     same calculation as every side musician
  4. Explicit configuration: schedules are injected, never read from
     package-level state

USAGE:
  book := engine.NewScheduleBook()
  book.MustRegister(local802.ClassicalConcert2324())
  calc := engine.NewCalculator(book, nil)
  totals, err := calc.Calculate(engine.Engagement{
      Jurisdiction:     "Local802",
      ScaleKey:         "ClassicalConcert_23_24",
      PerformanceHours: 3.0,
      Roster:           []engine.Participant{{Name: "J. Doe"}},
  })

SEE ALSO:
  - schedule.go: RateSchedule definitions and instrument classification
  - pay.go: Per-participant pay computation
  - calculator.go: Roster aggregation into contract totals
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Dollar quantity with decimal precision
// =============================================================================

type Amount struct {
	Value decimal.Decimal
}

func NewAmount(value float64) Amount {
	return Amount{Value: decimal.NewFromFloat(value)}
}

func NewAmountFromInt(value int) Amount {
	return Amount{Value: decimal.NewFromInt(int64(value))}
}

func MustParseAmount(s string) Amount {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{Value: decimal.Zero}
	}
	return Amount{Value: d}
}

func ZeroAmount() Amount { return Amount{Value: decimal.Zero} }

func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value)} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value)} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s)} }
func (a Amount) MulInt(n int64) Amount        { return Amount{Value: a.Value.Mul(decimal.NewFromInt(n))} }
func (a Amount) Neg() Amount                  { return Amount{Value: a.Value.Neg()} }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }

// RoundCents rounds to two decimal places, half away from zero.
// Applied once, at the contract-total level; everything upstream of it
// stays in full precision.
func (a Amount) RoundCents() Amount { return Amount{Value: a.Value.Round(2)} }

// Float64 is for handing results to storage and DTO layers. The loss of
// exactness is acceptable there because the value has already been
// rounded to cents.
func (a Amount) Float64() float64 {
	f, _ := a.Value.Float64()
	return f
}

func (a Amount) StringFixed() string { return a.Value.StringFixed(2) }

// =============================================================================
// PARTICIPANT - One musician on the roster
// =============================================================================

// Participant is the single abstraction for everyone who gets paid on a
// contract. The leader and each side musician produce one Participant;
// principal status is never stored, it is derived from the instrument
// against the schedule's principal list at calculation time.
type Participant struct {
	Name       string
	Instrument string // free text, matched case-insensitively against schedule lists

	// Doubling marks a musician playing a second instrument during the
	// engagement, which earns a premium on their base+overtime subtotal.
	Doubling bool

	// CartageRequested is the eligibility-to-request flag. The fee itself
	// still depends on the instrument matching a cartage list.
	CartageRequested bool
}

// =============================================================================
// ENGAGEMENT - The snapshot one calculation runs against
// =============================================================================

// Engagement carries everything a calculation needs: which agreement
// applies, the session hours, and the roster (leader first, then side
// musicians in stored order; order never affects totals).
type Engagement struct {
	Jurisdiction string
	ScaleKey     string

	// Date of the engagement. Optional; when set, the calculator warns if
	// it falls outside the schedule's effective window.
	Date time.Time

	PerformanceHours   float64
	RehearsalHours     float64
	RehearsalRequested bool

	Roster []Participant
}

// HasPerformance reports whether a performance session occurred.
func (e Engagement) HasPerformance() bool { return e.PerformanceHours > 0 }

// HasRehearsal reports whether a rehearsal session occurred. Rehearsal
// hours without the flag (or the flag without hours) count as no session.
func (e Engagement) HasRehearsal() bool { return e.RehearsalRequested && e.RehearsalHours > 0 }

// =============================================================================
// PAY BREAKDOWN - One participant's itemized pay
// =============================================================================

// PayBreakdown is the per-participant result. Gross is what the musician
// is owed; Health is the employer contribution that accrues alongside it
// (flat per session worked, independent of gross: a musician whose gross
// comes to zero still accrues health for sessions they sat in).
type PayBreakdown struct {
	PerformancePay Amount // session base, principal multiplier applied
	RehearsalPay   Amount
	OvertimePay    Amount // performance and rehearsal overtime combined
	DoublingPay    Amount
	CartagePay     Amount
	Gross          Amount
	Health         Amount
}

// =============================================================================
// TOTALS - Contract-level result
// =============================================================================

// Totals is recomputed from scratch on every calculation; the four money
// fields are the only values rounded to cents. A failed calculation
// produces zero Totals, never stale ones.
type Totals struct {
	Gross    Amount
	Pension  Amount
	Health   Amount
	WorkDues Amount

	// ParticipantsWithPay counts roster members whose individual gross
	// came out strictly positive.
	ParticipantsWithPay int
}
