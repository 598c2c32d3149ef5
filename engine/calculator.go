/*
calculator.go - Roster aggregation into contract totals

PURPOSE:
  Runs the per-participant computation over the whole roster and folds
  the results into contract-level totals: gross compensation, pension,
  health, and work dues, plus the count of musicians who actually earned
  something.

AGGREGATION RULES:
  - Gross: sum of individual grosses
  - Pension: per participant, gross * pension rate (zero-gross musicians
    contribute nothing, automatic since pension is gross-proportional)
  - Health: flat per participant per session worked, independent of
    gross; accrues even for zero-gross musicians
  - Work dues: total gross * dues rate, computed ONCE on the grand
    total, not per participant
  - ParticipantsWithPay: roster members with strictly positive gross

FAILURE CONTRACT:
  A calculation that cannot run (unknown or unusable schedule, empty
  roster) returns zero Totals together with the typed error. The caller
  decides how to surface it; the persistence layer stores the zeroed
  totals so a failed recalculation never leaves stale numbers behind.

ROUNDING:
  Individual pay stays in full precision. The four money totals are
  rounded to cents here and nowhere else.

SEE ALSO:
  - pay.go: The per-participant computation
  - book.go: Schedule resolution
  - contract/service.go: The caller that persists results
*/
package engine

import "log/slog"

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator prices engagements against an injected schedule book. It is
// stateless between calls and safe for concurrent use.
type Calculator struct {
	book   *ScheduleBook
	logger *slog.Logger
}

func NewCalculator(book *ScheduleBook, logger *slog.Logger) *Calculator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Calculator{book: book, logger: logger}
}

// Calculate prices the engagement and returns contract totals. Same
// inputs always produce the same totals.
func (c *Calculator) Calculate(e Engagement) (Totals, error) {
	_, totals, err := c.Itemize(e)
	return totals, err
}

// Itemize prices the engagement and additionally returns the breakdown
// for every roster member, in roster order.
func (c *Calculator) Itemize(e Engagement) ([]PayBreakdown, Totals, error) {
	s, err := c.book.Lookup(e.Jurisdiction, e.ScaleKey)
	if err != nil {
		return nil, zeroTotals(), err
	}
	if len(e.Roster) == 0 {
		return nil, zeroTotals(), ErrEmptyRoster
	}

	if len(s.PrincipalInstruments) == 0 {
		c.logger.Warn("schedule has no principal instruments configured",
			"jurisdiction", s.Jurisdiction, "scale", s.ScaleKey)
	}
	if !s.Covers(e.Date) {
		c.logger.Warn("engagement date outside schedule effective window",
			"jurisdiction", s.Jurisdiction, "scale", s.ScaleKey,
			"date", e.Date.Format("2006-01-02"))
	}

	var (
		breakdowns = make([]PayBreakdown, 0, len(e.Roster))
		gross      = ZeroAmount()
		pension    = ZeroAmount()
		health     = ZeroAmount()
		withPay    = 0
	)

	for _, p := range e.Roster {
		pay := ComputePay(p, e, s)
		breakdowns = append(breakdowns, pay)

		// Health is session-presence-based, never gross-based.
		health = health.Add(pay.Health)

		if pay.Gross.IsPositive() {
			gross = gross.Add(pay.Gross)
			pension = pension.Add(pay.Gross.Mul(s.PensionRate))
			withPay++
		}
	}

	workDues := gross.Mul(s.WorkDuesRate)

	totals := Totals{
		Gross:               gross.RoundCents(),
		Pension:             pension.RoundCents(),
		Health:              health.RoundCents(),
		WorkDues:            workDues.RoundCents(),
		ParticipantsWithPay: withPay,
	}
	return breakdowns, totals, nil
}

func zeroTotals() Totals {
	return Totals{
		Gross:    ZeroAmount(),
		Pension:  ZeroAmount(),
		Health:   ZeroAmount(),
		WorkDues: ZeroAmount(),
	}
}
