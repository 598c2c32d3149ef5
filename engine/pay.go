/*
pay.go - Per-participant pay computation

PURPOSE:
  Computes one musician's itemized pay for one engagement. This is the
  heart of the engine: every roster member, the leader included, goes
  through exactly this function with the same schedule.

PAY STRUCTURE:
  Performance and rehearsal sessions are symmetric: each has a base
  rate, a principal multiplier, an overtime unit size, and a pair of
  per-unit overtime rates. On top of the session subtotal come the
  doubling premium (a fraction of base+overtime) and a flat cartage fee.

OVERTIME:
  A session call covers the first 2.5 hours. Time beyond that is billed
  in fixed units (15 minutes for performances, 30 for rehearsals under
  the Local 802 classical agreement), and partial units always round UP:
  one minute into a new unit owes the whole unit.

  units = ceil((hours - 2.5) * 60 / unitMinutes)

DOUBLING GATE:
  The doubling premium applies only when the base+overtime subtotal is
  strictly positive. A musician flagged as doubling on a contract with
  no sessions earns no premium.

HEALTH:
  The flat health contribution accrues per session worked, regardless
  of gross. A musician with zero gross who sat in a performance still
  accrues the per-performance amount. Intentional asymmetry in the
  agreement, not a bug.

EXAMPLE:
  3.0 performance hours, 15-minute units, base 333.91, OT rate 50.09:
    units = ceil((3.0-2.5)*60/15) = 2
    gross = 333.91 + 2*50.09 = 434.09

SEE ALSO:
  - schedule.go: Classification the computation relies on
  - calculator.go: Roster aggregation
*/
package engine

import "github.com/shopspring/decimal"

// The session call length is fixed across the agreement family; only
// unit sizes and rates vary per schedule.
var (
	overtimeThresholdHours = decimal.NewFromFloat(2.5)
	minutesPerHour         = decimal.NewFromInt(60)
)

// =============================================================================
// OVERTIME UNITS
// =============================================================================

// OvertimeUnits converts session hours into billable overtime units.
// Hours at or under the 2.5-hour call yield zero; past it, partial
// units round up. A non-positive unit size disables overtime.
func OvertimeUnits(hours float64, unitMinutes int) int64 {
	if unitMinutes <= 0 {
		return 0
	}
	h := decimal.NewFromFloat(hours)
	if !h.GreaterThan(overtimeThresholdHours) {
		return 0
	}
	excess := h.Sub(overtimeThresholdHours).Mul(minutesPerHour)
	return excess.Div(decimal.NewFromInt(int64(unitMinutes))).Ceil().IntPart()
}

// =============================================================================
// PER-PARTICIPANT COMPUTATION
// =============================================================================

// ComputePay prices one participant for one engagement under one
// schedule. Pure function; all amounts stay in full precision.
func ComputePay(p Participant, e Engagement, s *RateSchedule) PayBreakdown {
	principal := s.IsPrincipal(p.Instrument)

	out := PayBreakdown{
		PerformancePay: ZeroAmount(),
		RehearsalPay:   ZeroAmount(),
		OvertimePay:    ZeroAmount(),
		DoublingPay:    ZeroAmount(),
		CartagePay:     ZeroAmount(),
		Gross:          ZeroAmount(),
		Health:         ZeroAmount(),
	}

	if e.HasPerformance() {
		out.PerformancePay = sessionBase(s.PerformanceBaseRate, s.PrincipalPerformanceMultiplier, principal)
		out.Health = out.Health.Add(s.HealthPerPerformance)

		units := OvertimeUnits(e.PerformanceHours, s.PerformanceOvertimeUnitMinutes)
		rate := s.PerformanceOvertimeRate
		if principal {
			rate = s.PerformanceOvertimePrincipalRate
		}
		out.OvertimePay = out.OvertimePay.Add(rate.MulInt(units))
	}

	if e.HasRehearsal() {
		out.RehearsalPay = sessionBase(s.RehearsalBaseRate, s.PrincipalRehearsalMultiplier, principal)
		out.Health = out.Health.Add(s.HealthPerRehearsal)

		units := OvertimeUnits(e.RehearsalHours, s.RehearsalOvertimeUnitMinutes)
		rate := s.RehearsalOvertimeRate
		if principal {
			rate = s.RehearsalOvertimePrincipalRate
		}
		out.OvertimePay = out.OvertimePay.Add(rate.MulInt(units))
	}

	subtotal := out.PerformancePay.Add(out.RehearsalPay).Add(out.OvertimePay)
	if p.Doubling && subtotal.IsPositive() {
		out.DoublingPay = subtotal.Mul(s.DoublingFirstPremiumFraction)
	}

	out.CartagePay = s.CartageFee(p.Instrument, p.CartageRequested)

	// Flat addend: cartage never scales with hours, chair, or doubling.
	out.Gross = subtotal.Add(out.DoublingPay).Add(out.CartagePay)
	return out
}

// sessionBase applies the principal multiplier to a session base rate.
// The multiplier is multiplicative (1.20 pays 120%, never base+1.20);
// a non-positive multiplier means none is configured and leaves the
// base unchanged.
func sessionBase(base Amount, multiplier decimal.Decimal, principal bool) Amount {
	if principal && multiplier.IsPositive() {
		return base.Mul(multiplier)
	}
	return base
}
