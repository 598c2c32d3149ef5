/*
types.go - Contract domain types

PURPOSE:
  Defines the engagement contract as users work with it: a draft filled
  in over two steps (engagement details, then hours and roster), priced
  on every save, and finalized once both sides have signed.

KEY CONCEPTS:
  Contract:     One single-engagement agreement. Carries the leader's
                details inline, the scale it is priced under, the hours
                worked, and the stored pricing results.
  SideMusician: One roster line below the leader. Ordered by Position.
  Status:       draft (editable) or completed (read-only until reopened).

LIFECYCLE:
  draft -> completed   via Finalize (reprices first)
  completed -> draft   via Reopen

  Only drafts accept edits. Every edit reprices the contract before it
  is saved, so the stored totals never trail the stored inputs.

PRICING INPUTS:
  Engagement() assembles the roster the wage engine prices: the leader
  first when playing, then side musicians in Position order. Principal
  classification is derived from the instrument text at pricing time,
  never stored.

SEE ALSO:
  - service.go: Operations and validation
  - engine/types.go: Participant, Engagement, Totals
*/
package contract

import (
	"time"

	"github.com/warp/wage-engine/engine"
)

// Status is the contract lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusCompleted Status = "completed"
)

// =============================================================================
// CONTRACT
// =============================================================================

// Contract is a single-engagement agreement owned by one user.
type Contract struct {
	ID     string
	UserID string
	Status Status

	// Scale identification: which rate schedule prices this contract.
	Jurisdiction string
	ScaleKey     string

	// Engagement details.
	EngagementDate time.Time
	EngagementType string
	BandName       string
	VenueName      string
	Borough        string
	StartTime      string // wall clock, "19:30"
	EndTime        string
	IsRecorded     bool

	// The leader's details live on the contract itself.
	LeaderName         string
	LeaderCardNo       string
	LeaderTaxID        string
	LeaderAddress      string
	LeaderPhone        string
	LeaderInstrument   string
	LeaderIsPlaying    bool
	LeaderDoubling     bool
	LeaderNumDoubles   int
	LeaderCartage      bool
	LeaderIncorporated bool

	// Hours worked.
	PerformanceHours float64
	HasRehearsal     bool
	RehearsalHours   float64

	// Roster size including the leader when playing.
	NumMusicians int

	// Stored pricing results, zeroed when pricing fails.
	TotalGross          engine.Amount
	TotalPension        engine.Amount
	TotalHealth         engine.Amount
	TotalWorkDues       engine.Amount
	ParticipantsWithPay int

	CreatedAt   time.Time
	LastSavedAt time.Time
}

// SideMusician is one roster line on a contract.
type SideMusician struct {
	ID         string
	ContractID string
	Position   int

	Name       string
	CardNo     string
	TaxID      string
	Instrument string

	Doubling   bool
	NumDoubles int
	Cartage    bool
}

// =============================================================================
// PRICING INPUT ASSEMBLY
// =============================================================================

// Engagement assembles the pricing input for this contract. The leader
// plays first when playing; side musicians follow in Position order.
func (c *Contract) Engagement(musicians []SideMusician) engine.Engagement {
	roster := make([]engine.Participant, 0, len(musicians)+1)
	if c.LeaderIsPlaying {
		roster = append(roster, engine.Participant{
			Name:             c.LeaderName,
			Instrument:       c.LeaderInstrument,
			Doubling:         c.LeaderDoubling,
			CartageRequested: c.LeaderCartage,
		})
	}
	for _, m := range musicians {
		roster = append(roster, engine.Participant{
			Name:             m.Name,
			Instrument:       m.Instrument,
			Doubling:         m.Doubling,
			CartageRequested: m.Cartage,
		})
	}

	return engine.Engagement{
		Jurisdiction:       c.Jurisdiction,
		ScaleKey:           c.ScaleKey,
		Date:               c.EngagementDate,
		PerformanceHours:   c.PerformanceHours,
		RehearsalHours:     c.RehearsalHours,
		RehearsalRequested: c.HasRehearsal,
		Roster:             roster,
	}
}

// Editable reports whether the contract accepts changes.
func (c *Contract) Editable() bool {
	return c.Status == StatusDraft
}
