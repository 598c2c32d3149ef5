/*
service.go - Contract operations

PURPOSE:
  Implements the contract workflow: create a draft, fill in engagement
  details, fill in hours and roster, view the priced result, finalize,
  reopen, delete. Every operation is scoped to the owning user.

PRICING ON SAVE:
  Each edit reprices the contract before it is stored. When pricing
  fails (unknown scale, empty roster), the failure is logged, the
  stored totals are zeroed, and the save still succeeds: users never
  lose form data to a rate card problem, and a zeroed contract is
  visibly unpriced rather than silently stale.

OWNERSHIP:
  Every operation takes the acting user's ID and returns ErrNotFound
  for contracts that don't exist OR belong to someone else. The two
  cases are indistinguishable to the caller on purpose.

LIFECYCLE:
  Finalize reprices one last time and moves draft -> completed.
  Reopen moves completed -> draft. Completed contracts reject edits
  with ErrCompleted until reopened.

SEE ALSO:
  - types.go: Contract and SideMusician
  - engine/calculator.go: The pricing engine
*/
package contract

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/warp/wage-engine/engine"
)

// New drafts price under the classical concert scale until the user
// picks another.
const (
	DefaultJurisdiction = "Local802"
	DefaultScaleKey     = "ClassicalConcert_23_24"
)

// =============================================================================
// SERVICE
// =============================================================================

// Service implements the contract workflow over a Store and the wage
// calculator.
type Service struct {
	store     Store
	calc      *engine.Calculator
	logger    *slog.Logger
	onReprice func(err error)
}

// NewService creates a contract service. A nil logger falls back to
// slog.Default().
func NewService(store Store, calc *engine.Calculator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, calc: calc, logger: logger}
}

// ObserveRepricing registers a callback invoked after every repricing
// attempt with the pricing error (nil on success). Used for metrics.
func (s *Service) ObserveRepricing(fn func(err error)) {
	s.onReprice = fn
}

// =============================================================================
// INPUT TYPES
// =============================================================================

// DetailsUpdate carries the engagement details step.
type DetailsUpdate struct {
	EngagementDate time.Time
	EngagementType string
	BandName       string
	VenueName      string
	Borough        string
	StartTime      string
	EndTime        string

	LeaderName       string
	LeaderCardNo     string
	LeaderTaxID      string
	LeaderAddress    string
	LeaderPhone      string
	LeaderInstrument string
	LeaderIsPlaying  bool
	LeaderDoubling   bool
	LeaderNumDoubles int
	LeaderCartage    bool

	// Optional scale override; empty keeps the contract's current scale.
	Jurisdiction string
	ScaleKey     string
}

// EngagementUpdate carries the hours-and-roster step. The musician list
// replaces the stored roster entirely.
type EngagementUpdate struct {
	PerformanceHours   float64
	HasRehearsal       bool
	RehearsalHours     float64
	IsRecorded         bool
	LeaderIncorporated bool
	Musicians          []MusicianEntry
}

// MusicianEntry is one submitted roster line.
type MusicianEntry struct {
	Name       string
	CardNo     string
	TaxID      string
	Instrument string
	Doubling   bool
	NumDoubles int
	Cartage    bool
}

// View is a contract with its roster and per-participant pricing lines.
// Lines is nil when the contract cannot currently be priced.
type View struct {
	Contract  *Contract
	Musicians []SideMusician
	Lines     []PayLine
}

// PayLine pairs one participant with their computed pay.
type PayLine struct {
	Name       string
	Instrument string
	Pay        engine.PayBreakdown
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Create opens a new empty draft for the user.
func (s *Service) Create(ctx context.Context, userID string) (*Contract, error) {
	now := time.Now().UTC()
	c := &Contract{
		ID:              uuid.New().String(),
		UserID:          userID,
		Status:          StatusDraft,
		Jurisdiction:    DefaultJurisdiction,
		ScaleKey:        DefaultScaleKey,
		LeaderIsPlaying: true,
		NumMusicians:    1,
		CreatedAt:       now,
		LastSavedAt:     now,
	}
	if err := s.store.CreateContract(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to create contract: %w", err)
	}
	s.logger.Info("contract created", "contract_id", c.ID, "user_id", userID)
	return c, nil
}

// List returns the user's contracts, most recently saved first.
func (s *Service) List(ctx context.Context, userID string) ([]*Contract, error) {
	return s.store.ListContracts(ctx, userID)
}

// Get returns one of the user's contracts with its roster.
func (s *Service) Get(ctx context.Context, userID, id string) (*Contract, []SideMusician, error) {
	c, err := s.fetchOwned(ctx, userID, id)
	if err != nil {
		return nil, nil, err
	}
	musicians, err := s.store.ListMusicians(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return c, musicians, nil
}

// View returns the contract, its roster, and per-participant pay lines.
func (s *Service) View(ctx context.Context, userID, id string) (*View, error) {
	c, musicians, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	v := &View{Contract: c, Musicians: musicians}

	e := c.Engagement(musicians)
	breakdowns, _, err := s.calc.Itemize(e)
	if err != nil {
		s.logger.Warn("contract cannot be itemized",
			"contract_id", c.ID, "error", err)
		return v, nil
	}

	v.Lines = make([]PayLine, len(breakdowns))
	for i, p := range e.Roster {
		v.Lines[i] = PayLine{Name: p.Name, Instrument: p.Instrument, Pay: breakdowns[i]}
	}
	return v, nil
}

// SaveDetails applies the engagement details step and reprices.
func (s *Service) SaveDetails(ctx context.Context, userID, id string, d DetailsUpdate) (*Contract, error) {
	c, err := s.fetchOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !c.Editable() {
		return nil, ErrCompleted
	}

	if d.EngagementDate.IsZero() {
		return nil, &ValidationError{Field: "engagement_date", Reason: "required"}
	}
	if d.LeaderName == "" {
		return nil, &ValidationError{Field: "leader_name", Reason: "required"}
	}

	c.EngagementDate = d.EngagementDate
	c.EngagementType = d.EngagementType
	c.BandName = d.BandName
	c.VenueName = d.VenueName
	c.Borough = d.Borough
	c.StartTime = d.StartTime
	c.EndTime = d.EndTime

	c.LeaderName = d.LeaderName
	c.LeaderCardNo = d.LeaderCardNo
	c.LeaderTaxID = d.LeaderTaxID
	c.LeaderAddress = d.LeaderAddress
	c.LeaderPhone = d.LeaderPhone
	c.LeaderInstrument = d.LeaderInstrument
	c.LeaderIsPlaying = d.LeaderIsPlaying
	c.LeaderDoubling = d.LeaderDoubling
	c.LeaderNumDoubles = d.LeaderNumDoubles
	c.LeaderCartage = d.LeaderCartage

	if d.Jurisdiction != "" {
		c.Jurisdiction = d.Jurisdiction
	}
	if d.ScaleKey != "" {
		c.ScaleKey = d.ScaleKey
	}

	musicians, err := s.store.ListMusicians(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reprice(c, musicians)

	c.LastSavedAt = time.Now().UTC()
	if err := s.store.UpdateContract(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save contract details: %w", err)
	}
	return c, nil
}

// SaveEngagement applies the hours-and-roster step and reprices. The
// submitted roster replaces the stored one.
func (s *Service) SaveEngagement(ctx context.Context, userID, id string, u EngagementUpdate) (*Contract, error) {
	c, err := s.fetchOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if !c.Editable() {
		return nil, ErrCompleted
	}

	if u.PerformanceHours < 0 {
		return nil, &ValidationError{Field: "performance_hours", Reason: "must not be negative"}
	}
	if u.HasRehearsal && u.RehearsalHours <= 0 {
		return nil, &ValidationError{Field: "rehearsal_hours", Reason: "required when a rehearsal is booked"}
	}
	if u.PerformanceHours == 0 && !u.HasRehearsal {
		return nil, &ValidationError{Field: "performance_hours", Reason: "enter performance or rehearsal hours"}
	}
	if !c.LeaderIsPlaying && len(u.Musicians) == 0 {
		return nil, &ValidationError{Field: "musicians", Reason: "at least one musician must play"}
	}
	for i, m := range u.Musicians {
		if m.Name == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("musicians[%d].name", i), Reason: "required"}
		}
		if m.TaxID == "" {
			return nil, &ValidationError{Field: fmt.Sprintf("musicians[%d].tax_id", i), Reason: "required"}
		}
	}

	c.PerformanceHours = u.PerformanceHours
	c.HasRehearsal = u.HasRehearsal
	if u.HasRehearsal {
		c.RehearsalHours = u.RehearsalHours
	} else {
		c.RehearsalHours = 0
	}
	c.IsRecorded = u.IsRecorded
	c.LeaderIncorporated = u.LeaderIncorporated

	musicians := make([]SideMusician, len(u.Musicians))
	for i, m := range u.Musicians {
		musicians[i] = SideMusician{
			ID:         uuid.New().String(),
			ContractID: c.ID,
			Position:   i,
			Name:       m.Name,
			CardNo:     m.CardNo,
			TaxID:      m.TaxID,
			Instrument: m.Instrument,
			Doubling:   m.Doubling,
			NumDoubles: m.NumDoubles,
			Cartage:    m.Cartage,
		}
	}
	if err := s.store.ReplaceMusicians(ctx, c.ID, musicians); err != nil {
		return nil, fmt.Errorf("failed to save roster: %w", err)
	}

	c.NumMusicians = len(musicians)
	if c.LeaderIsPlaying {
		c.NumMusicians++
	}

	s.reprice(c, musicians)

	c.LastSavedAt = time.Now().UTC()
	if err := s.store.UpdateContract(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to save engagement: %w", err)
	}
	return c, nil
}

// Delete removes one of the user's contracts and its roster.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	c, err := s.fetchOwned(ctx, userID, id)
	if err != nil {
		return err
	}
	if err := s.store.DeleteContract(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete contract: %w", err)
	}
	s.logger.Info("contract deleted", "contract_id", c.ID, "user_id", userID)
	return nil
}

// Finalize reprices the draft one last time and marks it completed.
func (s *Service) Finalize(ctx context.Context, userID, id string) (*Contract, error) {
	c, err := s.fetchOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusDraft {
		return nil, &TransitionError{From: c.Status, Action: "finalize"}
	}

	musicians, err := s.store.ListMusicians(ctx, id)
	if err != nil {
		return nil, err
	}
	s.reprice(c, musicians)

	c.Status = StatusCompleted
	c.LastSavedAt = time.Now().UTC()
	if err := s.store.UpdateContract(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to finalize contract: %w", err)
	}
	s.logger.Info("contract finalized", "contract_id", c.ID, "gross", c.TotalGross.StringFixed())
	return c, nil
}

// Reopen returns a completed contract to draft for further edits.
func (s *Service) Reopen(ctx context.Context, userID, id string) (*Contract, error) {
	c, err := s.fetchOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if c.Status != StatusCompleted {
		return nil, &TransitionError{From: c.Status, Action: "reopen"}
	}

	c.Status = StatusDraft
	c.LastSavedAt = time.Now().UTC()
	if err := s.store.UpdateContract(ctx, c); err != nil {
		return nil, fmt.Errorf("failed to reopen contract: %w", err)
	}
	return c, nil
}

// =============================================================================
// INTERNAL HELPERS
// =============================================================================

func (s *Service) fetchOwned(ctx context.Context, userID, id string) (*Contract, error) {
	c, err := s.store.GetContract(ctx, id)
	if err != nil {
		return nil, err
	}
	// Someone else's contract looks exactly like a missing one.
	if c.UserID != userID {
		return nil, ErrNotFound
	}
	return c, nil
}

// reprice recomputes the stored totals. A pricing failure zeroes them
// and is logged; the caller's save still goes through.
func (s *Service) reprice(c *Contract, musicians []SideMusician) {
	totals, err := s.calc.Calculate(c.Engagement(musicians))
	if err != nil {
		s.logger.Warn("pricing failed, storing zero totals",
			"contract_id", c.ID,
			"jurisdiction", c.Jurisdiction,
			"scale", c.ScaleKey,
			"error", err)
	}
	if s.onReprice != nil {
		s.onReprice(err)
	}
	c.TotalGross = totals.Gross
	c.TotalPension = totals.Pension
	c.TotalHealth = totals.Health
	c.TotalWorkDues = totals.WorkDues
	c.ParticipantsWithPay = totals.ParticipantsWithPay
}
