package contract_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/wage-engine/auth"
	"github.com/warp/wage-engine/contract"
	"github.com/warp/wage-engine/engine"
	"github.com/warp/wage-engine/local802"
	"github.com/warp/wage-engine/store/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(t *testing.T) *contract.Service {
	t.Helper()
	book := engine.NewScheduleBook()
	require.NoError(t, local802.RegisterBuiltin(book))
	calc := engine.NewCalculator(book, slog.New(slog.DiscardHandler))
	return contract.NewService(memory.New(), calc, slog.New(slog.DiscardHandler))
}

func validDetails() contract.DetailsUpdate {
	return contract.DetailsUpdate{
		EngagementDate:   time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		EngagementType:   "Concert",
		VenueName:        "Riverside Hall",
		Borough:          "NYC",
		StartTime:        "19:30",
		EndTime:          "22:30",
		LeaderName:       "Alex Chen",
		LeaderTaxID:      "12-3456789",
		LeaderInstrument: "violin",
		LeaderIsPlaying:  true,
	}
}

// soloConcert is the leader alone for a 3.0-hour performance.
func soloConcert() contract.EngagementUpdate {
	return contract.EngagementUpdate{PerformanceHours: 3.0}
}

func amount(s string) engine.Amount {
	return engine.MustParseAmount(s)
}

// pricedDraft creates a draft and walks it through both steps.
func pricedDraft(t *testing.T, svc *contract.Service, userID string) *contract.Contract {
	t.Helper()
	ctx := context.Background()

	c, err := svc.Create(ctx, userID)
	require.NoError(t, err)
	_, err = svc.SaveDetails(ctx, userID, c.ID, validDetails())
	require.NoError(t, err)
	c, err = svc.SaveEngagement(ctx, userID, c.ID, soloConcert())
	require.NoError(t, err)
	return c
}

// =============================================================================
// DRAFT CREATION
// =============================================================================

func TestCreate_EmptyDraft(t *testing.T) {
	svc := newTestService(t)

	c, err := svc.Create(context.Background(), "user-1")
	require.NoError(t, err)

	assert.Equal(t, contract.StatusDraft, c.Status)
	assert.Equal(t, contract.DefaultJurisdiction, c.Jurisdiction)
	assert.Equal(t, contract.DefaultScaleKey, c.ScaleKey)
	assert.True(t, c.LeaderIsPlaying)
	assert.Equal(t, 1, c.NumMusicians)
	assert.True(t, c.TotalGross.IsZero())
	assert.NotEmpty(t, c.ID)
}

// =============================================================================
// DETAILS STEP
// =============================================================================

func TestSaveDetails_RequiresDateAndLeader(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, "user-1")
	require.NoError(t, err)

	d := validDetails()
	d.EngagementDate = time.Time{}
	_, err = svc.SaveDetails(ctx, "user-1", c.ID, d)
	assert.True(t, contract.IsValidation(err), "missing date should be a validation error, got %v", err)
	assert.ErrorContains(t, err, "engagement_date")

	d = validDetails()
	d.LeaderName = ""
	_, err = svc.SaveDetails(ctx, "user-1", c.ID, d)
	assert.True(t, contract.IsValidation(err))
	assert.ErrorContains(t, err, "leader_name")
}

func TestSaveDetails_RepricesContract(t *testing.T) {
	// GIVEN: A priced solo contract (leader on violin, section rate)
	// WHEN: The details step moves the leader to viola
	// THEN: The stored totals change to the principal rate on that save
	svc := newTestService(t)
	ctx := context.Background()
	c := pricedDraft(t, svc, "user-1")
	require.True(t, c.TotalGross.Equal(amount("434.09")))

	d := validDetails()
	d.LeaderInstrument = "viola"
	updated, err := svc.SaveDetails(ctx, "user-1", c.ID, d)
	require.NoError(t, err)

	// 333.91*1.2 + 2*60.10 = 520.89 after rounding
	assert.True(t, updated.TotalGross.Equal(amount("520.89")),
		"expected 520.89, got %s", updated.TotalGross.StringFixed())
}

// =============================================================================
// ENGAGEMENT STEP
// =============================================================================

func TestSaveEngagement_PricesCanonicalContract(t *testing.T) {
	svc := newTestService(t)
	c := pricedDraft(t, svc, "user-1")

	assert.True(t, c.TotalGross.Equal(amount("434.09")), "gross: %s", c.TotalGross.StringFixed())
	assert.True(t, c.TotalPension.Equal(amount("78.09")), "pension: %s", c.TotalPension.StringFixed())
	assert.True(t, c.TotalHealth.Equal(amount("84.00")), "health: %s", c.TotalHealth.StringFixed())
	assert.True(t, c.TotalWorkDues.Equal(amount("15.19")), "dues: %s", c.TotalWorkDues.StringFixed())
	assert.Equal(t, 1, c.ParticipantsWithPay)
	assert.Equal(t, 1, c.NumMusicians)
}

func TestSaveEngagement_ValidatesInput(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SaveDetails(ctx, "user-1", c.ID, validDetails())
	require.NoError(t, err)

	cases := []struct {
		name  string
		input contract.EngagementUpdate
		field string
	}{
		{"negative performance hours", contract.EngagementUpdate{PerformanceHours: -1}, "performance_hours"},
		{"no sessions at all", contract.EngagementUpdate{}, "performance_hours"},
		{"rehearsal without hours", contract.EngagementUpdate{PerformanceHours: 2, HasRehearsal: true}, "rehearsal_hours"},
		{"musician without name", contract.EngagementUpdate{
			PerformanceHours: 2,
			Musicians:        []contract.MusicianEntry{{TaxID: "98-765"}},
		}, "musicians[0].name"},
		{"musician without tax id", contract.EngagementUpdate{
			PerformanceHours: 2,
			Musicians:        []contract.MusicianEntry{{Name: "Sam"}},
		}, "musicians[0].tax_id"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SaveEngagement(ctx, "user-1", c.ID, tc.input)
			assert.True(t, contract.IsValidation(err), "expected validation error, got %v", err)
			assert.ErrorContains(t, err, tc.field)
		})
	}
}

func TestSaveEngagement_ReplacesRoster(t *testing.T) {
	// The form always submits the whole roster; saving twice must not
	// accumulate musicians.
	svc := newTestService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SaveDetails(ctx, "user-1", c.ID, validDetails())
	require.NoError(t, err)

	first := soloConcert()
	first.Musicians = []contract.MusicianEntry{
		{Name: "Sam Ortiz", TaxID: "11-111", Instrument: "viola"},
		{Name: "Kim Park", TaxID: "22-222", Instrument: "cello", Cartage: true},
	}
	_, err = svc.SaveEngagement(ctx, "user-1", c.ID, first)
	require.NoError(t, err)

	second := soloConcert()
	second.Musicians = []contract.MusicianEntry{
		{Name: "Robin Diaz", TaxID: "33-333", Instrument: "oboe"},
	}
	updated, err := svc.SaveEngagement(ctx, "user-1", c.ID, second)
	require.NoError(t, err)

	_, musicians, err := svc.Get(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.Len(t, musicians, 1)
	assert.Equal(t, "Robin Diaz", musicians[0].Name)
	assert.Equal(t, 2, updated.NumMusicians, "leader plus one side musician")
}

func TestSaveEngagement_PricingFailureStillSaves(t *testing.T) {
	// GIVEN: A priced contract moved onto a scale nobody registered
	// WHEN: The next save reprices
	// THEN: The save succeeds with zeroed totals instead of failing
	svc := newTestService(t)
	ctx := context.Background()
	c := pricedDraft(t, svc, "user-1")
	require.False(t, c.TotalGross.IsZero())

	d := validDetails()
	d.ScaleKey = "NoSuchScale_99_00"
	updated, err := svc.SaveDetails(ctx, "user-1", c.ID, d)
	require.NoError(t, err)

	assert.True(t, updated.TotalGross.IsZero())
	assert.True(t, updated.TotalPension.IsZero())
	assert.True(t, updated.TotalHealth.IsZero())
	assert.True(t, updated.TotalWorkDues.IsZero())
	assert.Equal(t, 0, updated.ParticipantsWithPay)

	stored, _, err := svc.Get(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, "NoSuchScale_99_00", stored.ScaleKey, "the edit itself must persist")
}

// =============================================================================
// LIFECYCLE
// =============================================================================

func TestFinalize_CompletesAndLocksContract(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := pricedDraft(t, svc, "user-1")

	done, err := svc.Finalize(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusCompleted, done.Status)
	assert.True(t, done.TotalGross.Equal(amount("434.09")))

	_, err = svc.SaveDetails(ctx, "user-1", c.ID, validDetails())
	assert.ErrorIs(t, err, contract.ErrCompleted)
	_, err = svc.SaveEngagement(ctx, "user-1", c.ID, soloConcert())
	assert.ErrorIs(t, err, contract.ErrCompleted)

	_, err = svc.Finalize(ctx, "user-1", c.ID)
	assert.ErrorIs(t, err, contract.ErrInvalidTransition, "finalizing twice")
}

func TestReopen_ReturnsContractToDraft(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := pricedDraft(t, svc, "user-1")

	_, err := svc.Reopen(ctx, "user-1", c.ID)
	assert.ErrorIs(t, err, contract.ErrInvalidTransition, "reopening a draft")

	_, err = svc.Finalize(ctx, "user-1", c.ID)
	require.NoError(t, err)

	reopened, err := svc.Reopen(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.Equal(t, contract.StatusDraft, reopened.Status)

	_, err = svc.SaveDetails(ctx, "user-1", c.ID, validDetails())
	assert.NoError(t, err, "a reopened contract accepts edits again")
}

func TestDelete_RemovesContract(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c := pricedDraft(t, svc, "user-1")

	require.NoError(t, svc.Delete(ctx, "user-1", c.ID))

	_, _, err := svc.Get(ctx, "user-1", c.ID)
	assert.True(t, contract.IsNotFound(err))
}

// =============================================================================
// OWNERSHIP
// =============================================================================

func TestOwnership_OtherUsersSeeNotFound(t *testing.T) {
	// GIVEN: A contract owned by user-1
	// WHEN: user-2 tries every operation on it
	// THEN: Each one reports not-found, never forbidden
	svc := newTestService(t)
	ctx := context.Background()
	c := pricedDraft(t, svc, "user-1")

	_, _, err := svc.Get(ctx, "user-2", c.ID)
	assert.True(t, contract.IsNotFound(err))

	_, err = svc.SaveDetails(ctx, "user-2", c.ID, validDetails())
	assert.True(t, contract.IsNotFound(err))

	_, err = svc.SaveEngagement(ctx, "user-2", c.ID, soloConcert())
	assert.True(t, contract.IsNotFound(err))

	_, err = svc.Finalize(ctx, "user-2", c.ID)
	assert.True(t, contract.IsNotFound(err))

	err = svc.Delete(ctx, "user-2", c.ID)
	assert.True(t, contract.IsNotFound(err))

	list, err := svc.List(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_MostRecentlySavedFirst(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	older := pricedDraft(t, svc, "user-1")
	newer := pricedDraft(t, svc, "user-1")
	_ = newer

	// Touching the older contract moves it to the top.
	_, err := svc.SaveDetails(ctx, "user-1", older.ID, validDetails())
	require.NoError(t, err)

	list, err := svc.List(ctx, "user-1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, older.ID, list[0].ID)
}

// =============================================================================
// VIEW
// =============================================================================

func TestView_PerParticipantLines(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	c, err := svc.Create(ctx, "user-1")
	require.NoError(t, err)
	_, err = svc.SaveDetails(ctx, "user-1", c.ID, validDetails())
	require.NoError(t, err)

	e := soloConcert()
	e.Musicians = []contract.MusicianEntry{
		{Name: "Sam Ortiz", TaxID: "11-111", Instrument: "viola"},
	}
	_, err = svc.SaveEngagement(ctx, "user-1", c.ID, e)
	require.NoError(t, err)

	v, err := svc.View(ctx, "user-1", c.ID)
	require.NoError(t, err)
	require.Len(t, v.Lines, 2, "leader plus one side musician")

	assert.Equal(t, "Alex Chen", v.Lines[0].Name)
	assert.True(t, v.Lines[0].Pay.Gross.Equal(amount("434.09")))
	assert.Equal(t, "Sam Ortiz", v.Lines[1].Name)
	assert.True(t, v.Lines[1].Pay.Gross.GreaterThan(v.Lines[0].Pay.Gross),
		"the principal viola chair outearns the section violin")
}

func TestView_UnpricedContractHasNoLines(t *testing.T) {
	// A contract on an unknown scale still loads, it just carries no
	// pay lines.
	svc := newTestService(t)
	ctx := context.Background()
	c := pricedDraft(t, svc, "user-1")

	d := validDetails()
	d.ScaleKey = "NoSuchScale_99_00"
	_, err := svc.SaveDetails(ctx, "user-1", c.ID, d)
	require.NoError(t, err)

	v, err := svc.View(ctx, "user-1", c.ID)
	require.NoError(t, err)
	assert.NotNil(t, v.Contract)
	assert.Nil(t, v.Lines)
}

// Compile-time check: the memory store satisfies both store interfaces.
var (
	_ contract.Store = (*memory.Store)(nil)
	_ auth.UserStore = (*memory.Store)(nil)
)
