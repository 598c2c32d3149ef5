package engine_test

import (
	"errors"
	"testing"
	"time"

	"github.com/warp/wage-engine/engine"
)

func TestScheduleBook_RegisterAndLookup(t *testing.T) {
	book := engine.NewScheduleBook()
	if err := book.Register(simpleSchedule()); err != nil {
		t.Fatalf("register: %v", err)
	}

	s, err := book.Lookup("TestLocal", "Simple")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	assertAmount(t, "base rate", s.PerformanceBaseRate, money(100))
}

func TestScheduleBook_RegisterRequiresKeys(t *testing.T) {
	book := engine.NewScheduleBook()

	s := simpleSchedule()
	s.Jurisdiction = ""
	if err := book.Register(s); err == nil {
		t.Error("expected an error registering without a jurisdiction")
	}

	s = simpleSchedule()
	s.ScaleKey = ""
	if err := book.Register(s); err == nil {
		t.Error("expected an error registering without a scale key")
	}
}

func TestScheduleBook_DuplicateRegistration(t *testing.T) {
	book := engine.NewScheduleBook()
	if err := book.Register(simpleSchedule()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := book.Register(simpleSchedule()); err == nil {
		t.Error("expected an error on duplicate registration")
	}
}

func TestScheduleBook_LookupMissing(t *testing.T) {
	book := engine.NewScheduleBook()

	_, err := book.Lookup("Nowhere", "Nothing")
	if !errors.Is(err, engine.ErrScheduleMissing) {
		t.Errorf("expected ErrScheduleMissing, got %v", err)
	}

	var missing *engine.ScheduleMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("expected a structured missing-schedule error, got %T", err)
	}
	if missing.Jurisdiction != "Nowhere" || missing.ScaleKey != "Nothing" {
		t.Errorf("error should carry the lookup key, got %+v", missing)
	}
}

func TestScheduleBook_LookupRejectsUnusableSchedule(t *testing.T) {
	// A schedule can be registered while its rates are still being
	// loaded, but it cannot be used to price anything until the
	// performance base rate is positive.
	book := engine.NewScheduleBook()
	s := simpleSchedule()
	s.PerformanceBaseRate = money(-1)
	if err := book.Register(s); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, err := book.Lookup("TestLocal", "Simple")
	if !engine.IsScheduleInvalid(err) {
		t.Errorf("expected an invalid-schedule error, got %v", err)
	}
}

func TestScheduleBook_ListSorted(t *testing.T) {
	book := engine.NewScheduleBook()

	b := simpleSchedule()
	b.Jurisdiction = "Local802"
	b.ScaleKey = "Theatre"
	a := simpleSchedule()
	a.Jurisdiction = "Local802"
	a.ScaleKey = "Classical"

	for _, s := range []engine.RateSchedule{simpleSchedule(), b, a} {
		if err := book.Register(s); err != nil {
			t.Fatalf("register %s/%s: %v", s.Jurisdiction, s.ScaleKey, err)
		}
	}

	list := book.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 schedules, got %d", len(list))
	}
	got := []string{
		list[0].Jurisdiction + "/" + list[0].ScaleKey,
		list[1].Jurisdiction + "/" + list[1].ScaleKey,
		list[2].Jurisdiction + "/" + list[2].ScaleKey,
	}
	want := []string{"Local802/Classical", "Local802/Theatre", "TestLocal/Simple"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("list[%d]: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestScheduleBook_RegisterStoresCopy(t *testing.T) {
	// Mutating the caller's struct after registration must not reach
	// the book.
	book := engine.NewScheduleBook()
	s := simpleSchedule()
	if err := book.Register(s); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.PerformanceBaseRate = money(999)

	stored, err := book.Lookup("TestLocal", "Simple")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	assertAmount(t, "stored base rate", stored.PerformanceBaseRate, money(100))
}

func TestCovers_EffectiveWindow(t *testing.T) {
	s := simpleSchedule()
	s.EffectiveStart = time.Date(2023, 9, 12, 0, 0, 0, 0, time.UTC)
	s.EffectiveEnd = time.Date(2024, 9, 11, 0, 0, 0, 0, time.UTC)

	inside := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	before := time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)
	after := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)

	if !s.Covers(inside) {
		t.Error("date inside the window should be covered")
	}
	if !s.Covers(s.EffectiveStart) || !s.Covers(s.EffectiveEnd) {
		t.Error("window bounds are inclusive")
	}
	if s.Covers(before) || s.Covers(after) {
		t.Error("dates outside the window should not be covered")
	}
}

func TestCovers_OpenEndedWhenUnset(t *testing.T) {
	s := simpleSchedule()
	if !s.Covers(time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Error("a schedule without an effective window covers any date")
	}
	if !s.Covers(time.Time{}) {
		t.Error("an engagement without a date is never flagged")
	}
}
