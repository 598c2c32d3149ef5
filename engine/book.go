/*
book.go - Schedule registration and lookup

PURPOSE:
  A ScheduleBook holds every wage-scale agreement the process knows,
  keyed by (jurisdiction, scale key). The surrounding system builds one
  book at startup (presets plus any schedule files) and injects it
  into the calculator. The engine never reads schedules from package
  state, so two calculators with different books can coexist (tests do
  exactly that).

HOW IT WORKS:
  1. cmd/server registers presets and file-loaded schedules at startup
  2. The book is treated as read-only from then on
  3. Lookup either returns a usable schedule or a typed failure

LOOKUP FAILURES:
  - ScheduleMissing: nothing registered under the pair
  - ScheduleInvalid: registered, but the performance base rate is not
    positive; damaged configuration must not price contracts

SEE ALSO:
  - schedule.go: RateSchedule definition
  - local802/scales.go: Built-in presets
  - factory/schedule.go: File-loaded schedules
*/
package engine

import (
	"fmt"
	"sort"
	"sync"
)

// =============================================================================
// SCHEDULE BOOK
// =============================================================================

type scheduleKey struct {
	jurisdiction string
	scaleKey     string
}

type ScheduleBook struct {
	mu        sync.RWMutex
	schedules map[scheduleKey]*RateSchedule
}

func NewScheduleBook() *ScheduleBook {
	return &ScheduleBook{schedules: make(map[scheduleKey]*RateSchedule)}
}

// Register adds a schedule to the book. Registering the same
// (jurisdiction, scale key) twice is a configuration mistake and fails;
// usability of the rates themselves is checked at lookup time so a
// damaged schedule still surfaces as ScheduleInvalid where it is used.
func (b *ScheduleBook) Register(s RateSchedule) error {
	if s.Jurisdiction == "" || s.ScaleKey == "" {
		return fmt.Errorf("schedule needs jurisdiction and scale key (got %q/%q)", s.Jurisdiction, s.ScaleKey)
	}
	key := scheduleKey{jurisdiction: s.Jurisdiction, scaleKey: s.ScaleKey}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.schedules[key]; exists {
		return fmt.Errorf("schedule %s/%s already registered", s.Jurisdiction, s.ScaleKey)
	}
	copied := s
	b.schedules[key] = &copied
	return nil
}

// MustRegister panics on registration failure. Use at startup or in
// tests, where a bad preset should stop the process.
func (b *ScheduleBook) MustRegister(s RateSchedule) {
	if err := b.Register(s); err != nil {
		panic(err)
	}
}

// Lookup resolves a (jurisdiction, scale key) pair to a usable schedule.
func (b *ScheduleBook) Lookup(jurisdiction, scaleKey string) (*RateSchedule, error) {
	b.mu.RLock()
	s, ok := b.schedules[scheduleKey{jurisdiction: jurisdiction, scaleKey: scaleKey}]
	b.mu.RUnlock()

	if !ok {
		return nil, &ScheduleMissingError{Jurisdiction: jurisdiction, ScaleKey: scaleKey}
	}
	if err := s.Usable(); err != nil {
		return nil, err
	}
	return s, nil
}

// List returns every registered schedule ordered by jurisdiction then
// scale key, for stable display.
func (b *ScheduleBook) List() []*RateSchedule {
	b.mu.RLock()
	result := make([]*RateSchedule, 0, len(b.schedules))
	for _, s := range b.schedules {
		result = append(result, s)
	}
	b.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if result[i].Jurisdiction != result[j].Jurisdiction {
			return result[i].Jurisdiction < result[j].Jurisdiction
		}
		return result[i].ScaleKey < result[j].ScaleKey
	})
	return result
}
