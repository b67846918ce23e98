package domain

import (
	"fmt"
	"time"
)

// RecurrenceRule describes how a calendar event repeats. Frequency is limited
// to daily/weekly/monthly/yearly; DaysOfWeek is only meaningful for weekly
// rules. When both Count and EndDate are set, expansion stops at whichever
// bound is reached first.
type RecurrenceRule struct {
	Frequency  TimeScale
	Interval   int
	DaysOfWeek WeekdaySet
	Count      *int
	EndDate    *time.Time
	Exceptions []time.Time
}

// WeekdaySet is a set of weekday numbers 0 (Sunday) through 6 (Saturday).
type WeekdaySet map[int]struct{}

func NewWeekdaySet(days ...int) WeekdaySet {
	s := make(WeekdaySet, len(days))
	for _, d := range days {
		s[d] = struct{}{}
	}
	return s
}

func (s WeekdaySet) Has(day int) bool {
	_, ok := s[day]
	return ok
}

// Sorted returns the weekdays in ascending order.
func (s WeekdaySet) Sorted() []int {
	out := make([]int, 0, len(s))
	for d := 0; d < 7; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

// Validate rejects malformed rules at the boundary.
func (r *RecurrenceRule) Validate() error {
	if !ValidRecurrenceFrequencies[r.Frequency] {
		return fmt.Errorf("recurrence frequency %q is not one of daily/weekly/monthly/yearly", r.Frequency)
	}
	if r.Interval < 1 {
		return fmt.Errorf("recurrence interval must be positive, got %d", r.Interval)
	}
	for d := range r.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("recurrence day-of-week %d out of range 0-6", d)
		}
	}
	if r.Count != nil && *r.Count < 1 {
		return fmt.Errorf("recurrence count must be positive, got %d", *r.Count)
	}
	return nil
}

// IsException reports whether t falls on one of the rule's exception dates.
// Comparison is by calendar date, not instant.
func (r *RecurrenceRule) IsException(t time.Time) bool {
	for _, ex := range r.Exceptions {
		if sameDate(ex, t) {
			return true
		}
	}
	return false
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// CalendarEvent is a dated commitment. A generated instance carries
// ParentEventID pointing at the defining event and a synthesized
// "<parentID>-<seq>" ID; instances are derived, never persisted as originals.
type CalendarEvent struct {
	ID            string
	Title         string
	Start         time.Time
	End           time.Time
	Recurrence    *RecurrenceRule
	ParentEventID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate rejects malformed events at the boundary.
func (e *CalendarEvent) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event ID is required")
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("event end must be after start")
	}
	if e.Recurrence != nil {
		if err := e.Recurrence.Validate(); err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
	}
	return nil
}

// Duration returns the span of one occurrence of the event.
func (e *CalendarEvent) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// IsDerived reports whether the event is a generated instance rather than a
// persisted original.
func (e *CalendarEvent) IsDerived() bool {
	return e.ParentEventID != ""
}
