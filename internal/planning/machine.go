// Package planning drives the household planning cycle: the forward-only
// session state machine, the effective-start and carryover rules, and the
// per-household session registry.
package planning

import (
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
)

// ErrCarryoverUnconfirmed blocks advancement past mark_for_scheduling while
// any carryover group remains unreviewed. This is a hard validation failure,
// not a warning.
var ErrCarryoverUnconfirmed = errors.New("carryover instances pending confirmation")

// ErrSessionComplete is returned when advancing a terminal session.
var ErrSessionComplete = errors.New("planning session already complete")

// Advance moves the session to its next step. Transitions are strictly
// forward; there is no jump and no backward move. Leaving
// mark_for_scheduling requires the carryover all-clear when gap instances
// were detected at start.
func Advance(s *domain.PlanningSession) error {
	if s.Step == domain.StepComplete {
		return ErrSessionComplete
	}
	if s.Step == domain.StepMarkForScheduling && s.HasCarryover() && !s.IsCarryoverConfirmed {
		return fmt.Errorf("%w: %d instance(s) across %d group(s)",
			ErrCarryoverUnconfirmed, s.UnconfirmedCarryoverCount(), len(s.CarryoverInstances))
	}
	s.Step = domain.NextStep(s.Step)
	return nil
}

// LargerTimeScales reports which longer-horizon goal reviews a session held
// today should surface. A household only reviews monthly, quarterly and
// yearly goals during the first week of the corresponding period; January's
// first week is by construction also a quarter and month start, so yearly
// eligibility implies the other two.
type LargerTimeScales struct {
	Monthly   bool
	Quarterly bool
	Yearly    bool
}

// ShouldIncludeLargerTimeScaleGoals evaluates the first-week windows for the
// given day.
func ShouldIncludeLargerTimeScaleGoals(today time.Time) LargerTimeScales {
	firstWeek := today.Day() <= 7
	quarterStart := (int(today.Month())-1)%3 == 0
	return LargerTimeScales{
		Monthly:   firstWeek,
		Quarterly: firstWeek && quarterStart,
		Yearly:    firstWeek && today.Month() == time.January,
	}
}

// IsWeeklyReviewNeeded reports whether the household is due for a planning
// session: always when no session has ever completed, never on the day one
// completed, and otherwise once seven full days have passed.
func IsWeeklyReviewNeeded(lastCompleted *time.Time, today time.Time) bool {
	if lastCompleted == nil {
		return true
	}
	last := *lastCompleted
	ly, lm, ld := last.Date()
	ty, tm, td := today.Date()
	if ly == ty && lm == tm && ld == td {
		return false
	}
	return int(today.Sub(last).Hours()/24) >= 7
}
