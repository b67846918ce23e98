package domain

import (
	"fmt"
	"time"
)

// CarryoverInstance is one dated criterion occurrence that fell inside the
// gap between a session's nominal week and its actual start. Each instance
// must be individually accepted or rejected by the operator before the
// session can move past marking.
type CarryoverInstance struct {
	InstanceID  string
	CriteriaID  string
	GoalID      string
	Date        time.Time
	Status      CriteriaStatus
	IsConfirmed bool
	Accepted    bool
}

// PlanningSession is the in-memory state of one planning cycle walk-through.
// It lives only for the duration of the cycle: completion or abandonment
// discards it, nothing is persisted.
type PlanningSession struct {
	HouseholdID      string
	Step             SessionStep
	CurrentGoalIndex int

	MarkedItems   IDSet
	ReviewedItems IDSet
	SuccessItems  IDSet
	FailureItems  IDSet
	OngoingItems  IDSet

	RegularStartDate time.Time
	ActualStartDate  time.Time

	// CarryoverInstances groups gap instances by criterion. The all-clear
	// flag is set explicitly by the caller once every group has been
	// reviewed; it is never derived from the per-instance flags.
	CarryoverInstances   map[string][]CarryoverInstance
	IsCarryoverConfirmed bool

	PeriodID  string
	StartedAt time.Time
}

// NewPlanningSession creates a fresh session positioned at review_goals.
func NewPlanningSession(householdID string, regularStart, actualStart time.Time) *PlanningSession {
	return &PlanningSession{
		HouseholdID:        householdID,
		Step:               StepReviewGoals,
		MarkedItems:        NewIDSet(),
		ReviewedItems:      NewIDSet(),
		SuccessItems:       NewIDSet(),
		FailureItems:       NewIDSet(),
		OngoingItems:       NewIDSet(),
		RegularStartDate:   regularStart,
		ActualStartDate:    actualStart,
		CarryoverInstances: make(map[string][]CarryoverInstance),
		StartedAt:          actualStart,
	}
}

// HasCarryover reports whether any gap instances were detected at start.
func (s *PlanningSession) HasCarryover() bool {
	return len(s.CarryoverInstances) > 0
}

// UnconfirmedCarryoverCount counts instances not yet reviewed by the operator.
func (s *PlanningSession) UnconfirmedCarryoverCount() int {
	n := 0
	for _, group := range s.CarryoverInstances {
		for _, inst := range group {
			if !inst.IsConfirmed {
				n++
			}
		}
	}
	return n
}

// SetOutcome records the review outcome for an item, keeping the outcome sets
// mutually exclusive: an item ID appears in at most one of success, failure
// and ongoing.
func (s *PlanningSession) SetOutcome(itemID string, status ItemStatus) error {
	s.SuccessItems.Remove(itemID)
	s.FailureItems.Remove(itemID)
	s.OngoingItems.Remove(itemID)

	switch status {
	case ItemCompleted:
		s.SuccessItems.Add(itemID)
	case ItemCancelled:
		s.FailureItems.Add(itemID)
	case ItemOngoing:
		s.OngoingItems.Add(itemID)
	default:
		return fmt.Errorf("outcome %q is not one of completed/cancelled/ongoing", status)
	}
	s.ReviewedItems.Add(itemID)
	return nil
}

// MarkForScheduling adds an item to the set carried into the scheduling step.
func (s *PlanningSession) MarkForScheduling(itemID string) {
	s.MarkedItems.Add(itemID)
}

// Unmark removes an item from the scheduling set.
func (s *PlanningSession) Unmark(itemID string) {
	s.MarkedItems.Remove(itemID)
}
