package domain

import "fmt"

// TimeScale is the granularity of a recurring cycle, ordered by span.
type TimeScale string

const (
	ScaleDaily     TimeScale = "daily"
	ScaleWeekly    TimeScale = "weekly"
	ScaleMonthly   TimeScale = "monthly"
	ScaleQuarterly TimeScale = "quarterly"
	ScaleYearly    TimeScale = "yearly"
)

var timeScaleRank = map[TimeScale]int{
	ScaleDaily:     0,
	ScaleWeekly:    1,
	ScaleMonthly:   2,
	ScaleQuarterly: 3,
	ScaleYearly:    4,
}

// Valid reports whether s is one of the five known scales.
func (s TimeScale) Valid() bool {
	_, ok := timeScaleRank[s]
	return ok
}

// Less orders scales by granularity (daily < weekly < ... < yearly).
func (s TimeScale) Less(other TimeScale) bool {
	return timeScaleRank[s] < timeScaleRank[other]
}

// ParseTimeScale converts a string into a TimeScale, rejecting unknown values.
func ParseTimeScale(v string) (TimeScale, error) {
	s := TimeScale(v)
	if !s.Valid() {
		return "", fmt.Errorf("unknown time scale %q", v)
	}
	return s, nil
}

// ValidRecurrenceFrequencies is the subset of scales a RecurrenceRule accepts.
// Quarterly cycles exist only as planning boundaries, never as event rules.
var ValidRecurrenceFrequencies = map[TimeScale]bool{
	ScaleDaily:   true,
	ScaleWeekly:  true,
	ScaleMonthly: true,
	ScaleYearly:  true,
}

type ItemType string

const (
	ItemTask        ItemType = "task"
	ItemRoutine     ItemType = "routine"
	ItemEvent       ItemType = "event"
	ItemProject     ItemType = "project"
	ItemOneTimeTask ItemType = "one-time-task"
)

// ValidItemTypes is the canonical set of accepted itinerary item type strings.
var ValidItemTypes = map[string]bool{
	"task": true, "routine": true, "event": true,
	"project": true, "one-time-task": true,
}

type ItemStatus string

const (
	ItemPending   ItemStatus = "pending"
	ItemCompleted ItemStatus = "completed"
	ItemCancelled ItemStatus = "cancelled"
	ItemOngoing   ItemStatus = "ongoing"
)

type CriteriaStatus string

const (
	CriteriaPending   CriteriaStatus = "pending"
	CriteriaCompleted CriteriaStatus = "completed"
	CriteriaFailed    CriteriaStatus = "failed"
	CriteriaOngoing   CriteriaStatus = "ongoing"
)

// Terminal reports whether the status is final. Terminal statuses are never
// downgraded by a later ongoing event.
func (s CriteriaStatus) Terminal() bool {
	return s == CriteriaCompleted || s == CriteriaFailed
}

type PeriodType string

const (
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
)

type PeriodStatus string

const (
	PeriodPending   PeriodStatus = "pending"
	PeriodCompleted PeriodStatus = "completed"
)

// SessionStep is a position in the planning-cycle walk-through.
type SessionStep string

const (
	StepNotStarted        SessionStep = "not_started"
	StepReviewGoals       SessionStep = "review_goals"
	StepMarkForScheduling SessionStep = "mark_for_scheduling"
	StepScheduleItems     SessionStep = "schedule_items"
	StepComplete          SessionStep = "complete"
)

// sessionStepOrder fixes the forward-only progression of a planning session.
var sessionStepOrder = []SessionStep{
	StepNotStarted,
	StepReviewGoals,
	StepMarkForScheduling,
	StepScheduleItems,
	StepComplete,
}

// NextStep returns the step following s, or s itself when terminal.
func NextStep(s SessionStep) SessionStep {
	for i, step := range sessionStepOrder {
		if step == s && i+1 < len(sessionStepOrder) {
			return sessionStepOrder[i+1]
		}
	}
	return s
}
