package testutil

import (
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/google/uuid"
)

// Goal options
type GoalOption func(*domain.Goal)

func WithTimeScale(ts domain.TimeScale) GoalOption {
	return func(g *domain.Goal) {
		g.TimeScale = ts
	}
}

func WithSteps(steps ...string) GoalOption {
	return func(g *domain.Goal) {
		g.Steps = steps
	}
}

func WithCriterion(title string, target int, freq domain.TimeScale) GoalOption {
	return func(g *domain.Goal) {
		g.Criteria = append(g.Criteria, domain.SuccessCriterion{
			ID:          uuid.New().String(),
			GoalID:      g.ID,
			Title:       title,
			TargetCount: target,
			Frequency:   freq,
		})
	}
}

func NewTestGoal(title string, opts ...GoalOption) *domain.Goal {
	now := time.Now().UTC()
	g := &domain.Goal{
		ID:        uuid.New().String(),
		Title:     title,
		TimeScale: domain.ScaleWeekly,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// CalendarEvent options
type EventOption func(*domain.CalendarEvent)

func WithRecurrence(r *domain.RecurrenceRule) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Recurrence = r
	}
}

func WithEventTimes(start, end time.Time) EventOption {
	return func(e *domain.CalendarEvent) {
		e.Start = start
		e.End = end
	}
}

func NewTestEvent(title string, opts ...EventOption) *domain.CalendarEvent {
	now := time.Now().UTC()
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	e := &domain.CalendarEvent{
		ID:        uuid.New().String(),
		Title:     title,
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ItineraryItem options
type ItemOption func(*domain.ItineraryItem)

func WithItemType(t domain.ItemType) ItemOption {
	return func(i *domain.ItineraryItem) {
		i.Type = t
	}
}

func WithItemStatus(s domain.ItemStatus) ItemOption {
	return func(i *domain.ItineraryItem) {
		i.Status = s
	}
}

func WithCriteriaID(id string) ItemOption {
	return func(i *domain.ItineraryItem) {
		i.CriteriaID = id
	}
}

func WithDueDate(d time.Time) ItemOption {
	return func(i *domain.ItineraryItem) {
		i.DueDate = &d
	}
}

func WithTargetDate(d time.Time) ItemOption {
	return func(i *domain.ItineraryItem) {
		i.TargetDate = &d
	}
}

func WithSchedule(s *domain.Schedule) ItemOption {
	return func(i *domain.ItineraryItem) {
		i.Schedule = s
	}
}

func NewTestItem(referenceID, title string, opts ...ItemOption) *domain.ItineraryItem {
	now := time.Now().UTC()
	i := &domain.ItineraryItem{
		ID:          uuid.New().String(),
		Type:        domain.ItemTask,
		ReferenceID: referenceID,
		Title:       title,
		Status:      domain.ItemPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// WeeklySchedule builds a repeating weekly schedule with one slot per given
// weekday, all at the same clock time.
func WeeklySchedule(start time.Time, clock string, days ...int) *domain.Schedule {
	repeat := domain.ScaleWeekly
	s := &domain.Schedule{StartDate: start, Repeat: &repeat}
	for _, d := range days {
		s.Slots = append(s.Slots, domain.ScheduleSlot{Day: d, Time: clock})
	}
	return s
}

// CriteriaInstance options
type InstanceOption func(*domain.CriteriaInstance)

func WithInstanceStatus(s domain.CriteriaStatus) InstanceOption {
	return func(ci *domain.CriteriaInstance) {
		ci.Status = s
	}
}

func Confirmed() InstanceOption {
	return func(ci *domain.CriteriaInstance) {
		ci.IsConfirmed = true
	}
}

func NewTestInstance(criteriaID, goalID string, date time.Time, opts ...InstanceOption) *domain.CriteriaInstance {
	ci := &domain.CriteriaInstance{
		ID:          uuid.New().String(),
		CriteriaID:  criteriaID,
		GoalID:      goalID,
		Date:        date,
		IsConfirmed: true,
		Status:      domain.CriteriaPending,
		CreatedAt:   time.Now().UTC(),
	}
	for _, opt := range opts {
		opt(ci)
	}
	return ci
}

// PlanningPeriod options
type PeriodOption func(*domain.PlanningPeriod)

func WithPeriodStatus(s domain.PeriodStatus) PeriodOption {
	return func(p *domain.PlanningPeriod) {
		p.Status = s
	}
}

func WithCarryover() PeriodOption {
	return func(p *domain.PlanningPeriod) {
		p.CarryoverFromPrevious = true
	}
}

func NewTestPeriod(periodType domain.PeriodType, start, end time.Time, opts ...PeriodOption) *domain.PlanningPeriod {
	now := time.Now().UTC()
	p := &domain.PlanningPeriod{
		ID:        uuid.New().String(),
		StartDate: start,
		EndDate:   end,
		Type:      periodType,
		Status:    domain.PeriodPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}
