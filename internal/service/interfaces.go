package service

import (
	"context"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/planning"
)

type GoalService interface {
	Create(ctx context.Context, g *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	List(ctx context.Context) ([]*domain.Goal, error)
	// ForReview returns the goals a session held today should walk through:
	// always the weekly set, plus monthly/quarterly/yearly goals when today
	// falls in the first week of the corresponding period.
	ForReview(ctx context.Context, today time.Time) ([]*domain.Goal, planning.LargerTimeScales, error)
	Update(ctx context.Context, g *domain.Goal) error
	Delete(ctx context.Context, id string) error
}

type EventService interface {
	Create(ctx context.Context, e *domain.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error)
	List(ctx context.Context) ([]*domain.CalendarEvent, error)
	// Instances expands every stored event into its dated occurrences inside
	// the window. Derived instances are computed on the fly and never stored.
	Instances(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.CalendarEvent, error)
	Update(ctx context.Context, e *domain.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

// UpcomingOccurrence pairs an itinerary item with one concrete date its
// schedule produces.
type UpcomingOccurrence struct {
	Item *domain.ItineraryItem
	At   time.Time
}

type ItineraryService interface {
	Create(ctx context.Context, i *domain.ItineraryItem) error
	GetByID(ctx context.Context, id string) (*domain.ItineraryItem, error)
	List(ctx context.Context) ([]*domain.ItineraryItem, error)
	ListByReference(ctx context.Context, referenceID string) ([]*domain.ItineraryItem, error)
	Upcoming(ctx context.Context, windowStart, windowEnd time.Time) ([]UpcomingOccurrence, error)
	Update(ctx context.Context, i *domain.ItineraryItem) error
	SetStatus(ctx context.Context, id string, status domain.ItemStatus) error
	Delete(ctx context.Context, id string) error
}

type MeetingService interface {
	// Get returns the configured weekly meeting, falling back to the default
	// (Sunday, no preferred time) when none has been saved yet.
	Get(ctx context.Context) (*domain.WeeklyMeeting, error)
	Set(ctx context.Context, m *domain.WeeklyMeeting) error
	// Seed writes the given settings only when no meeting row exists yet.
	// A row saved through Set always wins over seed values.
	Seed(ctx context.Context, dayOfWeek int, preferredTime string) error
	IsReviewNeeded(ctx context.Context, today time.Time) (bool, error)
}

type PlanningService interface {
	// StartSession opens the household's planning walk-through: it resolves
	// the effective week from the meeting config, creates or reuses the
	// pending weekly period, and detects carryover instances in the gap
	// between the nominal and actual start.
	StartSession(ctx context.Context, householdID string, now time.Time) (*domain.PlanningSession, error)
	GetSession(householdID string) (*domain.PlanningSession, error)
	AdvanceSession(ctx context.Context, householdID string) (domain.SessionStep, error)
	NextGoal(householdID string) (int, error)
	MarkItem(householdID, itemID string, marked bool) error
	SetItemOutcome(householdID, itemID string, status domain.ItemStatus) error
	// ConfirmCarryover records the operator's accept/reject decision for one
	// gap instance; acceptance also confirms the durable instance so it
	// counts toward progress.
	ConfirmCarryover(ctx context.Context, householdID, criteriaID, instanceID string, accepted bool) error
	// SetCarryoverConfirmed raises the session's all-clear flag and marks
	// the period as having absorbed carryover. It refuses while any gap
	// instance is still unreviewed.
	SetCarryoverConfirmed(ctx context.Context, householdID string) error
	// CompleteSession persists the review outcomes, completes the period,
	// stamps the meeting and discards the session.
	CompleteSession(ctx context.Context, householdID string, now time.Time) error
	AbandonSession(householdID string)
}

// AttentionItem is one tracked criterion flagged (or cleared) by the
// needs-attention rule.
type AttentionItem struct {
	CriteriaID     string
	GoalID         string
	Title          string
	Streak         int
	ActualCount    int
	TargetCount    int
	NeedsAttention bool
}

type ProgressService interface {
	// UpdateCriteriaStatus appends a dated instance to the log and folds it
	// into the current period's aggregate, in one transaction with the
	// append happening first.
	UpdateCriteriaStatus(ctx context.Context, criteriaID, goalID string, date time.Time, status domain.CriteriaStatus, confirmed bool) (*domain.CriteriaProgress, error)
	GetProgress(ctx context.Context, criteriaID, periodID string) (*domain.CriteriaProgress, error)
	// RebuildProgress recomputes the aggregate by replaying the instance log
	// over the period window.
	RebuildProgress(ctx context.Context, criteriaID, periodID string) (*domain.CriteriaProgress, error)
	AttentionReport(ctx context.Context, periodID string, now time.Time) ([]AttentionItem, error)
}
