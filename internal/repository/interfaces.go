package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
)

// ErrNotFound is the sentinel wrapped by every repository when a row is
// missing. Callers check it with errors.Is and usually treat it as a no-op.
var ErrNotFound = errors.New("not found")

type GoalRepo interface {
	Create(ctx context.Context, g *domain.Goal) error
	GetByID(ctx context.Context, id string) (*domain.Goal, error)
	List(ctx context.Context) ([]*domain.Goal, error)
	ListByTimeScales(ctx context.Context, scales []domain.TimeScale) ([]*domain.Goal, error)
	Update(ctx context.Context, g *domain.Goal) error
	Delete(ctx context.Context, id string) error
}

type EventRepo interface {
	Create(ctx context.Context, e *domain.CalendarEvent) error
	GetByID(ctx context.Context, id string) (*domain.CalendarEvent, error)
	List(ctx context.Context) ([]*domain.CalendarEvent, error)
	ListInRange(ctx context.Context, start, end time.Time) ([]*domain.CalendarEvent, error)
	Update(ctx context.Context, e *domain.CalendarEvent) error
	Delete(ctx context.Context, id string) error
}

type ItemRepo interface {
	Create(ctx context.Context, i *domain.ItineraryItem) error
	GetByID(ctx context.Context, id string) (*domain.ItineraryItem, error)
	List(ctx context.Context) ([]*domain.ItineraryItem, error)
	ListByReference(ctx context.Context, referenceID string) ([]*domain.ItineraryItem, error)
	Update(ctx context.Context, i *domain.ItineraryItem) error
	UpdateStatus(ctx context.Context, id string, status domain.ItemStatus) error
	Delete(ctx context.Context, id string) error
}

// CriteriaRepo persists the instance log and its per-period aggregates.
// Instances are append-only; aggregates are upserts keyed by
// (criteria, period).
type CriteriaRepo interface {
	AppendInstance(ctx context.Context, inst *domain.CriteriaInstance) error
	ListInstances(ctx context.Context, criteriaID string) ([]domain.CriteriaInstance, error)
	ListInstancesInRange(ctx context.Context, start, end time.Time) ([]domain.CriteriaInstance, error)
	SetInstanceConfirmed(ctx context.Context, instanceID string, confirmed bool) error
	GetProgress(ctx context.Context, criteriaID, periodID string) (*domain.CriteriaProgress, error)
	ListProgressByPeriod(ctx context.Context, periodID string) ([]*domain.CriteriaProgress, error)
	UpsertProgress(ctx context.Context, p *domain.CriteriaProgress) error
}

type PeriodRepo interface {
	Create(ctx context.Context, p *domain.PlanningPeriod) error
	GetByID(ctx context.Context, id string) (*domain.PlanningPeriod, error)
	GetPending(ctx context.Context, periodType domain.PeriodType) (*domain.PlanningPeriod, error)
	SetCarryover(ctx context.Context, id string, carried bool) error
	Complete(ctx context.Context, id string) error
	List(ctx context.Context) ([]*domain.PlanningPeriod, error)
}

// MeetingRepo stores the process-wide weekly meeting config as a singleton
// row.
type MeetingRepo interface {
	Get(ctx context.Context) (*domain.WeeklyMeeting, error)
	Upsert(ctx context.Context, m *domain.WeeklyMeeting) error
	StampCompleted(ctx context.Context, at time.Time) error
}
