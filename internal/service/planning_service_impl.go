package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/planning"
	"github.com/alexanderramin/hearth/internal/repository"
	"github.com/google/uuid"
)

type planningService struct {
	registry *planning.Registry
	periods  repository.PeriodRepo
	criteria repository.CriteriaRepo
	meetings repository.MeetingRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPlanningService(
	registry *planning.Registry,
	periods repository.PeriodRepo,
	criteria repository.CriteriaRepo,
	meetings repository.MeetingRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) PlanningService {
	return &planningService{
		registry: registry,
		periods:  periods,
		criteria: criteria,
		meetings: meetings,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *planningService) StartSession(ctx context.Context, householdID string, now time.Time) (session *domain.PlanningSession, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"household": householdID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "start-session",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	meeting, err := s.meetings.Get(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		meeting = domain.DefaultWeeklyMeeting()
	}

	// Comparisons run on calendar days: a session held any time on the
	// meeting day starts on time.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	regular := planning.StartOfWeek(now, meeting.DayOfWeek)
	effective := planning.EffectiveStartDate(now, meeting)

	period, err := s.resolvePeriod(ctx, effective)
	if err != nil {
		return nil, err
	}
	fields["period"] = period.ID

	session = domain.NewPlanningSession(householdID, regular, today)
	session.PeriodID = period.ID

	// A reused period whose carryover was already dealt with does not prompt
	// a second time.
	if regular.Before(today) && !period.CarryoverFromPrevious {
		gap, err := s.criteria.ListInstancesInRange(ctx, regular, today.Add(-time.Second))
		if err != nil {
			return nil, err
		}
		planning.DetectCarryover(session, gap)
	}
	fields["carryover_groups"] = len(session.CarryoverInstances)

	if err := s.registry.Put(session); err != nil {
		return nil, err
	}
	return session, nil
}

// resolvePeriod reuses the pending weekly period when one is open, otherwise
// creates a fresh one anchored at the effective start.
func (s *planningService) resolvePeriod(ctx context.Context, effectiveStart time.Time) (*domain.PlanningPeriod, error) {
	period, err := s.periods.GetPending(ctx, domain.PeriodWeekly)
	if err == nil {
		return period, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	period = &domain.PlanningPeriod{
		ID:        uuid.New().String(),
		StartDate: effectiveStart,
		EndDate:   effectiveStart.AddDate(0, 0, 7),
		Type:      domain.PeriodWeekly,
		Status:    domain.PeriodPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.periods.Create(ctx, period); err != nil {
		return nil, err
	}
	return period, nil
}

func (s *planningService) GetSession(householdID string) (*domain.PlanningSession, error) {
	return s.registry.Get(householdID)
}

func (s *planningService) AdvanceSession(ctx context.Context, householdID string) (domain.SessionStep, error) {
	var step domain.SessionStep
	err := s.registry.Mutate(householdID, func(sess *domain.PlanningSession) error {
		if err := planning.Advance(sess); err != nil {
			return err
		}
		step = sess.Step
		return nil
	})
	return step, err
}

func (s *planningService) NextGoal(householdID string) (int, error) {
	var idx int
	err := s.registry.Mutate(householdID, func(sess *domain.PlanningSession) error {
		sess.CurrentGoalIndex++
		idx = sess.CurrentGoalIndex
		return nil
	})
	return idx, err
}

func (s *planningService) MarkItem(householdID, itemID string, marked bool) error {
	return s.registry.Mutate(householdID, func(sess *domain.PlanningSession) error {
		if marked {
			sess.MarkForScheduling(itemID)
		} else {
			sess.Unmark(itemID)
		}
		return nil
	})
}

func (s *planningService) SetItemOutcome(householdID, itemID string, status domain.ItemStatus) error {
	return s.registry.Mutate(householdID, func(sess *domain.PlanningSession) error {
		return sess.SetOutcome(itemID, status)
	})
}

func (s *planningService) ConfirmCarryover(ctx context.Context, householdID, criteriaID, instanceID string, accepted bool) error {
	err := s.registry.Mutate(householdID, func(sess *domain.PlanningSession) error {
		if !planning.ConfirmCarryover(sess, criteriaID, instanceID, accepted) {
			return fmt.Errorf("carryover instance %s/%s: %w", criteriaID, instanceID, repository.ErrNotFound)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if accepted {
		// Accepted instances become confirmed in the durable log so they
		// count toward this cycle's progress.
		return s.criteria.SetInstanceConfirmed(ctx, instanceID, true)
	}
	return nil
}

func (s *planningService) SetCarryoverConfirmed(ctx context.Context, householdID string) error {
	var periodID string
	err := s.registry.Mutate(householdID, func(sess *domain.PlanningSession) error {
		if n := sess.UnconfirmedCarryoverCount(); n > 0 {
			return fmt.Errorf("%w: %d instance(s) unreviewed", planning.ErrCarryoverUnconfirmed, n)
		}
		sess.IsCarryoverConfirmed = true
		periodID = sess.PeriodID
		return nil
	})
	if err != nil {
		return err
	}
	return s.periods.SetCarryover(ctx, periodID, true)
}

func (s *planningService) CompleteSession(ctx context.Context, householdID string, now time.Time) (err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"household": householdID}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "complete-session",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	session, err := s.registry.Get(householdID)
	if err != nil {
		return err
	}
	if session.Step != domain.StepComplete {
		return fmt.Errorf("session is at %s, advance to %s before completing", session.Step, domain.StepComplete)
	}
	fields["period"] = session.PeriodID
	fields["reviewed"] = session.ReviewedItems.Len()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txItems := repository.NewSQLiteItemRepo(tx)
		txPeriods := repository.NewSQLitePeriodRepo(tx)
		txMeetings := repository.NewSQLiteMeetingRepo(tx)

		if err := persistOutcomes(ctx, txItems, session); err != nil {
			return err
		}
		if err := txPeriods.Complete(ctx, session.PeriodID); err != nil {
			return err
		}
		if err := txMeetings.StampCompleted(ctx, now); err != nil {
			// First completion may predate any saved meeting config.
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			m := domain.DefaultWeeklyMeeting()
			m.LastCompleted = &now
			m.UpdatedAt = now
			if err := txMeetings.Upsert(ctx, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.registry.Discard(householdID)
	return nil
}

// persistOutcomes writes the session's reviewed statuses back to the items.
// Items deleted mid-session are skipped rather than failing the completion.
func persistOutcomes(ctx context.Context, items repository.ItemRepo, session *domain.PlanningSession) error {
	apply := func(ids []string, status domain.ItemStatus) error {
		for _, id := range ids {
			if err := items.UpdateStatus(ctx, id, status); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return err
			}
		}
		return nil
	}
	if err := apply(session.SuccessItems.Sorted(), domain.ItemCompleted); err != nil {
		return err
	}
	if err := apply(session.FailureItems.Sorted(), domain.ItemCancelled); err != nil {
		return err
	}
	return apply(session.OngoingItems.Sorted(), domain.ItemOngoing)
}

func (s *planningService) AbandonSession(householdID string) {
	s.registry.Discard(householdID)
}
