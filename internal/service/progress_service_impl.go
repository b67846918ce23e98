package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/db"
	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/occurrence"
	"github.com/alexanderramin/hearth/internal/progress"
	"github.com/alexanderramin/hearth/internal/repository"
	"github.com/google/uuid"
)

type progressService struct {
	criteria repository.CriteriaRepo
	periods  repository.PeriodRepo
	goals    repository.GoalRepo
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewProgressService(
	criteria repository.CriteriaRepo,
	periods repository.PeriodRepo,
	goals repository.GoalRepo,
	uow db.UnitOfWork,
	observers ...UseCaseObserver,
) ProgressService {
	return &progressService{
		criteria: criteria,
		periods:  periods,
		goals:    goals,
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *progressService) UpdateCriteriaStatus(ctx context.Context, criteriaID, goalID string, date time.Time, status domain.CriteriaStatus, confirmed bool) (result *domain.CriteriaProgress, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"criteria": criteriaID, "status": string(status)}
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "update-criteria-status",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	criterion, err := s.findCriterion(ctx, goalID, criteriaID)
	if err != nil {
		return nil, err
	}

	period, err := s.periods.GetPending(ctx, domain.PeriodWeekly)
	if err != nil {
		return nil, fmt.Errorf("no open weekly period, start a planning session first: %w", err)
	}
	fields["period"] = period.ID

	inst := &domain.CriteriaInstance{
		ID:          uuid.New().String(),
		CriteriaID:  criteriaID,
		GoalID:      goalID,
		Date:        date,
		IsConfirmed: confirmed,
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txCriteria := repository.NewSQLiteCriteriaRepo(tx)

		// The instance is the durable fact and goes in first; the aggregate
		// write must never land without it.
		if err := txCriteria.AppendInstance(ctx, inst); err != nil {
			return err
		}

		agg, err := txCriteria.GetProgress(ctx, criteriaID, period.ID)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return err
			}
			agg = &domain.CriteriaProgress{
				ID:          uuid.New().String(),
				CriteriaID:  criteriaID,
				PeriodID:    period.ID,
				TargetCount: criterion.TargetCount,
				Status:      domain.CriteriaPending,
			}
		}

		progress.Apply(agg, *inst)
		agg.UpdatedAt = time.Now().UTC()
		if err := txCriteria.UpsertProgress(ctx, agg); err != nil {
			return err
		}
		result = agg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *progressService) findCriterion(ctx context.Context, goalID, criteriaID string) (*domain.SuccessCriterion, error) {
	goal, err := s.goals.GetByID(ctx, goalID)
	if err != nil {
		return nil, err
	}
	for i := range goal.Criteria {
		if goal.Criteria[i].ID == criteriaID {
			return &goal.Criteria[i], nil
		}
	}
	return nil, fmt.Errorf("criterion %s on goal %s: %w", criteriaID, goalID, repository.ErrNotFound)
}

func (s *progressService) GetProgress(ctx context.Context, criteriaID, periodID string) (*domain.CriteriaProgress, error) {
	return s.criteria.GetProgress(ctx, criteriaID, periodID)
}

func (s *progressService) RebuildProgress(ctx context.Context, criteriaID, periodID string) (*domain.CriteriaProgress, error) {
	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}

	existing, err := s.criteria.GetProgress(ctx, criteriaID, periodID)
	if err != nil {
		return nil, err
	}

	instances, err := s.criteria.ListInstances(ctx, criteriaID)
	if err != nil {
		return nil, err
	}
	inPeriod := instances[:0:0]
	for _, inst := range instances {
		if !inst.Date.Before(period.StartDate) && inst.Date.Before(period.EndDate) {
			inPeriod = append(inPeriod, inst)
		}
	}

	agg := progress.Rebuild(criteriaID, periodID, existing.TargetCount, inPeriod)
	agg.ID = existing.ID
	agg.UpdatedAt = time.Now().UTC()
	if err := s.criteria.UpsertProgress(ctx, &agg); err != nil {
		return nil, err
	}
	return &agg, nil
}

func (s *progressService) AttentionReport(ctx context.Context, periodID string, now time.Time) ([]AttentionItem, error) {
	period, err := s.periods.GetByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	aggregates, err := s.criteria.ListProgressByPeriod(ctx, periodID)
	if err != nil {
		return nil, err
	}
	criteria, err := s.indexCriteria(ctx)
	if err != nil {
		return nil, err
	}

	var report []AttentionItem
	for _, agg := range aggregates {
		crit, ok := criteria[agg.CriteriaID]
		if !ok {
			continue
		}

		instances, err := s.criteria.ListInstances(ctx, agg.CriteriaID)
		if err != nil {
			return nil, err
		}
		var completed []time.Time
		hasActivity := false
		for _, inst := range instances {
			if !inst.IsConfirmed {
				continue
			}
			hasActivity = true
			if inst.Status == domain.CriteriaCompleted {
				completed = append(completed, inst.Date)
			}
		}

		end := now
		if period.EndDate.Before(end) {
			end = period.EndDate
		}
		expected, err := occurrence.Expand(period.StartDate, end, crit.Frequency)
		if err != nil {
			return nil, err
		}

		streak := progress.Streak(expected, completed)
		report = append(report, AttentionItem{
			CriteriaID:  agg.CriteriaID,
			GoalID:      crit.GoalID,
			Title:       crit.Title,
			Streak:      streak,
			ActualCount: agg.ActualCount,
			TargetCount: agg.TargetCount,
			NeedsAttention: progress.NeedsAttention(progress.AttentionInput{
				Streak:        streak,
				HasActivity:   hasActivity,
				ActualCount:   agg.ActualCount,
				TargetCount:   agg.TargetCount,
				PeriodElapsed: period.Elapsed(now),
			}),
		})
	}
	return report, nil
}

func (s *progressService) indexCriteria(ctx context.Context) (map[string]domain.SuccessCriterion, error) {
	goals, err := s.goals.List(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[string]domain.SuccessCriterion)
	for _, g := range goals {
		for _, c := range g.Criteria {
			index[c.ID] = c
		}
	}
	return index, nil
}
