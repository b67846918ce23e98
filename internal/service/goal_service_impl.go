package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/planning"
	"github.com/alexanderramin/hearth/internal/repository"
	"github.com/google/uuid"
)

type goalService struct {
	goals repository.GoalRepo
}

func NewGoalService(goals repository.GoalRepo) GoalService {
	return &goalService{goals: goals}
}

func (s *goalService) Create(ctx context.Context, g *domain.Goal) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	if !g.TimeScale.Valid() {
		return fmt.Errorf("goal time scale %q is not recognized", g.TimeScale)
	}
	for i := range g.Criteria {
		if g.Criteria[i].ID == "" {
			g.Criteria[i].ID = uuid.New().String()
		}
		g.Criteria[i].GoalID = g.ID
	}
	now := time.Now().UTC()
	g.CreatedAt = now
	g.UpdatedAt = now
	return s.goals.Create(ctx, g)
}

func (s *goalService) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	return s.goals.GetByID(ctx, id)
}

func (s *goalService) List(ctx context.Context) ([]*domain.Goal, error) {
	return s.goals.List(ctx)
}

func (s *goalService) ForReview(ctx context.Context, today time.Time) ([]*domain.Goal, planning.LargerTimeScales, error) {
	larger := planning.ShouldIncludeLargerTimeScaleGoals(today)

	scales := []domain.TimeScale{domain.ScaleDaily, domain.ScaleWeekly}
	if larger.Monthly {
		scales = append(scales, domain.ScaleMonthly)
	}
	if larger.Quarterly {
		scales = append(scales, domain.ScaleQuarterly)
	}
	if larger.Yearly {
		scales = append(scales, domain.ScaleYearly)
	}

	goals, err := s.goals.ListByTimeScales(ctx, scales)
	if err != nil {
		return nil, larger, err
	}
	return goals, larger, nil
}

func (s *goalService) Update(ctx context.Context, g *domain.Goal) error {
	if !g.TimeScale.Valid() {
		return fmt.Errorf("goal time scale %q is not recognized", g.TimeScale)
	}
	for i := range g.Criteria {
		if g.Criteria[i].ID == "" {
			g.Criteria[i].ID = uuid.New().String()
		}
		g.Criteria[i].GoalID = g.ID
	}
	g.UpdatedAt = time.Now().UTC()
	return s.goals.Update(ctx, g)
}

func (s *goalService) Delete(ctx context.Context, id string) error {
	return s.goals.Delete(ctx, id)
}
