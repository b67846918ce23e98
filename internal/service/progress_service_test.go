package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/repository"
	"github.com/alexanderramin/hearth/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressFixture struct {
	db       *sql.DB
	svc      ProgressService
	goal     *domain.Goal
	criteria repository.CriteriaRepo
	period   *domain.PlanningPeriod
}

func newProgressFixture(t *testing.T) *progressFixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	goalRepo := repository.NewSQLiteGoalRepo(database)
	periodRepo := repository.NewSQLitePeriodRepo(database)
	criteriaRepo := repository.NewSQLiteCriteriaRepo(database)
	ctx := context.Background()

	goal := testutil.NewTestGoal("Stay active",
		testutil.WithCriterion("Morning walk", 3, domain.ScaleDaily))
	require.NoError(t, goalRepo.Create(ctx, goal))

	start := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	period := testutil.NewTestPeriod(domain.PeriodWeekly, start, start.AddDate(0, 0, 7))
	require.NoError(t, periodRepo.Create(ctx, period))

	return &progressFixture{
		db:       database,
		svc:      NewProgressService(criteriaRepo, periodRepo, goalRepo, testutil.NewTestUoW(database)),
		goal:     goal,
		criteria: criteriaRepo,
		period:   period,
	}
}

func (f *progressFixture) criterionID() string {
	return f.goal.Criteria[0].ID
}

func TestProgressService_UpdateAppendsInstanceAndAggregate(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	agg, err := f.svc.UpdateCriteriaStatus(ctx, f.criterionID(), f.goal.ID, day, domain.CriteriaCompleted, true)
	require.NoError(t, err)
	assert.Equal(t, 1, agg.ActualCount)
	assert.Equal(t, 3, agg.TargetCount)
	assert.Equal(t, domain.CriteriaCompleted, agg.Status)

	instances, err := f.criteria.ListInstances(ctx, f.criterionID())
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.True(t, instances[0].IsConfirmed)

	stored, err := f.svc.GetProgress(ctx, f.criterionID(), f.period.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ActualCount)
}

func TestProgressService_TerminalStatusNotDowngraded(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.UpdateCriteriaStatus(ctx, f.criterionID(), f.goal.ID, day, domain.CriteriaCompleted, true)
	require.NoError(t, err)

	agg, err := f.svc.UpdateCriteriaStatus(ctx, f.criterionID(), f.goal.ID, day.AddDate(0, 0, 1), domain.CriteriaOngoing, true)
	require.NoError(t, err)
	assert.Equal(t, domain.CriteriaCompleted, agg.Status, "ongoing must not downgrade a terminal status")
	assert.Equal(t, 1, agg.ActualCount)
}

func TestProgressService_UnconfirmedDoesNotCount(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	agg, err := f.svc.UpdateCriteriaStatus(ctx, f.criterionID(), f.goal.ID, day, domain.CriteriaCompleted, false)
	require.NoError(t, err)
	assert.Zero(t, agg.ActualCount)
	assert.Equal(t, domain.CriteriaPending, agg.Status)

	// The instance is still recorded for later carryover review.
	instances, err := f.criteria.ListInstances(ctx, f.criterionID())
	require.NoError(t, err)
	assert.Len(t, instances, 1)
}

func TestProgressService_RollbackLeavesNoOrphan(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	// ExecContext #1 is the instance append, #2 the aggregate upsert.
	// Failing the upsert must also roll back the append.
	failUoW := &testutil.FailOnNthExecUoW{
		DB:     f.db,
		FailOn: 2,
		Err:    fmt.Errorf("injected aggregate write failure"),
	}
	svc := NewProgressService(f.criteria,
		repository.NewSQLitePeriodRepo(f.db),
		repository.NewSQLiteGoalRepo(f.db),
		failUoW)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	_, err := svc.UpdateCriteriaStatus(ctx, f.criterionID(), f.goal.ID, day, domain.CriteriaCompleted, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "injected aggregate write failure")

	instances, err := f.criteria.ListInstances(ctx, f.criterionID())
	require.NoError(t, err)
	assert.Empty(t, instances, "append must roll back with the failed aggregate write")

	_, err = f.svc.GetProgress(ctx, f.criterionID(), f.period.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProgressService_RebuildMatchesIncremental(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	for d := 4; d <= 6; d++ {
		day := time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
		_, err := f.svc.UpdateCriteriaStatus(ctx, f.criterionID(), f.goal.ID, day, domain.CriteriaCompleted, true)
		require.NoError(t, err)
	}

	incremental, err := f.svc.GetProgress(ctx, f.criterionID(), f.period.ID)
	require.NoError(t, err)

	rebuilt, err := f.svc.RebuildProgress(ctx, f.criterionID(), f.period.ID)
	require.NoError(t, err)
	assert.Equal(t, incremental.ActualCount, rebuilt.ActualCount)
	assert.Equal(t, incremental.Status, rebuilt.Status)
	assert.Equal(t, incremental.TargetCount, rebuilt.TargetCount)

	// Replaying again changes nothing.
	again, err := f.svc.RebuildProgress(ctx, f.criterionID(), f.period.ID)
	require.NoError(t, err)
	assert.Equal(t, rebuilt.ActualCount, again.ActualCount)
	assert.Equal(t, rebuilt.Status, again.Status)
}

func TestProgressService_AttentionReport(t *testing.T) {
	f := newProgressFixture(t)
	ctx := context.Background()

	// One completion early in the week, then nothing.
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	_, err := f.svc.UpdateCriteriaStatus(ctx, f.criterionID(), f.goal.ID, day, domain.CriteriaCompleted, true)
	require.NoError(t, err)

	// Friday: most of the week gone, streak broken, behind target.
	now := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)
	report, err := f.svc.AttentionReport(ctx, f.period.ID, now)
	require.NoError(t, err)
	require.Len(t, report, 1)
	item := report[0]
	assert.Equal(t, f.criterionID(), item.CriteriaID)
	assert.Equal(t, f.goal.ID, item.GoalID)
	assert.Zero(t, item.Streak)
	assert.Equal(t, 1, item.ActualCount)
	assert.Equal(t, 3, item.TargetCount)
	assert.True(t, item.NeedsAttention)
}
