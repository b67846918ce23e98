package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/planning"
	"github.com/alexanderramin/hearth/internal/repository"
	"github.com/alexanderramin/hearth/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPlanningFixture(t *testing.T) (*sql.DB, PlanningService) {
	t.Helper()
	database := testutil.NewTestDB(t)
	svc := NewPlanningService(
		planning.NewRegistry(),
		repository.NewSQLitePeriodRepo(database),
		repository.NewSQLiteCriteriaRepo(database),
		repository.NewSQLiteMeetingRepo(database),
		testutil.NewTestUoW(database),
	)
	return database, svc
}

// sunday is a meeting-day session start: regular and actual start coincide.
var sunday = time.Date(2024, 3, 3, 10, 0, 0, 0, time.UTC)

func TestPlanningService_SessionLifecycle(t *testing.T) {
	database, svc := newPlanningFixture(t)
	itemRepo := repository.NewSQLiteItemRepo(database)
	periodRepo := repository.NewSQLitePeriodRepo(database)
	meetingRepo := repository.NewSQLiteMeetingRepo(database)
	ctx := context.Background()

	item := testutil.NewTestItem("goal-1", "Fix the fence")
	require.NoError(t, itemRepo.Create(ctx, item))

	session, err := svc.StartSession(ctx, "house-1", sunday)
	require.NoError(t, err)
	assert.Equal(t, domain.StepReviewGoals, session.Step)
	assert.False(t, session.HasCarryover(), "on-time start has no gap to carry over")
	assert.NotEmpty(t, session.PeriodID)

	require.NoError(t, svc.SetItemOutcome("house-1", item.ID, domain.ItemCompleted))
	require.NoError(t, svc.MarkItem("house-1", item.ID, true))

	for _, want := range []domain.SessionStep{
		domain.StepMarkForScheduling, domain.StepScheduleItems, domain.StepComplete,
	} {
		step, err := svc.AdvanceSession(ctx, "house-1")
		require.NoError(t, err)
		assert.Equal(t, want, step)
	}

	require.NoError(t, svc.CompleteSession(ctx, "house-1", sunday))

	// Outcome persisted, period closed, meeting stamped, session gone.
	fetched, err := itemRepo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ItemCompleted, fetched.Status)

	period, err := periodRepo.GetByID(ctx, session.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, domain.PeriodCompleted, period.Status)

	meeting, err := meetingRepo.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, meeting.LastCompleted)
	assert.True(t, meeting.LastCompleted.Equal(sunday))

	_, err = svc.GetSession("house-1")
	assert.ErrorIs(t, err, planning.ErrNoSession)
}

func TestPlanningService_CompleteRequiresFinalStep(t *testing.T) {
	_, svc := newPlanningFixture(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, "house-1", sunday)
	require.NoError(t, err)

	err = svc.CompleteSession(ctx, "house-1", sunday)
	assert.Error(t, err)

	// Still active after the refused completion.
	_, err = svc.GetSession("house-1")
	assert.NoError(t, err)
}

func TestPlanningService_SecondStartRejected(t *testing.T) {
	_, svc := newPlanningFixture(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, "house-1", sunday)
	require.NoError(t, err)

	_, err = svc.StartSession(ctx, "house-1", sunday)
	assert.ErrorIs(t, err, planning.ErrSessionActive)
}

func TestPlanningService_CarryoverFlow(t *testing.T) {
	database, svc := newPlanningFixture(t)
	criteriaRepo := repository.NewSQLiteCriteriaRepo(database)
	periodRepo := repository.NewSQLitePeriodRepo(database)
	ctx := context.Background()

	// Instances dated inside the gap between Sunday and a Wednesday start.
	inGap := testutil.NewTestInstance("crit-1", "goal-1",
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	inGap.IsConfirmed = false
	require.NoError(t, criteriaRepo.AppendInstance(ctx, inGap))

	wednesday := time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC)
	session, err := svc.StartSession(ctx, "house-1", wednesday)
	require.NoError(t, err)
	require.True(t, session.HasCarryover())
	assert.Equal(t, 1, session.UnconfirmedCarryoverCount())

	// review_goals → mark_for_scheduling is free; leaving marking is gated.
	_, err = svc.AdvanceSession(ctx, "house-1")
	require.NoError(t, err)
	_, err = svc.AdvanceSession(ctx, "house-1")
	assert.ErrorIs(t, err, planning.ErrCarryoverUnconfirmed)

	// The all-clear is refused while the instance is unreviewed.
	err = svc.SetCarryoverConfirmed(ctx, "house-1")
	assert.ErrorIs(t, err, planning.ErrCarryoverUnconfirmed)

	require.NoError(t, svc.ConfirmCarryover(ctx, "house-1", "crit-1", inGap.ID, true))
	require.NoError(t, svc.SetCarryoverConfirmed(ctx, "house-1"))

	step, err := svc.AdvanceSession(ctx, "house-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StepScheduleItems, step)

	// Acceptance confirmed the durable instance.
	instances, err := criteriaRepo.ListInstances(ctx, "crit-1")
	require.NoError(t, err)
	require.Len(t, instances, 1)
	assert.True(t, instances[0].IsConfirmed)

	// And the period remembers the carryover was absorbed.
	period, err := periodRepo.GetByID(ctx, session.PeriodID)
	require.NoError(t, err)
	assert.True(t, period.CarryoverFromPrevious)
}

func TestPlanningService_ReusedPeriodSkipsCarryoverPrompt(t *testing.T) {
	database, svc := newPlanningFixture(t)
	criteriaRepo := repository.NewSQLiteCriteriaRepo(database)
	ctx := context.Background()

	inGap := testutil.NewTestInstance("crit-1", "goal-1",
		time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC))
	inGap.IsConfirmed = false
	require.NoError(t, criteriaRepo.AppendInstance(ctx, inGap))

	wednesday := time.Date(2024, 3, 6, 19, 0, 0, 0, time.UTC)
	session, err := svc.StartSession(ctx, "house-1", wednesday)
	require.NoError(t, err)
	require.True(t, session.HasCarryover())

	require.NoError(t, svc.ConfirmCarryover(ctx, "house-1", "crit-1", inGap.ID, false))
	require.NoError(t, svc.SetCarryoverConfirmed(ctx, "house-1"))

	// Abandon and restart: the pending period is reused and the already
	// reviewed gap is not surfaced again.
	svc.AbandonSession("house-1")
	restarted, err := svc.StartSession(ctx, "house-1", wednesday)
	require.NoError(t, err)
	assert.Equal(t, session.PeriodID, restarted.PeriodID)
	assert.False(t, restarted.HasCarryover())
}

func TestPlanningService_PeriodReuse(t *testing.T) {
	_, svc := newPlanningFixture(t)
	ctx := context.Background()

	first, err := svc.StartSession(ctx, "house-1", sunday)
	require.NoError(t, err)
	svc.AbandonSession("house-1")

	second, err := svc.StartSession(ctx, "house-1", sunday.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first.PeriodID, second.PeriodID, "pending period is reused, not duplicated")
}

func TestPlanningService_OutcomeMutualExclusion(t *testing.T) {
	_, svc := newPlanningFixture(t)
	ctx := context.Background()

	_, err := svc.StartSession(ctx, "house-1", sunday)
	require.NoError(t, err)

	require.NoError(t, svc.SetItemOutcome("house-1", "item-1", domain.ItemCompleted))
	require.NoError(t, svc.SetItemOutcome("house-1", "item-1", domain.ItemOngoing))

	session, err := svc.GetSession("house-1")
	require.NoError(t, err)
	assert.False(t, session.SuccessItems.Has("item-1"))
	assert.True(t, session.OngoingItems.Has("item-1"))

	err = svc.SetItemOutcome("house-1", "item-1", domain.ItemPending)
	assert.Error(t, err, "pending is not a review outcome")
}
