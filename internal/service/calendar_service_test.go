package service

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/repository"
	"github.com/alexanderramin/hearth/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventService_Instances(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewEventService(repository.NewSQLiteEventRepo(database))
	ctx := context.Background()

	monday := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	weekly := testutil.NewTestEvent("Family dinner",
		testutil.WithEventTimes(monday, monday.Add(time.Hour)),
		testutil.WithRecurrence(&domain.RecurrenceRule{
			Frequency:  domain.ScaleWeekly,
			Interval:   1,
			DaysOfWeek: domain.NewWeekdaySet(1),
		}))
	require.NoError(t, svc.Create(ctx, weekly))

	oneOff := testutil.NewTestEvent("Vet appointment",
		testutil.WithEventTimes(
			time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC),
			time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)))
	require.NoError(t, svc.Create(ctx, oneOff))

	windowStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
	instances, err := svc.Instances(ctx, windowStart, windowEnd)
	require.NoError(t, err)

	// Five Mondays in January plus the one-off, in start order.
	require.Len(t, instances, 6)
	assert.Equal(t, weekly.ID+"-1", instances[0].ID)
	assert.Equal(t, weekly.ID, instances[0].ParentEventID)
	assert.Equal(t, oneOff.ID, instances[2].ID, "one-off sits between the Jan 8 and Jan 15 dinners")
	for _, inst := range instances {
		if inst.ParentEventID != "" {
			assert.Nil(t, inst.Recurrence, "derived instances carry no rule")
		}
	}
}

func TestEventService_Create_Validates(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewEventService(repository.NewSQLiteEventRepo(database))
	ctx := context.Background()

	bad := testutil.NewTestEvent("Backwards")
	bad.End = bad.Start.Add(-time.Hour)
	assert.Error(t, svc.Create(ctx, bad))
}

func TestItineraryService_Upcoming(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewItineraryService(repository.NewSQLiteItemRepo(database))
	ctx := context.Background()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	scheduled := testutil.NewTestItem("goal-1", "Water plants",
		testutil.WithSchedule(testutil.WeeklySchedule(start, "08:00", 1, 4))) // Mon, Thu
	require.NoError(t, svc.Create(ctx, scheduled))

	due := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	oneOff := testutil.NewTestItem("goal-1", "Renew insurance", testutil.WithDueDate(due))
	require.NoError(t, svc.Create(ctx, oneOff))

	done := testutil.NewTestItem("goal-1", "Old chore",
		testutil.WithItemStatus(domain.ItemCompleted),
		testutil.WithDueDate(due))
	require.NoError(t, svc.Create(ctx, done))

	windowEnd := time.Date(2024, 1, 7, 23, 59, 59, 0, time.UTC)
	occurrences, err := svc.Upcoming(ctx, start, windowEnd)
	require.NoError(t, err)

	// First week: Mon Jan 1, Thu Jan 4, plus the Jan 5 due date. The
	// completed item stays out.
	require.Len(t, occurrences, 3)
	assert.Equal(t, scheduled.ID, occurrences[0].Item.ID)
	assert.Equal(t, scheduled.ID, occurrences[1].Item.ID)
	assert.Equal(t, oneOff.ID, occurrences[2].Item.ID)
}

func TestMeetingService_DefaultAndReviewNeeded(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewMeetingService(repository.NewSQLiteMeetingRepo(database))
	ctx := context.Background()

	m, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, m.DayOfWeek, "unset config falls back to Sunday")

	needed, err := svc.IsReviewNeeded(ctx, time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, needed, "never-reviewed household is always due")

	m.DayOfWeek = 2
	m.PreferredTime = "19:30"
	require.NoError(t, svc.Set(ctx, m))

	saved, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, saved.DayOfWeek)
	assert.Equal(t, "19:30", saved.PreferredTime)
}

func TestMeetingService_SeedWritesOnlyOnFirstRun(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewMeetingService(repository.NewSQLiteMeetingRepo(database))
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx, 3, "19:00"))

	m, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, m.DayOfWeek)
	assert.Equal(t, "19:00", m.PreferredTime)

	// A saved row wins over later seed attempts.
	m.DayOfWeek = 5
	require.NoError(t, svc.Set(ctx, m))
	require.NoError(t, svc.Seed(ctx, 1, "08:00"))

	saved, err := svc.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, saved.DayOfWeek)
	assert.Equal(t, "19:00", saved.PreferredTime)
}

func TestMeetingService_SeedRejectsInvalidDay(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewMeetingService(repository.NewSQLiteMeetingRepo(database))

	assert.Error(t, svc.Seed(context.Background(), 9, ""))
}

func TestMeetingService_SetRejectsInvalid(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewMeetingService(repository.NewSQLiteMeetingRepo(database))

	bad := &domain.WeeklyMeeting{DayOfWeek: 9}
	assert.Error(t, svc.Set(context.Background(), bad))
}

func TestGoalService_ForReview(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewGoalService(repository.NewSQLiteGoalRepo(database))
	ctx := context.Background()

	weekly := testutil.NewTestGoal("Weekly goal")
	monthly := testutil.NewTestGoal("Monthly goal", testutil.WithTimeScale(domain.ScaleMonthly))
	yearly := testutil.NewTestGoal("Yearly goal", testutil.WithTimeScale(domain.ScaleYearly))
	require.NoError(t, svc.Create(ctx, weekly))
	require.NoError(t, svc.Create(ctx, monthly))
	require.NoError(t, svc.Create(ctx, yearly))

	// Mid-March: weekly only.
	goals, larger, err := svc.ForReview(ctx, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.False(t, larger.Monthly)
	require.Len(t, goals, 1)
	assert.Equal(t, weekly.ID, goals[0].ID)

	// First week of January: everything is in scope.
	goals, larger, err = svc.ForReview(ctx, time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, larger.Monthly)
	assert.True(t, larger.Quarterly)
	assert.True(t, larger.Yearly)
	assert.Len(t, goals, 3)
}

func TestGoalService_CreateAssignsCriterionIDs(t *testing.T) {
	database := testutil.NewTestDB(t)
	svc := NewGoalService(repository.NewSQLiteGoalRepo(database))
	ctx := context.Background()

	g := &domain.Goal{Title: "Garden", TimeScale: domain.ScaleWeekly,
		Criteria: []domain.SuccessCriterion{{Title: "Weed the beds", TargetCount: 1, Frequency: domain.ScaleWeekly}}}
	require.NoError(t, svc.Create(ctx, g))

	fetched, err := svc.GetByID(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Criteria, 1)
	assert.NotEmpty(t, fetched.Criteria[0].ID)
	assert.Equal(t, g.ID, fetched.Criteria[0].GoalID)
}
