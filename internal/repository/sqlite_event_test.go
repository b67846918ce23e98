package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventRepo_RoundTrip_NonRecurring(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	ev := testutil.NewTestEvent("Dentist")
	require.NoError(t, repo.Create(ctx, ev))

	fetched, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dentist", fetched.Title)
	assert.True(t, fetched.Start.Equal(ev.Start))
	assert.True(t, fetched.End.Equal(ev.End))
	assert.Nil(t, fetched.Recurrence)
}

func TestEventRepo_RoundTrip_Recurrence(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	count := 10
	endDate := time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC)
	ev := testutil.NewTestEvent("Standup", testutil.WithRecurrence(&domain.RecurrenceRule{
		Frequency:  domain.ScaleWeekly,
		Interval:   2,
		DaysOfWeek: domain.NewWeekdaySet(1, 3, 5),
		Count:      &count,
		EndDate:    &endDate,
		Exceptions: []time.Time{time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
	}))
	require.NoError(t, repo.Create(ctx, ev))

	fetched, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Recurrence)
	rule := fetched.Recurrence
	assert.Equal(t, domain.ScaleWeekly, rule.Frequency)
	assert.Equal(t, 2, rule.Interval)
	assert.Equal(t, []int{1, 3, 5}, rule.DaysOfWeek.Sorted())
	require.NotNil(t, rule.Count)
	assert.Equal(t, 10, *rule.Count)
	require.NotNil(t, rule.EndDate)
	assert.Equal(t, "2024-06-30", rule.EndDate.Format("2006-01-02"))
	require.Len(t, rule.Exceptions, 1)
	assert.Equal(t, "2024-02-05", rule.Exceptions[0].Format("2006-01-02"))
}

func TestEventRepo_RejectsDerivedInstance(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	inst := testutil.NewTestEvent("Derived")
	inst.ID = "ev-1-3"
	inst.ParentEventID = "ev-1"

	assert.Error(t, repo.Create(ctx, inst))
	assert.Error(t, repo.Update(ctx, inst))
}

func TestEventRepo_ListInRange(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	jan15 := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	inWindow := testutil.NewTestEvent("In window", testutil.WithEventTimes(jan15, jan15.Add(time.Hour)))
	before := testutil.NewTestEvent("Way before",
		testutil.WithEventTimes(jan15.AddDate(0, -3, 0), jan15.AddDate(0, -3, 0).Add(time.Hour)))
	after := testutil.NewTestEvent("Way after",
		testutil.WithEventTimes(jan15.AddDate(0, 3, 0), jan15.AddDate(0, 3, 0).Add(time.Hour)))
	// Recurring event starting before the window may still produce
	// occurrences inside it, so it must be returned.
	recurring := testutil.NewTestEvent("Weekly thing", testutil.WithRecurrence(&domain.RecurrenceRule{
		Frequency: domain.ScaleWeekly,
		Interval:  1,
	}))
	for _, ev := range []*domain.CalendarEvent{inWindow, before, after, recurring} {
		require.NoError(t, repo.Create(ctx, ev))
	}

	windowStart := time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)
	windowEnd := time.Date(2024, 1, 21, 0, 0, 0, 0, time.UTC)
	list, err := repo.ListInRange(ctx, windowStart, windowEnd)
	require.NoError(t, err)

	ids := make([]string, len(list))
	for i, ev := range list {
		ids[i] = ev.ID
	}
	assert.ElementsMatch(t, []string{inWindow.ID, recurring.ID}, ids)
}

func TestEventRepo_Update(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	ev := testutil.NewTestEvent("Before", testutil.WithRecurrence(&domain.RecurrenceRule{
		Frequency: domain.ScaleDaily,
		Interval:  1,
	}))
	require.NoError(t, repo.Create(ctx, ev))

	ev.Title = "After"
	ev.Recurrence = nil
	require.NoError(t, repo.Update(ctx, ev))

	fetched, err := repo.GetByID(ctx, ev.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", fetched.Title)
	assert.Nil(t, fetched.Recurrence)
}

func TestEventRepo_Delete(t *testing.T) {
	repo := NewSQLiteEventRepo(testutil.NewTestDB(t))
	ctx := context.Background()

	ev := testutil.NewTestEvent("Gone")
	require.NoError(t, repo.Create(ctx, ev))
	require.NoError(t, repo.Delete(ctx, ev.ID))

	_, err := repo.GetByID(ctx, ev.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
