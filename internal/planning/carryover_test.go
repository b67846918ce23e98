package planning

import (
	"testing"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sundayMeeting() *domain.WeeklyMeeting {
	return &domain.WeeklyMeeting{DayOfWeek: 0}
}

func TestEffectiveStartDate_OnMeetingDay(t *testing.T) {
	// 2024-03-10 is a Sunday.
	today := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	got := EffectiveStartDate(today, sundayMeeting())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestEffectiveStartDate_InsideGraceWindow(t *testing.T) {
	// Tuesday, two days after the week's Sunday: still this week.
	today := time.Date(2024, 3, 12, 9, 0, 0, 0, time.UTC)
	got := EffectiveStartDate(today, sundayMeeting())
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestEffectiveStartDate_PastGraceWindowSkipsToNextWeek(t *testing.T) {
	// Wednesday, four days after the week's Sunday: grace exceeded.
	today := time.Date(2024, 3, 13, 9, 0, 0, 0, time.UTC)
	got := EffectiveStartDate(today, sundayMeeting())
	assert.Equal(t, time.Date(2024, 3, 17, 0, 0, 0, 0, time.UTC), got)
}

func TestEffectiveStartDate_NonSundayAnchor(t *testing.T) {
	// Meeting on Wednesday (3); Friday is two days in, inside grace.
	meeting := &domain.WeeklyMeeting{DayOfWeek: 3}
	today := time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) // Friday
	got := EffectiveStartDate(today, meeting)
	assert.Equal(t, time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC), got)

	// Saturday is three days in: next week.
	today = time.Date(2024, 3, 16, 9, 0, 0, 0, time.UTC)
	got = EffectiveStartDate(today, meeting)
	assert.Equal(t, time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC), got)
}

func TestStartOfWeek(t *testing.T) {
	// Thursday 2024-03-14 anchored on Sunday → 2024-03-10.
	got := StartOfWeek(time.Date(2024, 3, 14, 17, 30, 0, 0, time.UTC), 0)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)

	// Anchor day itself maps to midnight of the same day.
	got = StartOfWeek(time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC), 0)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), got)
}

func TestDetectCarryover_GroupsGapInstancesByCriterion(t *testing.T) {
	regular := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	actual := time.Date(2024, 3, 13, 10, 0, 0, 0, time.UTC)
	s := domain.NewPlanningSession("hh-1", regular, actual)

	gap := []domain.CriteriaInstance{
		{ID: "inst-1", CriteriaID: "crit-a", GoalID: "goal-1", Date: regular.AddDate(0, 0, 1)},
		{ID: "inst-2", CriteriaID: "crit-a", GoalID: "goal-1", Date: regular.AddDate(0, 0, 3)},
		{ID: "inst-3", CriteriaID: "crit-b", GoalID: "goal-2", Date: regular.AddDate(0, 0, 2)},
	}
	DetectCarryover(s, gap)

	require.Len(t, s.CarryoverInstances, 2)
	assert.Len(t, s.CarryoverInstances["crit-a"], 2)
	assert.Len(t, s.CarryoverInstances["crit-b"], 1)
	for _, group := range s.CarryoverInstances {
		for _, inst := range group {
			assert.False(t, inst.IsConfirmed, "instances start unconfirmed")
		}
	}
	assert.False(t, s.IsCarryoverConfirmed)
}

func TestDetectCarryover_NoopWhenSessionStartedOnTime(t *testing.T) {
	start := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	s := domain.NewPlanningSession("hh-1", start, start)

	DetectCarryover(s, []domain.CriteriaInstance{{ID: "inst-1", CriteriaID: "crit-a"}})

	assert.Empty(t, s.CarryoverInstances)
}

func TestConfirmCarryover_PerInstanceDecision(t *testing.T) {
	regular := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	s := domain.NewPlanningSession("hh-1", regular, regular.AddDate(0, 0, 5))
	DetectCarryover(s, []domain.CriteriaInstance{
		{ID: "inst-1", CriteriaID: "crit-a"},
		{ID: "inst-2", CriteriaID: "crit-a"},
	})

	assert.True(t, ConfirmCarryover(s, "crit-a", "inst-1", true))
	assert.True(t, ConfirmCarryover(s, "crit-a", "inst-2", false))

	accepted := AcceptedCarryover(s)
	require.Len(t, accepted, 1)
	assert.Equal(t, "inst-1", accepted[0].InstanceID)
	assert.Equal(t, 0, s.UnconfirmedCarryoverCount())
}

func TestConfirmCarryover_UnknownTargetsAreNoops(t *testing.T) {
	regular := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	s := domain.NewPlanningSession("hh-1", regular, regular.AddDate(0, 0, 5))
	DetectCarryover(s, []domain.CriteriaInstance{{ID: "inst-1", CriteriaID: "crit-a"}})

	assert.False(t, ConfirmCarryover(s, "crit-x", "inst-1", true))
	assert.False(t, ConfirmCarryover(s, "crit-a", "inst-x", true))
	assert.Equal(t, 1, s.UnconfirmedCarryoverCount())
}
