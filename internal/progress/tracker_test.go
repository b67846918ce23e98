package progress

import (
	"testing"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 3, d, 0, 0, 0, 0, time.UTC)
}

func confirmed(id string, d int, status domain.CriteriaStatus) domain.CriteriaInstance {
	return domain.CriteriaInstance{
		ID:          id,
		CriteriaID:  "crit-1",
		GoalID:      "goal-1",
		Date:        day(d),
		IsConfirmed: true,
		Status:      status,
	}
}

func TestApply_CompletedIncrementsActualCount(t *testing.T) {
	p := domain.CriteriaProgress{CriteriaID: "crit-1", TargetCount: 3, Status: domain.CriteriaPending}

	Apply(&p, confirmed("i1", 1, domain.CriteriaCompleted))
	Apply(&p, confirmed("i2", 2, domain.CriteriaOngoing))
	Apply(&p, confirmed("i3", 3, domain.CriteriaCompleted))

	assert.Equal(t, 2, p.ActualCount)
	assert.Len(t, p.Instances, 3)
}

func TestApply_OngoingNeverDowngradesTerminalStatus(t *testing.T) {
	p := domain.CriteriaProgress{CriteriaID: "crit-1", Status: domain.CriteriaPending}

	Apply(&p, confirmed("i1", 1, domain.CriteriaOngoing))
	assert.Equal(t, domain.CriteriaOngoing, p.Status)

	Apply(&p, confirmed("i2", 2, domain.CriteriaCompleted))
	assert.Equal(t, domain.CriteriaCompleted, p.Status)

	Apply(&p, confirmed("i3", 3, domain.CriteriaOngoing))
	assert.Equal(t, domain.CriteriaCompleted, p.Status, "terminal status must survive a later ongoing event")

	p2 := domain.CriteriaProgress{CriteriaID: "crit-1", Status: domain.CriteriaPending}
	Apply(&p2, confirmed("i1", 1, domain.CriteriaFailed))
	Apply(&p2, confirmed("i2", 2, domain.CriteriaOngoing))
	assert.Equal(t, domain.CriteriaFailed, p2.Status)
}

func TestApply_UnconfirmedInstancesAreIgnored(t *testing.T) {
	p := domain.CriteriaProgress{CriteriaID: "crit-1", Status: domain.CriteriaPending}

	inst := confirmed("i1", 1, domain.CriteriaCompleted)
	inst.IsConfirmed = false
	Apply(&p, inst)

	assert.Equal(t, 0, p.ActualCount)
	assert.Empty(t, p.Instances)
	assert.Equal(t, domain.CriteriaPending, p.Status)
}

func TestRebuild_ReplayIsIdempotent(t *testing.T) {
	instances := []domain.CriteriaInstance{
		confirmed("i1", 1, domain.CriteriaCompleted),
		confirmed("i2", 2, domain.CriteriaOngoing),
		confirmed("i3", 3, domain.CriteriaCompleted),
		confirmed("i4", 4, domain.CriteriaFailed),
	}

	first := Rebuild("crit-1", "period-1", 5, instances)
	second := Rebuild("crit-1", "period-1", 5, instances)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, first.ActualCount)
	assert.Equal(t, domain.CriteriaFailed, first.Status)
}

func TestStreak_CountsBackwardFromMostRecent(t *testing.T) {
	expected := []time.Time{day(3), day(10), day(17), day(24)}

	require.Equal(t, 4, Streak(expected, []time.Time{day(3), day(10), day(17), day(24)}))
	assert.Equal(t, 2, Streak(expected, []time.Time{day(3), day(17), day(24)}), "gap at day 10 caps the streak at 2")
	assert.Equal(t, 0, Streak(expected, []time.Time{day(3), day(10), day(17)}), "missing the most recent occurrence breaks the streak")
	assert.Equal(t, 0, Streak(expected, nil))
	assert.Equal(t, 0, Streak(nil, []time.Time{day(3)}))
}

func TestNeedsAttention(t *testing.T) {
	assert.True(t, NeedsAttention(AttentionInput{Streak: 0, HasActivity: true}),
		"broken streak with prior activity")
	assert.False(t, NeedsAttention(AttentionInput{Streak: 0, HasActivity: false}),
		"no activity yet is not a broken streak")
	assert.True(t, NeedsAttention(AttentionInput{Streak: 2, HasActivity: true, ActualCount: 1, TargetCount: 4, PeriodElapsed: 0.6}),
		"behind target past the half-way mark")
	assert.False(t, NeedsAttention(AttentionInput{Streak: 2, HasActivity: true, ActualCount: 1, TargetCount: 4, PeriodElapsed: 0.4}),
		"behind target but period young")
	assert.False(t, NeedsAttention(AttentionInput{Streak: 3, HasActivity: true, ActualCount: 4, TargetCount: 4, PeriodElapsed: 0.9}),
		"on target")
}
