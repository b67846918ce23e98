// Package progress turns the append-only criteria instance log into running
// counts, completion ratios and streaks. Aggregation is pure replay: the
// same ordered instance list always yields the same aggregate.
package progress

import (
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
)

// Apply folds one instance into the aggregate. Only confirmed instances
// count; ActualCount moves only on completions; and the status update is
// monotonic — a later ongoing event never downgrades a terminal
// completed/failed status.
func Apply(p *domain.CriteriaProgress, inst domain.CriteriaInstance) {
	if !inst.IsConfirmed {
		return
	}
	p.Instances = append(p.Instances, inst)

	if inst.Status == domain.CriteriaCompleted {
		p.ActualCount++
	}
	switch {
	case inst.Status.Terminal():
		p.Status = inst.Status
	case inst.Status == domain.CriteriaOngoing && !p.Status.Terminal():
		p.Status = domain.CriteriaOngoing
	}
}

// Rebuild replays an ordered instance list into a fresh aggregate. Replaying
// the same list twice yields identical results; the raw instances are the
// durable facts and the aggregate is always reconstructible from them.
func Rebuild(criteriaID, periodID string, targetCount int, instances []domain.CriteriaInstance) domain.CriteriaProgress {
	p := domain.CriteriaProgress{
		CriteriaID:  criteriaID,
		PeriodID:    periodID,
		TargetCount: targetCount,
		Status:      domain.CriteriaPending,
	}
	for _, inst := range instances {
		Apply(&p, inst)
	}
	return p
}

// Streak counts consecutive expected occurrences completed without a gap,
// walking backward from the most recent expected occurrence. Expected must
// be in ascending order.
func Streak(expected []time.Time, completed []time.Time) int {
	done := make(map[string]bool, len(completed))
	for _, d := range completed {
		done[dateKey(d)] = true
	}

	n := 0
	for i := len(expected) - 1; i >= 0; i-- {
		if !done[dateKey(expected[i])] {
			break
		}
		n++
	}
	return n
}

func dateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// AttentionInput is the read-model snapshot the needs-attention rule runs on.
type AttentionInput struct {
	Streak        int
	HasActivity   bool
	ActualCount   int
	TargetCount   int
	PeriodElapsed float64 // fraction of the current period that has passed
}

// NeedsAttention flags an item whose streak just broke, or that is behind
// its target with more than half the period gone.
func NeedsAttention(in AttentionInput) bool {
	if in.Streak == 0 && in.HasActivity {
		return true
	}
	return in.ActualCount < in.TargetCount && in.PeriodElapsed > 0.5
}
