package domain

import "time"

// PlanningPeriod is the persisted record of one review window. At session
// start a pending period of the matching type is reused if one exists;
// otherwise a new one is created. The pending → completed transition happens
// only through an explicit completion call.
type PlanningPeriod struct {
	ID                    string
	StartDate             time.Time
	EndDate               time.Time
	Type                  PeriodType
	Status                PeriodStatus
	CarryoverFromPrevious bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Elapsed returns the fraction of the period that has passed at now,
// clamped to [0, 1].
func (p *PlanningPeriod) Elapsed(now time.Time) float64 {
	total := p.EndDate.Sub(p.StartDate)
	if total <= 0 {
		return 1
	}
	done := now.Sub(p.StartDate)
	if done <= 0 {
		return 0
	}
	if done >= total {
		return 1
	}
	return float64(done) / float64(total)
}
