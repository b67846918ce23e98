package domain

import "time"

// CriteriaInstance is the durable fact that one dated occurrence of a tracked
// success criterion was reviewed or completed. Instances are append-only;
// aggregates are rebuilt from them, never the other way around.
type CriteriaInstance struct {
	ID          string
	CriteriaID  string
	GoalID      string
	Date        time.Time
	IsConfirmed bool
	Status      CriteriaStatus
	CreatedAt   time.Time
}

// CriteriaProgress is the per-criterion per-period aggregate derived from the
// instance log.
type CriteriaProgress struct {
	ID          string
	CriteriaID  string
	PeriodID    string
	TargetCount int
	ActualCount int
	Status      CriteriaStatus
	Instances   []CriteriaInstance
	UpdatedAt   time.Time
}
