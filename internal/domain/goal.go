package domain

import "time"

// Goal carries only the fields the planning engine reads. Descriptions,
// ordering, areas and the rest of the record live with the presentation
// layer's store and never reach the engine.
type Goal struct {
	ID        string
	Title     string
	TimeScale TimeScale
	Criteria  []SuccessCriterion
	Steps     []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SuccessCriterion is a trackable success condition on a goal, reviewed and
// scheduled across planning cycles.
type SuccessCriterion struct {
	ID          string
	GoalID      string
	Title       string
	TargetCount int
	Frequency   TimeScale
}
