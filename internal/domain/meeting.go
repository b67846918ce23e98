package domain

import (
	"fmt"
	"time"
)

// WeeklyMeeting is the household-wide planning meeting configuration. It
// governs effective cycle boundaries; LastCompleted is stamped on each
// session completion.
type WeeklyMeeting struct {
	DayOfWeek     int
	PreferredTime string // "HH:mm", optional
	LastCompleted *time.Time
	UpdatedAt     time.Time
}

// DefaultWeeklyMeeting is the configuration a household starts with: Sunday,
// no preferred time.
func DefaultWeeklyMeeting() *WeeklyMeeting {
	return &WeeklyMeeting{DayOfWeek: 0}
}

// Validate rejects malformed meeting configs at the boundary.
func (m *WeeklyMeeting) Validate() error {
	if m.DayOfWeek < 0 || m.DayOfWeek > 6 {
		return fmt.Errorf("meeting day-of-week %d out of range 0-6", m.DayOfWeek)
	}
	if m.PreferredTime != "" && !clockPattern.MatchString(m.PreferredTime) {
		return fmt.Errorf("meeting preferred time %q is not HH:mm", m.PreferredTime)
	}
	return nil
}
