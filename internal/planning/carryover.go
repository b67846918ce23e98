package planning

import (
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
)

// graceDays is how far into the configured meeting week a session may start
// and still plan that same week. A session held slightly late should not
// skip ahead to the next cycle.
const graceDays = 3

// EffectiveStartDate resolves the nominal week a session starting today
// plans for. The week is anchored on the household's configured meeting day;
// past the grace window the session plans the following week instead.
func EffectiveStartDate(today time.Time, meeting *domain.WeeklyMeeting) time.Time {
	weekStart := StartOfWeek(today, meeting.DayOfWeek)
	if today.Before(weekStart.AddDate(0, 0, graceDays)) {
		return weekStart
	}
	return weekStart.AddDate(0, 0, 7)
}

// StartOfWeek returns the most recent day on or before t whose weekday
// matches anchor (0=Sunday..6=Saturday), at midnight in t's location.
func StartOfWeek(t time.Time, anchor int) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	back := (int(day.Weekday()) - anchor + 7) % 7
	return day.AddDate(0, 0, -back)
}

// DetectCarryover groups gap instances by criterion and installs them on the
// session with their confirmation flags cleared. A session whose nominal
// week precedes its actual start ran late; every dated instance inside the
// gap must be individually accepted or rejected before the cycle absorbs it.
func DetectCarryover(s *domain.PlanningSession, gapInstances []domain.CriteriaInstance) {
	if !s.RegularStartDate.Before(s.ActualStartDate) {
		return
	}
	for _, inst := range gapInstances {
		s.CarryoverInstances[inst.CriteriaID] = append(s.CarryoverInstances[inst.CriteriaID], domain.CarryoverInstance{
			InstanceID: inst.ID,
			CriteriaID: inst.CriteriaID,
			GoalID:     inst.GoalID,
			Date:       inst.Date,
			Status:     inst.Status,
		})
	}
}

// ConfirmCarryover records the operator's decision for one gap instance.
// It returns false when the criterion group or instance does not exist,
// leaving the session untouched.
func ConfirmCarryover(s *domain.PlanningSession, criteriaID, instanceID string, accepted bool) bool {
	group, ok := s.CarryoverInstances[criteriaID]
	if !ok {
		return false
	}
	for i := range group {
		if group[i].InstanceID == instanceID {
			group[i].IsConfirmed = true
			group[i].Accepted = accepted
			return true
		}
	}
	return false
}

// AcceptedCarryover returns the instances the operator folded into the new
// cycle, in criterion-then-date order.
func AcceptedCarryover(s *domain.PlanningSession) []domain.CarryoverInstance {
	var out []domain.CarryoverInstance
	for _, criteriaID := range sortedKeys(s.CarryoverInstances) {
		for _, inst := range s.CarryoverInstances[criteriaID] {
			if inst.IsConfirmed && inst.Accepted {
				out = append(out, inst)
			}
		}
	}
	return out
}

func sortedKeys(m map[string][]domain.CarryoverInstance) []string {
	keys := domain.NewIDSet()
	for k := range m {
		keys.Add(k)
	}
	return keys.Sorted()
}
