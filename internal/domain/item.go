package domain

import (
	"fmt"
	"regexp"
	"time"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ScheduleSlot is one weekly slot: a weekday plus a wall-clock time.
type ScheduleSlot struct {
	Day  int
	Time string // "HH:mm"
}

// Schedule describes when an itinerary item happens. Slots is non-empty
// whenever Repeat is set; EndDate is only meaningful for repeating schedules.
type Schedule struct {
	StartDate time.Time
	EndDate   *time.Time
	Repeat    *TimeScale
	Slots     []ScheduleSlot
}

// Validate rejects malformed schedules at the boundary.
func (s *Schedule) Validate() error {
	if s.Repeat != nil {
		if !s.Repeat.Valid() {
			return fmt.Errorf("schedule repeat %q is not a known time scale", *s.Repeat)
		}
		if len(s.Slots) == 0 {
			return fmt.Errorf("repeating schedule requires at least one day/time slot")
		}
	}
	if s.Repeat == nil && s.EndDate != nil {
		return fmt.Errorf("schedule end date is only meaningful when repeat is set")
	}
	for _, slot := range s.Slots {
		if slot.Day < 0 || slot.Day > 6 {
			return fmt.Errorf("schedule slot day %d out of range 0-6", slot.Day)
		}
		if slot.Time != "" && !clockPattern.MatchString(slot.Time) {
			return fmt.Errorf("schedule slot time %q is not HH:mm", slot.Time)
		}
	}
	return nil
}

// ItineraryItem is one plannable commitment owned by a goal or project.
type ItineraryItem struct {
	ID          string
	Type        ItemType
	ReferenceID string
	CriteriaID  string
	Schedule    *Schedule
	Status      ItemStatus
	DueDate     *time.Time
	TargetDate  *time.Time
	Title       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate rejects malformed items at the boundary.
func (i *ItineraryItem) Validate() error {
	if i.ID == "" {
		return fmt.Errorf("itinerary item ID is required")
	}
	if !ValidItemTypes[string(i.Type)] {
		return fmt.Errorf("itinerary item type %q is not recognized", i.Type)
	}
	if i.ReferenceID == "" {
		return fmt.Errorf("itinerary item %s requires an owning goal or project", i.ID)
	}
	if i.Schedule != nil {
		if err := i.Schedule.Validate(); err != nil {
			return fmt.Errorf("itinerary item %s: %w", i.ID, err)
		}
	}
	return nil
}
