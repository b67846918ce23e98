package occurrence

import (
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
)

// ExpandEvent produces the concrete instances of an event intersecting the
// query window [windowStart, windowEnd]. Non-recurring events pass through
// as a single-element list. Generated instances carry a synthesized
// "<parentID>-<seq>" ID and a back-reference to the defining event; the
// input event is never mutated.
func ExpandEvent(ev domain.CalendarEvent, windowStart, windowEnd time.Time) ([]domain.CalendarEvent, error) {
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("expand window end precedes start")
	}

	if ev.Recurrence == nil {
		return []domain.CalendarEvent{ev}, nil
	}

	rule := ev.Recurrence
	duration := ev.Duration()

	// Weekly rules with an explicit weekday set fire on several days per
	// week, so they need a daily walk; everything else steps by whole
	// frequency units.
	byWeekday := rule.Frequency == domain.ScaleWeekly && len(rule.DaysOfWeek) > 0
	weekAnchor := startOfWeek(ev.Start)

	var out []domain.CalendarEvent
	cursor := ev.Start
	emitted := 0

	for !cursor.After(windowEnd) {
		if rule.EndDate != nil && cursor.After(*rule.EndDate) {
			break
		}
		if rule.Count != nil && emitted >= *rule.Count {
			break
		}

		skip := rule.IsException(cursor)
		if !skip && byWeekday {
			skip = !rule.DaysOfWeek.Has(int(cursor.Weekday())) ||
				weeksBetween(weekAnchor, cursor)%rule.Interval != 0
		}

		if !skip {
			end := cursor.Add(duration)
			// Count every generated occurrence toward the cap; only the
			// ones intersecting the window reach the output.
			emitted++
			if !end.Before(windowStart) {
				out = append(out, instanceOf(ev, emitted, cursor, end))
			}
		}

		if byWeekday {
			cursor = cursor.AddDate(0, 0, 1)
		} else {
			cursor = advance(cursor, rule.Frequency, rule.Interval)
		}
	}

	return out, nil
}

// startOfWeek returns midnight of the Sunday opening t's week.
func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	return midnight.AddDate(0, 0, -int(t.Weekday()))
}

// weeksBetween counts whole Sunday-anchored weeks from anchor to t. Both
// dates are rebuilt at UTC midnight before subtracting so a DST transition
// between them cannot shorten the day span.
func weeksBetween(anchor, t time.Time) int {
	days := int(utcMidnight(startOfWeek(t)).Sub(utcMidnight(anchor)).Hours() / 24)
	if days < 0 {
		days = -days
	}
	return days / 7
}

func utcMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// instanceOf builds one derived instance of parent anchored at start.
func instanceOf(parent domain.CalendarEvent, seq int, start, end time.Time) domain.CalendarEvent {
	inst := parent
	inst.ID = fmt.Sprintf("%s-%d", parent.ID, seq)
	inst.ParentEventID = parent.ID
	inst.Start = start
	inst.End = end
	inst.Recurrence = nil
	return inst
}

// advance steps the cursor by interval units of the rule frequency. Monthly
// and yearly steps use calendar-aware addition, not fixed day counts.
func advance(cursor time.Time, freq domain.TimeScale, interval int) time.Time {
	switch freq {
	case domain.ScaleDaily:
		return cursor.AddDate(0, 0, interval)
	case domain.ScaleWeekly:
		return cursor.AddDate(0, 0, 7*interval)
	case domain.ScaleMonthly:
		return cursor.AddDate(0, interval, 0)
	case domain.ScaleYearly:
		return cursor.AddDate(interval, 0, 0)
	}
	// Validated rules never reach here.
	return cursor.AddDate(0, 0, interval)
}

// ExpandSchedule maps an itinerary item's repeating schedule onto concrete
// occurrence times inside the window. One-shot schedules yield their start
// date when it falls inside the window.
func ExpandSchedule(s domain.Schedule, windowStart, windowEnd time.Time) ([]time.Time, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	if windowEnd.Before(windowStart) {
		return nil, fmt.Errorf("expand window end precedes start")
	}

	if s.Repeat == nil {
		if s.StartDate.Before(windowStart) || s.StartDate.After(windowEnd) {
			return nil, nil
		}
		return []time.Time{s.StartDate}, nil
	}

	end := windowEnd
	if s.EndDate != nil && s.EndDate.Before(end) {
		end = *s.EndDate
	}

	slotDays := domain.NewWeekdaySet()
	for _, slot := range s.Slots {
		slotDays[slot.Day] = struct{}{}
	}

	var out []time.Time
	for cursor := s.StartDate; !cursor.After(end); cursor = cursor.AddDate(0, 0, 1) {
		if cursor.Before(windowStart) {
			continue
		}
		if slotDays.Has(int(cursor.Weekday())) {
			out = append(out, cursor)
		}
	}
	return out, nil
}
