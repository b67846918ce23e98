// Package occurrence holds the pure date arithmetic of the planning engine:
// mapping reference dates to cycle boundaries and expanding recurrence rules
// into concrete dated instances. Nothing here performs I/O or keeps state;
// every function is a pure mapping of its inputs.
package occurrence

import (
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
)

// boundaryHour is the local hour every cycle boundary is normalized to.
// Early morning keeps "this week's" boundary stable across late-night use.
const boundaryHour = 4

// Next returns the next canonical cycle boundary strictly after
// max(ref, now), normalized to 04:00 local time and anchored per scale:
// daily → next day, weekly → next Sunday, monthly → first Sunday of the
// following month, quarterly → first Sunday of the next quarter's opening
// month, yearly → first Sunday of the following January.
func Next(ref time.Time, scale domain.TimeScale, now time.Time) (time.Time, error) {
	if !scale.Valid() {
		return time.Time{}, fmt.Errorf("unknown time scale %q", scale)
	}
	base := ref
	if now.After(base) {
		base = now
	}
	return nextAfter(base, scale), nil
}

// Expand returns every cycle boundary of the given scale inside (start, end],
// obtained by repeatedly applying the boundary step from start. The sequence
// is finite for any finite window and the function is restartable: it keeps
// no cursor between calls.
func Expand(start, end time.Time, scale domain.TimeScale) ([]time.Time, error) {
	if !scale.Valid() {
		return nil, fmt.Errorf("unknown time scale %q", scale)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("expand window end %s precedes start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	var out []time.Time
	cursor := nextAfter(start, scale)
	for !cursor.After(end) {
		out = append(out, cursor)
		cursor = nextAfter(cursor, scale)
	}
	return out, nil
}

// nextAfter computes the boundary strictly after base for the given scale.
func nextAfter(base time.Time, scale domain.TimeScale) time.Time {
	loc := base.Location()

	switch scale {
	case domain.ScaleDaily:
		next := base.AddDate(0, 0, 1)
		return atBoundary(next.Year(), next.Month(), next.Day(), loc)

	case domain.ScaleWeekly:
		days := (7 - int(base.Weekday())) % 7
		if days == 0 {
			days = 7
		}
		next := base.AddDate(0, 0, days)
		return atBoundary(next.Year(), next.Month(), next.Day(), loc)

	case domain.ScaleMonthly:
		year, month := base.Year(), base.Month()
		month++
		if month > time.December {
			month = time.January
			year++
		}
		return firstSunday(year, month, loc)

	case domain.ScaleQuarterly:
		// Quarter index is zero-based month / 3; the next quarter opens at
		// month index (q+1)*3.
		m0 := int(base.Month()) - 1
		next0 := (m0/3 + 1) * 3
		year := base.Year() + next0/12
		month := time.Month(next0%12 + 1)
		return firstSunday(year, month, loc)

	case domain.ScaleYearly:
		return firstSunday(base.Year()+1, time.January, loc)
	}

	// Unreachable: callers validate the scale.
	return base
}

// firstSunday returns the first Sunday of the given month at the boundary
// hour. The search is bounded: a month's first Sunday is always within its
// first seven days.
func firstSunday(year int, month time.Month, loc *time.Location) time.Time {
	for day := 1; day <= 7; day++ {
		d := time.Date(year, month, day, boundaryHour, 0, 0, 0, loc)
		if d.Weekday() == time.Sunday {
			return d
		}
	}
	// Unreachable by the pigeonhole on weekdays.
	return time.Date(year, month, 1, boundaryHour, 0, 0, 0, loc)
}

func atBoundary(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, boundaryHour, 0, 0, 0, loc)
}
