package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
)

// parseDate accepts a YYYY-MM-DD flag value in the local zone.
func parseDate(v string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", v, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is not YYYY-MM-DD", v)
	}
	return t, nil
}

// parseDateTime accepts either "YYYY-MM-DD HH:mm" or a bare date.
func parseDateTime(v string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", v, time.Local); err == nil {
		return t, nil
	}
	return parseDate(v)
}

// parseCriterionSpec parses a "TITLE:TARGET:FREQUENCY" flag value, splitting
// from the right so titles may contain colons.
func parseCriterionSpec(v string) (domain.SuccessCriterion, error) {
	var crit domain.SuccessCriterion

	i := strings.LastIndex(v, ":")
	if i < 0 {
		return crit, fmt.Errorf("criterion %q is not TITLE:TARGET:FREQUENCY", v)
	}
	freq := domain.TimeScale(v[i+1:])
	rest := v[:i]

	j := strings.LastIndex(rest, ":")
	if j < 0 {
		return crit, fmt.Errorf("criterion %q is not TITLE:TARGET:FREQUENCY", v)
	}
	target, err := strconv.Atoi(rest[j+1:])
	if err != nil || target < 1 {
		return crit, fmt.Errorf("criterion target %q must be a positive integer", rest[j+1:])
	}
	title := strings.TrimSpace(rest[:j])
	if title == "" {
		return crit, fmt.Errorf("criterion %q has an empty title", v)
	}
	if !freq.Valid() {
		return crit, fmt.Errorf("criterion frequency %q is not a known time scale", freq)
	}

	crit.Title = title
	crit.TargetCount = target
	crit.Frequency = freq
	return crit, nil
}

// parseSlotSpec parses a "DAY@HH:mm" or bare "DAY" schedule slot, where DAY
// is 0-6 (Sunday first) or a weekday name.
func parseSlotSpec(v string) (domain.ScheduleSlot, error) {
	var slot domain.ScheduleSlot

	dayPart := v
	if i := strings.Index(v, "@"); i >= 0 {
		dayPart = v[:i]
		slot.Time = v[i+1:]
	}

	day, err := parseWeekday(dayPart)
	if err != nil {
		return slot, err
	}
	slot.Day = day
	return slot, nil
}

func parseWeekday(v string) (int, error) {
	if n, err := strconv.Atoi(v); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range 0-6", n)
		}
		return n, nil
	}
	name := strings.ToLower(v)
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return int(d), nil
		}
	}
	return 0, fmt.Errorf("weekday %q is not a day name or 0-6", v)
}
