// Package ics bridges the household calendar to the iCalendar world:
// importing VEVENT feeds into domain events and exporting stored events as a
// VCALENDAR.
package ics

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/alexanderramin/hearth/internal/domain"
)

// ImportResult reports what a feed import produced.
type ImportResult struct {
	Events  []*domain.CalendarEvent
	Skipped int
}

// ImportFeed parses an ICS payload into domain calendar events. VEVENTs the
// feed cannot express in the domain model (unsupported RRULE frequencies,
// missing times) are skipped, not fatal; the caller decides what to do with
// the count.
func ImportFeed(r io.Reader) (*ImportResult, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parsing ICS feed: %w", err)
	}

	result := &ImportResult{}
	for _, ve := range cal.Events() {
		ev, err := convertVEvent(ve)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Events = append(result.Events, ev)
	}
	return result, nil
}

func convertVEvent(ve *ical.VEvent) (*domain.CalendarEvent, error) {
	start, err := ve.GetStartAt()
	if err != nil {
		return nil, fmt.Errorf("event start: %w", err)
	}
	end, err := ve.GetEndAt()
	if err != nil || !end.After(start) {
		// All-day VEVENTs often omit DTEND; give them a day.
		end = start.Add(24 * time.Hour)
	}

	id := uuid.New().String()
	if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil && p.Value != "" {
		id = p.Value
	}

	ev := &domain.CalendarEvent{
		ID:    id,
		Start: start,
		End:   end,
	}
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		ev.Title = p.Value
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil && p.Value != "" {
		rule, err := convertRRule(p.Value)
		if err != nil {
			return nil, err
		}
		rule.Exceptions = collectExDates(ve)
		ev.Recurrence = rule
	}

	now := time.Now().UTC()
	ev.CreatedAt = now
	ev.UpdatedAt = now
	if err := ev.Validate(); err != nil {
		return nil, err
	}
	return ev, nil
}

// convertRRule maps an RRULE string onto the domain recurrence model. Only
// the frequencies the planner understands survive the trip.
func convertRRule(raw string) (*domain.RecurrenceRule, error) {
	opt, err := rrule.StrToROption(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing RRULE %q: %w", raw, err)
	}

	rule := &domain.RecurrenceRule{Interval: opt.Interval}
	if rule.Interval < 1 {
		rule.Interval = 1
	}

	switch opt.Freq {
	case rrule.DAILY:
		rule.Frequency = domain.ScaleDaily
	case rrule.WEEKLY:
		rule.Frequency = domain.ScaleWeekly
	case rrule.MONTHLY:
		rule.Frequency = domain.ScaleMonthly
	case rrule.YEARLY:
		rule.Frequency = domain.ScaleYearly
	default:
		return nil, fmt.Errorf("unsupported RRULE frequency in %q", raw)
	}

	if len(opt.Byweekday) > 0 {
		days := make([]int, 0, len(opt.Byweekday))
		for _, wd := range opt.Byweekday {
			// rrule counts from Monday, the domain from Sunday.
			days = append(days, (wd.Day()+1)%7)
		}
		rule.DaysOfWeek = domain.NewWeekdaySet(days...)
	}
	if opt.Count > 0 {
		c := opt.Count
		rule.Count = &c
	}
	if !opt.Until.IsZero() {
		until := opt.Until
		rule.EndDate = &until
	}
	return rule, nil
}

func collectExDates(ve *ical.VEvent) []time.Time {
	var out []time.Time
	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, err := parseICSTime(part); err == nil {
				out = append(out, t)
			}
		}
	}
	return out
}

// parseICSTime handles the UTC, floating and date-only forms EXDATE values
// show up in.
func parseICSTime(v string) (time.Time, error) {
	if strings.HasSuffix(v, "Z") {
		return time.Parse("20060102T150405Z", v)
	}
	if strings.Contains(v, "T") {
		return time.ParseInLocation("20060102T150405", v, time.UTC)
	}
	return time.ParseInLocation("20060102", v, time.UTC)
}
