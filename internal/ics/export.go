package ics

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/alexanderramin/hearth/internal/domain"
)

const prodID = "-//hearth//household planner//EN"

// ExportEvents writes the given events, typically an expanded instance list,
// as a VCALENDAR. Recurrence rules are not re-serialized: callers export
// concrete occurrences so any consumer sees exactly the planner's view.
func ExportEvents(events []domain.CalendarEvent, w io.Writer) error {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetMethod(ical.MethodPublish)

	for _, ev := range events {
		ve := cal.AddEvent(ev.ID)
		ve.SetSummary(ev.Title)
		ve.SetStartAt(ev.Start)
		ve.SetEndAt(ev.End)
		ve.SetDtStampTime(time.Now().UTC())
		if ev.ParentEventID != "" {
			ve.AddProperty(ical.ComponentProperty("RELATED-TO"), ev.ParentEventID)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("serializing calendar: %w", err)
	}
	return nil
}

// ExportItinerary writes upcoming itinerary occurrences as all-day VEVENTs.
func ExportItinerary(items []domain.ItineraryItem, dates []time.Time, w io.Writer) error {
	if len(items) != len(dates) {
		return fmt.Errorf("items and dates length mismatch: %d vs %d", len(items), len(dates))
	}

	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetMethod(ical.MethodPublish)

	for i, item := range items {
		uid := fmt.Sprintf("%s-%s", item.ID, dates[i].Format("20060102"))
		ve := cal.AddEvent(uid)
		ve.SetSummary(item.Title)
		ve.SetAllDayStartAt(dates[i])
		ve.SetAllDayEndAt(dates[i].AddDate(0, 0, 1))
		ve.SetDtStampTime(time.Now().UTC())
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("serializing itinerary: %w", err)
	}
	return nil
}
