package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		inner := titleRendered + "\n\n" + content
		return boxStyle.Render(inner)
	}

	return boxStyle.Render(content)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()

	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	tomorrow := now.AddDate(0, 0, 1)
	y3, m3, d3 := tomorrow.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Tomorrow"
	}
	return t.Format("Mon Jan 2, 2006")
}

// HumanDateTime renders a date plus wall-clock time when the time is not
// midnight.
func HumanDateTime(t time.Time) string {
	date := HumanDate(t)
	if t.Hour() == 0 && t.Minute() == 0 {
		return date
	}
	return fmt.Sprintf("%s %s", date, t.Format("15:04"))
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// ProgressCount renders "actual/target" with color keyed to completion.
func ProgressCount(actual, target int) string {
	text := fmt.Sprintf("%d/%d", actual, target)
	switch {
	case target > 0 && actual >= target:
		return StyleGreen.Render(text)
	case actual == 0:
		return StyleRed.Render(text)
	default:
		return StyleYellow.Render(text)
	}
}

// Weekday renders a 0-6 day-of-week number as its short English name.
func Weekday(day int) string {
	if day < 0 || day > 6 {
		return "?"
	}
	return time.Weekday(day).String()[:3]
}
