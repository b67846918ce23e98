package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}

// ItemStatusPill returns a colored status indicator for itinerary items.
func ItemStatusPill(status domain.ItemStatus) string {
	switch status {
	case domain.ItemPending:
		return StyleBlue.Render("○ Pending")
	case domain.ItemOngoing:
		return StyleYellow.Render("● Ongoing")
	case domain.ItemCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.ItemCancelled:
		return StyleDim.Render("✖ Cancelled")
	default:
		return StyleDim.Render(string(status))
	}
}

// CriteriaStatusPill returns a colored status indicator for criteria progress.
func CriteriaStatusPill(status domain.CriteriaStatus) string {
	switch status {
	case domain.CriteriaPending:
		return StyleBlue.Render("○ Pending")
	case domain.CriteriaOngoing:
		return StyleYellow.Render("● Ongoing")
	case domain.CriteriaCompleted:
		return StyleGreen.Render("✔ Completed")
	case domain.CriteriaFailed:
		return StyleRed.Render("✖ Failed")
	default:
		return StyleDim.Render(string(status))
	}
}

// ScaleBadge returns a capitalized, purple-styled time-scale label.
func ScaleBadge(scale domain.TimeScale) string {
	s := string(scale)
	if s == "" {
		return StyleDim.Render("--")
	}
	label := strings.ToUpper(s[:1]) + s[1:]
	return StylePurple.Render(label)
}

// StepLabel returns a human-readable label for a session step.
func StepLabel(step domain.SessionStep) string {
	switch step {
	case domain.StepReviewGoals:
		return StyleBlue.Render("1/4 Review goals")
	case domain.StepMarkForScheduling:
		return StyleYellow.Render("2/4 Mark for scheduling")
	case domain.StepScheduleItems:
		return StyleYellow.Render("3/4 Schedule items")
	case domain.StepComplete:
		return StyleGreen.Render("4/4 Complete")
	default:
		return StyleDim.Render(string(step))
	}
}

// AttentionFlag renders the needs-attention marker for the attention report.
func AttentionFlag(needs bool) string {
	if needs {
		return StyleRed.Render("▲ ATTENTION")
	}
	return StyleGreen.Render("● on track")
}
