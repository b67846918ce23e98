// Package cli wires the planner's services into the hearth command tree.
package cli

import (
	"github.com/alexanderramin/hearth/internal/reminder"
	"github.com/alexanderramin/hearth/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Goals    service.GoalService
	Events   service.EventService
	Items    service.ItineraryService
	Meetings service.MeetingService
	Planning service.PlanningService
	Progress service.ProgressService

	Reminders *reminder.Reminder

	// Household scopes planning sessions and periods.
	Household string

	// IsInteractive reports whether stdin is a terminal; interactive
	// walk-throughs refuse to run without one.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "hearth" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "hearth",
		Short: "Household goal and planning-cycle tracker",
	}

	root.AddCommand(
		newGoalCmd(app),
		newEventCmd(app),
		newItemCmd(app),
		newMeetingCmd(app),
		newSessionCmd(app),
		newProgressCmd(app),
		newICSCmd(app),
		newRemindCmd(app),
	)

	return root
}
