package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alexanderramin/hearth/internal/cli/formatter"
	"github.com/alexanderramin/hearth/internal/reminder"
	"github.com/spf13/cobra"
)

// newRemindCmd runs a foreground scheduler that nudges at the configured
// meeting time until interrupted.
func newRemindCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remind",
		Short: "Run the weekly meeting reminder in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			meeting, err := app.Meetings.Get(context.Background())
			if err != nil {
				return err
			}
			spec, err := reminder.MeetingCronSpec(meeting)
			if err != nil {
				return err
			}

			sched := app.Reminders
			if sched == nil {
				sched = reminder.New()
			}
			defer sched.Stop()

			err = sched.ScheduleWeeklyMeeting(meeting, func() {
				needed, err := app.Meetings.IsReviewNeeded(context.Background(), time.Now())
				if err != nil || !needed {
					return
				}
				fmt.Println(formatter.StyleYellow.Render("Time for the weekly planning meeting.") +
					" Run " + formatter.Bold("hearth session run") + ".")
			})
			if err != nil {
				return err
			}

			fmt.Printf("Reminder armed (%s). Press Ctrl-C to stop.\n", formatter.Dim(spec))

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop
			fmt.Println("\nStopped.")
			return nil
		},
	}
}
