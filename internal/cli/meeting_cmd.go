package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/cli/formatter"
	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/spf13/cobra"
)

func newMeetingCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meeting",
		Short: "Configure the weekly planning meeting",
	}

	cmd.AddCommand(
		newMeetingShowCmd(app),
		newMeetingSetCmd(app),
	)

	return cmd
}

func newMeetingShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the meeting configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			m, err := app.Meetings.Get(ctx)
			if err != nil {
				return err
			}

			when := formatter.Weekday(m.DayOfWeek)
			if m.PreferredTime != "" {
				when += " " + m.PreferredTime
			}
			last := formatter.Dim("never")
			if m.LastCompleted != nil {
				last = formatter.HumanDate(*m.LastCompleted)
			}

			needed, err := app.Meetings.IsReviewNeeded(ctx, time.Now())
			if err != nil {
				return err
			}
			due := formatter.StyleGreen.Render("up to date")
			if needed {
				due = formatter.StyleYellow.Render("review due")
			}

			fmt.Printf("Weekly meeting: %s\n", formatter.Bold(when))
			fmt.Printf("Last completed: %s\n", last)
			fmt.Printf("Status: %s\n", due)
			return nil
		},
	}
}

func newMeetingSetCmd(app *App) *cobra.Command {
	var day, at string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set the meeting day and optional time",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseWeekday(day)
			if err != nil {
				return err
			}
			m := &domain.WeeklyMeeting{DayOfWeek: d, PreferredTime: at}
			if err := app.Meetings.Set(context.Background(), m); err != nil {
				return err
			}
			fmt.Printf("Meeting set to %s", formatter.Weekday(d))
			if at != "" {
				fmt.Printf(" at %s", at)
			}
			fmt.Println()
			return nil
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Meeting day, 0-6 or a weekday name")
	cmd.Flags().StringVar(&at, "time", "", "Preferred time as HH:mm")
	_ = cmd.MarkFlagRequired("day")

	return cmd
}
