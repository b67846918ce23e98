package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/cli/formatter"
	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/spf13/cobra"
)

func newEventCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage calendar events",
	}

	cmd.AddCommand(
		newEventAddCmd(app),
		newEventListCmd(app),
		newEventInstancesCmd(app),
		newEventRemoveCmd(app),
	)

	return cmd
}

func newEventAddCmd(app *App) *cobra.Command {
	var title, start, end, repeat, until string
	var days []string
	var interval, count int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a calendar event",
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, err := parseDateTime(start)
			if err != nil {
				return err
			}
			endAt := startAt.Add(time.Hour)
			if end != "" {
				if endAt, err = parseDateTime(end); err != nil {
					return err
				}
			}

			e := &domain.CalendarEvent{
				Title: title,
				Start: startAt,
				End:   endAt,
			}
			if repeat != "" {
				rule := &domain.RecurrenceRule{
					Frequency: domain.TimeScale(repeat),
					Interval:  interval,
				}
				if len(days) > 0 {
					nums := make([]int, 0, len(days))
					for _, d := range days {
						n, err := parseWeekday(d)
						if err != nil {
							return err
						}
						nums = append(nums, n)
					}
					rule.DaysOfWeek = domain.NewWeekdaySet(nums...)
				}
				if count > 0 {
					rule.Count = &count
				}
				if until != "" {
					t, err := parseDate(until)
					if err != nil {
						return err
					}
					rule.EndDate = &t
				}
				e.Recurrence = rule
			}

			if err := app.Events.Create(context.Background(), e); err != nil {
				return err
			}
			fmt.Printf("Created event %q (%s)\n", e.Title, e.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Event title")
	cmd.Flags().StringVar(&start, "start", "", "Start as YYYY-MM-DD or \"YYYY-MM-DD HH:mm\"")
	cmd.Flags().StringVar(&end, "end", "", "End time; defaults to one hour after start")
	cmd.Flags().StringVar(&repeat, "repeat", "", "Recurrence frequency: daily, weekly, monthly or yearly")
	cmd.Flags().StringArrayVar(&days, "day", nil, "Recurrence weekday, 0-6 or a name (repeatable)")
	cmd.Flags().IntVar(&interval, "interval", 1, "Recurrence interval")
	cmd.Flags().IntVar(&count, "count", 0, "Maximum number of occurrences")
	cmd.Flags().StringVar(&until, "until", "", "Last occurrence date as YYYY-MM-DD")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newEventListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored events",
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := app.Events.List(context.Background())
			if err != nil {
				return err
			}
			if len(events) == 0 {
				fmt.Println("No events yet.")
				return nil
			}

			headers := []string{"ID", "TITLE", "START", "REPEATS"}
			rows := make([][]string, 0, len(events))
			for _, e := range events {
				repeats := formatter.Dim("once")
				if e.Recurrence != nil {
					repeats = formatter.ScaleBadge(e.Recurrence.Frequency)
				}
				rows = append(rows, []string{
					formatter.TruncID(e.ID),
					e.Title,
					formatter.HumanDateTime(e.Start),
					repeats,
				})
			}
			fmt.Print(formatter.RenderBox("Events", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}

func newEventInstancesCmd(app *App) *cobra.Command {
	var from, to string
	var daysAhead int

	cmd := &cobra.Command{
		Use:   "instances",
		Short: "Expand events into dated occurrences inside a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			windowStart := time.Now()
			windowEnd := windowStart.AddDate(0, 0, daysAhead)
			var err error
			if from != "" {
				if windowStart, err = parseDate(from); err != nil {
					return err
				}
			}
			if to != "" {
				if windowEnd, err = parseDate(to); err != nil {
					return err
				}
			}

			instances, err := app.Events.Instances(context.Background(), windowStart, windowEnd)
			if err != nil {
				return err
			}
			if len(instances) == 0 {
				fmt.Println("No occurrences in window.")
				return nil
			}

			headers := []string{"WHEN", "TITLE", "ID"}
			rows := make([][]string, 0, len(instances))
			for _, inst := range instances {
				rows = append(rows, []string{
					formatter.HumanDateTime(inst.Start),
					inst.Title,
					formatter.Dim(inst.ID),
				})
			}
			fmt.Print(formatter.RenderBox("Occurrences", formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&to, "to", "", "Window end as YYYY-MM-DD")
	cmd.Flags().IntVar(&daysAhead, "days", 14, "Window length in days when --to is not given")

	return cmd
}

func newEventRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Events.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed event %s\n", args[0])
			return nil
		},
	}
}
