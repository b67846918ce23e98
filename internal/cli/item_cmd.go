package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/cli/formatter"
	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/spf13/cobra"
)

func newItemCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage itinerary items",
	}

	cmd.AddCommand(
		newItemAddCmd(app),
		newItemListCmd(app),
		newItemUpcomingCmd(app),
		newItemStatusCmd(app),
		newItemRemoveCmd(app),
	)

	return cmd
}

func newItemAddCmd(app *App) *cobra.Command {
	var title, itemType, refID, criteriaID, due, target, repeat, schedStart, schedEnd string
	var slots []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an itinerary item",
		RunE: func(cmd *cobra.Command, args []string) error {
			item := &domain.ItineraryItem{
				Title:       title,
				Type:        domain.ItemType(itemType),
				ReferenceID: refID,
				CriteriaID:  criteriaID,
			}
			if due != "" {
				t, err := parseDate(due)
				if err != nil {
					return err
				}
				item.DueDate = &t
			}
			if target != "" {
				t, err := parseDate(target)
				if err != nil {
					return err
				}
				item.TargetDate = &t
			}
			if repeat != "" || schedStart != "" {
				sched := &domain.Schedule{StartDate: time.Now()}
				if schedStart != "" {
					t, err := parseDate(schedStart)
					if err != nil {
						return err
					}
					sched.StartDate = t
				}
				if repeat != "" {
					scale := domain.TimeScale(repeat)
					sched.Repeat = &scale
				}
				if schedEnd != "" {
					t, err := parseDate(schedEnd)
					if err != nil {
						return err
					}
					sched.EndDate = &t
				}
				for _, spec := range slots {
					slot, err := parseSlotSpec(spec)
					if err != nil {
						return err
					}
					sched.Slots = append(sched.Slots, slot)
				}
				item.Schedule = sched
			}

			if err := app.Items.Create(context.Background(), item); err != nil {
				return err
			}
			fmt.Printf("Created %s %q (%s)\n", item.Type, item.Title, item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().StringVar(&itemType, "type", string(domain.ItemTask), "Item type: task, routine, event, project or one-time-task")
	cmd.Flags().StringVar(&refID, "ref", "", "Owning goal or project ID")
	cmd.Flags().StringVar(&criteriaID, "criteria", "", "Linked success criterion ID")
	cmd.Flags().StringVar(&due, "due", "", "Due date as YYYY-MM-DD")
	cmd.Flags().StringVar(&target, "target", "", "Target date as YYYY-MM-DD")
	cmd.Flags().StringVar(&repeat, "repeat", "", "Schedule repeat: daily, weekly, monthly, quarterly or yearly")
	cmd.Flags().StringVar(&schedStart, "start", "", "Schedule start date as YYYY-MM-DD")
	cmd.Flags().StringVar(&schedEnd, "end-date", "", "Schedule end date as YYYY-MM-DD")
	cmd.Flags().StringArrayVar(&slots, "slot", nil, "Schedule slot as DAY or DAY@HH:mm (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("ref")

	return cmd
}

func newItemListCmd(app *App) *cobra.Command {
	var refID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List itinerary items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var items []*domain.ItineraryItem
			var err error
			if refID != "" {
				items, err = app.Items.ListByReference(ctx, refID)
			} else {
				items, err = app.Items.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No items found.")
				return nil
			}

			headers := []string{"ID", "TYPE", "TITLE", "STATUS", "DUE"}
			rows := make([][]string, 0, len(items))
			for _, item := range items {
				due := formatter.Dim("--")
				if item.DueDate != nil {
					due = formatter.HumanDate(*item.DueDate)
				}
				rows = append(rows, []string{
					formatter.TruncID(item.ID),
					string(item.Type),
					item.Title,
					formatter.ItemStatusPill(item.Status),
					due,
				})
			}
			fmt.Print(formatter.RenderBox("Itinerary", formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().StringVar(&refID, "ref", "", "Filter by owning goal or project ID")
	return cmd
}

func newItemUpcomingCmd(app *App) *cobra.Command {
	var daysAhead int

	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "Show scheduled occurrences in the coming days",
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			end := start.AddDate(0, 0, daysAhead)

			occ, err := app.Items.Upcoming(context.Background(), start, end)
			if err != nil {
				return err
			}
			if len(occ) == 0 {
				fmt.Println("Nothing scheduled in window.")
				return nil
			}

			headers := []string{"WHEN", "TITLE", "TYPE", "STATUS"}
			rows := make([][]string, 0, len(occ))
			for _, o := range occ {
				rows = append(rows, []string{
					formatter.HumanDateTime(o.At),
					o.Item.Title,
					string(o.Item.Type),
					formatter.ItemStatusPill(o.Item.Status),
				})
			}
			fmt.Print(formatter.RenderBox("Upcoming", formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().IntVar(&daysAhead, "days", 7, "Window length in days")
	return cmd
}

func newItemStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID STATUS",
		Short: "Set an item's status (pending, ongoing, completed, cancelled)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.ItemStatus(args[1])
			if err := app.Items.SetStatus(context.Background(), args[0], status); err != nil {
				return err
			}
			fmt.Printf("Item %s is now %s\n", args[0], status)
			return nil
		},
	}
}

func newItemRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove an itinerary item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Items.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed item %s\n", args[0])
			return nil
		},
	}
}
