package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/ics"
	"github.com/spf13/cobra"
)

func newICSCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Import and export iCalendar feeds",
	}

	cmd.AddCommand(
		newICSImportCmd(app),
		newICSExportCmd(app),
	)

	return cmd
}

func newICSImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import VEVENTs from an ICS file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := ics.ImportFeed(f)
			if err != nil {
				return err
			}

			ctx := context.Background()
			created := 0
			for _, ev := range result.Events {
				if err := app.Events.Create(ctx, ev); err != nil {
					return fmt.Errorf("importing %q: %w", ev.Title, err)
				}
				created++
			}
			fmt.Printf("Imported %d event(s)", created)
			if result.Skipped > 0 {
				fmt.Printf(", skipped %d unsupported", result.Skipped)
			}
			fmt.Println()
			return nil
		},
	}
}

func newICSExportCmd(app *App) *cobra.Command {
	var from, to string
	var daysAhead int
	var itinerary bool

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export occurrences in a window as an ICS file",
		Args:  cobra.ExactArgs(1),
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

			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ctx := context.Background()
			if itinerary {
				occ, err := app.Items.Upcoming(ctx, windowStart, windowEnd)
				if err != nil {
					return err
				}
				items := make([]domain.ItineraryItem, 0, len(occ))
				dates := make([]time.Time, 0, len(occ))
				for _, o := range occ {
					items = append(items, *o.Item)
					dates = append(dates, o.At)
				}
				if err := ics.ExportItinerary(items, dates, f); err != nil {
					return err
				}
				fmt.Printf("Exported %d itinerary occurrence(s) to %s\n", len(items), args[0])
				return nil
			}

			instances, err := app.Events.Instances(ctx, windowStart, windowEnd)
			if err != nil {
				return err
			}
			if err := ics.ExportEvents(instances, f); err != nil {
				return err
			}
			fmt.Printf("Exported %d occurrence(s) to %s\n", len(instances), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Window start as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&to, "to", "", "Window end as YYYY-MM-DD")
	cmd.Flags().IntVar(&daysAhead, "days", 14, "Window length in days when --to is not given")
	cmd.Flags().BoolVar(&itinerary, "itinerary", false, "Export itinerary occurrences instead of events")

	return cmd
}
