package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/hearth/internal/cli/formatter"
	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/spf13/cobra"
)

func newProgressCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "progress",
		Short: "Track success-criteria progress",
	}

	cmd.AddCommand(
		newProgressLogCmd(app),
		newProgressShowCmd(app),
		newProgressRebuildCmd(app),
		newProgressAttentionCmd(app),
	)

	return cmd
}

func newProgressLogCmd(app *App) *cobra.Command {
	var criteriaID, goalID, date, status string
	var unconfirmed bool

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Record one dated occurrence of a criterion",
		RunE: func(cmd *cobra.Command, args []string) error {
			at := time.Now()
			if date != "" {
				var err error
				if at, err = parseDate(date); err != nil {
					return err
				}
			}

			progress, err := app.Progress.UpdateCriteriaStatus(
				context.Background(),
				criteriaID, goalID, at,
				domain.CriteriaStatus(status),
				!unconfirmed,
			)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s for %s: now %s %s\n",
				status, criteriaID,
				formatter.ProgressCount(progress.ActualCount, progress.TargetCount),
				formatter.CriteriaStatusPill(progress.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&criteriaID, "criteria", "", "Success criterion ID")
	cmd.Flags().StringVar(&goalID, "goal", "", "Owning goal ID")
	cmd.Flags().StringVar(&date, "date", "", "Occurrence date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&status, "status", string(domain.CriteriaCompleted), "Occurrence status: pending, ongoing, completed or failed")
	cmd.Flags().BoolVar(&unconfirmed, "unconfirmed", false, "Record without counting toward the aggregate")
	_ = cmd.MarkFlagRequired("criteria")
	_ = cmd.MarkFlagRequired("goal")

	return cmd
}

func newProgressShowCmd(app *App) *cobra.Command {
	var criteriaID, periodID string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a criterion's aggregate for a period",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Progress.GetProgress(context.Background(), criteriaID, periodID)
			if err != nil {
				return err
			}

			fmt.Printf("%s  %s %s\n",
				formatter.TruncID(p.CriteriaID),
				formatter.ProgressCount(p.ActualCount, p.TargetCount),
				formatter.CriteriaStatusPill(p.Status))
			for _, inst := range p.Instances {
				marker := formatter.StyleGreen.Render("✔")
				if !inst.IsConfirmed {
					marker = formatter.Dim("·")
				}
				fmt.Printf("  %s %s %s\n", marker, inst.Date.Format("Mon Jan 2"), formatter.Dim(string(inst.Status)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&criteriaID, "criteria", "", "Success criterion ID")
	cmd.Flags().StringVar(&periodID, "period", "", "Planning period ID")
	_ = cmd.MarkFlagRequired("criteria")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func newProgressRebuildCmd(app *App) *cobra.Command {
	var criteriaID, periodID string

	cmd := &cobra.Command{
		Use:   "rebuild",
		Short: "Recompute an aggregate from the instance log",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Progress.RebuildProgress(context.Background(), criteriaID, periodID)
			if err != nil {
				return err
			}
			fmt.Printf("Rebuilt %s: %s %s\n",
				criteriaID,
				formatter.ProgressCount(p.ActualCount, p.TargetCount),
				formatter.CriteriaStatusPill(p.Status))
			return nil
		},
	}

	cmd.Flags().StringVar(&criteriaID, "criteria", "", "Success criterion ID")
	cmd.Flags().StringVar(&periodID, "period", "", "Planning period ID")
	_ = cmd.MarkFlagRequired("criteria")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}

func newProgressAttentionCmd(app *App) *cobra.Command {
	var periodID string

	cmd := &cobra.Command{
		Use:   "attention",
		Short: "Flag criteria falling behind their target pace",
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := app.Progress.AttentionReport(context.Background(), periodID, time.Now())
			if err != nil {
				return err
			}
			if len(report) == 0 {
				fmt.Println("Nothing tracked this period.")
				return nil
			}

			headers := []string{"CRITERION", "PROGRESS", "STREAK", ""}
			rows := make([][]string, 0, len(report))
			for _, item := range report {
				rows = append(rows, []string{
					item.Title,
					formatter.ProgressCount(item.ActualCount, item.TargetCount),
					fmt.Sprintf("%d", item.Streak),
					formatter.AttentionFlag(item.NeedsAttention),
				})
			}
			fmt.Print(formatter.RenderBox("Attention", formatter.RenderTable(headers, rows)))
			return nil
		},
	}

	cmd.Flags().StringVar(&periodID, "period", "", "Planning period ID")
	_ = cmd.MarkFlagRequired("period")

	return cmd
}
