package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/hearth/internal/cli/formatter"
	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/spf13/cobra"
)

func newGoalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage household goals",
	}

	cmd.AddCommand(
		newGoalAddCmd(app),
		newGoalListCmd(app),
		newGoalShowCmd(app),
		newGoalReviewCmd(app),
		newGoalRemoveCmd(app),
	)

	return cmd
}

func newGoalAddCmd(app *App) *cobra.Command {
	var title, scale string
	var steps, criteria []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a goal",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := &domain.Goal{
				Title:     title,
				TimeScale: domain.TimeScale(scale),
				Steps:     steps,
			}
			for _, spec := range criteria {
				crit, err := parseCriterionSpec(spec)
				if err != nil {
					return err
				}
				g.Criteria = append(g.Criteria, crit)
			}

			if err := app.Goals.Create(context.Background(), g); err != nil {
				return err
			}
			fmt.Printf("Created %s goal %q (%s)\n", g.TimeScale, g.Title, g.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Goal title")
	cmd.Flags().StringVar(&scale, "scale", string(domain.ScaleWeekly), "Time scale: daily, weekly, monthly, quarterly or yearly")
	cmd.Flags().StringArrayVar(&steps, "step", nil, "Action step (repeatable)")
	cmd.Flags().StringArrayVar(&criteria, "criterion", nil, "Success criterion as TITLE:TARGET:FREQUENCY (repeatable)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newGoalListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List goals",
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, err := app.Goals.List(context.Background())
			if err != nil {
				return err
			}
			if len(goals) == 0 {
				fmt.Println("No goals yet.")
				return nil
			}

			headers := []string{"ID", "SCALE", "TITLE", "CRITERIA", "STEPS"}
			rows := make([][]string, 0, len(goals))
			for _, g := range goals {
				rows = append(rows, []string{
					formatter.TruncID(g.ID),
					formatter.ScaleBadge(g.TimeScale),
					g.Title,
					fmt.Sprintf("%d", len(g.Criteria)),
					fmt.Sprintf("%d", len(g.Steps)),
				})
			}
			fmt.Print(formatter.RenderBox("Goals", formatter.RenderTable(headers, rows)))
			return nil
		},
	}
}

func newGoalShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one goal with its criteria and steps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := app.Goals.GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.RenderBox(g.Title, renderGoalBody(g)))
			return nil
		},
	}
}

func renderGoalBody(g *domain.Goal) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s  %s\n", formatter.Dim("SCALE"), formatter.ScaleBadge(g.TimeScale)))
	b.WriteString(fmt.Sprintf("%s     %s\n", formatter.Dim("ID"), g.ID))

	if len(g.Criteria) > 0 {
		b.WriteString("\n" + formatter.Header("Success criteria") + "\n")
		for _, c := range g.Criteria {
			b.WriteString(fmt.Sprintf("  %s %s  %s %s\n",
				formatter.TruncID(c.ID), c.Title,
				formatter.Dim(fmt.Sprintf("%d×", c.TargetCount)),
				formatter.ScaleBadge(c.Frequency)))
		}
	}
	if len(g.Steps) > 0 {
		b.WriteString("\n" + formatter.Header("Steps") + "\n")
		for i, s := range g.Steps {
			b.WriteString(fmt.Sprintf("  %d. %s\n", i+1, s))
		}
	}
	return b.String()
}

func newGoalReviewCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "review",
		Short: "List the goals today's planning session should walk through",
		RunE: func(cmd *cobra.Command, args []string) error {
			goals, scales, err := app.Goals.ForReview(context.Background(), time.Now())
			if err != nil {
				return err
			}

			var scopes []string
			scopes = append(scopes, "daily", "weekly")
			if scales.Monthly {
				scopes = append(scopes, "monthly")
			}
			if scales.Quarterly {
				scopes = append(scopes, "quarterly")
			}
			if scales.Yearly {
				scopes = append(scopes, "yearly")
			}
			fmt.Printf("Reviewing %s goals.\n", strings.Join(scopes, ", "))

			if len(goals) == 0 {
				fmt.Println("Nothing to review.")
				return nil
			}
			for _, g := range goals {
				fmt.Printf("  %s %s %s\n", formatter.TruncID(g.ID), formatter.ScaleBadge(g.TimeScale), g.Title)
			}
			return nil
		},
	}
}

func newGoalRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Goals.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed goal %s\n", args[0])
			return nil
		},
	}
}
