package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/hearth/internal/cli/formatter"
	"github.com/alexanderramin/hearth/internal/domain"
	"github.com/alexanderramin/hearth/internal/planning"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

func newSessionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run the weekly planning session",
	}

	cmd.AddCommand(
		newSessionRunCmd(app),
		newSessionStatusCmd(app),
	)

	return cmd
}

func newSessionStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a planning session is due or active",
		RunE: func(cmd *cobra.Command, args []string) error {
			if s, err := app.Planning.GetSession(app.Household); err == nil {
				fmt.Printf("Session in progress: %s\n", formatter.StepLabel(s.Step))
				return nil
			}

			needed, err := app.Meetings.IsReviewNeeded(context.Background(), time.Now())
			if err != nil {
				return err
			}
			if needed {
				fmt.Println(formatter.StyleYellow.Render("Weekly review is due.") + " Run " + formatter.Bold("hearth session run") + ".")
			} else {
				fmt.Println(formatter.StyleGreen.Render("This week's review is done."))
			}
			return nil
		},
	}
}

// newSessionRunCmd drives the whole planning walk-through in one process:
// carryover review, goal review, marking, outcomes, completion. Sessions are
// in-memory, so the walk-through has to finish (or abandon) before exit.
func newSessionRunCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Walk through the planning session interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !app.interactive() {
				return fmt.Errorf("the planning walk-through needs an interactive terminal")
			}

			ctx := context.Background()
			session, err := app.Planning.StartSession(ctx, app.Household, time.Now())
			if err != nil {
				if errors.Is(err, planning.ErrSessionActive) {
					return fmt.Errorf("a session is already running in this process")
				}
				return err
			}

			// Make sure an interrupted walk-through does not leave a stale
			// session behind.
			finished := false
			defer func() {
				if !finished {
					app.Planning.AbandonSession(app.Household)
					fmt.Println(formatter.Dim("Session abandoned. Nothing was persisted."))
				}
			}()

			fmt.Printf("Planning week of %s\n", formatter.Bold(session.RegularStartDate.Format("Mon Jan 2")))
			if !session.RegularStartDate.Equal(session.ActualStartDate) {
				fmt.Printf("%s\n", formatter.Dim(fmt.Sprintf("Started late, on %s.", session.ActualStartDate.Format("Mon Jan 2"))))
			}

			if err := runCarryoverReview(ctx, app, session); err != nil {
				return err
			}
			if err := runGoalReview(ctx, app); err != nil {
				return err
			}
			if _, err := app.Planning.AdvanceSession(ctx, app.Household); err != nil {
				return err
			}

			marked, err := runMarking(ctx, app)
			if err != nil {
				return err
			}
			if _, err := app.Planning.AdvanceSession(ctx, app.Household); err != nil {
				return err
			}

			if err := runOutcomes(app, marked); err != nil {
				return err
			}
			if _, err := app.Planning.AdvanceSession(ctx, app.Household); err != nil {
				return err
			}

			var done bool
			if err := confirmForm("Complete the session?", "Outcomes are persisted and the week is closed.", &done).Run(); err != nil {
				return err
			}
			if !done {
				return nil
			}
			if err := app.Planning.CompleteSession(ctx, app.Household, time.Now()); err != nil {
				return err
			}
			finished = true
			fmt.Println(formatter.StyleGreen.Render("Week closed. See you next session."))
			return nil
		},
	}
}

// runCarryoverReview walks every gap instance and records the operator's
// accept/reject decision, then raises the session's all-clear flag.
func runCarryoverReview(ctx context.Context, app *App, session *domain.PlanningSession) error {
	if !session.HasCarryover() {
		return nil
	}

	fmt.Println()
	fmt.Println(formatter.Header("Carryover"))
	fmt.Println(formatter.Dim("These occurrences fell between the nominal week start and today."))

	criteriaIDs := make([]string, 0, len(session.CarryoverInstances))
	for id := range session.CarryoverInstances {
		criteriaIDs = append(criteriaIDs, id)
	}
	sort.Strings(criteriaIDs)

	for _, criteriaID := range criteriaIDs {
		for _, inst := range session.CarryoverInstances[criteriaID] {
			if inst.IsConfirmed {
				continue
			}
			var accept bool
			title := fmt.Sprintf("Count %s toward this week?", inst.Date.Format("Mon Jan 2"))
			desc := fmt.Sprintf("criterion %s, recorded as %s", criteriaID, inst.Status)
			if err := confirmForm(title, desc, &accept).Run(); err != nil {
				return err
			}
			if err := app.Planning.ConfirmCarryover(ctx, app.Household, criteriaID, inst.InstanceID, accept); err != nil {
				return err
			}
		}
	}

	return app.Planning.SetCarryoverConfirmed(ctx, app.Household)
}

func runGoalReview(ctx context.Context, app *App) error {
	goals, scales, err := app.Goals.ForReview(ctx, time.Now())
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(formatter.Header("Goal review"))
	if scales.Monthly || scales.Quarterly || scales.Yearly {
		fmt.Println(formatter.Dim("First week of a larger period: longer-horizon goals included."))
	}
	if len(goals) == 0 {
		fmt.Println(formatter.Dim("No goals to review."))
		return nil
	}

	for _, g := range goals {
		fmt.Printf("\n%s %s\n", formatter.ScaleBadge(g.TimeScale), formatter.Bold(g.Title))
		for _, c := range g.Criteria {
			fmt.Printf("  %s %s\n", formatter.Dim(fmt.Sprintf("%d× %s", c.TargetCount, c.Frequency)), c.Title)
		}
		var next bool
		if err := confirmForm("Reviewed?", "", &next).Run(); err != nil {
			return err
		}
		if _, err := app.Planning.NextGoal(app.Household); err != nil {
			return err
		}
	}
	return nil
}

// runMarking multi-selects the open items to carry into scheduling and
// returns them for the outcome step.
func runMarking(ctx context.Context, app *App) ([]*domain.ItineraryItem, error) {
	items, err := app.Items.List(ctx)
	if err != nil {
		return nil, err
	}

	open := make([]*domain.ItineraryItem, 0, len(items))
	for _, item := range items {
		if item.Status == domain.ItemPending || item.Status == domain.ItemOngoing {
			open = append(open, item)
		}
	}

	fmt.Println()
	fmt.Println(formatter.Header("Mark for scheduling"))
	if len(open) == 0 {
		fmt.Println(formatter.Dim("No open items."))
		return nil, nil
	}

	options := make([]huh.Option[string], 0, len(open))
	byID := make(map[string]*domain.ItineraryItem, len(open))
	for _, item := range open {
		label := fmt.Sprintf("%s (%s)", item.Title, item.Type)
		options = append(options, huh.NewOption(label, item.ID))
		byID[item.ID] = item
	}

	var selected []string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Items to schedule this week").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(hearthHuhTheme()).WithShowHelp(false)
	if err := form.Run(); err != nil {
		return nil, err
	}

	marked := make([]*domain.ItineraryItem, 0, len(selected))
	for _, id := range selected {
		if err := app.Planning.MarkItem(app.Household, id, true); err != nil {
			return nil, err
		}
		marked = append(marked, byID[id])
	}
	return marked, nil
}

// runOutcomes records a review outcome for each marked item.
func runOutcomes(app *App, marked []*domain.ItineraryItem) error {
	if len(marked) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println(formatter.Header("Outcomes"))

	outcomes := []huh.Option[string]{
		huh.NewOption("Keep as is", ""),
		huh.NewOption("Completed", string(domain.ItemCompleted)),
		huh.NewOption("Cancelled", string(domain.ItemCancelled)),
		huh.NewOption("Ongoing", string(domain.ItemOngoing)),
	}

	for _, item := range marked {
		var choice string
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewSelect[string]().
					Title(item.Title).
					Description(strings.TrimSpace(fmt.Sprintf("%s %s", item.Type, formatter.Dim(item.ID)))).
					Options(outcomes...).
					Value(&choice),
			),
		).WithTheme(hearthHuhTheme()).WithShowHelp(false)
		if err := form.Run(); err != nil {
			return err
		}
		if choice == "" {
			continue
		}
		if err := app.Planning.SetItemOutcome(app.Household, item.ID, domain.ItemStatus(choice)); err != nil {
			return err
		}
	}
	return nil
}
