package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/domain"
)

func newMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move",
		Short: "Manage moves",
	}

	cmd.AddCommand(
		newMoveAddCmd(app),
		newMoveListCmd(app),
		newMoveInspectCmd(app),
		newMoveTaskAddCmd(app),
		newMoveTaskDoneCmd(app),
		newMoveTrackCmd(app),
		newMoveReadinessCmd(app),
		newMoveFixCmd(app),
		newMoveGenerateCmd(app),
		newMoveCompleteCmd(app),
	)

	return cmd
}

func newMoveAddCmd(app *App) *cobra.Command {
	var objective, cohort, channel, cta, metric, campaignID string
	var duration int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new move",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := domain.Move{
				CampaignID: campaignID,
				Objective:  objective,
				Cohort:     cohort,
				Channel:    channel,
				CTA:        cta,
				Plan:       domain.MovePlan{DurationDays: duration},
				Tracking:   domain.Tracking{Metric: metric},
			}
			created, err := app.Moves.Create(context.Background(), m)
			if err != nil {
				return err
			}
			fmt.Printf("Created move %s (%s)\n", created.Objective, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&objective, "objective", "", "Move objective")
	cmd.Flags().StringVar(&cohort, "cohort", "", "Target cohort ID")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel")
	cmd.Flags().StringVar(&cta, "cta", "", "Call to action")
	cmd.Flags().StringVar(&metric, "metric", "", "Tracked success metric")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")
	cmd.Flags().IntVar(&duration, "days", 0, "Plan duration in days")

	return cmd
}

func newMoveListCmd(app *App) *cobra.Command {
	var campaignID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List moves",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var moves []*domain.Move
			var err error
			if campaignID != "" {
				moves, err = app.Moves.ListByCampaign(ctx, campaignID)
			} else {
				moves, err = app.Moves.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(moves) == 0 {
				fmt.Println("No moves")
				return nil
			}

			headers := []string{"ID", "OBJECTIVE", "STATUS", "CHANNEL", "TASKS"}
			rows := make([][]string, 0, len(moves))
			for _, m := range moves {
				done, total := m.ChecklistProgress()
				rows = append(rows, []string{
					formatter.TruncID(m.ID),
					m.Objective,
					formatter.MoveStatusPill(m.Status),
					m.Channel,
					fmt.Sprintf("%d/%d", done, total),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Filter by campaign ID")
	return cmd
}

func newMoveInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show move details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Moves.GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s  %s\n\n", formatter.Bold(m.Objective), formatter.MoveStatusPill(m.Status)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID     "), formatter.TruncID(m.ID)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("COHORT "), m.Cohort))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("CHANNEL"), m.Channel))
			b.WriteString(fmt.Sprintf("  %s  %s (%.0f total)\n", formatter.Dim("METRIC "), m.Tracking.Metric, m.TrackingTotal()))
			b.WriteString(fmt.Sprintf("  %s  %d days\n", formatter.Dim("PLAN   "), m.Plan.DurationDays))
			if m.Result.Outcome != "" {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("OUTCOME"), m.Result.Outcome))
			}

			if len(m.Tasks) > 0 {
				b.WriteString("\n")
				b.WriteString(formatter.Header("Tasks"))
				b.WriteString("\n")
				for _, task := range m.Tasks {
					mark := formatter.Dim("○")
					if task.Status == domain.TaskDone {
						mark = formatter.StyleGreen.Render("✔")
					}
					b.WriteString(fmt.Sprintf("  %s D%d %s %s\n", mark, task.Day, task.Text, formatter.TruncID(task.ID)))
				}
			}

			fmt.Print(formatter.RenderBox("Move", b.String()))
			return nil
		},
	}
}

func newMoveTaskAddCmd(app *App) *cobra.Command {
	var text string
	var day int

	cmd := &cobra.Command{
		Use:   "task-add MOVE_ID",
		Short: "Add a task to a move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Moves.AddTask(context.Background(), args[0], domain.MoveTask{Text: text, Day: day})
			if err != nil {
				return err
			}
			added := m.Tasks[len(m.Tasks)-1]
			fmt.Printf("Added task %s on day %d\n", added.ID, added.Day)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Task text")
	cmd.Flags().IntVar(&day, "day", 1, "Plan day")
	_ = cmd.MarkFlagRequired("text")

	return cmd
}

func newMoveTaskDoneCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "task-done MOVE_ID TASK_ID",
		Short: "Mark a move task done",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Moves.SetTaskStatus(context.Background(), args[0], args[1], domain.TaskDone)
			if err != nil {
				return err
			}
			done, total := m.ChecklistProgress()
			fmt.Printf("Task done (%d/%d complete)\n", done, total)
			return nil
		},
	}
}

func newMoveTrackCmd(app *App) *cobra.Command {
	var value float64

	cmd := &cobra.Command{
		Use:   "track MOVE_ID",
		Short: "Record a tracking metric value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Moves.AddTrackingUpdate(context.Background(), args[0], value)
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s=%.0f (total %.0f)\n", m.Tracking.Metric, value, m.TrackingTotal())
			return nil
		},
	}

	cmd.Flags().Float64Var(&value, "value", 0, "Metric value")
	_ = cmd.MarkFlagRequired("value")

	return cmd
}

func newMoveReadinessCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "readiness MOVE_ID",
		Short: "Evaluate the generation readiness gates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rd, err := app.Moves.Readiness(context.Background(), args[0])
			if err != nil {
				return err
			}
			printReadiness(rd.Ready, rd.Gates)
			return nil
		},
	}
}

func newMoveFixCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "fix MOVE_ID GATE_ID",
		Short: "Apply the canonical remediation for a failing gate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rd, err := app.Moves.FixReadiness(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			printReadiness(rd.Ready, rd.Gates)
			return nil
		},
	}
}

func newMoveGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate MOVE_ID",
		Short: "Start automated generation for a ready move",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Moves.StartGeneration(context.Background(), args[0])
			if err != nil {
				return err
			}
			switch {
			case res.OK:
				fmt.Println("Generation started; the move will activate shortly")
			case res.QuotaDenied:
				fmt.Println("Generation quota reached for your plan")
			case !res.Readiness.Ready:
				fmt.Println("Move is not ready:")
				printReadiness(res.Readiness.Ready, res.Readiness.Gates)
			default:
				fmt.Println("Move is not pending; generation only starts from pending")
			}
			return nil
		},
	}
}

func newMoveCompleteCmd(app *App) *cobra.Command {
	var outcome, learning string

	cmd := &cobra.Command{
		Use:   "complete MOVE_ID",
		Short: "Complete an active move and record the result",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := app.Moves.Complete(context.Background(), args[0], outcome, learning)
			if err != nil {
				return err
			}
			if m == nil {
				fmt.Println("Only active moves can be completed")
				return nil
			}
			fmt.Printf("Completed move %s\n", m.Objective)
			return nil
		},
	}

	cmd.Flags().StringVar(&outcome, "outcome", "", "What happened")
	cmd.Flags().StringVar(&learning, "learning", "", "What was learned")

	return cmd
}
