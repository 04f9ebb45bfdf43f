package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/domain"
)

func newPipelineCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Manage the production pipeline",
	}

	cmd.AddCommand(
		newPipelineAddCmd(app),
		newPipelineListCmd(app),
		newPipelineAssignCmd(app),
		newPipelineApprovalCmd(app),
		newPipelineApproveCmd(app),
		newPipelineRejectCmd(app),
		newPipelineScheduleCmd(app),
		newPipelineShipCmd(app),
		newPipelineLogCmd(app),
	)

	return cmd
}

func newPipelineAddCmd(app *App) *cobra.Command {
	var title, workType, channel, moveID, campaignID string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a pipeline item",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := domain.PipelineItem{
				Title:     title,
				WorkType:  workType,
				ChannelID: channel,
				Linked:    domain.PipelineLinks{MoveID: moveID, CampaignID: campaignID},
			}
			created, err := app.Pipeline.Create(context.Background(), p)
			if err != nil {
				return err
			}
			fmt.Printf("Created pipeline item %s (%s)\n", created.Title, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Item title")
	cmd.Flags().StringVar(&workType, "type", "asset", "Work type")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel ID")
	cmd.Flags().StringVar(&moveID, "move", "", "Linked move ID")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Linked campaign ID")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newPipelineListCmd(app *App) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pipeline items",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var items []*domain.PipelineItem
			var err error
			if status != "" {
				items, err = app.Pipeline.ListByStatus(ctx, domain.PipelineStatus(status))
			} else {
				items, err = app.Pipeline.List(ctx)
			}
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Println("No pipeline items")
				return nil
			}

			headers := []string{"ID", "TITLE", "STATUS", "OWNER", "APPROVAL"}
			rows := make([][]string, 0, len(items))
			for _, p := range items {
				rows = append(rows, []string{
					formatter.TruncID(p.ID),
					p.Title,
					formatter.PipelineStatusPill(p.Execution.Status),
					p.Execution.OwnerID,
					string(p.Approvals.State),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status (backlog|in_production|review|approval|scheduled|shipped|blocked)")
	return cmd
}

func newPipelineAssignCmd(app *App) *cobra.Command {
	var owner, reviewer, approver string

	cmd := &cobra.Command{
		Use:   "assign ID",
		Short: "Assign owner, reviewer and approver",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Pipeline.Assign(context.Background(), args[0], owner, reviewer, approver)
			if err != nil {
				return err
			}
			fmt.Printf("Assigned %s (%s)\n", p.Title, p.Execution.Status)
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "Owner ID")
	cmd.Flags().StringVar(&reviewer, "reviewer", "", "Reviewer ID")
	cmd.Flags().StringVar(&approver, "approver", "", "Approver ID")

	return cmd
}

func newPipelineApprovalCmd(app *App) *cobra.Command {
	var notRequired bool

	cmd := &cobra.Command{
		Use:   "request-approval ID",
		Short: "Request approval for an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Pipeline.RequestApproval(context.Background(), args[0], !notRequired)
			if err != nil {
				return err
			}
			fmt.Printf("Approval state: %s\n", p.Approvals.State)
			return nil
		},
	}

	cmd.Flags().BoolVar(&notRequired, "not-required", false, "Mark approval as not required")
	return cmd
}

func newPipelineApproveCmd(app *App) *cobra.Command {
	var approver string

	cmd := &cobra.Command{
		Use:   "approve ID",
		Short: "Approve a pending item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Pipeline.Approve(context.Background(), args[0], approver)
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Println("Item has no pending approval request")
				return nil
			}
			fmt.Printf("Approved %s\n", p.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&approver, "by", "", "Approver ID")
	return cmd
}

func newPipelineRejectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reject ID",
		Short: "Reject a pending item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Pipeline.Reject(context.Background(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				fmt.Println("Item has no pending approval request")
				return nil
			}
			fmt.Printf("Rejected %s; item is blocked\n", p.Title)
			return nil
		},
	}
}

func newPipelineScheduleCmd(app *App) *cobra.Command {
	var at string
	var clear bool

	cmd := &cobra.Command{
		Use:   "schedule ID",
		Short: "Schedule an item for publication",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var when *time.Time
			if !clear {
				t, err := time.Parse(time.RFC3339, at)
				if err != nil {
					return fmt.Errorf("parsing --at: %w", err)
				}
				when = &t
			}
			p, err := app.Pipeline.Schedule(context.Background(), args[0], when)
			if err != nil {
				return err
			}
			if when == nil {
				fmt.Printf("Cleared schedule for %s\n", p.Title)
			} else {
				fmt.Printf("Scheduled %s for %s\n", p.Title, when.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "", "Publication time (RFC3339)")
	cmd.Flags().BoolVar(&clear, "clear", false, "Clear the schedule")
	return cmd
}

func newPipelineShipCmd(app *App) *cobra.Command {
	var receiptType, receiptValue string

	cmd := &cobra.Command{
		Use:   "ship ID",
		Short: "Mark an item shipped with its receipt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Pipeline.MarkShipped(context.Background(), args[0], domain.Receipt{
				Type:  receiptType,
				Value: receiptValue,
			})
			if err != nil {
				return err
			}
			if p.Execution.Status == domain.PipelineBlocked {
				fmt.Println("Blocked: a receipt with --type and --value is required to ship")
				return nil
			}
			fmt.Printf("Shipped %s\n", p.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&receiptType, "type", "", "Receipt type (url|screenshot|id)")
	cmd.Flags().StringVar(&receiptValue, "value", "", "Receipt value")
	return cmd
}

func newPipelineLogCmd(app *App) *cobra.Command {
	var metric string
	var value float64

	cmd := &cobra.Command{
		Use:   "log ID",
		Short: "Log a post-ship metric event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := app.Pipeline.LogResult(context.Background(), args[0],
				domain.MetricEvent{Name: metric, Value: value}, metric)
			if err != nil {
				return err
			}
			fmt.Printf("Logged %s=%.0f on %s\n", metric, value, p.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&metric, "metric", "", "Metric name")
	cmd.Flags().Float64Var(&value, "value", 0, "Metric value")
	_ = cmd.MarkFlagRequired("metric")
	return cmd
}
