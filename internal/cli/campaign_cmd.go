package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/domain"
)

func newCampaignCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Manage campaigns",
	}

	cmd.AddCommand(
		newCampaignAddCmd(app),
		newCampaignListCmd(app),
		newCampaignInspectCmd(app),
		newCampaignAttachCmd(app),
		newCampaignRollupCmd(app),
		newCampaignHealthCmd(app),
		newCampaignArchiveCmd(app),
	)

	return cmd
}

func newCampaignAddCmd(app *App) *cobra.Command {
	var name, objective, primaryKPI string
	var target float64
	var active bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := domain.Campaign{
				Name:      name,
				Objective: objective,
			}
			if active {
				c.Status = domain.CampaignActive
			}
			if primaryKPI != "" {
				c.KPIs.Primary = domain.KPI{Name: primaryKPI, Target: target}
				c.Blueprint.PrimaryKPI = primaryKPI
			}
			created, err := app.Campaigns.Create(context.Background(), c)
			if err != nil {
				return err
			}
			if created == nil {
				fmt.Println("Active campaign limit reached for your plan")
				return nil
			}
			fmt.Printf("Created campaign %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Campaign name")
	cmd.Flags().StringVar(&objective, "objective", "", "Campaign objective")
	cmd.Flags().StringVar(&primaryKPI, "kpi", "", "Primary KPI name")
	cmd.Flags().Float64Var(&target, "target", 0, "Primary KPI target")
	cmd.Flags().BoolVar(&active, "active", false, "Create as active instead of draft")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCampaignListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List campaigns",
		RunE: func(cmd *cobra.Command, args []string) error {
			campaigns, err := app.Campaigns.List(context.Background(), all)
			if err != nil {
				return err
			}
			if len(campaigns) == 0 {
				fmt.Println("No campaigns")
				return nil
			}

			headers := []string{"ID", "NAME", "STATUS", "PRIMARY KPI", "UPDATED"}
			rows := make([][]string, 0, len(campaigns))
			for _, c := range campaigns {
				rows = append(rows, []string{
					formatter.TruncID(c.ID),
					c.Name,
					formatter.CampaignStatusPill(c.Status),
					fmt.Sprintf("%s %.0f/%.0f", c.KPIs.Primary.Name, c.KPIs.Primary.Current, c.KPIs.Primary.Target),
					formatter.HumanTimestamp(c.UpdatedAt),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived campaigns")
	return cmd
}

func newCampaignInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show campaign details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			c, err := app.Campaigns.GetByID(ctx, args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s  %s\n\n", formatter.Bold(c.Name), formatter.CampaignStatusPill(c.Status)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID       "), formatter.TruncID(c.ID)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("OBJECTIVE"), c.Objective))
			if c.StrategyVersionID != "" {
				b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("STRATEGY "), formatter.TruncID(c.StrategyVersionID)))
			}
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED  "), formatter.HumanTimestamp(c.UpdatedAt)))

			b.WriteString("\n")
			b.WriteString(formatter.Header("KPIs"))
			b.WriteString("\n")
			kpiHeaders := []string{"KPI", "BASELINE", "CURRENT", "TARGET"}
			kpiRows := [][]string{}
			for _, k := range []domain.KPI{c.KPIs.Primary, c.KPIs.Reach, c.KPIs.Click, c.KPIs.Convert} {
				kpiRows = append(kpiRows, []string{
					k.Name,
					fmt.Sprintf("%.0f", k.Baseline),
					fmt.Sprintf("%.0f", k.Current),
					fmt.Sprintf("%.0f", k.Target),
				})
			}
			b.WriteString(formatter.RenderTable(kpiHeaders, kpiRows))

			if len(c.Timeline.Weeks) > 0 {
				b.WriteString("\n")
				b.WriteString(formatter.Header("Timeline"))
				b.WriteString("\n")
				for _, w := range c.Timeline.Weeks {
					b.WriteString(fmt.Sprintf("  W%d %s %d moves\n", w.Week, formatter.Dim(w.Phase), len(w.MoveIDs)))
				}
			}

			fmt.Print(formatter.RenderBox("Campaign", b.String()))
			return nil
		},
	}
}

func newCampaignAttachCmd(app *App) *cobra.Command {
	var week int

	cmd := &cobra.Command{
		Use:   "attach CAMPAIGN_ID MOVE_ID",
		Short: "Attach a move to the campaign timeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Campaigns.AttachMove(context.Background(), args[0], args[1], week); err != nil {
				return err
			}
			fmt.Printf("Attached move %s to week %d\n", args[1], week)
			return nil
		},
	}

	cmd.Flags().IntVar(&week, "week", 1, "Timeline week")
	return cmd
}

func newCampaignRollupCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "rollup ID",
		Short: "Recompute campaign KPIs from move tracking data",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Campaigns.ApplyKPIRollup(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Rolled up %s: primary=%.0f reach=%.0f click=%.0f convert=%.0f\n",
				c.Name, c.KPIs.Primary.Current, c.KPIs.Reach.Current, c.KPIs.Click.Current, c.KPIs.Convert.Current)
			return nil
		},
		Args: cobra.ExactArgs(1),
	}
}

func newCampaignHealthCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "health ID",
		Short: "Grade campaign health against its blueprint rules",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Campaigns.Health(context.Background(), args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s\n\n", formatter.RAGIndicator(res.RAG)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("EXECUTION  "), formatter.Percent(res.ExecutionPct)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("PERFORMANCE"), formatter.Percent(res.PerformancePct)))
			if !res.Graded {
				b.WriteString("\n" + formatter.Dim("No health rules configured; campaign is ungraded") + "\n")
			}
			for _, v := range res.Violations {
				style := formatter.StyleYellow
				if v.Rule.Severity == domain.SeverityFail {
					style = formatter.StyleRed
				}
				b.WriteString(fmt.Sprintf("  %s %s %s %.0f (actual %.1f)\n",
					style.Render("▲"), v.Rule.Metric, v.Rule.Operator, v.Rule.Threshold, v.Actual))
			}

			fmt.Print(formatter.RenderBox("Campaign Health", b.String()))
			return nil
		},
	}
}

func newCampaignArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a campaign",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Campaigns.Archive(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Archived campaign %s\n", args[0])
			return nil
		},
	}
}
