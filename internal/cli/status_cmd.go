package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/domain"
)

func newStatusCmd(app *App) *cobra.Command {
	var includeArchived bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the war-room overview",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			var b strings.Builder

			campaigns, err := app.Campaigns.List(ctx, includeArchived)
			if err != nil {
				return err
			}
			b.WriteString(formatter.Header("Campaigns") + "\n")
			if len(campaigns) == 0 {
				b.WriteString(formatter.Dim("No campaigns") + "\n")
			} else {
				headers := []string{"ID", "NAME", "STATUS", "HEALTH", "PRIMARY KPI"}
				rows := make([][]string, 0, len(campaigns))
				for _, c := range campaigns {
					res, err := app.Campaigns.Health(ctx, c.ID)
					if err != nil {
						return err
					}
					kpi := fmt.Sprintf("%s %.0f/%.0f", c.KPIs.Primary.Name, c.KPIs.Primary.Current, c.KPIs.Primary.Target)
					rows = append(rows, []string{
						formatter.TruncID(c.ID),
						c.Name,
						formatter.CampaignStatusPill(c.Status),
						formatter.RAGIndicator(res.RAG),
						kpi,
					})
				}
				b.WriteString(formatter.RenderTable(headers, rows))
			}

			moves, err := app.Moves.List(ctx)
			if err != nil {
				return err
			}
			counts := map[domain.MoveStatus]int{}
			for _, m := range moves {
				counts[m.Status]++
			}
			b.WriteString("\n" + formatter.Header("Moves") + "\n")
			b.WriteString(fmt.Sprintf("%d total: %d pending, %d generating, %d active, %d completed\n",
				len(moves),
				counts[domain.MovePending], counts[domain.MoveGenerating],
				counts[domain.MoveActive], counts[domain.MoveCompleted]))

			usage, limits, err := app.Governor.Snapshot(ctx)
			if err != nil {
				return err
			}
			b.WriteString("\n" + formatter.Header("Quota") + "\n")
			b.WriteString(fmt.Sprintf("Radar scans %s/day  Duels %s/month  Generations %s/month\n",
				formatter.QuotaGauge(usage.RadarScansToday, limits.RadarScansPerDay),
				formatter.QuotaGauge(usage.DuelsThisMonth, limits.DuelsPerMonth),
				formatter.QuotaGauge(usage.GenerationsThisMonth, limits.GenerationsPerMonth)))

			fmt.Print(b.String())
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeArchived, "all", false, "Include archived campaigns")

	return cmd
}
