package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
)

func newUsageCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Show quota usage against the current plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			usage, limits, err := app.Governor.Snapshot(ctx)
			if err != nil {
				return err
			}

			plan := app.Governor.Plan()
			fmt.Printf("Plan: %s\n\n", formatter.Bold(plan.Name))

			headers := []string{"FEATURE", "USED", "WINDOW"}
			rows := [][]string{
				{"Radar scans", formatter.QuotaGauge(usage.RadarScansToday, limits.RadarScansPerDay), "day"},
				{"Duels", formatter.QuotaGauge(usage.DuelsThisMonth, limits.DuelsPerMonth), "month"},
				{"Generations", formatter.QuotaGauge(usage.GenerationsThisMonth, limits.GenerationsPerMonth), "month"},
			}
			fmt.Print(formatter.RenderTable(headers, rows))

			if !usage.LastReset.IsZero() {
				fmt.Printf("\nLast reset: %s\n", formatter.HumanTimestamp(usage.LastReset))
			}
			return nil
		},
	}

	cmd.AddCommand(
		newUsageResetDailyCmd(app),
		newUsageResetMonthlyCmd(app),
	)

	return cmd
}

func newUsageResetDailyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-daily",
		Short: "Zero the per-day counters (day rollover)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Governor.ResetDaily(context.Background()); err != nil {
				return err
			}
			fmt.Println("Daily counters reset")
			return nil
		},
	}
}

func newUsageResetMonthlyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-monthly",
		Short: "Zero the per-month counters (month rollover)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Governor.ResetMonthly(context.Background()); err != nil {
				return err
			}
			fmt.Println("Monthly counters reset")
			return nil
		},
	}
}
