package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
)

func newRadarCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "radar",
		Short: "Channel fit radar",
	}

	cmd.AddCommand(newRadarScanCmd(app))
	return cmd
}

func newRadarScanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "scan COHORT_ID",
		Short: "Scan channel fit for a cohort",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.Radar.RunScan(context.Background(), args[0])
			if err != nil {
				return err
			}
			if res == nil {
				fmt.Println("Radar scan quota reached for today")
				return nil
			}

			headers := []string{"CHANNEL", "FIT"}
			rows := make([][]string, 0, len(res.Recommendations))
			for _, r := range res.Recommendations {
				rows = append(rows, []string{r.Channel, formatter.FitBadge(r.Fit)})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}
