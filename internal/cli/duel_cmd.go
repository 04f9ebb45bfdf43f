package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/domain"
)

func newDuelCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duel",
		Short: "Manage A/B duels",
	}

	cmd.AddCommand(
		newDuelAddCmd(app),
		newDuelListCmd(app),
		newDuelInspectCmd(app),
		newDuelRecordCmd(app),
		newDuelToggleCmd(app),
		newDuelCrownCmd(app),
		newDuelPromoteCmd(app),
		newDuelDuplicateCmd(app),
		newDuelArchiveCmd(app),
	)

	return cmd
}

func newDuelAddCmd(app *App) *cobra.Command {
	var name, goal, variable, cohort, channel string
	var variants []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a duel with content variants",
		RunE: func(cmd *cobra.Command, args []string) error {
			d := domain.Duel{
				Name:     name,
				Goal:     domain.DuelGoal(goal),
				Variable: variable,
				Cohort:   cohort,
				Channel:  channel,
			}
			for _, content := range variants {
				d.Variants = append(d.Variants, domain.Variant{Content: content})
			}
			created, err := app.Duels.Create(context.Background(), d)
			if err != nil {
				return err
			}
			if created == nil {
				fmt.Println("Duel quota reached for your plan")
				return nil
			}
			fmt.Printf("Created duel %s with %d variants (%s)\n", created.Name, len(created.Variants), created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Duel name")
	cmd.Flags().StringVar(&goal, "goal", "clicks", "Goal metric (clicks|leads)")
	cmd.Flags().StringVar(&variable, "variable", "", "What varies between arms")
	cmd.Flags().StringVar(&cohort, "cohort", "", "Target cohort ID")
	cmd.Flags().StringVar(&channel, "channel", "", "Channel")
	cmd.Flags().StringArrayVar(&variants, "variant", nil, "Variant content (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newDuelListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List duels",
		RunE: func(cmd *cobra.Command, args []string) error {
			duels, err := app.Duels.List(context.Background())
			if err != nil {
				return err
			}
			if len(duels) == 0 {
				fmt.Println("No duels")
				return nil
			}

			headers := []string{"ID", "NAME", "STATUS", "GOAL", "VARIANTS", "WINNER"}
			rows := make([][]string, 0, len(duels))
			for _, d := range duels {
				winner := formatter.Dim("--")
				if v := d.VariantByID(d.WinnerID); v != nil {
					winner = formatter.StylePurple.Render(v.Label)
				}
				rows = append(rows, []string{
					formatter.TruncID(d.ID),
					d.Name,
					formatter.DuelStatusPill(d.Status),
					string(d.Goal),
					fmt.Sprintf("%d", len(d.Variants)),
					winner,
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newDuelInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show duel details and the scoreboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Duels.GetByID(context.Background(), args[0])
			if err != nil {
				return err
			}

			var b strings.Builder
			b.WriteString(fmt.Sprintf("%s  %s\n\n", formatter.Bold(d.Name), formatter.DuelStatusPill(d.Status)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("GOAL    "), string(d.Goal)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("VARIABLE"), d.Variable))
			b.WriteString(fmt.Sprintf("  %s  %s / %s\n", formatter.Dim("AUDIENCE"), d.Cohort, d.Channel))

			b.WriteString("\n")
			b.WriteString(formatter.Header("Scoreboard"))
			b.WriteString("\n")
			headers := []string{"", "LABEL", "CLICKS", "LEADS", "CONTENT"}
			rows := make([][]string, 0, len(d.Variants))
			for _, v := range d.Variants {
				crown := " "
				if v.ID == d.WinnerID {
					crown = formatter.StylePurple.Render("★")
				}
				rows = append(rows, []string{
					crown,
					v.Label,
					fmt.Sprintf("%d", v.Clicks),
					fmt.Sprintf("%d", v.Leads),
					v.Content,
				})
			}
			b.WriteString(formatter.RenderTable(headers, rows))

			fmt.Print(formatter.RenderBox("Duel", b.String()))
			return nil
		},
	}
}

func newDuelRecordCmd(app *App) *cobra.Command {
	var clicks, leads int

	cmd := &cobra.Command{
		Use:   "record DUEL_ID VARIANT_ID",
		Short: "Record clicks/leads on a variant",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Duels.RecordMetric(context.Background(), args[0], args[1], clicks, leads)
			if err != nil {
				return err
			}
			if d == nil {
				fmt.Println("Metrics only accrue while the duel is running")
				return nil
			}
			fmt.Println("Recorded")
			return nil
		},
	}

	cmd.Flags().IntVar(&clicks, "clicks", 0, "Clicks to add")
	cmd.Flags().IntVar(&leads, "leads", 0, "Leads to add")
	return cmd
}

func newDuelToggleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle ID",
		Short: "Pause or resume a duel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Duels.TogglePaused(context.Background(), args[0])
			if err != nil {
				return err
			}
			if d == nil {
				fmt.Println("Only running or paused duels can be toggled")
				return nil
			}
			fmt.Printf("Duel is now %s\n", d.Status)
			return nil
		},
	}
}

func newDuelCrownCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "crown ID",
		Short: "Crown the winner by the goal metric",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Duels.CrownWinner(context.Background(), args[0])
			if err != nil {
				return err
			}
			if d == nil {
				fmt.Println("Cannot crown: duel must be running or paused and have variants")
				return nil
			}
			winner := d.VariantByID(d.WinnerID)
			fmt.Printf("Crowned variant %s\n", winner.Label)
			return nil
		},
	}
}

func newDuelPromoteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "promote ID",
		Short: "Record that the winning variant was promoted",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Duels.PromoteWinner(context.Background(), args[0])
			if err != nil {
				return err
			}
			if d == nil {
				fmt.Println("Crown a winner before promoting")
				return nil
			}
			fmt.Printf("Promoted winner of %s\n", d.Name)
			return nil
		},
	}
}

func newDuelDuplicateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "duplicate ID",
		Short: "Clone a duel with fresh ids and zeroed metrics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.Duels.Duplicate(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", d.Name, d.ID)
			return nil
		},
	}
}

func newDuelArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a duel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Duels.Archive(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Archived duel %s\n", args[0])
			return nil
		},
	}
}
