package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/domain"
)

func newSignalCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Manage signals",
	}

	cmd.AddCommand(
		newSignalAddCmd(app),
		newSignalListCmd(app),
		newSignalLinkDuelCmd(app),
		newSignalLinkMoveCmd(app),
		newSignalResolveCmd(app),
		newSignalArchiveCmd(app),
	)

	return cmd
}

func newSignalAddCmd(app *App) *cobra.Command {
	var title, statement, zone, effort string
	var impact, confidence, ease int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new signal",
		RunE: func(cmd *cobra.Command, args []string) error {
			sig := domain.Signal{
				Title:     title,
				Statement: statement,
				Zone:      zone,
				Effort:    effort,
				ICE:       domain.ICEScore{Impact: impact, Confidence: confidence, Ease: ease},
			}
			created, err := app.Signals.Create(context.Background(), sig)
			if err != nil {
				return err
			}
			fmt.Printf("Created signal %s (ICE %d)\n", created.Title, created.ICE.Total())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Signal title")
	cmd.Flags().StringVar(&statement, "statement", "", "Hypothesis statement")
	cmd.Flags().StringVar(&zone, "zone", "", "Funnel zone")
	cmd.Flags().StringVar(&effort, "effort", "", "Effort estimate")
	cmd.Flags().IntVar(&impact, "impact", 0, "ICE impact (1-10)")
	cmd.Flags().IntVar(&confidence, "confidence", 0, "ICE confidence (1-10)")
	cmd.Flags().IntVar(&ease, "ease", 0, "ICE ease (1-10)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newSignalListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List signals",
		RunE: func(cmd *cobra.Command, args []string) error {
			signals, err := app.Signals.List(context.Background())
			if err != nil {
				return err
			}
			if len(signals) == 0 {
				fmt.Println("No signals")
				return nil
			}

			headers := []string{"ID", "TITLE", "STATUS", "ICE", "DUELS", "EVIDENCE"}
			rows := make([][]string, 0, len(signals))
			for _, s := range signals {
				rows = append(rows, []string{
					formatter.TruncID(s.ID),
					s.Title,
					formatter.SignalStatusPill(s.Status),
					fmt.Sprintf("%d", s.ICE.Total()),
					fmt.Sprintf("%d", len(s.Linked.DuelIDs)),
					fmt.Sprintf("%d", len(s.EvidenceRefs)),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}

func newSignalLinkDuelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link-duel SIGNAL_ID DUEL_ID",
		Short: "Link a duel as evidence for a signal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := app.Signals.LinkToDuel(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Linked; signal is %s\n", sig.Status)
			return nil
		},
	}
}

func newSignalLinkMoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "link-move SIGNAL_ID MOVE_ID",
		Short: "Link a move as evidence for a signal",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sig, err := app.Signals.LinkToMove(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Linked; signal has %d evidence refs\n", len(sig.EvidenceRefs))
			return nil
		},
	}
}

func newSignalResolveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve ID",
		Short: "Resolve a signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Signals.Resolve(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Resolved signal %s\n", args[0])
			return nil
		},
	}
}

func newSignalArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive ID",
		Short: "Archive a signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Signals.Archive(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Archived signal %s\n", args[0])
			return nil
		},
	}
}
