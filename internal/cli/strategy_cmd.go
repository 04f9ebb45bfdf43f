package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/domain"
)

func newStrategyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "strategy",
		Short: "Manage strategy versions",
	}

	cmd.AddCommand(
		newStrategyDraftCmd(app),
		newStrategyUpdateCmd(app),
		newStrategyLockCmd(app),
		newStrategyShowCmd(app),
		newStrategyListCmd(app),
	)

	return cmd
}

func newStrategyDraftCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "draft",
		Short: "Create a new draft version cloned from the current one",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Strategies.CreateDraft(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("Created strategy draft v%d (%s)\n", v.VersionNumber, v.ID)
			return nil
		},
	}
}

func newStrategyUpdateCmd(app *App) *cobra.Command {
	var brandRules, offerTerms, claims []string
	var proofs []string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Replace the payload of a draft version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := domain.StrategyPayload{
				BrandRules:  brandRules,
				OfferTerms:  offerTerms,
				ClaimLedger: claims,
			}
			for _, label := range proofs {
				payload.ProofInventory = append(payload.ProofInventory, domain.ProofItem{Label: label})
			}
			v, err := app.Strategies.UpdateDraft(context.Background(), args[0], payload)
			if err != nil {
				return err
			}
			if v == nil {
				fmt.Println("Version is locked; create a new draft first")
				return nil
			}
			fmt.Printf("Updated strategy v%d\n", v.VersionNumber)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&brandRules, "brand-rule", nil, "Brand rule (repeatable)")
	cmd.Flags().StringArrayVar(&offerTerms, "offer", nil, "Offer term (repeatable)")
	cmd.Flags().StringArrayVar(&proofs, "proof", nil, "Proof item label (repeatable)")
	cmd.Flags().StringArrayVar(&claims, "claim", nil, "Claim ledger entry (repeatable)")

	return cmd
}

func newStrategyLockCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "lock",
		Short: "Lock the current version, making it immutable",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Strategies.Lock(context.Background())
			if err != nil {
				return err
			}
			if v == nil {
				fmt.Println("No strategy version exists yet; run 'warroom strategy draft' first")
				return nil
			}
			fmt.Printf("Locked strategy v%d\n", v.VersionNumber)
			return nil
		},
	}
}

func newStrategyShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current strategy version",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := app.Strategies.Current(context.Background())
			if err != nil {
				return err
			}
			if v == nil {
				fmt.Println("No strategy version exists yet")
				return nil
			}

			var b strings.Builder
			status := formatter.Dim(string(v.Status))
			if v.Locked() {
				status = formatter.StyleGreen.Render("locked")
			}
			b.WriteString(fmt.Sprintf("%s  %s\n\n", formatter.Bold(fmt.Sprintf("Version %d", v.VersionNumber)), status))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("ID     "), formatter.TruncID(v.ID)))
			b.WriteString(fmt.Sprintf("  %s  %d rules\n", formatter.Dim("BRAND  "), len(v.Payload.BrandRules)))
			b.WriteString(fmt.Sprintf("  %s  %d terms\n", formatter.Dim("OFFERS "), len(v.Payload.OfferTerms)))
			b.WriteString(fmt.Sprintf("  %s  %d items\n", formatter.Dim("PROOF  "), len(v.Payload.ProofInventory)))
			b.WriteString(fmt.Sprintf("  %s  %d claims\n", formatter.Dim("CLAIMS "), len(v.Payload.ClaimLedger)))
			b.WriteString(fmt.Sprintf("  %s  %s\n", formatter.Dim("UPDATED"), formatter.HumanTimestamp(v.UpdatedAt)))

			if len(v.Payload.ProofInventory) > 0 {
				b.WriteString("\n")
				b.WriteString(formatter.Header("Proof Inventory"))
				b.WriteString("\n")
				for _, p := range v.Payload.ProofInventory {
					b.WriteString(fmt.Sprintf("  • %s\n", p.Label))
				}
			}

			fmt.Print(formatter.RenderBox("Strategy", b.String()))
			return nil
		},
	}
}

func newStrategyListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all strategy versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			versions, err := app.Strategies.List(context.Background())
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Println("No strategy versions")
				return nil
			}

			headers := []string{"VERSION", "STATUS", "PROOF", "UPDATED"}
			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				rows = append(rows, []string{
					fmt.Sprintf("v%d", v.VersionNumber),
					string(v.Status),
					fmt.Sprintf("%d", len(v.Payload.ProofInventory)),
					formatter.HumanTimestamp(v.UpdatedAt),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}
