package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/cli/formatter"
	"github.com/warroomhq/warroom/internal/domain"
)

func newCohortCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cohort",
		Short: "Manage audience cohorts",
	}

	cmd.AddCommand(
		newCohortAddCmd(app),
		newCohortListCmd(app),
	)

	return cmd
}

func newCohortAddCmd(app *App) *cobra.Command {
	var name, description string
	var tags, fits []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a cohort",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now().UTC()
			c := &domain.Cohort{
				ID:          uuid.New().String(),
				Name:        name,
				Description: description,
				Tags:        tags,
				ChannelFit:  map[string]domain.ChannelFitLevel{},
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			for _, f := range fits {
				channel, level, ok := strings.Cut(f, "=")
				if !ok {
					return fmt.Errorf("invalid --fit %q, expected channel=level", f)
				}
				c.ChannelFit[channel] = domain.ChannelFitLevel(level)
			}
			if err := app.Cohorts.Create(context.Background(), c); err != nil {
				return err
			}
			fmt.Printf("Created cohort %s (%s)\n", c.Name, c.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Cohort name")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringArrayVar(&fits, "fit", nil, "Channel fit as channel=level (repeatable)")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCohortListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cohorts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cohorts, err := app.Cohorts.List(context.Background())
			if err != nil {
				return err
			}
			if len(cohorts) == 0 {
				fmt.Println("No cohorts")
				return nil
			}

			headers := []string{"ID", "NAME", "TAGS", "CHANNELS"}
			rows := make([][]string, 0, len(cohorts))
			for _, c := range cohorts {
				rows = append(rows, []string{
					formatter.TruncID(c.ID),
					c.Name,
					strings.Join(c.Tags, ","),
					fmt.Sprintf("%d", len(c.ChannelFit)),
				})
			}
			fmt.Print(formatter.RenderTable(headers, rows))
			return nil
		},
	}
}
