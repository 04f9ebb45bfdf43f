package cli

import (
	"github.com/spf13/cobra"
	"github.com/warroomhq/warroom/internal/quota"
	"github.com/warroomhq/warroom/internal/repository"
	"github.com/warroomhq/warroom/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Strategies service.StrategyService
	Campaigns  service.CampaignService
	Moves      service.MoveService
	Pipeline   service.PipelineService
	Duels      service.DuelService
	Signals    service.SignalService
	Radar      service.RadarService

	// Cohorts are read-mostly reference data with no workflow of their own,
	// so the commands talk to the repository directly.
	Cohorts  repository.CohortRepo
	Governor *quota.Governor
}

// NewRootCmd creates the top-level "warroom" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "warroom",
		Short: "Campaign orchestration engine",
	}

	root.AddCommand(
		newStatusCmd(app),
		newStrategyCmd(app),
		newCampaignCmd(app),
		newMoveCmd(app),
		newPipelineCmd(app),
		newDuelCmd(app),
		newSignalCmd(app),
		newCohortCmd(app),
		newRadarCmd(app),
		newUsageCmd(app),
	)

	return root
}
