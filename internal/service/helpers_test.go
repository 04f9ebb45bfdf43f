package service

import (
	"context"
	"testing"

	"github.com/warroomhq/warroom/internal/db"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/quota"
	"github.com/warroomhq/warroom/internal/repository"
	"github.com/warroomhq/warroom/internal/sched"
	"github.com/warroomhq/warroom/internal/testutil"
	"github.com/stretchr/testify/require"
)

// generousLimits keeps quota out of the way for tests that are not about
// quota.
var generousLimits = domain.PlanLimits{
	RadarScansPerDay:    100,
	DuelsPerMonth:       100,
	GenerationsPerMonth: 100,
	ICPCount:            100,
	ActiveCampaigns:     100,
	MovesPerMonth:       100,
	Seats:               100,
}

type testEnv struct {
	strategies repository.StrategyRepo
	campaigns  repository.CampaignRepo
	moves      repository.MoveRepo
	pipeline   repository.PipelineRepo
	duels      repository.DuelRepo
	signals    repository.SignalRepo
	cohorts    repository.CohortRepo

	governor  *quota.Governor
	sink      *testutil.CaptureSink
	scheduler *sched.Manual

	strategySvc StrategyService
	campaignSvc CampaignService
	moveSvc     MoveService
	pipelineSvc PipelineService
	duelSvc     DuelService
	signalSvc   SignalService
	radarSvc    RadarService
}

func newTestEnv(t *testing.T, limits domain.PlanLimits) *testEnv {
	t.Helper()
	database := testutil.NewTestDB(t)

	env := &testEnv{
		strategies: repository.NewSQLiteStrategyRepo(database),
		campaigns:  repository.NewSQLiteCampaignRepo(database),
		moves:      repository.NewSQLiteMoveRepo(database),
		pipeline:   repository.NewSQLitePipelineRepo(database),
		duels:      repository.NewSQLiteDuelRepo(database),
		signals:    repository.NewSQLiteSignalRepo(database),
		cohorts:    repository.NewSQLiteCohortRepo(database),
		sink:       &testutil.CaptureSink{},
		scheduler:  sched.NewManual(),
	}
	plan := domain.Plan{Key: "test", Name: "Test", Limits: limits}
	env.governor = quota.NewGovernor(plan, repository.NewSQLiteUsageRepo(database))

	env.strategySvc = NewStrategyService(env.strategies, db.NewSQLiteUnitOfWork(database))
	env.campaignSvc = NewCampaignService(env.campaigns, env.moves, env.strategies, env.governor, env.sink)
	env.moveSvc = NewMoveService(env.moves, env.campaigns, env.cohorts, env.strategies, env.campaignSvc, env.governor, env.sink, env.scheduler, 0)
	env.pipelineSvc = NewPipelineService(env.pipeline, env.sink)
	env.duelSvc = NewDuelService(env.duels, env.governor, env.sink)
	env.signalSvc = NewSignalService(env.signals, env.duels, env.moves, env.sink)
	env.radarSvc = NewRadarService(env.cohorts, env.governor, env.sink)
	return env
}

// seedLockedStrategy installs a locked current strategy with proof so moves
// pass the strategy gates.
func (env *testEnv) seedLockedStrategy(t *testing.T) *domain.StrategyVersion {
	t.Helper()
	ctx := context.Background()
	v := testutil.NewLockedStrategy(1)
	require.NoError(t, env.strategies.Create(ctx, v))
	require.NoError(t, env.strategies.SetCurrent(ctx, v.ID))
	return v
}
