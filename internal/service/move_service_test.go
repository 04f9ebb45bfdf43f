package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/readiness"
	"github.com/warroomhq/warroom/internal/testutil"
)

func TestMoveService_Create_Defaults(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	created, err := env.moveSvc.Create(ctx, domain.Move{Objective: "warm up cohort"})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.MovePending, created.Status)
	assert.Equal(t, 7, created.Plan.DurationDays)
	assert.Equal(t, domain.GenerationIdle, created.Generation.Status)
}

func TestMoveService_AddTask_ClampsDay(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	m, err := env.moveSvc.Create(ctx, domain.Move{
		Objective: "clamp",
		Plan:      domain.MovePlan{DurationDays: 5},
	})
	require.NoError(t, err)

	updated, err := env.moveSvc.AddTask(ctx, m.ID, domain.MoveTask{Text: "too late", Day: 12})
	require.NoError(t, err)
	require.Len(t, updated.Tasks, 1)
	assert.Equal(t, 5, updated.Tasks[0].Day)
	assert.Equal(t, domain.TaskTodo, updated.Tasks[0].Status)

	updated, err = env.moveSvc.AddTask(ctx, m.ID, domain.MoveTask{Text: "too early", Day: -3})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Tasks[1].Day)
}

func TestMoveService_SetTaskStatus(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	m := testutil.NewTestMove(testutil.WithMoveTasks(
		domain.MoveTask{ID: "t1", Text: "draft", Day: 1, Status: domain.TaskTodo},
	))
	require.NoError(t, env.moves.Create(ctx, m))

	updated, err := env.moveSvc.SetTaskStatus(ctx, m.ID, "t1", domain.TaskDone)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskDone, updated.Tasks[0].Status)

	checklist := updated.Checklist()
	require.Len(t, checklist, 1)
	assert.True(t, checklist[0].Done, "checklist view derives from task status")

	_, err = env.moveSvc.SetTaskStatus(ctx, m.ID, "missing", domain.TaskDone)
	assert.Error(t, err)
}

func TestMoveService_AddTrackingUpdate_RollsUpCampaign(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	c := testutil.NewTestCampaign("tracked")
	require.NoError(t, env.campaigns.Create(ctx, c))
	m := testutil.NewTestMove(testutil.WithMoveCampaign(c.ID), testutil.WithMoveMetric("reach"))
	require.NoError(t, env.moves.Create(ctx, m))

	_, err := env.moveSvc.AddTrackingUpdate(ctx, m.ID, 40)
	require.NoError(t, err)
	_, err = env.moveSvc.AddTrackingUpdate(ctx, m.ID, 60)
	require.NoError(t, err)

	stored, err := env.campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, stored.KPIs.Reach.Current)
	assert.Equal(t, 100.0, stored.Blueprint.KPITree.Stages.Reach.Current)
}

func TestMoveService_AddTrackingUpdate_NonAggregatableSkipsRollup(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	c := testutil.NewTestCampaign("untracked")
	require.NoError(t, env.campaigns.Create(ctx, c))
	m := testutil.NewTestMove(testutil.WithMoveCampaign(c.ID), testutil.WithMoveMetric("engagement"))
	require.NoError(t, env.moves.Create(ctx, m))

	updated, err := env.moveSvc.AddTrackingUpdate(ctx, m.ID, 40)
	require.NoError(t, err)
	assert.Len(t, updated.Tracking.Updates, 1)

	stored, err := env.campaigns.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, stored.KPIs.Reach.Current)
}

func TestMoveService_Readiness_ReportsFailingGates(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	m, err := env.moveSvc.Create(ctx, domain.Move{Objective: "gates"})
	require.NoError(t, err)

	rd, err := env.moveSvc.Readiness(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, rd.Ready)
	require.Len(t, rd.Gates, 6)
	assert.True(t, rd.GateByID(readiness.GateObjective).OK)
	assert.False(t, rd.GateByID(readiness.GateCohort).OK)
	assert.False(t, rd.GateByID(readiness.GateStrategyLocked).OK)
}

func TestMoveService_FixReadiness_GateByGate(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	cohort := testutil.NewTestCohort("founders", "Founders")
	require.NoError(t, env.cohorts.Create(ctx, cohort))

	m, err := env.moveSvc.Create(ctx, domain.Move{})
	require.NoError(t, err)

	rd, err := env.moveSvc.FixReadiness(ctx, m.ID, readiness.GateObjective)
	require.NoError(t, err)
	assert.True(t, rd.GateByID(readiness.GateObjective).OK)

	rd, err = env.moveSvc.FixReadiness(ctx, m.ID, readiness.GateCohort)
	require.NoError(t, err)
	assert.True(t, rd.GateByID(readiness.GateCohort).OK)

	rd, err = env.moveSvc.FixReadiness(ctx, m.ID, readiness.GateChannel)
	require.NoError(t, err)
	assert.True(t, rd.GateByID(readiness.GateChannel).OK)

	rd, err = env.moveSvc.FixReadiness(ctx, m.ID, readiness.GateMetric)
	require.NoError(t, err)
	assert.True(t, rd.GateByID(readiness.GateMetric).OK)

	rd, err = env.moveSvc.FixReadiness(ctx, m.ID, readiness.GateStrategyLocked)
	require.NoError(t, err)
	assert.True(t, rd.GateByID(readiness.GateStrategyLocked).OK)

	rd, err = env.moveSvc.FixReadiness(ctx, m.ID, readiness.GateProof)
	require.NoError(t, err)
	assert.True(t, rd.GateByID(readiness.GateProof).OK)
	assert.True(t, rd.Ready, "all gates fixed")

	fixed, err := env.moveSvc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "founders", fixed.Cohort, "first cohort in the list is the canonical fix")
	assert.Equal(t, readiness.DefaultChannel, fixed.Channel)
	assert.Equal(t, readiness.DefaultMetric, fixed.Tracking.Metric)
}

func TestMoveService_FixReadiness_NoOpWhenPassing(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	m := testutil.NewTestMove()
	require.NoError(t, env.moves.Create(ctx, m))

	rd, err := env.moveSvc.FixReadiness(ctx, m.ID, readiness.GateChannel)
	require.NoError(t, err)
	assert.True(t, rd.GateByID(readiness.GateChannel).OK)

	stored, err := env.moveSvc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "linkedin", stored.Channel, "passing gate leaves the move alone")
}

func TestMoveService_FixReadiness_UnknownGate(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	m := testutil.NewTestMove()
	require.NoError(t, env.moves.Create(ctx, m))

	_, err := env.moveSvc.FixReadiness(ctx, m.ID, "has_budget")
	assert.Error(t, err)
}

func TestMoveService_FixReadiness_ProofOnLockedStrategyKeepsImmutability(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	// Locked current version with an empty proof inventory.
	locked := testutil.NewLockedStrategy(1)
	locked.Payload.ProofInventory = nil
	require.NoError(t, env.strategies.Create(ctx, locked))
	require.NoError(t, env.strategies.SetCurrent(ctx, locked.ID))

	m := testutil.NewTestMove()
	require.NoError(t, env.moves.Create(ctx, m))

	rd, err := env.moveSvc.FixReadiness(ctx, m.ID, readiness.GateProof)
	require.NoError(t, err)
	assert.True(t, rd.GateByID(readiness.GateProof).OK)

	original, err := env.strategies.GetByID(ctx, locked.ID)
	require.NoError(t, err)
	assert.Empty(t, original.Payload.ProofInventory, "locked version stays untouched")

	current, err := env.strategies.Current(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, locked.ID, current.ID)
	assert.Equal(t, 2, current.VersionNumber)
	assert.NotEmpty(t, current.Payload.ProofInventory)
}

func TestMoveService_StartGeneration_BlockedUntilReady(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	m, err := env.moveSvc.Create(ctx, domain.Move{Objective: "not ready"})
	require.NoError(t, err)

	res, err := env.moveSvc.StartGeneration(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.False(t, res.QuotaDenied)
	assert.False(t, res.Readiness.Ready)

	stored, err := env.moveSvc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MovePending, stored.Status, "a blocked start must not change status")
	assert.Equal(t, 0, env.scheduler.Pending())
}

func TestMoveService_StartGeneration_DeferredActivation(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()
	env.seedLockedStrategy(t)

	m := testutil.NewTestMove()
	require.NoError(t, env.moves.Create(ctx, m))

	res, err := env.moveSvc.StartGeneration(ctx, m.ID)
	require.NoError(t, err)
	require.True(t, res.OK)
	assert.Equal(t, domain.MoveGenerating, res.Move.Status)
	assert.Equal(t, domain.GenerationRunning, res.Move.Generation.Status)
	require.NotNil(t, res.Move.Generation.StartedAt)
	assert.Equal(t, 1, env.scheduler.Pending())

	env.scheduler.Fire()

	activated, err := env.moveSvc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MoveActive, activated.Status)
	assert.Equal(t, domain.GenerationDone, activated.Generation.Status)
	require.NotNil(t, activated.Generation.CompletedAt)
	assert.NotEmpty(t, activated.Tasks, "generation seeds a task plan")
	for _, task := range activated.Tasks {
		assert.GreaterOrEqual(t, task.Day, 1)
		assert.LessOrEqual(t, task.Day, activated.Plan.DurationDays)
	}
	assert.Contains(t, env.sink.Titles(), "Move activated")
}

func TestMoveService_StartGeneration_StaleTaskGuard(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()
	env.seedLockedStrategy(t)

	m := testutil.NewTestMove()
	require.NoError(t, env.moves.Create(ctx, m))

	res, err := env.moveSvc.StartGeneration(ctx, m.ID)
	require.NoError(t, err)
	require.True(t, res.OK)

	// The move changes hands before the deferred task fires.
	edited := *res.Move
	edited.Status = domain.MoveCompleted
	_, err = env.moveSvc.Update(ctx, edited)
	require.NoError(t, err)

	env.scheduler.Fire()

	stored, err := env.moveSvc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MoveCompleted, stored.Status, "stale generation must not resurrect the move")
	assert.NotContains(t, env.sink.Titles(), "Move activated")
}

func TestMoveService_StartGeneration_QuotaDenied(t *testing.T) {
	limits := generousLimits
	limits.GenerationsPerMonth = 1
	env := newTestEnv(t, limits)
	ctx := context.Background()
	env.seedLockedStrategy(t)

	first := testutil.NewTestMove()
	second := testutil.NewTestMove()
	require.NoError(t, env.moves.Create(ctx, first))
	require.NoError(t, env.moves.Create(ctx, second))

	res, err := env.moveSvc.StartGeneration(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, res.OK)

	res, err = env.moveSvc.StartGeneration(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.True(t, res.QuotaDenied)
	assert.True(t, res.Readiness.Ready, "denial is about quota, not readiness")

	stored, err := env.moveSvc.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MovePending, stored.Status)

	usage, _, err := env.governor.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, usage.GenerationsThisMonth, "denied attempt must not consume")
}

func TestMoveService_StartGeneration_NotPending(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()
	env.seedLockedStrategy(t)

	m := testutil.NewTestMove(testutil.WithMoveStatus(domain.MoveActive))
	require.NoError(t, env.moves.Create(ctx, m))

	res, err := env.moveSvc.StartGeneration(ctx, m.ID)
	require.NoError(t, err)
	assert.False(t, res.OK)
	assert.Equal(t, 0, env.scheduler.Pending())
}

func TestMoveService_Complete(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	m := testutil.NewTestMove(testutil.WithMoveStatus(domain.MoveActive))
	require.NoError(t, env.moves.Create(ctx, m))

	completed, err := env.moveSvc.Complete(ctx, m.ID, "hit 12 demos", "shorter hooks work")
	require.NoError(t, err)
	require.NotNil(t, completed)
	assert.Equal(t, domain.MoveCompleted, completed.Status)
	assert.Equal(t, "hit 12 demos", completed.Result.Outcome)
	require.NotNil(t, completed.Result.CompletedAt)
}

func TestMoveService_Complete_OnlyFromActive(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	m := testutil.NewTestMove()
	require.NoError(t, env.moves.Create(ctx, m))

	completed, err := env.moveSvc.Complete(ctx, m.ID, "", "")
	require.NoError(t, err)
	assert.Nil(t, completed)

	stored, err := env.moveSvc.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MovePending, stored.Status)
}
