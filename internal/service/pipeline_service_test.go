package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/testutil"
)

func TestPipelineService_Create_Defaults(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p, err := env.pipelineSvc.Create(ctx, domain.PipelineItem{Title: "launch post", WorkType: "asset"})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, domain.PipelineBacklog, p.Execution.Status)
	assert.Equal(t, domain.ApprovalNotRequested, p.Approvals.State)
	assert.Nil(t, p.Receipt)
}

func TestPipelineService_Assign_AdvancesBacklog(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p := testutil.NewTestPipelineItem("assigned")
	require.NoError(t, env.pipeline.Create(ctx, p))

	updated, err := env.pipelineSvc.Assign(ctx, p.ID, "amira", "jo", "")
	require.NoError(t, err)
	assert.Equal(t, "amira", updated.Execution.OwnerID)
	assert.Equal(t, "jo", updated.Execution.ReviewerID)
	assert.Equal(t, domain.PipelineInProduction, updated.Execution.Status)
}

func TestPipelineService_ApprovalFlow(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p := testutil.NewTestPipelineItem("needs signoff")
	require.NoError(t, env.pipeline.Create(ctx, p))

	requested, err := env.pipelineSvc.RequestApproval(ctx, p.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.ApprovalPending, requested.Approvals.State)
	assert.Equal(t, domain.PipelineApproval, requested.Execution.Status)
	require.NotNil(t, requested.Approvals.RequestedAt)

	approved, err := env.pipelineSvc.Approve(ctx, p.ID, "dana")
	require.NoError(t, err)
	require.NotNil(t, approved)
	assert.Equal(t, domain.ApprovalApproved, approved.Approvals.State)
	assert.Equal(t, "dana", approved.Approvals.ApprovedBy)
	require.NotNil(t, approved.Approvals.ApprovedAt)
	assert.Equal(t, domain.PipelineInProduction, approved.Execution.Status)
}

func TestPipelineService_Approve_RequiresPending(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p := testutil.NewTestPipelineItem("never requested")
	require.NoError(t, env.pipeline.Create(ctx, p))

	approved, err := env.pipelineSvc.Approve(ctx, p.ID, "dana")
	require.NoError(t, err)
	assert.Nil(t, approved)
}

func TestPipelineService_Reject_Blocks(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p := testutil.NewTestPipelineItem("rejected")
	require.NoError(t, env.pipeline.Create(ctx, p))

	_, err := env.pipelineSvc.RequestApproval(ctx, p.ID, true)
	require.NoError(t, err)

	rejected, err := env.pipelineSvc.Reject(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, rejected)
	assert.Equal(t, domain.ApprovalRejected, rejected.Approvals.State)
	assert.Equal(t, domain.PipelineBlocked, rejected.Execution.Status)
}

func TestPipelineService_Schedule(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p := testutil.NewTestPipelineItem("scheduled")
	require.NoError(t, env.pipeline.Create(ctx, p))

	when := time.Date(2026, 9, 14, 9, 0, 0, 0, time.UTC)
	updated, err := env.pipelineSvc.Schedule(ctx, p.ID, &when)
	require.NoError(t, err)
	assert.Equal(t, domain.PipelineScheduled, updated.Execution.Status)
	require.NotNil(t, updated.Execution.ScheduledFor)
	assert.Equal(t, when, updated.Execution.ScheduledFor.UTC())

	// Clearing keeps whatever status the item had.
	cleared, err := env.pipelineSvc.Schedule(ctx, p.ID, nil)
	require.NoError(t, err)
	assert.Nil(t, cleared.Execution.ScheduledFor)
	assert.Equal(t, domain.PipelineScheduled, cleared.Execution.Status)
}

func TestPipelineService_MarkShipped_WithReceipt(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p := testutil.NewTestPipelineItem("shipping")
	require.NoError(t, env.pipeline.Create(ctx, p))

	shipped, err := env.pipelineSvc.MarkShipped(ctx, p.ID, domain.Receipt{
		Type:  "url",
		Value: "https://example.com/post/1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PipelineShipped, shipped.Execution.Status)
	require.NotNil(t, shipped.Receipt)
	assert.False(t, shipped.Receipt.SubmittedAt.IsZero(), "submission time is server-observed")
	require.NotNil(t, shipped.Execution.ShippedAt)
	assert.Contains(t, env.sink.Titles(), "Shipped")
}

func TestPipelineService_MarkShipped_MissingReceiptBlocks(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p := testutil.NewTestPipelineItem("no proof")
	require.NoError(t, env.pipeline.Create(ctx, p))

	blocked, err := env.pipelineSvc.MarkShipped(ctx, p.ID, domain.Receipt{Type: "url"})
	require.NoError(t, err)
	assert.Equal(t, domain.PipelineBlocked, blocked.Execution.Status)
	assert.Nil(t, blocked.Receipt, "incomplete receipt must not be recorded")
	assert.Nil(t, blocked.Execution.ShippedAt)

	stored, err := env.pipelineSvc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PipelineBlocked, stored.Execution.Status)
	assert.Nil(t, stored.Receipt)
}

func TestPipelineService_LogResult_NeverChangesStatus(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	p := testutil.NewTestPipelineItem("measured")
	require.NoError(t, env.pipeline.Create(ctx, p))
	shipped, err := env.pipelineSvc.MarkShipped(ctx, p.ID, domain.Receipt{Type: "url", Value: "https://example.com/x"})
	require.NoError(t, err)
	require.Equal(t, domain.PipelineShipped, shipped.Execution.Status)

	logged, err := env.pipelineSvc.LogResult(ctx, p.ID, domain.MetricEvent{Name: "clicks", Value: 42}, "clicks")
	require.NoError(t, err)
	assert.Equal(t, domain.PipelineShipped, logged.Execution.Status)
	assert.Equal(t, "clicks", logged.MetricsHook.PrimaryMetric)
	require.Len(t, logged.MetricsHook.Events, 1)
	assert.False(t, logged.MetricsHook.Events[0].At.IsZero())
}

func TestPipelineService_ListByStatus(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	a := testutil.NewTestPipelineItem("a")
	b := testutil.NewTestPipelineItem("b")
	require.NoError(t, env.pipeline.Create(ctx, a))
	require.NoError(t, env.pipeline.Create(ctx, b))
	_, err := env.pipelineSvc.Assign(ctx, b.ID, "amira", "", "")
	require.NoError(t, err)

	backlog, err := env.pipelineSvc.ListByStatus(ctx, domain.PipelineBacklog)
	require.NoError(t, err)
	require.Len(t, backlog, 1)
	assert.Equal(t, a.ID, backlog[0].ID)
}
