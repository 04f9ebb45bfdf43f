package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/testutil"
)

func TestMoveRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMoveRepo(db)
	ctx := context.Background()

	start := time.Now().UTC().Truncate(time.Second)
	m := testutil.NewTestMove(
		testutil.WithMoveTasks(
			domain.MoveTask{ID: "t1", Text: "Draft post", Day: 1, Status: domain.TaskTodo},
			domain.MoveTask{ID: "t2", Text: "Publish", Day: 3, Status: domain.TaskDone, Proof: "https://x.test/p"},
		),
		testutil.WithMoveMetric("reach", 40, 60),
	)
	m.Plan.StartDate = &start
	require.NoError(t, repo.Create(ctx, m))

	fetched, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "book demos", fetched.Objective)
	assert.Equal(t, "linkedin", fetched.Channel)
	assert.Equal(t, domain.MovePending, fetched.Status)
	assert.Equal(t, 7, fetched.Plan.DurationDays)
	require.NotNil(t, fetched.Plan.StartDate)
	assert.Equal(t, start.Unix(), fetched.Plan.StartDate.Unix())
	require.Len(t, fetched.Tasks, 2)
	assert.Equal(t, domain.TaskDone, fetched.Tasks[1].Status)
	assert.Equal(t, "https://x.test/p", fetched.Tasks[1].Proof)
	assert.Equal(t, "reach", fetched.Tracking.Metric)
	assert.Equal(t, 100.0, fetched.TrackingTotal())
}

func TestMoveRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMoveRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveRepo_ListByCampaign(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMoveRepo(db)
	ctx := context.Background()

	m1 := testutil.NewTestMove(testutil.WithMoveCampaign("camp-1"))
	m2 := testutil.NewTestMove(testutil.WithMoveCampaign("camp-1"))
	standalone := testutil.NewTestMove()
	require.NoError(t, repo.Create(ctx, m1))
	require.NoError(t, repo.Create(ctx, m2))
	require.NoError(t, repo.Create(ctx, standalone))

	byCampaign, err := repo.ListByCampaign(ctx, "camp-1")
	require.NoError(t, err)
	assert.Len(t, byCampaign, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestMoveRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMoveRepo(db)
	ctx := context.Background()

	m := testutil.NewTestMove()
	require.NoError(t, repo.Create(ctx, m))

	now := time.Now().UTC()
	m.Status = domain.MoveCompleted
	m.Result = domain.MoveResult{Outcome: "hit", Learning: "shorter CTAs", CompletedAt: &now}
	m.Generation = domain.Generation{Status: domain.GenerationDone, StartedAt: &now, CompletedAt: &now}
	m.UpdatedAt = now
	require.NoError(t, repo.Update(ctx, m))

	fetched, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.MoveCompleted, fetched.Status)
	assert.Equal(t, "hit", fetched.Result.Outcome)
	assert.Equal(t, domain.GenerationDone, fetched.Generation.Status)
	require.NotNil(t, fetched.Result.CompletedAt)
}

func TestMoveRepo_Delete(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMoveRepo(db)
	ctx := context.Background()

	m := testutil.NewTestMove()
	require.NoError(t, repo.Create(ctx, m))
	require.NoError(t, repo.Delete(ctx, m.ID))

	_, err := repo.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMoveRepo_OldRowLoads(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteMoveRepo(db)
	ctx := context.Background()

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.Exec(
		`INSERT INTO moves (id, status, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		"old-move", "pending", now, now)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, "old-move")
	require.NoError(t, err)
	assert.Equal(t, domain.MovePending, fetched.Status)
	assert.Empty(t, fetched.Tasks)
	assert.Nil(t, fetched.Plan.StartDate)
}
