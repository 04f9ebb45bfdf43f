package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/testutil"
)

func newDraftStrategy(version int) *domain.StrategyVersion {
	now := time.Now().UTC()
	return &domain.StrategyVersion{
		ID:            uuid.New().String(),
		VersionNumber: version,
		Status:        domain.StrategyDraft,
		Payload: domain.StrategyPayload{
			BrandRules: []string{"no superlatives"},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestStrategyRepo_CreateAndGetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStrategyRepo(db)
	ctx := context.Background()

	v := testutil.NewLockedStrategy(3)
	require.NoError(t, repo.Create(ctx, v))

	fetched, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, fetched.VersionNumber)
	assert.Equal(t, domain.StrategyLocked, fetched.Status)
	require.NotNil(t, fetched.LockedAt)
	assert.Equal(t, []string{"no superlatives"}, fetched.Payload.BrandRules)
	require.Len(t, fetched.Payload.ProofInventory, 1)
	assert.Equal(t, "case study: Acme", fetched.Payload.ProofInventory[0].Label)
}

func TestStrategyRepo_GetByID_NotFound(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStrategyRepo(db)

	_, err := repo.GetByID(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStrategyRepo_CurrentPointer(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStrategyRepo(db)
	ctx := context.Background()

	// Fresh database: the pointer row exists but names no version.
	current, err := repo.Current(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	v1 := newDraftStrategy(1)
	require.NoError(t, repo.Create(ctx, v1))
	require.NoError(t, repo.SetCurrent(ctx, v1.ID))

	current, err = repo.Current(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, v1.ID, current.ID)

	// Moving the pointer replaces, never appends.
	v2 := testutil.NewLockedStrategy(2)
	require.NoError(t, repo.Create(ctx, v2))
	require.NoError(t, repo.SetCurrent(ctx, v2.ID))

	current, err = repo.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, current.ID)
}

func TestStrategyRepo_MaxVersionNumber(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStrategyRepo(db)
	ctx := context.Background()

	// No versions yet.
	n, err := repo.MaxVersionNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	require.NoError(t, repo.Create(ctx, newDraftStrategy(1)))
	require.NoError(t, repo.Create(ctx, testutil.NewLockedStrategy(4)))

	n, err = repo.MaxVersionNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestStrategyRepo_UniqueVersionNumber(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStrategyRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newDraftStrategy(1)))
	err := repo.Create(ctx, testutil.NewLockedStrategy(1))
	assert.Error(t, err, "duplicate version_number should violate unique constraint")
}

func TestStrategyRepo_Update(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStrategyRepo(db)
	ctx := context.Background()

	v := newDraftStrategy(1)
	require.NoError(t, repo.Create(ctx, v))

	now := time.Now().UTC()
	v.Status = domain.StrategyLocked
	v.LockedAt = &now
	v.Payload.ClaimLedger = []string{"2x reply rate"}
	v.UpdatedAt = now
	require.NoError(t, repo.Update(ctx, v))

	fetched, err := repo.GetByID(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StrategyLocked, fetched.Status)
	require.NotNil(t, fetched.LockedAt)
	assert.Equal(t, []string{"2x reply rate"}, fetched.Payload.ClaimLedger)
}

func TestStrategyRepo_List_OrderedByVersion(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewSQLiteStrategyRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testutil.NewLockedStrategy(2)))
	require.NoError(t, repo.Create(ctx, newDraftStrategy(3)))
	require.NoError(t, repo.Create(ctx, newDraftStrategy(1)))

	versions, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, versions, 3)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.Equal(t, 2, versions[1].VersionNumber)
	assert.Equal(t, 3, versions[2].VersionNumber)
}
