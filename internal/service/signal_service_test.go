package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/testutil"
)

func TestSignalService_Create_Defaults(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	sig, err := env.signalSvc.Create(ctx, domain.Signal{
		Title:     "carousel posts outperform",
		Statement: "carousels get 2x saves on linkedin",
		ICE:       domain.ICEScore{Impact: 8, Confidence: 5, Ease: 7},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sig.ID)
	assert.Equal(t, domain.SignalTriage, sig.Status)
	assert.Equal(t, 20, sig.ICE.Total())
	assert.NotNil(t, sig.Linked.DuelIDs)
	assert.NotNil(t, sig.EvidenceRefs)
}

func TestSignalService_LinkToDuel_PromotesAndBackReferences(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	sig, err := env.signalSvc.Create(ctx, domain.Signal{Title: "hypothesis"})
	require.NoError(t, err)
	d, err := env.duelSvc.Create(ctx, newDuelInput("evidence duel", 2))
	require.NoError(t, err)

	linked, err := env.signalSvc.LinkToDuel(ctx, sig.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalInTest, linked.Status, "first duel link moves triage to in_test")
	assert.Contains(t, linked.Linked.DuelIDs, d.ID)
	require.Len(t, linked.EvidenceRefs, 1)
	assert.Equal(t, "duel", linked.EvidenceRefs[0].Type)
	assert.Equal(t, "evidence duel", linked.EvidenceRefs[0].Label)

	storedDuel, err := env.duelSvc.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Contains(t, storedDuel.SignalIDs, sig.ID)
}

func TestSignalService_LinkToDuel_Idempotent(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	sig, err := env.signalSvc.Create(ctx, domain.Signal{Title: "hypothesis"})
	require.NoError(t, err)
	d, err := env.duelSvc.Create(ctx, newDuelInput("dup link", 2))
	require.NoError(t, err)

	_, err = env.signalSvc.LinkToDuel(ctx, sig.ID, d.ID)
	require.NoError(t, err)
	linked, err := env.signalSvc.LinkToDuel(ctx, sig.ID, d.ID)
	require.NoError(t, err)

	assert.Len(t, linked.Linked.DuelIDs, 1, "re-linking must not duplicate the id")
	assert.Len(t, linked.EvidenceRefs, 1, "evidence dedups by type:id:label")

	storedDuel, err := env.duelSvc.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Len(t, storedDuel.SignalIDs, 1)
}

func TestSignalService_LinkToDuel_ResolvedStaysResolved(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	sig, err := env.signalSvc.Create(ctx, domain.Signal{Title: "settled"})
	require.NoError(t, err)
	require.NoError(t, env.signalSvc.Resolve(ctx, sig.ID))
	d, err := env.duelSvc.Create(ctx, newDuelInput("late evidence", 2))
	require.NoError(t, err)

	linked, err := env.signalSvc.LinkToDuel(ctx, sig.ID, d.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalResolved, linked.Status, "terminal signals never auto-promote")
	assert.Contains(t, linked.Linked.DuelIDs, d.ID, "the link itself still lands")
}

func TestSignalService_LinkToMove_NoPromotion(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	sig, err := env.signalSvc.Create(ctx, domain.Signal{Title: "move-backed"})
	require.NoError(t, err)
	m := testutil.NewTestMove()
	require.NoError(t, env.moves.Create(ctx, m))

	linked, err := env.signalSvc.LinkToMove(ctx, sig.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalTriage, linked.Status, "only duel links promote")
	assert.Contains(t, linked.Linked.MoveIDs, m.ID)
	require.Len(t, linked.EvidenceRefs, 1)
	assert.Equal(t, "move", linked.EvidenceRefs[0].Type)
}

func TestSignalService_ResolveAndArchive(t *testing.T) {
	env := newTestEnv(t, generousLimits)
	ctx := context.Background()

	sig, err := env.signalSvc.Create(ctx, domain.Signal{Title: "lifecycle"})
	require.NoError(t, err)

	require.NoError(t, env.signalSvc.Resolve(ctx, sig.ID))
	stored, err := env.signalSvc.GetByID(ctx, sig.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalResolved, stored.Status)

	require.NoError(t, env.signalSvc.Archive(ctx, sig.ID))
	stored, err = env.signalSvc.GetByID(ctx, sig.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SignalArchived, stored.Status)
}
