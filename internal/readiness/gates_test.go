package readiness

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/warroom/internal/domain"
)

func lockedStrategy() *domain.StrategyVersion {
	now := time.Now().UTC()
	return &domain.StrategyVersion{
		ID:            "sv1",
		VersionNumber: 1,
		Status:        domain.StrategyLocked,
		LockedAt:      &now,
		Payload: domain.StrategyPayload{
			ProofInventory: []domain.ProofItem{{ID: "p1", Label: "case study"}},
		},
	}
}

func readyMove() *domain.Move {
	return &domain.Move{
		ID:        "m1",
		Objective: "book demos",
		Cohort:    "founders",
		Channel:   "linkedin",
		Tracking:  domain.Tracking{Metric: "reach"},
	}
}

func TestEvaluate_AllGatesPass(t *testing.T) {
	r := Evaluate(Input{Move: readyMove(), Strategy: lockedStrategy()})

	assert.True(t, r.Ready)
	for _, g := range r.Gates {
		assert.True(t, g.OK, "gate %s", g.ID)
	}
}

func TestEvaluate_GateOrderIsFixed(t *testing.T) {
	r := Evaluate(Input{Move: &domain.Move{}})

	want := []string{GateObjective, GateCohort, GateChannel, GateMetric, GateStrategyLocked, GateProof}
	require.Len(t, r.Gates, len(want))
	for i, id := range want {
		assert.Equal(t, id, r.Gates[i].ID)
	}
}

func TestEvaluate_MissingCohort(t *testing.T) {
	m := readyMove()
	m.Cohort = ""

	r := Evaluate(Input{Move: m, Strategy: lockedStrategy()})

	assert.False(t, r.Ready)
	gate := r.GateByID(GateCohort)
	require.NotNil(t, gate)
	assert.False(t, gate.OK)
}

func TestEvaluate_ObjectiveFallsBackToCampaign(t *testing.T) {
	m := readyMove()
	m.Objective = ""
	c := &domain.Campaign{Objective: "grow pipeline"}

	r := Evaluate(Input{Move: m, Campaign: c, Strategy: lockedStrategy()})

	assert.True(t, r.GateByID(GateObjective).OK)
}

func TestEvaluate_UnlockedStrategyFails(t *testing.T) {
	s := lockedStrategy()
	s.Status = domain.StrategyDraft

	r := Evaluate(Input{Move: readyMove(), Strategy: s})

	assert.False(t, r.Ready)
	assert.False(t, r.GateByID(GateStrategyLocked).OK)
	assert.True(t, r.GateByID(GateProof).OK, "proof gate is independent of lock state")
}

func TestEvaluate_NilStrategyFailsStrategyGates(t *testing.T) {
	r := Evaluate(Input{Move: readyMove()})

	assert.False(t, r.GateByID(GateStrategyLocked).OK)
	assert.False(t, r.GateByID(GateProof).OK)
}

func TestEvaluate_EmptyProofInventory(t *testing.T) {
	s := lockedStrategy()
	s.Payload.ProofInventory = nil

	r := Evaluate(Input{Move: readyMove(), Strategy: s})

	assert.False(t, r.GateByID(GateProof).OK)
}
