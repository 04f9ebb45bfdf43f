// Package readiness evaluates the fixed, ordered gate set a move must pass
// before automated generation may start.
package readiness

import "github.com/warroomhq/warroom/internal/domain"

// Gate ids, in evaluation order. The order is part of the contract: callers
// render gates deterministically.
const (
	GateObjective      = "has_objective"
	GateCohort         = "has_cohort"
	GateChannel        = "has_channel"
	GateMetric         = "has_metric"
	GateStrategyLocked = "strategy_locked"
	GateProof          = "has_proof"
)

// Canonical remediation values applied by FixReadiness.
const (
	DefaultChannel   = "linkedin"
	DefaultMetric    = "engagement"
	DefaultObjective = "Drive engagement with the target cohort"
)

type Gate struct {
	ID    string
	Label string
	OK    bool
}

type Readiness struct {
	Ready bool
	Gates []Gate
}

// Input carries everything gate evaluation needs. Campaign and Strategy may
// be nil (standalone move, no strategy yet).
type Input struct {
	Move     *domain.Move
	Campaign *domain.Campaign
	Strategy *domain.StrategyVersion
}

// Evaluate runs every gate in order and reports the aggregate. It never
// short-circuits: callers always see the full gate list.
func Evaluate(in Input) Readiness {
	objective := in.Move.Objective
	if objective == "" && in.Campaign != nil {
		objective = in.Campaign.Objective
	}

	gates := []Gate{
		{ID: GateObjective, Label: "Objective set on move or campaign", OK: objective != ""},
		{ID: GateCohort, Label: "Cohort selected", OK: in.Move.Cohort != ""},
		{ID: GateChannel, Label: "Channel selected", OK: in.Move.Channel != ""},
		{ID: GateMetric, Label: "Success metric chosen", OK: in.Move.Tracking.Metric != ""},
		{ID: GateStrategyLocked, Label: "Current strategy locked", OK: in.Strategy != nil && in.Strategy.Locked()},
		{ID: GateProof, Label: "Proof inventory has at least one item", OK: in.Strategy != nil && len(in.Strategy.Payload.ProofInventory) > 0},
	}

	ready := true
	for _, g := range gates {
		if !g.OK {
			ready = false
		}
	}
	return Readiness{Ready: ready, Gates: gates}
}

// GateByID returns the named gate from an evaluation, or nil.
func (r Readiness) GateByID(id string) *Gate {
	for i := range r.Gates {
		if r.Gates[i].ID == id {
			return &r.Gates[i]
		}
	}
	return nil
}
