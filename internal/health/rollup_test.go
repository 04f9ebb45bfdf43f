package health

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/warroom/internal/domain"
)

func trackedMove(id, metric string, values ...float64) *domain.Move {
	m := &domain.Move{ID: id, Tracking: domain.Tracking{Metric: metric}}
	for _, v := range values {
		m.Tracking.Updates = append(m.Tracking.Updates, domain.TrackingUpdate{Value: v})
	}
	return m
}

func TestComputeRollup_SumsPerMetric(t *testing.T) {
	moves := []*domain.Move{
		trackedMove("m1", "reach", 100, 200),
		trackedMove("m2", "reach", 50),
		trackedMove("m3", "click", 10, 5),
		trackedMove("m4", "engagement", 999), // not aggregatable
	}

	r := ComputeRollup(moves)

	assert.Equal(t, 350.0, r.Total("reach"))
	assert.Equal(t, 15.0, r.Total("click"))
	assert.Zero(t, r.Total("convert"))
	_, tracked := r.Metrics["engagement"]
	assert.False(t, tracked, "non-canonical metrics are ignored")
}

func TestComputeRollup_CaseInsensitiveMetric(t *testing.T) {
	moves := []*domain.Move{
		trackedMove("m1", "Reach", 100),
		trackedMove("m2", " REACH ", 25),
	}

	r := ComputeRollup(moves)
	assert.Equal(t, 125.0, r.Total("reach"))
}

func TestComputeRollup_KeepsContributions(t *testing.T) {
	moves := []*domain.Move{
		trackedMove("m1", "convert", 3),
		trackedMove("m2", "convert", 7),
	}

	r := ComputeRollup(moves)

	contribs := r.Metrics["convert"].Contributions
	require.Len(t, contribs, 2)
	assert.Equal(t, "m1", contribs[0].MoveID)
	assert.Equal(t, 3.0, contribs[0].Sum)
	assert.Equal(t, "m2", contribs[1].MoveID)
	assert.Equal(t, 7.0, contribs[1].Sum)
}

func TestApplyRollup_WritesBothProjections(t *testing.T) {
	c := &domain.Campaign{}
	moves := []*domain.Move{
		trackedMove("m1", "reach", 100, 50),
		trackedMove("m2", "primary", 4),
	}

	ApplyRollup(c, ComputeRollup(moves))

	assert.Equal(t, 150.0, c.KPIs.Reach.Current)
	assert.Equal(t, 150.0, c.Blueprint.KPITree.Stages.Reach.Current)
	assert.Equal(t, 4.0, c.KPIs.Primary.Current)
	assert.Equal(t, 4.0, c.Blueprint.KPITree.Primary.Current)
}

func TestApplyRollup_Idempotent(t *testing.T) {
	c := &domain.Campaign{}
	moves := []*domain.Move{trackedMove("m1", "reach", 100)}
	r := ComputeRollup(moves)

	ApplyRollup(c, r)
	first := *c
	ApplyRollup(c, r)

	assert.Equal(t, first.KPIs, c.KPIs)
	assert.Equal(t, first.Blueprint.KPITree, c.Blueprint.KPITree)
}

func TestApplyRollup_ZeroesStaleCurrents(t *testing.T) {
	c := &domain.Campaign{}
	c.KPIs.Click.Current = 40

	ApplyRollup(c, ComputeRollup(nil))

	assert.Zero(t, c.KPIs.Click.Current, "currents are derived, never sticky")
}
