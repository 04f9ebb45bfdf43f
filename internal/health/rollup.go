// Package health rolls move tracking data up into campaign KPIs and grades
// campaign health from the blueprint's rules. Everything here is pure
// computation over domain records.
package health

import (
	"strings"

	"github.com/warroomhq/warroom/internal/domain"
)

// MetricContribution records one move's share of a rolled-up metric, kept
// for auditability of the totals.
type MetricContribution struct {
	MoveID string
	Sum    float64
}

type MetricRollup struct {
	Total         float64
	Contributions []MetricContribution
}

// Rollup is the per-metric aggregation of tracking updates across a
// campaign's moves. Keys are the canonical metric names (primary, reach,
// click, convert).
type Rollup struct {
	Metrics map[string]MetricRollup
}

// Total returns the rolled-up total for a metric, zero when absent.
func (r Rollup) Total(metric string) float64 {
	return r.Metrics[metric].Total
}

// ComputeRollup sums tracking updates per aggregatable metric across moves.
// Metric names match case-insensitively; moves tracking anything else are
// ignored. Pure read, no mutation.
func ComputeRollup(moves []*domain.Move) Rollup {
	out := Rollup{Metrics: make(map[string]MetricRollup)}
	for _, m := range moves {
		key := strings.ToLower(strings.TrimSpace(m.Tracking.Metric))
		if !domain.AggregatableMetrics[key] {
			continue
		}
		sum := m.TrackingTotal()
		mr := out.Metrics[key]
		mr.Total += sum
		mr.Contributions = append(mr.Contributions, MetricContribution{MoveID: m.ID, Sum: sum})
		out.Metrics[key] = mr
	}
	return out
}

// ApplyRollup writes the rolled-up totals into both KPI projections of the
// campaign (kpis and blueprint.kpiTree), keeping them identical. Current
// values are derived: this is the only writer.
func ApplyRollup(c *domain.Campaign, r Rollup) {
	c.KPIs.Primary.Current = r.Total("primary")
	c.KPIs.Reach.Current = r.Total("reach")
	c.KPIs.Click.Current = r.Total("click")
	c.KPIs.Convert.Current = r.Total("convert")

	c.Blueprint.KPITree.Primary.Current = c.KPIs.Primary.Current
	c.Blueprint.KPITree.Stages.Reach.Current = c.KPIs.Reach.Current
	c.Blueprint.KPITree.Stages.Click.Current = c.KPIs.Click.Current
	c.Blueprint.KPITree.Stages.Convert.Current = c.KPIs.Convert.Current
}
