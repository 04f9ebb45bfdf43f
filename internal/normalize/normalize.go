// Package normalize canonicalizes partial or legacy-shaped entity payloads.
// Every create/read path runs through these functions so the rest of the
// engine never sees a half-populated record. All functions are pure and
// idempotent: normalizing an already-canonical record returns an equal one.
package normalize

import (
	"github.com/warroomhq/warroom/internal/domain"
)

// DefaultMoveDurationDays is used when a move arrives without a plan.
const DefaultMoveDurationDays = 7

// Campaign fills every optional campaign field with a structurally valid
// default and keeps the KPI tree numerically consistent with the KPI block.
func Campaign(c domain.Campaign) domain.Campaign {
	if c.Status == "" {
		c.Status = domain.CampaignDraft
	}
	if c.CohortIDs == nil {
		c.CohortIDs = []string{}
	}
	if c.ChannelIDs == nil {
		c.ChannelIDs = []string{}
	}

	c.KPIs.Primary.Name = domain.CoalesceStr(c.KPIs.Primary.Name, c.Blueprint.PrimaryKPI, "primary")
	c.KPIs.Reach.Name = domain.CoalesceStr(c.KPIs.Reach.Name, "reach")
	c.KPIs.Click.Name = domain.CoalesceStr(c.KPIs.Click.Name, "click")
	c.KPIs.Convert.Name = domain.CoalesceStr(c.KPIs.Convert.Name, "convert")

	c.Blueprint.Objective = domain.CoalesceStr(c.Blueprint.Objective, c.Objective)
	c.Blueprint.PrimaryKPI = domain.CoalesceStr(c.Blueprint.PrimaryKPI, c.KPIs.Primary.Name)
	if c.Blueprint.Phases == nil {
		c.Blueprint.Phases = []domain.Phase{}
	}
	if c.Blueprint.KPITree.LeadingIndicators == nil {
		c.Blueprint.KPITree.LeadingIndicators = []string{}
	}
	if c.Blueprint.KPITree.HealthRules == nil {
		c.Blueprint.KPITree.HealthRules = []domain.HealthRule{}
	}

	// The tree mirrors the KPI block. The KPI block is authoritative for
	// current values; the tree is authoritative for nothing.
	c.Blueprint.KPITree.Primary = mirrorKPI(c.Blueprint.KPITree.Primary, c.KPIs.Primary)
	c.Blueprint.KPITree.Stages.Reach = mirrorKPI(c.Blueprint.KPITree.Stages.Reach, c.KPIs.Reach)
	c.Blueprint.KPITree.Stages.Click = mirrorKPI(c.Blueprint.KPITree.Stages.Click, c.KPIs.Click)
	c.Blueprint.KPITree.Stages.Convert = mirrorKPI(c.Blueprint.KPITree.Stages.Convert, c.KPIs.Convert)

	if c.Timeline.Weeks == nil {
		c.Timeline.Weeks = []domain.TimelineWeek{}
	}
	for i := range c.Timeline.Weeks {
		if c.Timeline.Weeks[i].MoveIDs == nil {
			c.Timeline.Weeks[i].MoveIDs = []string{}
		}
	}
	return c
}

func mirrorKPI(tree, source domain.KPI) domain.KPI {
	tree.Name = domain.CoalesceStr(tree.Name, source.Name)
	tree.Baseline = domain.CoalesceFloat(tree.Baseline, source.Baseline)
	tree.Target = domain.CoalesceFloat(tree.Target, source.Target)
	tree.Current = source.Current
	return tree
}

// Move fills move defaults and clamps every task day into the plan window.
// It never invents a cohort, channel or tracking metric; those absences are
// what the readiness gates report.
func Move(m domain.Move) domain.Move {
	if m.Status == "" {
		m.Status = domain.MovePending
	}
	if m.Plan.DurationDays < 1 {
		m.Plan.DurationDays = DefaultMoveDurationDays
	}
	if m.Tasks == nil {
		m.Tasks = []domain.MoveTask{}
	}
	for i := range m.Tasks {
		if m.Tasks[i].Status == "" {
			m.Tasks[i].Status = domain.TaskTodo
		}
	}
	m.ClampTaskDays()
	if m.Generation.Status == "" {
		m.Generation.Status = domain.GenerationIdle
	}
	if m.Tracking.Updates == nil {
		m.Tracking.Updates = []domain.TrackingUpdate{}
	}
	return m
}

// PipelineItem fills workflow defaults for a pipeline item.
func PipelineItem(p domain.PipelineItem) domain.PipelineItem {
	if p.Execution.Status == "" {
		p.Execution.Status = domain.PipelineBacklog
	}
	if p.Approvals.State == "" {
		p.Approvals.State = domain.ApprovalNotRequested
	}
	if p.Inputs.AssetRefs == nil {
		p.Inputs.AssetRefs = []string{}
	}
	if p.Inputs.ProofClaimRefs == nil {
		p.Inputs.ProofClaimRefs = []string{}
	}
	if p.MetricsHook.Events == nil {
		p.MetricsHook.Events = []domain.MetricEvent{}
	}
	return p
}
