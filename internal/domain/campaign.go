package domain

import "time"

type Campaign struct {
	ID         string
	Name       string
	Objective  string
	Status     CampaignStatus
	CohortIDs  []string
	ChannelIDs []string
	KPIs       CampaignKPIs
	Blueprint  Blueprint
	Timeline   Timeline
	// StrategyVersionID pins the strategy version the campaign was created
	// against. Never retro-updated when a newer version locks.
	StrategyVersionID string
	ArchivedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// KPI is one tracked metric with its baseline, target and rolled-up current
// value. Current is derived by the aggregation engine, never edited directly.
type KPI struct {
	Name     string
	Baseline float64
	Target   float64
	Current  float64
}

type CampaignKPIs struct {
	Primary KPI
	Reach   KPI
	Click   KPI
	Convert KPI
}

// Blueprint is the campaign's plan-of-record: objective, phases and the KPI
// tree with its health rules.
type Blueprint struct {
	Objective  string
	PrimaryKPI string
	Phases     []Phase
	KPITree    KPITree
}

type Phase struct {
	Name  string
	Focus string
}

// KPITree mirrors CampaignKPIs (same numbers after every rollup) and adds
// leading indicators plus the health rules evaluated into the RAG grade.
type KPITree struct {
	Primary           KPI
	Stages            KPIStages
	LeadingIndicators []string
	HealthRules       []HealthRule
}

type KPIStages struct {
	Reach   KPI
	Click   KPI
	Convert KPI
}

// HealthRule compares a computed metric percentage against a threshold.
// Operator is ">=" or "<="; the rule is violated when the comparison fails.
type HealthRule struct {
	Metric    string
	Operator  string
	Threshold float64
	Severity  Severity
}

type Timeline struct {
	Weeks []TimelineWeek
}

type TimelineWeek struct {
	Week    int
	Phase   string
	MoveIDs []string
}

// HasMove reports whether the move is attached to the campaign timeline.
func (c *Campaign) HasMove(moveID string) bool {
	for _, w := range c.Timeline.Weeks {
		for _, id := range w.MoveIDs {
			if id == moveID {
				return true
			}
		}
	}
	return false
}
