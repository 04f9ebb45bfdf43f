package testutil

import (
	"time"

	"github.com/google/uuid"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/normalize"
)

// Campaign options
type CampaignOption func(*domain.Campaign)

func WithCampaignStatus(s domain.CampaignStatus) CampaignOption {
	return func(c *domain.Campaign) {
		c.Status = s
	}
}

func WithPrimaryKPI(name string, target float64) CampaignOption {
	return func(c *domain.Campaign) {
		c.KPIs.Primary = domain.KPI{Name: name, Target: target}
		c.Blueprint.PrimaryKPI = name
	}
}

func WithHealthRules(rules ...domain.HealthRule) CampaignOption {
	return func(c *domain.Campaign) {
		c.Blueprint.KPITree.HealthRules = rules
	}
}

func NewTestCampaign(name string, opts ...CampaignOption) *domain.Campaign {
	now := time.Now().UTC()
	c := domain.Campaign{
		ID:        uuid.New().String(),
		Name:      name,
		Objective: "grow pipeline",
		Status:    domain.CampaignActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&c)
	}
	c = normalize.Campaign(c)
	return &c
}

// Move options
type MoveOption func(*domain.Move)

func WithMoveCampaign(campaignID string) MoveOption {
	return func(m *domain.Move) {
		m.CampaignID = campaignID
	}
}

func WithMoveStatus(s domain.MoveStatus) MoveOption {
	return func(m *domain.Move) {
		m.Status = s
	}
}

func WithMoveMetric(metric string, values ...float64) MoveOption {
	return func(m *domain.Move) {
		m.Tracking.Metric = metric
		for _, v := range values {
			m.Tracking.Updates = append(m.Tracking.Updates, domain.TrackingUpdate{Value: v})
		}
	}
}

func WithMoveTasks(tasks ...domain.MoveTask) MoveOption {
	return func(m *domain.Move) {
		m.Tasks = tasks
	}
}

// NewTestMove returns a move that passes the move-local readiness gates
// (objective, cohort, channel, metric). Strategy gates depend on the test's
// strategy setup.
func NewTestMove(opts ...MoveOption) *domain.Move {
	now := time.Now().UTC()
	m := domain.Move{
		ID:        uuid.New().String(),
		Objective: "book demos",
		Cohort:    "founders",
		Channel:   "linkedin",
		CTA:       "Book a call",
		Plan:      domain.MovePlan{DurationDays: 7},
		Tracking:  domain.Tracking{Metric: "reach"},
		Status:    domain.MovePending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	m = normalize.Move(m)
	return &m
}

// NewLockedStrategy returns a locked strategy version with a non-empty
// proof inventory, satisfying both strategy readiness gates.
func NewLockedStrategy(version int) *domain.StrategyVersion {
	now := time.Now().UTC()
	return &domain.StrategyVersion{
		ID:            uuid.New().String(),
		VersionNumber: version,
		Status:        domain.StrategyLocked,
		LockedAt:      &now,
		Payload: domain.StrategyPayload{
			BrandRules:     []string{"no superlatives"},
			ProofInventory: []domain.ProofItem{{ID: "p1", Label: "case study: Acme"}},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestCohort(id, name string) *domain.Cohort {
	now := time.Now().UTC()
	return &domain.Cohort{
		ID:          id,
		Name:        name,
		Description: "test cohort",
		Tags:        []string{"b2b"},
		ChannelFit: map[string]domain.ChannelFitLevel{
			"linkedin": domain.FitRecommended,
			"tiktok":   domain.FitNotFit,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func NewTestPipelineItem(title string) *domain.PipelineItem {
	now := time.Now().UTC()
	p := domain.PipelineItem{
		ID:        uuid.New().String(),
		Title:     title,
		WorkType:  "asset",
		ChannelID: "linkedin",
		CreatedAt: now,
		UpdatedAt: now,
	}
	p = normalize.PipelineItem(p)
	return &p
}
