package service

import (
	"context"
	"time"

	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/health"
	"github.com/warroomhq/warroom/internal/readiness"
)

// Business-rule denials (quota exceeded, gate failing, wrong lifecycle
// state) are ordinary outcomes across all services: operations return a nil
// entity or a result with OK=false and a nil error. Errors are reserved for
// collaborator failures and unknown ids.

type StrategyService interface {
	// CreateDraft clones the current payload into a new draft with the next
	// version number and moves the current pointer to it.
	CreateDraft(ctx context.Context) (*domain.StrategyVersion, error)
	// UpdateDraft replaces the payload of a draft version. Returns
	// (nil, nil) when the version is locked.
	UpdateDraft(ctx context.Context, id string, payload domain.StrategyPayload) (*domain.StrategyVersion, error)
	// Lock locks the current version. Idempotent.
	Lock(ctx context.Context) (*domain.StrategyVersion, error)
	Current(ctx context.Context) (*domain.StrategyVersion, error)
	GetByID(ctx context.Context, id string) (*domain.StrategyVersion, error)
	List(ctx context.Context) ([]*domain.StrategyVersion, error)
}

type CampaignService interface {
	// Create normalizes and stores a campaign pinned to the current
	// strategy version. Returns (nil, nil) when activating it would exceed
	// the plan's active-campaign limit.
	Create(ctx context.Context, c domain.Campaign) (*domain.Campaign, error)
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Campaign, error)
	Update(ctx context.Context, c domain.Campaign) (*domain.Campaign, error)
	Archive(ctx context.Context, id string) error
	// AttachMove links a move into the campaign timeline at the given week
	// and re-rolls the campaign KPIs.
	AttachMove(ctx context.Context, campaignID, moveID string, week int) error
	// KPIRollup computes the rollup without mutating anything.
	KPIRollup(ctx context.Context, campaignID string) (health.Rollup, error)
	// ApplyKPIRollup computes the rollup and writes the current values into
	// both KPI projections.
	ApplyKPIRollup(ctx context.Context, campaignID string) (*domain.Campaign, error)
	Health(ctx context.Context, campaignID string) (health.Result, error)
}

// GenerationResult reports a StartGeneration attempt. Exactly one of OK,
// QuotaDenied, or a not-ready Readiness explains the outcome.
type GenerationResult struct {
	OK          bool
	QuotaDenied bool
	Readiness   readiness.Readiness
	Move        *domain.Move
}

type MoveService interface {
	Create(ctx context.Context, m domain.Move) (*domain.Move, error)
	GetByID(ctx context.Context, id string) (*domain.Move, error)
	List(ctx context.Context) ([]*domain.Move, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]*domain.Move, error)
	Update(ctx context.Context, m domain.Move) (*domain.Move, error)
	AddTask(ctx context.Context, moveID string, task domain.MoveTask) (*domain.Move, error)
	SetTaskStatus(ctx context.Context, moveID, taskID string, status domain.TaskStatus) (*domain.Move, error)
	// AddTrackingUpdate appends a tracking value and, when the move tracks
	// an aggregatable metric inside a campaign, re-rolls the campaign KPIs.
	AddTrackingUpdate(ctx context.Context, moveID string, value float64) (*domain.Move, error)
	Readiness(ctx context.Context, moveID string) (readiness.Readiness, error)
	// FixReadiness applies the canonical remediation for one gate.
	// No-op when the gate already passes.
	FixReadiness(ctx context.Context, moveID, gateID string) (readiness.Readiness, error)
	// StartGeneration gates on readiness and the generation quota, then
	// moves pending->generating and schedules the deferred completion.
	StartGeneration(ctx context.Context, moveID string) (GenerationResult, error)
	// Complete moves active->completed and records the outcome. Returns
	// (nil, nil) when the move is not active.
	Complete(ctx context.Context, moveID, outcome, learning string) (*domain.Move, error)
}

type PipelineService interface {
	Create(ctx context.Context, p domain.PipelineItem) (*domain.PipelineItem, error)
	GetByID(ctx context.Context, id string) (*domain.PipelineItem, error)
	List(ctx context.Context) ([]*domain.PipelineItem, error)
	ListByStatus(ctx context.Context, status domain.PipelineStatus) ([]*domain.PipelineItem, error)
	// Assign sets the people fields; a backlog item auto-advances to
	// in_production because assignment implies work has started.
	Assign(ctx context.Context, id, ownerID, reviewerID, approverID string) (*domain.PipelineItem, error)
	RequestApproval(ctx context.Context, id string, required bool) (*domain.PipelineItem, error)
	Approve(ctx context.Context, id, approverID string) (*domain.PipelineItem, error)
	Reject(ctx context.Context, id string) (*domain.PipelineItem, error)
	// Schedule sets or clears scheduled_for. A non-nil time forces status
	// scheduled; clearing leaves status untouched.
	Schedule(ctx context.Context, id string, scheduledFor *time.Time) (*domain.PipelineItem, error)
	// MarkShipped enforces no-ship-without-proof: a receipt missing type or
	// value blocks the item and records nothing.
	MarkShipped(ctx context.Context, id string, receipt domain.Receipt) (*domain.PipelineItem, error)
	// LogResult appends a metrics event; never changes execution status.
	LogResult(ctx context.Context, id string, event domain.MetricEvent, primaryMetric string) (*domain.PipelineItem, error)
}

type DuelService interface {
	// Create is quota-gated; returns (nil, nil) on denial. Variant labels
	// are assigned A, B, C... from input order.
	Create(ctx context.Context, d domain.Duel) (*domain.Duel, error)
	GetByID(ctx context.Context, id string) (*domain.Duel, error)
	List(ctx context.Context) ([]*domain.Duel, error)
	// RecordMetric increments a variant's clicks/leads while running.
	RecordMetric(ctx context.Context, duelID, variantID string, clicks, leads int) (*domain.Duel, error)
	TogglePaused(ctx context.Context, id string) (*domain.Duel, error)
	// CrownWinner picks the variant with the best goal metric; ties go to
	// the first variant in declaration order.
	CrownWinner(ctx context.Context, id string) (*domain.Duel, error)
	// PromoteWinner stamps PromotedAt. It deliberately mutates nothing
	// else.
	PromoteWinner(ctx context.Context, id string) (*domain.Duel, error)
	// Duplicate clones a duel with fresh ids, zeroed metrics and status
	// running.
	Duplicate(ctx context.Context, id string) (*domain.Duel, error)
	Archive(ctx context.Context, id string) error
}

type SignalService interface {
	Create(ctx context.Context, s domain.Signal) (*domain.Signal, error)
	GetByID(ctx context.Context, id string) (*domain.Signal, error)
	List(ctx context.Context) ([]*domain.Signal, error)
	Update(ctx context.Context, s domain.Signal) (*domain.Signal, error)
	// LinkToDuel idempotently links the duel, records an evidence ref,
	// back-references the signal on the duel, and promotes
	// triage->in_test unless the signal is resolved/archived.
	LinkToDuel(ctx context.Context, signalID, duelID string) (*domain.Signal, error)
	LinkToMove(ctx context.Context, signalID, moveID string) (*domain.Signal, error)
	Resolve(ctx context.Context, id string) error
	Archive(ctx context.Context, id string) error
}

// ChannelRecommendation is one radar scan suggestion.
type ChannelRecommendation struct {
	Channel string
	Fit     domain.ChannelFitLevel
}

// RadarScanResult is the outcome of one quota-gated radar scan.
type RadarScanResult struct {
	CohortID        string
	GeneratedAt     time.Time
	Recommendations []ChannelRecommendation
}

type RadarService interface {
	// RunScan is quota-gated per day; returns (nil, nil) on denial.
	RunScan(ctx context.Context, cohortID string) (*RadarScanResult, error)
}
