package quota

import (
	"context"
	"fmt"
	"time"

	"github.com/warroomhq/warroom/internal/domain"
)

// Feature identifies a quota-gated engine feature.
type Feature string

const (
	FeatureRadarScan  Feature = "radar_scan"
	FeatureDuel       Feature = "duel"
	FeatureGeneration Feature = "generation"
)

// UsageStore loads and saves the usage counters.
type UsageStore interface {
	Get(ctx context.Context) (domain.UsageCounters, error)
	Put(ctx context.Context, u domain.UsageCounters) error
}

// Allowed is the pure quota predicate: counter strictly below limit.
func Allowed(f Feature, u domain.UsageCounters, l domain.PlanLimits) bool {
	switch f {
	case FeatureRadarScan:
		return u.RadarScansToday < l.RadarScansPerDay
	case FeatureDuel:
		return u.DuelsThisMonth < l.DuelsPerMonth
	case FeatureGeneration:
		return u.GenerationsThisMonth < l.GenerationsPerMonth
	default:
		return false
	}
}

// Governor tracks usage counters against the current plan.
type Governor struct {
	plan  domain.Plan
	usage UsageStore
	now   func() time.Time
}

func NewGovernor(plan domain.Plan, usage UsageStore) *Governor {
	return &Governor{plan: plan, usage: usage, now: func() time.Time { return time.Now().UTC() }}
}

// Plan returns the governed plan.
func (g *Governor) Plan() domain.Plan {
	return g.plan
}

// CanUse reports whether one more use of the feature fits the plan.
func (g *Governor) CanUse(ctx context.Context, f Feature) (bool, error) {
	u, err := g.usage.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("loading usage counters: %w", err)
	}
	return Allowed(f, u, g.plan.Limits), nil
}

// Consume checks the limit and, if allowed, increments the counter by one.
// The increment commits before the feature action runs, so a failure inside
// the feature still counts as attempted usage. Denial returns (false, nil).
func (g *Governor) Consume(ctx context.Context, f Feature) (bool, error) {
	u, err := g.usage.Get(ctx)
	if err != nil {
		return false, fmt.Errorf("loading usage counters: %w", err)
	}
	if !Allowed(f, u, g.plan.Limits) {
		return false, nil
	}
	switch f {
	case FeatureRadarScan:
		u.RadarScansToday++
	case FeatureDuel:
		u.DuelsThisMonth++
	case FeatureGeneration:
		u.GenerationsThisMonth++
	}
	if err := g.usage.Put(ctx, u); err != nil {
		return false, fmt.Errorf("saving usage counters: %w", err)
	}
	return true, nil
}

// Snapshot returns the current counters alongside the plan limits.
func (g *Governor) Snapshot(ctx context.Context) (domain.UsageCounters, domain.PlanLimits, error) {
	u, err := g.usage.Get(ctx)
	if err != nil {
		return domain.UsageCounters{}, domain.PlanLimits{}, fmt.Errorf("loading usage counters: %w", err)
	}
	return u, g.plan.Limits, nil
}

// ResetDaily zeroes the per-day counters. Called by an external scheduler on
// day rollover; the engine never triggers it.
func (g *Governor) ResetDaily(ctx context.Context) error {
	u, err := g.usage.Get(ctx)
	if err != nil {
		return fmt.Errorf("loading usage counters: %w", err)
	}
	u.RadarScansToday = 0
	u.LastReset = g.now()
	if err := g.usage.Put(ctx, u); err != nil {
		return fmt.Errorf("saving usage counters: %w", err)
	}
	return nil
}

// ResetMonthly zeroes the per-month counters. External scheduler concern,
// same as ResetDaily.
func (g *Governor) ResetMonthly(ctx context.Context) error {
	u, err := g.usage.Get(ctx)
	if err != nil {
		return fmt.Errorf("loading usage counters: %w", err)
	}
	u.DuelsThisMonth = 0
	u.GenerationsThisMonth = 0
	u.LastReset = g.now()
	if err := g.usage.Put(ctx, u); err != nil {
		return fmt.Errorf("saving usage counters: %w", err)
	}
	return nil
}
