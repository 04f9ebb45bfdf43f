package repository

import (
	"context"

	"github.com/warroomhq/warroom/internal/domain"
)

type StrategyRepo interface {
	Create(ctx context.Context, v *domain.StrategyVersion) error
	GetByID(ctx context.Context, id string) (*domain.StrategyVersion, error)
	List(ctx context.Context) ([]*domain.StrategyVersion, error)
	Update(ctx context.Context, v *domain.StrategyVersion) error
	// Current returns the version the pointer row names, or (nil, nil)
	// when no version exists yet.
	Current(ctx context.Context) (*domain.StrategyVersion, error)
	SetCurrent(ctx context.Context, id string) error
	MaxVersionNumber(ctx context.Context) (int, error)
}

type CampaignRepo interface {
	Create(ctx context.Context, c *domain.Campaign) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	List(ctx context.Context, includeArchived bool) ([]*domain.Campaign, error)
	Update(ctx context.Context, c *domain.Campaign) error
	Archive(ctx context.Context, id string) error
	CountActive(ctx context.Context) (int, error)
}

type MoveRepo interface {
	Create(ctx context.Context, m *domain.Move) error
	GetByID(ctx context.Context, id string) (*domain.Move, error)
	List(ctx context.Context) ([]*domain.Move, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]*domain.Move, error)
	Update(ctx context.Context, m *domain.Move) error
	Delete(ctx context.Context, id string) error
}

type PipelineRepo interface {
	Create(ctx context.Context, p *domain.PipelineItem) error
	GetByID(ctx context.Context, id string) (*domain.PipelineItem, error)
	List(ctx context.Context) ([]*domain.PipelineItem, error)
	ListByStatus(ctx context.Context, status domain.PipelineStatus) ([]*domain.PipelineItem, error)
	Update(ctx context.Context, p *domain.PipelineItem) error
	Delete(ctx context.Context, id string) error
}

type DuelRepo interface {
	Create(ctx context.Context, d *domain.Duel) error
	GetByID(ctx context.Context, id string) (*domain.Duel, error)
	List(ctx context.Context) ([]*domain.Duel, error)
	Update(ctx context.Context, d *domain.Duel) error
}

type SignalRepo interface {
	Create(ctx context.Context, s *domain.Signal) error
	GetByID(ctx context.Context, id string) (*domain.Signal, error)
	List(ctx context.Context) ([]*domain.Signal, error)
	Update(ctx context.Context, s *domain.Signal) error
}

type CohortRepo interface {
	Create(ctx context.Context, c *domain.Cohort) error
	GetByID(ctx context.Context, id string) (*domain.Cohort, error)
	List(ctx context.Context) ([]*domain.Cohort, error)
	Update(ctx context.Context, c *domain.Cohort) error
}

// UsageRepo stores the single usage-counters row. Satisfies
// quota.UsageStore.
type UsageRepo interface {
	Get(ctx context.Context) (domain.UsageCounters, error)
	Put(ctx context.Context, u domain.UsageCounters) error
}
