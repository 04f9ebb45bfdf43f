package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/health"
	"github.com/warroomhq/warroom/internal/normalize"
	"github.com/warroomhq/warroom/internal/notify"
	"github.com/warroomhq/warroom/internal/quota"
	"github.com/warroomhq/warroom/internal/repository"
)

type campaignService struct {
	campaigns  repository.CampaignRepo
	moves      repository.MoveRepo
	strategies repository.StrategyRepo
	governor   *quota.Governor
	sink       notify.Sink
	observer   UseCaseObserver
	now        func() time.Time
	newID      func() string
}

func NewCampaignService(
	campaigns repository.CampaignRepo,
	moves repository.MoveRepo,
	strategies repository.StrategyRepo,
	governor *quota.Governor,
	sink notify.Sink,
	observers ...UseCaseObserver,
) CampaignService {
	return &campaignService{
		campaigns:  campaigns,
		moves:      moves,
		strategies: strategies,
		governor:   governor,
		sink:       sink,
		observer:   useCaseObserverOrNoop(observers),
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.New().String() },
	}
}

func (s *campaignService) Create(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	c = normalize.Campaign(c)

	if c.Status == domain.CampaignActive {
		ok, err := s.activeSlotAvailable(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			notify.Emit(s.sink, notify.Event{
				Level:  notify.LevelWarn,
				Title:  "Active campaign limit reached",
				Detail: fmt.Sprintf("Plan %q allows %d active campaigns", s.governor.Plan().Key, s.governor.Plan().Limits.ActiveCampaigns),
			}, notify.Options{Toast: true})
			return nil, nil
		}
	}

	if c.StrategyVersionID == "" {
		current, err := s.strategies.Current(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading current strategy: %w", err)
		}
		if current != nil {
			c.StrategyVersionID = current.ID
		}
	}

	if c.ID == "" {
		c.ID = s.newID()
	}
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	if err := s.campaigns.Create(ctx, &c); err != nil {
		return nil, fmt.Errorf("creating campaign: %w", err)
	}
	return &c, nil
}

func (s *campaignService) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	normalized := normalize.Campaign(*c)
	return &normalized, nil
}

func (s *campaignService) List(ctx context.Context, includeArchived bool) ([]*domain.Campaign, error) {
	return s.campaigns.List(ctx, includeArchived)
}

func (s *campaignService) Update(ctx context.Context, c domain.Campaign) (*domain.Campaign, error) {
	stored, err := s.campaigns.GetByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	if c.Status == domain.CampaignActive && stored.Status != domain.CampaignActive {
		ok, err := s.activeSlotAvailable(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, nil
		}
	}

	c = normalize.Campaign(c)
	// Pinned strategy version and creation time never change on update.
	c.StrategyVersionID = stored.StrategyVersionID
	c.CreatedAt = stored.CreatedAt
	c.UpdatedAt = s.now()
	if err := s.campaigns.Update(ctx, &c); err != nil {
		return nil, fmt.Errorf("updating campaign: %w", err)
	}
	return &c, nil
}

func (s *campaignService) Archive(ctx context.Context, id string) error {
	if _, err := s.campaigns.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.campaigns.Archive(ctx, id); err != nil {
		return fmt.Errorf("archiving campaign: %w", err)
	}
	return nil
}

func (s *campaignService) AttachMove(ctx context.Context, campaignID, moveID string, week int) error {
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return err
	}
	m, err := s.moves.GetByID(ctx, moveID)
	if err != nil {
		return err
	}

	if m.CampaignID != campaignID {
		m.CampaignID = campaignID
		m.UpdatedAt = s.now()
		if err := s.moves.Update(ctx, m); err != nil {
			return fmt.Errorf("linking move to campaign: %w", err)
		}
	}

	if !c.HasMove(moveID) {
		if week < 1 {
			week = 1
		}
		placed := false
		for i := range c.Timeline.Weeks {
			if c.Timeline.Weeks[i].Week == week {
				c.Timeline.Weeks[i].MoveIDs = append(c.Timeline.Weeks[i].MoveIDs, moveID)
				placed = true
				break
			}
		}
		if !placed {
			c.Timeline.Weeks = append(c.Timeline.Weeks, domain.TimelineWeek{
				Week:    week,
				MoveIDs: []string{moveID},
			})
			sort.Slice(c.Timeline.Weeks, func(i, j int) bool {
				return c.Timeline.Weeks[i].Week < c.Timeline.Weeks[j].Week
			})
		}
		c.UpdatedAt = s.now()
		if err := s.campaigns.Update(ctx, c); err != nil {
			return fmt.Errorf("updating campaign timeline: %w", err)
		}
	}

	if _, err := s.ApplyKPIRollup(ctx, campaignID); err != nil {
		return err
	}
	return nil
}

func (s *campaignService) KPIRollup(ctx context.Context, campaignID string) (health.Rollup, error) {
	if _, err := s.campaigns.GetByID(ctx, campaignID); err != nil {
		return health.Rollup{}, err
	}
	moves, err := s.moves.ListByCampaign(ctx, campaignID)
	if err != nil {
		return health.Rollup{}, fmt.Errorf("listing campaign moves: %w", err)
	}
	return health.ComputeRollup(moves), nil
}

func (s *campaignService) ApplyKPIRollup(ctx context.Context, campaignID string) (c *domain.Campaign, err error) {
	startedAt := s.now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "apply-kpi-rollup",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"campaign_id": campaignID},
		})
	}()

	c, err = s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	moves, err := s.moves.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("listing campaign moves: %w", err)
	}

	normalized := normalize.Campaign(*c)
	health.ApplyRollup(&normalized, health.ComputeRollup(moves))
	normalized.UpdatedAt = s.now()
	if err = s.campaigns.Update(ctx, &normalized); err != nil {
		return nil, fmt.Errorf("saving campaign rollup: %w", err)
	}
	return &normalized, nil
}

func (s *campaignService) Health(ctx context.Context, campaignID string) (health.Result, error) {
	c, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		return health.Result{}, err
	}
	moves, err := s.moves.ListByCampaign(ctx, campaignID)
	if err != nil {
		return health.Result{}, fmt.Errorf("listing campaign moves: %w", err)
	}
	normalized := normalize.Campaign(*c)
	return health.Compute(&normalized, moves), nil
}

func (s *campaignService) activeSlotAvailable(ctx context.Context) (bool, error) {
	active, err := s.campaigns.CountActive(ctx)
	if err != nil {
		return false, fmt.Errorf("counting active campaigns: %w", err)
	}
	return active < s.governor.Plan().Limits.ActiveCampaigns, nil
}
