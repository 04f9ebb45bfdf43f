package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/notify"
	"github.com/warroomhq/warroom/internal/quota"
	"github.com/warroomhq/warroom/internal/repository"
)

type duelService struct {
	duels    repository.DuelRepo
	governor *quota.Governor
	sink     notify.Sink
	now      func() time.Time
	newID    func() string
}

func NewDuelService(duels repository.DuelRepo, governor *quota.Governor, sink notify.Sink) DuelService {
	return &duelService{
		duels:    duels,
		governor: governor,
		sink:     sink,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return uuid.New().String() },
	}
}

func (s *duelService) Create(ctx context.Context, d domain.Duel) (*domain.Duel, error) {
	ok, err := s.governor.Consume(ctx, quota.FeatureDuel)
	if err != nil {
		return nil, err
	}
	if !ok {
		notify.Emit(s.sink, notify.Event{
			Level:  notify.LevelWarn,
			Title:  "Duel quota reached",
			Detail: fmt.Sprintf("Plan %q is out of duels this month", s.governor.Plan().Key),
		}, notify.Options{Toast: true})
		return nil, nil
	}

	if d.ID == "" {
		d.ID = s.newID()
	}
	if d.Goal == "" {
		d.Goal = domain.GoalClicks
	}
	d.Status = domain.DuelRunning
	d.WinnerID = ""
	d.CrownedAt = nil
	d.PromotedAt = nil
	if d.SignalIDs == nil {
		d.SignalIDs = []string{}
	}
	for i := range d.Variants {
		d.Variants[i].ID = s.newID()
		d.Variants[i].Label = domain.VariantLabel(i)
		d.Variants[i].Clicks = 0
		d.Variants[i].Leads = 0
	}
	now := s.now()
	d.CreatedAt = now
	d.UpdatedAt = now
	if err := s.duels.Create(ctx, &d); err != nil {
		return nil, fmt.Errorf("creating duel: %w", err)
	}
	return &d, nil
}

func (s *duelService) GetByID(ctx context.Context, id string) (*domain.Duel, error) {
	return s.duels.GetByID(ctx, id)
}

func (s *duelService) List(ctx context.Context) ([]*domain.Duel, error) {
	return s.duels.List(ctx)
}

func (s *duelService) RecordMetric(ctx context.Context, duelID, variantID string, clicks, leads int) (*domain.Duel, error) {
	d, err := s.duels.GetByID(ctx, duelID)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.DuelRunning {
		return nil, nil
	}
	v := d.VariantByID(variantID)
	if v == nil {
		return nil, fmt.Errorf("variant %q not found on duel %q", variantID, duelID)
	}
	v.Clicks += clicks
	v.Leads += leads
	d.UpdatedAt = s.now()
	if err := s.duels.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("recording duel metric: %w", err)
	}
	return d, nil
}

func (s *duelService) TogglePaused(ctx context.Context, id string) (*domain.Duel, error) {
	d, err := s.duels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	switch d.Status {
	case domain.DuelRunning:
		d.Status = domain.DuelPaused
	case domain.DuelPaused:
		d.Status = domain.DuelRunning
	default:
		return nil, nil
	}
	d.UpdatedAt = s.now()
	if err := s.duels.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("toggling duel: %w", err)
	}
	return d, nil
}

func (s *duelService) CrownWinner(ctx context.Context, id string) (*domain.Duel, error) {
	d, err := s.duels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.DuelRunning && d.Status != domain.DuelPaused {
		return nil, nil
	}
	if len(d.Variants) == 0 {
		return nil, nil
	}

	// First variant wins ties: iterate in declaration order and only a
	// strictly better score displaces the leader.
	best := 0
	for i := 1; i < len(d.Variants); i++ {
		if d.Variants[i].GoalValue(d.Goal) > d.Variants[best].GoalValue(d.Goal) {
			best = i
		}
	}

	now := s.now()
	d.Status = domain.DuelWinner
	d.WinnerID = d.Variants[best].ID
	d.CrownedAt = &now
	d.UpdatedAt = now
	if err := s.duels.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("crowning duel winner: %w", err)
	}
	notify.Emit(s.sink, notify.Event{
		Level:  notify.LevelSuccess,
		Title:  "Duel winner crowned",
		Detail: fmt.Sprintf("%s: variant %s", d.Name, d.Variants[best].Label),
	}, notify.Options{Toast: true})
	return d, nil
}

func (s *duelService) PromoteWinner(ctx context.Context, id string) (*domain.Duel, error) {
	d, err := s.duels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.DuelWinner || d.WinnerID == "" {
		return nil, nil
	}
	now := s.now()
	d.PromotedAt = &now
	d.UpdatedAt = now
	if err := s.duels.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("promoting duel winner: %w", err)
	}
	return d, nil
}

func (s *duelService) Duplicate(ctx context.Context, id string) (*domain.Duel, error) {
	src, err := s.duels.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	dup := domain.Duel{
		ID:        s.newID(),
		Name:      src.Name + " (copy)",
		Goal:      src.Goal,
		Variable:  src.Variable,
		Cohort:    src.Cohort,
		Channel:   src.Channel,
		Status:    domain.DuelRunning,
		SignalIDs: []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, v := range src.Variants {
		dup.Variants = append(dup.Variants, domain.Variant{
			ID:        s.newID(),
			Label:     domain.VariantLabel(i),
			Content:   v.Content,
			SmartLink: v.SmartLink,
		})
	}
	if err := s.duels.Create(ctx, &dup); err != nil {
		return nil, fmt.Errorf("duplicating duel: %w", err)
	}
	return &dup, nil
}

func (s *duelService) Archive(ctx context.Context, id string) error {
	d, err := s.duels.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.Status == domain.DuelArchived {
		return nil
	}
	d.Status = domain.DuelArchived
	d.UpdatedAt = s.now()
	if err := s.duels.Update(ctx, d); err != nil {
		return fmt.Errorf("archiving duel: %w", err)
	}
	return nil
}
