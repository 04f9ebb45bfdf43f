package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warroomhq/warroom/internal/db"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/repository"
)

type strategyService struct {
	strategies repository.StrategyRepo
	uow        db.UnitOfWork
	now        func() time.Time
	newID      func() string
}

func NewStrategyService(strategies repository.StrategyRepo, uow db.UnitOfWork) StrategyService {
	return &strategyService{
		strategies: strategies,
		uow:        uow,
		now:        func() time.Time { return time.Now().UTC() },
		newID:      func() string { return uuid.New().String() },
	}
}

func (s *strategyService) CreateDraft(ctx context.Context) (*domain.StrategyVersion, error) {
	var payload domain.StrategyPayload
	current, err := s.strategies.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading current strategy: %w", err)
	}
	if current != nil {
		payload = current.Payload
	}

	maxVersion, err := s.strategies.MaxVersionNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding latest strategy version: %w", err)
	}

	now := s.now()
	draft := &domain.StrategyVersion{
		ID:            s.newID(),
		VersionNumber: maxVersion + 1,
		Status:        domain.StrategyDraft,
		Payload:       payload,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	// Creating the version and moving the current pointer must land together.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txStrategies := repository.NewSQLiteStrategyRepo(tx)
		if err := txStrategies.Create(ctx, draft); err != nil {
			return fmt.Errorf("creating strategy draft: %w", err)
		}
		return txStrategies.SetCurrent(ctx, draft.ID)
	})
	if err != nil {
		return nil, err
	}
	return draft, nil
}

func (s *strategyService) UpdateDraft(ctx context.Context, id string, payload domain.StrategyPayload) (*domain.StrategyVersion, error) {
	v, err := s.strategies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Locked() {
		return nil, nil
	}
	v.Payload = payload
	v.UpdatedAt = s.now()
	if err := s.strategies.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("updating strategy draft: %w", err)
	}
	return v, nil
}

func (s *strategyService) Lock(ctx context.Context) (*domain.StrategyVersion, error) {
	v, err := s.strategies.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading current strategy: %w", err)
	}
	if v == nil {
		return nil, nil
	}
	if v.Locked() {
		return v, nil
	}
	now := s.now()
	v.Status = domain.StrategyLocked
	v.LockedAt = &now
	v.UpdatedAt = now
	if err := s.strategies.Update(ctx, v); err != nil {
		return nil, fmt.Errorf("locking strategy: %w", err)
	}
	return v, nil
}

func (s *strategyService) Current(ctx context.Context) (*domain.StrategyVersion, error) {
	return s.strategies.Current(ctx)
}

func (s *strategyService) GetByID(ctx context.Context, id string) (*domain.StrategyVersion, error) {
	return s.strategies.GetByID(ctx, id)
}

func (s *strategyService) List(ctx context.Context) ([]*domain.StrategyVersion, error) {
	return s.strategies.List(ctx)
}
