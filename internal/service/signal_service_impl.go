package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/notify"
	"github.com/warroomhq/warroom/internal/repository"
)

type signalService struct {
	signals repository.SignalRepo
	duels   repository.DuelRepo
	moves   repository.MoveRepo
	sink    notify.Sink
	now     func() time.Time
	newID   func() string
}

func NewSignalService(
	signals repository.SignalRepo,
	duels repository.DuelRepo,
	moves repository.MoveRepo,
	sink notify.Sink,
) SignalService {
	return &signalService{
		signals: signals,
		duels:   duels,
		moves:   moves,
		sink:    sink,
		now:     func() time.Time { return time.Now().UTC() },
		newID:   func() string { return uuid.New().String() },
	}
}

func (s *signalService) Create(ctx context.Context, sig domain.Signal) (*domain.Signal, error) {
	if sig.ID == "" {
		sig.ID = s.newID()
	}
	if sig.Status == "" {
		sig.Status = domain.SignalTriage
	}
	if sig.Linked.DuelIDs == nil {
		sig.Linked.DuelIDs = []string{}
	}
	if sig.Linked.MoveIDs == nil {
		sig.Linked.MoveIDs = []string{}
	}
	if sig.EvidenceRefs == nil {
		sig.EvidenceRefs = []domain.EvidenceRef{}
	}
	now := s.now()
	sig.CreatedAt = now
	sig.UpdatedAt = now
	if err := s.signals.Create(ctx, &sig); err != nil {
		return nil, fmt.Errorf("creating signal: %w", err)
	}
	return &sig, nil
}

func (s *signalService) GetByID(ctx context.Context, id string) (*domain.Signal, error) {
	return s.signals.GetByID(ctx, id)
}

func (s *signalService) List(ctx context.Context) ([]*domain.Signal, error) {
	return s.signals.List(ctx)
}

func (s *signalService) Update(ctx context.Context, sig domain.Signal) (*domain.Signal, error) {
	stored, err := s.signals.GetByID(ctx, sig.ID)
	if err != nil {
		return nil, err
	}
	sig.CreatedAt = stored.CreatedAt
	sig.UpdatedAt = s.now()
	if err := s.signals.Update(ctx, &sig); err != nil {
		return nil, fmt.Errorf("updating signal: %w", err)
	}
	return &sig, nil
}

func (s *signalService) LinkToDuel(ctx context.Context, signalID, duelID string) (*domain.Signal, error) {
	sig, err := s.signals.GetByID(ctx, signalID)
	if err != nil {
		return nil, err
	}
	d, err := s.duels.GetByID(ctx, duelID)
	if err != nil {
		return nil, err
	}

	changed := false
	if !containsString(sig.Linked.DuelIDs, duelID) {
		sig.Linked.DuelIDs = append(sig.Linked.DuelIDs, duelID)
		changed = true
	}
	ref := domain.EvidenceRef{Type: "duel", ID: duelID, Label: d.Name}
	if !sig.HasEvidence(ref) {
		sig.EvidenceRefs = append(sig.EvidenceRefs, ref)
		changed = true
	}
	if sig.Status == domain.SignalTriage && !sig.Terminal() {
		sig.Status = domain.SignalInTest
		changed = true
		notify.Emit(s.sink, notify.Event{
			Level:  notify.LevelInfo,
			Title:  "Signal moved to in_test",
			Detail: sig.Title,
		}, notify.Options{})
	}
	if changed {
		sig.UpdatedAt = s.now()
		if err := s.signals.Update(ctx, sig); err != nil {
			return nil, fmt.Errorf("linking signal to duel: %w", err)
		}
	}

	if !containsString(d.SignalIDs, signalID) {
		d.SignalIDs = append(d.SignalIDs, signalID)
		d.UpdatedAt = s.now()
		if err := s.duels.Update(ctx, d); err != nil {
			return nil, fmt.Errorf("back-referencing signal on duel: %w", err)
		}
	}
	return sig, nil
}

func (s *signalService) LinkToMove(ctx context.Context, signalID, moveID string) (*domain.Signal, error) {
	sig, err := s.signals.GetByID(ctx, signalID)
	if err != nil {
		return nil, err
	}
	m, err := s.moves.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}

	changed := false
	if !containsString(sig.Linked.MoveIDs, moveID) {
		sig.Linked.MoveIDs = append(sig.Linked.MoveIDs, moveID)
		changed = true
	}
	ref := domain.EvidenceRef{Type: "move", ID: moveID, Label: m.Objective}
	if !sig.HasEvidence(ref) {
		sig.EvidenceRefs = append(sig.EvidenceRefs, ref)
		changed = true
	}
	if changed {
		sig.UpdatedAt = s.now()
		if err := s.signals.Update(ctx, sig); err != nil {
			return nil, fmt.Errorf("linking signal to move: %w", err)
		}
	}
	return sig, nil
}

func (s *signalService) Resolve(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.SignalResolved)
}

func (s *signalService) Archive(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, domain.SignalArchived)
}

func (s *signalService) setStatus(ctx context.Context, id string, status domain.SignalStatus) error {
	sig, err := s.signals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sig.Status == status {
		return nil
	}
	sig.Status = status
	sig.UpdatedAt = s.now()
	if err := s.signals.Update(ctx, sig); err != nil {
		return fmt.Errorf("updating signal status: %w", err)
	}
	return nil
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
