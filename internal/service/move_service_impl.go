package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/normalize"
	"github.com/warroomhq/warroom/internal/notify"
	"github.com/warroomhq/warroom/internal/quota"
	"github.com/warroomhq/warroom/internal/readiness"
	"github.com/warroomhq/warroom/internal/repository"
	"github.com/warroomhq/warroom/internal/sched"
)

type moveService struct {
	moves           repository.MoveRepo
	campaigns       repository.CampaignRepo
	cohorts         repository.CohortRepo
	strategies      repository.StrategyRepo
	campaignSvc     CampaignService
	governor        *quota.Governor
	sink            notify.Sink
	scheduler       sched.Scheduler
	generationDelay time.Duration
	observer        UseCaseObserver
	now             func() time.Time
	newID           func() string
}

func NewMoveService(
	moves repository.MoveRepo,
	campaigns repository.CampaignRepo,
	cohorts repository.CohortRepo,
	strategies repository.StrategyRepo,
	campaignSvc CampaignService,
	governor *quota.Governor,
	sink notify.Sink,
	scheduler sched.Scheduler,
	generationDelay time.Duration,
	observers ...UseCaseObserver,
) MoveService {
	return &moveService{
		moves:           moves,
		campaigns:       campaigns,
		cohorts:         cohorts,
		strategies:      strategies,
		campaignSvc:     campaignSvc,
		governor:        governor,
		sink:            sink,
		scheduler:       scheduler,
		generationDelay: generationDelay,
		observer:        useCaseObserverOrNoop(observers),
		now:             func() time.Time { return time.Now().UTC() },
		newID:           func() string { return uuid.New().String() },
	}
}

func (s *moveService) Create(ctx context.Context, m domain.Move) (*domain.Move, error) {
	m = normalize.Move(m)
	if m.ID == "" {
		m.ID = s.newID()
	}
	now := s.now()
	m.CreatedAt = now
	m.UpdatedAt = now
	if err := s.moves.Create(ctx, &m); err != nil {
		return nil, fmt.Errorf("creating move: %w", err)
	}
	return &m, nil
}

func (s *moveService) GetByID(ctx context.Context, id string) (*domain.Move, error) {
	return s.loadMove(ctx, id)
}

func (s *moveService) List(ctx context.Context) ([]*domain.Move, error) {
	return s.moves.List(ctx)
}

func (s *moveService) ListByCampaign(ctx context.Context, campaignID string) ([]*domain.Move, error) {
	return s.moves.ListByCampaign(ctx, campaignID)
}

func (s *moveService) Update(ctx context.Context, m domain.Move) (*domain.Move, error) {
	stored, err := s.moves.GetByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}
	m = normalize.Move(m)
	m.CreatedAt = stored.CreatedAt
	m.UpdatedAt = s.now()
	if err := s.moves.Update(ctx, &m); err != nil {
		return nil, fmt.Errorf("updating move: %w", err)
	}
	return &m, nil
}

func (s *moveService) AddTask(ctx context.Context, moveID string, task domain.MoveTask) (*domain.Move, error) {
	m, err := s.loadMove(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if task.ID == "" {
		task.ID = s.newID()
	}
	if task.Status == "" {
		task.Status = domain.TaskTodo
	}
	m.Tasks = append(m.Tasks, task)
	m.ClampTaskDays()
	m.UpdatedAt = s.now()
	if err := s.moves.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("adding move task: %w", err)
	}
	return m, nil
}

func (s *moveService) SetTaskStatus(ctx context.Context, moveID, taskID string, status domain.TaskStatus) (*domain.Move, error) {
	m, err := s.loadMove(ctx, moveID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range m.Tasks {
		if m.Tasks[i].ID == taskID {
			m.Tasks[i].Status = status
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("task %q not found on move %q", taskID, moveID)
	}
	m.UpdatedAt = s.now()
	if err := s.moves.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("updating move task: %w", err)
	}
	return m, nil
}

func (s *moveService) AddTrackingUpdate(ctx context.Context, moveID string, value float64) (*domain.Move, error) {
	m, err := s.loadMove(ctx, moveID)
	if err != nil {
		return nil, err
	}
	m.Tracking.Updates = append(m.Tracking.Updates, domain.TrackingUpdate{Value: value, At: s.now()})
	m.UpdatedAt = s.now()
	if err := s.moves.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("recording tracking update: %w", err)
	}

	// The tracking write is committed; a rollup failure downstream must not
	// undo it. Report and move on.
	metric := strings.ToLower(strings.TrimSpace(m.Tracking.Metric))
	if m.CampaignID != "" && domain.AggregatableMetrics[metric] {
		if _, rollupErr := s.campaignSvc.ApplyKPIRollup(ctx, m.CampaignID); rollupErr != nil {
			notify.Emit(s.sink, notify.Event{
				Level:  notify.LevelError,
				Title:  "Campaign KPI rollup failed",
				Detail: rollupErr.Error(),
			}, notify.Options{})
		}
	}
	return m, nil
}

func (s *moveService) Readiness(ctx context.Context, moveID string) (readiness.Readiness, error) {
	m, err := s.loadMove(ctx, moveID)
	if err != nil {
		return readiness.Readiness{}, err
	}
	return s.evaluate(ctx, m)
}

func (s *moveService) FixReadiness(ctx context.Context, moveID, gateID string) (readiness.Readiness, error) {
	m, err := s.loadMove(ctx, moveID)
	if err != nil {
		return readiness.Readiness{}, err
	}
	current, err := s.evaluate(ctx, m)
	if err != nil {
		return readiness.Readiness{}, err
	}
	gate := current.GateByID(gateID)
	if gate == nil {
		return readiness.Readiness{}, fmt.Errorf("unknown readiness gate %q", gateID)
	}
	if gate.OK {
		return current, nil
	}

	switch gateID {
	case readiness.GateObjective:
		m.Objective = readiness.DefaultObjective
		err = s.saveMove(ctx, m)
	case readiness.GateCohort:
		var cohorts []*domain.Cohort
		cohorts, err = s.cohorts.List(ctx)
		if err != nil {
			return readiness.Readiness{}, fmt.Errorf("listing cohorts: %w", err)
		}
		if len(cohorts) > 0 {
			m.Cohort = cohorts[0].ID
			err = s.saveMove(ctx, m)
		}
	case readiness.GateChannel:
		m.Channel = readiness.DefaultChannel
		err = s.saveMove(ctx, m)
	case readiness.GateMetric:
		m.Tracking.Metric = readiness.DefaultMetric
		err = s.saveMove(ctx, m)
	case readiness.GateStrategyLocked:
		err = s.lockCurrentStrategy(ctx)
	case readiness.GateProof:
		err = s.addPlaceholderProof(ctx)
	}
	if err != nil {
		return readiness.Readiness{}, err
	}
	return s.evaluate(ctx, m)
}

func (s *moveService) StartGeneration(ctx context.Context, moveID string) (res GenerationResult, err error) {
	startedAt := s.now()
	fields := map[string]any{"move_id": moveID}
	defer func() {
		fields["ok"] = res.OK
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "start-generation",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	m, err := s.loadMove(ctx, moveID)
	if err != nil {
		return GenerationResult{}, err
	}

	rd, err := s.evaluate(ctx, m)
	if err != nil {
		return GenerationResult{}, err
	}
	res = GenerationResult{Readiness: rd, Move: m}
	if !rd.Ready {
		return res, nil
	}
	if m.Status != domain.MovePending {
		return res, nil
	}

	ok, err := s.governor.Consume(ctx, quota.FeatureGeneration)
	if err != nil {
		return GenerationResult{}, err
	}
	if !ok {
		res.QuotaDenied = true
		notify.Emit(s.sink, notify.Event{
			Level:  notify.LevelWarn,
			Title:  "Generation quota reached",
			Detail: fmt.Sprintf("Plan %q is out of generations this month", s.governor.Plan().Key),
		}, notify.Options{Toast: true})
		return res, nil
	}

	now := s.now()
	m.Status = domain.MoveGenerating
	m.Generation.Status = domain.GenerationRunning
	m.Generation.StartedAt = &now
	m.Generation.CompletedAt = nil
	m.UpdatedAt = now
	if err = s.moves.Update(ctx, m); err != nil {
		return GenerationResult{}, fmt.Errorf("starting move generation: %w", err)
	}

	s.scheduler.Schedule(s.generationDelay, func() {
		s.finishGeneration(moveID)
	})

	notify.Emit(s.sink, notify.Event{
		Level:  notify.LevelInfo,
		Title:  "Move generation started",
		Detail: m.Objective,
	}, notify.Options{})

	res.OK = true
	res.Move = m
	return res, nil
}

// finishGeneration is the deferred half of StartGeneration. It re-reads the
// move and only activates it if it is still generating: a move that was
// edited, completed or re-created in the meantime is left alone.
func (s *moveService) finishGeneration(moveID string) {
	ctx := context.Background()
	m, err := s.loadMove(ctx, moveID)
	if err != nil {
		notify.Emit(s.sink, notify.Event{
			Level:  notify.LevelError,
			Title:  "Move generation failed",
			Detail: err.Error(),
		}, notify.Options{})
		return
	}
	if m.Status != domain.MoveGenerating {
		return
	}

	now := s.now()
	if len(m.Tasks) == 0 {
		m.Tasks = s.generatedTasks(m)
	}
	m.Status = domain.MoveActive
	m.Generation.Status = domain.GenerationDone
	m.Generation.CompletedAt = &now
	if m.Plan.StartDate == nil {
		m.Plan.StartDate = &now
	}
	if m.Plan.EndDate == nil {
		end := m.Plan.StartDate.AddDate(0, 0, m.Plan.DurationDays)
		m.Plan.EndDate = &end
	}
	m.ClampTaskDays()
	m.UpdatedAt = now
	if err := s.moves.Update(ctx, m); err != nil {
		notify.Emit(s.sink, notify.Event{
			Level:  notify.LevelError,
			Title:  "Move generation failed",
			Detail: err.Error(),
		}, notify.Options{})
		return
	}

	notify.Emit(s.sink, notify.Event{
		Level:  notify.LevelSuccess,
		Title:  "Move activated",
		Detail: m.Objective,
	}, notify.Options{Toast: true})
}

// generatedTasks produces the default day-indexed task plan for a move that
// arrived without one. Days spread across the plan window front-to-back.
func (s *moveService) generatedTasks(m *domain.Move) []domain.MoveTask {
	texts := []string{
		"Draft content for " + m.Channel,
		"Review against brand rules",
		"Publish and share with " + m.Cohort,
		"Engage replies and follow up",
		"Log " + m.Tracking.Metric + " results",
	}
	duration := m.Plan.DurationDays
	if duration < 1 {
		duration = 1
	}
	tasks := make([]domain.MoveTask, 0, len(texts))
	for i, text := range texts {
		day := 1 + i*duration/len(texts)
		tasks = append(tasks, domain.MoveTask{
			ID:     s.newID(),
			Text:   text,
			Day:    day,
			Status: domain.TaskTodo,
		})
	}
	return tasks
}

func (s *moveService) Complete(ctx context.Context, moveID, outcome, learning string) (*domain.Move, error) {
	m, err := s.loadMove(ctx, moveID)
	if err != nil {
		return nil, err
	}
	if m.Status != domain.MoveActive {
		return nil, nil
	}
	now := s.now()
	m.Status = domain.MoveCompleted
	m.Result = domain.MoveResult{Outcome: outcome, Learning: learning, CompletedAt: &now}
	m.UpdatedAt = now
	if err := s.moves.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("completing move: %w", err)
	}
	notify.Emit(s.sink, notify.Event{
		Level:  notify.LevelSuccess,
		Title:  "Move completed",
		Detail: outcome,
	}, notify.Options{Toast: true})
	return m, nil
}

func (s *moveService) loadMove(ctx context.Context, id string) (*domain.Move, error) {
	m, err := s.moves.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	normalized := normalize.Move(*m)
	return &normalized, nil
}

func (s *moveService) saveMove(ctx context.Context, m *domain.Move) error {
	m.UpdatedAt = s.now()
	if err := s.moves.Update(ctx, m); err != nil {
		return fmt.Errorf("updating move: %w", err)
	}
	return nil
}

// evaluate assembles the readiness input. The campaign reference is weak: a
// dangling campaign id evaluates the same as no campaign.
func (s *moveService) evaluate(ctx context.Context, m *domain.Move) (readiness.Readiness, error) {
	var campaign *domain.Campaign
	if m.CampaignID != "" {
		c, err := s.campaigns.GetByID(ctx, m.CampaignID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return readiness.Readiness{}, err
		}
		campaign = c
	}
	strategy, err := s.strategies.Current(ctx)
	if err != nil {
		return readiness.Readiness{}, fmt.Errorf("loading current strategy: %w", err)
	}
	return readiness.Evaluate(readiness.Input{Move: m, Campaign: campaign, Strategy: strategy}), nil
}

func (s *moveService) lockCurrentStrategy(ctx context.Context) error {
	v, err := s.strategies.Current(ctx)
	if err != nil {
		return fmt.Errorf("loading current strategy: %w", err)
	}
	now := s.now()
	if v == nil {
		v = &domain.StrategyVersion{
			ID:            s.newID(),
			VersionNumber: 1,
			Status:        domain.StrategyLocked,
			LockedAt:      &now,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.strategies.Create(ctx, v); err != nil {
			return fmt.Errorf("creating strategy version: %w", err)
		}
		return s.strategies.SetCurrent(ctx, v.ID)
	}
	if v.Locked() {
		return nil
	}
	v.Status = domain.StrategyLocked
	v.LockedAt = &now
	v.UpdatedAt = now
	if err := s.strategies.Update(ctx, v); err != nil {
		return fmt.Errorf("locking strategy: %w", err)
	}
	return nil
}

// addPlaceholderProof gives the proof gate something to pass on. A locked
// version stays immutable: the proof lands on a fresh locked revision and the
// pointer moves with it.
func (s *moveService) addPlaceholderProof(ctx context.Context) error {
	v, err := s.strategies.Current(ctx)
	if err != nil {
		return fmt.Errorf("loading current strategy: %w", err)
	}
	now := s.now()
	proof := domain.ProofItem{
		ID:    s.newID(),
		Label: "Placeholder proof (replace with real evidence)",
	}

	if v == nil {
		v = &domain.StrategyVersion{
			ID:            s.newID(),
			VersionNumber: 1,
			Status:        domain.StrategyDraft,
			Payload:       domain.StrategyPayload{ProofInventory: []domain.ProofItem{proof}},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := s.strategies.Create(ctx, v); err != nil {
			return fmt.Errorf("creating strategy version: %w", err)
		}
		return s.strategies.SetCurrent(ctx, v.ID)
	}

	if !v.Locked() {
		v.Payload.ProofInventory = append(v.Payload.ProofInventory, proof)
		v.UpdatedAt = now
		if err := s.strategies.Update(ctx, v); err != nil {
			return fmt.Errorf("updating strategy proof inventory: %w", err)
		}
		return nil
	}

	maxVersion, err := s.strategies.MaxVersionNumber(ctx)
	if err != nil {
		return fmt.Errorf("finding latest strategy version: %w", err)
	}
	next := &domain.StrategyVersion{
		ID:            s.newID(),
		VersionNumber: maxVersion + 1,
		Status:        domain.StrategyLocked,
		LockedAt:      &now,
		Payload:       v.Payload,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	next.Payload.ProofInventory = append(append([]domain.ProofItem{}, v.Payload.ProofInventory...), proof)
	if err := s.strategies.Create(ctx, next); err != nil {
		return fmt.Errorf("creating strategy revision: %w", err)
	}
	return s.strategies.SetCurrent(ctx, next.ID)
}
