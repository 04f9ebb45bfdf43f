package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/normalize"
	"github.com/warroomhq/warroom/internal/notify"
	"github.com/warroomhq/warroom/internal/repository"
)

type pipelineService struct {
	items repository.PipelineRepo
	sink  notify.Sink
	now   func() time.Time
	newID func() string
}

func NewPipelineService(items repository.PipelineRepo, sink notify.Sink) PipelineService {
	return &pipelineService{
		items: items,
		sink:  sink,
		now:   func() time.Time { return time.Now().UTC() },
		newID: func() string { return uuid.New().String() },
	}
}

func (s *pipelineService) Create(ctx context.Context, p domain.PipelineItem) (*domain.PipelineItem, error) {
	p = normalize.PipelineItem(p)
	if p.ID == "" {
		p.ID = s.newID()
	}
	now := s.now()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.items.Create(ctx, &p); err != nil {
		return nil, fmt.Errorf("creating pipeline item: %w", err)
	}
	return &p, nil
}

func (s *pipelineService) GetByID(ctx context.Context, id string) (*domain.PipelineItem, error) {
	return s.loadItem(ctx, id)
}

func (s *pipelineService) List(ctx context.Context) ([]*domain.PipelineItem, error) {
	return s.items.List(ctx)
}

func (s *pipelineService) ListByStatus(ctx context.Context, status domain.PipelineStatus) ([]*domain.PipelineItem, error) {
	return s.items.ListByStatus(ctx, status)
}

func (s *pipelineService) Assign(ctx context.Context, id, ownerID, reviewerID, approverID string) (*domain.PipelineItem, error) {
	p, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if ownerID != "" {
		p.Execution.OwnerID = ownerID
	}
	if reviewerID != "" {
		p.Execution.ReviewerID = reviewerID
	}
	if approverID != "" {
		p.Execution.ApproverID = approverID
	}
	if p.Execution.Status == domain.PipelineBacklog && p.Execution.OwnerID != "" {
		p.Execution.Status = domain.PipelineInProduction
	}
	if err := s.saveItem(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pipelineService) RequestApproval(ctx context.Context, id string, required bool) (*domain.PipelineItem, error) {
	p, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Approvals.Required = required
	if !required {
		p.Approvals.State = domain.ApprovalNotRequired
	} else {
		now := s.now()
		p.Approvals.State = domain.ApprovalPending
		p.Approvals.RequestedAt = &now
		p.Execution.Status = domain.PipelineApproval
	}
	if err := s.saveItem(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pipelineService) Approve(ctx context.Context, id, approverID string) (*domain.PipelineItem, error) {
	p, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Approvals.State != domain.ApprovalPending {
		return nil, nil
	}
	now := s.now()
	p.Approvals.State = domain.ApprovalApproved
	p.Approvals.ApprovedAt = &now
	p.Approvals.ApprovedBy = approverID
	if p.Execution.Status == domain.PipelineApproval {
		p.Execution.Status = domain.PipelineInProduction
	}
	if err := s.saveItem(ctx, p); err != nil {
		return nil, err
	}
	notify.Emit(s.sink, notify.Event{
		Level:  notify.LevelSuccess,
		Title:  "Pipeline item approved",
		Detail: p.Title,
	}, notify.Options{})
	return p, nil
}

func (s *pipelineService) Reject(ctx context.Context, id string) (*domain.PipelineItem, error) {
	p, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Approvals.State != domain.ApprovalPending {
		return nil, nil
	}
	p.Approvals.State = domain.ApprovalRejected
	p.Execution.Status = domain.PipelineBlocked
	if err := s.saveItem(ctx, p); err != nil {
		return nil, err
	}
	notify.Emit(s.sink, notify.Event{
		Level:  notify.LevelWarn,
		Title:  "Pipeline item rejected",
		Detail: p.Title,
	}, notify.Options{Toast: true})
	return p, nil
}

func (s *pipelineService) Schedule(ctx context.Context, id string, scheduledFor *time.Time) (*domain.PipelineItem, error) {
	p, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Execution.ScheduledFor = scheduledFor
	if scheduledFor != nil {
		p.Execution.Status = domain.PipelineScheduled
	}
	if err := s.saveItem(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pipelineService) MarkShipped(ctx context.Context, id string, receipt domain.Receipt) (*domain.PipelineItem, error) {
	p, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}

	// No ship without proof: an incomplete receipt blocks the item and
	// records nothing, so a shipped item always carries its receipt.
	if receipt.Type == "" || receipt.Value == "" {
		p.Execution.Status = domain.PipelineBlocked
		if err := s.saveItem(ctx, p); err != nil {
			return nil, err
		}
		notify.Emit(s.sink, notify.Event{
			Level:  notify.LevelWarn,
			Title:  "Ship blocked: missing receipt",
			Detail: p.Title,
		}, notify.Options{Toast: true})
		return p, nil
	}

	now := s.now()
	receipt.SubmittedAt = now
	p.Receipt = &receipt
	p.Execution.Status = domain.PipelineShipped
	p.Execution.ShippedAt = &now
	if err := s.saveItem(ctx, p); err != nil {
		return nil, err
	}
	notify.Emit(s.sink, notify.Event{
		Level:  notify.LevelSuccess,
		Title:  "Shipped",
		Detail: p.Title,
		Href:   receipt.Value,
	}, notify.Options{Toast: true})
	return p, nil
}

func (s *pipelineService) LogResult(ctx context.Context, id string, event domain.MetricEvent, primaryMetric string) (*domain.PipelineItem, error) {
	p, err := s.loadItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.At.IsZero() {
		event.At = s.now()
	}
	if primaryMetric != "" {
		p.MetricsHook.PrimaryMetric = primaryMetric
	}
	p.MetricsHook.Events = append(p.MetricsHook.Events, event)
	// Results accrue after shipping; logging them never re-opens the
	// execution workflow.
	if err := s.saveItem(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *pipelineService) loadItem(ctx context.Context, id string) (*domain.PipelineItem, error) {
	p, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	normalized := normalize.PipelineItem(*p)
	return &normalized, nil
}

func (s *pipelineService) saveItem(ctx context.Context, p *domain.PipelineItem) error {
	p.UpdatedAt = s.now()
	if err := s.items.Update(ctx, p); err != nil {
		return fmt.Errorf("updating pipeline item: %w", err)
	}
	return nil
}
