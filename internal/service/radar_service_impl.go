package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/warroomhq/warroom/internal/domain"
	"github.com/warroomhq/warroom/internal/notify"
	"github.com/warroomhq/warroom/internal/quota"
	"github.com/warroomhq/warroom/internal/repository"
)

type radarService struct {
	cohorts  repository.CohortRepo
	governor *quota.Governor
	sink     notify.Sink
	observer UseCaseObserver
	now      func() time.Time
}

func NewRadarService(
	cohorts repository.CohortRepo,
	governor *quota.Governor,
	sink notify.Sink,
	observers ...UseCaseObserver,
) RadarService {
	return &radarService{
		cohorts:  cohorts,
		governor: governor,
		sink:     sink,
		observer: useCaseObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// fitRank orders recommendations: recommended first, notfit last.
var fitRank = map[domain.ChannelFitLevel]int{
	domain.FitRecommended: 0,
	domain.FitRisky:       1,
	domain.FitNotFit:      2,
}

func (s *radarService) RunScan(ctx context.Context, cohortID string) (res *RadarScanResult, err error) {
	startedAt := s.now()
	defer func() {
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "radar-scan",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    map[string]any{"cohort_id": cohortID, "allowed": res != nil},
		})
	}()

	cohort, err := s.cohorts.GetByID(ctx, cohortID)
	if err != nil {
		return nil, err
	}

	ok, err := s.governor.Consume(ctx, quota.FeatureRadarScan)
	if err != nil {
		return nil, err
	}
	if !ok {
		notify.Emit(s.sink, notify.Event{
			Level:  notify.LevelWarn,
			Title:  "Radar scan quota reached",
			Detail: fmt.Sprintf("Plan %q is out of scans today", s.governor.Plan().Key),
		}, notify.Options{Toast: true})
		return nil, nil
	}

	recs := make([]ChannelRecommendation, 0, len(cohort.ChannelFit))
	for channel, fit := range cohort.ChannelFit {
		recs = append(recs, ChannelRecommendation{Channel: channel, Fit: fit})
	}
	sort.Slice(recs, func(i, j int) bool {
		if fitRank[recs[i].Fit] != fitRank[recs[j].Fit] {
			return fitRank[recs[i].Fit] < fitRank[recs[j].Fit]
		}
		return recs[i].Channel < recs[j].Channel
	})

	return &RadarScanResult{
		CohortID:        cohortID,
		GeneratedAt:     s.now(),
		Recommendations: recs,
	}, nil
}
