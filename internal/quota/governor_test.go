package quota

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warroomhq/warroom/internal/domain"
)

type memUsageStore struct {
	counters domain.UsageCounters
	getErr   error
	putErr   error
}

func (m *memUsageStore) Get(context.Context) (domain.UsageCounters, error) {
	return m.counters, m.getErr
}

func (m *memUsageStore) Put(_ context.Context, u domain.UsageCounters) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.counters = u
	return nil
}

func TestGovernor_StarterRadarScanLimit(t *testing.T) {
	ctx := context.Background()
	store := &memUsageStore{}
	gov := NewGovernor(PlanByKey("starter"), store)

	for i := 0; i < 3; i++ {
		ok, err := gov.Consume(ctx, FeatureRadarScan)
		require.NoError(t, err)
		assert.True(t, ok, "scan %d should be allowed", i+1)
	}

	ok, err := gov.Consume(ctx, FeatureRadarScan)
	require.NoError(t, err)
	assert.False(t, ok, "4th scan exceeds starter limit of 3")
	assert.Equal(t, 3, store.counters.RadarScansToday, "denied call must not increment")
}

func TestGovernor_DenialDoesNotMutate(t *testing.T) {
	ctx := context.Background()
	store := &memUsageStore{counters: domain.UsageCounters{DuelsThisMonth: 2}}
	gov := NewGovernor(PlanByKey("starter"), store)

	ok, err := gov.Consume(ctx, FeatureDuel)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, store.counters.DuelsThisMonth)
}

func TestGovernor_CanUseIsPure(t *testing.T) {
	ctx := context.Background()
	store := &memUsageStore{}
	gov := NewGovernor(PlanByKey("starter"), store)

	ok, err := gov.CanUse(ctx, FeatureGeneration)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, store.counters.GenerationsThisMonth, "CanUse must not consume")
}

func TestGovernor_ResetDaily(t *testing.T) {
	ctx := context.Background()
	store := &memUsageStore{counters: domain.UsageCounters{
		RadarScansToday: 3,
		DuelsThisMonth:  1,
	}}
	gov := NewGovernor(PlanByKey("starter"), store)

	require.NoError(t, gov.ResetDaily(ctx))
	assert.Zero(t, store.counters.RadarScansToday)
	assert.Equal(t, 1, store.counters.DuelsThisMonth, "monthly counters survive a daily reset")
	assert.False(t, store.counters.LastReset.IsZero())
}

func TestGovernor_ResetMonthly(t *testing.T) {
	ctx := context.Background()
	store := &memUsageStore{counters: domain.UsageCounters{
		RadarScansToday:      2,
		DuelsThisMonth:       2,
		GenerationsThisMonth: 9,
	}}
	gov := NewGovernor(PlanByKey("starter"), store)

	require.NoError(t, gov.ResetMonthly(ctx))
	assert.Equal(t, 2, store.counters.RadarScansToday, "daily counter survives a monthly reset")
	assert.Zero(t, store.counters.DuelsThisMonth)
	assert.Zero(t, store.counters.GenerationsThisMonth)
}

func TestGovernor_StoreFailureSurfaces(t *testing.T) {
	ctx := context.Background()
	store := &memUsageStore{getErr: errors.New("disk gone")}
	gov := NewGovernor(PlanByKey("starter"), store)

	_, err := gov.Consume(ctx, FeatureRadarScan)
	assert.Error(t, err)
}

func TestPlanByKey_UnknownFallsBackToStarter(t *testing.T) {
	p := PlanByKey("enterprise-legacy")
	assert.Equal(t, "starter", p.Key)
}

func TestAllowed_UnknownFeature(t *testing.T) {
	assert.False(t, Allowed("teleport", domain.UsageCounters{}, PlanByKey("scale").Limits))
}
