package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warroomhq/warroom/internal/domain"
)

func TestCampaign_FillsDefaults(t *testing.T) {
	c := Campaign(domain.Campaign{Name: "Launch", Objective: "grow pipeline"})

	assert.Equal(t, domain.CampaignDraft, c.Status)
	assert.NotNil(t, c.CohortIDs)
	assert.NotNil(t, c.ChannelIDs)
	assert.Equal(t, "primary", c.KPIs.Primary.Name)
	assert.Equal(t, "reach", c.KPIs.Reach.Name)
	assert.Equal(t, "grow pipeline", c.Blueprint.Objective)
	assert.Equal(t, "primary", c.Blueprint.PrimaryKPI)
	assert.NotNil(t, c.Blueprint.Phases)
	assert.NotNil(t, c.Blueprint.KPITree.HealthRules)
	assert.NotNil(t, c.Timeline.Weeks)
}

func TestCampaign_MirrorsKPITreeCurrents(t *testing.T) {
	in := domain.Campaign{Name: "Launch"}
	in.KPIs.Reach = domain.KPI{Name: "reach", Baseline: 10, Target: 1000, Current: 420}

	c := Campaign(in)

	assert.Equal(t, 420.0, c.Blueprint.KPITree.Stages.Reach.Current,
		"tree current mirrors the KPI block")
	assert.Equal(t, 1000.0, c.Blueprint.KPITree.Stages.Reach.Target)
}

func TestCampaign_Idempotent(t *testing.T) {
	in := domain.Campaign{Name: "Launch", Objective: "grow"}
	in.KPIs.Click = domain.KPI{Name: "click", Target: 50, Current: 12}

	once := Campaign(in)
	twice := Campaign(once)

	assert.Equal(t, once, twice)
}

func TestMove_FillsDefaults(t *testing.T) {
	m := Move(domain.Move{})

	assert.Equal(t, domain.MovePending, m.Status)
	assert.Equal(t, DefaultMoveDurationDays, m.Plan.DurationDays)
	assert.NotNil(t, m.Tasks)
	assert.Equal(t, domain.GenerationIdle, m.Generation.Status)
	assert.NotNil(t, m.Tracking.Updates)
}

func TestMove_DoesNotInventReadinessFields(t *testing.T) {
	m := Move(domain.Move{})

	assert.Empty(t, m.Cohort, "cohort absence must stay visible to readiness gates")
	assert.Empty(t, m.Channel)
	assert.Empty(t, m.Tracking.Metric)
}

func TestMove_ClampsTaskDays(t *testing.T) {
	m := Move(domain.Move{
		Plan:  domain.MovePlan{DurationDays: 5},
		Tasks: []domain.MoveTask{{ID: "t1", Day: 12}, {ID: "t2"}},
	})

	assert.Equal(t, 5, m.Tasks[0].Day)
	assert.Equal(t, 1, m.Tasks[1].Day)
	assert.Equal(t, domain.TaskTodo, m.Tasks[1].Status)
}

func TestMove_Idempotent(t *testing.T) {
	in := domain.Move{
		Cohort:  "founders",
		Channel: "linkedin",
		Plan:    domain.MovePlan{DurationDays: 14},
		Tasks:   []domain.MoveTask{{ID: "t1", Day: 3, Status: domain.TaskDone}},
	}
	once := Move(in)
	twice := Move(once)
	assert.Equal(t, once, twice)
}

func TestPipelineItem_FillsDefaults(t *testing.T) {
	p := PipelineItem(domain.PipelineItem{Title: "hero video"})

	assert.Equal(t, domain.PipelineBacklog, p.Execution.Status)
	assert.Equal(t, domain.ApprovalNotRequested, p.Approvals.State)
	assert.NotNil(t, p.Inputs.AssetRefs)
	assert.NotNil(t, p.MetricsHook.Events)
	assert.Nil(t, p.Receipt, "no receipt until shipped")
}

func TestPipelineItem_Idempotent(t *testing.T) {
	once := PipelineItem(domain.PipelineItem{Title: "hero video"})
	twice := PipelineItem(once)
	assert.Equal(t, once, twice)
}
