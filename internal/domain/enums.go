package domain

type StrategyStatus string

const (
	StrategyDraft  StrategyStatus = "draft"
	StrategyLocked StrategyStatus = "locked"
)

type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignActive    CampaignStatus = "active"
	CampaignPaused    CampaignStatus = "paused"
	CampaignCompleted CampaignStatus = "completed"
	CampaignArchived  CampaignStatus = "archived"
)

type MoveStatus string

const (
	MovePending    MoveStatus = "pending"
	MoveGenerating MoveStatus = "generating"
	MoveActive     MoveStatus = "active"
	MoveCompleted  MoveStatus = "completed"
)

type TaskStatus string

const (
	TaskTodo TaskStatus = "todo"
	TaskDone TaskStatus = "done"
)

type GenerationStatus string

const (
	GenerationIdle    GenerationStatus = "idle"
	GenerationRunning GenerationStatus = "running"
	GenerationDone    GenerationStatus = "done"
)

type PipelineStatus string

const (
	PipelineBacklog      PipelineStatus = "backlog"
	PipelineInProduction PipelineStatus = "in_production"
	PipelineReview       PipelineStatus = "review"
	PipelineApproval     PipelineStatus = "approval"
	PipelineScheduled    PipelineStatus = "scheduled"
	PipelineShipped      PipelineStatus = "shipped"
	PipelineBlocked      PipelineStatus = "blocked"
)

type ApprovalState string

const (
	ApprovalNotRequested ApprovalState = "not_requested"
	ApprovalNotRequired  ApprovalState = "not_required"
	ApprovalPending      ApprovalState = "pending"
	ApprovalApproved     ApprovalState = "approved"
	ApprovalRejected     ApprovalState = "rejected"
)

type DuelStatus string

const (
	DuelRunning  DuelStatus = "running"
	DuelPaused   DuelStatus = "paused"
	DuelWinner   DuelStatus = "winner"
	DuelArchived DuelStatus = "archived"
)

type DuelGoal string

const (
	GoalClicks DuelGoal = "clicks"
	GoalLeads  DuelGoal = "leads"
)

type SignalStatus string

const (
	SignalTriage   SignalStatus = "triage"
	SignalInTest   SignalStatus = "in_test"
	SignalResolved SignalStatus = "resolved"
	SignalArchived SignalStatus = "archived"
)

// RAGLevel is the red/amber/green health grade. RAGNone means health was
// computed but no rules were configured, so no grade applies.
type RAGLevel string

const (
	RAGNone  RAGLevel = ""
	RAGGreen RAGLevel = "green"
	RAGAmber RAGLevel = "amber"
	RAGRed   RAGLevel = "red"
)

type Severity string

const (
	SeverityWarn Severity = "warn"
	SeverityFail Severity = "fail"
)

type ChannelFitLevel string

const (
	FitRecommended ChannelFitLevel = "recommended"
	FitRisky       ChannelFitLevel = "risky"
	FitNotFit      ChannelFitLevel = "notfit"
)

// AggregatableMetrics is the canonical set of move tracking metrics that
// roll up into campaign KPIs. Matching is case-insensitive.
var AggregatableMetrics = map[string]bool{
	"primary": true, "reach": true, "click": true, "convert": true,
}
