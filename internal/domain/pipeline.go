package domain

import "time"

// PipelineItem is a unit of creative/production work moving through the
// review-and-ship workflow. It links weakly to moves, campaigns, signals and
// duels without owning them.
type PipelineItem struct {
	ID          string
	Title       string
	WorkType    string
	ChannelID   string
	Linked      PipelineLinks
	Inputs      PipelineInputs
	Execution   Execution
	Approvals   Approvals
	Receipt     *Receipt
	MetricsHook MetricsHook
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type PipelineLinks struct {
	MoveID     string
	CampaignID string
	SignalID   string
	DuelID     string
}

type PipelineInputs struct {
	AssetRefs      []string
	ProofClaimRefs []string
}

type Execution struct {
	Status       PipelineStatus
	OwnerID      string
	ReviewerID   string
	ApproverID   string
	DueAt        *time.Time
	ScheduledFor *time.Time
	ShippedAt    *time.Time
}

type Approvals struct {
	Required    bool
	State       ApprovalState
	RequestedAt *time.Time
	ApprovedAt  *time.Time
	ApprovedBy  string
}

// Receipt is the proof-of-ship record. Invariant: a shipped item always has
// a non-nil receipt.
type Receipt struct {
	Type        string
	Value       string
	SubmittedAt time.Time
}

type MetricsHook struct {
	PrimaryMetric string
	Events        []MetricEvent
}

type MetricEvent struct {
	Name  string
	Value float64
	At    time.Time
}
