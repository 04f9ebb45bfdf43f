package domain

import "time"

// Move is a single tactical execution unit: one cohort, one channel, one
// tracked metric, with its own day-indexed task list.
type Move struct {
	ID string
	// CampaignID is a weak reference; a move may run standalone.
	CampaignID string
	Objective  string
	Cohort     string
	Channel    string
	CTA        string
	Plan       MovePlan
	Tasks      []MoveTask
	Generation Generation
	Tracking   Tracking
	Result     MoveResult
	Status     MoveStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type MovePlan struct {
	DurationDays int
	StartDate    *time.Time
	EndDate      *time.Time
}

// MoveTask is one task on the move's checklist. Day is always clamped into
// [1, Plan.DurationDays] on write.
type MoveTask struct {
	ID     string
	Text   string
	Day    int
	Status TaskStatus
	Proof  string
}

type Generation struct {
	Status      GenerationStatus
	StartedAt   *time.Time
	CompletedAt *time.Time
}

type Tracking struct {
	Metric  string
	Updates []TrackingUpdate
}

type TrackingUpdate struct {
	Value float64
	At    time.Time
}

type MoveResult struct {
	Outcome     string
	Learning    string
	CompletedAt *time.Time
}

// ChecklistItem is the boolean-done projection of a MoveTask. It is derived
// from Tasks on demand; there is no second stored list to drift.
type ChecklistItem struct {
	ID   string
	Text string
	Done bool
}

// Checklist returns the boolean-done view of the task list.
func (m *Move) Checklist() []ChecklistItem {
	items := make([]ChecklistItem, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		items = append(items, ChecklistItem{
			ID:   t.ID,
			Text: t.Text,
			Done: t.Status == TaskDone,
		})
	}
	return items
}

// ChecklistProgress returns done and total task counts.
func (m *Move) ChecklistProgress() (done, total int) {
	for _, t := range m.Tasks {
		total++
		if t.Status == TaskDone {
			done++
		}
	}
	return done, total
}

// ClampTaskDays forces every task day into [1, Plan.DurationDays].
// A non-positive duration clamps all days to 1.
func (m *Move) ClampTaskDays() {
	max := m.Plan.DurationDays
	if max < 1 {
		max = 1
	}
	for i := range m.Tasks {
		if m.Tasks[i].Day < 1 {
			m.Tasks[i].Day = 1
		}
		if m.Tasks[i].Day > max {
			m.Tasks[i].Day = max
		}
	}
}

// TrackingTotal sums all tracking update values.
func (m *Move) TrackingTotal() float64 {
	var sum float64
	for _, u := range m.Tracking.Updates {
		sum += u.Value
	}
	return sum
}
