package domain

import "time"

// Duel is an A/B test comparing content variants on a single goal metric.
type Duel struct {
	ID       string
	Name     string
	Goal     DuelGoal
	Variable string
	Cohort   string
	Channel  string
	Status   DuelStatus
	Variants []Variant
	// WinnerID is set only when Status is DuelWinner.
	WinnerID   string
	CrownedAt  *time.Time
	PromotedAt *time.Time
	// SignalIDs back-references signals that cite this duel as evidence.
	SignalIDs []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Variant is one arm of a duel. Label is the ordinal letter (A, B, C...)
// assigned from input order at creation and never re-derived.
type Variant struct {
	ID        string
	Label     string
	Content   string
	SmartLink string
	Clicks    int
	Leads     int
}

// GoalValue returns the variant's metric for the given goal.
func (v Variant) GoalValue(goal DuelGoal) int {
	if goal == GoalLeads {
		return v.Leads
	}
	return v.Clicks
}

// VariantByID returns the variant with the given id, or nil.
func (d *Duel) VariantByID(id string) *Variant {
	for i := range d.Variants {
		if d.Variants[i].ID == id {
			return &d.Variants[i]
		}
	}
	return nil
}

// VariantLabel returns the ordinal letter for a variant position: A, B, ...
// Z, then AA, AB and so on.
func VariantLabel(pos int) string {
	label := ""
	n := pos
	for {
		label = string(rune('A'+n%26)) + label
		n = n/26 - 1
		if n < 0 {
			break
		}
	}
	return label
}
