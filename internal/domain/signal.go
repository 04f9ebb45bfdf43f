package domain

import (
	"fmt"
	"time"
)

// Signal is a triaged hypothesis or observation. It starts in triage and
// moves to in_test automatically when first linked to a duel.
type Signal struct {
	ID           string
	Title        string
	Statement    string
	Zone         string
	Status       SignalStatus
	Effort       string
	ICE          ICEScore
	Linked       SignalLinks
	EvidenceRefs []EvidenceRef
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ICEScore is the impact/confidence/ease triage score.
type ICEScore struct {
	Impact     int
	Confidence int
	Ease       int
}

// Total returns the summed ICE score.
func (s ICEScore) Total() int {
	return s.Impact + s.Confidence + s.Ease
}

type SignalLinks struct {
	DuelIDs []string
	MoveIDs []string
}

// EvidenceRef points at an entity that evidences the signal. Refs are
// deduplicated by Key.
type EvidenceRef struct {
	Type  string
	ID    string
	Label string
}

// Key is the composite dedup key for evidence refs.
func (r EvidenceRef) Key() string {
	return fmt.Sprintf("%s:%s:%s", r.Type, r.ID, r.Label)
}

// HasEvidence reports whether an equivalent ref is already attached.
func (s *Signal) HasEvidence(ref EvidenceRef) bool {
	key := ref.Key()
	for _, r := range s.EvidenceRefs {
		if r.Key() == key {
			return true
		}
	}
	return false
}

// Terminal reports whether the signal can no longer change status
// automatically.
func (s *Signal) Terminal() bool {
	return s.Status == SignalResolved || s.Status == SignalArchived
}
