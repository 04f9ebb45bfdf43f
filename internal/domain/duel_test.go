package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVariantLabel(t *testing.T) {
	tests := []struct {
		pos  int
		want string
	}{
		{0, "A"},
		{1, "B"},
		{2, "C"},
		{25, "Z"},
		{26, "AA"},
		{27, "AB"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, VariantLabel(tc.pos), "pos %d", tc.pos)
	}
}

func TestVariant_GoalValue(t *testing.T) {
	v := Variant{Clicks: 10, Leads: 3}
	assert.Equal(t, 10, v.GoalValue(GoalClicks))
	assert.Equal(t, 3, v.GoalValue(GoalLeads))
}

func TestSignal_HasEvidence(t *testing.T) {
	s := &Signal{
		EvidenceRefs: []EvidenceRef{{Type: "duel", ID: "d1", Label: "CTA test"}},
	}
	assert.True(t, s.HasEvidence(EvidenceRef{Type: "duel", ID: "d1", Label: "CTA test"}))
	assert.False(t, s.HasEvidence(EvidenceRef{Type: "duel", ID: "d2", Label: "CTA test"}))
	assert.False(t, s.HasEvidence(EvidenceRef{Type: "move", ID: "d1", Label: "CTA test"}))
}
