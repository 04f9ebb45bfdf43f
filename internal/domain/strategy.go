package domain

import "time"

// StrategyVersion is one immutable-once-locked revision of the brand
// strategy. Exactly one version is "current", tracked by a separate pointer
// row rather than a flag on the version itself.
type StrategyVersion struct {
	ID            string
	VersionNumber int
	Status        StrategyStatus
	Payload       StrategyPayload
	LockedAt      *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type StrategyPayload struct {
	BrandRules     []string
	OfferTerms     []string
	ProofInventory []ProofItem
	ClaimLedger    []string
}

// ProofItem is one piece of proof (testimonial, case study, metric) that
// backs campaign claims.
type ProofItem struct {
	ID        string
	Label     string
	SourceURL string
}

// Locked reports whether the version can no longer be mutated.
func (v *StrategyVersion) Locked() bool {
	return v.Status == StrategyLocked
}
