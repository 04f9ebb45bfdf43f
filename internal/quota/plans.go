// Package quota gates feature invocation against the current plan's limits.
// Quota denial is an ordinary outcome, not an error: callers get false/nil
// and no state changes.
package quota

import "github.com/warroomhq/warroom/internal/domain"

// Catalogue is the static plan lookup table. Supplied reference data; the
// engine never mutates it.
var catalogue = map[string]domain.Plan{
	"starter": {
		Key:  "starter",
		Name: "Starter",
		Limits: domain.PlanLimits{
			RadarScansPerDay:    3,
			DuelsPerMonth:       2,
			GenerationsPerMonth: 10,
			ICPCount:            1,
			ActiveCampaigns:     1,
			MovesPerMonth:       10,
			Seats:               1,
		},
	},
	"growth": {
		Key:  "growth",
		Name: "Growth",
		Limits: domain.PlanLimits{
			RadarScansPerDay:    10,
			DuelsPerMonth:       10,
			GenerationsPerMonth: 50,
			ICPCount:            3,
			ActiveCampaigns:     3,
			MovesPerMonth:       50,
			Seats:               3,
		},
	},
	"scale": {
		Key:  "scale",
		Name: "Scale",
		Limits: domain.PlanLimits{
			RadarScansPerDay:    50,
			DuelsPerMonth:       30,
			GenerationsPerMonth: 200,
			ICPCount:            10,
			ActiveCampaigns:     10,
			MovesPerMonth:       200,
			Seats:               10,
		},
	},
}

// PlanByKey looks up a plan. Unknown keys fall back to starter so a stale
// persisted plan key can never disable the engine.
func PlanByKey(key string) domain.Plan {
	if p, ok := catalogue[key]; ok {
		return p
	}
	return catalogue["starter"]
}

// PlanKeys returns the known plan keys in ascending tier order.
func PlanKeys() []string {
	return []string{"starter", "growth", "scale"}
}
