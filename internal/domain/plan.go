package domain

import "time"

// Plan describes a subscription tier and its per-feature limits.
// Plans are immutable reference data looked up by key.
type Plan struct {
	Key    string
	Name   string
	Limits PlanLimits
}

type PlanLimits struct {
	RadarScansPerDay    int
	DuelsPerMonth       int
	GenerationsPerMonth int
	ICPCount            int
	ActiveCampaigns     int
	MovesPerMonth       int
	Seats               int
}

// UsageCounters tracks consumed quota against the current plan.
// Only the quota governor mutates these; day/month rollover resets are
// triggered by an external scheduler.
type UsageCounters struct {
	RadarScansToday      int
	DuelsThisMonth       int
	GenerationsThisMonth int
	LastReset            time.Time
}
