package domain

import "time"

// Cohort is a target audience segment. Read-mostly reference data consumed
// by readiness checks and radar scans.
type Cohort struct {
	ID          string
	Name        string
	Description string
	Tags        []string
	// ChannelFit maps channel id to how well the cohort fits it.
	ChannelFit map[string]ChannelFitLevel
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// FitFor returns the fit level for a channel, defaulting to FitRisky when
// the cohort has no opinion.
func (c *Cohort) FitFor(channel string) ChannelFitLevel {
	if fit, ok := c.ChannelFit[channel]; ok {
		return fit
	}
	return FitRisky
}
