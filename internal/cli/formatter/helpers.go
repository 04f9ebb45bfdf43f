package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/warroomhq/warroom/internal/domain"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// HumanDate returns a human-friendly absolute date string.
func HumanDate(t time.Time) string {
	now := time.Now()
	y1, m1, d1 := now.Date()
	y2, m2, d2 := t.Date()
	if y1 == y2 && m1 == m2 && d1 == d2 {
		return "Today"
	}
	yesterday := now.AddDate(0, 0, -1)
	y3, m3, d3 := yesterday.Date()
	if y2 == y3 && m2 == m3 && d2 == d3 {
		return "Yesterday"
	}
	return t.Format("Jan 2, 2006")
}

// HumanTimestamp returns a human-friendly relative timestamp string.
func HumanTimestamp(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < 0:
		return HumanDate(t)
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return HumanDate(t)
	}
}

// CampaignStatusPill returns a colored status indicator for campaign status.
func CampaignStatusPill(status domain.CampaignStatus) string {
	switch status {
	case domain.CampaignActive:
		return StyleGreen.Render("● Active")
	case domain.CampaignDraft:
		return StyleBlue.Render("○ Draft")
	case domain.CampaignPaused:
		return StyleYellow.Render("○ Paused")
	case domain.CampaignCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.CampaignArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// MoveStatusPill returns a colored status indicator for move status.
func MoveStatusPill(status domain.MoveStatus) string {
	switch status {
	case domain.MovePending:
		return StyleBlue.Render("○ Pending")
	case domain.MoveGenerating:
		return StyleYellow.Render("◌ Generating")
	case domain.MoveActive:
		return StyleGreen.Render("● Active")
	case domain.MoveCompleted:
		return StyleDim.Render("✔ Completed")
	default:
		return StyleDim.Render(string(status))
	}
}

// PipelineStatusPill returns a colored status indicator for pipeline status.
func PipelineStatusPill(status domain.PipelineStatus) string {
	switch status {
	case domain.PipelineBacklog:
		return StyleDim.Render("○ Backlog")
	case domain.PipelineInProduction:
		return StyleBlue.Render("● In Production")
	case domain.PipelineReview:
		return StylePurple.Render("● Review")
	case domain.PipelineApproval:
		return StyleYellow.Render("● Approval")
	case domain.PipelineScheduled:
		return StyleBlue.Render("◷ Scheduled")
	case domain.PipelineShipped:
		return StyleGreen.Render("✔ Shipped")
	case domain.PipelineBlocked:
		return StyleRed.Render("▲ Blocked")
	default:
		return StyleDim.Render(string(status))
	}
}

// DuelStatusPill returns a colored status indicator for duel status.
func DuelStatusPill(status domain.DuelStatus) string {
	switch status {
	case domain.DuelRunning:
		return StyleGreen.Render("● Running")
	case domain.DuelPaused:
		return StyleYellow.Render("○ Paused")
	case domain.DuelWinner:
		return StylePurple.Render("★ Winner")
	case domain.DuelArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// SignalStatusPill returns a colored status indicator for signal status.
func SignalStatusPill(status domain.SignalStatus) string {
	switch status {
	case domain.SignalTriage:
		return StyleBlue.Render("○ Triage")
	case domain.SignalInTest:
		return StyleYellow.Render("● In Test")
	case domain.SignalResolved:
		return StyleGreen.Render("✔ Resolved")
	case domain.SignalArchived:
		return StyleDim.Render("✖ Archived")
	default:
		return StyleDim.Render(string(status))
	}
}

// FitBadge returns a styled channel-fit label.
func FitBadge(fit domain.ChannelFitLevel) string {
	switch fit {
	case domain.FitRecommended:
		return StyleGreen.Render("recommended")
	case domain.FitRisky:
		return StyleYellow.Render("risky")
	case domain.FitNotFit:
		return StyleRed.Render("not fit")
	default:
		return StyleDim.Render(string(fit))
	}
}

// GatePill renders a readiness gate pass/fail marker.
func GatePill(ok bool) string {
	if ok {
		return StyleGreen.Render("✔")
	}
	return StyleRed.Render("✘")
}

// TruncID returns the first 8 characters of an ID, dimmed.
func TruncID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	return StyleDim.Render(id)
}

// Percent formats a percentage with one decimal place.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// QuotaGauge renders "used/limit" with red styling when exhausted.
func QuotaGauge(used, limit int) string {
	text := fmt.Sprintf("%d/%d", used, limit)
	if used >= limit {
		return StyleRed.Render(text)
	}
	return StyleFg.Render(text)
}
