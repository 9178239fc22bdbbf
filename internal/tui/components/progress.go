package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

// ProgressBar renders a plain fill bar with a percentage, used while the
// ledger loads.
func ProgressBar(pct float64, width int) string {
	t := theme.Active
	pct = clamp01(pct)
	filled := int(pct * float64(width))

	filledStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	emptyStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	pctStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)

	return filledStyle.Render(strings.Repeat("█", filled)) +
		emptyStyle.Render(strings.Repeat("░", width-filled)) +
		pctStyle.Render(fmt.Sprintf(" %.0f%%", pct*100))
}

// BudgetBar renders spent against budget as a bar of exactly width cells.
// A category without a budget renders as an empty track.
func BudgetBar(spent, budget float64, width int) string {
	t := theme.Active
	if budget <= 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render(strings.Repeat("░", width))
	}

	usage := spent / budget
	bar := progress.New(
		progress.WithSolidFill(string(t.ForUsage(usage))),
		progress.WithWidth(width),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)
	return bar.ViewAs(clamp01(usage))
}

// UsageLabel renders "64%" in the budget state color, or "-" with no budget.
func UsageLabel(spent, budget float64) string {
	t := theme.Active
	if budget <= 0 {
		return lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface).Render("   -")
	}
	usage := spent / budget
	return lipgloss.NewStyle().Foreground(t.ForUsage(usage)).Background(t.Surface).Bold(true).
		Render(fmt.Sprintf("%3.0f%%", usage*100))
}

// TimelineBar shows how far into the trip today is, one cell per day when
// the trip fits in width.
func TimelineBar(daysElapsed, totalDays, width int) string {
	t := theme.Active
	if totalDays <= 0 || width <= 0 {
		return ""
	}

	cells := min(totalDays, width)
	done := daysElapsed * cells / totalDays
	done = max(0, min(done, cells))

	past := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	future := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	return past.Render(strings.Repeat("■", done)) + future.Render(strings.Repeat("□", cells-done))
}

func clamp01(v float64) float64 {
	return max(0, min(v, 1))
}
