package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

// StatusInfo is what the bottom bar reports.
type StatusInfo struct {
	Trip        string
	DataAge     string
	Refreshing  bool
	AutoRefresh bool
	Err         string
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(width int, info StatusInfo) string {
	t := theme.Active

	base := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	accent := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface)
	errStyle := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface)

	left := base.Render(" [?]help  [t]rip  [r]efresh  [q]uit")
	if info.Trip != "" {
		left += base.Render("  │  ") + accent.Render(info.Trip)
	}

	var right string
	switch {
	case info.Err != "":
		right = errStyle.Render(info.Err + " ")
	case info.Refreshing:
		right = accent.Render("refreshing… ")
	default:
		auto := "manual"
		if info.AutoRefresh {
			auto = "auto"
		}
		right = base.Render(info.DataAge + " · " + auto + " ")
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	return left + base.Render(strings.Repeat(" ", gap)) + right
}
