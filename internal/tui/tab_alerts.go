package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/tui/components"
	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

func (a App) renderAlertsTab(cw int) string {
	t := theme.Active
	r := a.forecast.Result

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	over := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface).Bold(true)
	text := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	ok := lipgloss.NewStyle().Foreground(t.OnTrack).Background(t.Surface).Bold(true)

	if len(r.Alerts) == 0 {
		return components.ContentCard("Alerts", ok.Render("✓ Every category is on track."), cw)
	}

	innerW := components.CardInnerWidth(cw)
	wrap := lipgloss.NewStyle().Width(innerW - 2).Background(t.Surface)

	var b strings.Builder
	for i, msg := range r.Alerts {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(over.Render("▲ "))
		b.WriteString(wrap.Render(text.Render(msg)))
	}

	var sum strings.Builder
	for _, c := range r.Categories {
		if !c.Alert {
			continue
		}
		fmt.Fprintf(&sum, "%s%s\n",
			muted.Render(fmt.Sprintf("%-22s", truncStr(c.Category, 21))),
			over.Render("+"+cli.FormatMoney(c.OverForecast)))
	}

	var out strings.Builder
	out.WriteString(components.ContentCard(fmt.Sprintf("Alerts (%d)", len(r.Alerts)), b.String(), cw))
	if sum.Len() > 0 {
		out.WriteString("\n")
		out.WriteString(components.ContentCard("Projected overrun by category", strings.TrimRight(sum.String(), "\n"), cw))
	}
	return out.String()
}
