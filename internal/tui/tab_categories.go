package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/tui/components"
	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

func (a App) renderCategoriesTab(cw, h int) string {
	t := theme.Active
	cats := a.forecast.Result.Categories

	if a.isCompactLayout() {
		return a.renderCategoryList(cw, h)
	}

	listW := cw * 3 / 5
	detailW := cw - listW
	list := a.renderCategoryList(listW, h)

	detail := ""
	if a.catCursor < len(cats) {
		detail = a.renderCategoryDetail(cats[a.catCursor], detailW)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list,
		lipgloss.NewStyle().Background(t.Background).Render(detail))
}

// renderCategoryList renders one row per category with a usage bar. The
// window scrolls to keep the cursor visible.
func (a App) renderCategoryList(cw, h int) string {
	t := theme.Active
	cats := a.forecast.Result.Categories
	innerW := components.CardInnerWidth(cw)

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	mutedStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	selStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	overStyle := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface).Bold(true)

	if len(cats) == 0 {
		return components.ContentCard("Categories", mutedStyle.Render("No budget categories."), cw)
	}

	nameW := 20
	numW := 12
	barW := max(innerW-nameW-2*numW-9, 6)

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%-*s %*s %*s  %-*s %4s", nameW, "Category", numW, "Budget", numW, "Forecast", barW, "Spent", "")))
	b.WriteString("\n")

	// Card border, title and header take four rows.
	visible := max(h-5, 3)
	start := 0
	if a.catCursor >= visible {
		start = a.catCursor - visible + 1
	}
	end := min(start+visible, len(cats))

	for i := start; i < end; i++ {
		c := cats[i]
		name := truncStr(c.Category, nameW)
		if c.Alert {
			name = truncStr("! "+c.Category, nameW)
		}

		style := rowStyle
		if i == a.catCursor {
			style = selStyle
		}
		fcStyle := style
		if c.Alert && i != a.catCursor {
			fcStyle = overStyle
		}

		b.WriteString(style.Render(fmt.Sprintf("%-*s %*s ", nameW, name, numW, cli.FormatMoney(c.Budget))))
		b.WriteString(fcStyle.Render(fmt.Sprintf("%*s", numW, cli.FormatMoney(c.Forecast))))
		b.WriteString(style.Render("  "))
		b.WriteString(components.BudgetBar(c.Spent, c.Budget, barW))
		b.WriteString(style.Render(" "))
		b.WriteString(components.UsageLabel(c.Spent, c.Budget))
		b.WriteString("\n")
	}

	if len(cats) > visible {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%d-%d of %d  [j/k] scroll", start+1, end, len(cats))))
	}

	return components.ContentCard("Categories", strings.TrimRight(b.String(), "\n"), cw)
}

func (a App) renderCategoryDetail(c model.CategoryForecast, cw int) string {
	t := theme.Active
	label := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	over := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface).Bold(true)
	ok := lipgloss.NewStyle().Foreground(t.OnTrack).Background(t.Surface)

	line := func(k, v string) string {
		return label.Render(fmt.Sprintf("%-16s", k)) + value.Render(v) + "\n"
	}

	var b strings.Builder
	b.WriteString(line("Budget", cli.FormatMoney(c.Budget)))
	b.WriteString(line("Spent", cli.FormatMoney(c.Spent)))
	b.WriteString(line("Reserved", cli.FormatMoney(c.Planned)))
	b.WriteString(line("Fixed part", cli.FormatMoney(c.FixedPart)))
	b.WriteString(line("Variable part", cli.FormatMoney(c.VariablePart)))
	b.WriteString(line("Forecast", cli.FormatMoney(c.Forecast)))
	b.WriteString("\n")

	switch {
	case c.Alert:
		b.WriteString(over.Render("Over by " + cli.FormatMoney(c.OverForecast)))
		if c.DailyAllowance != nil {
			b.WriteString("\n")
			b.WriteString(label.Render("Keep daily spending under "))
			b.WriteString(value.Render(cli.FormatMoney(*c.DailyAllowance)))
		}
	case c.Budget > 0:
		b.WriteString(ok.Render("On track · " + cli.FormatMoney(c.Budget-c.Forecast) + " headroom"))
	default:
		b.WriteString(label.Render("No budget set · press [b] to edit"))
	}

	return components.ContentCard(c.Category, b.String(), cw)
}
