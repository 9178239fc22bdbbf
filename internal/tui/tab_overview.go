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

// tripTotals are the headline sums across all categories.
type tripTotals struct {
	Budget   float64
	Spent    float64
	Planned  float64
	Forecast float64
}

func totalsOf(r model.ForecastResult) tripTotals {
	tt := tripTotals{Budget: r.TotalBudget, Forecast: r.TotalForecast}
	for _, c := range r.Categories {
		tt.Spent += c.Spent
		tt.Planned += c.Planned
	}
	return tt
}

func (a App) overviewMetrics() []components.Metric {
	r := a.forecast.Result
	tt := totalsOf(r)

	forecastNote := "within budget"
	if r.OverBudget() {
		forecastNote = cli.FormatMoney(tt.Forecast-tt.Budget) + " over"
	}

	return []components.Metric{
		{Label: "Budget", Value: cli.FormatMoney(tt.Budget), Note: fmt.Sprintf("%d categories", len(r.Categories))},
		{Label: "Spent", Value: cli.FormatMoney(tt.Spent), Note: cli.FormatUsage(tt.Spent, tt.Budget) + " of budget"},
		{Label: "Forecast", Value: cli.FormatMoney(tt.Forecast), Note: forecastNote, Alert: r.OverBudget()},
		{Label: "Reserved", Value: cli.FormatMoney(tt.Planned), Note: "pending and confirmed"},
	}
}

func (a App) renderOverviewTab(cw int) string {
	t := theme.Active
	r := a.forecast.Result
	tt := totalsOf(r)

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	value := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder

	metrics := a.overviewMetrics()
	if a.isCompactLayout() {
		b.WriteString(components.MetricCardRow(metrics[:2], cw))
		b.WriteString("\n")
		b.WriteString(components.MetricCardRow(metrics[2:], cw))
	} else {
		b.WriteString(components.MetricCardRow(metrics, cw))
	}
	b.WriteString("\n")

	// Timeline and budget usage
	trip := a.snap.Trip
	var tl strings.Builder
	tl.WriteString(muted.Render(cli.FormatDate(trip.StartDate) + " → " + cli.FormatDate(trip.EndDate)))
	tl.WriteString(muted.Render("  ·  "))
	tl.WriteString(value.Render(cli.FormatProgress(r.DaysElapsed, r.TotalDays)))
	tl.WriteString("\n")
	barW := components.CardInnerWidth(cw)
	tl.WriteString(components.TimelineBar(r.DaysElapsed, r.TotalDays, barW))
	tl.WriteString("\n")
	spentW := max(barW-6, 10)
	tl.WriteString(components.BudgetBar(tt.Spent, tt.Budget, spentW))
	tl.WriteString(muted.Render("  "))
	tl.WriteString(components.UsageLabel(tt.Spent, tt.Budget))

	title := "Timeline"
	if trip.Destination != "" {
		title = "Timeline · " + trip.Destination
	}
	b.WriteString(components.ContentCard(title, tl.String(), cw))
	b.WriteString("\n")

	// Daily spending against an even split of the total budget
	values := make([]float64, len(a.daily))
	for i, d := range a.daily {
		values[i] = d.Amount
	}
	guide := 0.0
	if r.TotalDays > 0 {
		guide = tt.Budget / float64(r.TotalDays)
	}
	chart := components.BarChart(values, dayLabels(a.daily), guide, components.CardInnerWidth(cw), 8)
	if chart == "" {
		chart = muted.Render("No expenses recorded yet.")
	}
	b.WriteString(components.ContentCard("Daily Spending", chart, cw))

	if n := len(r.Alerts); n > 0 {
		b.WriteString("\n")
		alertStyle := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface).Bold(true)
		body := alertStyle.Render(fmt.Sprintf("%d alert(s)", n)) + muted.Render(" · press [a] for details")
		b.WriteString(components.ContentCard("", body, cw))
	}

	return b.String()
}
