package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

var blocks = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders a unicode sparkline from values.
func Sparkline(values []float64, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	var buf strings.Builder
	for _, v := range values {
		idx := int(v / peak * float64(len(blocks)-2))
		idx = max(0, min(idx, len(blocks)-2))
		buf.WriteRune(blocks[idx+1])
	}
	return lipgloss.NewStyle().Foreground(color).Background(theme.Active.Surface).Render(buf.String())
}

// BarChart renders daily amounts as vertical bars height rows tall. When
// guide is positive a dotted line marks it and bars above it use the
// over-budget color. Series wider than the chart keep their most recent
// values.
func BarChart(values []float64, labels []string, guide float64, width, height int) string {
	if len(values) == 0 {
		return ""
	}
	if width < 15 || height < 3 {
		return Sparkline(values, theme.Active.Blue)
	}
	t := theme.Active

	peak := guide
	for _, v := range values {
		peak = max(peak, v)
	}
	if peak == 0 {
		peak = 1
	}

	yLabelW := max(len(formatChartLabel(peak))+1, 4)
	chartW := max(width-yLabelW-1, 5)

	if fit := (chartW + 1) / 2; len(values) > fit {
		values = values[len(values)-fit:]
		if len(labels) > fit {
			labels = labels[len(labels)-fit:]
		}
	}
	n := len(values)
	barW := max(1, min((chartW-(n-1))/n, 4))
	axisLen := n*barW + n - 1

	axis := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	normal := lipgloss.NewStyle().Foreground(t.Blue).Background(t.Surface)
	over := lipgloss.NewStyle().Foreground(t.Over).Background(t.Surface)
	guideStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
	blank := lipgloss.NewStyle().Background(t.Surface)

	var b strings.Builder
	for row := height; row >= 1; row-- {
		top := peak * float64(row) / float64(height)
		bottom := peak * float64(row-1) / float64(height)
		onGuide := guide > 0 && guide > bottom && guide <= top

		label := ""
		switch {
		case row == height:
			label = formatChartLabel(peak)
		case onGuide:
			label = formatChartLabel(guide)
		}
		b.WriteString(axis.Render(fmt.Sprintf("%*s│", yLabelW, label)))

		for i, v := range values {
			if i > 0 {
				b.WriteString(blank.Render(" "))
			}
			style := normal
			if guide > 0 && v > guide {
				style = over
			}
			switch {
			case v >= top:
				b.WriteString(style.Render(strings.Repeat("█", barW)))
			case v > bottom:
				idx := int((v - bottom) / (top - bottom) * 8)
				idx = max(1, min(idx, 8))
				b.WriteString(style.Render(strings.Repeat(string(blocks[idx]), barW)))
			case onGuide:
				b.WriteString(guideStyle.Render(strings.Repeat("┈", barW)))
			default:
				b.WriteString(blank.Render(strings.Repeat(" ", barW)))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axis.Render(fmt.Sprintf("%*s└", yLabelW, "0")))
	b.WriteString(axis.Render(strings.Repeat("─", axisLen)))

	if len(labels) == n {
		line := []rune(strings.Repeat(" ", axisLen))
		lastEnd := -1
		for i, lbl := range labels {
			pos := i * (barW + 1)
			r := []rune(lbl)
			if pos <= lastEnd || pos+len(r) > axisLen {
				continue
			}
			copy(line[pos:], r)
			lastEnd = pos + len(r)
		}
		b.WriteString("\n")
		b.WriteString(blank.Render(strings.Repeat(" ", yLabelW+1)))
		b.WriteString(axis.Render(strings.TrimRight(string(line), " ")))
	}

	return b.String()
}

func formatChartLabel(v float64) string {
	switch {
	case v >= 10_000:
		return fmt.Sprintf("%.0fk", v/1000)
	case v >= 1000:
		return fmt.Sprintf("%.1fk", v/1000)
	case v >= 10:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprintf("%.1f", v)
	}
}
