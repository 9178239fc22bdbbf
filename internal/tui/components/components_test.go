package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

func init() {
	// Force TrueColor output so ANSI codes are generated in tests
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func TestLayoutRowSumsToTotal(t *testing.T) {
	for total := 10; total < 50; total++ {
		for n := 1; n <= 5; n++ {
			sum := 0
			for _, w := range LayoutRow(total, n) {
				sum += w
			}
			if sum != total {
				t.Fatalf("LayoutRow(%d, %d) sums to %d", total, n, sum)
			}
		}
	}
	if LayoutRow(10, 0) != nil {
		t.Fatal("LayoutRow with n=0 should be nil")
	}
}

func TestCardRowPadsShorterCards(t *testing.T) {
	theme.SetActive("flexoki-dark")

	shortCard := ContentCard("Short", "Content", 22)
	tallCard := ContentCard("Tall", "Line 1\nLine 2\nLine 3\nLine 4\nLine 5", 22)

	shortLines := lipgloss.Height(shortCard)
	tallLines := lipgloss.Height(tallCard)
	if shortLines >= tallLines {
		t.Fatal("test setup error: short card should be shorter than tall card")
	}

	joined := CardRow([]string{tallCard, shortCard})
	lines := strings.Split(joined, "\n")
	if len(lines) != tallLines {
		t.Fatalf("joined height = %d, want %d", len(lines), tallLines)
	}

	for i, line := range lines {
		if w := lipgloss.Width(line); w != 44 {
			t.Errorf("line %d width = %d, want 44", i, w)
		}
		// Padding below the short card must carry a background, not bare cells.
		if i >= shortLines && !strings.Contains(line, "\x1b[") {
			t.Errorf("line %d has no ANSI styling", i)
		}
	}
}

func TestMetricCardRowWidth(t *testing.T) {
	row := MetricCardRow([]Metric{
		{Label: "Budget", Value: "1,000.00 €"},
		{Label: "Forecast", Value: "1,245.00 €", Note: "+245.00 €", Alert: true},
		{Label: "Alerts", Value: "2"},
	}, 90)

	for i, line := range strings.Split(row, "\n") {
		if w := lipgloss.Width(line); w != 90 {
			t.Errorf("line %d width = %d, want 90", i, w)
		}
	}
}

func TestBudgetBarWidth(t *testing.T) {
	for _, spent := range []float64{0, 50, 100, 300} {
		if w := lipgloss.Width(BudgetBar(spent, 100, 24)); w != 24 {
			t.Errorf("BudgetBar(%v) width = %d, want 24", spent, w)
		}
	}
	if w := lipgloss.Width(BudgetBar(10, 0, 24)); w != 24 {
		t.Errorf("BudgetBar with no budget width = %d, want 24", w)
	}
}

func TestTimelineBar(t *testing.T) {
	bar := TimelineBar(3, 7, 40)
	plain := stripANSI(bar)
	if plain != "■■■□□□□" {
		t.Fatalf("TimelineBar(3, 7) = %q", plain)
	}
	if w := lipgloss.Width(TimelineBar(10, 60, 30)); w != 30 {
		t.Fatalf("long trip timeline width = %d, want 30", w)
	}
	if TimelineBar(0, 0, 10) != "" {
		t.Fatal("timeline without days should be empty")
	}
}

func TestBarChartShape(t *testing.T) {
	values := []float64{10, 40, 25, 0, 60}
	labels := []string{"1", "2", "3", "4", "5"}

	out := BarChart(values, labels, 30, 40, 6)
	lines := strings.Split(out, "\n")
	// height rows + axis + labels
	if len(lines) != 8 {
		t.Fatalf("got %d lines, want 8:\n%s", len(lines), out)
	}
	if !strings.Contains(stripANSI(lines[0]), "60") {
		t.Errorf("top row should carry the peak label: %q", stripANSI(lines[0]))
	}
	if !strings.Contains(stripANSI(out), "┈") {
		t.Error("guide line missing")
	}
}

func TestBarChartFallsBackToSparkline(t *testing.T) {
	out := BarChart([]float64{1, 2, 3}, nil, 0, 10, 2)
	if lipgloss.Height(out) != 1 || lipgloss.Width(out) != 3 {
		t.Fatalf("narrow chart should be a sparkline, got %q", out)
	}
}

func TestTabVisualWidthMatchesRender(t *testing.T) {
	for active := range Tabs {
		want := 0
		for i, tab := range Tabs {
			want += TabVisualWidth(tab, i == active)
		}
		want += len(Tabs) - 1

		got := lipgloss.Width(RenderTabBar(active, 0))
		if got != want {
			t.Errorf("active=%d: rendered width %d, want %d", active, got, want)
		}
	}
}

func TestTabIdxByKey(t *testing.T) {
	if got := TabIdxByKey('a'); got != 2 {
		t.Fatalf("TabIdxByKey('a') = %d, want 2", got)
	}
	if got := TabIdxByKey('z'); got != -1 {
		t.Fatalf("TabIdxByKey('z') = %d, want -1", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && r == 'm':
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
