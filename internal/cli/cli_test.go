package cli

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.00 €"},
		{7.5, "7.50 €"},
		{1234.5, "1,234.50 €"},
		{-42.126, "-42.13 €"},
		{-0.001, "0.00 €"},
		{1000000, "1,000,000.00 €"},
	}
	for _, tt := range tests {
		if got := FormatMoney(tt.in); got != tt.want {
			t.Errorf("FormatMoney(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if got := FormatMoneyShort(2499.6); got != "2,500 €" {
		t.Errorf("FormatMoneyShort(2499.6) = %q", got)
	}
	if got := FormatMoneyShort(12.3); got != "12.30 €" {
		t.Errorf("FormatMoneyShort(12.3) = %q", got)
	}
}

func TestFormatUsageAndProgress(t *testing.T) {
	if got := FormatUsage(50, 200); got != "25.0%" {
		t.Errorf("FormatUsage = %q", got)
	}
	if got := FormatUsage(50, 0); got != "-" {
		t.Errorf("FormatUsage with no budget = %q", got)
	}
	if got := FormatProgress(0, 7); got != "not started (7 days)" {
		t.Errorf("FormatProgress(0,7) = %q", got)
	}
	if got := FormatProgress(3, 7); got != "day 3 of 7" {
		t.Errorf("FormatProgress(3,7) = %q", got)
	}
	if got := FormatProgress(7, 7); got != "finished (7 days)" {
		t.Errorf("FormatProgress(7,7) = %q", got)
	}
	if got := FormatDelta(90, 100); got != "-10.00 €" {
		t.Errorf("FormatDelta = %q", got)
	}
}

func TestRenderTableAlignsWideCells(t *testing.T) {
	out := RenderTable(Table{
		Headers: []string{"Category", "Budget"},
		Rows: [][]string{
			{"Meals", FormatMoney(100)},
			{"---"},
			{"Technology/SIM", FormatMoney(1250)},
		},
	})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	want := lipgloss.Width(lines[0])
	for i, l := range lines {
		if w := lipgloss.Width(l); w != want {
			t.Errorf("line %d width %d, want %d: %q", i, w, want, l)
		}
	}
}

func TestRenderBudgetBarWidth(t *testing.T) {
	for _, spent := range []float64{0, 40, 100, 250} {
		bar := RenderBudgetBar(spent, 100, 20)
		if w := lipgloss.Width(bar); w != 20 {
			t.Errorf("RenderBudgetBar(%v) width = %d, want 20", spent, w)
		}
	}
	if w := lipgloss.Width(RenderBudgetBar(10, 0, 12)); w != 12 {
		t.Errorf("zero budget bar width = %d", w)
	}
}

func TestRenderSparkline(t *testing.T) {
	got := RenderSparkline([]float64{0, 5, 10})
	if got != "▁▄█" {
		t.Errorf("RenderSparkline = %q", got)
	}
	if RenderSparkline(nil) != "" {
		t.Error("empty series should render nothing")
	}
}
