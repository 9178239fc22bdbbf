package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

// Tab represents a single tab in the tab bar.
type Tab struct {
	Name   string
	Key    rune
	KeyPos int // position of the shortcut letter in the name (-1 if not in name)
}

// Tabs defines all available tabs.
var Tabs = []Tab{
	{Name: "Overview", Key: 'o', KeyPos: 0},
	{Name: "Categories", Key: 'c', KeyPos: 0},
	{Name: "Alerts", Key: 'a', KeyPos: 0},
	{Name: "Settings", Key: 'x', KeyPos: -1},
}

// TabVisualWidth is the rendered width of a tab, including its padding.
func TabVisualWidth(tab Tab, active bool) int {
	w := lipgloss.Width(tab.Name) + 2
	if !active && tab.KeyPos < 0 {
		w += 3 // "[x]" suffix
	}
	return w
}

// RenderTabBar renders a single-row tab bar with the given active index.
// Tabs are separated by one column.
func RenderTabBar(activeIdx int, width int) string {
	t := theme.Active

	activeStyle := lipgloss.NewStyle().
		Foreground(t.AccentBright).
		Background(t.SurfaceBright).
		Bold(true).
		Padding(0, 1)
	inactiveStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	padStyle := lipgloss.NewStyle().Background(t.Surface)

	parts := make([]string, len(Tabs))
	for i, tab := range Tabs {
		if i == activeIdx {
			parts[i] = activeStyle.Render(tab.Name)
			continue
		}
		var body string
		if tab.KeyPos >= 0 {
			body = keyStyle.Render(tab.Name[:tab.KeyPos+1]) + inactiveStyle.Render(tab.Name[tab.KeyPos+1:])
		} else {
			body = inactiveStyle.Render(tab.Name) + inactiveStyle.Render("[") +
				keyStyle.Render(string(tab.Key)) + inactiveStyle.Render("]")
		}
		parts[i] = padStyle.Render(" ") + body + padStyle.Render(" ")
	}

	row := strings.Join(parts, padStyle.Render(" "))
	if gap := width - lipgloss.Width(row); gap > 0 {
		row += padStyle.Render(strings.Repeat(" ", gap))
	}
	return row
}

// TabIdxByKey returns the tab index for a given key press, or -1.
func TabIdxByKey(key rune) int {
	for i, tab := range Tabs {
		if tab.Key == key {
			return i
		}
	}
	return -1
}
