package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/tui/components"
	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

const (
	tabOverview = iota
	tabCategories
	tabAlerts
	tabSettings
)

const (
	settingsFieldTheme = iota
	settingsFieldDefaultTrip
	settingsFieldLedgerDir
	settingsFieldAutoRefresh
	settingsFieldRefreshInterval
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor   int
	editing  bool
	input    textinput.Model
	saved    bool  // flash "saved" message briefly
	saveErr  error // non-nil if last save failed
	rejected string
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 50
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	a.settings.editing = true
	a.settings.saved = false
	a.settings.rejected = ""

	ti := newSettingsInput()
	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(a.cfg.Appearance.Theme)
	case settingsFieldDefaultTrip:
		ti.Placeholder = "trip name or ID, empty for automatic"
		ti.SetValue(a.cfg.General.DefaultTrip)
	case settingsFieldLedgerDir:
		ti.Placeholder = "directory of ledger files, empty to disable"
		ti.SetValue(a.cfg.General.LedgerDir)
	case settingsFieldAutoRefresh:
		ti.Placeholder = "true or false"
		ti.SetValue(strconv.FormatBool(a.autoRefresh))
	case settingsFieldRefreshInterval:
		ti.Placeholder = fmt.Sprintf("30 (seconds, minimum %d)", minRefreshSec)
		ti.SetValue(strconv.Itoa(int(a.refreshInterval.Seconds())))
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil && a.settings.rejected == ""
		return a, nil
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave applies the edited field to the live config and persists it.
// Invalid values are reported and leave the config untouched.
func (a *App) settingsSave() {
	val := strings.TrimSpace(a.settings.input.Value())

	switch a.settings.cursor {
	case settingsFieldTheme:
		if _, ok := theme.Lookup(val); !ok {
			a.settings.rejected = fmt.Sprintf("unknown theme %q", val)
			return
		}
		a.cfg.Appearance.Theme = val
		theme.SetActive(val)
	case settingsFieldDefaultTrip:
		a.cfg.General.DefaultTrip = val
	case settingsFieldLedgerDir:
		a.cfg.General.LedgerDir = val
	case settingsFieldAutoRefresh:
		b, err := strconv.ParseBool(val)
		if err != nil {
			a.settings.rejected = "auto refresh must be true or false"
			return
		}
		a.cfg.TUI.AutoRefresh = b
		a.autoRefresh = b
	case settingsFieldRefreshInterval:
		sec, err := strconv.Atoi(val)
		if err != nil || sec < minRefreshSec {
			a.settings.rejected = fmt.Sprintf("refresh interval must be at least %d seconds", minRefreshSec)
			return
		}
		a.cfg.TUI.RefreshIntervalSec = sec
		a.refreshInterval = refreshInterval(sec)
	}

	a.settings.saveErr = a.opts.SaveConfig(a.cfg)
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	okStyle := lipgloss.NewStyle().Foreground(t.OnTrack).Background(t.Surface)
	warnStyle := lipgloss.NewStyle().Foreground(t.Warning).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	fields := []struct{ label, value string }{
		{"Theme", a.cfg.Appearance.Theme},
		{"Default Trip", orNotSet(a.cfg.General.DefaultTrip)},
		{"Ledger Directory", orNotSet(a.cfg.General.LedgerDir)},
		{"Auto Refresh", strconv.FormatBool(a.autoRefresh)},
		{"Refresh Interval", fmt.Sprintf("%ds", int(a.refreshInterval.Seconds()))},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker + label + value)
			used := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if pad := components.CardInnerWidth(cw) - used; pad > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	switch {
	case a.settings.rejected != "":
		formBody.WriteString("\n" + warnStyle.Render(a.settings.rejected))
	case a.settings.saveErr != nil:
		formBody.WriteString("\n" + warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	case a.settings.saved:
		formBody.WriteString("\n" + okStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Ledger database: ") + valueStyle.Render(a.cfg.DBPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Trips:           ") + valueStyle.Render(cli.FormatNumber(int64(len(a.trips)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Rows imported:   ") + valueStyle.Render(cli.FormatNumber(int64(a.imported))) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:       ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:     ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))
	return b.String()
}
