// Package tui provides the interactive Bubble Tea dashboard for tripcast.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/pipeline"
	"github.com/theirongolddev/tripcast/internal/store"
	"github.com/theirongolddev/tripcast/internal/tui/components"
	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

// Ledger is the storage the dashboard reads, imports into and updates.
type Ledger interface {
	pipeline.Ledger
	pipeline.ImportLedger
	ListTrips(ctx context.Context) ([]model.Trip, error)
	MarkBudgetSetup(ctx context.Context, tripID string) error
}

// Options configure a dashboard.
type Options struct {
	Ledger Ledger
	Config config.Config
	// TripRef selects the trip by ID or name. Empty uses the configured
	// default, then a trip in progress today, then the first trip.
	TripRef string
	// LedgerDir is imported before every load when set.
	LedgerDir  string
	Now        func() time.Time
	SaveConfig func(config.Config) error
	Logger     zerolog.Logger
}

// tripData is one load of the selected trip.
type tripData struct {
	Trips    []model.Trip
	Snapshot store.Snapshot
	Forecast model.TripForecast
	Imported int
	LoadTime time.Duration
	Err      error
}

// DataLoadedMsg is sent when the first load finishes.
type DataLoadedMsg struct{ tripData }

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct{ tripData }

// ProgressMsg reports ledger import progress.
type ProgressMsg struct {
	Current int
	Total   int
}

type budgetSavedMsg struct{ err error }

type tickMsg struct{}

// App is the root Bubble Tea model.
type App struct {
	opts Options
	cfg  config.Config

	// Data
	trips    []model.Trip
	snap     store.Snapshot
	forecast model.TripForecast
	daily    []model.DaySpend
	loaded   bool
	loadErr  error
	loadTime time.Duration
	imported int

	// Auto-refresh state
	autoRefresh     bool
	refreshInterval time.Duration
	lastRefresh     time.Time
	refreshing      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool
	catCursor int
	settings  settingsState

	// Budget setup wizard (huh form)
	setupForm    *huh.Form
	setup        *BudgetForm
	needSetup    bool
	setupSkipped map[string]bool
	setupErr     error

	// Loading, with progress streamed from the import goroutine
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
	minRefreshSec    = 10
)

// NewApp creates a new dashboard model.
func NewApp(opts Options) App {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.SaveConfig == nil {
		opts.SaveConfig = config.Save
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	return App{
		opts:            opts,
		cfg:             opts.Config,
		autoRefresh:     opts.Config.TUI.AutoRefresh,
		refreshInterval: refreshInterval(opts.Config.TUI.RefreshIntervalSec),
		setupSkipped:    make(map[string]bool),
		spinner:         sp,
		loadSub:         make(chan tea.Msg, 1),
	}
}

func refreshInterval(sec int) time.Duration {
	if sec < minRefreshSec {
		sec = 30
	}
	return time.Duration(sec) * time.Second
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.cfg, a.opts.TripRef, a.loadSub),
		a.spinner.Tick,
		tickCmd(),
	)
}

// currentTripID is the trip on screen, or "" before the first load.
func (a App) currentTripID() string {
	return a.snap.Trip.ID
}

// apply installs freshly loaded data and derived views.
func (a *App) apply(d tripData) {
	a.loadTime = d.LoadTime
	a.lastRefresh = a.opts.Now()
	a.loadErr = d.Err
	if d.Err != nil {
		return
	}

	a.trips = d.Trips
	a.snap = d.Snapshot
	a.forecast = d.Forecast
	a.imported += d.Imported
	a.daily = nil
	if a.snap.Trip.ID != "" {
		a.daily = pipeline.DailySpend(a.snap.Expenses, a.snap.Trip.StartDate, a.snap.Trip.EndDate)
	}

	if a.catCursor >= len(a.forecast.Result.Categories) {
		a.catCursor = len(a.forecast.Result.Categories) - 1
	}
	a.catCursor = max(a.catCursor, 0)
}

// maybeStartSetup opens the budget wizard for a trip that has not been
// through it yet.
func (a *App) maybeStartSetup() tea.Cmd {
	trip := a.snap.Trip
	if trip.ID == "" || trip.BudgetSetupDone || a.setupSkipped[trip.ID] || a.needSetup {
		return nil
	}

	a.setup = NewBudgetForm(trip, a.snap.Budgets, a.cfg.SeedCategories())
	a.setupForm = a.setup.Form()
	if a.width > 0 {
		a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
	}
	a.needSetup = true
	return a.setupForm.Init()
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || a.needSetup {
			return a, nil
		}
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			if a.activeTab == tabCategories {
				a.catCursor = max(a.catCursor-1, 0)
			}
		case tea.MouseButtonWheelDown:
			if a.activeTab == tabCategories {
				a.catCursor = min(a.catCursor+1, max(len(a.forecast.Result.Categories)-1, 0))
			}
		case tea.MouseButtonLeft:
			// The tab bar is the first line.
			if msg.Y == 0 {
				if tab := a.tabAtX(msg.X); tab >= 0 {
					a.activeTab = tab
				}
			}
		}
		return a, nil

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.loaded = true
		a.apply(msg.tripData)
		return a, a.maybeStartSetup()

	case RefreshDataMsg:
		a.refreshing = false
		a.apply(msg.tripData)
		return a, a.maybeStartSetup()

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case budgetSavedMsg:
		a.setupErr = msg.err
		a.refreshing = true
		return a, refreshDataCmd(a.opts, a.cfg, a.currentTripID())

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case tickMsg:
		cmds := []tea.Cmd{tickCmd()}
		if a.loaded && a.autoRefresh && !a.refreshing && !a.needSetup &&
			a.opts.Now().Sub(a.lastRefresh) >= a.refreshInterval {
			a.refreshing = true
			cmds = append(cmds, refreshDataCmd(a.opts, a.cfg, a.currentTripID()))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// The budget wizard intercepts all keys.
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabCategories:
		switch key {
		case "j", "down":
			a.catCursor = min(a.catCursor+1, max(len(a.forecast.Result.Categories)-1, 0))
			return a, nil
		case "k", "up":
			a.catCursor = max(a.catCursor-1, 0)
			return a, nil
		case "g":
			a.catCursor = 0
			return a, nil
		case "G":
			a.catCursor = max(len(a.forecast.Result.Categories)-1, 0)
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
			return a, nil
		case "k", "up":
			a.settings.cursor = max(a.settings.cursor-1, 0)
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts, a.cfg, a.currentTripID())
		}
		return a, nil
	case "R":
		a.autoRefresh = !a.autoRefresh
		a.cfg.TUI.AutoRefresh = a.autoRefresh
		a.settings.saveErr = a.opts.SaveConfig(a.cfg)
		return a, nil
	case "t", "T":
		if next := a.cycleTrip(key == "t"); next != "" && !a.refreshing {
			a.refreshing = true
			return a, refreshDataCmd(a.opts, a.cfg, next)
		}
		return a, nil
	case "b":
		// Reopen the budget wizard for the current trip.
		if a.snap.Trip.ID != "" {
			delete(a.setupSkipped, a.snap.Trip.ID)
			a.snap.Trip.BudgetSetupDone = false
			return a, a.maybeStartSetup()
		}
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

// cycleTrip returns the ID of the next (or previous) trip, or "" when there
// is nothing to switch to.
func (a App) cycleTrip(forward bool) string {
	n := len(a.trips)
	if n < 2 {
		return ""
	}
	cur := 0
	for i, t := range a.trips {
		if t.ID == a.currentTripID() {
			cur = i
			break
		}
	}
	step := 1
	if !forward {
		step = n - 1
	}
	return a.trips[(cur+step)%n].ID
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		setup := a.setup
		a.needSetup = false
		a.setupForm = nil
		a.setup = nil
		budgets, err := setup.Budgets(a.cfg)
		if err != nil {
			a.setupErr = err
			return a, nil
		}
		return a, saveBudgetsCmd(a.opts.Ledger, setup.Trip.ID, budgets)
	case huh.StateAborted:
		a.setupSkipped[a.snap.Trip.ID] = true
		a.needSetup = false
		a.setupForm = nil
		a.setup = nil
		return a, nil
	}
	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.viewSetup()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  tripcast needs at least %d columns.\n",
		a.width, minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ tripcast"))
	b.WriteString(subtitleStyle.Render(" · Travel Budget Forecast"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := max(min(40, a.width-30), 20)
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Importing ledger files\n\n"))
		b.WriteString(components.ProgressBar(float64(a.progress)/float64(a.progressMax), barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Reading ledger..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewSetup() string {
	t := theme.Active
	total := lipgloss.NewStyle().Foreground(t.TextMuted).
		Render(fmt.Sprintf("  Estimated total: %s", cli.FormatMoney(a.setup.Total())))
	return a.setupForm.View() + "\n\n" + total
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	bindings := []struct{ key, desc string }{
		{"o c a x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"j k", "Move through categories or settings"},
		{"t T", "Next / Previous trip"},
		{"b", "Edit the trip budget"},
		{"r", "Reload ledger"},
		{"R", "Toggle auto-refresh"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	for _, bind := range bindings {
		fmt.Fprintf(&b, "  %s  %s\n",
			keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
			descStyle.Render(bind.desc))
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	header := components.RenderTabBar(a.activeTab, w)

	info := components.StatusInfo{
		Trip:        a.snap.Trip.Name,
		DataAge:     a.lastRefresh.Format("15:04:05"),
		Refreshing:  a.refreshing,
		AutoRefresh: a.autoRefresh,
	}
	switch {
	case a.loadErr != nil:
		info.Err = a.loadErr.Error()
	case a.setupErr != nil:
		info.Err = a.setupErr.Error()
	}
	statusBar := components.RenderStatusBar(w, info)

	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.snap.Trip.ID == "" && a.activeTab != tabSettings:
		content = a.renderNoTrip(cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabCategories:
		content = a.renderCategoriesTab(cw, contentH)
	case a.activeTab == tabAlerts:
		content = a.renderAlertsTab(cw)
	case a.activeTab == tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) renderNoTrip(cw int) string {
	t := theme.Active
	body := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).Render(
		"No trips in the ledger yet.\n\n" +
			"Create one with `tripcast trip add <name> --start YYYY-MM-DD --end YYYY-MM-DD`\n" +
			"or import a plan with `tripcast import <file>`.")
	return components.ContentCard("Welcome to tripcast", body, cw)
}

// ─── Loading ────────────────────────────────────────────────────

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// loadDataCmd runs the first load in a background goroutine, streaming
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, cfg config.Config, ref string, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			// Non-blocking send so import workers are never stalled.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}
			sub <- DataLoadedMsg{loadTrip(context.Background(), opts, cfg, ref, progressFn)}
		}()
		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads in the background without progress.
func refreshDataCmd(opts Options, cfg config.Config, ref string) tea.Cmd {
	return func() tea.Msg {
		return RefreshDataMsg{loadTrip(context.Background(), opts, cfg, ref, nil)}
	}
}

func saveBudgetsCmd(ledger Ledger, tripID string, budgets []model.Budget) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := ledger.ReplaceBudgets(ctx, tripID, budgets); err != nil {
			return budgetSavedMsg{err: fmt.Errorf("saving budget: %w", err)}
		}
		if err := ledger.MarkBudgetSetup(ctx, tripID); err != nil {
			return budgetSavedMsg{err: err}
		}
		return budgetSavedMsg{}
	}
}

// loadTrip imports pending ledger files, selects a trip and forecasts it.
func loadTrip(ctx context.Context, opts Options, cfg config.Config, ref string, progress pipeline.ProgressFunc) tripData {
	start := time.Now()
	var d tripData
	defer func() { d.LoadTime = time.Since(start) }()

	dir := opts.LedgerDir
	if dir == "" {
		dir = cfg.General.LedgerDir
	}
	if dir != "" {
		res, err := pipeline.Import(ctx, dir, opts.Ledger, cfg.AccrualFor, pipeline.ImportOptions{
			Progress: progress,
			Logger:   opts.Logger,
		})
		if err != nil {
			opts.Logger.Warn().Err(err).Str("dir", dir).Msg("ledger import failed")
		} else {
			d.Imported = res.Saved
		}
	}

	trips, err := opts.Ledger.ListTrips(ctx)
	if err != nil {
		d.Err = err
		return d
	}
	d.Trips = trips
	if len(trips) == 0 {
		return d
	}

	now := opts.Now()
	trip := trips[selectTrip(trips, ref, cfg.General.DefaultTrip, now)]

	d.Forecast, err = pipeline.ForecastTrip(ctx, opts.Ledger, cfg, trip.ID, now)
	if err != nil {
		d.Err = err
		return d
	}
	d.Snapshot, err = opts.Ledger.Snapshot(ctx, trip.ID)
	if err != nil {
		d.Err = err
	}
	return d
}

// selectTrip picks the index of the trip to show: an explicit reference,
// then the configured default, then one in progress, then the first.
func selectTrip(trips []model.Trip, ref, fallback string, now time.Time) int {
	for _, want := range []string{ref, fallback} {
		if want == "" {
			continue
		}
		for i, t := range trips {
			if t.ID == want || strings.EqualFold(t.Name, want) {
				return i
			}
		}
	}
	if cur, err := pipeline.CurrentTrip(trips, now); err == nil {
		for i, t := range trips {
			if t.ID == cur.ID {
				return i
			}
		}
	}
	return 0
}

// ─── Helpers ────────────────────────────────────────────────────

// dayLabels builds compact X-axis labels: the month on the first day and
// on month boundaries, the day number elsewhere.
func dayLabels(days []model.DaySpend) []string {
	labels := make([]string, len(days))
	prev := time.Month(0)
	for i, d := range days {
		if i == 0 || d.Date.Month() != prev {
			labels[i] = d.Date.Format("Jan")
		} else {
			labels[i] = fmt.Sprint(d.Date.Day())
		}
		prev = d.Date.Month()
	}
	return labels
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.PlaceHorizontal(w, lipgloss.Left, line, lipgloss.WithWhitespaceBackground(bg))
	}
	return strings.Join(lines, "\n")
}

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow the widths RenderTabBar uses.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		w := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+w {
			return i
		}
		pos += w + 1
	}
	return -1
}
