package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/tui"
	"github.com/theirongolddev/tripcast/internal/tui/theme"
)

var flagTUILedgerDir string

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive TUI dashboard",
	RunE:  runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&flagTUILedgerDir, "ledger-dir", "", "Import this directory on every refresh")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(cfg.Appearance.Theme)

	// Force TrueColor profile so all background styling produces ANSI codes
	// Without this, lipgloss may default to Ascii profile (no colors)
	lipgloss.SetColorProfile(termenv.TrueColor)

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	// Log lines would tear the alternate screen.
	app := tui.NewApp(tui.Options{
		Ledger:     l,
		Config:     cfg,
		TripRef:    flagTrip,
		LedgerDir:  flagTUILedgerDir,
		SaveConfig: config.Save,
		Logger:     zerolog.Nop(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
