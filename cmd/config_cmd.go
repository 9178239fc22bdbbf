package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func orNone(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}

func runConfig(_ *cobra.Command, _ []string) error {
	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Ledger database:  %s\n", dbPath())
	fmt.Printf("    Default trip:     %s\n", orNone(cfg.General.DefaultTrip))
	fmt.Printf("    Ledger directory: %s\n", orNone(cfg.General.LedgerDir))
	fmt.Println()

	fmt.Println("  [Categories]")
	for _, name := range cfg.SeedCategories() {
		fmt.Printf("    %-20s %s\n", name, cfg.AccrualFor(name))
	}
	var extra []string
	for name := range cfg.Categories.Accrual {
		if !slices.Contains(cfg.SeedCategories(), name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		fmt.Printf("    %-20s %s (override)\n", name, cfg.AccrualFor(name))
	}
	fmt.Println()

	fmt.Println("  [Daemon]")
	fmt.Printf("    Address:       %s\n", cfg.Daemon.Addr)
	fmt.Printf("    Schedule:      %s\n", cfg.Daemon.Schedule)
	fmt.Printf("    Events buffer: %d\n", cfg.Daemon.EventsBuffer)
	fmt.Printf("    All trips:     %v\n", cfg.Daemon.AllTrips)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [TUI]")
	fmt.Printf("    Auto refresh:     %v\n", cfg.TUI.AutoRefresh)
	fmt.Printf("    Refresh interval: %ds\n", cfg.TUI.RefreshIntervalSec)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:  %s\n", cfg.Log.Level)
	fmt.Printf("    Pretty: %v\n", cfg.Log.Pretty)
	fmt.Println()

	fmt.Println("  Run `tripcast tui` and open Settings [x] to change common options.")
	return nil
}
