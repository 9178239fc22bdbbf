package cmd

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Budget setup wizard for a trip",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := resolveTrip(ctx, l)
	if err != nil {
		return err
	}
	budgets, err := l.ListBudgets(ctx, trip.ID)
	if err != nil {
		return err
	}

	form := tui.NewBudgetForm(trip, budgets, cfg.SeedCategories())
	if err := form.Form().Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	budgets, err = form.Budgets(cfg)
	if err != nil {
		return err
	}
	if err := l.ReplaceBudgets(ctx, trip.ID, budgets); err != nil {
		return err
	}
	if err := l.MarkBudgetSetup(ctx, trip.ID); err != nil {
		return err
	}

	// First run also writes a config file so it can be edited by hand.
	if !config.Exists() {
		if err := config.Save(cfg); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Printf("  Wrote default config to %s\n", config.ConfigPath())
	}

	fmt.Println()
	fmt.Printf("  Saved a %s budget for %s across %d categories.\n",
		cli.FormatMoney(form.Total()), trip.Name, len(budgets))
	fmt.Println("  Run `tripcast forecast` to see where it is heading.")
	fmt.Println()
	return nil
}
