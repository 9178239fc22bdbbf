package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/model"
)

var flagBudgetAccrual string

var budgetCmd = &cobra.Command{
	Use:   "budget",
	Short: "Manage category budgets",
}

var budgetSetCmd = &cobra.Command{
	Use:   "set <category> <amount>",
	Short: "Set the budget of one category",
	Args:  cobra.ExactArgs(2),
	RunE:  runBudgetSet,
}

var budgetShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the trip's budget by category",
	RunE:  runBudgetShow,
}

func init() {
	budgetSetCmd.Flags().StringVar(&flagBudgetAccrual, "accrual", "", "How costs accrue: fixed, variable or mixed (default from config)")
	budgetCmd.AddCommand(budgetSetCmd, budgetShowCmd)
	rootCmd.AddCommand(budgetCmd)
}

func runBudgetSet(cmd *cobra.Command, args []string) error {
	category := args[0]
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}

	accrual := cfg.AccrualFor(category)
	if flagBudgetAccrual != "" {
		accrual = model.AccrualType(flagBudgetAccrual)
		if !accrual.Valid() {
			return fmt.Errorf("unknown accrual type %q (want fixed, variable or mixed)", flagBudgetAccrual)
		}
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := resolveTrip(cmd.Context(), l)
	if err != nil {
		return err
	}
	err = l.SetBudget(cmd.Context(), model.Budget{
		TripID:      trip.ID,
		Category:    category,
		Amount:      amount,
		AccrualType: accrual,
	})
	if err != nil {
		return err
	}

	fmt.Printf("  %s: %s budget for %s (%s)\n", trip.Name, cli.FormatMoney(amount), category, accrual)
	return nil
}

func runBudgetShow(cmd *cobra.Command, _ []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := resolveTrip(cmd.Context(), l)
	if err != nil {
		return err
	}
	budgets, err := l.ListBudgets(cmd.Context(), trip.ID)
	if err != nil {
		return err
	}
	if len(budgets) == 0 {
		fmt.Printf("\n  %s has no budget yet. Run `tripcast setup`.\n", trip.Name)
		return nil
	}

	var total float64
	rows := make([][]string, 0, len(budgets)+2)
	for _, b := range budgets {
		total += b.Amount
		rows = append(rows, []string{b.Category, string(b.AccrualType), cli.FormatMoney(b.Amount)})
	}
	rows = append(rows, []string{"---"}, []string{"Total", "", cli.FormatMoney(total)})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Budget · " + trip.Name,
		Headers: []string{"Category", "Accrual", "Budget"},
		Rows:    rows,
	}))
	return nil
}
