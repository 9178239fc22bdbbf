package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/model"
)

var (
	flagExpenseDesc string
	flagExpenseDate string
)

var expenseCmd = &cobra.Command{
	Use:   "expense",
	Short: "Record money spent",
}

var expenseAddCmd = &cobra.Command{
	Use:   "add <category> <amount>",
	Short: "Record an expense",
	Args:  cobra.ExactArgs(2),
	RunE:  runExpenseAdd,
}

var expenseListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the trip's expenses",
	RunE:    runExpenseList,
}

var expenseRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete an expense by ID or ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpenseRm,
}

func init() {
	expenseAddCmd.Flags().StringVarP(&flagExpenseDesc, "desc", "m", "", "Description")
	expenseAddCmd.Flags().StringVar(&flagExpenseDate, "date", "", "Day of the expense (YYYY-MM-DD, default today)")
	expenseCmd.AddCommand(expenseAddCmd, expenseListCmd, expenseRmCmd)
	rootCmd.AddCommand(expenseCmd)
}

func runExpenseAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[1])
	if err != nil {
		return err
	}
	day, err := parseDay(flagExpenseDate)
	if err != nil {
		return err
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
	e, err := l.AddExpense(cmd.Context(), model.Expense{
		TripID:      trip.ID,
		Category:    args[0],
		Amount:      amount,
		Description: flagExpenseDesc,
		SpentAt:     day,
	})
	if err != nil {
		return err
	}

	fmt.Printf("  %s: spent %s on %s (%s)\n", trip.Name, cli.FormatMoney(e.Amount), e.Category, shortID(e.ID))
	return nil
}

func runExpenseList(cmd *cobra.Command, _ []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := resolveTrip(cmd.Context(), l)
	if err != nil {
		return err
	}
	expenses, err := l.ListExpenses(cmd.Context(), trip.ID)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Printf("\n  No expenses recorded for %s.\n", trip.Name)
		return nil
	}

	var total float64
	rows := make([][]string, 0, len(expenses)+2)
	for _, e := range expenses {
		total += e.Amount
		rows = append(rows, []string{
			cli.FormatDate(e.SpentAt),
			e.Category,
			cli.FormatMoney(e.Amount),
			e.Description,
			shortID(e.ID),
		})
	}
	rows = append(rows, []string{"---"}, []string{"Total", "", cli.FormatMoney(total), "", ""})

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Expenses · " + trip.Name,
		Headers: []string{"Date", "Category", "Amount", "Description", "ID"},
		Rows:    rows,
	}))
	return nil
}

func runExpenseRm(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := resolveTrip(cmd.Context(), l)
	if err != nil {
		return err
	}
	expenses, err := l.ListExpenses(cmd.Context(), trip.ID)
	if err != nil {
		return err
	}
	ids := make([]string, len(expenses))
	for i, e := range expenses {
		ids[i] = e.ID
	}
	id, err := matchID(args[0], ids, "expense")
	if err != nil {
		return err
	}
	if err := l.DeleteExpense(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("  Deleted expense %s\n", shortID(id))
	return nil
}
