package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/pipeline"
)

var dailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Daily spending table",
	RunE:  runDaily,
}

func init() {
	rootCmd.AddCommand(dailyCmd)
}

func runDaily(cmd *cobra.Command, _ []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := resolveTrip(cmd.Context(), l)
	if err != nil {
		return err
	}
	snap, err := l.Snapshot(cmd.Context(), trip.ID)
	if err != nil {
		return err
	}

	// Only days up to today have happened.
	end := trip.EndDate
	if today, _ := parseDay(""); today.Before(end) {
		end = today
	}
	days := pipeline.DailySpend(snap.Expenses, trip.StartDate, end)
	if len(days) == 0 {
		fmt.Printf("\n  %s has not started yet.\n", trip.Name)
		return nil
	}

	var budget float64
	for _, b := range snap.Budgets {
		budget += b.Amount
	}
	totalDays, _ := pipeline.Timeline(trip.StartDate, trip.EndDate, time.Now())
	perDay := budget / float64(totalDays)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("DAILY SPENDING  %s", trip.Name)))
	fmt.Println()

	values := make([]float64, len(days))
	rows := make([][]string, 0, len(days))
	highlight := make(map[int]bool)
	for i, d := range days {
		values[i] = d.Amount
		rows = append(rows, []string{
			cli.FormatDate(d.Date),
			cli.FormatDayOfWeek(int(d.Date.Weekday())),
			cli.FormatNumber(int64(d.Count)),
			cli.FormatMoney(d.Amount),
		})
		highlight[i] = perDay > 0 && d.Amount > perDay
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"Date", "Day", "Expenses", "Amount"},
		Rows:      rows,
		Highlight: highlight,
	}))
	fmt.Println()
	fmt.Printf("  %s\n", cli.RenderSparkline(values))
	if perDay > 0 {
		fmt.Printf("  Even split of the budget: %s per day\n", cli.FormatMoney(perDay))
	}
	return nil
}
