package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/pipeline"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every trip's forecast at a glance",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// runStatus forecasts each trip from a read-only snapshot; trips without a
// budget are not seeded here.
func runStatus(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	counts, err := l.Counts(ctx)
	if err != nil {
		return err
	}
	trips, err := l.ListTrips(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle("TRIPCAST STATUS"))
	fmt.Println()
	fmt.Printf("  Ledger: %s\n", dbPath())
	fmt.Printf("  %s trips · %s expenses · %s reservations · %s imported files\n\n",
		cli.FormatNumber(int64(counts.Trips)),
		cli.FormatNumber(int64(counts.Expenses)),
		cli.FormatNumber(int64(counts.Reservations)),
		cli.FormatNumber(int64(counts.TrackedFiles)))

	if len(trips) == 0 {
		fmt.Println("  No trips yet. Create one with `tripcast trip add`.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(trips))
	highlight := make(map[int]bool)
	for i, t := range trips {
		snap, err := l.Snapshot(ctx, t.ID)
		if err != nil {
			return err
		}
		r := pipeline.ForecastSnapshot(snap, cfg, now).Result
		rows = append(rows, []string{
			t.Name,
			cli.FormatProgress(r.DaysElapsed, r.TotalDays),
			cli.FormatMoney(r.TotalBudget),
			cli.FormatMoney(r.TotalForecast),
			cli.FormatNumber(int64(len(r.Alerts))),
		})
		highlight[i] = r.OverBudget() || len(r.Alerts) > 0
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"Trip", "Progress", "Budget", "Forecast", "Alerts"},
		Rows:      rows,
		Highlight: highlight,
	}))
	return nil
}
