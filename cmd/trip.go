package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/pipeline"
)

var (
	flagTripStart string
	flagTripEnd   string
	flagTripDest  string
)

var tripCmd = &cobra.Command{
	Use:   "trip",
	Short: "Manage trips",
}

var tripAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Create or update a trip",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripAdd,
}

var tripListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List trips",
	RunE:    runTripList,
}

var tripRmCmd = &cobra.Command{
	Use:   "rm <trip>",
	Short: "Delete a trip with its budgets, expenses and reservations",
	Args:  cobra.ExactArgs(1),
	RunE:  runTripRm,
}

func init() {
	tripAddCmd.Flags().StringVar(&flagTripStart, "start", "", "First day of the trip (YYYY-MM-DD)")
	tripAddCmd.Flags().StringVar(&flagTripEnd, "end", "", "Last day of the trip (YYYY-MM-DD)")
	tripAddCmd.Flags().StringVar(&flagTripDest, "dest", "", "Destination")
	_ = tripAddCmd.MarkFlagRequired("start")
	_ = tripAddCmd.MarkFlagRequired("end")

	tripCmd.AddCommand(tripAddCmd, tripListCmd, tripRmCmd)
	rootCmd.AddCommand(tripCmd)
}

func runTripAdd(cmd *cobra.Command, args []string) error {
	start, err := parseDay(flagTripStart)
	if err != nil {
		return err
	}
	end, err := parseDay(flagTripEnd)
	if err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := l.SaveTrip(cmd.Context(), model.Trip{
		Name:        args[0],
		Destination: flagTripDest,
		StartDate:   start,
		EndDate:     end,
	})
	if err != nil {
		return err
	}

	total, _ := pipeline.Timeline(trip.StartDate, trip.EndDate, trip.StartDate)
	fmt.Printf("  Saved trip %s (%s, %d days)\n", trip.Name, shortID(trip.ID), total)
	fmt.Println("  Run `tripcast setup` to set its budget.")
	return nil
}

func runTripList(cmd *cobra.Command, _ []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trips, err := l.ListTrips(cmd.Context())
	if err != nil {
		return err
	}
	if len(trips) == 0 {
		fmt.Println("\n  No trips yet. Create one with `tripcast trip add`.")
		return nil
	}

	now := time.Now()
	rows := make([][]string, 0, len(trips))
	for _, t := range trips {
		total, elapsed := pipeline.Timeline(t.StartDate, t.EndDate, now)
		setup := "no"
		if t.BudgetSetupDone {
			setup = "yes"
		}
		rows = append(rows, []string{
			shortID(t.ID),
			t.Name,
			t.Destination,
			cli.FormatDate(t.StartDate) + " → " + cli.FormatDate(t.EndDate),
			cli.FormatProgress(elapsed, total),
			setup,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Trips",
		Headers: []string{"ID", "Name", "Destination", "Dates", "Progress", "Budget"},
		Rows:    rows,
	}))
	return nil
}

func runTripRm(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := l.FindTrip(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := l.DeleteTrip(cmd.Context(), trip.ID); err != nil {
		return err
	}
	fmt.Printf("  Deleted trip %s\n", trip.Name)
	return nil
}
