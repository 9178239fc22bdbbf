package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/model"
)

var (
	flagReserveConfirmed bool
	flagReserveDate      string
)

var reserveCmd = &cobra.Command{
	Use:   "reserve",
	Short: "Manage bookings",
}

var reserveAddCmd = &cobra.Command{
	Use:   "add <category> <name> <amount>",
	Short: "Record a reservation",
	Args:  cobra.ExactArgs(3),
	RunE:  runReserveAdd,
}

var reserveConfirmCmd = &cobra.Command{
	Use:   "confirm <id>",
	Short: "Mark a reservation as confirmed",
	Args:  cobra.ExactArgs(1),
	RunE:  runReserveConfirm,
}

var reserveListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the trip's reservations",
	RunE:    runReserveList,
}

func init() {
	reserveAddCmd.Flags().BoolVar(&flagReserveConfirmed, "confirmed", false, "The booking is already confirmed")
	reserveAddCmd.Flags().StringVar(&flagReserveDate, "date", "", "Day the booking is for (YYYY-MM-DD)")
	reserveCmd.AddCommand(reserveAddCmd, reserveConfirmCmd, reserveListCmd)
	rootCmd.AddCommand(reserveCmd)
}

func runReserveAdd(cmd *cobra.Command, args []string) error {
	amount, err := parseAmount(args[2])
	if err != nil {
		return err
	}
	r := model.Reservation{
		Category:  args[0],
		Name:      args[1],
		Amount:    amount,
		Confirmed: flagReserveConfirmed,
	}
	if flagReserveDate != "" {
		if r.Date, err = parseDay(flagReserveDate); err != nil {
			return err
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
	r.TripID = trip.ID
	r, err = l.AddReservation(cmd.Context(), r)
	if err != nil {
		return err
	}

	state := "pending"
	if r.Confirmed {
		state = "confirmed"
	}
	fmt.Printf("  %s: %s reservation %q for %s (%s)\n", trip.Name, state, r.Name, cli.FormatMoney(r.Amount), shortID(r.ID))
	return nil
}

func runReserveConfirm(cmd *cobra.Command, args []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := resolveTrip(cmd.Context(), l)
	if err != nil {
		return err
	}
	reservations, err := l.ListReservations(cmd.Context(), trip.ID)
	if err != nil {
		return err
	}
	ids := make([]string, len(reservations))
	for i, r := range reservations {
		ids[i] = r.ID
	}
	id, err := matchID(args[0], ids, "reservation")
	if err != nil {
		return err
	}
	if err := l.ConfirmReservation(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Printf("  Confirmed reservation %s\n", shortID(id))
	return nil
}

func runReserveList(cmd *cobra.Command, _ []string) error {
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	trip, err := resolveTrip(cmd.Context(), l)
	if err != nil {
		return err
	}
	reservations, err := l.ListReservations(cmd.Context(), trip.ID)
	if err != nil {
		return err
	}
	if len(reservations) == 0 {
		fmt.Printf("\n  No reservations for %s.\n", trip.Name)
		return nil
	}

	rows := make([][]string, 0, len(reservations))
	for _, r := range reservations {
		state := "pending"
		if r.Confirmed {
			state = "confirmed"
		}
		rows = append(rows, []string{
			cli.FormatDate(r.Date),
			r.Category,
			r.Name,
			cli.FormatMoney(r.Amount),
			state,
			shortID(r.ID),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Reservations · " + trip.Name,
		Headers: []string{"Date", "Category", "Name", "Amount", "State", "ID"},
		Rows:    rows,
	}))
	return nil
}
