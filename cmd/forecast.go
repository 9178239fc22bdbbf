package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/export"
	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/pipeline"
)

var (
	flagForecastJSON   bool
	flagForecastExport string
	flagForecastOut    string
	flagForecastAsOf   string
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Forecast the trip's spending by category",
	RunE:  runForecast,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, forecastCmd} {
		c.Flags().BoolVar(&flagForecastJSON, "json", false, "Print the forecast as JSON")
		c.Flags().StringVar(&flagForecastExport, "export", "", "Write the forecast to a file: csv, json or pdf")
		c.Flags().StringVar(&flagForecastOut, "out", ".", "Directory for --export files")
		c.Flags().StringVar(&flagForecastAsOf, "as-of", "", "Forecast as of this day (YYYY-MM-DD, default today)")
	}
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, _ []string) error {
	now, err := parseDay(flagForecastAsOf)
	if err != nil {
		return err
	}

	var format export.Format
	if flagForecastExport != "" {
		if format, err = export.ParseFormat(flagForecastExport); err != nil {
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
	tf, err := pipeline.ForecastTrip(cmd.Context(), l, cfg, trip.ID, now)
	if err != nil {
		return err
	}

	switch {
	case flagForecastJSON:
		return export.WriteJSON(os.Stdout, tf)
	case format != "":
		path, err := export.ToFile(tf, format, flagForecastOut)
		if err != nil {
			return err
		}
		fmt.Printf("  Wrote %s\n", path)
		return nil
	}

	printForecast(tf)
	return nil
}

func printForecast(tf model.TripForecast) {
	r := tf.Result

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  ·  %s", tf.Trip.Name, cli.FormatProgress(r.DaysElapsed, r.TotalDays))))
	fmt.Println()

	var spent, planned float64
	rows := make([][]string, 0, len(r.Categories)+2)
	highlight := make(map[int]bool)
	for i, c := range r.Categories {
		spent += c.Spent
		planned += c.Planned
		over := ""
		if c.OverForecast > 0 {
			over = "+" + cli.FormatMoney(c.OverForecast)
		}
		rows = append(rows, []string{
			c.Category,
			cli.FormatMoney(c.Budget),
			cli.FormatMoney(c.Spent),
			cli.FormatMoney(c.Planned),
			cli.FormatMoney(c.Forecast),
			over,
			cli.FormatUsage(c.Spent, c.Budget),
		})
		highlight[i] = c.Alert
	}

	totalOver := ""
	if r.OverBudget() {
		totalOver = "+" + cli.FormatMoney(r.TotalForecast-r.TotalBudget)
	}
	rows = append(rows, []string{"---"}, []string{
		"Total",
		cli.FormatMoney(r.TotalBudget),
		cli.FormatMoney(spent),
		cli.FormatMoney(planned),
		cli.FormatMoney(r.TotalForecast),
		totalOver,
		cli.FormatUsage(spent, r.TotalBudget),
	})

	fmt.Print(cli.RenderTable(cli.Table{
		Headers:   []string{"Category", "Budget", "Spent", "Reserved", "Forecast", "Over", "Used"},
		Rows:      rows,
		Highlight: highlight,
	}))
	fmt.Println()
	fmt.Printf("  %s  %s\n\n", cli.RenderBudgetBar(spent, r.TotalBudget, 40), cli.FormatUsage(spent, r.TotalBudget))
	fmt.Print(cli.RenderAlerts(r.Alerts))
	fmt.Println()
}
