// Package cmd implements the tripcast CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/logger"
	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/pipeline"
	"github.com/theirongolddev/tripcast/internal/store"
)

var (
	flagDB       string
	flagTrip     string
	flagQuiet    bool
	flagLogLevel string
)

// Loaded once per invocation by the root pre-run hook.
var (
	cfg config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "tripcast",
	Short: "Travel budget forecasts",
	Long: "Track a trip's budget, expenses and reservations, and forecast\n" +
		"whether each spending category will stay within its budget.",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	RunE:              runForecast,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Ledger database path (default from config)")
	rootCmd.PersistentFlags().StringVarP(&flagTrip, "trip", "t", "", "Trip name, ID or ID prefix")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return err
	}

	level := cfg.Log.Level
	switch {
	case flagLogLevel != "":
		level = flagLogLevel
	case flagQuiet:
		level = "error"
	}
	log = logger.New(logger.Config{Level: level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)
	return nil
}

// dbPath is --db when given, else the configured ledger path.
func dbPath() string {
	if flagDB != "" {
		return flagDB
	}
	return cfg.DBPath()
}

// openLedger opens the ledger database.
func openLedger() (*store.Ledger, error) {
	l, err := store.Open(dbPath())
	if err != nil {
		return nil, fmt.Errorf("opening ledger %s: %w", dbPath(), err)
	}
	return l, nil
}

// resolveTrip picks the trip a command works on: --trip, then the
// configured default, then the trip in progress today.
func resolveTrip(ctx context.Context, l *store.Ledger) (model.Trip, error) {
	ref := flagTrip
	if ref == "" {
		ref = cfg.General.DefaultTrip
	}
	if ref != "" {
		return l.FindTrip(ctx, ref)
	}

	trips, err := l.ListTrips(ctx)
	if err != nil {
		return model.Trip{}, err
	}
	trip, err := pipeline.CurrentTrip(trips, time.Now())
	if errors.Is(err, pipeline.ErrNoTrip) {
		return trip, fmt.Errorf("%w (pass --trip or set general.default_trip)", err)
	}
	return trip, err
}

// parseDay reads a YYYY-MM-DD date. Empty means today.
func parseDay(s string) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		y, m, d := time.Now().Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return t, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// parseAmount reads a non-negative amount rounded to cents.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount cannot be negative: %s", s)
	}
	return d.Round(2).InexactFloat64(), nil
}

// progressPrinter reports import progress on stderr unless --quiet.
func progressPrinter(label string) pipeline.ProgressFunc {
	return func(current, total int) {
		if flagQuiet {
			return
		}
		if current%50 == 0 || current == total {
			fmt.Fprintf(os.Stderr, "\r  %s [%d/%d]", label, current, total)
		}
		if current == total {
			fmt.Fprintln(os.Stderr)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// matchID resolves a full ID or unique prefix among ids.
func matchID(ref string, ids []string, what string) (string, error) {
	var found []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasPrefix(id, ref) {
			found = append(found, id)
		}
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%s %q: %w", what, ref, store.ErrNotFound)
	case 1:
		return found[0], nil
	default:
		return "", fmt.Errorf("%s %q matches %d rows: %w", what, ref, len(found), store.ErrAmbiguous)
	}
}
