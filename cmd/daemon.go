package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tripcast/internal/cli"
	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/daemon"
)

// daemonRun is persisted while a daemon owns the run file.
type daemonRun struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	Schedule  string    `json:"schedule"`
	DBPath    string    `json:"db_path"`
	StartedAt time.Time `json:"started_at"`
}

var (
	flagDaemonAddr         string
	flagDaemonSchedule     string
	flagDaemonAllTrips     bool
	flagDaemonDetach       bool
	flagDaemonRunFile      string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
	flagDaemonChild        bool
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run a background forecast daemon with HTTP/SSE/WebSocket endpoints",
	Long: `Polls the ledger on a schedule, recomputes forecasts and publishes
alert changes as events over /v1/stream (SSE) and /v1/ws (WebSocket).`,
	RunE: runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "", "HTTP listen address (default from config)")
	pf.StringVar(&flagDaemonRunFile, "run-file", filepath.Join(config.DataDir(), "tripcastd.json"), "Run file holding the daemon pid and address")
	pf.StringVar(&flagDaemonLogFile, "log-file", filepath.Join(config.DataDir(), "tripcastd.log"), "Log file path for detached mode")

	f := daemonCmd.Flags()
	f.StringVar(&flagDaemonSchedule, "schedule", "", "Poll schedule, cron spec or @every duration (default from config)")
	f.BoolVar(&flagDaemonAllTrips, "all", false, "Track every trip, not only those in progress")
	f.IntVar(&flagDaemonEventsBuffer, "events-buffer", 0, "Max in-memory events retained (default from config)")
	f.BoolVar(&flagDaemonDetach, "detach", false, "Run daemon as a background process")
	f.BoolVar(&flagDaemonChild, "child", false, "Internal: mark detached child process")
	_ = f.MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

// daemonConfig merges flags over the [daemon] config section.
func daemonConfig() daemon.Config {
	dc := daemon.Config{
		Addr:         cfg.Daemon.Addr,
		Schedule:     cfg.Daemon.Schedule,
		EventsBuffer: cfg.Daemon.EventsBuffer,
		AllTrips:     cfg.Daemon.AllTrips || flagDaemonAllTrips,
		Lookup:       cfg,
		Logger:       log,
	}
	if flagDaemonAddr != "" {
		dc.Addr = flagDaemonAddr
	}
	if flagDaemonSchedule != "" {
		dc.Schedule = flagDaemonSchedule
	}
	if flagDaemonEventsBuffer > 0 {
		dc.EventsBuffer = flagDaemonEventsBuffer
	}
	return dc
}

func runDaemon(_ *cobra.Command, _ []string) error {
	switch {
	case flagDaemonDetach && flagDaemonChild:
		return errors.New("invalid daemon launch mode")
	case flagDaemonDetach:
		return startDaemonDetached()
	default:
		return runDaemonForeground()
	}
}

// startDaemonDetached re-executes the current command line as a child
// with output sent to the log file. The child claims the run file.
func startDaemonDetached() error {
	if err := claimRunFile(flagDaemonRunFile); err != nil {
		return err
	}
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	for _, dir := range []string{filepath.Dir(flagDaemonRunFile), filepath.Dir(flagDaemonLogFile)} {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}

	//nolint:gosec // daemon log path is configured by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log file: %w", err)
	}
	defer func() { _ = logf.Close() }()

	child := exec.Command(exe, append(filterDetachArg(os.Args[1:]), "--child")...) //nolint:gosec // re-exec of this binary
	child.Stdout, child.Stderr = logf, logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start detached daemon: %w", err)
	}

	fmt.Printf("  Started daemon (pid %d)\n", child.Process.Pid)
	fmt.Printf("  API: http://%s/v1/status\n", daemonConfig().Addr)
	fmt.Printf("  Log: %s\n", flagDaemonLogFile)
	return nil
}

func runDaemonForeground() error {
	if err := claimRunFile(flagDaemonRunFile); err != nil {
		return err
	}

	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	dc := daemonConfig()
	svc := daemon.New(dc, l)

	run := daemonRun{
		PID:       os.Getpid(),
		Addr:      dc.Addr,
		Schedule:  dc.Schedule,
		DBPath:    dbPath(),
		StartedAt: time.Now(),
	}
	if err := run.save(flagDaemonRunFile); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagDaemonRunFile) }()

	fmt.Printf("  tripcast daemon listening on http://%s\n", run.Addr)
	fmt.Printf("  Polling %s from %s\n", run.Schedule, run.DBPath)
	fmt.Printf("  Stop with: tripcast daemon stop --run-file %s\n", flagDaemonRunFile)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	run, err := loadRun(flagDaemonRunFile)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fmt.Println("  Daemon: not running")
		return nil
	case err != nil:
		return err
	case !run.alive():
		fmt.Printf("  Daemon: stale run file (pid %d not alive)\n", run.PID)
		return nil
	}

	fmt.Printf("  Daemon PID: %d (up %s)\n", run.PID, time.Since(run.StartedAt).Round(time.Second))
	fmt.Printf("  Address: http://%s\n", run.Addr)
	fmt.Printf("  Ledger: %s\n", run.DBPath)

	st, err := run.probe(cmd.Context())
	if err != nil {
		fmt.Printf("  API status: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s (%d so far, %s)\n",
			st.LastPollAt.Local().Format(time.RFC3339), st.PollCount, st.Schedule)
	}
	fmt.Printf("  Events: %d (%d subscribers)\n", st.EventCount, st.SubscriberCount)
	for _, t := range st.Trips {
		fmt.Printf("  %s: forecast %s of %s, %d alert(s)\n",
			t.Name, cli.FormatMoney(t.TotalForecast), cli.FormatMoney(t.TotalBudget), len(t.Alerts))
	}
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func runDaemonStop(cmd *cobra.Command, _ []string) error {
	run, err := loadRun(flagDaemonRunFile)
	if err != nil || !run.alive() {
		_ = os.Remove(flagDaemonRunFile)
		return errors.New("daemon is not running")
	}
	if err := syscall.Kill(run.PID, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon (pid %d): %w", run.PID, err)
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 8*time.Second)
	defer cancel()
	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
	for run.alive() {
		select {
		case <-ctx.Done():
			return fmt.Errorf("daemon (pid %d) did not exit in time", run.PID)
		case <-tick.C:
		}
	}
	_ = os.Remove(flagDaemonRunFile)
	fmt.Printf("  Stopped daemon (pid %d)\n", run.PID)
	return nil
}

func filterDetachArg(args []string) []string {
	out := make([]string, 0, len(args))
	for _, a := range args {
		if a == "--detach" || strings.HasPrefix(a, "--detach=") {
			continue
		}
		out = append(out, a)
	}
	return out
}

// claimRunFile fails when a live daemon owns path and clears a stale one.
func claimRunFile(path string) error {
	run, err := loadRun(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err == nil && run.alive():
		return fmt.Errorf("daemon already running (pid %d)", run.PID)
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale run file: %w", err)
	}
	return nil
}

func loadRun(path string) (daemonRun, error) {
	var run daemonRun
	data, err := os.ReadFile(path) //nolint:gosec // run file path is configured by the local user
	if err != nil {
		return run, err
	}
	if err := json.Unmarshal(data, &run); err != nil {
		return run, fmt.Errorf("parse %s: %w", path, err)
	}
	if run.PID <= 0 {
		return run, fmt.Errorf("invalid pid in %s", path)
	}
	return run, nil
}

func (r daemonRun) save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create daemon directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func (r daemonRun) alive() bool {
	err := syscall.Kill(r.PID, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}

func (r daemonRun) probe(ctx context.Context) (daemon.Status, error) {
	var st daemon.Status
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+r.Addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable (%w)", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response (%w)", err)
	}
	return st, nil
}
