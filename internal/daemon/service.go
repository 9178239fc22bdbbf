// Package daemon provides the long-running background forecast service.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/pipeline"
)

// Config controls the daemon runtime behavior.
type Config struct {
	Addr         string
	Schedule     string
	EventsBuffer int
	// AllTrips polls every trip instead of only those in progress today.
	AllTrips bool
	Lookup   pipeline.AccrualLookup
	Logger   zerolog.Logger
	// Now is the clock; tests replace it.
	Now func() time.Time
}

// TripSummary is a compact per-trip state for status and event payloads.
type TripSummary struct {
	TripID        string   `json:"trip_id"`
	Name          string   `json:"name"`
	TotalForecast float64  `json:"total_forecast"`
	TotalBudget   float64  `json:"total_budget"`
	TotalDays     int      `json:"total_days"`
	DaysElapsed   int      `json:"days_elapsed"`
	OverBudget    bool     `json:"over_budget"`
	Alerts        []string `json:"alerts"`
}

// Delta captures what changed for a trip between polls.
type Delta struct {
	Forecast      float64  `json:"forecast"`
	Budget        float64  `json:"budget"`
	NewAlerts     []string `json:"new_alerts,omitempty"`
	ClearedAlerts []string `json:"cleared_alerts,omitempty"`
}

func (d Delta) isZero() bool {
	return d.Forecast == 0 &&
		d.Budget == 0 &&
		len(d.NewAlerts) == 0 &&
		len(d.ClearedAlerts) == 0
}

// Event types.
const (
	EventSnapshot        = "snapshot"
	EventForecastChanged = "forecast_changed"
	EventTripRemoved     = "trip_removed"
)

// Event is emitted whenever a trip's forecast changes.
type Event struct {
	ID        int64       `json:"id"`
	Type      string      `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Trip      TripSummary `json:"trip"`
	Delta     Delta       `json:"delta"`
}

// Status is served at /v1/status.
type Status struct {
	StartedAt       time.Time     `json:"started_at"`
	LastPollAt      time.Time     `json:"last_poll_at"`
	Schedule        string        `json:"schedule"`
	PollCount       int64         `json:"poll_count"`
	AllTrips        bool          `json:"all_trips"`
	Trips           []TripSummary `json:"trips"`
	LastError       string        `json:"last_error,omitempty"`
	EventCount      int           `json:"event_count"`
	SubscriberCount int           `json:"subscriber_count"`
}

// Service provides the daemon runtime and HTTP API.
type Service struct {
	cfg    Config
	ledger Ledger
	log    zerolog.Logger

	pollMu sync.Mutex

	mu          sync.RWMutex
	startedAt   time.Time
	lastPollAt  time.Time
	pollCount   int64
	lastError   string
	forecasts   map[string]model.TripForecast
	nextEventID int64
	events      []Event

	nextSubID int
	subs      map[int]chan Event
}

// New returns a new daemon service with the provided config.
func New(cfg Config, ledger Ledger) *Service {
	if cfg.Schedule == "" {
		cfg.Schedule = "@every 15s"
	}
	if cfg.EventsBuffer < 1 {
		cfg.EventsBuffer = 200
	}
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8742"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Lookup == nil {
		cfg.Lookup = config.DefaultConfig()
	}

	return &Service{
		cfg:       cfg,
		ledger:    ledger,
		log:       cfg.Logger.With().Str("component", "daemon").Logger(),
		startedAt: cfg.Now(),
		forecasts: make(map[string]model.TripForecast),
		subs:      make(map[int]chan Event),
	}
}

// Run starts HTTP endpoints and scheduled polling until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	sched := cron.New(cron.WithSeconds())
	if _, err := sched.AddFunc(s.cfg.Schedule, func() { s.pollOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.cfg.Schedule, err)
	}

	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Seed initial forecasts so status is useful immediately.
	s.pollOnce(ctx)

	sched.Start()
	s.log.Info().Str("addr", s.cfg.Addr).Str("schedule", s.cfg.Schedule).Msg("daemon started")

	defer func() {
		<-sched.Stop().Done()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info().Msg("shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("daemon http server: %w", err)
	}
}

// pollOnce recomputes forecasts for the tracked trips and publishes events
// for the ones that changed. Concurrent calls are serialized.
func (s *Service) pollOnce(ctx context.Context) {
	s.pollMu.Lock()
	defer s.pollMu.Unlock()

	now := s.cfg.Now()
	current, err := s.computeForecasts(ctx, now)

	s.mu.Lock()
	s.lastPollAt = now
	s.pollCount++
	if err != nil {
		s.lastError = err.Error()
	} else {
		s.lastError = ""
	}
	if current == nil {
		s.mu.Unlock()
		s.log.Error().Err(err).Msg("poll failed")
		return
	}

	prev := s.forecasts
	s.forecasts = current
	events := s.diffLocked(prev, current, now)
	s.mu.Unlock()

	if err != nil {
		s.log.Warn().Err(err).Msg("poll completed with errors")
	}
	for _, ev := range events {
		s.publishEvent(ev)
	}
}

// computeForecasts returns nil only when the trip list itself could not be
// read. Per-trip failures keep the previous forecast and are reported.
func (s *Service) computeForecasts(ctx context.Context, now time.Time) (map[string]model.TripForecast, error) {
	var (
		trips []model.Trip
		err   error
	)
	if s.cfg.AllTrips {
		trips, err = s.ledger.ListTrips(ctx)
	} else {
		trips, err = s.ledger.ActiveTrips(ctx, now)
	}
	if err != nil {
		return nil, fmt.Errorf("listing trips: %w", err)
	}

	out := make(map[string]model.TripForecast, len(trips))
	var errs []error
	for _, t := range trips {
		snap, err := s.ledger.Snapshot(ctx, t.ID)
		if err != nil {
			errs = append(errs, fmt.Errorf("trip %s: %w", t.Name, err))
			s.mu.RLock()
			if old, ok := s.forecasts[t.ID]; ok {
				out[t.ID] = old
			}
			s.mu.RUnlock()
			continue
		}
		out[t.ID] = pipeline.ForecastSnapshot(snap, s.cfg.Lookup, now)
	}
	return out, errors.Join(errs...)
}

func (s *Service) diffLocked(prev, curr map[string]model.TripForecast, now time.Time) []Event {
	var events []Event

	for _, id := range sortedKeys(curr) {
		tf := curr[id]
		summary := summarize(tf)
		old, existed := prev[id]
		if !existed {
			events = append(events, s.newEventLocked(EventSnapshot, now, summary, Delta{}))
			continue
		}
		delta := diffForecasts(old.Result, tf.Result)
		if !delta.isZero() {
			events = append(events, s.newEventLocked(EventForecastChanged, now, summary, delta))
		}
	}

	for _, id := range sortedKeys(prev) {
		if _, ok := curr[id]; !ok {
			events = append(events, s.newEventLocked(EventTripRemoved, now, summarize(prev[id]), Delta{}))
		}
	}
	return events
}

func (s *Service) newEventLocked(typ string, now time.Time, trip TripSummary, delta Delta) Event {
	s.nextEventID++
	return Event{ID: s.nextEventID, Type: typ, Timestamp: now, Trip: trip, Delta: delta}
}

func summarize(tf model.TripForecast) TripSummary {
	alerts := tf.Result.Alerts
	if alerts == nil {
		alerts = []string{}
	}
	return TripSummary{
		TripID:        tf.Trip.ID,
		Name:          tf.Trip.Name,
		TotalForecast: tf.Result.TotalForecast,
		TotalBudget:   tf.Result.TotalBudget,
		TotalDays:     tf.Result.TotalDays,
		DaysElapsed:   tf.Result.DaysElapsed,
		OverBudget:    tf.Result.OverBudget(),
		Alerts:        alerts,
	}
}

func diffForecasts(prev, curr model.ForecastResult) Delta {
	return Delta{
		Forecast:      curr.TotalForecast - prev.TotalForecast,
		Budget:        curr.TotalBudget - prev.TotalBudget,
		NewAlerts:     missingFrom(curr.Alerts, prev.Alerts),
		ClearedAlerts: missingFrom(prev.Alerts, curr.Alerts),
	}
}

// missingFrom returns the entries of a that do not appear in b, in order.
func missingFrom(a, b []string) []string {
	seen := make(map[string]struct{}, len(b))
	for _, s := range b {
		seen[s] = struct{}{}
	}
	var out []string
	for _, s := range a {
		if _, ok := seen[s]; !ok {
			out = append(out, s)
		}
	}
	return out
}

func sortedKeys(m map[string]model.TripForecast) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *Service) publishEvent(ev Event) {
	s.mu.Lock()
	s.events = append(s.events, ev)
	if len(s.events) > s.cfg.EventsBuffer {
		s.events = s.events[len(s.events)-s.cfg.EventsBuffer:]
	}

	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trips := make([]TripSummary, 0, len(s.forecasts))
	for _, id := range sortedKeys(s.forecasts) {
		trips = append(trips, summarize(s.forecasts[id]))
	}

	return Status{
		StartedAt:       s.startedAt,
		LastPollAt:      s.lastPollAt,
		Schedule:        s.cfg.Schedule,
		PollCount:       s.pollCount,
		AllTrips:        s.cfg.AllTrips,
		Trips:           trips,
		LastError:       s.lastError,
		EventCount:      len(s.events),
		SubscriberCount: len(s.subs),
	}
}

// Forecast returns the latest forecast computed for a trip.
func (s *Service) Forecast(tripID string) (model.TripForecast, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tf, ok := s.forecasts[tripID]
	return tf, ok
}

func (s *Service) eventsSince(id int64) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]Event, 0, len(s.events))
	for _, ev := range s.events {
		if ev.ID > id {
			events = append(events, ev)
		}
	}
	return events
}

func (s *Service) addSubscriber(ch chan Event) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSubID++
	id := s.nextSubID
	s.subs[id] = ch
	return id
}

func (s *Service) removeSubscriber(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, id)
}
