package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/store"
)

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}

var lisbon = model.Trip{
	ID:        model.TripIDFor("Lisbon"),
	Name:      "Lisbon",
	StartDate: day("2026-05-01"),
	EndDate:   day("2026-05-07"),
}

func lisbonSnapshot(spent ...float64) store.Snapshot {
	snap := store.Snapshot{
		Trip:    lisbon,
		Budgets: []model.Budget{{TripID: lisbon.ID, Category: "Meals", Amount: 100, AccrualType: model.AccrualVariable}},
	}
	for _, amount := range spent {
		snap.Expenses = append(snap.Expenses, model.Expense{TripID: lisbon.ID, Category: "Meals", Amount: amount})
	}
	return snap
}

func newTestService(t *testing.T, ledger Ledger) *Service {
	t.Helper()
	return New(Config{
		EventsBuffer: 50,
		Logger:       zerolog.Nop(),
		Now:          func() time.Time { return day("2026-05-02").Add(10 * time.Hour) },
	}, ledger)
}

func TestDiffForecasts(t *testing.T) {
	prev := model.ForecastResult{TotalForecast: 100, TotalBudget: 500, Alerts: []string{"a", "b"}}
	curr := model.ForecastResult{TotalForecast: 130.5, TotalBudget: 500, Alerts: []string{"b", "c"}}

	delta := diffForecasts(prev, curr)
	assert.Equal(t, 30.5, delta.Forecast)
	assert.Zero(t, delta.Budget)
	assert.Equal(t, []string{"c"}, delta.NewAlerts)
	assert.Equal(t, []string{"a"}, delta.ClearedAlerts)
	assert.False(t, delta.isZero())

	assert.True(t, diffForecasts(curr, curr).isZero())
}

func TestPublishEventRingBuffer(t *testing.T) {
	s := New(Config{EventsBuffer: 2, Logger: zerolog.Nop()}, nil)

	s.publishEvent(Event{ID: 1})
	s.publishEvent(Event{ID: 2})
	s.publishEvent(Event{ID: 3})

	s.mu.RLock()
	defer s.mu.RUnlock()

	require.Len(t, s.events, 2)
	assert.Equal(t, int64(2), s.events[0].ID)
	assert.Equal(t, int64(3), s.events[1].ID)
}

func TestPollOnce_EventLifecycle(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := NewMockLedger(ctrl)

	active := []model.Trip{lisbon}
	snap := lisbonSnapshot(10)

	ledger.EXPECT().ActiveTrips(gomock.Any(), gomock.Any()).
		DoAndReturn(func(context.Context, time.Time) ([]model.Trip, error) { return active, nil }).
		AnyTimes()
	ledger.EXPECT().Snapshot(gomock.Any(), lisbon.ID).
		DoAndReturn(func(context.Context, string) (store.Snapshot, error) { return snap, nil }).
		AnyTimes()

	s := newTestService(t, ledger)
	ctx := context.Background()

	s.pollOnce(ctx)
	events := s.eventsSince(0)
	require.Len(t, events, 1)
	assert.Equal(t, EventSnapshot, events[0].Type)
	assert.Equal(t, 35.0, events[0].Trip.TotalForecast)
	assert.Empty(t, events[0].Trip.Alerts)

	s.pollOnce(ctx)
	assert.Len(t, s.eventsSince(0), 1, "unchanged forecast publishes nothing")

	snap = lisbonSnapshot(10, 60)
	s.pollOnce(ctx)
	events = s.eventsSince(1)
	require.Len(t, events, 1)
	assert.Equal(t, EventForecastChanged, events[0].Type)
	assert.Equal(t, 210.0, events[0].Delta.Forecast)
	assert.Equal(t, []string{"You must reduce Meals spending by 6 € per day"}, events[0].Delta.NewAlerts)
	assert.True(t, events[0].Trip.OverBudget)

	active = nil
	s.pollOnce(ctx)
	events = s.eventsSince(2)
	require.Len(t, events, 1)
	assert.Equal(t, EventTripRemoved, events[0].Type)
	assert.Equal(t, lisbon.ID, events[0].Trip.TripID)

	status := s.snapshotStatus()
	assert.Equal(t, int64(4), status.PollCount)
	assert.Empty(t, status.Trips)
	assert.Empty(t, status.LastError)
}

func TestPollOnce_AllTripsUsesListTrips(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := NewMockLedger(ctrl)
	ledger.EXPECT().ListTrips(gomock.Any()).Return([]model.Trip{lisbon}, nil)
	ledger.EXPECT().Snapshot(gomock.Any(), lisbon.ID).Return(lisbonSnapshot(), nil)

	s := New(Config{AllTrips: true, Logger: zerolog.Nop()}, ledger)
	s.pollOnce(context.Background())

	_, ok := s.Forecast(lisbon.ID)
	assert.True(t, ok)
}

func TestPollOnce_ErrorsAreReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	ledger := NewMockLedger(ctrl)

	gomock.InOrder(
		ledger.EXPECT().ActiveTrips(gomock.Any(), gomock.Any()).Return([]model.Trip{lisbon}, nil),
		ledger.EXPECT().ActiveTrips(gomock.Any(), gomock.Any()).Return(nil, errors.New("database is locked")),
		ledger.EXPECT().ActiveTrips(gomock.Any(), gomock.Any()).Return([]model.Trip{lisbon}, nil),
	)
	gomock.InOrder(
		ledger.EXPECT().Snapshot(gomock.Any(), lisbon.ID).Return(lisbonSnapshot(10), nil),
		ledger.EXPECT().Snapshot(gomock.Any(), lisbon.ID).Return(store.Snapshot{}, errors.New("disk I/O error")),
	)

	s := newTestService(t, ledger)
	ctx := context.Background()

	s.pollOnce(ctx)
	s.pollOnce(ctx)
	status := s.snapshotStatus()
	assert.Contains(t, status.LastError, "database is locked")
	require.Len(t, status.Trips, 1, "a failed listing keeps the previous forecasts")

	s.pollOnce(ctx)
	status = s.snapshotStatus()
	assert.Contains(t, status.LastError, "disk I/O error")
	require.Len(t, status.Trips, 1, "a failed trip read keeps its previous forecast")
	assert.Equal(t, 35.0, status.Trips[0].TotalForecast)
	assert.Len(t, s.eventsSince(0), 1)
}

func seededService(t *testing.T) *Service {
	t.Helper()
	ctrl := gomock.NewController(t)
	ledger := NewMockLedger(ctrl)
	ledger.EXPECT().ActiveTrips(gomock.Any(), gomock.Any()).Return([]model.Trip{lisbon}, nil).AnyTimes()
	ledger.EXPECT().Snapshot(gomock.Any(), lisbon.ID).Return(lisbonSnapshot(10), nil).AnyTimes()

	s := newTestService(t, ledger)
	s.pollOnce(context.Background())
	return s
}

func TestRouter(t *testing.T) {
	s := seededService(t)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", "/healthz", http.StatusOK, "ok"},
		{"status", "/v1/status", http.StatusOK, `"poll_count":1`},
		{"trips", "/v1/trips", http.StatusOK, `"name":"Lisbon"`},
		{"forecast", "/v1/trips/" + lisbon.ID + "/forecast", http.StatusOK, `"total_forecast":35`},
		{"unknown trip", "/v1/trips/nope/forecast", http.StatusNotFound, "trip not tracked"},
		{"events", "/v1/events?since=0", http.StatusOK, `"type":"snapshot"`},
		{"bad since", "/v1/events?since=abc", http.StatusBadRequest, "invalid since"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var sb strings.Builder
			_, err = bufio.NewReader(resp.Body).WriteTo(&sb)
			require.NoError(t, err)
			assert.Contains(t, sb.String(), tt.wantBody)
		})
	}
}

func TestStream_SendsCurrentState(t *testing.T) {
	s := seededService(t)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/stream", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "event: snapshot\n", line)

	line, err = reader.ReadString('\n')
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(line, "data: "))

	var ev Event
	require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
	assert.Equal(t, "Lisbon", ev.Trip.Name)
}

func TestWebSocket_SendsCurrentStateThenLiveEvents(t *testing.T) {
	s := seededService(t)
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/v1/ws", nil)
	require.NoError(t, err)
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	var ev Event
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, EventSnapshot, ev.Type)
	assert.Equal(t, lisbon.ID, ev.Trip.TripID)

	// The subscriber is registered before the current state is sent.
	s.publishEvent(Event{ID: 99, Type: EventForecastChanged, Trip: TripSummary{TripID: lisbon.ID}})
	require.NoError(t, wsjson.Read(ctx, conn, &ev))
	assert.Equal(t, int64(99), ev.ID)
}
