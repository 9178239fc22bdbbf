package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// tripNamespace derives stable trip IDs from trip names so that ledger files
// and interactive commands agree on identity without a lookup.
var tripNamespace = uuid.MustParse("6f1c3f5e-8f2b-4a8e-9d4c-2b7a1e5d9c30")

// TripIDFor returns the ID a trip with the given name is stored under.
func TripIDFor(name string) string {
	return uuid.NewSHA1(tripNamespace, []byte(strings.ToLower(strings.TrimSpace(name)))).String()
}

// Trip is a planned journey with a date range and a budget.
type Trip struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Destination     string    `json:"destination,omitempty"`
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	BudgetSetupDone bool      `json:"budget_setup_done"`
	CreatedAt       time.Time `json:"created_at"`
}

// Budget is the amount allotted to one category of a trip.
type Budget struct {
	TripID      string      `json:"trip_id"`
	Category    string      `json:"category"`
	Amount      float64     `json:"amount"`
	AccrualType AccrualType `json:"accrual_type"`
}

// Expense is money already spent during a trip.
type Expense struct {
	ID          string    `json:"id"`
	TripID      string    `json:"trip_id"`
	Category    string    `json:"category"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
	SpentAt     time.Time `json:"spent_at"`
}

// Reservation is a booking attached to a trip, confirmed or still pending.
type Reservation struct {
	ID        string    `json:"id"`
	TripID    string    `json:"trip_id"`
	Category  string    `json:"category"`
	Name      string    `json:"name"`
	Amount    float64   `json:"amount"`
	Confirmed bool      `json:"confirmed"`
	Date      time.Time `json:"date"`
}

// TripForecast ties a forecast result to the trip and the instant it was computed for.
type TripForecast struct {
	Trip       Trip           `json:"trip"`
	Result     ForecastResult `json:"result"`
	ComputedAt time.Time      `json:"computed_at"`
}

// Batch is everything parsed from one ledger file.
type Batch struct {
	FilePath     string
	Trips        []Trip
	Budgets      []Budget
	Expenses     []Expense
	Reservations []Reservation
}

// Empty reports whether the batch carries no rows.
func (b Batch) Empty() bool {
	return len(b.Trips)+len(b.Budgets)+len(b.Expenses)+len(b.Reservations) == 0
}

// DaySpend is the money spent on one calendar day of a trip.
type DaySpend struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
	Count  int       `json:"count"`
}
