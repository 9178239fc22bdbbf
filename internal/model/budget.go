// Package model defines domain types for tripcast budgets and forecasts.
package model

// AccrualType describes how a category's costs are incurred over a trip.
type AccrualType string

const (
	// AccrualFixed costs are booked ahead and do not grow with trip length.
	AccrualFixed AccrualType = "fixed"
	// AccrualVariable costs accrue roughly linearly per day.
	AccrualVariable AccrualType = "variable"
	// AccrualMixed costs combine reservations with daily spending.
	AccrualMixed AccrualType = "mixed"
)

// Valid reports whether t is one of the known accrual types.
func (t AccrualType) Valid() bool {
	switch t {
	case AccrualFixed, AccrualVariable, AccrualMixed:
		return true
	}
	return false
}

// CategoryReservation is the slice of a reservation the forecast engine needs.
type CategoryReservation struct {
	Amount    float64 `json:"amount"`
	Confirmed bool    `json:"confirmed"`
}

// BudgetCategory is one spending bucket as fed to the forecast engine.
type BudgetCategory struct {
	Category     string                `json:"category"`
	AccrualType  AccrualType           `json:"accrual_type"`
	Budget       float64               `json:"budget"`
	Spent        float64               `json:"spent"`
	Planned      float64               `json:"planned"`
	Reservations []CategoryReservation `json:"reservations,omitempty"`
}

// CategoryForecast is the projection for a single category.
type CategoryForecast struct {
	Category       string   `json:"category"`
	Budget         float64  `json:"budget"`
	Spent          float64  `json:"spent"`
	Planned        float64  `json:"planned"`
	FixedPart      float64  `json:"fixed_part"`
	VariablePart   float64  `json:"variable_part"`
	Forecast       float64  `json:"forecast"`
	OverForecast   float64  `json:"over_forecast"`
	Alert          bool     `json:"alert"`
	DailyAllowance *float64 `json:"daily_allowance,omitempty"`
}

// ForecastResult is the trip-level output of a forecast run.
type ForecastResult struct {
	Categories    []CategoryForecast `json:"categories"`
	TotalForecast float64            `json:"total_forecast"`
	TotalBudget   float64            `json:"total_budget"`
	Alerts        []string           `json:"alerts"`
	TotalDays     int                `json:"total_days"`
	DaysElapsed   int                `json:"days_elapsed"`
}

// OverBudget reports whether the projected total exceeds the defined budget.
func (r ForecastResult) OverBudget() bool {
	return r.TotalForecast > r.TotalBudget
}

// AlertCount returns the number of categories flagged as over forecast.
func (r ForecastResult) AlertCount() int {
	n := 0
	for _, c := range r.Categories {
		if c.Alert {
			n++
		}
	}
	return n
}
