// Package forecast projects the final spend of each budget category of a trip.
//
// Compute is pure: the same categories and day counts always produce the same
// result, and nothing is read from the clock or shared state.
package forecast

import (
	"fmt"
	"math"
	"strconv"

	"github.com/theirongolddev/tripcast/internal/model"
)

// Compute projects final spend for every category and collects advisory alerts.
// totalDays is floored at 1 and daysElapsed is clamped to [0, totalDays].
func Compute(categories []model.BudgetCategory, totalDays, daysElapsed int) model.ForecastResult {
	if totalDays < 1 {
		totalDays = 1
	}
	if daysElapsed < 0 {
		daysElapsed = 0
	}
	if daysElapsed > totalDays {
		daysElapsed = totalDays
	}

	d := days{
		total:   float64(totalDays),
		elapsed: float64(max(daysElapsed, 1)),
		left:    float64(max(totalDays-daysElapsed, 1)),
	}

	result := model.ForecastResult{
		Categories:  make([]model.CategoryForecast, 0, len(categories)),
		Alerts:      []string{},
		TotalDays:   totalDays,
		DaysElapsed: daysElapsed,
	}

	for _, c := range categories {
		cf, alerts := project(c, d)
		result.Categories = append(result.Categories, cf)
		result.Alerts = append(result.Alerts, alerts...)
		result.TotalForecast += cf.Forecast
		if c.Budget > 0 {
			result.TotalBudget += c.Budget
		}
	}
	return result
}

// days holds the divisors used by every category. elapsed and left are
// already floored at 1.
type days struct {
	total   float64
	elapsed float64
	left    float64
}

type reservationSums struct {
	confirmed   float64
	unconfirmed float64
}

func (s reservationSums) total() float64 { return s.confirmed + s.unconfirmed }

func sumReservations(rs []model.CategoryReservation) reservationSums {
	var s reservationSums
	for _, r := range rs {
		if r.Confirmed {
			s.confirmed += r.Amount
		} else {
			s.unconfirmed += r.Amount
		}
	}
	return s
}

func project(c model.BudgetCategory, d days) (model.CategoryForecast, []string) {
	cf := model.CategoryForecast{
		Category: c.Category,
		Budget:   c.Budget,
		Spent:    c.Spent,
		Planned:  c.Planned,
	}
	res := sumReservations(c.Reservations)

	if c.Budget == 0 {
		cf.FixedPart = res.total()
		cf.Forecast = c.Spent + cf.FixedPart
		cf.OverForecast = cf.Forecast
		cf.Alert = cf.Forecast > 0
		if cf.Alert {
			return cf, []string{fmt.Sprintf("%s has expenses or reservations but no budget defined", c.Category)}
		}
		return cf, nil
	}

	cf.FixedPart = res.total()
	cf.VariablePart = math.Max(0, c.Budget-cf.FixedPart)

	var alerts []string
	switch c.AccrualType {
	case model.AccrualFixed:
		alerts = projectFixed(&cf, c, res)
	case model.AccrualVariable:
		alerts = projectVariable(&cf, c, d)
	case model.AccrualMixed:
		alerts = projectMixed(&cf, c, res, d)
	default:
		cf.Forecast = c.Budget
	}

	cf.OverForecast = math.Max(0, cf.Forecast-c.Budget)
	cf.Alert = cf.OverForecast > 0
	return cf, alerts
}

// projectFixed treats the category as prepaid: actual spend plus pending
// bookings, or the plan itself while nothing has happened yet.
func projectFixed(cf *model.CategoryForecast, c model.BudgetCategory, res reservationSums) []string {
	active := c.Spent > 0
	for _, r := range c.Reservations {
		if r.Amount > 0 {
			active = true
			break
		}
	}

	if active {
		cf.Forecast = c.Spent + res.unconfirmed
	} else {
		cf.Forecast = c.Budget
	}

	if over := cf.Forecast - c.Budget; over > 0 {
		return []string{fmt.Sprintf("You must reduce %s costs by %s € to meet the budget", c.Category, formatAmount(over))}
	}
	return nil
}

// projectVariable extrapolates the current burn rate over the whole trip.
func projectVariable(cf *model.CategoryForecast, c model.BudgetCategory, d days) []string {
	remaining := c.Budget - c.Spent
	if c.Spent > 0 {
		cf.Forecast = (c.Spent / d.elapsed) * d.total
	} else {
		cf.Forecast = c.Budget
	}

	expectedDaily := c.Budget / d.total
	currentDaily := c.Spent / d.elapsed
	reduce := remaining / d.left

	if remaining <= 0 {
		return []string{overrunAlert(c.Category, remaining)}
	}
	if currentDaily > expectedDaily && reduce > 0 {
		allowance := remaining / d.left
		cf.DailyAllowance = &allowance
		return []string{fmt.Sprintf("You must reduce %s spending by %s € per day", c.Category, formatAmount(reduce))}
	}
	return nil
}

// projectMixed splits the budget into reservations and a daily slice and
// only extrapolates spend as a rate.
func projectMixed(cf *model.CategoryForecast, c model.BudgetCategory, res reservationSums, d days) []string {
	fixedTotal := res.total()

	variableSpent := c.Spent
	if res.confirmed > 0 {
		variableSpent = math.Max(0, c.Spent-res.confirmed)
	}
	variableBudget := math.Max(0, c.Budget-fixedTotal)
	variableRemaining := variableBudget - variableSpent

	// Confirmed bookings are already part of spent, so only the remainder is
	// treated as a daily rate.
	if variableSpent > 0 {
		cf.Forecast = fixedTotal + (variableSpent/d.elapsed)*d.total
	} else {
		cf.Forecast = fixedTotal
	}

	var allowance float64
	if variableRemaining > 0 {
		allowance = variableRemaining / d.left
		cf.DailyAllowance = &allowance
	}

	var alerts []string
	if fixedTotal > c.Budget {
		alerts = append(alerts, fmt.Sprintf("%s: fixed bookings exceed budget by %s €", c.Category, formatAmount(fixedTotal-c.Budget)))
	}

	expectedDaily := variableBudget / d.total
	currentDaily := variableSpent / d.elapsed
	switch {
	case variableRemaining <= 0:
		alerts = append(alerts, overrunAlert(c.Category, variableRemaining))
	case currentDaily > expectedDaily:
		alerts = append(alerts, fmt.Sprintf("%s: you can spend up to %s € per day", c.Category, formatAmount(allowance)))
	}
	return alerts
}

func overrunAlert(category string, remaining float64) string {
	return fmt.Sprintf(
		"%s: variable spending exceeded budget by %s €. Consider increasing the budget or reallocating from other categories",
		category, formatAmount(math.Abs(remaining)),
	)
}

// formatAmount prints whole euro amounts without decimals and everything
// else with cents.
func formatAmount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
