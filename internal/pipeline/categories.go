package pipeline

import (
	"time"

	"github.com/theirongolddev/tripcast/internal/model"
)

// AccrualLookup resolves how a category's costs accrue.
type AccrualLookup interface {
	AccrualFor(category string) model.AccrualType
}

// BuildCategories assembles forecast inputs from ledger rows.
//
// One category is produced per budget row, in stored order. Spend and
// reservations are matched by exact category name. Categories that only
// appear on expenses or reservations are appended with a zero budget so the
// forecast can flag them.
func BuildCategories(
	budgets []model.Budget,
	expenses []model.Expense,
	reservations []model.Reservation,
	lookup AccrualLookup,
) []model.BudgetCategory {
	var order []string
	byName := make(map[string]*model.BudgetCategory)

	add := func(name string, accrual model.AccrualType, budget float64) *model.BudgetCategory {
		if !accrual.Valid() {
			accrual = lookup.AccrualFor(name)
		}
		c := &model.BudgetCategory{Category: name, AccrualType: accrual, Budget: budget}
		byName[name] = c
		order = append(order, name)
		return c
	}

	for _, b := range budgets {
		if c, ok := byName[b.Category]; ok {
			c.Budget += b.Amount
			continue
		}
		add(b.Category, b.AccrualType, b.Amount)
	}

	for _, e := range expenses {
		c, ok := byName[e.Category]
		if !ok {
			c = add(e.Category, "", 0)
		}
		c.Spent += e.Amount
	}

	for _, r := range reservations {
		c, ok := byName[r.Category]
		if !ok {
			c = add(r.Category, "", 0)
		}
		c.Reservations = append(c.Reservations, model.CategoryReservation{Amount: r.Amount, Confirmed: r.Confirmed})
		if !r.Confirmed {
			c.Planned += r.Amount
		}
	}

	out := make([]model.BudgetCategory, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

// SeedBudgets returns zero budgets for the given category names.
func SeedBudgets(tripID string, names []string, lookup AccrualLookup) []model.Budget {
	budgets := make([]model.Budget, 0, len(names))
	for _, name := range names {
		budgets = append(budgets, model.Budget{
			TripID:      tripID,
			Category:    name,
			AccrualType: lookup.AccrualFor(name),
		})
	}
	return budgets
}

// Timeline converts trip dates and the current instant into the day counts
// the forecast needs. totalDays counts both the first and last day. The
// current day counts as elapsed; before the trip nothing has elapsed and
// after it everything has.
func Timeline(start, end, now time.Time) (totalDays, daysElapsed int) {
	s := civilDay(start)
	e := civilDay(end)
	n := civilDay(now)

	totalDays = daysBetween(s, e) + 1
	if totalDays < 1 {
		totalDays = 1
	}

	if !n.Before(s) {
		daysElapsed = daysBetween(s, n) + 1
	}
	if daysElapsed > totalDays {
		daysElapsed = totalDays
	}
	return totalDays, daysElapsed
}

func civilDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// DailySpend sums expenses per calendar day over the trip range.
func DailySpend(expenses []model.Expense, start, end time.Time) []model.DaySpend {
	s := civilDay(start)
	total := daysBetween(s, civilDay(end)) + 1
	if total < 1 {
		return nil
	}

	days := make([]model.DaySpend, total)
	for i := range days {
		days[i].Date = s.AddDate(0, 0, i)
	}
	for _, e := range expenses {
		if e.SpentAt.IsZero() {
			continue
		}
		idx := daysBetween(s, civilDay(e.SpentAt))
		if idx < 0 || idx >= total {
			continue
		}
		days[idx].Amount += e.Amount
		days[idx].Count++
	}
	return days
}
