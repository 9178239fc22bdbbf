package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tripcast/internal/model"
	"github.com/theirongolddev/tripcast/internal/pipeline"
)

// extraCategories are asked for on a second, optional page.
var extraCategories = []string{"Health", "Documentation", "Technology/SIM"}

// BudgetForm collects a budget amount per category for one trip.
type BudgetForm struct {
	Trip       model.Trip
	categories []string
	accrual    map[string]model.AccrualType
	values     []string
}

// NewBudgetForm prepares the wizard for trip. Existing budget rows set the
// category list and prefill amounts; otherwise seed is used.
func NewBudgetForm(trip model.Trip, existing []model.Budget, seed []string) *BudgetForm {
	f := &BudgetForm{Trip: trip, accrual: make(map[string]model.AccrualType)}

	if len(existing) == 0 {
		f.categories = append(f.categories, seed...)
		f.values = make([]string, len(seed))
		return f
	}
	for _, b := range existing {
		f.categories = append(f.categories, b.Category)
		f.accrual[b.Category] = b.AccrualType
		v := ""
		if b.Amount > 0 {
			v = decimal.NewFromFloat(b.Amount).StringFixed(2)
		}
		f.values = append(f.values, v)
	}
	return f
}

// Form builds the huh form bound to the wizard's values.
func (f *BudgetForm) Form() *huh.Form {
	var main, extra []huh.Field
	for i, c := range f.categories {
		field := huh.NewInput().
			Title(c).
			Placeholder("0").
			Value(&f.values[i]).
			Validate(validateAmount)
		if isExtra(c) {
			extra = append(extra, field)
		} else {
			main = append(main, field)
		}
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewNote().
				Title(fmt.Sprintf("Set up the budget for %s", f.Trip.Name)).
				Description("Amounts per category drive alerts and spending forecasts.\nLeave a field empty for no budget. You can change everything later."),
		),
	}
	if len(main) > 0 {
		groups = append(groups, huh.NewGroup(main...).
			Title("Budget by category").
			Description("Roughly split your budget (€)."))
	}
	if len(extra) > 0 {
		groups = append(groups, huh.NewGroup(extra...).
			Title("Extra categories (optional)").
			Description("These are often forgotten, but they add up."))
	}

	return huh.NewForm(groups...).WithShowHelp(true)
}

// Total sums the amounts entered so far, ignoring invalid ones.
func (f *BudgetForm) Total() float64 {
	var total float64
	for _, v := range f.values {
		if amt, err := parseAmount(v); err == nil {
			total += amt
		}
	}
	return total
}

// Budgets converts the entered values into budget rows. Categories keep
// their previous accrual type and fall back to lookup.
func (f *BudgetForm) Budgets(lookup pipeline.AccrualLookup) ([]model.Budget, error) {
	out := make([]model.Budget, 0, len(f.categories))
	for i, c := range f.categories {
		amt, err := parseAmount(f.values[i])
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c, err)
		}
		accrual, ok := f.accrual[c]
		if !ok {
			accrual = lookup.AccrualFor(c)
		}
		out = append(out, model.Budget{TripID: f.Trip.ID, Category: c, Amount: amt, AccrualType: accrual})
	}
	return out, nil
}

func isExtra(category string) bool {
	return slices.ContainsFunc(extraCategories, func(e string) bool {
		return strings.EqualFold(e, category)
	})
}

func validateAmount(s string) error {
	_, err := parseAmount(s)
	return err
}

// parseAmount reads a non-negative euro amount. Empty means zero; thousands
// separators and a trailing € are accepted.
func parseAmount(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "€"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount cannot be negative")
	}
	return d.Round(2).InexactFloat64(), nil
}
