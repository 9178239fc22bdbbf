package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/theirongolddev/tripcast/internal/model"
)

// DefaultCategories are seeded with a zero budget for every new trip.
var DefaultCategories = []string{
	"Flights",
	"Accommodation",
	"Internal Transport",
	"Health",
	"Documentation",
	"Activities",
	"Meals",
	"Technology/SIM",
	"Others",
}

// DefaultAccrual maps well-known category names to how their costs accrue.
// Anything not listed here is treated as mixed.
var DefaultAccrual = map[string]model.AccrualType{
	"Flights":            model.AccrualFixed,
	"Documentation":      model.AccrualFixed,
	"Health":             model.AccrualFixed,
	"Meals":              model.AccrualVariable,
	"Accommodation":      model.AccrualMixed,
	"Internal Transport": model.AccrualMixed,
	"Activities":         model.AccrualMixed,
	"Technology/SIM":     model.AccrualMixed,
	"Others":             model.AccrualMixed,
}

// CategoriesConfig lets users add categories and override accrual types.
type CategoriesConfig struct {
	Defaults []string                     `toml:"defaults,omitempty"`
	Accrual  map[string]model.AccrualType `toml:"accrual,omitempty"`
}

// Validate rejects accrual overrides that name an unknown type.
func (c CategoriesConfig) Validate() error {
	names := make([]string, 0, len(c.Accrual))
	for name := range c.Accrual {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if t := c.Accrual[name]; !t.Valid() {
			return fmt.Errorf("category %q: unknown accrual type %q", name, t)
		}
	}
	return nil
}

// AccrualFor resolves the accrual type of a category. User overrides win,
// then the built-in table; names match case-insensitively.
func (c Config) AccrualFor(category string) model.AccrualType {
	if t, ok := lookupFold(c.Categories.Accrual, category); ok {
		return t
	}
	if t, ok := lookupFold(DefaultAccrual, category); ok {
		return t
	}
	return model.AccrualMixed
}

// SeedCategories returns the category names a new trip starts with.
func (c Config) SeedCategories() []string {
	if len(c.Categories.Defaults) > 0 {
		return c.Categories.Defaults
	}
	return DefaultCategories
}

func lookupFold(m map[string]model.AccrualType, category string) (model.AccrualType, bool) {
	if t, ok := m[category]; ok {
		return t, true
	}
	for name, t := range m {
		if strings.EqualFold(name, strings.TrimSpace(category)) {
			return t, true
		}
	}
	return "", false
}
