package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tripcast/internal/config"
	"github.com/theirongolddev/tripcast/internal/model"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"", 0, false},
		{"  ", 0, false},
		{"250", 250, false},
		{"1,250.50", 1250.5, false},
		{"80 €", 80, false},
		{"12.345", 12.35, false},
		{"-5", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseAmount(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestBudgetForm_SeedsAndConverts(t *testing.T) {
	trip := model.Trip{ID: "t1", Name: "Lisbon"}
	cfg := config.DefaultConfig()

	f := NewBudgetForm(trip, nil, cfg.SeedCategories())
	require.Len(t, f.values, len(f.categories))
	require.NotNil(t, f.Form())

	for i, c := range f.categories {
		switch c {
		case "Flights":
			f.values[i] = "400"
		case "Meals":
			f.values[i] = "150.25"
		}
	}
	assert.InDelta(t, 550.25, f.Total(), 1e-9)

	budgets, err := f.Budgets(cfg)
	require.NoError(t, err)
	require.Len(t, budgets, len(f.categories))
	for _, b := range budgets {
		assert.Equal(t, "t1", b.TripID)
		assert.Equal(t, cfg.AccrualFor(b.Category), b.AccrualType, b.Category)
	}
}

func TestBudgetForm_KeepsExistingAccrual(t *testing.T) {
	existing := []model.Budget{
		{TripID: "t1", Category: "Meals", Amount: 90, AccrualType: model.AccrualMixed},
		{TripID: "t1", Category: "Flights", Amount: 0, AccrualType: model.AccrualFixed},
	}
	f := NewBudgetForm(model.Trip{ID: "t1"}, existing, []string{"ignored"})
	assert.Equal(t, []string{"Meals", "Flights"}, f.categories)
	assert.Equal(t, []string{"90.00", ""}, f.values)

	budgets, err := f.Budgets(config.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, model.AccrualMixed, budgets[0].AccrualType)

	f.values[1] = "oops"
	_, err = f.Budgets(config.DefaultConfig())
	assert.ErrorContains(t, err, "Flights")
}
