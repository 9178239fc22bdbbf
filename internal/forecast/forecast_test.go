package forecast

import (
	"math"
	"reflect"
	"testing"

	"github.com/theirongolddev/tripcast/internal/model"
)

func confirmed(amount float64) model.CategoryReservation {
	return model.CategoryReservation{Amount: amount, Confirmed: true}
}

func pending(amount float64) model.CategoryReservation {
	return model.CategoryReservation{Amount: amount}
}

func single(t *testing.T, c model.BudgetCategory, totalDays, daysElapsed int) (model.CategoryForecast, []string) {
	t.Helper()
	r := Compute([]model.BudgetCategory{c}, totalDays, daysElapsed)
	if len(r.Categories) != 1 {
		t.Fatalf("len(Categories) = %d, want 1", len(r.Categories))
	}
	return r.Categories[0], r.Alerts
}

func assertAlerts(t *testing.T, got []string, want ...string) {
	t.Helper()
	if len(want) == 0 {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("alerts = %q, want %q", got, want)
	}
}

func TestCompute_NoBudgetNoActivity(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Health", AccrualType: model.AccrualFixed}, 7, 3)
	if cf.Forecast != 0 || cf.OverForecast != 0 || cf.Alert {
		t.Fatalf("got forecast=%.2f over=%.2f alert=%v, want zeroes", cf.Forecast, cf.OverForecast, cf.Alert)
	}
	assertAlerts(t, alerts)
}

func TestCompute_NoBudgetWithActivity(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{
		Category:     "SIM",
		AccrualType:  model.AccrualMixed,
		Spent:        30,
		Reservations: []model.CategoryReservation{pending(20)},
	}, 7, 3)
	if cf.FixedPart != 20 {
		t.Fatalf("FixedPart = %.2f, want 20", cf.FixedPart)
	}
	if cf.Forecast != 50 || cf.OverForecast != 50 || !cf.Alert {
		t.Fatalf("got forecast=%.2f over=%.2f alert=%v, want 50/50/true", cf.Forecast, cf.OverForecast, cf.Alert)
	}
	assertAlerts(t, alerts, "SIM has expenses or reservations but no budget defined")
}

func TestCompute_FixedWithoutActivityHoldsPlan(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Flights", AccrualType: model.AccrualFixed, Budget: 500}, 7, 1)
	if cf.Forecast != 500 || cf.Alert {
		t.Fatalf("got forecast=%.2f alert=%v, want 500/false", cf.Forecast, cf.Alert)
	}
	assertAlerts(t, alerts)
}

func TestCompute_FixedUnderBudgetUsesSpent(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Flights", AccrualType: model.AccrualFixed, Budget: 500, Spent: 300}, 7, 1)
	if cf.Forecast != 300 || cf.Alert {
		t.Fatalf("got forecast=%.2f alert=%v, want 300/false", cf.Forecast, cf.Alert)
	}
	assertAlerts(t, alerts)
}

func TestCompute_FlightsOverBudget(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Flights", AccrualType: model.AccrualFixed, Budget: 500, Spent: 520}, 7, 1)
	if cf.Forecast != 520 {
		t.Fatalf("Forecast = %.2f, want 520", cf.Forecast)
	}
	if cf.OverForecast != 20 || !cf.Alert {
		t.Fatalf("got over=%.2f alert=%v, want 20/true", cf.OverForecast, cf.Alert)
	}
	assertAlerts(t, alerts, "You must reduce Flights costs by 20 € to meet the budget")
}

func TestCompute_FixedAddsPendingReservations(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{
		Category:     "Documentation",
		AccrualType:  model.AccrualFixed,
		Budget:       150,
		Reservations: []model.CategoryReservation{confirmed(40), pending(200)},
	}, 10, 0)
	if cf.Forecast != 200 {
		t.Fatalf("Forecast = %.2f, want 200", cf.Forecast)
	}
	if cf.FixedPart != 240 || cf.VariablePart != 0 {
		t.Fatalf("got fixed=%.2f variable=%.2f, want 240/0", cf.FixedPart, cf.VariablePart)
	}
	assertAlerts(t, alerts, "You must reduce Documentation costs by 50 € to meet the budget")
}

func TestCompute_VariableExtrapolates(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Meals", AccrualType: model.AccrualVariable, Budget: 100, Spent: 60}, 10, 5)
	if cf.Forecast != 120 {
		t.Fatalf("Forecast = %.2f, want 120", cf.Forecast)
	}
	if cf.OverForecast != 20 || !cf.Alert {
		t.Fatalf("got over=%.2f alert=%v, want 20/true", cf.OverForecast, cf.Alert)
	}
	if cf.DailyAllowance == nil || *cf.DailyAllowance != 8 {
		t.Fatalf("DailyAllowance = %v, want 8", cf.DailyAllowance)
	}
	assertAlerts(t, alerts, "You must reduce Meals spending by 8 € per day")
}

func TestCompute_VariableWithoutSpendHoldsPlan(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Meals", AccrualType: model.AccrualVariable, Budget: 100}, 10, 5)
	if cf.Forecast != 100 || cf.Alert || cf.DailyAllowance != nil {
		t.Fatalf("got forecast=%.2f alert=%v allowance=%v, want 100/false/nil", cf.Forecast, cf.Alert, cf.DailyAllowance)
	}
	assertAlerts(t, alerts)
}

func TestCompute_VariableOnPaceHasNoAlert(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Meals", AccrualType: model.AccrualVariable, Budget: 100, Spent: 40}, 10, 5)
	if cf.Forecast != 80 || cf.Alert {
		t.Fatalf("got forecast=%.2f alert=%v, want 80/false", cf.Forecast, cf.Alert)
	}
	if cf.DailyAllowance != nil {
		t.Fatalf("DailyAllowance = %v, want nil", *cf.DailyAllowance)
	}
	assertAlerts(t, alerts)
}

func TestCompute_VariableOverrun(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Meals", AccrualType: model.AccrualVariable, Budget: 100, Spent: 130}, 10, 5)
	if cf.Forecast != 260 {
		t.Fatalf("Forecast = %.2f, want 260", cf.Forecast)
	}
	assertAlerts(t, alerts,
		"Meals: variable spending exceeded budget by 30 €. Consider increasing the budget or reallocating from other categories")
}

func TestCompute_VariableFractionalAmounts(t *testing.T) {
	_, alerts := single(t, model.BudgetCategory{Category: "Meals", AccrualType: model.AccrualVariable, Budget: 100, Spent: 55}, 10, 3)
	assertAlerts(t, alerts, "You must reduce Meals spending by 6.43 € per day")
}

func TestCompute_MixedConfirmedBookingNotExtrapolated(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{
		Category:     "Accommodation",
		AccrualType:  model.AccrualMixed,
		Budget:       200,
		Spent:        150,
		Reservations: []model.CategoryReservation{confirmed(150)},
	}, 10, 2)
	if cf.FixedPart != 150 || cf.VariablePart != 50 {
		t.Fatalf("got fixed=%.2f variable=%.2f, want 150/50", cf.FixedPart, cf.VariablePart)
	}
	if cf.Forecast != 150 || cf.Alert {
		t.Fatalf("got forecast=%.2f alert=%v, want 150/false", cf.Forecast, cf.Alert)
	}
	if cf.DailyAllowance == nil || *cf.DailyAllowance != 6.25 {
		t.Fatalf("DailyAllowance = %v, want 6.25", cf.DailyAllowance)
	}
	assertAlerts(t, alerts)
}

func TestCompute_MixedFixedBookingsExceedBudget(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{
		Category:     "Accommodation",
		AccrualType:  model.AccrualMixed,
		Budget:       100,
		Spent:        80,
		Reservations: []model.CategoryReservation{confirmed(80), pending(40)},
	}, 10, 2)
	if cf.Forecast != 120 || cf.OverForecast != 20 {
		t.Fatalf("got forecast=%.2f over=%.2f, want 120/20", cf.Forecast, cf.OverForecast)
	}
	if cf.DailyAllowance != nil {
		t.Fatalf("DailyAllowance = %v, want nil", *cf.DailyAllowance)
	}
	assertAlerts(t, alerts,
		"Accommodation: fixed bookings exceed budget by 20 €",
		"Accommodation: variable spending exceeded budget by 0 €. Consider increasing the budget or reallocating from other categories")
}

func TestCompute_MixedFastPaceReportsAllowance(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{
		Category:     "Activities",
		AccrualType:  model.AccrualMixed,
		Budget:       300,
		Spent:        60,
		Reservations: []model.CategoryReservation{pending(100)},
	}, 10, 2)
	if cf.Forecast != 400 {
		t.Fatalf("Forecast = %.2f, want 400", cf.Forecast)
	}
	if cf.DailyAllowance == nil || *cf.DailyAllowance != 17.5 {
		t.Fatalf("DailyAllowance = %v, want 17.5", cf.DailyAllowance)
	}
	assertAlerts(t, alerts, "Activities: you can spend up to 17.50 € per day")
}

func TestCompute_UnknownAccrualHoldsPlan(t *testing.T) {
	cf, alerts := single(t, model.BudgetCategory{Category: "Misc", AccrualType: "weekly", Budget: 80, Spent: 500}, 10, 2)
	if cf.Forecast != 80 || cf.Alert {
		t.Fatalf("got forecast=%.2f alert=%v, want 80/false", cf.Forecast, cf.Alert)
	}
	assertAlerts(t, alerts)
}

func TestCompute_ClampsDays(t *testing.T) {
	tests := []struct {
		name        string
		totalDays   int
		daysElapsed int
		wantTotal   int
		wantElapsed int
	}{
		{"zero length trip", 0, 0, 1, 0},
		{"negative elapsed", 5, -3, 5, 0},
		{"elapsed past end", 5, 9, 5, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Compute(nil, tt.totalDays, tt.daysElapsed)
			if r.TotalDays != tt.wantTotal || r.DaysElapsed != tt.wantElapsed {
				t.Fatalf("days = %d/%d, want %d/%d", r.TotalDays, r.DaysElapsed, tt.wantTotal, tt.wantElapsed)
			}
		})
	}

	// After the trip, the variable projection equals what was spent.
	cf, _ := single(t, model.BudgetCategory{Category: "Meals", AccrualType: model.AccrualVariable, Budget: 100, Spent: 90}, 10, 25)
	if cf.Forecast != 90 {
		t.Fatalf("Forecast after trip end = %.2f, want 90", cf.Forecast)
	}
}

func sampleTrip() []model.BudgetCategory {
	return []model.BudgetCategory{
		{Category: "Flights", AccrualType: model.AccrualFixed, Budget: 500, Spent: 520},
		{Category: "Meals", AccrualType: model.AccrualVariable, Budget: 100, Spent: 60},
		{Category: "Accommodation", AccrualType: model.AccrualMixed, Budget: 200, Spent: 150,
			Reservations: []model.CategoryReservation{confirmed(150)}},
		{Category: "Health", AccrualType: model.AccrualFixed},
		{Category: "SIM", AccrualType: model.AccrualMixed, Spent: 12.5},
	}
}

func TestCompute_Aggregation(t *testing.T) {
	r := Compute(sampleTrip(), 10, 5)

	if len(r.Categories) != 5 {
		t.Fatalf("len(Categories) = %d, want 5", len(r.Categories))
	}
	wantOrder := []string{"Flights", "Meals", "Accommodation", "Health", "SIM"}
	for i, c := range r.Categories {
		if c.Category != wantOrder[i] {
			t.Fatalf("Categories[%d] = %q, want %q", i, c.Category, wantOrder[i])
		}
	}

	if r.TotalBudget != 800 {
		t.Fatalf("TotalBudget = %.2f, want 800", r.TotalBudget)
	}

	var sum float64
	for _, c := range r.Categories {
		sum += c.Forecast
	}
	if r.TotalForecast != sum {
		t.Fatalf("TotalForecast = %v, want exact sum %v", r.TotalForecast, sum)
	}

	assertAlerts(t, r.Alerts,
		"You must reduce Flights costs by 20 € to meet the budget",
		"You must reduce Meals spending by 8 € per day",
		"SIM has expenses or reservations but no budget defined")
	if got := r.AlertCount(); got != 3 {
		t.Fatalf("AlertCount() = %d, want 3", got)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	in := sampleTrip()
	a := Compute(in, 10, 5)
	b := Compute(in, 10, 5)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated Compute differs:\n%+v\n%+v", a, b)
	}
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	in := sampleTrip()
	before := sampleTrip()
	Compute(in, 10, 5)
	if !reflect.DeepEqual(in, before) {
		t.Fatal("Compute mutated its input")
	}
}

func TestCompute_VariableForecastMonotonicInSpent(t *testing.T) {
	prev := math.Inf(-1)
	for spent := 7.5; spent <= 300; spent += 7.5 {
		cf, _ := single(t, model.BudgetCategory{Category: "Meals", AccrualType: model.AccrualVariable, Budget: 100, Spent: spent}, 14, 4)
		if cf.Forecast < prev {
			t.Fatalf("forecast fell from %.2f to %.2f at spent=%.2f", prev, cf.Forecast, spent)
		}
		prev = cf.Forecast
	}
}

func TestFormatAmount(t *testing.T) {
	tests := map[float64]string{
		20:        "20",
		0:         "0",
		12.5:      "12.50",
		6.428571:  "6.43",
		1234.0001: "1234.00",
	}
	for in, want := range tests {
		if got := formatAmount(in); got != want {
			t.Fatalf("formatAmount(%v) = %q, want %q", in, got, want)
		}
	}
}
