package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/tripcast/internal/model"
)

// writeLedger creates a temp ledger file and returns a DiscoveredFile for it.
func writeLedger(t *testing.T, name string, lines ...string) DiscoveredFile {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	format, err := FormatOf(path)
	if err != nil {
		t.Fatal(err)
	}
	return DiscoveredFile{Path: path, Format: format}
}

func mealsVariable(category string) model.AccrualType {
	if category == "Meals" {
		return model.AccrualVariable
	}
	return model.AccrualMixed
}

func TestParseFile_JSONLRouting(t *testing.T) {
	df := writeLedger(t, "iceland.jsonl",
		`{"type":"trip","name":"Iceland","start":"2026-06-01","end":"2026-06-08","destination":"Reykjavik"}`,
		`{"type":"budget","category":"Meals","amount":400}`,
		`{"type":"budget","category":"Flights","amount":"650.00","accrual":"fixed"}`,
		`{"type":"expense","category":"Meals","amount":"23.456","date":"2026-06-02T12:30:00Z","description":"lunch"}`,
		`{"type":"reservation","category":"Accommodation","name":"Guesthouse","amount":540,"confirmed":true,"date":"2026-06-01"}`,
		`{"type":"note","text":"ignored"}`,
	)

	result := ParseFile(df, mealsVariable)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.ParseErrors != 0 {
		t.Fatalf("ParseErrors = %d, want 0", result.ParseErrors)
	}

	b := result.Batch
	if len(b.Trips) != 1 || b.Trips[0].Name != "Iceland" {
		t.Fatalf("Trips = %+v, want one Iceland trip", b.Trips)
	}
	tripID := model.TripIDFor("Iceland")
	if b.Trips[0].ID != tripID {
		t.Fatalf("trip ID = %s, want %s", b.Trips[0].ID, tripID)
	}

	if len(b.Budgets) != 2 {
		t.Fatalf("len(Budgets) = %d, want 2", len(b.Budgets))
	}
	if b.Budgets[0].AccrualType != model.AccrualVariable {
		t.Errorf("Meals accrual = %q, want variable from lookup", b.Budgets[0].AccrualType)
	}
	if b.Budgets[1].AccrualType != model.AccrualFixed || b.Budgets[1].Amount != 650 {
		t.Errorf("Flights budget = %+v, want fixed 650", b.Budgets[1])
	}

	if len(b.Expenses) != 1 {
		t.Fatalf("len(Expenses) = %d, want 1", len(b.Expenses))
	}
	if b.Expenses[0].Amount != 23.46 {
		t.Errorf("expense amount = %v, want 23.46", b.Expenses[0].Amount)
	}
	if b.Expenses[0].TripID != tripID || b.Expenses[0].ID == "" {
		t.Errorf("expense = %+v, want trip %s and generated ID", b.Expenses[0], tripID)
	}

	if len(b.Reservations) != 1 || !b.Reservations[0].Confirmed {
		t.Fatalf("Reservations = %+v, want one confirmed", b.Reservations)
	}
}

func TestParseFile_MalformedLinesCounted(t *testing.T) {
	df := writeLedger(t, "broken.jsonl",
		`{"type":"trip","name":"Oslo","start":"2026-01-01","end":"2026-01-03"}`,
		`{"type":"expense","category":"Meals","amount":12`,
		`not json at all`,
		`{"type":"expense","category":"","amount":5}`,
		`{"type":"expense","category":"Meals","amount":-5}`,
		`{"type":"expense","category":"Meals","amount":5,"date":"yesterday"}`,
		`{"type":"expense","category":"Meals","amount":5}`,
	)

	result := ParseFile(df, nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if result.ParseErrors != 5 {
		t.Errorf("ParseErrors = %d, want 5", result.ParseErrors)
	}
	if len(result.Batch.Expenses) != 1 {
		t.Errorf("len(Expenses) = %d, want 1", len(result.Batch.Expenses))
	}
}

func TestParseFile_EntryWithoutTripIsError(t *testing.T) {
	df := writeLedger(t, "orphan.jsonl",
		`{"type":"expense","category":"Meals","amount":5}`,
		`{"type":"expense","trip":"Lisbon","category":"Meals","amount":5}`,
	)

	result := ParseFile(df, nil)
	if result.ParseErrors != 1 {
		t.Fatalf("ParseErrors = %d, want 1", result.ParseErrors)
	}
	if got := result.Batch.Expenses[0].TripID; got != model.TripIDFor("lisbon") {
		t.Fatalf("TripID = %s, want ID derived from name", got)
	}
}

func TestParseFile_StableIDsAcrossReads(t *testing.T) {
	df := writeLedger(t, "stable.jsonl",
		`{"type":"trip","name":"Rome","start":"2026-04-01","end":"2026-04-05"}`,
		`{"type":"expense","category":"Meals","amount":5}`,
	)
	a := ParseFile(df, nil)
	b := ParseFile(df, nil)
	if a.Batch.Expenses[0].ID != b.Batch.Expenses[0].ID {
		t.Fatalf("IDs differ between reads: %s vs %s", a.Batch.Expenses[0].ID, b.Batch.Expenses[0].ID)
	}
}

func TestParseFile_YAMLPlan(t *testing.T) {
	df := writeLedger(t, "peru.yaml",
		`trip:`,
		`  name: Peru`,
		`  start: "2026-08-01"`,
		`  end: "2026-08-14"`,
		`budgets:`,
		`  - category: Flights`,
		`    amount: 1200`,
		`  - category: Meals`,
		`    amount: 420.5`,
		`reservations:`,
		`  - category: Activities`,
		`    name: Machu Picchu`,
		`    amount: 180`,
	)

	result := ParseFile(df, mealsVariable)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	b := result.Batch
	if len(b.Trips) != 1 || b.Trips[0].Name != "Peru" {
		t.Fatalf("Trips = %+v", b.Trips)
	}
	if len(b.Budgets) != 2 || b.Budgets[1].Amount != 420.5 {
		t.Fatalf("Budgets = %+v", b.Budgets)
	}
	if len(b.Reservations) != 1 || b.Reservations[0].Confirmed {
		t.Fatalf("Reservations = %+v", b.Reservations)
	}
}

func TestParseFile_TOMLPlan(t *testing.T) {
	df := writeLedger(t, "kyoto.toml",
		`[trip]`,
		`name = "Kyoto"`,
		`start = "2026-11-01"`,
		`end = "2026-11-09"`,
		``,
		`[[budgets]]`,
		`category = "Meals"`,
		`amount = 300.0`,
		`accrual = "variable"`,
		``,
		`[[expenses]]`,
		`category = "Meals"`,
		`amount = 18.25`,
		`date = "2026-11-01"`,
	)

	result := ParseFile(df, nil)
	if result.Err != nil {
		t.Fatalf("unexpected error: %v", result.Err)
	}
	if got := result.Batch.Expenses[0].Amount; got != 18.25 {
		t.Fatalf("expense amount = %v, want 18.25", got)
	}
}

func TestParseFile_PlanRejectsDuplicateCategory(t *testing.T) {
	df := writeLedger(t, "dup.json",
		`{"trip":{"name":"Dup","start":"2026-01-01","end":"2026-01-02"},`,
		` "budgets":[{"category":"Meals","amount":1},{"category":"meals","amount":2}]}`,
	)
	if result := ParseFile(df, nil); result.Err == nil {
		t.Fatal("expected error for duplicate category")
	}
}

func TestScanDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.jsonl", "b.yaml", "c.txt", ".hidden.jsonl", "sub/d.toml"} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o600); err != nil {
			t.Fatal(err)
		}
	}

	files, err := ScanDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 3 {
		t.Fatalf("len(files) = %d, want 3: %+v", len(files), files)
	}
	if files[0].Format != FormatJSONL || files[2].Format != FormatTOML {
		t.Errorf("formats = %s, %s, want jsonl first and toml last", files[0].Format, files[2].Format)
	}

	missing, err := ScanDir(filepath.Join(dir, "nope"))
	if err != nil || missing != nil {
		t.Fatalf("ScanDir(missing) = %v, %v; want nil, nil", missing, err)
	}
}

func TestDiscover_RejectsUnknownExtension(t *testing.T) {
	df := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(df, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Discover(df); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("Discover error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractTopLevelType_IgnoresNested(t *testing.T) {
	line := []byte(`{"meta":{"type":"expense"},"type":"budget"}`)
	if got := extractTopLevelType(line); got != "budget" {
		t.Fatalf("extractTopLevelType = %q, want budget", got)
	}
}
