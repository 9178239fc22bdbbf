// Package source discovers and parses trip ledger files.
package source

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/tripcast/internal/model"
)

// AccrualFunc resolves the accrual type of a category that a ledger file
// does not state explicitly.
type AccrualFunc func(category string) model.AccrualType

// ParseResult holds the output of parsing a single ledger file.
type ParseResult struct {
	Batch       model.Batch
	ParseErrors int
	Err         error
}

// ParseFile reads a ledger file in any supported format.
func ParseFile(df DiscoveredFile, accrual AccrualFunc) ParseResult {
	if accrual == nil {
		accrual = func(string) model.AccrualType { return model.AccrualMixed }
	}
	switch df.Format {
	case FormatJSONL:
		return parseJSONL(df.Path, accrual)
	case FormatYAML, FormatJSON, FormatTOML:
		return parsePlan(df, accrual)
	}
	return ParseResult{Err: fmt.Errorf("%s: %w", df.Path, ErrUnsupportedFormat)}
}

// parseJSONL reads an event ledger, one JSON record per line.
//
// Entry routing by top-level "type" field:
//   - "trip"        → declares a trip; later lines without "trip" attach to it
//   - "budget"      → sets one category budget
//   - "expense"     → records money spent
//   - "reservation" → records a booking
//   - everything else → skip
//
// Lines that fail to decode or validate are counted, not fatal.
func parseJSONL(path string, accrual AccrualFunc) ParseResult {
	f, err := os.Open(path) //nolint:gosec // path comes from the user's ledger directory
	if err != nil {
		return ParseResult{Err: err}
	}
	defer func() { _ = f.Close() }()

	b := model.Batch{FilePath: path}
	var (
		parseErrors int
		currentTrip string
		lineNo      int
	)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		lineNo++
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		entryType := extractTopLevelType(line)
		if entryType == "" {
			if !json.Valid(line) {
				parseErrors++
			}
			continue
		}

		var entry RawEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			parseErrors++
			continue
		}

		if entryType == "trip" {
			t, err := tripFromEntry(entry)
			if err != nil {
				parseErrors++
				continue
			}
			b.Trips = append(b.Trips, t)
			currentTrip = t.ID
			continue
		}

		tripID := resolveTrip(entry.Trip, currentTrip)
		if tripID == "" {
			parseErrors++
			continue
		}
		id := entry.ID
		if id == "" {
			id = lineID(path, lineNo)
		}

		if err := appendEntry(&b, entryType, entry, tripID, id, accrual); err != nil {
			parseErrors++
		}
	}

	if err := scanner.Err(); err != nil {
		return ParseResult{Err: err}
	}

	return ParseResult{Batch: b, ParseErrors: parseErrors}
}

func tripFromEntry(e RawEntry) (model.Trip, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return model.Trip{}, errors.New("trip without name")
	}
	start, err := parseDay(e.Start)
	if err != nil {
		return model.Trip{}, err
	}
	end, err := parseDay(e.End)
	if err != nil {
		return model.Trip{}, err
	}
	if start.IsZero() || end.IsZero() {
		return model.Trip{}, fmt.Errorf("trip %q needs start and end dates", name)
	}
	if end.Before(start) {
		return model.Trip{}, fmt.Errorf("trip %q ends before it starts", name)
	}
	id := e.ID
	if id == "" {
		id = model.TripIDFor(name)
	}
	return model.Trip{ID: id, Name: name, Destination: e.Destination, StartDate: start, EndDate: end}, nil
}

func appendEntry(b *model.Batch, entryType string, e RawEntry, tripID, id string, accrual AccrualFunc) error {
	category := strings.TrimSpace(e.Category)
	if category == "" {
		return errors.New("missing category")
	}
	amount, err := cents(e.Amount)
	if err != nil {
		return err
	}

	switch entryType {
	case "budget":
		at, err := accrualOf(e.Accrual, category, accrual)
		if err != nil {
			return err
		}
		b.Budgets = append(b.Budgets, model.Budget{TripID: tripID, Category: category, Amount: amount, AccrualType: at})
	case "expense":
		when, err := parseWhen(e.Date)
		if err != nil {
			return err
		}
		b.Expenses = append(b.Expenses, model.Expense{
			ID: id, TripID: tripID, Category: category, Amount: amount,
			Description: e.Description, SpentAt: when,
		})
	case "reservation":
		when, err := parseDay(e.Date)
		if err != nil {
			return err
		}
		b.Reservations = append(b.Reservations, model.Reservation{
			ID: id, TripID: tripID, Category: category, Name: e.Name,
			Amount: amount, Confirmed: e.Confirmed, Date: when,
		})
	}
	return nil
}

// resolveTrip accepts a trip ID or a trip name and falls back to the trip
// declared most recently in the file.
func resolveTrip(ref, current string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return current
	}
	if _, err := uuid.Parse(ref); err == nil {
		return ref
	}
	return model.TripIDFor(ref)
}

func accrualOf(raw, category string, accrual AccrualFunc) (model.AccrualType, error) {
	if raw == "" {
		return accrual(category), nil
	}
	at := model.AccrualType(strings.ToLower(strings.TrimSpace(raw)))
	if !at.Valid() {
		return "", fmt.Errorf("category %q: unknown accrual type %q", category, raw)
	}
	return at, nil
}

// cents rounds an amount to the cent and rejects negatives.
func cents(d decimal.Decimal) (float64, error) {
	if d.IsNegative() {
		return 0, fmt.Errorf("negative amount %s", d.String())
	}
	return d.Round(2).InexactFloat64(), nil
}

func lineID(path string, lineNo int) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, fmt.Appendf(nil, "file://%s#L%d", path, lineNo)).String()
}

func parseDay(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func parseWhen(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

// typeKey is the byte sequence for a JSON key named "type" (with quotes).
var typeKey = []byte(`"type"`)

// extractTopLevelType finds the top-level "type" field in a JSONL line.
// Tracks brace depth and string boundaries so nested "type" keys are ignored.
func extractTopLevelType(line []byte) string {
	depth := 0
	for i := 0; i < len(line); {
		switch line[i] {
		case '"':
			if depth == 1 && bytes.HasPrefix(line[i:], typeKey) {
				val, isKey := classifyType(line, i+len(typeKey))
				if isKey {
					return val
				}
			}
			i = skipJSONString(line, i)
		case '{':
			depth++
			i++
		case '}':
			depth--
			i++
		default:
			i++
		}
	}
	return ""
}

// classifyType checks whether pos follows a JSON key (expects : then value).
// isKey=false means "type" appeared as a value, not a key.
func classifyType(line []byte, pos int) (val string, isKey bool) {
	i := skipSpaces(line, pos)
	if i >= len(line) || line[i] != ':' {
		return "", false
	}
	i = skipSpaces(line, i+1)
	if i >= len(line) || line[i] != '"' {
		return "", true
	}
	i++

	end := bytes.IndexByte(line[i:], '"')
	if end < 0 || end > 20 {
		return "", true
	}
	v := string(line[i : i+end])
	switch v {
	case "trip", "budget", "expense", "reservation":
		return v, true
	}
	return "", true
}

// skipJSONString advances past a JSON string starting at the opening quote.
//
//nolint:gosec // manual bounds checking throughout
func skipJSONString(line []byte, i int) int {
	i++
	for i < len(line) {
		switch line[i] {
		case '\\':
			i += 2
		case '"':
			return i + 1
		default:
			i++
		}
	}
	return i
}

func skipSpaces(line []byte, i int) int {
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	return i
}
