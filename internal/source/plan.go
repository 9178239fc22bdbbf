package source

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/theirongolddev/tripcast/internal/model"
)

// DecodePlan decodes a plan document in the given format.
func DecodePlan(data []byte, format Format) (Plan, error) {
	var p Plan
	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	case FormatJSON:
		err = json.Unmarshal(data, &p)
	case FormatTOML:
		err = toml.Unmarshal(data, &p)
	default:
		return p, ErrUnsupportedFormat
	}
	return p, err
}

// parsePlan reads a whole-trip plan file. Unlike event ledgers a plan is all
// or nothing: invalid rows fail the file.
func parsePlan(df DiscoveredFile, accrual AccrualFunc) ParseResult {
	data, err := os.ReadFile(df.Path) //nolint:gosec // path comes from the user's ledger directory
	if err != nil {
		return ParseResult{Err: err}
	}
	p, err := DecodePlan(data, df.Format)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("decoding %s: %w", df.Path, err)}
	}
	b, err := planBatch(df.Path, p, accrual)
	if err != nil {
		return ParseResult{Err: fmt.Errorf("%s: %w", df.Path, err)}
	}
	return ParseResult{Batch: b}
}

func planBatch(path string, p Plan, accrual AccrualFunc) (model.Batch, error) {
	b := model.Batch{FilePath: path}

	trip, err := tripFromEntry(RawEntry{
		ID: p.Trip.ID, Name: p.Trip.Name, Destination: p.Trip.Destination,
		Start: p.Trip.Start, End: p.Trip.End,
	})
	if err != nil {
		return b, err
	}
	b.Trips = []model.Trip{trip}

	for i, pb := range p.Budgets {
		e := RawEntry{Category: pb.Category, Amount: decimal.NewFromFloat(pb.Amount), Accrual: pb.Accrual}
		if err := appendEntry(&b, "budget", e, trip.ID, "", accrual); err != nil {
			return b, fmt.Errorf("budget %d: %w", i+1, err)
		}
	}
	for i, pe := range p.Expenses {
		e := RawEntry{Category: pe.Category, Amount: decimal.NewFromFloat(pe.Amount), Description: pe.Description, Date: pe.Date}
		if err := appendEntry(&b, "expense", e, trip.ID, planID(path, "expense", i, pe.ID), accrual); err != nil {
			return b, fmt.Errorf("expense %d: %w", i+1, err)
		}
	}
	for i, pr := range p.Reservations {
		e := RawEntry{Category: pr.Category, Name: pr.Name, Amount: decimal.NewFromFloat(pr.Amount), Confirmed: pr.Confirmed, Date: pr.Date}
		if err := appendEntry(&b, "reservation", e, trip.ID, planID(path, "reservation", i, pr.ID), accrual); err != nil {
			return b, fmt.Errorf("reservation %d: %w", i+1, err)
		}
	}

	if seen := duplicateCategory(b.Budgets); seen != "" {
		return b, errors.New("duplicate budget category " + seen)
	}
	return b, nil
}

func planID(path, kind string, i int, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return lineID(path+"/"+kind, i+1)
}

func duplicateCategory(budgets []model.Budget) string {
	seen := make(map[string]bool, len(budgets))
	for _, b := range budgets {
		key := strings.ToLower(b.Category)
		if seen[key] {
			return b.Category
		}
		seen[key] = true
	}
	return ""
}
