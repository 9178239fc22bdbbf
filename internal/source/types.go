package source

import (
	"github.com/shopspring/decimal"
)

// Format identifies how a ledger file is encoded.
type Format string

// Supported ledger formats.
const (
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatTOML  Format = "toml"
)

// RawEntry represents a single line in a JSONL trip ledger.
type RawEntry struct {
	Type        string          `json:"type"`
	ID          string          `json:"id,omitempty"`
	Trip        string          `json:"trip,omitempty"`
	Name        string          `json:"name,omitempty"`
	Destination string          `json:"destination,omitempty"`
	Start       string          `json:"start,omitempty"`
	End         string          `json:"end,omitempty"`
	Category    string          `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Accrual     string          `json:"accrual,omitempty"`
	Description string          `json:"description,omitempty"`
	Date        string          `json:"date,omitempty"`
	Confirmed   bool            `json:"confirmed,omitempty"`
}

// Plan is a whole trip described in one YAML, JSON or TOML document.
type Plan struct {
	Trip         PlanTrip          `yaml:"trip" json:"trip" toml:"trip"`
	Budgets      []PlanBudget      `yaml:"budgets" json:"budgets" toml:"budgets"`
	Expenses     []PlanExpense     `yaml:"expenses" json:"expenses" toml:"expenses"`
	Reservations []PlanReservation `yaml:"reservations" json:"reservations" toml:"reservations"`
}

// PlanTrip holds the trip header of a plan file.
type PlanTrip struct {
	ID          string `yaml:"id" json:"id" toml:"id"`
	Name        string `yaml:"name" json:"name" toml:"name"`
	Destination string `yaml:"destination" json:"destination" toml:"destination"`
	Start       string `yaml:"start" json:"start" toml:"start"`
	End         string `yaml:"end" json:"end" toml:"end"`
}

// PlanBudget is one category budget in a plan file.
type PlanBudget struct {
	Category string  `yaml:"category" json:"category" toml:"category"`
	Amount   float64 `yaml:"amount" json:"amount" toml:"amount"`
	Accrual  string  `yaml:"accrual" json:"accrual" toml:"accrual"`
}

// PlanExpense is one expense in a plan file.
type PlanExpense struct {
	ID          string  `yaml:"id" json:"id" toml:"id"`
	Category    string  `yaml:"category" json:"category" toml:"category"`
	Amount      float64 `yaml:"amount" json:"amount" toml:"amount"`
	Description string  `yaml:"description" json:"description" toml:"description"`
	Date        string  `yaml:"date" json:"date" toml:"date"`
}

// PlanReservation is one booking in a plan file.
type PlanReservation struct {
	ID        string  `yaml:"id" json:"id" toml:"id"`
	Category  string  `yaml:"category" json:"category" toml:"category"`
	Name      string  `yaml:"name" json:"name" toml:"name"`
	Amount    float64 `yaml:"amount" json:"amount" toml:"amount"`
	Confirmed bool    `yaml:"confirmed" json:"confirmed" toml:"confirmed"`
	Date      string  `yaml:"date" json:"date" toml:"date"`
}

// DiscoveredFile represents a ledger file found during directory scanning.
type DiscoveredFile struct {
	Path   string
	Format Format
}
