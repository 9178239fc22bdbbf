// Package export writes trip forecasts to CSV, JSON and PDF files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/theirongolddev/tripcast/internal/model"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts a format name in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatCSV, FormatJSON, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want csv, json or pdf)", s)
	}
}

// Write encodes tf in the given format.
func Write(w io.Writer, f Format, tf model.TripForecast) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, tf)
	case FormatJSON:
		return WriteJSON(w, tf)
	case FormatPDF:
		return WritePDF(w, tf)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// ToFile writes tf into dir (the working directory when empty) and returns
// the absolute path of the new file.
func ToFile(tf model.TripForecast, f Format, dir string) (string, error) {
	path, err := generateFilename(tf, dir, f)
	if err != nil {
		return "", err
	}

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s file: %w", f, err)
	}
	if err := Write(file, f, tf); err != nil {
		_ = file.Close()
		return "", err
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("closing %s file: %w", f, err)
	}
	return filepath.Abs(path)
}

var csvHeader = []string{
	"category", "budget", "spent", "planned", "fixed_part", "variable_part",
	"forecast", "over_forecast", "alert", "daily_allowance",
}

// WriteCSV writes one row per category, a TOTAL row, then one ALERT row per
// alert message.
func WriteCSV(w io.Writer, tf model.TripForecast) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	var spent, planned float64
	for _, c := range tf.Result.Categories {
		allowance := ""
		if c.DailyAllowance != nil {
			allowance = money(*c.DailyAllowance)
		}
		record := []string{
			c.Category,
			money(c.Budget),
			money(c.Spent),
			money(c.Planned),
			money(c.FixedPart),
			money(c.VariablePart),
			money(c.Forecast),
			money(c.OverForecast),
			strconv.FormatBool(c.Alert),
			allowance,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
		spent += c.Spent
		planned += c.Planned
	}

	total := []string{
		"TOTAL",
		money(tf.Result.TotalBudget),
		money(spent),
		money(planned),
		"", "",
		money(tf.Result.TotalForecast),
		money(max(0, tf.Result.TotalForecast-tf.Result.TotalBudget)),
		strconv.FormatBool(tf.Result.OverBudget()),
		"",
	}
	if err := cw.Write(total); err != nil {
		return fmt.Errorf("writing CSV totals: %w", err)
	}

	for _, a := range tf.Result.Alerts {
		if err := cw.Write([]string{"ALERT", a}); err != nil {
			return fmt.Errorf("writing CSV alert: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes tf as indented JSON.
func WriteJSON(w io.Writer, tf model.TripForecast) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(tf); err != nil {
		return fmt.Errorf("encoding JSON forecast: %w", err)
	}
	return nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func generateFilename(tf model.TripForecast, dir string, f Format) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory %q: %w", dir, err)
	}

	at := tf.ComputedAt
	if at.IsZero() {
		at = time.Now()
	}
	name := fmt.Sprintf("%s-forecast-%s.%s", slug(tf.Trip.Name), at.Format("20060102_150405"), f)
	return filepath.Join(dir, name), nil
}

// slug lowercases name and collapses everything but letters and digits
// into single dashes.
func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	s := strings.TrimSuffix(b.String(), "-")
	if s == "" {
		return "trip"
	}
	return s
}
