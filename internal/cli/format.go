// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatMoney formats a euro amount with thousands separators and cents.
// e.g., 1234.5 -> "1,234.50 €"
func FormatMoney(v float64) string {
	return formatAmount(v, 2) + " €"
}

// FormatMoneyShort drops cents once the amount reaches 1000.
func FormatMoneyShort(v float64) string {
	if math.Abs(v) >= 1000 {
		return formatAmount(v, 0) + " €"
	}
	return FormatMoney(v)
}

func formatAmount(v float64, decimals int) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', decimals, 64)
	whole, frac, _ := strings.Cut(s, ".")

	n, _ := strconv.ParseInt(whole, 10, 64)
	out := FormatNumber(n)
	if frac != "" {
		out += "." + frac
	}
	if v < 0 && strings.Trim(s, "0.") != "" {
		out = "-" + out
	}
	return out
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatUsage formats spent/budget as a percentage, or "-" when there is
// no budget to measure against.
func FormatUsage(spent, budget float64) string {
	if budget <= 0 {
		return "-"
	}
	return FormatPercent(spent / budget)
}

// FormatDelta formats a money delta with an explicit sign.
func FormatDelta(current, previous float64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatMoney(delta)
	}
	return "-" + FormatMoney(-delta)
}

// FormatDate formats a civil date.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday number.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 0 && weekday < 7 {
		return days[weekday]
	}
	return "???"
}

// FormatProgress describes where a trip stands in its timeline.
func FormatProgress(daysElapsed, totalDays int) string {
	switch {
	case daysElapsed <= 0:
		return fmt.Sprintf("not started (%d days)", totalDays)
	case daysElapsed >= totalDays:
		return fmt.Sprintf("finished (%d days)", totalDays)
	default:
		return fmt.Sprintf("day %d of %d", daysElapsed, totalDays)
	}
}
