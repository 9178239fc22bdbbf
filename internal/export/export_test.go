package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theirongolddev/tripcast/internal/model"
)

func sampleForecast() model.TripForecast {
	allowance := 6.0
	return model.TripForecast{
		Trip: model.Trip{
			ID:        "t1",
			Name:      "Lisbon & Porto",
			StartDate: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 5, 7, 0, 0, 0, 0, time.UTC),
		},
		Result: model.ForecastResult{
			Categories: []model.CategoryForecast{
				{Category: "Flights", Budget: 400, Spent: 380, FixedPart: 380, Forecast: 380},
				{Category: "Meals", Budget: 100, Spent: 70, VariablePart: 100, Forecast: 245, OverForecast: 145, Alert: true, DailyAllowance: &allowance},
			},
			TotalForecast: 625,
			TotalBudget:   500,
			Alerts:        []string{"You must reduce Meals spending by 6 € per day"},
			TotalDays:     7,
			DaysElapsed:   2,
		},
		ComputedAt: time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
	}
}

func TestParseFormat(t *testing.T) {
	for _, in := range []string{"csv", "JSON", " pdf "} {
		_, err := ParseFormat(in)
		assert.NoError(t, err, in)
	}
	_, err := ParseFormat("xlsx")
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleForecast()))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, csvHeader, records[0])
	assert.Equal(t, []string{"Flights", "400.00", "380.00", "0.00", "380.00", "0.00", "380.00", "0.00", "false", ""}, records[1])
	assert.Equal(t, "6.00", records[2][9])
	assert.Equal(t, "true", records[2][8])

	total := records[3]
	assert.Equal(t, "TOTAL", total[0])
	assert.Equal(t, "500.00", total[1])
	assert.Equal(t, "450.00", total[2])
	assert.Equal(t, "625.00", total[6])
	assert.Equal(t, "125.00", total[7])
	assert.Equal(t, "true", total[8])

	assert.Equal(t, []string{"ALERT", "You must reduce Meals spending by 6 € per day"}, records[4])
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleForecast()))

	var got model.TripForecast
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 625.0, got.Result.TotalForecast)
	require.Len(t, got.Result.Categories, 2)
	require.NotNil(t, got.Result.Categories[1].DailyAllowance)
	assert.Nil(t, got.Result.Categories[0].DailyAllowance)
	assert.Contains(t, buf.String(), "\n  \"trip\"")
}

func TestWritePDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, sampleForecast()))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 500)
}

func TestToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	for _, f := range []Format{FormatCSV, FormatJSON, FormatPDF} {
		path, err := ToFile(sampleForecast(), f, dir)
		require.NoError(t, err)

		assert.True(t, filepath.IsAbs(path))
		assert.Equal(t, "lisbon-porto-forecast-20260502_100000."+string(f), filepath.Base(path))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Lisbon":          "lisbon",
		"Lisbon & Porto":  "lisbon-porto",
		"  Japan 2026!! ": "japan-2026",
		"Zürich":          "zürich",
		"---":             "trip",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, Format("xml"), sampleForecast())
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "xml"))
}
