package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/theirongolddev/tripcast/internal/model"
)

var (
	headerColor   = [3]int{40, 40, 40}
	headerText    = [3]int{255, 255, 255}
	bodyText      = [3]int{50, 50, 50}
	alertText     = [3]int{192, 0, 0}
	lineColor     = [3]int{200, 200, 200}
	stripeColor   = [3]int{245, 245, 245}
	pdfColumns    = []string{"Category", "Budget", "Spent", "Planned", "Forecast", "Over", "Daily"}
	pdfColumnSize = []float64{46, 24, 24, 24, 26, 22, 24}
)

// WritePDF renders a one-page report: trip header, category table, totals
// and the alert list.
func WritePDF(w io.Writer, tf model.TripForecast) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr("Generated by tripcast | "+tf.ComputedAt.Format("2006-01-02 15:04")), "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerText[0], headerText[1], headerText[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr("  "+tf.Trip.Name+" budget forecast"), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
	subtitle := fmt.Sprintf("  %s to %s  |  day %d of %d",
		tf.Trip.StartDate.Format("2006-01-02"), tf.Trip.EndDate.Format("2006-01-02"),
		tf.Result.DaysElapsed, tf.Result.TotalDays)
	if tf.Trip.Destination != "" {
		subtitle += "  |  " + tf.Trip.Destination
	}
	pdf.CellFormat(0, 8, tr(subtitle), "", 1, "L", true, 0, "")
	pdf.Ln(8)

	sectionTitle(pdf, "Categories")

	pdf.SetFont("Arial", "B", 9)
	for i, col := range pdfColumns {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(pdfColumnSize[i], 7, col, "B", 0, align, false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for row, c := range tf.Result.Categories {
		daily := "-"
		if c.DailyAllowance != nil {
			daily = money(*c.DailyAllowance)
		}
		cells := []string{c.Category, money(c.Budget), money(c.Spent), money(c.Planned), money(c.Forecast), money(c.OverForecast), daily}

		fill := row%2 == 1
		pdf.SetFillColor(stripeColor[0], stripeColor[1], stripeColor[2])
		if c.Alert {
			pdf.SetTextColor(alertText[0], alertText[1], alertText[2])
		}
		for i, cell := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(pdfColumnSize[i], 6, tr(cell), "", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.CellFormat(pdfColumnSize[0], 7, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(pdfColumnSize[1], 7, money(tf.Result.TotalBudget), "T", 0, "R", false, 0, "")
	pdf.CellFormat(pdfColumnSize[2]+pdfColumnSize[3], 7, "", "T", 0, "R", false, 0, "")
	if tf.Result.OverBudget() {
		pdf.SetTextColor(alertText[0], alertText[1], alertText[2])
	}
	pdf.CellFormat(pdfColumnSize[4], 7, money(tf.Result.TotalForecast), "T", 0, "R", false, 0, "")
	pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
	pdf.CellFormat(pdfColumnSize[5]+pdfColumnSize[6], 7, "", "T", 1, "R", false, 0, "")
	pdf.Ln(8)

	if len(tf.Result.Alerts) > 0 {
		sectionTitle(pdf, "Alerts")
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(alertText[0], alertText[1], alertText[2])
		pdf.MultiCell(190, 5, tr(strings.Join(tf.Result.Alerts, "\n")), "", "L", false)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func sectionTitle(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.Cell(0, 8, title)
	pdf.Ln(7)

	pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
	pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
	pdf.Ln(4)
	pdf.SetTextColor(bodyText[0], bodyText[1], bodyText[2])
}
