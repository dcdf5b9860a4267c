// Package report renders the alert store as downloadable XLSX and PDF
// documents. Both carry the aggregate summary followed by every alert in
// store order, using the same columns as the CSV export.
package report

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/couchcryptid/flood-response-service/internal/domain"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const (
	title        = "Flood Alerts Report"
	summarySheet = "summary"
	alertsSheet  = "alerts"
)

type summaryRow struct {
	label string
	value int
}

func summaryRows(stats domain.AggregateStats) []summaryRow {
	return []summaryRow{
		{"Total", stats.Total},
		{"Acknowledged", stats.Acknowledged},
		{"Pending", stats.Pending},
		{"High severity", stats.HighSeverity},
		{"Medium severity", stats.MediumSeverity},
		{"Low severity", stats.LowSeverity},
	}
}

func alertRow(a domain.Alert) []string {
	return []string{
		strconv.FormatInt(a.ID, 10),
		a.Zone,
		a.Message,
		string(a.Severity),
		a.CreatedAt,
		domain.YesNo(a.Acknowledged),
	}
}

// BuildXLSX renders a workbook with a summary sheet and an alerts sheet.
func BuildXLSX(alerts []domain.Alert, generatedAt time.Time) ([]byte, error) {
	stats := domain.Aggregate(alerts)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(alertsSheet); err != nil {
		return nil, fmt.Errorf("create alerts sheet: %w", err)
	}

	if err := writeSummary(f, summarySheet, stats, generatedAt); err != nil {
		return nil, err
	}

	header := toAny(domain.ExportHeader())
	if err := f.SetSheetRow(alertsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	for i, a := range alerts {
		cells := toAny(alertRow(a))
		cells[0] = a.ID // numeric id cell
		if err := f.SetSheetRow(alertsSheet, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return nil, fmt.Errorf("write alert %d: %w", a.ID, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// writeSummary fills the title, generation time and count rows of sheet.
func writeSummary(f *excelize.File, sheet string, stats domain.AggregateStats, generatedAt time.Time) error {
	cells := map[string]any{
		"A1": title,
		"A2": "Generated",
		"B2": generatedAt.UTC().Format(time.RFC3339),
	}
	for i, row := range summaryRows(stats) {
		r := i + 4
		cells[fmt.Sprintf("A%d", r)] = row.label
		cells[fmt.Sprintf("B%d", r)] = row.value
	}
	for cell, value := range cells {
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("write summary %s: %w", cell, err)
		}
	}
	return nil
}

// BuildPDF renders a single-document A4 report. Text outside the Latin-1
// range is transliterated by the core font encoder.
func BuildPDF(alerts []domain.Alert, generatedAt time.Time) ([]byte, error) {
	stats := domain.Aggregate(alerts)

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "B", 14)
	pdf.AddPage()

	pdf.Cell(0, 8, title)
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, "Generated: "+generatedAt.UTC().Format(time.RFC3339))
	pdf.Ln(8)

	for _, row := range summaryRows(stats) {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d", row.label, row.value))
		pdf.Ln(5)
	}
	pdf.Ln(4)

	widths := []float64{32, 40, 120, 22, 42, 20}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range domain.ExportHeader() {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, a := range alerts {
		for i, cell := range alertRow(a) {
			pdf.CellFormat(widths[i], 6, truncate(pdf, tr(cell), widths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate shortens an already translated single-byte string with an
// ellipsis so it fits within width.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	n := len(s)
	for n > 0 && pdf.GetStringWidth(s[:n]+"...") > width {
		n--
	}
	return s[:n] + "..."
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
