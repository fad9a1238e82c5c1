package dashboard

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// SummaryCSV renders the attendance summary as CSV, one row per day.
func SummaryCSV(entries []DaySummary) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"date", "present", "absent", "late", "early_leave"}); err != nil {
		return nil, err
	}
	for _, entry := range entries {
		record := []string{
			entry.Date,
			strconv.Itoa(entry.Present),
			strconv.Itoa(entry.Absent),
			strconv.Itoa(entry.Late),
			strconv.Itoa(entry.EarlyLeave),
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SummaryPDF renders the attendance summary as a simple tabular PDF.
func SummaryPDF(entries []DaySummary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 10, "Attendance Summary")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 10)
	headers := []string{"Date", "Present", "Absent", "Late", "Early Leave"}
	widths := []float64{40, 30, 30, 30, 30}
	for i, header := range headers {
		pdf.CellFormat(widths[i], 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, entry := range entries {
		pdf.CellFormat(widths[0], 8, entry.Date, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, fmt.Sprintf("%d", entry.Present), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 8, fmt.Sprintf("%d", entry.Absent), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 8, fmt.Sprintf("%d", entry.Late), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 8, fmt.Sprintf("%d", entry.EarlyLeave), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
