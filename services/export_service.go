package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/rentshore/rentshore_backend/models"
)

// Export column order for commission disbursements
var CommissionExportHeaders = []string{
	"id", "property_title", "booking_id", "owner_name", "agent_name",
	"total_booking_amount", "admin_commission", "owner_share",
	"agent_commission", "disbursement_status",
}

// BuildCSV serializes rows under the caller-supplied header list. Values
// containing commas, quotes or newlines are wrapped in double quotes with
// internal quotes doubled; rows are joined with "\n" and columns missing from
// a row are emitted empty.
func BuildCSV(headers []string, rows []map[string]string) string {
	var b strings.Builder

	for i, header := range headers {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeCSV(header))
	}

	for _, row := range rows {
		b.WriteByte('\n')
		for i, header := range headers {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(escapeCSV(row[header]))
		}
	}

	return b.String()
}

func escapeCSV(value string) string {
	if strings.ContainsAny(value, ",\"\n") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// CommissionExportRow flattens a commission record (with joined display
// fields) into the export column set. Amounts are formatted in major units.
func CommissionExportRow(detail models.CommissionRecordDetail) map[string]string {
	return map[string]string{
		"id":                   detail.ID.Hex(),
		"property_title":       detail.PropertyTitle,
		"booking_id":           detail.BookingID.Hex(),
		"owner_name":           detail.OwnerName,
		"agent_name":           detail.AgentName,
		"total_booking_amount": FormatCents(detail.TotalBookingAmount),
		"admin_commission":     FormatCents(detail.AdminCommission),
		"owner_share":          FormatCents(detail.OwnerShare),
		"agent_commission":     FormatCents(detail.AgentCommission),
		"disbursement_status":  string(detail.Status),
	}
}

// FormatCents renders minor units as a decimal amount string
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

// BuildTablePDF renders headers and rows as a paginated table PDF. Layout
// follows the document builder style used for ticket/invoice generation.
func BuildTablePDF(title string, headers []string, rows []map[string]string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle(title, false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, title)
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("2006-01-02 15:04")))
	pdf.Ln(10)

	pageWidth, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(headers))

	writeHeader := func() {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range headers {
			pdf.CellFormat(colWidth, 7, strings.ReplaceAll(header, "_", " "), "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
	}

	writeHeader()
	pdf.SetFont("Helvetica", "", 8)
	for _, row := range rows {
		_, pageHeight := pdf.GetPageSize()
		if pdf.GetY() > pageHeight-25 {
			pdf.AddPage()
			writeHeader()
			pdf.SetFont("Helvetica", "", 8)
		}
		for _, header := range headers {
			pdf.CellFormat(colWidth, 6, row[header], "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
