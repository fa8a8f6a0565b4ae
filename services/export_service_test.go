package services

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/rentshore/rentshore_backend/models"
)

func TestBuildCSVEscaping(t *testing.T) {
	headers := []string{"id", "property_title"}
	rows := []map[string]string{
		{"id": "1", "property_title": "A, B"},
	}

	got := BuildCSV(headers, rows)
	want := "id,property_title\n1,\"A, B\""
	if got != want {
		t.Errorf("BuildCSV = %q, want %q", got, want)
	}
}

func TestBuildCSVQuotesOnlyWhenNeeded(t *testing.T) {
	headers := []string{"a", "b", "c", "d"}
	rows := []map[string]string{{
		"a": "plain",
		"b": `say "hi"`,
		"c": "line\nbreak",
		"d": "",
	}}

	got := BuildCSV(headers, rows)
	want := "a,b,c,d\nplain,\"say \"\"hi\"\"\",\"line\nbreak\","
	if got != want {
		t.Errorf("BuildCSV = %q, want %q", got, want)
	}
}

func TestBuildCSVNoTrailingNewline(t *testing.T) {
	got := BuildCSV([]string{"x"}, []map[string]string{{"x": "1"}, {"x": "2"}})
	if strings.HasSuffix(got, "\n") {
		t.Errorf("BuildCSV output ends with a newline: %q", got)
	}
	if got != "x\n1\n2" {
		t.Errorf("BuildCSV = %q", got)
	}
}

func TestBuildCSVHeaderOnly(t *testing.T) {
	got := BuildCSV([]string{"id", "status"}, nil)
	if got != "id,status" {
		t.Errorf("BuildCSV with no rows = %q", got)
	}
}

func TestFormatCents(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{100000, "1000.00"},
		{10050, "100.50"},
		{5, "0.05"},
		{0, "0.00"},
		{-1250, "-12.50"},
	}
	for _, tt := range tests {
		if got := FormatCents(tt.cents); got != tt.want {
			t.Errorf("FormatCents(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestCommissionExportRowColumns(t *testing.T) {
	detail := models.CommissionRecordDetail{
		CommissionRecord: models.CommissionRecord{
			ID:                 primitive.NewObjectID(),
			BookingID:          primitive.NewObjectID(),
			TotalBookingAmount: 100000,
			AdminCommission:    10000,
			OwnerShare:         30000,
			AgentCommission:    60000,
			Status:             models.DisbursementPending,
		},
		PropertyTitle: "Seaside Villa, Unit 2",
		OwnerName:     "Dana Owner",
		AgentName:     "Avery Agent",
	}

	row := CommissionExportRow(detail)
	for _, header := range CommissionExportHeaders {
		if _, ok := row[header]; !ok {
			t.Errorf("export row missing column %q", header)
		}
	}
	if row["total_booking_amount"] != "1000.00" {
		t.Errorf("total column = %q, want major units", row["total_booking_amount"])
	}
	if row["disbursement_status"] != "pending" {
		t.Errorf("status column = %q", row["disbursement_status"])
	}

	csv := BuildCSV(CommissionExportHeaders, []map[string]string{row})
	if !strings.Contains(csv, `"Seaside Villa, Unit 2"`) {
		t.Errorf("comma-bearing title not quoted in CSV: %q", csv)
	}
}

func TestBuildTablePDF(t *testing.T) {
	rows := []map[string]string{
		{"id": "1", "property_title": "Villa"},
		{"id": "2", "property_title": "Cabin"},
	}
	pdfBytes, err := BuildTablePDF("Commission Disbursements", []string{"id", "property_title"}, rows)
	if err != nil {
		t.Fatalf("BuildTablePDF returned error: %v", err)
	}
	if len(pdfBytes) == 0 || !strings.HasPrefix(string(pdfBytes[:5]), "%PDF-") {
		t.Errorf("output does not look like a PDF (%d bytes)", len(pdfBytes))
	}
}
