package services

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"ride-admin/internal/board/core/domain/dto"
	"ride-admin/internal/board/core/ports"
	"ride-admin/internal/mylogger"
)

// ImportTemplateHeader is the expected CSV header row, also served as the
// downloadable template.
var ImportTemplateHeader = []string{
	"username", "email", "phone", "license_number",
	"vehicle_type", "vehicle_make", "vehicle_model", "vehicle_plate",
}

// RowError describes why one CSV row was rejected. Line is 1-based and
// counts the header.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport is the wizard's result: what was parsed, what was rejected
// row by row, and what the API accepted.
type ImportReport struct {
	Parsed    int        `json:"parsed"`
	Submitted int        `json:"submitted"`
	Accepted  int        `json:"accepted"`
	RowErrors []RowError `json:"row_errors"`
	Message   string     `json:"message,omitempty"`
}

// Importer validates uploaded driver CSVs and submits the valid rows in
// bulk. Validation here is structural only; business rules stay server-side.
type Importer struct {
	api   ports.IAdminAPI
	mylog mylogger.Logger
}

func NewImporter(api ports.IAdminAPI, mylog mylogger.Logger) *Importer {
	return &Importer{api: api, mylog: mylog}
}

// Parse reads and validates the CSV, returning the valid rows and per-row
// errors. A malformed header fails the whole upload.
func (im *Importer) Parse(r io.Reader) ([]dto.DriverImportRow, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("reading csv header: %w", err)
	}
	cols, err := headerIndex(header)
	if err != nil {
		return nil, nil, err
	}

	var rows []dto.DriverImportRow
	var rowErrs []RowError
	line := 1

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: "unparseable row"})
			continue
		}

		row := dto.DriverImportRow{
			Username:       field(record, cols, "username"),
			Email:          field(record, cols, "email"),
			Phone:          field(record, cols, "phone"),
			License_number: field(record, cols, "license_number"),
			Vehicle_type:   field(record, cols, "vehicle_type"),
			Vehicle_make:   field(record, cols, "vehicle_make"),
			Vehicle_model:  field(record, cols, "vehicle_model"),
			Vehicle_plate:  field(record, cols, "vehicle_plate"),
		}

		if reason := validateRow(row); reason != "" {
			rowErrs = append(rowErrs, RowError{Line: line, Reason: reason})
			continue
		}
		rows = append(rows, row)
	}

	return rows, rowErrs, nil
}

// Run parses the upload and submits whatever validated.
func (im *Importer) Run(ctx context.Context, r io.Reader) (ImportReport, error) {
	rows, rowErrs, err := im.Parse(r)
	if err != nil {
		return ImportReport{}, err
	}

	report := ImportReport{
		Parsed:    len(rows) + len(rowErrs),
		RowErrors: rowErrs,
	}
	if report.RowErrors == nil {
		report.RowErrors = []RowError{}
	}
	if len(rows) == 0 {
		report.Message = "no valid rows to submit"
		return report, nil
	}

	resp, err := im.api.ImportDrivers(ctx, dto.DriverImportRequest{Drivers: rows})
	if err != nil {
		return ImportReport{}, fmt.Errorf("submitting import: %w", err)
	}

	report.Submitted = len(rows)
	report.Accepted = resp.Accepted
	report.Message = resp.Message
	im.mylog.Action("driver_import_submitted").Info("driver import finished",
		"submitted", report.Submitted, "accepted", report.Accepted, "rejected_rows", len(rowErrs))
	return report, nil
}

// Template returns the CSV template content for download.
func (im *Importer) Template() string {
	return strings.Join(ImportTemplateHeader, ",") + "\n"
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range ImportTemplateHeader {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return cols, nil
}

func field(record []string, cols map[string]int, name string) string {
	idx := cols[name]
	if idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func validateRow(row dto.DriverImportRow) string {
	switch {
	case row.Username == "":
		return "username is required"
	case row.Email == "" || !strings.Contains(row.Email, "@"):
		return "valid email is required"
	case row.License_number == "":
		return "license_number is required"
	case row.Vehicle_type == "":
		return "vehicle_type is required"
	case row.Vehicle_plate == "":
		return "vehicle_plate is required"
	}
	return ""
}
