package services

import (
	"context"
	"strings"
	"testing"

	"ride-admin/internal/board/core/domain/dto"
)

const validCSV = `username,email,phone,license_number,vehicle_type,vehicle_make,vehicle_model,vehicle_plate
aliya,aliya@example.com,+77011234567,KZ-123,ECONOMY,Toyota,Camry,123ABC01
daniyar,daniyar@example.com,+77017654321,KZ-456,PREMIUM,Hyundai,Sonata,456DEF02
`

func TestImporterParseValid(t *testing.T) {
	im := NewImporter(&fakeAPI{}, testLogger())

	rows, rowErrs, err := im.Parse(strings.NewReader(validCSV))
	if err != nil {
		t.Fatal(err)
	}
	if len(rowErrs) != 0 {
		t.Errorf("row errors = %v, want none", rowErrs)
	}
	if len(rows) != 2 {
		t.Fatalf("parsed %d rows, want 2", len(rows))
	}
	if rows[0].Username != "aliya" || rows[1].Vehicle_plate != "456DEF02" {
		t.Errorf("unexpected rows: %+v", rows)
	}
}

func TestImporterRejectsBadRows(t *testing.T) {
	csv := `username,email,phone,license_number,vehicle_type,vehicle_make,vehicle_model,vehicle_plate
aliya,not-an-email,+7701,KZ-123,ECONOMY,Toyota,Camry,123ABC01
,daniyar@example.com,+7701,KZ-456,PREMIUM,Hyundai,Sonata,456DEF02
ok,ok@example.com,+7701,KZ-789,XL,Kia,Carnival,789GHI03
`
	im := NewImporter(&fakeAPI{}, testLogger())

	rows, rowErrs, err := im.Parse(strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 || rows[0].Username != "ok" {
		t.Errorf("valid rows = %+v, want only 'ok'", rows)
	}
	if len(rowErrs) != 2 {
		t.Fatalf("row errors = %v, want 2", rowErrs)
	}
	if rowErrs[0].Line != 2 || rowErrs[1].Line != 3 {
		t.Errorf("error lines = %d, %d, want 2 and 3", rowErrs[0].Line, rowErrs[1].Line)
	}
}

func TestImporterMissingColumnFailsUpload(t *testing.T) {
	csv := "username,email\naliya,aliya@example.com\n"
	im := NewImporter(&fakeAPI{}, testLogger())

	if _, _, err := im.Parse(strings.NewReader(csv)); err == nil {
		t.Error("expected header validation error")
	}
}

func TestImporterRunSubmitsValidRows(t *testing.T) {
	var submitted int
	api := &fakeAPI{
		importFn: func(ctx context.Context, req dto.DriverImportRequest) (dto.DriverImportResponse, error) {
			submitted = len(req.Drivers)
			return dto.DriverImportResponse{Accepted: submitted, Message: "ok"}, nil
		},
	}
	im := NewImporter(api, testLogger())

	report, err := im.Run(context.Background(), strings.NewReader(validCSV))
	if err != nil {
		t.Fatal(err)
	}
	if submitted != 2 || report.Accepted != 2 || report.Submitted != 2 {
		t.Errorf("report = %+v, want 2 submitted and accepted", report)
	}
}

func TestImporterRunNothingValid(t *testing.T) {
	csv := "username,email,phone,license_number,vehicle_type,vehicle_make,vehicle_model,vehicle_plate\n,,,,,,,\n"
	called := false
	api := &fakeAPI{
		importFn: func(ctx context.Context, req dto.DriverImportRequest) (dto.DriverImportResponse, error) {
			called = true
			return dto.DriverImportResponse{}, nil
		},
	}
	im := NewImporter(api, testLogger())

	report, err := im.Run(context.Background(), strings.NewReader(csv))
	if err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("empty import still hit the API")
	}
	if report.Submitted != 0 || len(report.RowErrors) != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestImporterTemplate(t *testing.T) {
	im := NewImporter(&fakeAPI{}, testLogger())
	want := "username,email,phone,license_number,vehicle_type,vehicle_make,vehicle_model,vehicle_plate\n"
	if im.Template() != want {
		t.Errorf("Template() = %q, want %q", im.Template(), want)
	}
}
