package main

import (
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildTestWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	wb := excelize.NewFile()
	if err := wb.SetSheetName("Sheet1", "Data"); err != nil {
		t.Fatalf("SetSheetName: %v", err)
	}
	// Column C has a blank header; its cells must be dropped.
	rows := [][]any{
		{"Date", "Company", "", "NetWeight"},
		{"2025-01-01", "ACME", "ignored", 1200},
		{"2025-01-02", "BETA"}, // ragged: fewer cells than headers
	}
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := wb.SetSheetRow("Data", cell, &cells); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if _, err := wb.NewSheet("Roster"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	roster := [][]any{{"Company"}, {"ACME"}}
	for i, cells := range roster {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := wb.SetSheetRow("Roster", cell, &cells); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	if _, err := wb.NewSheet("HeaderOnly"); err != nil {
		t.Fatalf("NewSheet: %v", err)
	}
	header := []any{"Company"}
	if err := wb.SetSheetRow("HeaderOnly", "A1", &header); err != nil {
		t.Fatalf("SetSheetRow: %v", err)
	}
	return wb
}

func TestSheetToMaps(t *testing.T) {
	wb := buildTestWorkbook(t)
	defer wb.Close()

	data, err := sheetToMaps(wb, "Data")
	if err != nil {
		t.Fatalf("sheetToMaps(Data): %v", err)
	}
	// Cell values arrive as strings from GetRows.
	expected := []map[string]any{
		{"Date": "2025-01-01", "Company": "ACME", "NetWeight": "1200"},
		{"Date": "2025-01-02", "Company": "BETA"},
	}
	if !reflect.DeepEqual(data, expected) {
		t.Fatalf("data sheet mismatch\nexpected: %v\ngot:      %v", expected, data)
	}

	roster, err := sheetToMaps(wb, "Roster")
	if err != nil {
		t.Fatalf("sheetToMaps(Roster): %v", err)
	}
	if !reflect.DeepEqual(roster, []map[string]any{{"Company": "ACME"}}) {
		t.Fatalf("roster sheet mismatch: %v", roster)
	}

	// Header-only sheet yields no rows, not an error.
	empty, err := sheetToMaps(wb, "HeaderOnly")
	if err != nil {
		t.Fatalf("sheetToMaps(HeaderOnly): %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("header-only sheet should yield no rows: %v", empty)
	}
}
