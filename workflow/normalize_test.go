package workflow

import (
	"encoding/json"
	"testing"
	"time"

	"bitbucket.org/sornidev/weighbridge_backend/models"
)

func TestNormalizeRow_HeaderSynonyms(t *testing.T) {
	cases := []struct {
		name    string
		row     map[string]any
		company string
		product string
	}{
		{
			name:    "english headers",
			row:     map[string]any{"Company": "ACME", "Product": "Sand"},
			company: "ACME",
			product: "Sand",
		},
		{
			name:    "thai headers",
			row:     map[string]any{"บริษัท": "บจก.ทดสอบ", "สินค้า": "ข้าวโพด"},
			company: "บจก.ทดสอบ",
			product: "ข้าวโพด",
		},
		{
			name:    "vendor export headers",
			row:     map[string]any{"customer_code": "C-42", "material": "Gravel"},
			company: "C-42",
			product: "Gravel",
		},
		{
			name:    "first candidate wins",
			row:     map[string]any{"CompanyID": "PRIMARY", "Customer": "IGNORED", "Product": "Sand"},
			company: "PRIMARY",
			product: "Sand",
		},
		{
			name:    "whitespace trimmed",
			row:     map[string]any{"Company": "  ACME  ", "Material": " Sand "},
			company: "ACME",
			product: "Sand",
		},
	}
	for _, tc := range cases {
		row := NormalizeRow(tc.row)
		if row.CompanyId != tc.company {
			t.Fatalf("%s: expected company %q, got %q", tc.name, tc.company, row.CompanyId)
		}
		if row.Product != tc.product {
			t.Fatalf("%s: expected product %q, got %q", tc.name, tc.product, row.Product)
		}
	}
}

func TestNormalizeRow_SerialDate(t *testing.T) {
	row := NormalizeRow(map[string]any{"Date": 45000.0})
	expected := time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	if !row.TransactionDate.Equal(expected) {
		t.Fatalf("serial 45000 expected %s, got %s", expected, row.TransactionDate)
	}

	// Fractional serials carry the time of day.
	row = NormalizeRow(map[string]any{"Date": 45000.5})
	expected = time.Date(2023, 3, 15, 12, 0, 0, 0, time.UTC)
	if !row.TransactionDate.Equal(expected) {
		t.Fatalf("serial 45000.5 expected %s, got %s", expected, row.TransactionDate)
	}

	// Serial that arrived as text.
	row = NormalizeRow(map[string]any{"Date": "45000"})
	expected = time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC)
	if !row.TransactionDate.Equal(expected) {
		t.Fatalf("serial string expected %s, got %s", expected, row.TransactionDate)
	}
}

func TestNormalizeRow_BuddhistDate(t *testing.T) {
	row := NormalizeRow(map[string]any{"วันที่": "01/01/2568, 09:30"})
	expected := time.Date(2025, 1, 1, 9, 30, 0, 0, time.Local)
	if !row.TransactionDate.Equal(expected) {
		t.Fatalf("expected %s, got %s", expected, row.TransactionDate)
	}

	// Gregorian years below the Buddhist-era cutoff pass through unchanged.
	row = NormalizeRow(map[string]any{"Date": "15/06/2024 14:05"})
	expected = time.Date(2024, 6, 15, 14, 5, 0, 0, time.Local)
	if !row.TransactionDate.Equal(expected) {
		t.Fatalf("expected %s, got %s", expected, row.TransactionDate)
	}
}

func TestNormalizeRow_IsoDate(t *testing.T) {
	cases := []struct {
		in       string
		expected time.Time
	}{
		{"2025-03-02T10:15:00Z", time.Date(2025, 3, 2, 10, 15, 0, 0, time.UTC)},
		{"2025-03-02 10:15:00", time.Date(2025, 3, 2, 10, 15, 0, 0, time.UTC)},
		{"2025-03-02T10:15", time.Date(2025, 3, 2, 10, 15, 0, 0, time.UTC)},
		{"2025-03-02 10:15", time.Date(2025, 3, 2, 10, 15, 0, 0, time.UTC)},
		{"2025-03-02", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		row := NormalizeRow(map[string]any{"Date": tc.in})
		if !row.TransactionDate.Equal(tc.expected) {
			t.Fatalf("date %q expected %s, got %s", tc.in, tc.expected, row.TransactionDate)
		}
	}
}

func TestNormalizeRow_DirectionMapping(t *testing.T) {
	cases := []struct {
		in       any
		expected models.WeighType
	}{
		{"BUY", models.WeighTypeBuy},
		{"SELL", models.WeighTypeSell},
		{"buy", models.WeighTypeBuy},
		{"sell", models.WeighTypeSell},
		{"IN", models.WeighTypeBuy},
		{"inbound", models.WeighTypeBuy},
		{"OUT", models.WeighTypeSell},
		{"Outbound", models.WeighTypeSell},
		{" sell ", models.WeighTypeSell},
		{"ชั่งเข้า", models.WeighTypeBuy},
		{"", models.WeighTypeBuy},
		{nil, models.WeighTypeBuy},
		{42, models.WeighTypeBuy},
	}
	for _, tc := range cases {
		row := NormalizeRow(map[string]any{"Type": tc.in})
		if row.WeighType != tc.expected {
			t.Fatalf("direction %v expected %s, got %s", tc.in, tc.expected, row.WeighType)
		}
	}
}

func TestNormalizeRow_WeightParsing(t *testing.T) {
	cases := []struct {
		name     string
		row      map[string]any
		expected string
	}{
		{"float", map[string]any{"NetWeight": 1234.5}, "1234.5"},
		{"int", map[string]any{"NetKG": 800}, "800"},
		{"comma string", map[string]any{"NET": "1,234.50"}, "1234.5"},
		{"thai header", map[string]any{"น้ำหนักสุทธิ(กก.)": "950"}, "950"},
		{"negative kept", map[string]any{"Weight": -50.0}, "-50"},
		{"garbage string", map[string]any{"NetWeight": "n/a"}, "0"},
		{"wrong type", map[string]any{"NetWeight": true}, "0"},
		{"missing", map[string]any{}, "0"},
	}
	for _, tc := range cases {
		row := NormalizeRow(tc.row)
		if row.NetWeightKg.String() != tc.expected {
			t.Fatalf("%s: expected weight %s, got %s", tc.name, tc.expected, row.NetWeightKg.String())
		}
	}
}

func TestNormalizeRow_GarbageRowStillWellFormed(t *testing.T) {
	before := time.Now()
	row := NormalizeRow(map[string]any{"some_random_column": "noise"})
	after := time.Now()

	if row.CompanyId != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN company, got %q", row.CompanyId)
	}
	if row.Product != "UNKNOWN" {
		t.Fatalf("expected UNKNOWN product, got %q", row.Product)
	}
	if row.WeighType != models.WeighTypeBuy {
		t.Fatalf("expected default BUY, got %s", row.WeighType)
	}
	if !row.NetWeightKg.IsZero() {
		t.Fatalf("expected zero weight, got %s", row.NetWeightKg)
	}
	if row.TransactionDate.Before(before) || row.TransactionDate.After(after) {
		t.Fatalf("expected now-ish date, got %s", row.TransactionDate)
	}

	var raw map[string]any
	if err := json.Unmarshal(row.Raw, &raw); err != nil {
		t.Fatalf("raw payload is not valid json: %v", err)
	}
	if raw["some_random_column"] != "noise" {
		t.Fatalf("raw payload lost the source row: %v", raw)
	}
}

func TestNormalizeRow_NullValuesFallThrough(t *testing.T) {
	// A nil under a recognized header must not mask a later candidate.
	row := NormalizeRow(map[string]any{"Company": nil, "Customer": "ACME"})
	if row.CompanyId != "ACME" {
		t.Fatalf("expected nil to fall through to Customer, got %q", row.CompanyId)
	}
}
