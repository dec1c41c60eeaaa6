package models

import "testing"

func TestNormalizeWeighType(t *testing.T) {
	cases := []struct {
		in       string
		expected WeighType
	}{
		{"BUY", WeighTypeBuy},
		{"SELL", WeighTypeSell},
		{"buy", WeighTypeBuy},
		{" Sell ", WeighTypeSell},
		{"IN", WeighTypeBuy},
		{"INBOUND", WeighTypeBuy},
		{"out", WeighTypeSell},
		{"Outbound", WeighTypeSell},
		{"", WeighTypeBuy},
		{"TRANSFER", WeighTypeBuy},
	}
	for _, tc := range cases {
		if got := NormalizeWeighType(tc.in); got != tc.expected {
			t.Fatalf("NormalizeWeighType(%q) expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

func TestStringList_ValueAndScan(t *testing.T) {
	v, err := StringList{"Ua", "Ub"}.Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if string(v.([]byte)) != `["Ua","Ub"]` {
		t.Fatalf("unexpected value: %s", v)
	}

	// nil list stores as an empty array, never SQL NULL.
	v, err = StringList(nil).Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if string(v.([]byte)) != `[]` {
		t.Fatalf("nil list expected [], got %s", v)
	}

	var l StringList
	if err := l.Scan([]byte(`["U1","U2"]`)); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if len(l) != 2 || l[0] != "U1" || l[1] != "U2" {
		t.Fatalf("unexpected scan result: %v", l)
	}
	if err := l.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if len(l) != 0 {
		t.Fatalf("Scan(nil) expected empty list, got %v", l)
	}
	if err := l.Scan(42); err == nil {
		t.Fatalf("Scan(int) should fail")
	}
}

func TestStringList_Contains(t *testing.T) {
	l := StringList{"U1", "U2"}
	if !l.Contains("U2") {
		t.Fatalf("expected U2 to be present")
	}
	if l.Contains("U3") {
		t.Fatalf("U3 should be absent")
	}
}

func TestStringMap_ValueAndScan(t *testing.T) {
	v, err := StringMap(nil).Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if string(v.([]byte)) != `{}` {
		t.Fatalf("nil map expected {}, got %s", v)
	}

	var m StringMap
	if err := m.Scan(`{"note":"vip"}`); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if m["note"] != "vip" {
		t.Fatalf("unexpected scan result: %v", m)
	}
	if err := m.Scan(nil); err != nil {
		t.Fatalf("Scan(nil) error: %v", err)
	}
	if len(m) != 0 {
		t.Fatalf("Scan(nil) expected empty map, got %v", m)
	}
}
