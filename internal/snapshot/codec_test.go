// Ledgerline - Retail Inventory, CRM and Point-of-Sale Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/ledgerline

package snapshot

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func sampleSnapshot() *Snapshot {
	s := New(map[Kind][]Record{
		KindCategory: {{"id": "cat-1", "name": "Drinks"}},
		KindProduct:  {{"id": "p-1", "name": "Cola", "price": json.Number("1.50"), "categoryId": "cat-1"}},
		KindCustomer: {{"id": "c-1", "name": "Ana", "createdAt": "2025-05-01T10:00:00.000Z"}},
		KindSale:     {{"id": "s-1", "customerId": "c-1", "productId": "p-1", "quantity": json.Number("2")}},
	})
	s.CreatedAt = time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return s
}

func TestNew_AllKindsPresent(t *testing.T) {
	s := New(nil)
	for _, spec := range Kinds() {
		rows, ok := s.Entities[spec.Kind]
		if !ok || rows == nil {
			t.Errorf("%s missing from empty snapshot", spec.Kind)
		}
		if s.Counts[spec.Kind] != 0 {
			t.Errorf("Counts[%s] = %d, want 0", spec.Kind, s.Counts[spec.Kind])
		}
	}
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	in := sampleSnapshot()
	in.Origin = OriginAutomatic

	data, err := Encode(in)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	out, warnings, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
	if out.Origin != OriginAutomatic {
		t.Errorf("Origin = %q, want automatic", out.Origin)
	}
	if !out.CreatedAt.Equal(in.CreatedAt) {
		t.Errorf("CreatedAt = %v, want %v", out.CreatedAt, in.CreatedAt)
	}
	if out.FormatVersion != CurrentVersion {
		t.Errorf("FormatVersion = %q", out.FormatVersion)
	}
	for _, spec := range Kinds() {
		if out.Counts[spec.Kind] != in.Counts[spec.Kind] {
			t.Errorf("Counts[%s] = %d, want %d", spec.Kind, out.Counts[spec.Kind], in.Counts[spec.Kind])
		}
	}
	customer := out.Entities[KindCustomer][0]
	if customer["id"] != "c-1" || customer["createdAt"] != "2025-05-01T10:00:00.000Z" {
		t.Errorf("customer fields not preserved: %v", customer)
	}
	if got := out.Entities[KindProduct][0]["price"]; got != json.Number("1.50") {
		t.Errorf("price = %#v, want json.Number(1.50)", got)
	}
}

func TestEncode_WireShape(t *testing.T) {
	manual := sampleSnapshot()
	manual.Origin = OriginManual
	data, err := Encode(manual)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := doc["type"]; ok {
		t.Error("manual snapshot must not carry a type key")
	}
	if doc["version"] != CurrentVersion {
		t.Errorf("version = %v", doc["version"])
	}
	if doc["timestamp"] != "2026-01-02T03:04:05.000Z" {
		t.Errorf("timestamp = %v", doc["timestamp"])
	}
	stats := doc["stats"].(map[string]any)
	if stats["products"] != float64(1) || stats["credits"] != float64(0) {
		t.Errorf("stats = %v", stats)
	}
	payload := doc["data"].(map[string]any)
	for _, spec := range Kinds() {
		if _, ok := payload[spec.WireKey]; !ok {
			t.Errorf("data.%s missing", spec.WireKey)
		}
	}
}

func TestDecode_InvalidFormat(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{{`},
		{"array", `[]`},
		{"no data", `{"version":"1.2"}`},
		{"missing customers", `{"version":"1.2","data":{"products":[]}}`},
		{"missing products", `{"version":"1.2","data":{"customers":[]}}`},
		{"kind not an array", `{"version":"1.2","data":{"products":{},"customers":[]}}`},
		{"null row", `{"version":"1.2","data":{"products":[null],"customers":[]}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Decode([]byte(tt.doc))
			if !errors.Is(err, ErrInvalidFormat) {
				t.Errorf("Decode() error = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestDecode_Warnings(t *testing.T) {
	doc := `{
		"version": "9.9",
		"timestamp": "yesterday",
		"type": "nightly",
		"stats": {"products": 5},
		"data": {"products": [{"id": "p-1"}], "customers": [], "images": []}
	}`
	s, warnings, err := Decode([]byte(doc))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	joined := strings.Join(warnings, "\n")
	for _, want := range []string{
		`unrecognized version "9.9"`,
		`unparseable timestamp`,
		`unknown type "nightly"`,
		`data.sales missing`,
		`unknown data key "images"`,
		`stats.products is 5 but data has 1 rows`,
	} {
		if !strings.Contains(joined, want) {
			t.Errorf("warnings missing %q:\n%s", want, joined)
		}
	}
	if s.Origin != OriginManual {
		t.Errorf("Origin = %q, want manual", s.Origin)
	}
	if rows := s.Entities[KindSale]; rows == nil || len(rows) != 0 {
		t.Errorf("missing kind should decode to empty slice, got %v", rows)
	}
}

func TestDecode_LegacyVersionAccepted(t *testing.T) {
	s, warnings, err := Decode([]byte(`{"version":"1.0","data":{"products":[],"customers":[],"sales":null}}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.FormatVersion != "1.0" {
		t.Errorf("FormatVersion = %q", s.FormatVersion)
	}
	for _, w := range warnings {
		if strings.Contains(w, "version") {
			t.Errorf("known version should not warn: %s", w)
		}
	}
	if s.Entities[KindSale] == nil {
		t.Error("null array should decode to empty slice")
	}
}

func TestParseOrigin(t *testing.T) {
	if o, err := ParseOrigin("automatic"); err != nil || o != OriginAutomatic {
		t.Errorf("ParseOrigin(automatic) = %q, %v", o, err)
	}
	if _, err := ParseOrigin("hourly"); err == nil {
		t.Error("expected error for unknown origin")
	}
}
