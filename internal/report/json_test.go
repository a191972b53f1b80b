package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/surftab/surftab/internal/types"
)

func TestWriteJSON_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	r := rows[0]
	if r["hkl"] != "100" {
		t.Fatalf("hkl = %v, want \"100\"", r["hkl"])
	}
	if r["hkl_tuple"] != "(1, 0, 0)" {
		t.Fatalf("hkl_tuple = %v", r["hkl_tuple"])
	}
	if r["atoms"] != float64(40) {
		t.Fatalf("atoms = %v, want 40", r["atoms"])
	}
	if r["surface_energy"] != 1200.5 {
		t.Fatalf("surface_energy = %v, want 1200.5", r["surface_energy"])
	}
}

func TestWriteJSON_NaNBecomesNull(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sampleTable()); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	v, present := rows[0]["core_energy"]
	if !present {
		t.Fatalf("core_energy key missing")
	}
	if v != nil {
		t.Fatalf("NaN core_energy should encode as null, got %v", v)
	}
}

func TestWriteJSON_EmptyTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, &types.Table{}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	var rows []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rows); err != nil {
		t.Fatalf("invalid JSON for empty table: %v\n%s", err, buf.String())
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty array, got %d rows", len(rows))
	}
}
