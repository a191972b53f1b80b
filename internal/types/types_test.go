package types

import (
	"math"
	"reflect"
	"testing"
)

func TestMillerForms(t *testing.T) {
	cases := []struct {
		m     Miller
		s     string
		tuple string
	}{
		{Miller{1, 0, 0}, "100", "(1, 0, 0)"},
		{Miller{1, 1, 1}, "111", "(1, 1, 1)"},
		{Miller{1, -1, 0}, "1-10", "(1, -1, 0)"},
		{Miller{0, 0, 2}, "002", "(0, 0, 2)"},
	}
	for _, c := range cases {
		if got := c.m.String(); got != c.s {
			t.Errorf("String(%v) = %q, want %q", c.m, got, c.s)
		}
		if got := c.m.Tuple(); got != c.tuple {
			t.Errorf("Tuple(%v) = %q, want %q", c.m, got, c.tuple)
		}
	}
}

func TestFormatFloat(t *testing.T) {
	if got := FormatFloat(math.NaN()); got != "" {
		t.Errorf("NaN rendered as %q, want empty", got)
	}
	if got := FormatFloat(math.Inf(1)); got != "inf" {
		t.Errorf("+Inf rendered as %q", got)
	}
	if got := FormatFloat(math.Inf(-1)); got != "-inf" {
		t.Errorf("-Inf rendered as %q", got)
	}
	if got := FormatFloat(1.5); got != "1.5" {
		t.Errorf("1.5 rendered as %q", got)
	}
	if got := FormatFloat(-61.1234); got != "-61.1234" {
		t.Errorf("-61.1234 rendered as %q", got)
	}
}

func TestTableOptionalColumns(t *testing.T) {
	base := &Table{Rows: []Record{{Miller: Miller{1, 0, 0}}}}
	cols := base.Columns()
	if len(cols) != 15 {
		t.Fatalf("base schema has %d columns, want 15", len(cols))
	}
	if cols[0] != "hkl" || cols[14] != "surface_energy_ev" {
		t.Fatalf("unexpected schema bounds: %v", cols)
	}
	if len(base.Row(0)) != 15 {
		t.Fatalf("row width %d, want 15", len(base.Row(0)))
	}

	both := &Table{Rows: []Record{{}}, HasVacuum: true, HasCore: true}
	cols = both.Columns()
	if cols[15] != "vacuum_potential" || cols[16] != "core_energy" {
		t.Fatalf("optional columns misplaced: %v", cols)
	}
	if len(both.Row(0)) != 17 {
		t.Fatalf("row width %d, want 17", len(both.Row(0)))
	}

	vacOnly := &Table{Rows: []Record{{}}, HasVacuum: true}
	cols = vacOnly.Columns()
	if len(cols) != 16 || cols[15] != "vacuum_potential" {
		t.Fatalf("vacuum-only schema wrong: %v", cols)
	}
}

func TestFacetMapOrder(t *testing.T) {
	fm := NewFacetMap()
	fm.Set(Miller{1, 0, 0}, "a")
	fm.Set(Miller{1, 1, 0}, "b")
	fm.Set(Miller{1, 1, 1}, "c")
	// overwrite keeps position
	fm.Set(Miller{1, 1, 0}, "b2")

	want := []Miller{{1, 0, 0}, {1, 1, 0}, {1, 1, 1}}
	if !reflect.DeepEqual(fm.Keys(), want) {
		t.Fatalf("keys %v, want %v", fm.Keys(), want)
	}
	if d, ok := fm.Get(Miller{1, 1, 0}); !ok || d != "b2" {
		t.Fatalf("overwrite lost: %q %v", d, ok)
	}
	if fm.Len() != 3 {
		t.Fatalf("len %d, want 3", fm.Len())
	}
}
