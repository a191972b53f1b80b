package types

import (
	"fmt"
	"math"
	"strconv"
)

// Miller is a Miller index (hkl) naming one slab facet.
type Miller struct {
	H, K, L int
}

// String returns the compact digit form used for directory names and the
// hkl column, e.g. "100" or "1-10".
func (m Miller) String() string {
	return strconv.Itoa(m.H) + strconv.Itoa(m.K) + strconv.Itoa(m.L)
}

// Tuple returns the parenthesized form used for the hkl_tuple column,
// e.g. "(1, 0, 0)".
func (m Miller) Tuple() string {
	return fmt.Sprintf("(%d, %d, %d)", m.H, m.K, m.L)
}

// Record holds one aggregated row: the parsed and derived values for a
// single facet directory. Optional columns (VacuumPotential, CoreEnergy)
// are only rendered when the owning Table says so; NaN marks a value that
// could not be computed.
type Record struct {
	Miller          Miller
	Area            float64 // in-plane cross-section, Å²
	Atoms           int
	Functional      string
	Encut           float64
	Algo            string
	Ismear          int
	Sigma           float64
	Kpoints         int
	Bandgap         float64
	SlabEnergy      float64
	SlabPerAtom     float64
	SurfaceEnergy   float64 // mJ/m²
	SurfaceEnergyEV float64 // eV/Å²

	VacuumPotential float64
	CoreEnergy      float64

	// SourceDir is the facet directory the row was read from. It is not a
	// column; the TUI uses it to locate raw files for previews.
	SourceDir string
}

// Table is an ordered collection of facet records sharing one column
// schema. HasVacuum and HasCore gate the two optional trailing columns for
// every row at once.
type Table struct {
	Rows      []Record
	HasVacuum bool
	HasCore   bool
}

// baseColumns is the fixed leading schema, in output order.
var baseColumns = []string{
	"hkl", "hkl_tuple", "area", "atoms", "functional", "encut", "algo",
	"ismear", "sigma", "kpoints", "bandgap", "slab_energy",
	"slab_per_atom", "surface_energy", "surface_energy_ev",
}

// Columns returns the column names for this table, including any enabled
// optional columns.
func (t *Table) Columns() []string {
	cols := make([]string, len(baseColumns), len(baseColumns)+2)
	copy(cols, baseColumns)
	if t.HasVacuum {
		cols = append(cols, "vacuum_potential")
	}
	if t.HasCore {
		cols = append(cols, "core_energy")
	}
	return cols
}

// Row renders row i as strings in column order. NaN renders empty so that
// CSV consumers see a missing cell rather than a textual NaN.
func (t *Table) Row(i int) []string {
	r := t.Rows[i]
	row := make([]string, 0, len(baseColumns)+2)
	row = append(row,
		r.Miller.String(),
		r.Miller.Tuple(),
		FormatFloat(r.Area),
		strconv.Itoa(r.Atoms),
		r.Functional,
		FormatFloat(r.Encut),
		r.Algo,
		strconv.Itoa(r.Ismear),
		FormatFloat(r.Sigma),
		strconv.Itoa(r.Kpoints),
		FormatFloat(r.Bandgap),
		FormatFloat(r.SlabEnergy),
		FormatFloat(r.SlabPerAtom),
		FormatFloat(r.SurfaceEnergy),
		FormatFloat(r.SurfaceEnergyEV),
	)
	if t.HasVacuum {
		row = append(row, FormatFloat(r.VacuumPotential))
	}
	if t.HasCore {
		row = append(row, FormatFloat(r.CoreEnergy))
	}
	return row
}

// FormatFloat renders v for tabular output: shortest round-trip decimal,
// empty for NaN, "inf"/"-inf" for infinities (both parse back with
// strconv.ParseFloat).
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return ""
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
