package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/surftab/surftab/internal/types"
)

// WriteJSON emits the table as an array of objects with keys in column
// order. Non-finite numbers become null, since JSON has no NaN.
func WriteJSON(w io.Writer, t *types.Table) error {
	cols := t.Columns()
	if _, err := io.WriteString(w, "[\n"); err != nil {
		return err
	}
	for i := range t.Rows {
		if i > 0 {
			if _, err := io.WriteString(w, ",\n"); err != nil {
				return err
			}
		}
		if err := writeRowObject(w, cols, t, i); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n]\n")
	return err
}

func writeRowObject(w io.Writer, cols []string, t *types.Table, i int) error {
	r := t.Rows[i]
	if _, err := io.WriteString(w, "  {"); err != nil {
		return err
	}
	for c, col := range cols {
		if c > 0 {
			if _, err := io.WriteString(w, ", "); err != nil {
				return err
			}
		}
		key, _ := json.Marshal(col)
		if _, err := fmt.Fprintf(w, "%s: %s", key, jsonValue(col, r)); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "}")
	return err
}

func jsonValue(col string, r types.Record) string {
	str := func(s string) string {
		b, _ := json.Marshal(s)
		return string(b)
	}
	num := func(v float64) string {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "null"
		}
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	switch col {
	case "hkl":
		return str(r.Miller.String())
	case "hkl_tuple":
		return str(r.Miller.Tuple())
	case "area":
		return num(r.Area)
	case "atoms":
		return strconv.Itoa(r.Atoms)
	case "functional":
		return str(r.Functional)
	case "encut":
		return num(r.Encut)
	case "algo":
		return str(r.Algo)
	case "ismear":
		return strconv.Itoa(r.Ismear)
	case "sigma":
		return num(r.Sigma)
	case "kpoints":
		return strconv.Itoa(r.Kpoints)
	case "bandgap":
		return num(r.Bandgap)
	case "slab_energy":
		return num(r.SlabEnergy)
	case "slab_per_atom":
		return num(r.SlabPerAtom)
	case "surface_energy":
		return num(r.SurfaceEnergy)
	case "surface_energy_ev":
		return num(r.SurfaceEnergyEV)
	case "vacuum_potential":
		return num(r.VacuumPotential)
	case "core_energy":
		return num(r.CoreEnergy)
	}
	return "null"
}
