package core_test

import (
	"fmt"
	"os"

	"github.com/surftab/surftab/pkg/core"
)

// ExampleProcess demonstrates aggregating a tree of facet directories into
// a table.
func ExampleProcess() {
	// 1. Configure the run
	cfg := core.Config{
		BulkPerAtom: -7.418,  // bulk reference energy, eV/atom (required)
		Path:        "calcs", // directory holding facet subdirectories
		ParseHKL:    true,    // discover facets from three-digit names
		ParseVacuum: true,    // add the vacuum_potential column
	}

	// 2. Aggregate
	tbl, err := core.Process(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "aggregation failed: %v\n", err)
		return
	}

	// 3. Consume rows
	for _, r := range tbl.Rows {
		fmt.Printf("%s: %.1f mJ/m2\n", r.Miller, r.SurfaceEnergy)
	}
	// Or write JSON for a pipeline
	_ = core.MarshalTable(os.Stdout, tbl)
}

// ExampleCoreEnergy shows a standalone core-level lookup with explicit
// oxidation states.
func ExampleCoreEnergy() {
	opts := core.CoreOptions{
		Orbital:       "1s",
		OxStates:      core.OxiByElement(map[string]float64{"Sn": 4, "O": -2}),
		Outcar:        "calcs/110/OUTCAR",
		StructurePath: "calcs/110/POSCAR",
	}
	e, err := core.CoreEnergy("O", []string{"Sn", "Sn", "Sn"}, opts)
	if err != nil {
		panic(err)
	}
	fmt.Printf("O 1s core level: %.3f eV\n", e)
}
