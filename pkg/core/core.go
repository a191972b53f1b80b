package core

import (
	"github.com/surftab/surftab/internal/dataset"
	"github.com/surftab/surftab/internal/localenv"
	"github.com/surftab/surftab/internal/structure"
	"github.com/surftab/surftab/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
// We can replace these with decoupled structs later without breaking callers.
type (
	Config      = dataset.Config
	CoreOptions = dataset.CoreOptions
	Miller      = types.Miller
	Record      = types.Record
	Table       = types.Table
	FacetMap    = types.FacetMap
	OxiSpec     = structure.OxiSpec
)

// Process is the stable aggregation entrypoint for other programs.
func Process(cfg Config) (*Table, error) {
	return dataset.Process(cfg)
}

// Vacuum extracts the vacuum level from a potential source under path.
func Vacuum(path string) (float64, error) {
	return dataset.Vacuum(path)
}

// CoreEnergy extracts the core-state eigenvalue of a representative
// bulk-like atom.
func CoreEnergy(coreAtom string, bulkNN []string, opts CoreOptions) (float64, error) {
	return dataset.CoreEnergy(coreAtom, bulkNN, opts)
}

// NewFacetMap returns an empty insertion-ordered facet mapping.
func NewFacetMap() *FacetMap { return types.NewFacetMap() }

// Oxidation state specs for CoreOptions.OxStates.
func OxiGuess() OxiSpec { return structure.OxiGuess() }

func OxiBySite(states []float64) OxiSpec { return structure.OxiBySite(states) }

func OxiByElement(states map[string]float64) OxiSpec { return structure.OxiByElement(states) }

// NNMethods returns the recognized neighbor-method names.
// This is exposed for convenience to avoid importing internals directly.
func NNMethods() []string { return localenv.Methods() }
