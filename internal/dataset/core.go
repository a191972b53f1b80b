package dataset

import (
	"math"
	"sort"
	"strings"

	"github.com/surftab/surftab/internal/localenv"
	"github.com/surftab/surftab/internal/structure"
	"github.com/surftab/surftab/internal/vasp"
)

// CoreOptions tunes CoreEnergy. Zero values select the defaults noted on
// each field.
type CoreOptions struct {
	// Orbital is the core state label in the OUTCAR block, default "1s".
	Orbital string

	// OxStates decorates the structure before the bonding analysis; the
	// zero value guesses from common oxidation states.
	OxStates structure.OxiSpec

	// NN picks the bonding method; nil uses localenv.Default().
	NN localenv.NearNeighbors

	// Outcar is the core-state source, default "OUTCAR" (gz fallback).
	Outcar string

	// Structure, when set, is used directly; otherwise StructurePath is
	// loaded (default "POSCAR").
	Structure     *structure.Structure
	StructurePath string
}

// CoreEnergy returns the core-state eigenvalue of a representative
// bulk-like atom. Sites of coreAtom's element are candidates; those
// strictly inside the interquartile range of fractional c whose bonded
// neighbour elements match bulkNN survive, and the survivor at the
// nearest-rank median site index is read out of the OUTCAR. NaN when no
// site qualifies or the OUTCAR lacks the state; missing or unreadable
// files are errors.
func CoreEnergy(coreAtom string, bulkNN []string, opts CoreOptions) (float64, error) {
	orbital := opts.Orbital
	if orbital == "" {
		orbital = "1s"
	}
	method := opts.NN
	if method == nil {
		method = localenv.Default()
	}
	outcarPath := opts.Outcar
	if outcarPath == "" {
		outcarPath = "OUTCAR"
	}

	st := opts.Structure
	if st == nil {
		path := opts.StructurePath
		if path == "" {
			path = "POSCAR"
		}
		var err error
		st, err = structure.Load(path)
		if err != nil {
			return 0, err
		}
	}
	if err := opts.OxStates.Apply(st); err != nil {
		return 0, err
	}

	sortedNN := append([]string(nil), bulkNN...)
	sort.Strings(sortedNN)
	bulkSig := strings.Join(sortedNN, " ")

	type candidate struct {
		site int
		sig  string
		c    float64
	}
	var cands []candidate
	for i, s := range st.Sites {
		if s.Element != coreAtom {
			continue
		}
		cands = append(cands, candidate{
			site: i,
			sig:  localenv.Signature(st, method.Neighbors(st, i)),
			c:    s.Frac[2],
		})
	}
	if len(cands) == 0 {
		return math.NaN(), nil
	}

	cs := make([]float64, len(cands))
	for i, c := range cands {
		cs[i] = c.c
	}
	low := quantileLinear(cs, 0.25)
	high := quantileLinear(cs, 0.75)

	var survivors []int
	for _, c := range cands {
		if low < c.c && c.c < high && c.sig == bulkSig {
			survivors = append(survivors, c.site)
		}
	}
	if len(survivors) == 0 {
		return math.NaN(), nil
	}
	sort.Ints(survivors)
	atom := survivors[int(math.RoundToEven(0.5*float64(len(survivors)-1)))]

	otc, err := vasp.ReadOutcar(outcarPath)
	if err != nil {
		return 0, err
	}
	cl := otc.CoreStateEigen()
	if atom >= len(cl) {
		return math.NaN(), nil
	}
	vals := cl[atom][orbital]
	if len(vals) == 0 {
		return math.NaN(), nil
	}
	return vals[len(vals)-1], nil
}

// quantileLinear is the linearly interpolated q-quantile over a sorted
// copy of vs.
func quantileLinear(vs []float64, q float64) float64 {
	sorted := append([]float64(nil), vs...)
	sort.Float64s(sorted)
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
