package dataset

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surftab/surftab/internal/localenv"
	"github.com/surftab/surftab/internal/structure"
)

// chainPoscar is a 4×4×20 Å cell with five Sn sites stacked along c and
// an O site midway between each consecutive pair, so every Sn is bonded
// to exactly two O within 2.5 Å (the top Sn reaches its second O through
// the periodic image above the cell).
const chainPoscar = `Sn O chain slab
1.0
  4.0 0.0 0.0
  0.0 4.0 0.0
  0.0 0.0 20.0
Sn O
5 5
Direct
  0.5 0.5 0.1
  0.5 0.5 0.3
  0.5 0.5 0.5
  0.5 0.5 0.7
  0.5 0.5 0.9
  0.5 0.5 0.0
  0.5 0.5 0.2
  0.5 0.5 0.4
  0.5 0.5 0.6
  0.5 0.5 0.8
`

// chainSlab is the in-memory twin of chainPoscar.
func chainSlab() *structure.Structure {
	s := &structure.Structure{
		Comment: "Sn O chain slab",
		Lattice: structure.Lattice{Matrix: [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 20}}},
	}
	for _, c := range []float64{0.1, 0.3, 0.5, 0.7, 0.9} {
		s.Sites = append(s.Sites, structure.Site{Element: "Sn", Frac: [3]float64{0.5, 0.5, c}})
	}
	for _, c := range []float64{0.0, 0.2, 0.4, 0.6, 0.8} {
		s.Sites = append(s.Sites, structure.Site{Element: "O", Frac: [3]float64{0.5, 0.5, c}})
	}
	return s
}

// isolatedSlab stacks n Sn sites 1 Å apart with no bonding partners, so
// with a small cutoff every candidate has an empty neighbour signature.
func isolatedSlab(n int) *structure.Structure {
	s := &structure.Structure{
		Comment: "isolated Sn stack",
		Lattice: structure.Lattice{Matrix: [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 20}}},
	}
	for i := 0; i < n; i++ {
		s.Sites = append(s.Sites, structure.Site{Element: "Sn", Frac: [3]float64{0.5, 0.5, 0.05 * float64(i+1)}})
	}
	return s
}

// chainOutcar writes two core state blocks per ion, so the last value per
// ion differs from the first: ion i converges to -500 - 0.1*i.
func chainOutcar(nions int) string {
	var b strings.Builder
	b.WriteString(" vasp.6.3.0 slab run\n")
	fmt.Fprintf(&b, "   number of dos      NEDOS =    301   number of ions     NIONS =  %d\n", nions)
	for _, start := range []float64{-400, -500} {
		b.WriteString(" the core state eigenenergies are\n")
		for i := 0; i < nions; i++ {
			fmt.Fprintf(&b, "  %d-  1s  %10.4f\n", i+1, start-0.1*float64(i))
		}
		b.WriteString("  E-fermi :   2.6951     XC(G=0): -10.8492     alpha+bet : -6.9428\n")
	}
	return b.String()
}

func TestCoreEnergy_PicksBulkLikeSite(t *testing.T) {
	dir := t.TempDir()
	outcar := writeTemp(t, dir, "OUTCAR", chainOutcar(10))

	// candidates sit at c = 0.1..0.9; the strict interquartile window
	// (0.3, 0.7) leaves only the centre site, index 2
	got, err := CoreEnergy("Sn", []string{"O", "O"}, CoreOptions{
		NN:        localenv.CutoffNN{Radius: 2.5},
		Outcar:    outcar,
		Structure: chainSlab(),
	})
	require.NoError(t, err)
	assert.InDelta(t, -500.2, got, 1e-9)
}

func TestCoreEnergy_QuartileBoundariesExcluded(t *testing.T) {
	// an extra O bonded only to the centre Sn changes its signature to
	// "O O O"; sites exactly on the quartiles still match the bulk but
	// are excluded, so nothing survives
	s := chainSlab()
	s.Sites = append(s.Sites, structure.Site{Element: "O", Frac: [3]float64{0.3, 0.5, 0.5}})

	got, err := CoreEnergy("Sn", []string{"O", "O"}, CoreOptions{
		NN:        localenv.CutoffNN{Radius: 2.5},
		Structure: s,
	})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestCoreEnergy_MedianRoundsHalfToEven(t *testing.T) {
	dir := t.TempDir()
	outcar := writeTemp(t, dir, "OUTCAR", chainOutcar(12))

	// twelve candidates, six survivors (sites 3..8): the median position
	// 2.5 rounds to 2, picking site 5 rather than site 6
	got, err := CoreEnergy("Sn", nil, CoreOptions{
		NN:        localenv.CutoffNN{Radius: 0.5},
		Outcar:    outcar,
		Structure: isolatedSlab(12),
	})
	require.NoError(t, err)
	assert.InDelta(t, -500.5, got, 1e-9)
}

func TestCoreEnergy_SignatureMismatch(t *testing.T) {
	nn := []string{"Sn", "O"}
	got, err := CoreEnergy("Sn", nn, CoreOptions{
		NN:        localenv.CutoffNN{Radius: 2.5},
		Structure: chainSlab(),
	})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
	// the caller's slice is sorted on a copy, never in place
	assert.Equal(t, []string{"Sn", "O"}, nn)
}

func TestCoreEnergy_NoCandidateElement(t *testing.T) {
	got, err := CoreEnergy("Cu", []string{"O", "O"}, CoreOptions{
		NN:        localenv.CutoffNN{Radius: 2.5},
		Structure: chainSlab(),
	})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestCoreEnergy_MissingOrbital(t *testing.T) {
	dir := t.TempDir()
	outcar := writeTemp(t, dir, "OUTCAR", chainOutcar(10))

	got, err := CoreEnergy("Sn", []string{"O", "O"}, CoreOptions{
		Orbital:   "2p",
		NN:        localenv.CutoffNN{Radius: 2.5},
		Outcar:    outcar,
		Structure: chainSlab(),
	})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestCoreEnergy_IonIndexOutOfRange(t *testing.T) {
	dir := t.TempDir()
	// OUTCAR from a different, smaller run: the chosen site index does
	// not exist in it
	outcar := writeTemp(t, dir, "OUTCAR", chainOutcar(2))

	got, err := CoreEnergy("Sn", []string{"O", "O"}, CoreOptions{
		NN:        localenv.CutoffNN{Radius: 2.5},
		Outcar:    outcar,
		Structure: chainSlab(),
	})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))
}

func TestCoreEnergy_FromStructureFile(t *testing.T) {
	dir := t.TempDir()
	poscar := writeTemp(t, dir, "POSCAR", chainPoscar)
	outcar := writeTemp(t, dir, "OUTCAR", chainOutcar(10))

	got, err := CoreEnergy("Sn", []string{"O", "O"}, CoreOptions{
		OxStates:      structure.OxiByElement(map[string]float64{"Sn": 2, "O": -2}),
		NN:            localenv.CutoffNN{Radius: 2.5},
		Outcar:        outcar,
		StructurePath: poscar,
	})
	require.NoError(t, err)
	assert.InDelta(t, -500.2, got, 1e-9)
}

func TestCoreEnergy_MissingOutcar(t *testing.T) {
	dir := t.TempDir()
	_, err := CoreEnergy("Sn", []string{"O", "O"}, CoreOptions{
		NN:        localenv.CutoffNN{Radius: 2.5},
		Outcar:    dir + "/OUTCAR",
		Structure: chainSlab(),
	})
	require.Error(t, err)
}

func TestCoreEnergy_BadOxStates(t *testing.T) {
	_, err := CoreEnergy("Sn", []string{"O", "O"}, CoreOptions{
		OxStates:  structure.OxiBySite([]float64{2, -2}),
		NN:        localenv.CutoffNN{Radius: 2.5},
		Structure: chainSlab(),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 values for 10 sites")
}
