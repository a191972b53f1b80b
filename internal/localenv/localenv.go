// Package localenv finds the bonded neighbors of sites in a periodic
// structure. Methods are looked up by name so callers can select one from
// a flag or config value, and every call builds a fresh method value; no
// shared state leaks between runs.
package localenv

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/surftab/surftab/internal/structure"
)

// Neighbor is one bonded site: its index, the lattice image it was found
// in, and the center-to-neighbor distance in Å. The same site index can
// appear more than once under different images.
type Neighbor struct {
	Site     int
	Image    [3]int
	Distance float64
}

// NearNeighbors decides which nearby sites count as bonded to a center.
type NearNeighbors interface {
	Name() string
	Neighbors(s *structure.Structure, i int) []Neighbor
}

// Method names recognized by ByName.
const (
	MethodMinDist = "mindist"
	MethodCutoff  = "cutoff"
)

// Defaults for the built-in methods.
const (
	DefaultTol    = 0.1
	DefaultCutoff = 10.0
	DefaultRadius = 3.0
)

// Methods lists the recognized method names.
func Methods() []string {
	return []string{MethodMinDist, MethodCutoff}
}

// ByName returns a fresh method with default parameters.
func ByName(name string) (NearNeighbors, error) {
	switch name {
	case MethodMinDist:
		return MinimumDistanceNN{Tol: DefaultTol, Cutoff: DefaultCutoff}, nil
	case MethodCutoff:
		return CutoffNN{Radius: DefaultRadius}, nil
	}
	return nil, fmt.Errorf("unknown neighbor method %q (have: %s)", name, strings.Join(Methods(), ", "))
}

// Default returns the method used when none is configured.
func Default() NearNeighbors {
	return MinimumDistanceNN{Tol: DefaultTol, Cutoff: DefaultCutoff}
}

// MinimumDistanceNN bonds a site to everything within (1+Tol) times its
// nearest-neighbor distance, searched inside Cutoff Å.
type MinimumDistanceNN struct {
	Tol    float64
	Cutoff float64
}

func (m MinimumDistanceNN) Name() string { return MethodMinDist }

func (m MinimumDistanceNN) Neighbors(s *structure.Structure, i int) []Neighbor {
	all := withinSphere(s, i, m.Cutoff)
	if len(all) == 0 {
		return nil
	}
	dmin := all[0].Distance
	for _, n := range all[1:] {
		if n.Distance < dmin {
			dmin = n.Distance
		}
	}
	limit := dmin * (1 + m.Tol)
	var out []Neighbor
	for _, n := range all {
		if n.Distance < limit {
			out = append(out, n)
		}
	}
	return out
}

// CutoffNN bonds a site to everything within a fixed radius in Å.
type CutoffNN struct {
	Radius float64
}

func (c CutoffNN) Name() string { return MethodCutoff }

func (c CutoffNN) Neighbors(s *structure.Structure, i int) []Neighbor {
	return withinSphere(s, i, c.Radius)
}

// Signature renders a neighbor list as its sorted element symbols joined
// by single spaces, e.g. "O O Sn". Rows match on this string, so ordering
// must be deterministic.
func Signature(s *structure.Structure, neigh []Neighbor) string {
	elems := make([]string, len(neigh))
	for k, n := range neigh {
		elems[k] = s.Sites[n.Site].Element
	}
	sort.Strings(elems)
	return strings.Join(elems, " ")
}

// withinSphere returns every periodic image of every site whose distance
// from site i is within r, excluding the center itself. Results are in a
// fixed site-then-image scan order.
func withinSphere(s *structure.Structure, i int, r float64) []Neighbor {
	carts := make([][3]float64, len(s.Sites))
	for k := range s.Sites {
		carts[k] = s.Cart(k)
	}
	center := carts[i]

	h := s.Lattice.Heights()
	var nmax [3]int
	for ax := 0; ax < 3; ax++ {
		if h[ax] <= 0 {
			return nil
		}
		nmax[ax] = int(math.Ceil(r/h[ax])) + 1
	}

	m := s.Lattice.Matrix
	var out []Neighbor
	for j := range s.Sites {
		for na := -nmax[0]; na <= nmax[0]; na++ {
			for nb := -nmax[1]; nb <= nmax[1]; nb++ {
				for nc := -nmax[2]; nc <= nmax[2]; nc++ {
					if j == i && na == 0 && nb == 0 && nc == 0 {
						continue
					}
					var d2 float64
					for ax := 0; ax < 3; ax++ {
						dx := carts[j][ax] + float64(na)*m[0][ax] + float64(nb)*m[1][ax] + float64(nc)*m[2][ax] - center[ax]
						d2 += dx * dx
					}
					if d := math.Sqrt(d2); d <= r && d > 1e-8 {
						out = append(out, Neighbor{Site: j, Image: [3]int{na, nb, nc}, Distance: d})
					}
				}
			}
		}
	}
	return out
}
