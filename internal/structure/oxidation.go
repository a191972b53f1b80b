package structure

import (
	"fmt"
)

// OxiSpec says how oxidation states should be assigned to a structure:
// guessed from composition, listed per site, or mapped per element. The
// zero value guesses.
type OxiSpec struct {
	kind      oxiKind
	bySite    []float64
	byElement map[string]float64
}

type oxiKind int

const (
	oxiGuess oxiKind = iota
	oxiBySite
	oxiByElement
)

// OxiGuess balances charges using common oxidation states.
func OxiGuess() OxiSpec { return OxiSpec{kind: oxiGuess} }

// OxiBySite assigns states positionally; the list length must match the
// site count of the structure it is applied to.
func OxiBySite(states []float64) OxiSpec {
	return OxiSpec{kind: oxiBySite, bySite: states}
}

// OxiByElement assigns one state to every site of each listed element.
func OxiByElement(states map[string]float64) OxiSpec {
	return OxiSpec{kind: oxiByElement, byElement: states}
}

// Apply decorates s with oxidation states according to the spec.
func (o OxiSpec) Apply(s *Structure) error {
	switch o.kind {
	case oxiBySite:
		if len(o.bySite) != len(s.Sites) {
			return fmt.Errorf("oxidation states: %d values for %d sites", len(o.bySite), len(s.Sites))
		}
		for i := range s.Sites {
			s.Sites[i].Oxi = o.bySite[i]
		}
	case oxiByElement:
		for i := range s.Sites {
			v, ok := o.byElement[s.Sites[i].Element]
			if !ok {
				return fmt.Errorf("oxidation states: no state for element %s", s.Sites[i].Element)
			}
			s.Sites[i].Oxi = v
		}
	case oxiGuess:
		guess := guessStates(s)
		for i := range s.Sites {
			s.Sites[i].Oxi = guess[s.Sites[i].Element]
		}
	}
	s.Decorated = true
	return nil
}

// commonOxi lists plausible oxidation states per element, most common
// first. The guess walks combinations in this order and takes the first
// charge-balanced one.
var commonOxi = map[string][]float64{
	"H": {1, -1}, "Li": {1}, "Na": {1}, "K": {1}, "Rb": {1}, "Cs": {1},
	"Be": {2}, "Mg": {2}, "Ca": {2}, "Sr": {2}, "Ba": {2},
	"B": {3}, "Al": {3}, "Ga": {3}, "In": {3, 1}, "Tl": {1, 3},
	"C": {4, -4, 2}, "Si": {4, -4}, "Ge": {4, 2}, "Sn": {4, 2}, "Pb": {2, 4},
	"N": {-3, 3, 5}, "P": {5, -3, 3}, "As": {5, 3, -3}, "Sb": {3, 5, -3}, "Bi": {3, 5},
	"O": {-2}, "S": {-2, 6, 4, 2}, "Se": {-2, 6, 4}, "Te": {-2, 6, 4},
	"F": {-1}, "Cl": {-1, 7, 5, 3, 1}, "Br": {-1, 7, 5, 1}, "I": {-1, 7, 5, 1},
	"Sc": {3}, "Y": {3}, "La": {3},
	"Ti": {4, 3, 2}, "Zr": {4, 2}, "Hf": {4},
	"V": {5, 4, 3, 2}, "Nb": {5, 4, 3}, "Ta": {5, 4},
	"Cr": {3, 6, 4, 2}, "Mo": {6, 4, 5}, "W": {6, 4, 5},
	"Mn": {2, 4, 7, 3, 6}, "Tc": {7, 4}, "Re": {7, 4, 6},
	"Fe": {3, 2}, "Ru": {4, 3, 2}, "Os": {4, 6, 8},
	"Co": {2, 3}, "Rh": {3, 1}, "Ir": {4, 3},
	"Ni": {2, 3}, "Pd": {2, 4}, "Pt": {2, 4},
	"Cu": {2, 1}, "Ag": {1, 2}, "Au": {3, 1},
	"Zn": {2}, "Cd": {2}, "Hg": {2, 1},
	"Ce": {4, 3}, "Pr": {3}, "Nd": {3}, "Sm": {3}, "Eu": {3, 2}, "Gd": {3},
	"Tb": {3}, "Dy": {3}, "Ho": {3}, "Er": {3}, "Tm": {3}, "Yb": {3, 2}, "Lu": {3},
	"Th": {4}, "U": {6, 4},
}

// guessStates returns a per-element assignment whose weighted sum is zero,
// or all zeros when no combination of common states balances.
func guessStates(s *Structure) map[string]float64 {
	elems := s.Elements()
	counts := s.ElementCounts()

	choices := make([][]float64, len(elems))
	for i, el := range elems {
		if c, ok := commonOxi[el]; ok {
			choices[i] = c
		} else {
			choices[i] = []float64{0}
		}
	}

	assign := make([]float64, len(elems))
	var walk func(i int, sum float64) bool
	walk = func(i int, sum float64) bool {
		if i == len(elems) {
			return sum == 0
		}
		for _, v := range choices[i] {
			assign[i] = v
			if walk(i+1, sum+v*float64(counts[elems[i]])) {
				return true
			}
		}
		return false
	}

	out := make(map[string]float64, len(elems))
	if walk(0, 0) {
		for i, el := range elems {
			out[el] = assign[i]
		}
	} else {
		for _, el := range elems {
			out[el] = 0
		}
	}
	return out
}
