package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/surftab/surftab/internal/structure"
	"github.com/surftab/surftab/internal/types"
)

// ParseMiller reads a Miller index from either the comma form "1,-1,0" or
// the compact digit form "1-10".
func ParseMiller(s string) (types.Miller, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return types.Miller{}, fmt.Errorf("empty Miller index")
	}
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) != 3 {
			return types.Miller{}, fmt.Errorf("miller index %q: want 3 comma-separated integers", s)
		}
		var vals [3]int
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return types.Miller{}, fmt.Errorf("miller index %q: %w", s, err)
			}
			vals[i] = v
		}
		return types.Miller{H: vals[0], K: vals[1], L: vals[2]}, nil
	}

	// compact form: each index is one digit, optionally signed
	var vals []int
	neg := false
	for _, c := range s {
		switch {
		case c == '-':
			if neg {
				return types.Miller{}, fmt.Errorf("miller index %q: doubled sign", s)
			}
			neg = true
		case c >= '0' && c <= '9':
			v := int(c - '0')
			if neg {
				v = -v
				neg = false
			}
			vals = append(vals, v)
		default:
			return types.Miller{}, fmt.Errorf("miller index %q: unexpected character %q", s, c)
		}
	}
	if neg || len(vals) != 3 {
		return types.Miller{}, fmt.Errorf("miller index %q: want exactly 3 digits", s)
	}
	return types.Miller{H: vals[0], K: vals[1], L: vals[2]}, nil
}

// ParseFacetEntries turns "hkl=path" entries into an ordered facet map.
// Entries validate fail-fast so a typo surfaces before any parsing work.
func ParseFacetEntries(entries []string) (*types.FacetMap, error) {
	fm := types.NewFacetMap()
	for _, e := range entries {
		key, path, ok := strings.Cut(e, "=")
		if !ok {
			return nil, fmt.Errorf("facet entry %q: want hkl=path", e)
		}
		m, err := ParseMiller(key)
		if err != nil {
			return nil, fmt.Errorf("facet entry %q: %w", e, err)
		}
		path = strings.TrimSpace(path)
		if path == "" {
			return nil, fmt.Errorf("facet entry %q: empty path", e)
		}
		fm.Set(m, path)
	}
	return fm, nil
}

// ParseOxStates reads an oxidation state spec: empty guesses, "El:state"
// pairs assign by element, a plain number list assigns by site.
func ParseOxStates(s string) (structure.OxiSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return structure.OxiGuess(), nil
	}
	if strings.Contains(s, ":") {
		m := make(map[string]float64)
		for _, pair := range strings.Split(s, ",") {
			el, val, ok := strings.Cut(pair, ":")
			if !ok {
				return structure.OxiSpec{}, fmt.Errorf("oxidation states %q: want El:state pairs", s)
			}
			el = strings.TrimSpace(el)
			f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
			if err != nil || el == "" {
				return structure.OxiSpec{}, fmt.Errorf("oxidation states %q: bad pair %q", s, pair)
			}
			m[el] = f
		}
		return structure.OxiByElement(m), nil
	}
	var list []float64
	for _, part := range strings.Split(s, ",") {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return structure.OxiSpec{}, fmt.Errorf("oxidation states %q: %w", s, err)
		}
		list = append(list, f)
	}
	return structure.OxiBySite(list), nil
}

// ParseList splits a comma-separated list, trimming blanks.
func ParseList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
