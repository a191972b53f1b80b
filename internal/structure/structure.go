package structure

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Lattice holds the three cell vectors as rows, in Å. Fractional
// coordinates multiply the matrix from the left, so Cart = frac · Matrix.
type Lattice struct {
	Matrix [3][3]float64
}

// Volume returns the cell volume in Å³.
func (l Lattice) Volume() float64 {
	return math.Abs(det3(l.Matrix))
}

// SurfaceArea returns |a × b|, the in-plane cross-section of a slab whose
// surface normal is the c axis.
func (l Lattice) SurfaceArea() float64 {
	return norm(cross(l.Matrix[0], l.Matrix[1]))
}

// Cart converts fractional coordinates to cartesian Å.
func (l Lattice) Cart(frac [3]float64) [3]float64 {
	var c [3]float64
	for j := 0; j < 3; j++ {
		c[j] = frac[0]*l.Matrix[0][j] + frac[1]*l.Matrix[1][j] + frac[2]*l.Matrix[2][j]
	}
	return c
}

// Frac converts cartesian coordinates back to fractional ones.
func (l Lattice) Frac(cart [3]float64) ([3]float64, error) {
	inv, ok := inverse3(l.Matrix)
	if !ok {
		return [3]float64{}, fmt.Errorf("lattice is singular")
	}
	var f [3]float64
	for j := 0; j < 3; j++ {
		f[j] = cart[0]*inv[0][j] + cart[1]*inv[1][j] + cart[2]*inv[2][j]
	}
	return f, nil
}

// Heights returns the perpendicular height of the cell along each axis,
// i.e. volume divided by the area of the opposing face. Neighbor searches
// use these to bound how many periodic images a cutoff sphere can touch.
func (l Lattice) Heights() [3]float64 {
	v := l.Volume()
	return [3]float64{
		v / norm(cross(l.Matrix[1], l.Matrix[2])),
		v / norm(cross(l.Matrix[2], l.Matrix[0])),
		v / norm(cross(l.Matrix[0], l.Matrix[1])),
	}
}

// Site is one atom: its element symbol, fractional position, and an
// oxidation state once a spec has been applied.
type Site struct {
	Element string
	Frac    [3]float64
	Oxi     float64
}

// Structure is a crystal or slab read from a positions file.
type Structure struct {
	Comment   string
	Lattice   Lattice
	Sites     []Site
	Decorated bool // oxidation states assigned
}

// Cart returns the cartesian position of site i in Å.
func (s *Structure) Cart(i int) [3]float64 {
	return s.Lattice.Cart(s.Sites[i].Frac)
}

// Elements returns the distinct element symbols in order of first
// appearance.
func (s *Structure) Elements() []string {
	var order []string
	seen := make(map[string]bool)
	for _, site := range s.Sites {
		if !seen[site.Element] {
			seen[site.Element] = true
			order = append(order, site.Element)
		}
	}
	return order
}

// ElementCounts returns how many sites each element has.
func (s *Structure) ElementCounts() map[string]int {
	counts := make(map[string]int)
	for _, site := range s.Sites {
		counts[site.Element]++
	}
	return counts
}

// Load reads a structure from a positions file. A ".gz" suffix is
// decompressed transparently; there is no fallback probing here since the
// caller names the exact file.
func Load(path string) (*Structure, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}
	s, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse reads one structure in POSCAR format from r.
func Parse(r io.Reader) (*Structure, error) {
	sc := bufio.NewScanner(r)
	return ParseScanner(sc)
}

// ParseScanner consumes exactly one POSCAR block from sc and leaves the
// scanner positioned after the coordinate lines, so grid files that embed
// a structure header can keep reading.
func ParseScanner(sc *bufio.Scanner) (*Structure, error) {
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	comment, ok := next()
	if !ok {
		return nil, fmt.Errorf("empty structure file")
	}

	line, ok := next()
	if !ok {
		return nil, fmt.Errorf("missing scale line")
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err != nil {
		return nil, fmt.Errorf("bad scale %q: %w", strings.TrimSpace(line), err)
	}

	var raw [3][3]float64
	for i := 0; i < 3; i++ {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("missing lattice vector %d", i+1)
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("lattice vector %d: want 3 components, got %d", i+1, len(fields))
		}
		for j := 0; j < 3; j++ {
			raw[i][j], err = strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, fmt.Errorf("lattice vector %d: %w", i+1, err)
			}
		}
	}

	// A negative scale is a target volume for the cell.
	factor := scale
	if scale < 0 {
		vol := math.Abs(det3(raw))
		if vol == 0 {
			return nil, fmt.Errorf("zero-volume lattice with negative scale")
		}
		factor = math.Cbrt(-scale / vol)
	}
	var lat Lattice
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			lat.Matrix[i][j] = raw[i][j] * factor
		}
	}

	line, ok = next()
	if !ok {
		return nil, fmt.Errorf("missing element symbols line")
	}
	symFields := strings.Fields(line)
	if len(symFields) == 0 || !isSymbol(symFields[0]) {
		return nil, fmt.Errorf("element symbols line missing (VASP 4 style headers are not supported)")
	}

	line, ok = next()
	if !ok {
		return nil, fmt.Errorf("missing element counts line")
	}
	countFields := strings.Fields(line)
	if len(countFields) != len(symFields) {
		return nil, fmt.Errorf("%d element symbols but %d counts", len(symFields), len(countFields))
	}
	counts := make([]int, len(countFields))
	total := 0
	for i, f := range countFields {
		counts[i], err = strconv.Atoi(f)
		if err != nil || counts[i] < 0 {
			return nil, fmt.Errorf("bad element count %q", f)
		}
		total += counts[i]
	}
	if total == 0 {
		return nil, fmt.Errorf("structure has no sites")
	}

	line, ok = next()
	if !ok {
		return nil, fmt.Errorf("missing coordinate mode line")
	}
	if first(line) == 's' {
		// selective dynamics flag line; coordinate mode follows
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("missing coordinate mode line")
		}
	}
	var cartesian bool
	switch first(line) {
	case 'd':
		cartesian = false
	case 'c', 'k':
		cartesian = true
	default:
		return nil, fmt.Errorf("unknown coordinate mode %q", strings.TrimSpace(line))
	}

	sites := make([]Site, 0, total)
	for i, n := range counts {
		for k := 0; k < n; k++ {
			line, ok = next()
			if !ok {
				return nil, fmt.Errorf("want %d coordinate lines, file ended after %d", total, len(sites))
			}
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, fmt.Errorf("coordinate line %d: want 3 values, got %d", len(sites)+1, len(fields))
			}
			var pos [3]float64
			for j := 0; j < 3; j++ {
				pos[j], err = strconv.ParseFloat(fields[j], 64)
				if err != nil {
					return nil, fmt.Errorf("coordinate line %d: %w", len(sites)+1, err)
				}
			}
			if cartesian {
				for j := 0; j < 3; j++ {
					pos[j] *= factor
				}
				pos, err = lat.Frac(pos)
				if err != nil {
					return nil, err
				}
			}
			sites = append(sites, Site{Element: symFields[i], Frac: pos})
		}
	}

	if err := sc.Err(); err != nil {
		return nil, err
	}
	return &Structure{Comment: comment, Lattice: lat, Sites: sites}, nil
}

func first(line string) byte {
	t := strings.TrimSpace(line)
	if t == "" {
		return 0
	}
	c := t[0]
	if c >= 'A' && c <= 'Z' {
		c += 'a' - 'A'
	}
	return c
}

func isSymbol(s string) bool {
	return len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z'
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

func inverse3(m [3][3]float64) ([3][3]float64, bool) {
	d := det3(m)
	if d == 0 {
		return [3][3]float64{}, false
	}
	var inv [3][3]float64
	inv[0][0] = (m[1][1]*m[2][2] - m[1][2]*m[2][1]) / d
	inv[0][1] = (m[0][2]*m[2][1] - m[0][1]*m[2][2]) / d
	inv[0][2] = (m[0][1]*m[1][2] - m[0][2]*m[1][1]) / d
	inv[1][0] = (m[1][2]*m[2][0] - m[1][0]*m[2][2]) / d
	inv[1][1] = (m[0][0]*m[2][2] - m[0][2]*m[2][0]) / d
	inv[1][2] = (m[0][2]*m[1][0] - m[0][0]*m[1][2]) / d
	inv[2][0] = (m[1][0]*m[2][1] - m[1][1]*m[2][0]) / d
	inv[2][1] = (m[0][1]*m[2][0] - m[0][0]*m[2][1]) / d
	inv[2][2] = (m[0][0]*m[1][1] - m[0][1]*m[1][0]) / d
	return inv, true
}

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func norm(v [3]float64) float64 {
	return math.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])
}
