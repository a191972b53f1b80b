package vasp

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/surftab/surftab/internal/structure"
)

// Locpot is a local potential grid: the structure header, the grid shape,
// and the values in file order, with the first axis varying fastest.
type Locpot struct {
	Structure *structure.Structure
	Grid      [3]int
	Data      []float64
}

// ReadLocpot parses path or path+".gz". Only the first grid is read; the
// spin-difference grid that spin-polarized runs append is ignored.
func ReadLocpot(path string) (*Locpot, error) {
	r, err := openAuto(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	s, err := structure.ParseScanner(sc)
	if err != nil {
		return nil, fmt.Errorf("%s: structure header: %w", path, err)
	}

	// blank separator line(s), then the grid shape
	var dims []string
	for sc.Scan() {
		if t := strings.TrimSpace(sc.Text()); t != "" {
			dims = strings.Fields(t)
			break
		}
	}
	if len(dims) != 3 {
		return nil, fmt.Errorf("%s: grid shape line: want 3 dimensions, got %d", path, len(dims))
	}
	l := &Locpot{Structure: s}
	total := 1
	for i, d := range dims {
		n, err := strconv.Atoi(d)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("%s: bad grid dimension %q", path, d)
		}
		l.Grid[i] = n
		total *= n
	}

	l.Data = make([]float64, 0, total)
	for len(l.Data) < total && sc.Scan() {
		for _, f := range strings.Fields(sc.Text()) {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%s: bad grid value %q: %w", path, f, err)
			}
			l.Data = append(l.Data, v)
			if len(l.Data) == total {
				break
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(l.Data) < total {
		return nil, fmt.Errorf("%s: grid truncated: %d of %d values", path, len(l.Data), total)
	}
	return l, nil
}

// PlanarAverage averages the grid over the two axes perpendicular to
// axis, returning one value per plane along it.
func (l *Locpot) PlanarAverage(axis int) []float64 {
	if axis < 0 || axis > 2 {
		return nil
	}
	n := l.Grid[axis]
	out := make([]float64, n)
	nx, ny := l.Grid[0], l.Grid[1]
	for idx, v := range l.Data {
		var coord int
		switch axis {
		case 0:
			coord = idx % nx
		case 1:
			coord = (idx / nx) % ny
		default:
			coord = idx / (nx * ny)
		}
		out[coord] += v
	}
	per := float64(len(l.Data) / n)
	for i := range out {
		out[i] /= per
	}
	return out
}
