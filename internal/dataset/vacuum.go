package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/surftab/surftab/internal/vasp"
)

// ErrNoPlanarColumn reports a potential CSV without a "planar" column.
var ErrNoPlanarColumn = errors.New(`potential file has no "planar" column`)

// Vacuum extracts the vacuum level: the maximum of the planar-averaged
// electrostatic potential, in eV. path may be a potential CSV (suffix
// .csv), a LOCPOT file (name contains LOCPOT, gz fallback), or a
// directory probed for potential.csv, LOCPOT, LOCPOT.gz in that order;
// empty means the current directory. A directory with none of the three
// yields NaN and a single warning on stderr; a source that exists but
// cannot be parsed is an error.
func Vacuum(path string) (float64, error) {
	return vacuumTo(os.Stderr, path)
}

func vacuumTo(w io.Writer, path string) (float64, error) {
	switch {
	case strings.HasSuffix(path, ".csv"):
		return csvVacuum(path)
	case strings.Contains(path, "LOCPOT"):
		return locpotVacuum(path)
	}

	dir := path
	if dir == "" {
		dir = "."
	}
	if p := filepath.Join(dir, "potential.csv"); isFile(p) {
		return csvVacuum(p)
	}
	if p := filepath.Join(dir, "LOCPOT"); isFile(p) {
		return locpotVacuum(p)
	}
	if p := filepath.Join(dir, "LOCPOT.gz"); isFile(p) {
		return locpotVacuum(p)
	}
	fmt.Fprintf(w, "warning: vacuum potential not parsed from %s: no LOCPOT or potential.csv found\n", dir)
	return math.NaN(), nil
}

// csvVacuum takes the maximum of the planar column, rounded to three
// decimals with ties to even (the LOCPOT path rounds by formatting).
func csvVacuum(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	col := -1
	for i, name := range header {
		if strings.TrimSpace(name) == "planar" {
			col = i
			break
		}
	}
	if col < 0 {
		return 0, fmt.Errorf("%s: %w", path, ErrNoPlanarColumn)
	}

	maxPotential := 0.0
	seen := false
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("%s: %w", path, err)
		}
		cell := strings.TrimSpace(rec[col])
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return 0, fmt.Errorf("%s: bad planar value %q", path, rec[col])
		}
		if !seen || v > maxPotential {
			maxPotential, seen = v, true
		}
	}
	if !seen {
		return math.NaN(), nil
	}
	return math.RoundToEven(maxPotential*1000) / 1000, nil
}

// locpotVacuum planar-averages the grid along c and takes the maximum,
// formatted to three decimals and reparsed.
func locpotVacuum(path string) (float64, error) {
	lpt, err := vasp.ReadLocpot(path)
	if err != nil {
		return 0, err
	}
	maxPotential := math.Inf(-1)
	for _, v := range lpt.PlanarAverage(2) {
		if v > maxPotential {
			maxPotential = v
		}
	}
	rounded, _ := strconv.ParseFloat(strconv.FormatFloat(maxPotential, 'f', 3, 64), 64)
	return rounded, nil
}

func isFile(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}
