// Package dataset aggregates VASP slab calculation outputs into one
// table: a row per Miller-index facet with the surface energy and,
// optionally, the vacuum level and a core-level binding energy.
package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	doublestar "github.com/bmatcuk/doublestar/v4"

	"github.com/surftab/surftab/internal/localenv"
	"github.com/surftab/surftab/internal/report"
	"github.com/surftab/surftab/internal/structure"
	"github.com/surftab/surftab/internal/types"
	"github.com/surftab/surftab/internal/vasp"
)

// evToMJ converts eV/Å² to mJ/m².
const evToMJ = 16.02

// Config controls one aggregation run: facet scope, optional columns, and
// persistence.
type Config struct {
	// BulkPerAtom is the bulk reference energy in eV per atom.
	BulkPerAtom float64

	// Path is the directory holding the facet subdirectories; empty means
	// the current directory.
	Path string

	// ParseHKL discovers facets from three-digit directory names under
	// Path. A directory name carries no sign, so facets with negative
	// indices must come through Facets.
	ParseHKL bool

	// Facets maps explicitly configured facets to their directories.
	// Discovered facets are merged on top and may replace these.
	Facets *types.FacetMap

	// IncludeGlobs and ExcludeGlobs filter discovered directory names.
	// Comma-separated doublestar patterns; explicit facets bypass them.
	IncludeGlobs string
	ExcludeGlobs string

	ParseVacuum bool

	// Core-level extraction runs only when ParseCore is set and CoreAtom
	// and BulkNN are both supplied; otherwise it is skipped for the whole
	// run with a single warning.
	ParseCore bool
	CoreAtom  string
	BulkNN    []string
	Orbital   string
	OxStates  structure.OxiSpec
	NNMethod  localenv.NearNeighbors

	// SaveCSV writes the table to CSVName instead of returning it.
	SaveCSV bool
	CSVName string

	// Warnings receives non-fatal notices; nil means os.Stderr.
	Warnings io.Writer

	// Progress, when set, is called once per processed facet.
	Progress func()
}

func (c Config) warnSink() io.Writer {
	if c.Warnings != nil {
		return c.Warnings
	}
	return os.Stderr
}

// Process parses every facet directory and assembles the summary table.
// With SaveCSV it writes the table to CSVName and returns (nil, nil);
// otherwise it returns the table and writes nothing. A facet that fails
// to parse aborts the whole run, so a fatal error never leaves a partial
// CSV behind.
func Process(cfg Config) (*types.Table, error) {
	w := cfg.warnSink()

	base := cfg.Path
	if base == "" {
		base = "."
	}

	facets := types.NewFacetMap()
	if cfg.Facets != nil {
		for _, m := range cfg.Facets.Keys() {
			dir, _ := cfg.Facets.Get(m)
			facets.Set(m, dir)
		}
	}
	if cfg.ParseHKL {
		found, err := Discover(base, cfg.IncludeGlobs, cfg.ExcludeGlobs)
		if err != nil {
			return nil, err
		}
		for _, m := range found.Keys() {
			dir, _ := found.Get(m)
			facets.Set(m, dir)
		}
	}
	if facets.Len() == 0 {
		return nil, fmt.Errorf("no facet directories found under %s", base)
	}

	parseCore := false
	if cfg.ParseCore {
		if cfg.CoreAtom != "" && len(cfg.BulkNN) > 0 {
			parseCore = true
		} else {
			fmt.Fprintln(w, "warning: core atom or bulk nearest neighbours were not supplied; core energy will not be parsed")
		}
	}

	var (
		rows    []types.Record
		vacuums []float64
		cores   []float64
	)
	for _, m := range facets.Keys() {
		dir, _ := facets.Get(m)
		rec, err := parseFacet(m, dir)
		if err != nil {
			return nil, fmt.Errorf("facet %s: %w", m, err)
		}

		if cfg.ParseVacuum {
			v, err := vacuumTo(w, dir)
			if err != nil {
				return nil, fmt.Errorf("facet %s: %w", m, err)
			}
			rec.VacuumPotential = v
			vacuums = append(vacuums, v)
		}
		if parseCore {
			ce, err := CoreEnergy(cfg.CoreAtom, cfg.BulkNN, CoreOptions{
				Orbital:       cfg.Orbital,
				OxStates:      cfg.OxStates,
				NN:            cfg.NNMethod,
				Outcar:        filepath.Join(dir, "OUTCAR"),
				StructurePath: filepath.Join(dir, "POSCAR"),
			})
			if err != nil {
				return nil, fmt.Errorf("facet %s: %w", m, err)
			}
			rec.CoreEnergy = ce
			cores = append(cores, ce)
		}

		rows = append(rows, rec)
		if cfg.Progress != nil {
			cfg.Progress()
		}
	}

	// Derived columns are computed over the finished table, row-wise.
	for i := range rows {
		r := &rows[i]
		ev := (r.SlabEnergy - cfg.BulkPerAtom*float64(r.Atoms)) / (2 * r.Area)
		r.SurfaceEnergyEV = ev
		r.SurfaceEnergy = ev * evToMJ
	}

	t := &types.Table{
		Rows:      rows,
		HasVacuum: len(vacuums) > 0,
		HasCore:   len(cores) > 0,
	}

	if cfg.SaveCSV {
		name := cfg.CSVName
		if name == "" {
			name = "data.csv"
		}
		if _, err := report.WriteCSV(name, t); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return t, nil
}

// parseFacet reads one facet directory's vasprun.xml and POSCAR into a
// row. Optional columns start out NaN until their extractors run.
func parseFacet(m types.Miller, dir string) (types.Record, error) {
	run, err := vasp.ReadVasprun(filepath.Join(dir, "vasprun.xml"))
	if err != nil {
		return types.Record{}, err
	}
	st, err := structure.Load(filepath.Join(dir, "POSCAR"))
	if err != nil {
		return types.Record{}, err
	}

	rec := types.Record{
		Miller:          m,
		Area:            st.Lattice.SurfaceArea(),
		Atoms:           run.NSites,
		Functional:      run.RunType(),
		Encut:           math.NaN(),
		Sigma:           math.NaN(),
		Kpoints:         run.KpointCount,
		Bandgap:         run.Bandgap(),
		SlabEnergy:      run.FinalEnergy,
		SlabPerAtom:     run.FinalEnergyPerAtom(),
		VacuumPotential: math.NaN(),
		CoreEnergy:      math.NaN(),
		SourceDir:       dir,
	}
	if f, ok := run.IncarFloat("ENCUT"); ok {
		rec.Encut = f
	}
	if s, ok := run.IncarString("ALGO"); ok {
		rec.Algo = s
	}
	if n, ok := run.ParamInt("ISMEAR"); ok {
		rec.Ismear = n
	}
	if f, ok := run.ParamFloat("SIGMA"); ok {
		rec.Sigma = f
	}
	return rec, nil
}

// Discover lists the subdirectories of base whose names are exactly three
// digits, one Miller component each. include and exclude are
// comma-separated doublestar globs applied to the directory names.
func Discover(base, include, exclude string) (*types.FacetMap, error) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return nil, fmt.Errorf("discover facets: %w", err)
	}
	found := types.NewFacetMap()
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if !threeDigits(name) {
			continue
		}
		if !allowedByGlobs(name, include, exclude) {
			continue
		}
		m := types.Miller{
			H: int(name[0] - '0'),
			K: int(name[1] - '0'),
			L: int(name[2] - '0'),
		}
		found.Set(m, filepath.Join(base, name))
	}
	return found, nil
}

func threeDigits(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// allowedByGlobs returns true if the given name passes the include/exclude
// glob configuration. Include globs are comma-separated and, if provided,
// act as a positive filter. Exclude globs are subtracted last.
func allowedByGlobs(name, include, exclude string) bool {
	includes := parseGlobsList(include)
	excludes := parseGlobsList(exclude)
	if len(includes) > 0 && !matchAnyGlob(name, includes) {
		return false
	}
	if len(excludes) > 0 && matchAnyGlob(name, excludes) {
		return false
	}
	return true
}

func parseGlobsList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
			out = append(out, trimGlobPrefix(p))
		}
	}
	return out
}

func matchAnyGlob(name string, globs []string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, name); ok {
			return true
		}
	}
	return false
}

func trimGlobPrefix(g string) string {
	s := strings.TrimPrefix(g, "./")
	for strings.HasPrefix(s, "**/") {
		s = strings.TrimPrefix(s, "**/")
	}
	return s
}
