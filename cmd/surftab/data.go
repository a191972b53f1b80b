package surftab

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/surftab/surftab/internal/config"
	"github.com/surftab/surftab/internal/dataset"
	"github.com/surftab/surftab/internal/localenv"
	"github.com/surftab/surftab/internal/report"
	"github.com/surftab/surftab/internal/update"
)

var (
	flagBulkPerAtom float64
	flagPath        string
	flagDiscover    bool
	flagFacets      []string
	flagInclude     string
	flagExclude     string
	flagVacuum      bool
	flagCoreAtom    string
	flagBulkNN      string
	flagOrbital     string
	flagOxStates    string
	flagNNMethod    string
	flagNNRadius    float64
	flagSave        bool
	flagOutput      string
)

func init() {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Aggregate facet directories into a surface-energy table",
		RunE:  runData,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().Float64VarP(&flagBulkPerAtom, "bulk-per-atom", "b", 0, "bulk reference energy in eV per atom (required)")
	cmd.Flags().StringVarP(&flagPath, "path", "p", "", "directory holding the facet subdirectories (default cwd)")
	cmd.Flags().BoolVar(&flagDiscover, "discover", true, "discover facets from three-digit directory names")
	cmd.Flags().StringArrayVar(&flagFacets, "facet", nil, "explicit facet as hkl=path (repeatable; allows negative indices)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs for discovered directories")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs for discovered directories")
	cmd.Flags().BoolVar(&flagVacuum, "vacuum", false, "add the vacuum_potential column")
	cmd.Flags().StringVar(&flagCoreAtom, "core-atom", "", "species for the core_energy column (needs --bulk-nn)")
	cmd.Flags().StringVar(&flagBulkNN, "bulk-nn", "", "comma-separated bulk nearest-neighbour species (needs --core-atom)")
	cmd.Flags().StringVar(&flagOrbital, "orbital", "", "core state orbital label (default 1s)")
	cmd.Flags().StringVar(&flagOxStates, "ox-states", "", "oxidation states: El:state pairs, a per-site list, or empty to guess")
	cmd.Flags().StringVar(&flagNNMethod, "nn-method", "", "neighbor method: mindist | cutoff (default mindist)")
	cmd.Flags().Float64Var(&flagNNRadius, "nn-radius", 0, "bonding radius in Å for the cutoff method")
	cmd.Flags().BoolVar(&flagSave, "save", false, "write the table to a CSV file instead of printing it")
	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "CSV file name for --save (default data.csv)")
}

func runData(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveDataConfig(cmd)
	if err != nil {
		return err
	}

	// Friendly banner before parsing
	if !flagJSON && !flagSave {
		if !flagNoUpdateCheck {
			if latest, newer, _ := update.Check(version, false); newer && latest != "" {
				_, _ = fmt.Fprintf(os.Stderr, "(new version available: v%s)  run 'surftab --self-update' to upgrade\n", latest)
			}
		}
		if flagSelfUpdate {
			// invoke in-band self update
			if err := selfUpdate(); err == nil {
				_, _ = fmt.Fprintln(os.Stderr, "updated to latest; re-run command")
				return nil
			}
		}
	}

	// Optional progress bar: simple textual counter
	total := countFacets(cfg)
	progressed := 0
	if total > 0 && !flagJSON {
		cfg.Progress = func() {
			progressed++
			_, _ = fmt.Fprintf(os.Stderr, "\r[%d/%d] facets", progressed, total)
		}
	}
	start := time.Now()
	tbl, err := dataset.Process(cfg)
	if err != nil {
		return fmt.Errorf("aggregation error: %w", err)
	}
	if total > 0 && !flagJSON {
		_, _ = fmt.Fprintln(os.Stderr)
	}

	if cfg.SaveCSV {
		name := cfg.CSVName
		if filepath.Ext(name) != ".csv" {
			name += ".csv"
		}
		_, _ = fmt.Fprintln(os.Stderr, "Wrote", name)
		return nil
	}
	if flagJSON {
		return report.WriteJSON(os.Stdout, tbl)
	}
	report.Render(os.Stdout, tbl, report.PrintOptions{NoColor: flagNoColor, Duration: time.Since(start)})
	return nil
}

// resolveDataConfig merges flags over local and global file configs
// (CLI > local > global) into a dataset config. Malformed facet entries
// fail here, before any result file is opened.
func resolveDataConfig(cmd *cobra.Command) (dataset.Config, error) {
	abs, _ := filepath.Abs(pickStringDefault(flagPath, "."))
	var gcfg, lcfg config.FileConfig
	if c, err := config.LoadGlobal(); err == nil {
		gcfg = c
	}
	if c, err := config.LoadLocal(abs); err == nil {
		lcfg = c
	}

	bulk := flagBulkPerAtom
	if !cmd.Flags().Changed("bulk-per-atom") {
		bulk = pickFloat(0, lcfg.BulkPerAtom, gcfg.BulkPerAtom)
	}
	if bulk == 0 && !cmd.Flags().Changed("bulk-per-atom") {
		return dataset.Config{}, fmt.Errorf("bulk reference energy is required (set --bulk-per-atom or bulk_per_atom in config)")
	}

	discover := flagDiscover
	if !cmd.Flags().Changed("discover") {
		if lcfg.Discover != nil {
			discover = *lcfg.Discover
		} else if gcfg.Discover != nil {
			discover = *gcfg.Discover
		}
	}

	facets, err := config.ParseFacetEntries(pickStrings(flagFacets, lcfg.Facets, gcfg.Facets))
	if err != nil {
		return dataset.Config{}, err
	}

	oxStates, err := config.ParseOxStates(pickString(flagOxStates, lcfg.OxStates, gcfg.OxStates))
	if err != nil {
		return dataset.Config{}, err
	}

	nn, err := resolveNNMethod(
		pickString(flagNNMethod, lcfg.NNMethod, gcfg.NNMethod),
		pickFloat(flagNNRadius, lcfg.NNRadius, gcfg.NNRadius),
	)
	if err != nil {
		return dataset.Config{}, err
	}

	coreAtom := pickString(flagCoreAtom, lcfg.CoreAtom, gcfg.CoreAtom)
	bulkNN := config.ParseList(pickString(flagBulkNN, lcfg.BulkNN, gcfg.BulkNN))

	return dataset.Config{
		BulkPerAtom:  bulk,
		Path:         abs,
		ParseHKL:     discover,
		Facets:       facets,
		IncludeGlobs: pickString(flagInclude, lcfg.Include, gcfg.Include),
		ExcludeGlobs: pickString(flagExclude, lcfg.Exclude, gcfg.Exclude),
		ParseVacuum:  pickBool(flagVacuum, lcfg.Vacuum, gcfg.Vacuum),
		ParseCore:    coreAtom != "" || len(bulkNN) > 0,
		CoreAtom:     coreAtom,
		BulkNN:       bulkNN,
		Orbital:      pickString(flagOrbital, lcfg.Orbital, gcfg.Orbital),
		OxStates:     oxStates,
		NNMethod:     nn,
		SaveCSV:      pickBool(flagSave, lcfg.SaveCSV, gcfg.SaveCSV),
		CSVName:      pickStringDefault(pickString(flagOutput, lcfg.CSVName, gcfg.CSVName), "data.csv"),
	}, nil
}

// resolveNNMethod builds a fresh method value per run; radius only applies
// to the cutoff method.
func resolveNNMethod(name string, radius float64) (localenv.NearNeighbors, error) {
	if name == "" {
		if radius > 0 {
			return localenv.CutoffNN{Radius: radius}, nil
		}
		return nil, nil
	}
	if name == localenv.MethodCutoff && radius > 0 {
		return localenv.CutoffNN{Radius: radius}, nil
	}
	return localenv.ByName(name)
}

// countFacets pre-counts the rows the run will produce so the progress
// counter can show a total. Errors here are ignored; Process reports them.
func countFacets(cfg dataset.Config) int {
	seen := map[string]bool{}
	if cfg.Facets != nil {
		for _, m := range cfg.Facets.Keys() {
			seen[m.String()] = true
		}
	}
	if cfg.ParseHKL {
		if found, err := dataset.Discover(cfg.Path, cfg.IncludeGlobs, cfg.ExcludeGlobs); err == nil {
			for _, m := range found.Keys() {
				seen[m.String()] = true
			}
		}
	}
	return len(seen)
}

func pickStringDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
