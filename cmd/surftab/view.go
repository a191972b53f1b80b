package surftab

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/surftab/surftab/internal/dataset"
	"github.com/surftab/surftab/internal/tui"
)

func init() {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse the facet table interactively",
		Long:  "View aggregates the facet directories like 'data' and opens the result in an interactive browser with a per-facet detail pane.",
		RunE:  runView,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().Float64VarP(&flagBulkPerAtom, "bulk-per-atom", "b", 0, "bulk reference energy in eV per atom (required)")
	cmd.Flags().StringVarP(&flagPath, "path", "p", "", "directory holding the facet subdirectories (default cwd)")
	cmd.Flags().BoolVar(&flagDiscover, "discover", true, "discover facets from three-digit directory names")
	cmd.Flags().StringArrayVar(&flagFacets, "facet", nil, "explicit facet as hkl=path (repeatable)")
	cmd.Flags().StringVar(&flagInclude, "include", "", "comma-separated include globs for discovered directories")
	cmd.Flags().StringVar(&flagExclude, "exclude", "", "comma-separated exclude globs for discovered directories")
	cmd.Flags().BoolVar(&flagVacuum, "vacuum", false, "add the vacuum_potential column")
	cmd.Flags().StringVar(&flagCoreAtom, "core-atom", "", "species for the core_energy column (needs --bulk-nn)")
	cmd.Flags().StringVar(&flagBulkNN, "bulk-nn", "", "comma-separated bulk nearest-neighbour species")
}

func runView(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveDataConfig(cmd)
	if err != nil {
		return err
	}
	cfg.SaveCSV = false

	tbl, err := dataset.Process(cfg)
	if err != nil {
		return fmt.Errorf("aggregation error: %w", err)
	}
	return tui.Run(tbl)
}
