package surftab

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/surftab/surftab/internal/config"
)

var (
	cfgBulkPerAtom float64
	cfgPath        string
	cfgDiscover    bool
	cfgVacuum      bool
	cfgCoreAtom    string
	cfgBulkNN      string
	cfgOrbital     string
	cfgNNMethod    string
	cfgOutput      string
	cfgCSVName     string
	cfgNoColor     bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .surftab.yml with selected options",
		RunE:  runConfigInit,
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().Float64Var(&cfgBulkPerAtom, "bulk-per-atom", 0, "bulk reference energy in eV per atom")
	initCmd.Flags().StringVar(&cfgPath, "path", "", "directory holding the facet subdirectories")
	initCmd.Flags().BoolVar(&cfgDiscover, "discover", true, "discover facets from three-digit directory names")
	initCmd.Flags().BoolVar(&cfgVacuum, "vacuum", false, "add the vacuum_potential column")
	initCmd.Flags().StringVar(&cfgCoreAtom, "core-atom", "", "species for the core_energy column")
	initCmd.Flags().StringVar(&cfgBulkNN, "bulk-nn", "", "comma-separated bulk nearest-neighbour species")
	initCmd.Flags().StringVar(&cfgOrbital, "orbital", "", "core state orbital label")
	initCmd.Flags().StringVar(&cfgNNMethod, "nn-method", "", "neighbor method: mindist | cutoff")
	initCmd.Flags().StringVar(&cfgCSVName, "csv-fname", "", "default CSV file name for saved tables")
	initCmd.Flags().BoolVar(&cfgNoColor, "no-color", false, "disable color output by default")
	initCmd.Flags().StringVar(&cfgOutput, "output", ".surftab.yml", "output file path")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	fc := config.FileConfig{
		Path:     optStrPtr(cfgPath),
		Discover: boolPtr(cfgDiscover),
		Vacuum:   boolPtr(cfgVacuum),
		CoreAtom: optStrPtr(cfgCoreAtom),
		BulkNN:   optStrPtr(cfgBulkNN),
		Orbital:  optStrPtr(cfgOrbital),
		NNMethod: optStrPtr(cfgNNMethod),
		CSVName:  optStrPtr(cfgCSVName),
		NoColor:  boolPtr(cfgNoColor),
	}
	if cmd.Flags().Changed("bulk-per-atom") {
		fc.BulkPerAtom = floatPtr(cfgBulkPerAtom)
	}

	b, err := yaml.Marshal(&fc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cfgOutput, b, 0644); err != nil {
		return err
	}
	fmt.Println("Wrote", cfgOutput)
	return nil
}

func optStrPtr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
