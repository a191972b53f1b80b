package surftab

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	flagJSON          bool
	flagNoColor       bool
	flagNoUpdateCheck bool
	flagSelfUpdate    bool

	version = "0.1.0"
)

// rootCmd is the base Cobra command for the surftab CLI.
var rootCmd = &cobra.Command{
	Use:           "surftab",
	Short:         "Summarize VASP slab calculations",
	Long:          "Surftab aggregates VASP slab calculation outputs into a table: one row per Miller-index facet with surface energy, and optional vacuum-level and core-level columns.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the surftab CLI. It should be called by the main package.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "emit JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colorized output")
	rootCmd.PersistentFlags().BoolVar(&flagNoUpdateCheck, "no-update-check", false, "disable update check")
	rootCmd.PersistentFlags().BoolVar(&flagSelfUpdate, "self-update", false, "update surftab to the latest release")
}
