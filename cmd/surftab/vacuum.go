package surftab

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/surftab/surftab/internal/dataset"
)

func init() {
	cmd := &cobra.Command{
		Use:   "vacuum [path]",
		Short: "Print the vacuum level from a potential source",
		Long:  "Vacuum prints the maximum planar-averaged electrostatic potential. The path may be a potential CSV, a LOCPOT file, or a directory probed for potential.csv, LOCPOT, LOCPOT.gz in that order (default cwd).",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			v, err := dataset.Vacuum(path)
			if err != nil {
				return err
			}
			fmt.Println(v)
			return nil
		},
	}
	rootCmd.AddCommand(cmd)
}
