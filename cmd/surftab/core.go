package surftab

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/surftab/surftab/internal/config"
	"github.com/surftab/surftab/internal/dataset"
)

var (
	coreFlagAtom      string
	coreFlagBulkNN    string
	coreFlagOrbital   string
	coreFlagOxStates  string
	coreFlagNNMethod  string
	coreFlagNNRadius  float64
	coreFlagOutcar    string
	coreFlagStructure string
)

func init() {
	cmd := &cobra.Command{
		Use:   "core",
		Short: "Print the core-level energy of a representative bulk-like atom",
		RunE:  runCore,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().StringVar(&coreFlagAtom, "core-atom", "", "species whose core level to read")
	cmd.Flags().StringVar(&coreFlagBulkNN, "bulk-nn", "", "comma-separated bulk nearest-neighbour species")
	cmd.Flags().StringVar(&coreFlagOrbital, "orbital", "", "core state orbital label (default 1s)")
	cmd.Flags().StringVar(&coreFlagOxStates, "ox-states", "", "oxidation states: El:state pairs, a per-site list, or empty to guess")
	cmd.Flags().StringVar(&coreFlagNNMethod, "nn-method", "", "neighbor method: mindist | cutoff (default mindist)")
	cmd.Flags().Float64Var(&coreFlagNNRadius, "nn-radius", 0, "bonding radius in Å for the cutoff method")
	cmd.Flags().StringVar(&coreFlagOutcar, "outcar", "", "OUTCAR path (default OUTCAR, gz fallback)")
	cmd.Flags().StringVar(&coreFlagStructure, "structure", "", "structure path (default POSCAR)")
	_ = cmd.MarkFlagRequired("core-atom")
	_ = cmd.MarkFlagRequired("bulk-nn")
}

func runCore(_ *cobra.Command, _ []string) error {
	oxStates, err := config.ParseOxStates(coreFlagOxStates)
	if err != nil {
		return err
	}
	nn, err := resolveNNMethod(coreFlagNNMethod, coreFlagNNRadius)
	if err != nil {
		return err
	}
	e, err := dataset.CoreEnergy(coreFlagAtom, config.ParseList(coreFlagBulkNN), dataset.CoreOptions{
		Orbital:       coreFlagOrbital,
		OxStates:      oxStates,
		NN:            nn,
		Outcar:        coreFlagOutcar,
		StructurePath: coreFlagStructure,
	})
	if err != nil {
		return err
	}
	fmt.Println(e)
	return nil
}
