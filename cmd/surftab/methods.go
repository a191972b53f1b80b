package surftab

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/surftab/surftab/internal/localenv"
)

func init() {
	cmd := &cobra.Command{
		Use:   "methods",
		Short: "List available neighbor-detection methods",
		Run: func(_ *cobra.Command, _ []string) {
			for _, name := range localenv.Methods() {
				fmt.Println(name)
			}
		},
	}
	rootCmd.AddCommand(cmd)
}
