package surftab

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// columnDocs describes every output column in table order. Kept here, next
// to the command that renders it, so the README stays in sync with one
// `surftab gendocs` run.
var columnDocs = []struct{ name, desc string }{
	{"hkl", "facet label, the Miller digits concatenated (e.g. `110`)"},
	{"hkl_tuple", "facet as a tuple, e.g. `(1, 1, 0)`"},
	{"area", "in-plane cross-section of the slab cell, Å²"},
	{"atoms", "number of sites in the slab"},
	{"functional", "run type label (LDA, GGA, HF, with `+U` when LDAU is set)"},
	{"encut", "plane-wave cutoff ENCUT, eV"},
	{"algo", "electronic minimisation ALGO"},
	{"ismear", "smearing method ISMEAR"},
	{"sigma", "smearing width SIGMA, eV"},
	{"kpoints", "total number of k-points"},
	{"bandgap", "band gap from the final eigenvalues, eV (0 for metals)"},
	{"slab_energy", "final total energy of the slab, eV"},
	{"slab_per_atom", "slab energy per atom, eV"},
	{"surface_energy", "surface energy, mJ/m²"},
	{"surface_energy_ev", "surface energy, eV/Å²"},
	{"vacuum_potential", "maximum planar-averaged potential, eV (with `--vacuum`)"},
	{"core_energy", "core-level eigenvalue of the representative atom, eV (with `--core-atom`)"},
}

// gendocs regenerates the columns section in README.md between the markers
// <!-- BEGIN:COLUMNS --> and <!-- END:COLUMNS -->.
func init() {
	cmd := &cobra.Command{
		Use:   "gendocs",
		Short: "Regenerate README column documentation",
		RunE: func(_ *cobra.Command, _ []string) error {
			path := "README.md"
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			start := []byte("<!-- BEGIN:COLUMNS -->")
			end := []byte("<!-- END:COLUMNS -->")
			i := bytes.Index(b, start)
			j := bytes.Index(b, end)
			if i < 0 || j < 0 || j <= i {
				return fmt.Errorf("markers not found in README.md")
			}

			var out strings.Builder
			out.WriteString("\n| column | meaning |\n| --- | --- |\n")
			for _, c := range columnDocs {
				out.WriteString("| `" + c.name + "` | " + c.desc + " |\n")
			}

			var nb bytes.Buffer
			nb.Write(b[:i])
			nb.Write(start)
			nb.WriteString(out.String())
			nb.Write(end)
			nb.Write(b[j+len(end):])
			return os.WriteFile(path, nb.Bytes(), 0644)
		},
	}
	rootCmd.AddCommand(cmd)
}
