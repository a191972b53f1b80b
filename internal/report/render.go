package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/surftab/surftab/internal/types"
)

// PrintOptions tunes terminal rendering and the summary footer.
type PrintOptions struct {
	NoColor  bool
	Duration time.Duration
	// Width overrides terminal width detection when > 0; tests use it to
	// pin the layout.
	Width int
}

// compactColumns is the subset shown when the terminal is too narrow for
// the full schema.
var compactColumns = map[string]bool{
	"hkl": true, "area": true, "atoms": true, "bandgap": true,
	"surface_energy": true, "surface_energy_ev": true,
	"vacuum_potential": true, "core_energy": true,
}

// narrowWidth is the terminal width below which rendering goes compact.
const narrowWidth = 110

// Render prints the table for humans, followed by a short summary footer.
func Render(w io.Writer, t *types.Table, opts PrintOptions) {
	if len(t.Rows) == 0 {
		fmt.Fprintln(w, "No facets parsed")
		return
	}

	cols := t.Columns()
	keep := make([]int, 0, len(cols))
	width := opts.Width
	if width == 0 {
		width = terminalWidth(w)
	}
	compact := width > 0 && width < narrowWidth
	for i, c := range cols {
		if !compact || compactColumns[c] {
			keep = append(keep, i)
		}
	}

	tbl := tablewriter.NewTable(w)
	header := make([]string, len(keep))
	for k, i := range keep {
		header[k] = cols[i]
	}
	tbl.Header(header)
	for r := range t.Rows {
		full := t.Row(r)
		row := make([]string, len(keep))
		for k, i := range keep {
			row[k] = full[i]
		}
		tbl.Append(row)
	}
	tbl.Render()

	if opts.Duration > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Facets: %s\n", accent(fmt.Sprintf("%d", len(t.Rows)), opts.NoColor))
		fmt.Fprintf(w, "Parse duration: %.2fs\n", opts.Duration.Seconds())
		fmt.Fprintf(w, "Checksum: %s\n", Fingerprint(t))
	}
}

// terminalWidth reports the width of w when it is a terminal, else 0.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	width, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return width
}

func accent(s string, noColor bool) string {
	if noColor {
		return s
	}
	return "\x1b[36m" + s + "\x1b[0m" // cyan
}
