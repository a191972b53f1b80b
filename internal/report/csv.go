package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	xxhash "github.com/cespare/xxhash/v2"

	"github.com/surftab/surftab/internal/types"
)

// CSVBytes renders the table as CSV: header row first, rows in table
// order, no index column. Output is byte-deterministic for a given table.
func CSVBytes(t *types.Table) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(t.Columns())
	for i := range t.Rows {
		_ = w.Write(t.Row(i))
	}
	w.Flush()
	return buf.Bytes()
}

// WriteCSV saves the table to fname, forcing a ".csv" suffix. It returns
// the path actually written.
func WriteCSV(fname string, t *types.Table) (string, error) {
	if !strings.HasSuffix(fname, ".csv") {
		fname += ".csv"
	}
	if err := os.WriteFile(fname, CSVBytes(t), 0644); err != nil {
		return "", err
	}
	return fname, nil
}

// Fingerprint is a short stable checksum of the rendered CSV, printed in
// the summary footer so identical inputs can be spot-checked to produce
// identical tables.
func Fingerprint(t *types.Table) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(CSVBytes(t)))
}
