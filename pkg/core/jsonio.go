package core

import (
	"encoding/json"
	"io"

	"github.com/surftab/surftab/internal/report"
)

// MarshalTable pretty-prints the table as JSON rows for humans or
// pipelines. Non-finite values become null.
func MarshalTable(w io.Writer, t *Table) error {
	return report.WriteJSON(w, t)
}

// UnmarshalRows decodes table JSON into generic rows, useful for
// ingestion tests.
func UnmarshalRows(r io.Reader) ([]map[string]any, error) {
	var rows []map[string]any
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}
