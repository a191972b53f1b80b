// Package core provides a small, stable facade over surftab's internal
// packages for external integrations. It deliberately re-exports a narrow
// API surface so pipelines and third-party tools can depend on a stable
// import path without reaching into internal implementation packages.
//
// Example:
//
//	cfg := core.Config{BulkPerAtom: -7.418, Path: "calcs", ParseHKL: true}
//	tbl, err := core.Process(cfg)
//	if err != nil { /* handle */ }
//	_ = core.MarshalTable(os.Stdout, tbl)
package core
