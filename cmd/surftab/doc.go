// Package surftab provides the command-line interface for the surftab tool.
// It configures subcommands (data, vacuum, core, view, etc.), parses flags,
// and executes the selected command.
//
// Typical usage from a main package:
//
//	package main
//	import "github.com/surftab/surftab/cmd/surftab"
//	func main() { surftab.Execute() }
package surftab
