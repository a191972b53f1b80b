package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/surftab/surftab/internal/types"
)

// Run opens the interactive facet browser over an aggregated table.
func Run(t *types.Table) error {
	m := NewModel(t)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
