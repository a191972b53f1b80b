package tui

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Energy units the browser can display surface energies in.
const (
	UnitMJ = "mJ/m^2"
	UnitEV = "eV/A^2"
)

// Prefs holds user preferences for the TUI that persist across sessions.
type Prefs struct {
	// EnergyUnit selects the surface-energy column shown in the table,
	// mJ/m^2 or eV/A^2.
	EnergyUnit string `json:"energy_unit"`
}

// DefaultPrefs returns the default preferences.
func DefaultPrefs() Prefs {
	return Prefs{
		EnergyUnit: UnitMJ,
	}
}

// prefsPath returns the path to the TUI preferences file.
func prefsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".surftab", "tui_prefs.json"), nil
}

// LoadPrefs loads user preferences from disk, returning defaults if not found.
func LoadPrefs() Prefs {
	prefs := DefaultPrefs()

	path, err := prefsPath()
	if err != nil {
		return prefs
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return prefs // File doesn't exist yet, use defaults
	}

	// Ignore unmarshal errors, just use defaults
	_ = json.Unmarshal(data, &prefs)
	if prefs.EnergyUnit != UnitMJ && prefs.EnergyUnit != UnitEV {
		prefs.EnergyUnit = UnitMJ
	}
	return prefs
}

// SavePrefs persists user preferences to disk.
func SavePrefs(prefs Prefs) error {
	path, err := prefsPath()
	if err != nil {
		return err
	}

	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}
