package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig is the on-disk YAML configuration shape for surftab. Fields
// are pointers so merging can tell "unset" from a zero value.
type FileConfig struct {
	BulkPerAtom *float64 `yaml:"bulk_per_atom"`
	Path        *string  `yaml:"path"`
	Discover    *bool    `yaml:"discover"`
	Include     *string  `yaml:"include"`
	Exclude     *string  `yaml:"exclude"`

	// Facets lists explicit entries as "h,k,l=path", kept in file order.
	Facets []string `yaml:"facets"`

	Vacuum *bool `yaml:"vacuum"`

	CoreAtom *string  `yaml:"core_atom"`
	BulkNN   *string  `yaml:"bulk_nn"`
	Orbital  *string  `yaml:"orbital"`
	OxStates *string  `yaml:"ox_states"`
	NNMethod *string  `yaml:"nn_method"`
	NNRadius *float64 `yaml:"nn_radius"`

	SaveCSV *bool   `yaml:"save_csv"`
	CSVName *string `yaml:"csv_fname"`
	NoColor *bool   `yaml:"no_color"`
}

// LoadFile reads a YAML config file from the provided path.
func LoadFile(path string) (FileConfig, error) {
	var cfg FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadLocal searches for a config file in the given working root.
// It supports .surftab.yml/.yaml and surftab.yml/.yaml.
func LoadLocal(root string) (FileConfig, error) {
	var cfg FileConfig
	for _, name := range []string{".surftab.yml", ".surftab.yaml", "surftab.yml", "surftab.yaml"} {
		p := filepath.Join(root, name)
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}
	return cfg, errors.New("no local config")
}

// LoadGlobal loads the global config file from XDG base directory or ~/.config.
func LoadGlobal() (FileConfig, error) {
	var cfg FileConfig
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return cfg, errors.New("no config dir")
	}
	p := filepath.Join(base, "surftab", "config.yml")
	if _, err := os.Stat(p); err == nil {
		return LoadFile(p)
	}
	return cfg, errors.New("no global config")
}
