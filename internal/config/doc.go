// Package config loads surftab configuration from local and global YAML
// files with precedence rules. It is internal; CLI code maps flags and
// files into dataset configuration.
package config
