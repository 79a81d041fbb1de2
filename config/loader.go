package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LocalFile is the configuration file name looked up in the working
// directory
const LocalFile = ".tabgrid.yaml"

// LoadFile reads a calibration file on top of the defaults. A missing file
// yields ErrConfigNotFound.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // user-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	f := Default()
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// FindFile returns the configuration file to use, or "" when there is
// none. An explicit path wins; otherwise LocalFile in the working
// directory, then DefaultPath.
func FindFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}

	if cwd, err := os.Getwd(); err == nil {
		local := filepath.Join(cwd, LocalFile)
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}

	if _, err := os.Stat(DefaultPath()); err == nil {
		return DefaultPath()
	}
	return ""
}
