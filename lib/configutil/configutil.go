// Package configutil loads json5 configuration files with optional
// machine-local overrides.
package configutil

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localPath derives the override sibling for a config path:
// "config.json5" becomes "config.local.json5".
func localPath(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)] + ".local" + ext
}

// parseFile unmarshals path into out, reporting whether the file was
// present. A missing or empty file is not an error.
func parseFile[T any](path string, out *T) (bool, error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if len(contents) == 0 {
		return false, nil
	}
	err = json5.Unmarshal(contents, out)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", path, err)
	}
	return true, nil
}

// ReadConfig reads a json5 configuration file plus an optional
// "<name>.local.<ext>" sibling whose values override the base file.
// Returns os.ErrNotExist when neither file is present.
func ReadConfig[T any](path string) (T, error) {
	var config T
	found, err := parseFile(path, &config)
	if err != nil {
		return config, err
	}

	local := localPath(path)
	var override T
	foundLocal, err := parseFile(local, &override)
	if err != nil {
		return config, err
	}
	if foundLocal {
		err = mergo.Merge(&config, override, mergo.WithOverride)
		if err != nil {
			return config, err
		}
		slog.Info("merging config with local overrides", "local", local)
	}

	if !found && !foundLocal {
		return config, os.ErrNotExist
	}
	return config, nil
}

// ReadRecursively looks for the named configuration file in the current
// directory and every ancestor up to the filesystem root.
func ReadRecursively[T any](name string) (T, error) {
	var zero T
	dir, err := os.Getwd()
	if err != nil {
		return zero, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(dir, name))
		if !os.IsNotExist(err) {
			return config, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return zero, os.ErrNotExist
		}
		dir = parent
	}
}
