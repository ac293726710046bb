package configutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// localPath returns the path of the local override of a config file,
// ex. `dir/musicpal.json5` -> `dir/musicpal.local.json5`.
func localPath(name string) string {
	ext := filepath.Ext(name)
	prefix := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s.local%s", prefix, ext)
}

func readJson5[T any](path string) (T, bool, error) {
	var out T
	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return out, false, nil
	}
	if err != nil {
		return out, false, err
	}
	if len(contents) == 0 {
		return out, true, nil
	}
	err = json5.Unmarshal(contents, &out)
	if err != nil {
		return out, false, fmt.Errorf("%s: %w", path, err)
	}
	return out, true, nil
}

// ReadConfig reads a json5 configuration file, the following files are merged,
// where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
//
// It returns an error matching os.ErrNotExist if neither file exists.
func ReadConfig[T any](name string) (T, error) {
	out, foundDefault, err := readJson5[T](name)
	if err != nil {
		return out, err
	}

	local := localPath(name)
	override, foundLocal, err := readJson5[T](local)
	if err != nil {
		return out, err
	}
	if foundLocal {
		err = mergo.Merge(&out, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", local)
	}

	if !foundDefault && !foundLocal {
		return out, os.ErrNotExist
	}
	return out, nil
}

// MergeDefaults fills every zero field of config with the value in defaults.
func MergeDefaults[T any](config *T, defaults T) error {
	return mergo.Merge(config, defaults)
}

// DefaultPath returns `<user config dir>/<app>/<file>`.
func DefaultPath(app, file string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, app, file), nil
}
