package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/actorgen/errors"
)

// Output formats accepted by Marshal
const (
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const defaultHeader = `# actorgen configuration
# Environment variables override these values: ACTORGEN_SHAPE, ACTORGEN_WATCH_DEBOUNCE_MS, ...

`

// WriteDefault writes the default configuration to path.
// An existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.WithHint(
				errors.Newf("config file already exists: %s", path),
				"pass --force to overwrite it")
		}
	}

	data, err := toml.Marshal(Default())
	if err != nil {
		return errors.Wrap(err, "failed to marshal default config")
	}

	if err := os.MkdirAll(filepath.Dir(path), DefaultDirPermissions); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	// Write to temp file then rename so a failed write never leaves half a config
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append([]byte(defaultHeader), data...), DefaultFilePermissions); err != nil {
		return errors.Wrapf(err, "failed to write %s", tmp)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return errors.Wrapf(err, "failed to rename %s to %s", tmp, path)
	}
	return nil
}

// Marshal renders cfg in the given format
func Marshal(cfg *Config, format string) ([]byte, error) {
	switch format {
	case FormatTOML, "":
		data, err := toml.Marshal(cfg)
		return data, errors.Wrap(err, "failed to marshal config as toml")
	case FormatJSON:
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config as json")
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(cfg)
		return data, errors.Wrap(err, "failed to marshal config as yaml")
	}
	return nil, errors.Newf("unknown format %q (want toml, json or yaml)", format)
}
