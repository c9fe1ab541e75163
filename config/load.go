package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/teranos/actorgen/errors"
	"github.com/teranos/actorgen/logger"
)

// Load reads the configuration for a run started in dir.
// An empty dir means the working directory.
func Load(dir string) (*Config, error) {
	v, project, err := NewViper(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}
	cfg.Path = project

	if project != "" {
		unknown, err := UnknownKeys(project)
		if err != nil {
			return nil, err
		}
		for _, key := range unknown {
			logger.Warnw("Unknown config key ignored",
				"key", key,
				logger.FieldFile, project)
		}
	}

	if err := cfg.Validate(); err != nil {
		if project != "" {
			return nil, errors.Wrapf(err, "invalid configuration (%s)", project)
		}
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// LoadWithViper decodes configuration from a prepared Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file on top of the
// defaults, ignoring environment variables and other files
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	cfg.Path = path
	return cfg, nil
}

// NewViper builds a Viper instance with defaults, merged config files and
// environment binding. It returns the project config path it merged, if any.
func NewViper(dir string) (*viper.Viper, string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", errors.Wrap(err, "failed to determine working directory")
		}
		dir = wd
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	project := FindProjectConfig(dir)
	paths := []string{UserConfigPath()}
	if project != "" {
		paths = append(paths, project)
	}
	for _, path := range paths {
		if err := mergeFile(v, path); err != nil {
			return nil, "", err
		}
	}
	return v, project, nil
}

// mergeFile merges one TOML file into v; a missing file is skipped
func mergeFile(v *viper.Viper, path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	tmp := viper.New()
	tmp.SetConfigFile(path)
	tmp.SetConfigType("toml")
	if err := tmp.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "failed to read config file %s", path)
	}
	if err := v.MergeConfigMap(tmp.AllSettings()); err != nil {
		return errors.Wrapf(err, "failed to merge config file %s", path)
	}
	logger.Debugw("Merged config file", logger.FieldFile, path)
	return nil
}

// FindProjectConfig searches for actorgen.toml by walking up from dir.
// Returns the path of the first file found, or empty string if none.
func FindProjectConfig(dir string) string {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return ""
		}
		dir = parent
	}
}

// UserConfigPath returns the per-user config file path, or empty string
// when the user config directory cannot be determined
func UserConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "actorgen", FileName)
}
