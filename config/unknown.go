package config

import (
	"sort"

	"github.com/BurntSushi/toml"

	"github.com/teranos/actorgen/errors"
)

// UnknownKeys decodes the TOML file at path against Config and returns the
// dotted keys that no field consumed, sorted. Viper silently ignores such
// keys, which hides typos like "output-suffix".
func UnknownKeys(path string) ([]string, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode %s", path)
	}

	undecoded := meta.Undecoded()
	keys := make([]string, 0, len(undecoded))
	for _, key := range undecoded {
		keys = append(keys, key.String())
	}
	sort.Strings(keys)
	return keys, nil
}
