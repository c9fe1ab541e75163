package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	require.NoError(t, WriteDefault(path, false))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	want := Default()
	want.Path = path
	assert.Equal(t, want, cfg)

	keys, err := UnknownKeys(path)
	require.NoError(t, err)
	assert.Empty(t, keys)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(`shape = "future"`), 0644))

	err := WriteDefault(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, WriteDefault(path, true))
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Shape)
}

func TestMarshal(t *testing.T) {
	cfg := Default()
	cfg.Shape = "future"

	t.Run("toml", func(t *testing.T) {
		data, err := Marshal(cfg, FormatTOML)
		require.NoError(t, err)
		assert.Regexp(t, `shape = ["']future["']`, string(data))
		assert.Contains(t, string(data), "[watch]")
		assert.NotContains(t, string(data), "Path")
	})

	t.Run("json", func(t *testing.T) {
		data, err := Marshal(cfg, FormatJSON)
		require.NoError(t, err)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, "future", decoded["shape"])
		assert.Equal(t, "_gen", decoded["output_suffix"])
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := Marshal(cfg, FormatYAML)
		require.NoError(t, err)
		var decoded Config
		require.NoError(t, yaml.Unmarshal(data, &decoded))
		assert.Equal(t, *cfg, decoded)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := Marshal(cfg, "xml")
		assert.Error(t, err)
	})
}
