package config

import (
	"github.com/spf13/viper"

	"github.com/teranos/actorgen/gen"
	"github.com/teranos/actorgen/source"
)

// Default values
const (
	DefaultFutureTag  = "actorfuture"
	DefaultDebounceMS = 300
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("shape", "") // Detect from build tags
	v.SetDefault("output_suffix", gen.DefaultSuffix)
	v.SetDefault("template_tag", gen.DefaultTemplateTag)
	v.SetDefault("future_tag", DefaultFutureTag)
	v.SetDefault("runtime_import", gen.DefaultRuntimeImport)
	v.SetDefault("min_go", source.MinGoVersion)

	v.SetDefault("log.json", false)

	v.SetDefault("watch.debounce_ms", DefaultDebounceMS)
}

// Default returns the configuration produced by defaults alone
func Default() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}
