// Package config loads actorgen settings.
//
// Settings come from, lowest precedence first: built-in defaults, the user
// config (<user config dir>/actorgen/actorgen.toml), the project config
// (actorgen.toml, found by walking up from the working directory), then
// ACTORGEN_* environment variables. Command-line flags override all of them.
package config

// FileName is the name of project and user config files
const FileName = "actorgen.toml"

// EnvPrefix prefixes environment overrides: ACTORGEN_SHAPE, ACTORGEN_WATCH_DEBOUNCE_MS
const EnvPrefix = "ACTORGEN"

// Config represents the actorgen configuration
type Config struct {
	// Shape forces the generated shape: "native", "future", or empty to
	// detect it from build tags
	Shape string `mapstructure:"shape" toml:"shape" json:"shape" yaml:"shape"`

	OutputSuffix  string `mapstructure:"output_suffix" toml:"output_suffix" json:"output_suffix" yaml:"output_suffix"`   // Generated file suffix before ".go"
	TemplateTag   string `mapstructure:"template_tag" toml:"template_tag" json:"template_tag" yaml:"template_tag"`       // Build tag marking template files
	FutureTag     string `mapstructure:"future_tag" toml:"future_tag" json:"future_tag" yaml:"future_tag"`               // Build tag selecting the future shape
	RuntimeImport string `mapstructure:"runtime_import" toml:"runtime_import" json:"runtime_import" yaml:"runtime_import"` // Import path of the actor runtime
	MinGo         string `mapstructure:"min_go" toml:"min_go" json:"min_go" yaml:"min_go"`                               // Minimum go directive of target modules

	Log   LogConfig   `mapstructure:"log" toml:"log" json:"log" yaml:"log"`
	Watch WatchConfig `mapstructure:"watch" toml:"watch" json:"watch" yaml:"watch"`

	// Path of the project config file that was merged, if any
	Path string `mapstructure:"-" toml:"-" json:"-" yaml:"-"`
}

// LogConfig configures logging
type LogConfig struct {
	JSON bool `mapstructure:"json" toml:"json" json:"json" yaml:"json"` // JSON log lines on stderr
}

// WatchConfig configures the watch command
type WatchConfig struct {
	DebounceMS int `mapstructure:"debounce_ms" toml:"debounce_ms" json:"debounce_ms" yaml:"debounce_ms"` // Quiet period before regenerating
}

// File system constants
const (
	DefaultDirPermissions  = 0755
	DefaultFilePermissions = 0644
)
