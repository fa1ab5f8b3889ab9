package config

import (
	_ "embed"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	qerrors "github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/paths"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// EnvPrefix is shared by every environment variable qcd reads.
const EnvPrefix = "QCD_RS_"

// EnvSessionID is the variable the shell wrapper exports.
const EnvSessionID = EnvPrefix + "SESSIONID"

// DefaultMinSessionIDLength is min_session_id_length in defaults.toml.
const DefaultMinSessionIDLength = 23

// envKeys maps the variables the shell integration exports to config keys.
var envKeys = map[string]string{
	"DBPATH":    "database.dir",
	"DBNAME":    "database.name",
	"SESSIONID": "session_id",
}

// Config is the fully merged configuration.
type Config struct {
	SessionID string         `koanf:"session_id"`
	Database  DatabaseConfig `koanf:"database"`
	Stack     StackConfig    `koanf:"stack"`
	Output    OutputConfig   `koanf:"output"`
}

// DatabaseConfig locates the sqlite file.
type DatabaseConfig struct {
	Dir         string        `koanf:"dir"`
	Name        string        `koanf:"name" validate:"required"`
	BusyTimeout time.Duration `koanf:"busy_timeout" validate:"gte=0"`
}

// StackConfig tunes the per-session stack.
type StackConfig struct {
	Retention          time.Duration `koanf:"retention" validate:"gt=0"`
	MinSessionIDLength int           `koanf:"min_session_id_length" validate:"gte=0"`
}

// OutputConfig controls listing rendering.
type OutputConfig struct {
	Format  string `koanf:"format" validate:"oneof=auto term text"`
	NoColor bool   `koanf:"no_color"`
	// Styles is an optional YAML style sheet replacing the built-in one.
	Styles string `koanf:"styles"`
}

// LoadOptions customizes Load.
type LoadOptions struct {
	// ConfigFile overrides the user config file location. Empty means
	// paths.ConfigFilePath().
	ConfigFile string

	// Overrides are applied last, keyed by dotted config path.
	Overrides map[string]interface{}
}

// DatabasePath returns the absolute location of the database file.
func (c *Config) DatabasePath() string {
	return paths.DatabasePath(c.Database.Dir, c.Database.Name)
}

// HasSession reports whether the configured session id is usable for stack
// operations.
func (c *Config) HasSession() bool {
	return ValidSessionID(c.SessionID, c.Stack.MinSessionIDLength)
}

// ValidSessionID reports whether id can key a session stack.
func ValidSessionID(id string, minLength int) bool {
	return id != "" && len(id) >= minLength
}

var configValidate = validator.New()

// Load merges every configuration layer and returns the validated result.
func Load(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	// 1. Built-in defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, qerrors.Wrap(err, qerrors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file, if present
	configFile := opts.ConfigFile
	if configFile == "" {
		configFile = paths.ConfigFilePath()
	}
	if _, err := os.Stat(configFile); err == nil {
		if err := k.Load(file.Provider(configFile), toml.Parser()); err != nil {
			return nil, qerrors.Wrapf(err, qerrors.ErrConfigLoad, "failed to load config from %s", configFile)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, qerrors.Wrap(err, qerrors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Caller overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, qerrors.Wrap(err, qerrors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, qerrors.Wrap(err, qerrors.ErrConfigLoad, "failed to unmarshal configuration")
	}

	if err := configValidate.Struct(&cfg); err != nil {
		return nil, qerrors.Wrap(err, qerrors.ErrConfigValid, "invalid configuration")
	}

	return &cfg, nil
}

// envKey maps QCD_RS_* variable names to config keys. Unknown variables map
// to the empty key, which koanf skips.
func envKey(s string) string {
	return envKeys[strings.TrimPrefix(s, EnvPrefix)]
}

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}
