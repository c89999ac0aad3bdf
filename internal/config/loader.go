package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// envPrefix is the environment variable prefix used by all settings.
const envPrefix = "INVASIM"

var (
	// ErrConfigFileNotFound is returned by Load when configPath does not exist.
	ErrConfigFileNotFound = errors.New("config: file not found")
	// ErrConfigParseError is returned by Load when the file is not valid YAML.
	ErrConfigParseError = errors.New("config: parse error")
)

// newViper builds a pre-configured Viper instance: YAML file type, INVASIM_
// env prefix, automatic env binding, and a key replacer that maps "." → "_"
// so that "simulation.pixel_size_m" resolves to INVASIM_SIMULATION_PIXEL_SIZE_M.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for k, val := range defaultKeys() {
		v.SetDefault(k, val)
	}
	return v
}

// Load reads the YAML file at configPath, merges any INVASIM_* environment
// variable overrides, applies defaults for unset fields, and validates the
// result.
func Load(configPath string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		switch {
		case errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("%w: %q", ErrConfigFileNotFound, configPath)
		case errors.As(err, &parseErr):
			return nil, fmt.Errorf("%w: %v", ErrConfigParseError, err)
		default:
			return nil, fmt.Errorf("config: failed to read config file %q: %w", configPath, err)
		}
	}

	return unmarshalAndFinalize(v)
}

// LoadFromEnv builds a Config entirely from INVASIM_* environment variables
// and defaults, with no config file required.
//
//	INVASIM_<SECTION>_<FIELD>   e.g.  INVASIM_REDIS_ADDR, INVASIM_SIMULATION_TIMEOUT
func LoadFromEnv() (*Config, error) {
	return unmarshalAndFinalize(newViper())
}

func unmarshalAndFinalize(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal configuration: %w", err)
	}

	ApplyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validation failed: %w", err)
	}

	return cfg, nil
}

// Watch monitors configPath and invokes onChange with the newly parsed Config
// whenever the file is modified.  Only the log level is safe to apply to a
// running process; callers decide what to honour.
//
// Invalid intermediate edits are skipped; onChange only sees valid configs.
func Watch(configPath string, onChange func(*Config)) {
	v := newViper()
	v.SetConfigFile(configPath)

	_ = v.ReadInConfig()

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		cfg, err := unmarshalAndFinalize(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
}

// MustLoad is Load that panics on any error.
func MustLoad(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		panic(fmt.Sprintf("config: MustLoad failed: %v", err))
	}
	return cfg
}

//Personal.AI order the ending
