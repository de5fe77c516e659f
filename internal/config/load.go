package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Load reads and parses a TOML config file on top of the defaults and
// validates the result. Unknown keys are an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	if err := checkUnknownKeys(&md); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault reads path if it exists, otherwise returns the defaults.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	return Load(path)
}

// Resolve applies defaults -> config file -> environment and returns the
// validated configuration. cliPath is the --config flag value; when set,
// the file must exist.
func Resolve(env EnvOverrides, cliPath string) (*Config, error) {
	var (
		cfg *Config
		err error
	)

	switch {
	case cliPath != "":
		cfg, err = Load(cliPath)
	case env.ConfigPath != "":
		cfg, err = Load(env.ConfigPath)
	default:
		cfg, err = LoadOrDefault(DefaultConfigPath())
	}
	if err != nil {
		return nil, err
	}

	if err := env.apply(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// checkUnknownKeys reports every key in the file that did not map onto a
// Config field.
func checkUnknownKeys(md *toml.MetaData) error {
	undecoded := md.Undecoded()
	if len(undecoded) == 0 {
		return nil
	}

	keys := make([]string, 0, len(undecoded))
	for _, k := range undecoded {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)

	return fmt.Errorf("unknown config keys: %s", strings.Join(keys, ", "))
}
