package config

import (
	"fmt"
	"os"
	"strconv"
)

// Environment variable names for overrides.
const (
	EnvConfig      = "DRIVEPUSH_CONFIG"
	EnvCredentials = "DRIVEPUSH_CREDENTIALS"
	EnvParentID    = "DRIVEPUSH_PARENT_ID"
	EnvImpersonate = "DRIVEPUSH_IMPERSONATE"
	EnvLogLevel    = "DRIVEPUSH_LOG_LEVEL"
	EnvSkipHidden  = "DRIVEPUSH_SKIP_HIDDEN"
)

// EnvOverrides holds values read from the environment. Empty fields mean
// "not set".
type EnvOverrides struct {
	ConfigPath      string
	CredentialsFile string
	ParentID        string
	// ParentIDSet distinguishes an explicitly empty parent from an unset one.
	ParentIDSet bool
	Impersonate string
	LogLevel    string
	// SkipHidden is the raw value; it is parsed as a boolean when applied.
	SkipHidden string
}

// ReadEnvOverrides reads DRIVEPUSH_* variables from the process environment.
func ReadEnvOverrides() EnvOverrides {
	env := EnvOverrides{
		ConfigPath:      os.Getenv(EnvConfig),
		CredentialsFile: os.Getenv(EnvCredentials),
		Impersonate:     os.Getenv(EnvImpersonate),
		LogLevel:        os.Getenv(EnvLogLevel),
		SkipHidden:      os.Getenv(EnvSkipHidden),
	}

	env.ParentID, env.ParentIDSet = os.LookupEnv(EnvParentID)

	return env
}

// apply copies every set override onto cfg. A value that cannot be parsed
// is an error.
func (e EnvOverrides) apply(cfg *Config) error {
	if e.CredentialsFile != "" {
		cfg.CredentialsFile = e.CredentialsFile
	}
	if e.ParentIDSet {
		cfg.RootParentID = e.ParentID
	}
	if e.Impersonate != "" {
		cfg.Impersonate = e.Impersonate
	}
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}
	if e.SkipHidden != "" {
		skip, err := strconv.ParseBool(e.SkipHidden)
		if err != nil {
			return fmt.Errorf("%s must be a boolean, got %q", EnvSkipHidden, e.SkipHidden)
		}
		cfg.SkipHidden = skip
	}

	return nil
}
