package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/teemow/drivepush/internal/google"
)

// Compiled-in defaults.
const (
	// DefaultCredentialsFile is the service-account key file, relative to the
	// working directory.
	DefaultCredentialsFile = "service_account.json"

	// DefaultRootParentID is the Drive folder new objects are created under.
	// Empty means the root of the service account's own Drive.
	DefaultRootParentID = ""

	// DefaultChunkSize is the resumable upload chunk size.
	DefaultChunkSize = 8 * 1024 * 1024

	// DefaultLogLevel is the slog level used when nothing else is configured.
	DefaultLogLevel = "info"
)

// chunkAlignBytes is the granularity the Drive resumable protocol requires
// for every chunk except the last.
const chunkAlignBytes = 256 * 1024

const (
	appName        = "drivepush"
	configFileName = "config.toml"
)

// Config holds the effective drivepush settings.
type Config struct {
	// CredentialsFile is the path to the service-account JSON key.
	CredentialsFile string `toml:"credentials_file"`

	// Scopes are the OAuth scopes requested for the session.
	Scopes []string `toml:"scopes"`

	// RootParentID is the remote folder everything is created under.
	RootParentID string `toml:"root_parent_id"`

	// Impersonate is an optional user email for domain-wide delegation.
	Impersonate string `toml:"impersonate"`

	// ChunkSize is the resumable upload chunk size in bytes.
	ChunkSize int `toml:"chunk_size"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// SkipHidden skips dot-files and dot-directories during a tree upload.
	SkipHidden bool `toml:"skip_hidden"`
}

// DefaultConfig returns a Config populated with the compiled-in defaults.
func DefaultConfig() *Config {
	return &Config{
		CredentialsFile: DefaultCredentialsFile,
		Scopes:          slices.Clone(google.DefaultScopes),
		RootParentID:    DefaultRootParentID,
		ChunkSize:       DefaultChunkSize,
		LogLevel:        DefaultLogLevel,
	}
}

// Validate checks the configuration and returns every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.CredentialsFile) == "" {
		errs = append(errs, errors.New("credentials_file must not be empty"))
	}

	if len(cfg.Scopes) == 0 {
		errs = append(errs, errors.New("scopes must list at least one scope"))
	}
	for _, s := range cfg.Scopes {
		if strings.TrimSpace(s) == "" {
			errs = append(errs, errors.New("scopes must not contain empty entries"))
			break
		}
	}

	if cfg.ChunkSize <= 0 || cfg.ChunkSize%chunkAlignBytes != 0 {
		errs = append(errs, fmt.Errorf("chunk_size must be a positive multiple of %d bytes, got %d", chunkAlignBytes, cfg.ChunkSize))
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log_level must be one of debug, info, warn, error, got %q", cfg.LogLevel))
	}

	return errors.Join(errs...)
}

// DefaultConfigPath returns the config file location used when neither the
// --config flag nor DRIVEPUSH_CONFIG is set. Respects XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName, configFileName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".config", appName, configFileName)
}
