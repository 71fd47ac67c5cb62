// Package config handles the configuration directory, the optional
// config.toml file, and stored credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const (
	// AppName is the application directory name.
	AppName = "todosync"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.toml"

	// TokenFile is the stored credential filename.
	TokenFile = "token.json"

	// OAuthClientFile is the OAuth client credentials filename, used only
	// by the googletasks backend.
	OAuthClientFile = "oauth_client.json"
)

// Backend names accepted in config.toml.
const (
	BackendREST        = "rest"
	BackendGoogleTasks = "googletasks"
)

// ErrCredentials marks a failure caused by missing or unusable stored
// credentials. Backend constructors wrap it so the dispatcher can map the
// failure to the auth exit code; running the login command fixes it.
var ErrCredentials = errors.New("credentials unavailable")

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Backend selects the transport implementation.
	Backend string

	// BaseURL is the REST backend's API root.
	BaseURL string

	// TimeoutSeconds bounds each remote call.
	TimeoutSeconds int

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileConfig mirrors config.toml.
type fileConfig struct {
	Backend        string `toml:"backend"`
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Load creates a Config from the default or specified config directory,
// applying config.toml on top of the defaults when it exists. If configDir
// is empty, uses XDG_CONFIG_HOME/todosync or $HOME/.config/todosync.
func Load(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := &Config{
		Dir:            dir,
		Backend:        BackendREST,
		BaseURL:        "http://localhost:8080/api/v1",
		TimeoutSeconds: 10,
	}

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", ConfigFile, err)
	}
	if fc.Backend != "" {
		cfg.Backend = fc.Backend
	}
	if fc.BaseURL != "" {
		cfg.BaseURL = fc.BaseURL
	}
	if fc.TimeoutSeconds > 0 {
		cfg.TimeoutSeconds = fc.TimeoutSeconds
	}

	switch cfg.Backend {
	case BackendREST, BackendGoogleTasks:
	default:
		return nil, fmt.Errorf("unknown backend in %s: %s", ConfigFile, cfg.Backend)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// TokenPath returns the path to the stored credential file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasToken checks if the credential file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// RemoveToken deletes the credential file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
