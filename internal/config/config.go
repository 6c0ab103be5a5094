// Package config handles the XDG configuration directory, config.yaml and the token file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "todoctl"

	// ConfigFile is the settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// TokenFile is the stored access token filename.
	TokenFile = "token.json"

	// EnvPrefix prefixes environment overrides (TODOCTL_BASE_URL, ...).
	EnvPrefix = "TODOCTL"

	// DefaultBaseURL is where the task API is expected when nothing is configured.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultTimeout bounds every API call.
	DefaultTimeout = 10 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the root of the task API.
	BaseURL string

	// Timeout bounds a single API call.
	Timeout time.Duration

	// LogFile receives JSON diagnostic logs when set.
	LogFile string

	// Debug enables debug logging to stderr.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// In is where confirmations and prompts are read from.
	In io.Reader

	// Log is the diagnostic channel. Nil means discard.
	Log *zap.Logger
}

// settings is the on-disk shape of config.yaml.
type settings struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	Timeout string `yaml:"timeout" mapstructure:"timeout"`
	LogFile string `yaml:"log_file,omitempty" mapstructure:"log_file"`
}

// New creates a Config for the default or specified config directory and
// merges config.yaml and TODOCTL_* environment variables over the defaults.
// If configDir is empty, uses XDG_CONFIG_HOME/todoctl or $HOME/.config/todoctl.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir}

	v := viper.New()
	v.SetDefault("base_url", DefaultBaseURL)
	v.SetDefault("timeout", DefaultTimeout.String())
	v.SetDefault("log_file", "")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if cfg.HasConfigFile() {
		v.SetConfigFile(cfg.ConfigPath())
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
		}
	}

	cfg.BaseURL = strings.TrimRight(v.GetString("base_url"), "/")
	cfg.LogFile = v.GetString("log_file")

	timeout, err := time.ParseDuration(v.GetString("timeout"))
	if err != nil || timeout <= 0 {
		return nil, fmt.Errorf("invalid timeout: %s", v.GetString("timeout"))
	}
	cfg.Timeout = timeout

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

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// TokenPath returns the path to the stored token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasConfigFile checks if config.yaml exists.
func (c *Config) HasConfigFile() bool {
	_, err := os.Stat(c.ConfigPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}

// LoadToken reads the stored token.
func (c *Config) LoadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(c.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TokenFile, err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", TokenFile, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("invalid %s: no access token", TokenFile)
	}
	return &token, nil
}

// SaveToken writes the token with mode 0600, creating the directory if needed.
func (c *Config) SaveToken(token *oauth2.Token) error {
	if err := c.EnsureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.TokenPath(), data, 0600)
}

// ErrConfigExists is returned by WriteDefault when config.yaml is already present.
var ErrConfigExists = errors.New("config file already exists")

// WriteDefault writes config.yaml populated from the current settings.
func (c *Config) WriteDefault() error {
	if c.HasConfigFile() {
		return ErrConfigExists
	}
	if err := c.EnsureDir(); err != nil {
		return err
	}
	s := settings{
		BaseURL: c.BaseURL,
		Timeout: c.Timeout.String(),
		LogFile: c.LogFile,
	}
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if c.Timeout <= 0 {
		s.Timeout = DefaultTimeout.String()
	}
	data, err := yaml.Marshal(&s)
	if err != nil {
		return err
	}
	return os.WriteFile(c.ConfigPath(), data, 0600)
}

// Logger returns the diagnostic logger, never nil.
func (c *Config) Logger() *zap.Logger {
	if c.Log == nil {
		return zap.NewNop()
	}
	return c.Log
}
