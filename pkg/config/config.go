package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Scope selects which access tiers of posts are archived.
type Scope string

const (
	ScopeAll  Scope = "all"
	ScopePaid Scope = "paid"
	ScopeFree Scope = "free"
)

// Valid reports whether s is one of the supported scopes.
func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopePaid, ScopeFree:
		return true
	}
	return false
}

// Config holds all configuration options for the archiver.
type Config struct {
	// Fantia session credentials
	Auth AuthConfig `yaml:"authentication" json:"authentication"`

	// Crawl behavior settings
	Settings SettingsConfig `yaml:"settings" json:"settings"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// AuthConfig holds the session credentials attached to every request.
type AuthConfig struct {
	UserAgent string `yaml:"user_agent" json:"user_agent"`
	Cookie    string `yaml:"cookie" json:"cookie"`
	CSRFToken string `yaml:"csrf_token" json:"csrf_token"`
}

// SettingsConfig holds crawl behavior settings.
type SettingsConfig struct {
	DownloadScope  Scope         `yaml:"download_scope" json:"download_scope"`
	RootOutputDir  string        `yaml:"root_output_dir" json:"root_output_dir"`
	RequestDelay   float64       `yaml:"request_delay" json:"request_delay"`
	RequestTimeout time.Duration `yaml:"request_timeout" json:"request_timeout"`
}

// Delay returns the configured inter-request delay as a duration.
func (s SettingsConfig) Delay() time.Duration {
	return time.Duration(s.RequestDelay * float64(time.Second))
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Auth: AuthConfig{
			UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/72.0.3626.121 Safari/537.36",
		},
		Settings: SettingsConfig{
			DownloadScope:  ScopeAll,
			RootOutputDir:  "fantia_novels",
			RequestDelay:   1.5,
			RequestTimeout: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// LoadFromFile loads configuration from a YAML file. An empty path searches
// the default locations; finding none is not an error.
func (c *Config) LoadFromFile(path string) error {
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// An explicit empty user_agent in the file means "use the default".
	if c.Auth.UserAgent == "" {
		c.Auth.UserAgent = DefaultConfig().Auth.UserAgent
	}

	return nil
}

// findConfigFile searches for a config file in standard locations.
func (c *Config) findConfigFile() string {
	locations := []string{
		"fanarchive.yaml",
		"fanarchive.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "fanarchive", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "fanarchive", "config.yml"),
		filepath.Join(os.Getenv("HOME"), ".fanarchive.yaml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// LoadFromEnv overrides configuration from environment variables.
func (c *Config) LoadFromEnv() error {
	if cookie := os.Getenv("FANARCHIVE_COOKIE"); cookie != "" {
		c.Auth.Cookie = cookie
	}
	if token := os.Getenv("FANARCHIVE_CSRF_TOKEN"); token != "" {
		c.Auth.CSRFToken = token
	}
	if userAgent := os.Getenv("FANARCHIVE_USER_AGENT"); userAgent != "" {
		c.Auth.UserAgent = userAgent
	}
	if scope := os.Getenv("FANARCHIVE_SCOPE"); scope != "" {
		c.Settings.DownloadScope = Scope(strings.ToLower(scope))
	}
	if outputDir := os.Getenv("FANARCHIVE_OUTPUT_DIR"); outputDir != "" {
		c.Settings.RootOutputDir = outputDir
	}
	if delay := os.Getenv("FANARCHIVE_REQUEST_DELAY"); delay != "" {
		if val, err := strconv.ParseFloat(delay, 64); err == nil && val >= 0 {
			c.Settings.RequestDelay = val
		}
	}
	if logLevel := os.Getenv("FANARCHIVE_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration.
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if cookie, ok := flags["cookie"].(string); ok && cookie != "" {
		c.Auth.Cookie = cookie
	}
	if token, ok := flags["csrf-token"].(string); ok && token != "" {
		c.Auth.CSRFToken = token
	}
	if scope, ok := flags["scope"].(string); ok && scope != "" {
		c.Settings.DownloadScope = Scope(strings.ToLower(scope))
	}
	if outputDir, ok := flags["output"].(string); ok && outputDir != "" {
		c.Settings.RootOutputDir = outputDir
	}
	if delay, ok := flags["delay"].(float64); ok && delay >= 0 {
		c.Settings.RequestDelay = delay
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.Cookie == "" || strings.Contains(c.Auth.Cookie, "Please paste") {
		errs = append(errs, errors.New("session cookie is required"))
	}
	if c.Auth.CSRFToken == "" || strings.Contains(c.Auth.CSRFToken, "Please paste") {
		errs = append(errs, errors.New("CSRF token is required"))
	}
	if c.Auth.UserAgent == "" {
		errs = append(errs, errors.New("user agent is required"))
	}

	if !c.Settings.DownloadScope.Valid() {
		errs = append(errs, fmt.Errorf("invalid download scope %q: must be one of all, paid, free", c.Settings.DownloadScope))
	}
	if c.Settings.RootOutputDir == "" {
		errs = append(errs, errors.New("root output directory is required"))
	}
	if c.Settings.RequestDelay < 0 {
		errs = append(errs, errors.New("request delay cannot be negative"))
	}
	if c.Settings.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Load loads configuration from all sources with proper precedence.
// Precedence order: command line flags > environment variables > .env file >
// config file > defaults.
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".fanarchive.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
