// Package config handles configuration loading and management for codenexus.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvProduction is the environment name that tightens CORS and error output.
const EnvProduction = "production"

// Config holds all configuration for codenexus.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Bedrock  BedrockConfig  `mapstructure:"bedrock"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Environment string `mapstructure:"environment"`
	// CORSOrigins are the allowed origins in production. Any origin is
	// allowed in every other environment.
	CORSOrigins []string `mapstructure:"cors_origins"`
	// BodyLimit is an echo size string such as "10M".
	BodyLimit string          `mapstructure:"body_limit"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

// RateLimitConfig bounds requests per client IP on /api/ routes.
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// BedrockConfig holds AWS Bedrock settings.
type BedrockConfig struct {
	Region    string `mapstructure:"region"`
	Profile   string `mapstructure:"profile"`
	MaxTokens int64  `mapstructure:"max_tokens"`
}

// DefaultsConfig holds default values for orchestration runs.
type DefaultsConfig struct {
	Model           string `mapstructure:"model"`
	HistoryCapacity int    `mapstructure:"history_capacity"`
}

// RetryConfig holds the rate-limit retry policy of each retried stage.
type RetryConfig struct {
	Plan      StageRetry `mapstructure:"plan"`
	Integrate StageRetry `mapstructure:"integrate"`
	Quality   StageRetry `mapstructure:"quality"`
}

// StageRetry is the retry policy of one stage.
type StageRetry struct {
	Attempts  int           `mapstructure:"attempts"`
	BaseDelay time.Duration `mapstructure:"base_delay"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is json or console.
	Format string `mapstructure:"format"`
}

// IsProduction reports whether the server runs in the production environment.
func (c ServerConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ErrNoConfigFile is returned by Watch when neither config file exists.
var ErrNoConfigFile = errors.New("no config file to watch")

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (PORT, NODE_ENV, AWS_REGION, ...)
// 2. Project config (.codenexus.yaml in current directory or parent)
// 3. User config (~/.config/codenexus/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	return loadLayers(GetUserConfigPath(), findProjectConfig())
}

// loadLayers builds a Config from defaults, the user file, the project
// file and the environment. Empty or missing files are skipped.
func loadLayers(userPath, projectPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	if userPath != "" && fileExists(userPath) {
		v.SetConfigFile(userPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	if projectPath != "" && fileExists(projectPath) {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectPath)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config: %w", err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	bindEnv(v)
	return unmarshal(v)
}

// LoadFromPath loads configuration from a specific path (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	bindEnv(v)
	return unmarshal(v)
}

// Watch watches the user and project config files and, whenever one of
// them changes, rebuilds the full layered configuration as Load does and
// passes it to onChange. Reload failures go to onError. Watch returns once
// the watchers are installed, or ErrNoConfigFile if neither file exists.
func Watch(onChange func(*Config, fsnotify.Event), onError func(error)) error {
	return watchLayers(GetUserConfigPath(), findProjectConfig(), onChange, onError)
}

func watchLayers(userPath, projectPath string, onChange func(*Config, fsnotify.Event), onError func(error)) error {
	reload := func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := loadLayers(userPath, projectPath)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return
		}
		onChange(cfg, e)
	}

	var watched int
	for _, path := range []string{userPath, projectPath} {
		if path == "" || !fileExists(path) {
			continue
		}
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config from %s: %w", path, err)
		}
		v.OnConfigChange(reload)
		v.WatchConfig()
		watched++
	}
	if watched == 0 {
		return ErrNoConfigFile
	}
	return nil
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// Paths returns the existing config files in load order: user, then project.
func Paths() []string {
	var paths []string
	if p := GetUserConfigPath(); fileExists(p) {
		paths = append(paths, p)
	}
	if p := findProjectConfig(); p != "" {
		paths = append(paths, p)
	}
	return paths
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would make the server unusable.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d", c.Server.Port)
	}
	if c.Server.RateLimit.Requests < 0 || c.Server.RateLimit.Window < 0 {
		return errors.New("server.rate_limit must not be negative")
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "json", "console":
	default:
		return fmt.Errorf("invalid log.format %q: want json or console", c.Log.Format)
	}
	for name, r := range map[string]StageRetry{"plan": c.Retry.Plan, "integrate": c.Retry.Integrate, "quality": c.Retry.Quality} {
		if r.Attempts < 1 {
			return fmt.Errorf("retry.%s.attempts must be at least 1", name)
		}
	}
	return nil
}

// bindEnv maps the conventional deployment variables onto config keys.
func bindEnv(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("server.environment", "CODENEXUS_ENV", "NODE_ENV")
	_ = v.BindEnv("bedrock.region", "AWS_REGION")
	_ = v.BindEnv("bedrock.profile", "AWS_PROFILE")
	_ = v.BindEnv("log.level", "CODENEXUS_LOG_LEVEL")
	_ = v.BindEnv("defaults.model", "CODENEXUS_MODEL")
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.environment", d.Server.Environment)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.body_limit", d.Server.BodyLimit)
	v.SetDefault("server.rate_limit.requests", d.Server.RateLimit.Requests)
	v.SetDefault("server.rate_limit.window", d.Server.RateLimit.Window.String())

	v.SetDefault("bedrock.region", d.Bedrock.Region)
	v.SetDefault("bedrock.profile", d.Bedrock.Profile)
	v.SetDefault("bedrock.max_tokens", d.Bedrock.MaxTokens)

	v.SetDefault("defaults.model", d.Defaults.Model)
	v.SetDefault("defaults.history_capacity", d.Defaults.HistoryCapacity)

	v.SetDefault("retry.plan.attempts", d.Retry.Plan.Attempts)
	v.SetDefault("retry.plan.base_delay", d.Retry.Plan.BaseDelay.String())
	v.SetDefault("retry.integrate.attempts", d.Retry.Integrate.Attempts)
	v.SetDefault("retry.integrate.base_delay", d.Retry.Integrate.BaseDelay.String())
	v.SetDefault("retry.quality.attempts", d.Retry.Quality.Attempts)
	v.SetDefault("retry.quality.base_delay", d.Retry.Quality.BaseDelay.String())

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// getUserConfigDir returns the XDG config directory for codenexus.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "codenexus")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "codenexus")
	}
	return filepath.Join(home, ".config", "codenexus")
}

// findProjectConfig searches for .codenexus.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, ".codenexus.yaml")
		if fileExists(configPath) {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "",
			Port:        3001,
			Environment: "development",
			CORSOrigins: []string{
				"https://codingnexusai.vercel.app",
				"https://codingnexusai-k2ok9va9c-rajshah9305s-projects.vercel.app",
			},
			BodyLimit: "10M",
			RateLimit: RateLimitConfig{
				Requests: 100,
				Window:   15 * time.Minute,
			},
		},
		Bedrock: BedrockConfig{
			Region:    "us-west-2",
			MaxTokens: 4000,
		},
		Defaults: DefaultsConfig{
			Model:           "claude-3.5-sonnet-v2",
			HistoryCapacity: 100,
		},
		Retry: RetryConfig{
			Plan:      StageRetry{Attempts: 3, BaseDelay: 2 * time.Second},
			Integrate: StageRetry{Attempts: 3, BaseDelay: 3 * time.Second},
			Quality:   StageRetry{Attempts: 2, BaseDelay: 2 * time.Second},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
