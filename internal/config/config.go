// Package config provides configuration management for projectcard using
// Viper for loading from files, environment variables, and command-line
// flags.
//
// Values come from .projectcard.yml, PROJECTCARD_ prefixed environment
// variables, and flags bound by the cmd package. Load applies defaults and
// validates the result.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/conneroisu/projectcard/internal/card"
	"github.com/conneroisu/projectcard/internal/errors"
	"github.com/conneroisu/projectcard/internal/logging"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Catalog     CatalogConfig     `mapstructure:"catalog" yaml:"catalog"`
	Assets      AssetsConfig      `mapstructure:"assets" yaml:"assets"`
	Render      RenderConfig      `mapstructure:"render" yaml:"render"`
	Development DevelopmentConfig `mapstructure:"development" yaml:"development"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port" yaml:"port"`
	Host           string   `mapstructure:"host" yaml:"host"`
	Open           bool     `mapstructure:"open" yaml:"open"`
	NoOpen         bool     `mapstructure:"no-open" yaml:"no-open"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

type AssetsConfig struct {
	Dir     string `mapstructure:"dir" yaml:"dir"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

type RenderConfig struct {
	Title        string `mapstructure:"title" yaml:"title"`
	ButtonLinks  bool   `mapstructure:"button_links" yaml:"button_links"`
	ShowLinkText bool   `mapstructure:"show_link_text" yaml:"show_link_text"`
}

type DevelopmentConfig struct {
	HotReload  bool `mapstructure:"hot_reload" yaml:"hot_reload"`
	DebounceMS int  `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Defaults
const (
	DefaultPort         = 8080
	DefaultHost         = "localhost"
	DefaultCatalogPath  = "projects.yml"
	DefaultAssetsDir    = "images"
	DefaultAssetsURL    = "/assets"
	DefaultTitle        = "Projects"
	DefaultDebounceMS   = 300
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	maxDebounceMS       = 60_000
	dangerousCharacters = ";&|$`()<>\"'\\"
)

// EnvKeyReplacer maps nested keys like server.port to PROJECTCARD_SERVER_PORT.
var EnvKeyReplacer = strings.NewReplacer(".", "_", "-", "_")

// Load builds the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom builds the configuration from v.
func LoadFrom(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.WrapError(err, errors.ErrorTypeConfig, errors.ErrCodeInvalidConfig, "cannot decode configuration")
	}

	if !v.IsSet("server.port") {
		config.Server.Port = DefaultPort
	}
	if config.Server.Host == "" {
		config.Server.Host = DefaultHost
	}
	if v.IsSet("server.no-open") && v.GetBool("server.no-open") {
		config.Server.Open = false
	}

	if config.Catalog.Path == "" {
		config.Catalog.Path = DefaultCatalogPath
	}
	if config.Assets.Dir == "" {
		config.Assets.Dir = DefaultAssetsDir
	}
	if config.Assets.BaseURL == "" {
		config.Assets.BaseURL = DefaultAssetsURL
	}
	if config.Render.Title == "" {
		config.Render.Title = DefaultTitle
	}

	if !v.IsSet("development.hot_reload") {
		config.Development.HotReload = true
	}
	if !v.IsSet("development.debounce_ms") {
		config.Development.DebounceMS = DefaultDebounceMS
	}

	// The root command binds --log-level to this key.
	if v.IsSet("log-level") {
		config.Log.Level = v.GetString("log-level")
	}
	if config.Log.Level == "" {
		config.Log.Level = DefaultLogLevel
	}
	if config.Log.Format == "" {
		config.Log.Format = DefaultLogFormat
	}

	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// LinkOptions converts the render section to card link options.
func (c *Config) LinkOptions() card.LinkOptions {
	return card.LinkOptions{
		Button:   c.Render.ButtonLinks,
		ShowText: c.Render.ShowLinkText,
	}
}

// Logger builds a logger from the log section.
func (c *Config) Logger() logging.Logger {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelInfo
	}
	return logging.NewLogger(&logging.LoggerConfig{
		Level:  level,
		Format: c.Log.Format,
	})
}

// validateConfig validates configuration values for security and correctness
func validateConfig(config *Config) error {
	if err := validateServerConfig(&config.Server); err != nil {
		return configError("server", err)
	}

	if err := validatePath(config.Catalog.Path); err != nil {
		return configError("catalog.path", err)
	}

	if err := validatePath(config.Assets.Dir); err != nil {
		return configError("assets.dir", err)
	}

	if err := validateBaseURL(config.Assets.BaseURL); err != nil {
		return configError("assets.base_url", err)
	}

	if config.Development.DebounceMS < 0 || config.Development.DebounceMS > maxDebounceMS {
		return configError("development.debounce_ms",
			fmt.Errorf("%d is not in range 0-%d", config.Development.DebounceMS, maxDebounceMS))
	}

	if _, err := logging.ParseLevel(config.Log.Level); err != nil {
		return configError("log.level", err)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return configError("log.format", fmt.Errorf("unsupported format %q (supported: text, json)", config.Log.Format))
	}

	return nil
}

func configError(key string, cause error) error {
	err := errors.NewConfigError(errors.ErrCodeInvalidConfig, "invalid "+key)
	err.Cause = cause
	return err.WithContext("key", key)
}

// validateServerConfig validates server configuration values
func validateServerConfig(config *ServerConfig) error {
	// Port 0 lets the system pick one, which tests rely on.
	if config.Port < 0 || config.Port > 65535 {
		return fmt.Errorf("port %d is not in valid range 0-65535", config.Port)
	}

	if strings.ContainsAny(config.Host, dangerousCharacters) {
		return fmt.Errorf("host %q contains a dangerous character", config.Host)
	}

	for _, origin := range config.AllowedOrigins {
		if strings.ContainsAny(origin, dangerousCharacters) || strings.Contains(origin, "/") {
			return fmt.Errorf("allowed origin %q must be a bare host[:port]", origin)
		}
	}

	return nil
}

// validatePath validates a file path for security
func validatePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty path")
	}

	if strings.ContainsAny(path, dangerousCharacters) {
		return fmt.Errorf("path %q contains a dangerous character", path)
	}

	return nil
}

func validateBaseURL(baseURL string) error {
	if strings.HasPrefix(baseURL, "/") || strings.HasPrefix(baseURL, "http://") || strings.HasPrefix(baseURL, "https://") {
		if strings.ContainsAny(baseURL, "\"'<> ") {
			return fmt.Errorf("base URL %q contains an invalid character", baseURL)
		}
		return nil
	}
	return fmt.Errorf("base URL %q must start with / or http(s)://", baseURL)
}
