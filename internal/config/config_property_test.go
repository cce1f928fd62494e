//go:build property
// +build property

package config

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func validBase() *Config {
	return &Config{
		Server:      ServerConfig{Port: DefaultPort, Host: DefaultHost},
		Catalog:     CatalogConfig{Path: DefaultCatalogPath},
		Assets:      AssetsConfig{Dir: DefaultAssetsDir, BaseURL: DefaultAssetsURL},
		Development: DevelopmentConfig{DebounceMS: DefaultDebounceMS},
		Log:         LogConfig{Level: DefaultLogLevel, Format: DefaultLogFormat},
	}
}

func TestConfigurationProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("port validation matches range", prop.ForAll(
		func(port int) bool {
			cfg := validBase()
			cfg.Server.Port = port
			err := validateConfig(cfg)
			return (err == nil) == (port >= 0 && port <= 65535)
		},
		gen.IntRange(-1000, 70000),
	))

	properties.Property("dangerous characters in host are rejected", prop.ForAll(
		func(prefix string, idx int) bool {
			cfg := validBase()
			cfg.Server.Host = prefix + string(dangerousCharacters[idx%len(dangerousCharacters)])
			return validateConfig(cfg) != nil
		},
		gen.AlphaString(),
		gen.IntRange(0, 100),
	))

	properties.Property("alphanumeric catalog paths are accepted", prop.ForAll(
		func(name string) bool {
			if name == "" {
				return true
			}
			cfg := validBase()
			cfg.Catalog.Path = name + ".yml"
			return validateConfig(cfg) == nil
		},
		gen.AlphaString(),
	))

	properties.Property("absolute base URLs are accepted", prop.ForAll(
		func(segment string) bool {
			cfg := validBase()
			cfg.Assets.BaseURL = "/" + strings.ToLower(segment)
			return validateConfig(cfg) == nil
		},
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
