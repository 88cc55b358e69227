package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Load loads configuration from file and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

type loader struct {
	rootDir string
}

// NewLoader creates a new configuration loader for the given root directory.
func NewLoader(rootDir string) Loader {
	return &loader{
		rootDir: rootDir,
	}
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (COREX_*)
// 2. Config file (.corex/config.yml or .corex/config.yaml)
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(l.rootDir, ".corex"))

	// COREX_EXTRACT_WORKERS -> extract.workers
	v.SetEnvPrefix("COREX")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range []string{
		"extract.language",
		"extract.workers",
		"extract.cache_size",
		"analysis.mode",
		"analysis.command",
		"analysis.timeout",
		"analysis.normal_marker",
		"analysis.template_path",
		"log.level",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is acceptable - defaults + env vars apply
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("extract.language", defaults.Extract.Language)
	v.SetDefault("extract.workers", defaults.Extract.Workers)
	v.SetDefault("extract.cache_size", defaults.Extract.CacheSize)
	v.SetDefault("extract.ignore", defaults.Extract.Ignore)

	v.SetDefault("analysis.mode", defaults.Analysis.Mode)
	v.SetDefault("analysis.command", defaults.Analysis.Command)
	v.SetDefault("analysis.args", defaults.Analysis.Args)
	v.SetDefault("analysis.timeout", defaults.Analysis.Timeout)
	v.SetDefault("analysis.normal_marker", defaults.Analysis.NormalMarker)
	v.SetDefault("analysis.template_path", defaults.Analysis.TemplatePath)

	v.SetDefault("log.level", defaults.Log.Level)
}

// LoadConfig is a convenience function that creates a loader and loads config.
// It uses the current working directory as the root.
func LoadConfig() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return NewLoader(wd).Load()
}

// LoadConfigFromDir loads configuration from a specific directory.
func LoadConfigFromDir(rootDir string) (*Config, error) {
	return NewLoader(rootDir).Load()
}
