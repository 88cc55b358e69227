package config

import "time"

// Config represents the complete corex configuration.
// It can be loaded from .corex/config.yml with environment variable overrides.
type Config struct {
	Extract  ExtractConfig  `yaml:"extract" mapstructure:"extract"`
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ExtractConfig controls comment extraction.
type ExtractConfig struct {
	Language  string   `yaml:"language" mapstructure:"language"`     // language identifier or alias, e.g. "python"
	Workers   int      `yaml:"workers" mapstructure:"workers"`       // files parsed concurrently
	CacheSize int      `yaml:"cache_size" mapstructure:"cache_size"` // cached file extractions, 0 disables the cache
	Ignore    []string `yaml:"ignore" mapstructure:"ignore"`         // glob patterns to ignore
}

// AnalysisConfig controls the review command.
type AnalysisConfig struct {
	Mode         string        `yaml:"mode" mapstructure:"mode"`                   // "without_context" or "with_context"
	Command      string        `yaml:"command" mapstructure:"command"`             // generator executable, prompt on stdin
	Args         []string      `yaml:"args" mapstructure:"args"`                   // generator arguments
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`             // per-comment generator timeout
	NormalMarker string        `yaml:"normal_marker" mapstructure:"normal_marker"` // verdicts containing this are dropped
	TemplatePath string        `yaml:"template_path" mapstructure:"template_path"` // overrides the built-in prompt
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"` // zerolog level name
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Extract: ExtractConfig{
			Language:  "python",
			Workers:   4,
			CacheSize: 1024,
			Ignore: []string{
				"**/.git/**",
				"**/node_modules/**",
				"**/vendor/**",
				"**/__pycache__/**",
				"**/.venv/**",
				"**/build/**",
				"**/dist/**",
			},
		},
		Analysis: AnalysisConfig{
			Mode:         "without_context",
			Timeout:      60 * time.Second,
			NormalMarker: "Normal",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
