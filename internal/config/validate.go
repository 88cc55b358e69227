package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/mvp-joe/corex/internal/analysis"
)

var (
	// ErrEmptyLanguage indicates a missing extraction language
	ErrEmptyLanguage = errors.New("empty extraction language")

	// ErrInvalidWorkers indicates a non-positive worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidCacheSize indicates a negative cache size
	ErrInvalidCacheSize = errors.New("invalid cache size")

	// ErrInvalidMode indicates an unsupported analysis mode
	ErrInvalidMode = errors.New("invalid analysis mode")

	// ErrInvalidTimeout indicates a non-positive generator timeout
	ErrInvalidTimeout = errors.New("invalid analysis timeout")

	// ErrEmptyMarker indicates a missing normal marker
	ErrEmptyMarker = errors.New("empty normal marker")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// Validate checks that the configuration is valid and complete.
// The generator command is not required here; only review needs it.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateExtract(&cfg.Extract); err != nil {
		errs = append(errs, err)
	}

	if err := validateAnalysis(&cfg.Analysis); err != nil {
		errs = append(errs, err)
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil || cfg.Log.Level == "" {
		errs = append(errs, fmt.Errorf("%w: got '%s'", ErrInvalidLogLevel, cfg.Log.Level))
	}

	return joinErrors(errs)
}

func validateExtract(cfg *ExtractConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Language) == "" {
		errs = append(errs, fmt.Errorf("%w: language is required", ErrEmptyLanguage))
	}

	if cfg.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	// Zero disables the cache
	if cfg.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("%w: cache_size cannot be negative, got %d", ErrInvalidCacheSize, cfg.CacheSize))
	}

	return joinErrors(errs)
}

func validateAnalysis(cfg *AnalysisConfig) error {
	var errs []error

	if _, err := analysis.ParseMode(cfg.Mode); err != nil {
		errs = append(errs, fmt.Errorf("%w: must be 'without_context' or 'with_context', got '%s'", ErrInvalidMode, cfg.Mode))
	}

	if cfg.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidTimeout, cfg.Timeout))
	}

	if strings.TrimSpace(cfg.NormalMarker) == "" {
		errs = append(errs, fmt.Errorf("%w: normal_marker is required", ErrEmptyMarker))
	}

	return joinErrors(errs)
}

// joinErrors combines multiple errors, keeping each one matchable with errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	default:
		return fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}
}
