package config

import (
	"fmt"

	domainerrors "bem/internal/core/errors"
)

var supportedFormats = map[string]bool{"": true, "json": true, "toml": true}

// Validate reports the first configuration problem as a VALIDATION_ERROR.
func Validate(cfg *Config) error {
	for _, check := range []func(*Config) error{
		validateVersion,
		validateManifest,
		validateCache,
	} {
		if err := check(cfg); err != nil {
			return domainerrors.Wrap(err, domainerrors.CodeValidationError, "invalid config")
		}
	}
	return nil
}

func validateVersion(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d; supported version is 1", cfg.Version)
	}
	return nil
}

func validateManifest(cfg *Config) error {
	if cfg.Manifest.Path == "" {
		return fmt.Errorf("manifest.path must not be empty")
	}
	if !supportedFormats[cfg.Manifest.Format] {
		return fmt.Errorf("manifest.format must be one of: json, toml (got %q)", cfg.Manifest.Format)
	}
	if cfg.Manifest.Debounce < 0 {
		return fmt.Errorf("manifest.debounce must not be negative")
	}
	return nil
}

func validateCache(cfg *Config) error {
	if cfg.Cache.Resolvers < 0 {
		return fmt.Errorf("cache.resolvers must be >= 0, got %d", cfg.Cache.Resolvers)
	}
	return nil
}
