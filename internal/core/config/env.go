package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// ApplyEnvOverrides applies environment variable overrides to the configuration.
// Pattern: BEM_[SECTION]_[KEY] (e.g., BEM_MANIFEST_PATH).
func ApplyEnvOverrides(cfg *Config) {
	setEnvString(&cfg.Manifest.Path, "BEM_MANIFEST_PATH")
	setEnvString(&cfg.Manifest.Format, "BEM_MANIFEST_FORMAT")
	setEnvBool(&cfg.Manifest.Watch, "BEM_MANIFEST_WATCH")
	setEnvDuration(&cfg.Manifest.Debounce, "BEM_MANIFEST_DEBOUNCE")

	setEnvInt(&cfg.Cache.Resolvers, "BEM_CACHE_RESOLVERS")

	setEnvBool(&cfg.Observability.EnableMetrics, "BEM_OBSERVABILITY_ENABLE_METRICS")

	setEnvString(&cfg.Server.Addr, "BEM_SERVER_ADDR")
}

func setEnvString(target *string, key string) {
	if val, ok := os.LookupEnv(key); ok {
		slog.Debug("applying env override", "key", key, "value", val)
		*target = val
	}
}

func setEnvInt(target *int, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = i
		}
	}
}

func setEnvBool(target *bool, key string) {
	if val, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(strings.ToLower(val))
		if err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = b
		}
	}
}

func setEnvDuration(target *time.Duration, key string) {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			slog.Debug("applying env override", "key", key, "value", val)
			*target = d
		}
	}
}
