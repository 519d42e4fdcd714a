package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const DefaultPath = "bem.toml"

type Config struct {
	Version       int           `toml:"version"`
	Manifest      Manifest      `toml:"manifest"`
	Cache         Cache         `toml:"cache"`
	Observability Observability `toml:"observability"`
	Server        Server        `toml:"server"`
}

type Manifest struct {
	Path     string        `toml:"path"`
	Format   string        `toml:"format"` // "json", "toml" or "" to infer from the extension
	Watch    bool          `toml:"watch"`
	Debounce time.Duration `toml:"debounce"`
}

type Cache struct {
	Resolvers int `toml:"resolvers"`
}

type Observability struct {
	EnableMetrics bool `toml:"enable_metrics"`
}

type Server struct {
	Addr string `toml:"addr"`
}

func DefaultConfig() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads a config with Read and validates it.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read decodes a TOML config and applies BEM_* env overrides and defaults
// without validating, so callers can layer further overrides first. A relative
// manifest path in the file resolves against the file's directory; one from
// the environment stays relative to the working directory.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	if p := strings.TrimSpace(cfg.Manifest.Path); p != "" && !filepath.IsAbs(p) {
		cfg.Manifest.Path = filepath.Join(filepath.Dir(path), p)
	}

	ApplyEnvOverrides(&cfg)
	applyDefaults(&cfg)
	normalize(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Manifest.Debounce <= 0 {
		cfg.Manifest.Debounce = 100 * time.Millisecond
	}
	if cfg.Cache.Resolvers == 0 {
		cfg.Cache.Resolvers = 128
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		cfg.Server.Addr = "127.0.0.1:8787"
	}
}

func normalize(cfg *Config) {
	cfg.Manifest.Path = strings.TrimSpace(cfg.Manifest.Path)
	cfg.Manifest.Format = strings.ToLower(strings.TrimSpace(cfg.Manifest.Format))
	cfg.Server.Addr = strings.TrimSpace(cfg.Server.Addr)
}
