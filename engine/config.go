package engine

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// Config is the optional project configuration, conventionally stored
// in .domsync.yaml at the project root.
type Config struct {
	// ReadyTimeout bounds the wait for the companion live-reload
	// process at startup.
	ReadyTimeout time.Duration `yaml:"readyTimeout"`

	// IdentityAttr overrides the marker attribute injected by
	// Instrument. Empty keeps the default.
	IdentityAttr string `yaml:"identityAttr"`
}

func DefaultConfig() *Config {
	return &Config{
		ReadyTimeout: 30 * time.Second,
	}
}

// LoadConfig reads a YAML config file, filling unset fields with
// defaults. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	d, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(d, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = 30 * time.Second
	}
	return cfg, nil
}
