package main

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/bsbctl/internal/config"
)

// bsbctl config.toml key mapping to runtime settings.
type fileConfig struct {
	SourceAddr   int `toml:"source_addr"`
	DestAddr     int `toml:"dest_addr"`
	PollInterval int `toml:"poll_interval_ms"`
}

// loadConfig resolves the runtime configuration with a default overlay: only
// keys present in the file override the stock values. A missing file is fine
// unless the user named it explicitly.
func loadConfig(path string, explicit bool) (config.Config, error) {
	cfg := config.Default()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return config.Config{}, fmt.Errorf("load config: %w", err)
		}
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("source_addr") {
		if raw.SourceAddr < 0 || raw.SourceAddr > config.MaxBusAddr {
			return config.Config{}, fmt.Errorf("load config: source_addr %#x out of range", raw.SourceAddr)
		}
		cfg.SourceAddr = uint8(raw.SourceAddr)
	}
	if meta.IsDefined("dest_addr") {
		if raw.DestAddr < 0 || raw.DestAddr > config.MaxBusAddr {
			return config.Config{}, fmt.Errorf("load config: dest_addr %#x out of range", raw.DestAddr)
		}
		cfg.DestAddr = uint8(raw.DestAddr)
	}
	if meta.IsDefined("poll_interval_ms") {
		cfg.PollInterval = raw.PollInterval
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
