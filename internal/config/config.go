// Package config holds the bsbctl runtime settings and the config file
// template. Parsing of the TOML file itself lives with the CLI so defaults
// and overrides stay next to the flags they interact with.
package config

import (
	"fmt"
)

// Bus addresses are 7-bit; the high bit of the source byte is a wire marker.
const MaxBusAddr = 0x7F

// Config is the resolved bsbctl runtime configuration.
type Config struct {
	// SourceAddr is our own bus address, stamped into outgoing frames.
	SourceAddr uint8
	// DestAddr is the device queried and commanded by default.
	DestAddr uint8
	// PollInterval is the delay in milliseconds between queued requests
	// when several fields are fetched in one invocation.
	PollInterval int
}

// Default returns the stock configuration: address 0x42 talking to the
// controller at address 0.
func Default() Config {
	return Config{
		SourceAddr:   0x42,
		DestAddr:     0x00,
		PollInterval: 250,
	}
}

func (c Config) Validate() error {
	if c.SourceAddr > MaxBusAddr {
		return fmt.Errorf("config: source_addr %#x exceeds %#x", c.SourceAddr, MaxBusAddr)
	}
	if c.DestAddr > MaxBusAddr {
		return fmt.Errorf("config: dest_addr %#x exceeds %#x", c.DestAddr, MaxBusAddr)
	}
	if c.SourceAddr == c.DestAddr {
		return fmt.Errorf("config: source_addr and dest_addr are both %#x", c.SourceAddr)
	}
	if c.PollInterval < 0 {
		return fmt.Errorf("config: poll_interval_ms must not be negative")
	}
	return nil
}
