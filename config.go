package parlang

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config carries the runtime bounds a host can put on a match.  The
// machine checks them between dispatched instructions, so aborting is
// cooperative and never leaves partial state visible.
type Config struct {
	Limits struct {
		// MaxSteps bounds how many instructions a single match may
		// dispatch.  Zero disables the bound.
		MaxSteps int `toml:"max_steps"`

		// MaxGrowth bounds how many growth iterations any left
		// recursion seed may go through.  Zero disables the bound.
		MaxGrowth int `toml:"max_growth"`
	} `toml:"limits"`
}

// DefaultConfig returns a configuration with both limits disabled
func DefaultConfig() *Config {
	return &Config{}
}

// LoadConfig reads a TOML configuration file, leaving defaults in
// place for anything the file does not set
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	if cfg.Limits.MaxSteps < 0 || cfg.Limits.MaxGrowth < 0 {
		return nil, fmt.Errorf("config %s: limits must not be negative", path)
	}
	return cfg, nil
}
