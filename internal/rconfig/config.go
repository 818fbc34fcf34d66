// Package rconfig loads the TOML-backed configuration shared by the training and
// scheduling packages, falling back to compiled-in defaults exactly as the teacher's
// server configuration does when no file is supplied.
package rconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Defaults mirror the distilled spec's documented bounds and thresholds.
const (
	DefaultMinVal    = 0.0
	DefaultMaxVal    = 1.0
	DefaultStartVal  = 0.0
	DefaultThreshold = 0.5
)

// Config holds the tunables an operator may override via a TOML file.
type Config struct {
	Scheduler struct {
		MinVal   float64 `toml:"min_val"`
		MaxVal   float64 `toml:"max_val"`
		StartVal float64 `toml:"start_val"`
	} `toml:"scheduler"`

	Training struct {
		Threshold float64 `toml:"threshold"`
		UseMito   bool    `toml:"use_mito"`
	} `toml:"training"`

	Log struct {
		Logfile    string `toml:"logfile"`
		MaxLogSize int    `toml:"max_log_size"`
		MaxLogAge  int    `toml:"max_log_age"`
	} `toml:"log"`
}

// Default returns a Config populated with the documented compiled-in defaults.
func Default() *Config {
	c := &Config{}
	c.Scheduler.MinVal = DefaultMinVal
	c.Scheduler.MaxVal = DefaultMaxVal
	c.Scheduler.StartVal = DefaultStartVal
	c.Training.Threshold = DefaultThreshold
	return c
}

// LoadFile parses a TOML configuration file, seeding unset fields with the compiled-in
// defaults first so a partial file only overrides what it mentions.
func LoadFile(path string) (*Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, fmt.Errorf("decoding config %q: %w", path, err)
	}
	return c, nil
}
