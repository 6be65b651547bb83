// Package config holds the reference frontend's command-line
// configuration: which ROM to load and how to present it.
package config

import "github.com/alecthomas/kong"

// Config is the frontend's runtime configuration, trimmed from the
// teacher's JSON-persisted settings tree to what the reference
// frontend actually drives, and parsed here with kong struct tags
// instead of a settings file.
type Config struct {
	ROMPath    string `name:"rom" help:"path to an iNES ROM image" required:""`
	Scale      int    `name:"scale" help:"window scale (NES resolution multiplier)" default:"2"`
	Fullscreen bool   `name:"fullscreen" help:"start in fullscreen"`
	Filter     string `name:"filter" help:"scaling filter: nearest or linear" default:"nearest" enum:"nearest,linear"`
}

// Parse builds a Config from command-line arguments (excluding the
// program name).
func Parse(args []string) (*Config, error) {
	cfg := &Config{}

	parser, err := kong.New(cfg,
		kong.Name("gones"),
		kong.Description("a cycle-accurate NES emulator core with an Ebitengine frontend"),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, err
	}

	cfg.validate()
	return cfg, nil
}

func (c *Config) validate() {
	if c.Scale <= 0 {
		c.Scale = 1
	}
}

// WindowSize returns the window's pixel dimensions for the NES's
// native 256x240 resolution at this config's scale.
func (c *Config) WindowSize() (width, height int) {
	return 256 * c.Scale, 240 * c.Scale
}
