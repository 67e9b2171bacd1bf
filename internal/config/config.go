// Package config loads game configuration from HCL files.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config represents the complete game configuration
type Config struct {
	Game    GameSettings   `hcl:"game,block"`
	Players []PlayerConfig `hcl:"player,block"`
}

// GameSettings contains table-level configuration
type GameSettings struct {
	SmallBlind int    `hcl:"small_blind,optional"`
	Deals      int    `hcl:"deals,optional"`
	DelayMS    int    `hcl:"delay_ms,optional"`
	LogLevel   string `hcl:"log_level,optional"`
	Seed       int64  `hcl:"seed,optional"`
}

// PlayerConfig defines one seated bot
type PlayerConfig struct {
	Name     string `hcl:"name,label"`
	Strategy string `hcl:"strategy,optional"`
	BuyIn    int    `hcl:"buy_in,optional"`
}

// Default returns the default configuration: a four-handed game of
// mixed strategies.
func Default() *Config {
	return &Config{
		Game: GameSettings{
			SmallBlind: 5,
			Deals:      20,
			LogLevel:   "info",
		},
		Players: []PlayerConfig{
			{Name: "alice", Strategy: "call", BuyIn: 1000},
			{Name: "bob", Strategy: "aggressive", BuyIn: 1000},
			{Name: "carol", Strategy: "random", BuyIn: 1000},
			{Name: "dave", Strategy: "call", BuyIn: 1000},
		},
	}
}

// Load reads configuration from an HCL file, falling back to defaults
// when the file does not exist.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if cfg.Game.SmallBlind == 0 {
		cfg.Game.SmallBlind = 5
	}
	if cfg.Game.Deals == 0 {
		cfg.Game.Deals = 20
	}
	if cfg.Game.LogLevel == "" {
		cfg.Game.LogLevel = "info"
	}
	for i := range cfg.Players {
		if cfg.Players[i].Strategy == "" {
			cfg.Players[i].Strategy = "call"
		}
		if cfg.Players[i].BuyIn == 0 {
			cfg.Players[i].BuyIn = 200 * cfg.Game.SmallBlind
		}
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Game.SmallBlind <= 0 {
		return fmt.Errorf("small blind must be positive, got %d", c.Game.SmallBlind)
	}
	if c.Game.Deals <= 0 {
		return fmt.Errorf("deals must be positive, got %d", c.Game.Deals)
	}
	if c.Game.DelayMS < 0 {
		return fmt.Errorf("delay must not be negative, got %d", c.Game.DelayMS)
	}
	if len(c.Players) < 2 {
		return fmt.Errorf("at least two players must be configured")
	}

	validStrategies := map[string]bool{
		"call":       true,
		"aggressive": true,
		"random":     true,
	}

	seen := map[string]bool{}
	for _, p := range c.Players {
		if seen[p.Name] {
			return fmt.Errorf("player %s: duplicate name", p.Name)
		}
		seen[p.Name] = true
		if !validStrategies[p.Strategy] {
			return fmt.Errorf("player %s: invalid strategy %s", p.Name, p.Strategy)
		}
		if p.BuyIn < 2*c.Game.SmallBlind {
			return fmt.Errorf("player %s: buy-in must cover the big blind", p.Name)
		}
	}

	return nil
}
