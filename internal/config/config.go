package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type SourceConfig struct {
	// Kind selects the incident source: "neo4j", "sqlite", or "csv".
	Kind string `toml:"kind"`
	// Path locates the corpus for the sqlite and csv kinds.
	Path     string `toml:"path"`
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type EngineConfig struct {
	EdgeDayWindow   int     `toml:"edge_day_window"`
	EdgeThreshold   float64 `toml:"edge_threshold"`
	StartCap        int     `toml:"start_cap"`
	ExpansionBudget int     `toml:"expansion_budget"`
}

type ConcurrencyConfig struct {
	GraphBuild int `toml:"graph_build"`
	JoinScan   int `toml:"join_scan"`
}

type Config struct {
	Source      SourceConfig      `toml:"source"`
	Engine      EngineConfig      `toml:"engine"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return &cfg, nil
}
