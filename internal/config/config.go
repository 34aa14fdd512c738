package config

import (
	"fmt"
	"io/ioutil"

	"gopkg.in/yaml.v3"
)

// Config holds everything the service needs at boot.
//
// Hierarchy (highest to lowest priority):
//  1. CLI flags
//  2. Environment variables (TRUTHLEDGER_*)
//  3. Config file (-config)
//  4. Defaults
type Config struct {
	// Addr is the listen address of the public API.
	Addr string `yaml:"addr"`
	// DiagAddr serves Prometheus metrics.
	DiagAddr string `yaml:"diag_addr"`

	// Owner is the single identity allowed to airdrop HASH.
	Owner string `yaml:"owner"`
	// EditCost is the HASH price of one article edit.
	EditCost uint64 `yaml:"edit_cost"`
	// MaxAirdrop caps a single airdrop; 0 means no cap.
	MaxAirdrop uint64 `yaml:"max_airdrop"`

	// EventDSN is the MySQL DSN of the durable event sink. Empty
	// disables persistence; the engine stays purely in-memory.
	EventDSN string `yaml:"event_dsn"`
	// FlushEverySec is the event flush interval in seconds.
	FlushEverySec int `yaml:"flush_every_sec"`

	// RateLimitRPS and RateLimitBurst bound the public API.
	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
	// ListCacheTTLSec is how long the article list response is cached.
	ListCacheTTLSec int `yaml:"list_cache_ttl_sec"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:            ":3333",
		DiagAddr:        ":9999",
		Owner:           "owner",
		EditCost:        10,
		MaxAirdrop:      0,
		EventDSN:        "",
		FlushEverySec:   10,
		RateLimitRPS:    50,
		RateLimitBurst:  100,
		ListCacheTTLSec: 5,
	}
}

// Load reads a YAML config file over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}
