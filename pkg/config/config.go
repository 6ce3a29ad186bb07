package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/conr2d/restaking/pkg/core"
	"github.com/conr2d/restaking/pkg/signer"
)

type ProgramConfig struct {
	// ID is the base58 program identity record addresses derive from
	ID string `yaml:"id"`
}

type ChainConfig struct {
	// RPC endpoint used as slot source; empty selects manual slots
	RPC string `yaml:"rpc"`
}

type DatabaseConfig struct {
	// Enabled selects the postgres store; false keeps state in memory
	Enabled bool `yaml:"enabled"`
	// CacheTTL is the read-through cache lifetime, e.g. "1m"
	CacheTTL string `yaml:"cache_ttl"`
}

type HTTPConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type MetricConfig struct {
	Port int `yaml:"port"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Config struct {
	// Program configuration
	Program ProgramConfig `yaml:"program"`

	// Chain configuration (slot source)
	Chain ChainConfig `yaml:"chain"`

	// Signer configuration
	Signer signer.Config `yaml:"signer"`

	// Database configuration
	Database DatabaseConfig `yaml:"database"`

	// HTTP configuration
	HTTP HTTPConfig `yaml:"http"`

	// Metrics configuration
	Metric MetricConfig `yaml:"metric"`

	// Logging configuration
	Logging LogConfig `yaml:"logging"`
}

// LoadConfig loads the configuration from the given file path.
// Environment variable references in the file are expanded before
// parsing, so secrets can stay out of the file itself.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	content := os.ExpandEnv(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if _, err := cfg.ProgramID(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ProgramID parses the configured program identity.
func (c *Config) ProgramID() (core.Pubkey, error) {
	id, err := core.PubkeyFromBase58(c.Program.ID)
	if err != nil {
		return core.Pubkey{}, fmt.Errorf("invalid program id %q: %w", c.Program.ID, err)
	}
	return id, nil
}

func DefaultConfig() *Config {
	return &Config{
		Program: ProgramConfig{
			// All-one program identity, usable for local development
			ID: core.Pubkey{31: 1}.String(),
		},
		Chain: ChainConfig{
			RPC: "",
		},
		Database: DatabaseConfig{
			Enabled:  false,
			CacheTTL: "1m",
		},
		HTTP: HTTPConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Metric: MetricConfig{
			Port: 4014,
		},
		Logging: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
