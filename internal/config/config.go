// Package config loads generator settings from YAML with environment fallbacks.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// EnvConfigPath names the YAML file to read when no path is given.
	EnvConfigPath = "CHUNKFORGE_CONFIG"
	// EnvMaxChunks overrides max_concurrent_chunks when the file leaves it unset.
	EnvMaxChunks = "CHUNKFORGE_MAX_CHUNKS"
	// EnvSeed overrides seed when the file leaves it unset.
	EnvSeed = "CHUNKFORGE_SEED"

	defaultMaxConcurrentChunks = 10
	defaultChunkScale          = 100.0
)

// Config holds generator settings.
type Config struct {
	// Seed for chain generation. A seed of 0 means a random seed will be generated.
	Seed int64 `yaml:"seed"`
	// MaxConcurrentChunks is how many chunks the runtime can keep loaded;
	// two slots are reserved for entrance and exit.
	MaxConcurrentChunks int     `yaml:"max_concurrent_chunks"`
	ChunkScale          float64 `yaml:"chunk_scale"`
	Output              string  `yaml:"output"`
	LogLevel            string  `yaml:"log_level"`
	LogFormat           string  `yaml:"log_format"`
	Strict              bool    `yaml:"strict"`
	SplitSubScenes      bool    `yaml:"split_subscenes"`
	AsyncLoad           bool    `yaml:"async_load"`
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		MaxConcurrentChunks: defaultMaxConcurrentChunks,
		ChunkScale:          defaultChunkScale,
		Output:              "text",
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// Load reads the YAML file at path. If path is empty it falls back to the
// CHUNKFORGE_CONFIG variable, and with neither set returns defaults.
// Fields the file leaves unset are filled from the environment, then defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	cfg.applyFallbacks()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFallbacks fills unset fields with priority: file -> env -> default.
func (c *Config) applyFallbacks() {
	def := Default()

	if c.MaxConcurrentChunks <= 0 {
		c.MaxConcurrentChunks = intFromEnv(EnvMaxChunks, def.MaxConcurrentChunks)
	}
	if c.Seed == 0 {
		c.Seed = int64(intFromEnv(EnvSeed, 0))
	}
	if c.ChunkScale <= 0 {
		c.ChunkScale = def.ChunkScale
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.LogLevel == "" {
		c.LogLevel = def.LogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = def.LogFormat
	}
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	switch c.Output {
	case "text", "json":
	default:
		return fmt.Errorf("invalid output %q: must be 'text' or 'json'", c.Output)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q: must be 'text' or 'json'", c.LogFormat)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be 'debug', 'info', 'warn', or 'error'", c.LogLevel)
	}
	if c.MaxConcurrentChunks < 2 {
		return fmt.Errorf("invalid max_concurrent_chunks %d: need room for entrance and exit", c.MaxConcurrentChunks)
	}
	return nil
}

// ResolveSeed returns the configured seed, or a clock-based one when unset.
func (c *Config) ResolveSeed() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}

func intFromEnv(name string, fallback int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
