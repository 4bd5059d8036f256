package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"finplan/internal/services/projection"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `yaml:"listen_addr"`
	Debug      bool   `yaml:"debug"`

	// Scenario files live here
	DataDirectory string `yaml:"data_directory"`

	// Result cache. An empty RedisAddr keeps the cache in memory.
	RedisAddr string        `yaml:"redis_addr"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`

	// Goal solver stops once the bracket is narrower than this
	SolverTolerance float64 `yaml:"solver_tolerance"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:      ":8080",
		DataDirectory:   filepath.Join(wd, "data"),
		CacheTTL:        5 * time.Minute,
		SolverTolerance: projection.DefaultSolverTolerance,
	}
}

// Load builds the configuration from defaults, an optional YAML file named
// by FINPLAN_CONFIG and FINPLAN_* environment variables, in that order.
func Load() *Config {
	cfg := DefaultConfig()

	if path := os.Getenv("FINPLAN_CONFIG"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			log.Printf("Warning: could not read config file %s: %v", path, err)
		}
	}
	cfg.applyEnv()

	if err := os.MkdirAll(cfg.DataDirectory, 0755); err != nil {
		log.Printf("Warning: could not create directory %s: %v", cfg.DataDirectory, err)
	}
	return cfg
}

// LoadFile overlays the settings present in a YAML file
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if addr := os.Getenv("FINPLAN_LISTEN_ADDR"); addr != "" {
		c.ListenAddr = addr
	}
	if debug := os.Getenv("FINPLAN_DEBUG"); debug == "true" || debug == "1" {
		c.Debug = true
	}
	if dataDir := os.Getenv("FINPLAN_DATA_DIR"); dataDir != "" {
		c.DataDirectory = dataDir
	}
	if redisAddr := os.Getenv("FINPLAN_REDIS_ADDR"); redisAddr != "" {
		c.RedisAddr = redisAddr
	}
	if ttl := os.Getenv("FINPLAN_CACHE_TTL"); ttl != "" {
		if d, err := time.ParseDuration(ttl); err == nil {
			c.CacheTTL = d
		} else {
			log.Printf("Warning: ignoring FINPLAN_CACHE_TTL=%q: %v", ttl, err)
		}
	}
	if tol := os.Getenv("FINPLAN_SOLVER_TOLERANCE"); tol != "" {
		if v, err := strconv.ParseFloat(tol, 64); err == nil && v > 0 {
			c.SolverTolerance = v
		} else {
			log.Printf("Warning: ignoring FINPLAN_SOLVER_TOLERANCE=%q", tol)
		}
	}
}
