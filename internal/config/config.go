// Package config loads rentbook.yml plus environment overrides.
//
// Precedence: built-in defaults, then the config file, then environment
// variables (RENTBOOK_REDIS_ADDR, RENTBOOK_BLOB_DB, RENTBOOK_NAMESPACE).
// A .env file in the working directory is honoured when present.
package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks for the config file when no path is given.
const DefaultPath = "rentbook.yml"

// RedisConfig holds the record-store connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
}

// Config represents the top-level rentbook.yml configuration.
type Config struct {
	// Namespace isolates one data set from others sharing the same Redis
	// server.
	Namespace string      `yaml:"namespace"`
	Redis     RedisConfig `yaml:"redis"`
	// BlobDB is the path to the SQLite database holding uploaded files.
	BlobDB string `yaml:"blob_db"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Namespace: "default",
		Redis:     RedisConfig{Addr: "localhost:6379"},
		BlobDB:    "rentbook-files.db",
	}
}

// Validate performs strict validation on the configuration.
func (c *Config) Validate() error {
	if c.Namespace == "" {
		return fmt.Errorf("namespace is required")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("redis.db must be >= 0, got %d", c.Redis.DB)
	}
	if c.BlobDB == "" {
		return fmt.Errorf("blob_db is required")
	}
	return nil
}

// Load reads and validates the configuration. A missing file is not an error
// - defaults apply - but an unreadable or invalid file is.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath
	}

	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file: defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnv layers environment variables over the loaded config. A .env file
// is loaded first if one exists; a missing .env is fine.
func applyEnv(c *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("RENTBOOK_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("RENTBOOK_REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("RENTBOOK_BLOB_DB"); v != "" {
		c.BlobDB = v
	}
	if v := os.Getenv("RENTBOOK_NAMESPACE"); v != "" {
		c.Namespace = v
	}
}
