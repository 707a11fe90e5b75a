package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Loader   LoaderConfig   `yaml:"loader"`
}

// DatabaseConfig contains database-related settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DB_PATH"` // SQLite database file path
}

// HTTPConfig contains HTTP server settings.
type HTTPConfig struct {
	Address           string `yaml:"address" env:"HTTP_ADDRESS"`
	UploadMaxBytes    int64  `yaml:"upload_max_bytes" env:"UPLOAD_MAX_BYTES"`
	CORSAllowedOrigin string `yaml:"cors_allowed_origin" env:"CORS_ALLOWED_ORIGIN"`
	TempDir           string `yaml:"temp_dir" env:"UPLOAD_TEMP_DIR"`
}

// GRPCConfig contains gRPC server settings. An empty address disables it.
type GRPCConfig struct {
	Address string `yaml:"address" env:"GRPC_ADDRESS"`
}

// LoaderConfig tunes CSV ingestion.
type LoaderConfig struct {
	BatchSize        int           `yaml:"batch_size" env:"LOADER_BATCH_SIZE"`
	StatementTimeout time.Duration `yaml:"statement_timeout" env:"LOADER_STATEMENT_TIMEOUT"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Database: DatabaseConfig{Path: "database.db"},
		HTTP: HTTPConfig{
			Address:           ":5000",
			UploadMaxBytes:    32 << 20,
			CORSAllowedOrigin: "*",
		},
		Loader: LoaderConfig{
			BatchSize:        1000,
			StatementTimeout: 30 * time.Second,
		},
	}
}

// Load builds the configuration from defaults, then the optional YAML file at
// path, then environment variables (a .env file in the working directory is
// read first if present). Later sources win.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read .env: %w", err)
	}

	cfg := Defaults()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail at first use.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return errors.New("database path must not be empty")
	}
	if c.HTTP.Address == "" {
		return errors.New("HTTP address must not be empty")
	}
	if c.Loader.BatchSize <= 0 {
		return fmt.Errorf("loader batch size must be positive, got %d", c.Loader.BatchSize)
	}
	if c.Loader.StatementTimeout <= 0 {
		return fmt.Errorf("loader statement timeout must be positive, got %s", c.Loader.StatementTimeout)
	}
	if c.HTTP.UploadMaxBytes <= 0 {
		return fmt.Errorf("upload max bytes must be positive, got %d", c.HTTP.UploadMaxBytes)
	}
	return nil
}

// String returns a one-line summary for startup logs.
func (c *Config) String() string {
	grpcAddr := c.GRPC.Address
	if grpcAddr == "" {
		grpcAddr = "disabled"
	}
	return fmt.Sprintf("Config{DB: %s, HTTP: %s, gRPC: %s, BatchSize: %d}",
		c.Database.Path, c.HTTP.Address, grpcAddr, c.Loader.BatchSize)
}
