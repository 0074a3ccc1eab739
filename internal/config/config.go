// Package config handles service configuration.
//
// Values resolve in three layers: built-in defaults, then an optional YAML
// config file, then PAPERSCOPE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "PAPERSCOPE"

const (
	// ConfigDir is the directory name under XDG_CONFIG_HOME.
	ConfigDir = "paperscope"
	// ConfigFile is the config file name.
	ConfigFile = "config.yml"

	// IndexFile is the vector index snapshot file name under DataDir.
	IndexFile = "index.gob"
	// SQLiteFile is the SQLite store file name under DataDir.
	SQLiteFile = "papers.db"
	// BoltFile is the Bolt store file name under DataDir.
	BoltFile = "papers.bolt"
)

// Store backends.
const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

// Config validation errors.
var (
	ErrInvalidListenAddr   = errors.New("listen_addr cannot be empty")
	ErrInvalidDimensions   = errors.New("embed_dimensions must be positive")
	ErrInvalidMaxResults   = errors.New("arxiv_max_results must be positive")
	ErrInvalidDataDir      = errors.New("data_dir cannot be empty")
	ErrInvalidStoreBackend = errors.New("store_backend must be 'sqlite' or 'bolt'")
	ErrInvalidConcurrency  = errors.New("embed_concurrency must be positive")
	ErrInvalidTimeout      = errors.New("request_timeout must be positive")
)

// Config holds the full service configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr" envconfig:"LISTEN_ADDR"`

	OllamaURL       string `yaml:"ollama_url" envconfig:"OLLAMA_URL"`
	EmbedModel      string `yaml:"embed_model" envconfig:"EMBED_MODEL"`
	EmbedDimensions int    `yaml:"embed_dimensions" envconfig:"EMBED_DIMENSIONS"`

	ArxivURL        string `yaml:"arxiv_url" envconfig:"ARXIV_URL"`
	ArxivCategory   string `yaml:"arxiv_category" envconfig:"ARXIV_CATEGORY"`
	ArxivMaxResults int    `yaml:"arxiv_max_results" envconfig:"ARXIV_MAX_RESULTS"`

	DataDir      string `yaml:"data_dir" envconfig:"DATA_DIR"`
	StoreBackend string `yaml:"store_backend" envconfig:"STORE_BACKEND"`

	CacheCapacity    int           `yaml:"cache_capacity" envconfig:"CACHE_CAPACITY"`
	EmbedConcurrency int           `yaml:"embed_concurrency" envconfig:"EMBED_CONCURRENCY"`
	RequestTimeout   time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT"`
}

// Default returns a Config with default values.
func Default() Config {
	return Config{
		ListenAddr:       "0.0.0.0:8004",
		OllamaURL:        "http://localhost:11434",
		EmbedModel:       "all-minilm:l6-v2",
		EmbedDimensions:  384,
		ArxivURL:         "http://export.arxiv.org/api/query",
		ArxivCategory:    "physics*",
		ArxivMaxResults:  10,
		DataDir:          "./data",
		StoreBackend:     BackendSQLite,
		CacheCapacity:    1024,
		EmbedConcurrency: 4,
		RequestTimeout:   60 * time.Second,
	}
}

// DefaultPath returns the default config file path
// (~/.config/paperscope/config.yml, honoring XDG_CONFIG_HOME).
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, ConfigDir, ConfigFile)
}

// Load resolves the configuration. A missing config file is not an error;
// environment variables override file values either way.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("processing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return ErrInvalidListenAddr
	}
	if c.EmbedDimensions <= 0 {
		return ErrInvalidDimensions
	}
	if c.ArxivMaxResults <= 0 {
		return ErrInvalidMaxResults
	}
	if c.DataDir == "" {
		return ErrInvalidDataDir
	}
	if c.StoreBackend != BackendSQLite && c.StoreBackend != BackendBolt {
		return ErrInvalidStoreBackend
	}
	if c.EmbedConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// IndexPath returns the vector index snapshot path under DataDir.
func (c *Config) IndexPath() string {
	return filepath.Join(c.DataDir, IndexFile)
}

// StorePath returns the metadata store path for the configured backend.
func (c *Config) StorePath() string {
	if c.StoreBackend == BackendBolt {
		return filepath.Join(c.DataDir, BoltFile)
	}
	return filepath.Join(c.DataDir, SQLiteFile)
}
