// Package config provides configuration management for the pagerank-bench
// service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Pagerank  PagerankConfig  `mapstructure:"pagerank"`
	Graph     GraphConfig     `mapstructure:"graph"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Log       LogConfig       `mapstructure:"log"`
	Sources   []SourceConfig  `mapstructure:"sources"`
}

// PagerankConfig holds the default solver options applied by the CLI and
// scheduler when a request does not override them. Field names mirror
// pagerank.Options / model.RunOptions so a config section round-trips
// into a solve without translation.
type PagerankConfig struct {
	Damping       float64 `mapstructure:"damping"`
	Tolerance     float64 `mapstructure:"tolerance"`
	ToleranceNorm string  `mapstructure:"tolerance_norm"` // l1, l2, or linf
	MaxIterations int     `mapstructure:"max_iterations"`
	Repeat        int     `mapstructure:"repeat"`
	Workers       int     `mapstructure:"workers"`
	Variant       string  `mapstructure:"variant"` // basic, barrierfree, or monolithic
	Async         bool    `mapstructure:"async"`
	Dead          bool    `mapstructure:"dead"`
}

// GraphConfig holds graph-ingestion configuration.
type GraphConfig struct {
	DataDir       string `mapstructure:"data_dir"`
	DefaultFormat string `mapstructure:"default_format"` // mtx or temporal
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Type     string `mapstructure:"type"` // postgres or mysql
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Database string `mapstructure:"database"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	MaxConns int    `mapstructure:"max_conns"`
}

// StorageConfig holds object storage configuration.
type StorageConfig struct {
	Type      string `mapstructure:"type"` // cos or local
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	SecretID  string `mapstructure:"secret_id"`
	SecretKey string `mapstructure:"secret_key"`
	Domain    string `mapstructure:"domain"`     // e.g., "myqcloud.com"
	Scheme    string `mapstructure:"scheme"`     // e.g., "https" or "http"
	LocalPath string `mapstructure:"local_path"` // for local storage
}

// SchedulerConfig holds the sweep scheduler's configuration: how many
// concurrent solves it runs and how it paces picking up new grid points.
type SchedulerConfig struct {
	PollInterval  int `mapstructure:"poll_interval"` // in seconds
	WorkerCount   int `mapstructure:"worker_count"`
	PrioritySlots int `mapstructure:"priority_slots"`
	TaskBatchSize int `mapstructure:"task_batch_size"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"` // json or text
}

// SourceConfig configures one run source (database, kafka, or http) the
// scheduler aggregates pending runs from.
type SourceConfig struct {
	Type    string                 `mapstructure:"type"`
	Name    string                 `mapstructure:"name"`
	Enabled bool                   `mapstructure:"enabled"`
	Options map[string]interface{} `mapstructure:"options"`
}

// Load reads configuration from the specified file path.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set default values
	setDefaults(v)

	// Determine config file path
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		// Look for config in standard locations
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/pagerank-bench")
	}

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		// Check if it's a "file not found" error (either viper's type or os error)
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found, use defaults
			fmt.Println("Config file not found, using defaults")
		} else if os.IsNotExist(err) {
			// File specified but doesn't exist, use defaults
			fmt.Printf("Config file %s not found, using defaults\n", configPath)
		} else {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Allow environment variables to override config
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadFromReader loads configuration from an io.Reader (useful for testing).
func LoadFromReader(configType string, content []byte) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType(configType)
	if err := v.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Pagerank defaults, matching pagerank.DefaultOptions.
	v.SetDefault("pagerank.damping", 0.85)
	v.SetDefault("pagerank.tolerance", 1e-10)
	v.SetDefault("pagerank.tolerance_norm", "linf")
	v.SetDefault("pagerank.max_iterations", 500)
	v.SetDefault("pagerank.repeat", 1)
	v.SetDefault("pagerank.workers", 1)
	v.SetDefault("pagerank.variant", "basic")
	v.SetDefault("pagerank.async", false)
	v.SetDefault("pagerank.dead", false)

	// Graph defaults
	v.SetDefault("graph.data_dir", "./data")
	v.SetDefault("graph.default_format", "mtx")

	// Database defaults
	v.SetDefault("database.type", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.max_conns", 10)

	// Storage defaults
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./storage")

	// Scheduler defaults
	v.SetDefault("scheduler.poll_interval", 2)
	v.SetDefault("scheduler.worker_count", 5)
	v.SetDefault("scheduler.priority_slots", 2)
	v.SetDefault("scheduler.task_batch_size", 10)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.output_path", "./logs")
	v.SetDefault("log.format", "text")
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	// Validate database config
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Type != "postgres" && c.Database.Type != "mysql" {
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}

	// Storage config validation is delegated to storage package

	// Validate scheduler config
	if c.Scheduler.WorkerCount < 1 {
		return fmt.Errorf("worker count must be at least 1")
	}

	// Validate pagerank defaults
	if c.Pagerank.Damping <= 0 || c.Pagerank.Damping >= 1 {
		return fmt.Errorf("pagerank damping must be in (0, 1)")
	}
	if c.Pagerank.Tolerance <= 0 {
		return fmt.Errorf("pagerank tolerance must be positive")
	}
	if c.Pagerank.MaxIterations <= 0 {
		return fmt.Errorf("pagerank max_iterations must be positive")
	}

	return nil
}

// EnsureDataDir creates the graph data directory if it doesn't exist.
func (c *Config) EnsureDataDir() error {
	if c.Graph.DataDir == "" {
		return nil
	}
	return os.MkdirAll(c.Graph.DataDir, 0755)
}

// GetGraphPath joins the configured graph data directory with a graph
// file name.
func (c *Config) GetGraphPath(name string) string {
	return filepath.Join(c.Graph.DataDir, name)
}
