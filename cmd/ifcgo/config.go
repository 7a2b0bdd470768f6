package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/ifcgo"
	"github.com/hupe1980/ifcgo/cache"
)

// Config is the content of an ifcgo.yaml file.
type Config struct {
	LogLevel           string      `yaml:"log_level"`
	LogFormat          string      `yaml:"log_format"`
	CheckpointInterval int         `yaml:"checkpoint_interval"`
	Cache              CacheConfig `yaml:"cache"`
	Parse              ParseConfig `yaml:"parse"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is one of local, memory, s3 or minio.
	Backend       string `yaml:"backend"`
	Dir           string `yaml:"dir"`
	Bucket        string `yaml:"bucket"`
	Prefix        string `yaml:"prefix"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	UseSSL        bool   `yaml:"use_ssl"`
	Compression   string `yaml:"compression"`
	IncludeSource bool   `yaml:"include_source"`
	// MemoryMB enables an in-memory read cache in front of the backend.
	MemoryMB int64 `yaml:"memory_mb"`
	// IOLimitMBPerSec throttles cache writes.
	IOLimitMBPerSec int64 `yaml:"io_limit_mb_per_sec"`
}

// ParseConfig bounds concurrent parses.
type ParseConfig struct {
	Jobs          int   `yaml:"jobs"`
	MemoryLimitMB int64 `yaml:"memory_limit_mb"`
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:  "warn",
		LogFormat: "text",
		Cache: CacheConfig{
			Backend:     "local",
			Dir:         ".ifcgo-cache",
			Compression: "zstd",
		},
	}
}

// LoadConfig reads a YAML config file on top of the defaults. ${VAR}
// references are replaced by environment variables.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal([]byte(substituteEnvVars(string(data))), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerated settings.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log_format %q", c.LogFormat)
	}
	switch c.Cache.Backend {
	case "local", "memory", "s3", "minio":
	default:
		return fmt.Errorf("invalid cache backend %q", c.Cache.Backend)
	}
	if _, err := cache.ParseCompression(c.Cache.Compression); err != nil {
		return err
	}
	return nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
func substituteEnvVars(content string) string {
	for {
		start := strings.Index(content, "${")
		if start == -1 {
			return content
		}
		end := strings.Index(content[start:], "}")
		if end == -1 {
			return content
		}
		end += start
		content = content[:start] + os.Getenv(content[start+2:end]) + content[end+1:]
	}
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q", s)
	}
	return level, nil
}

// Logger builds the logger described by the config.
func (c *Config) Logger() *ifcgo.Logger {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		level = slog.LevelWarn
	}
	if c.LogFormat == "json" {
		return ifcgo.NewJSONLogger(level)
	}
	return ifcgo.NewTextLogger(level)
}

// ParseOptions returns the parse options described by the config.
func (c *Config) ParseOptions() []ifcgo.Option {
	return []ifcgo.Option{
		ifcgo.WithLogger(c.Logger()),
		ifcgo.WithCheckpointInterval(c.CheckpointInterval),
		ifcgo.WithParseLimits(c.Parse.Jobs, c.Parse.MemoryLimitMB<<20),
	}
}

// WriteOptions returns the cache write options described by the config.
func (c *Config) WriteOptions() []cache.WriteOption {
	compression, err := cache.ParseCompression(c.Cache.Compression)
	if err != nil {
		compression = cache.CompressionZstd
	}
	return []cache.WriteOption{
		cache.WithCompression(compression),
		cache.WithSource(c.Cache.IncludeSource),
	}
}
