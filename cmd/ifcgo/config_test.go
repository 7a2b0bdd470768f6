package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("IFCGO_TEST_SECRET", "s3cr3t")
	path := filepath.Join(t.TempDir(), "ifcgo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
log_level: debug
log_format: json
checkpoint_interval: 500
cache:
  backend: minio
  endpoint: localhost:9000
  bucket: models
  access_key: minio
  secret_key: ${IFCGO_TEST_SECRET}
  compression: lz4
parse:
  jobs: 4
  memory_limit_mb: 512
`), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 500, cfg.CheckpointInterval)
	assert.Equal(t, "minio", cfg.Cache.Backend)
	assert.Equal(t, "s3cr3t", cfg.Cache.SecretKey)
	assert.Equal(t, "lz4", cfg.Cache.Compression)
	assert.Equal(t, 4, cfg.Parse.Jobs)
	assert.Equal(t, int64(512), cfg.Parse.MemoryLimitMB)
	// Unset keys keep their defaults.
	assert.Equal(t, ".ifcgo-cache", cfg.Cache.Dir)
	assert.Len(t, cfg.WriteOptions(), 2)
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
	assert.NotNil(t, cfg.Logger())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
		{"log format", func(c *Config) { c.LogFormat = "xml" }},
		{"backend", func(c *Config) { c.Cache.Backend = "ftp" }},
		{"compression", func(c *Config) { c.Cache.Compression = "gzip" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSubstituteEnvVars(t *testing.T) {
	t.Setenv("IFCGO_TEST_A", "x")
	assert.Equal(t, "x-y", substituteEnvVars("${IFCGO_TEST_A}-y"))
	assert.Equal(t, "-", substituteEnvVars("${IFCGO_TEST_UNSET}-"))
	assert.Equal(t, "${open", substituteEnvVars("${open"))
}
