package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 5, cfg.Analysis.SalienceWindow)
	assert.Equal(t, 2, cfg.Analysis.FrequencyThreshold)
	assert.Equal(t, 50, cfg.Analysis.NeutralScore)
	assert.Equal(t, WeightsConfig{Primary: 3, Secondary: 1, Hard: 2, Soft: 1}, cfg.Analysis.Weights)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, "local", cfg.Queue.Driver)
	require.NotNil(t, cfg.AI.Rewrite.Timeout)
	assert.Equal(t, 90*time.Second, *cfg.AI.Rewrite.Timeout)
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:    "missing port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "server port is required",
		},
		{
			name:    "unsupported default format",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: "invalid default format",
		},
		{
			name:    "secondary outweighs primary",
			mutate:  func(c *Config) { c.Analysis.Weights.Secondary = 5 },
			wantErr: "primary weight",
		},
		{
			name:    "neutral score out of range",
			mutate:  func(c *Config) { c.Analysis.NeutralScore = 120 },
			wantErr: "neutralScore",
		},
		{
			name:    "unknown store",
			mutate:  func(c *Config) { c.Store.Driver = "sqlite" },
			wantErr: "invalid store driver",
		},
		{
			name:    "asynq without redis",
			mutate:  func(c *Config) { c.Queue.Driver = "asynq" },
			wantErr: "requires the redis store",
		},
		{
			name:    "minio without bucket",
			mutate:  func(c *Config) { c.Blob.Driver = "minio"; c.Blob.MinIO.Bucket = "" },
			wantErr: "blob.minio.bucket",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
app:
  logLevel: debug
analysis:
  salienceWindow: 8
  frequencyThreshold: 3
store:
  driver: redis
  redis:
    addr: redis:6379
queue:
  driver: asynq
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfigFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, 8, cfg.Analysis.SalienceWindow)
	assert.Equal(t, 3, cfg.Analysis.FrequencyThreshold)
	assert.Equal(t, "redis:6379", cfg.Store.Redis.Addr)
	assert.Equal(t, "asynq", cfg.Queue.Driver)
	assert.True(t, cfg.Observability.ConsoleOutput)
}

func TestApplyServerAPIKeyFallbacks(t *testing.T) {
	t.Setenv(EnvPrefix+"_SERVER_APIKEYS", " alpha, beta ,,")

	cfg := &Config{}
	cfg.applyServerAPIKeyFallbacks()

	assert.Equal(t, []string{"alpha", "beta"}, cfg.Server.APIKeys)
}
