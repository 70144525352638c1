package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/gadvisor/internal/logging"
)

func validConfig() Config {
	return Config{
		Source:  SourceCSV,
		Input:   "instances.csv",
		Workers: 5,
		Pricing: PricingConfig{
			MaxAttempts:  3,
			RetryBackoff: 2 * time.Second,
			PagePause:    500 * time.Millisecond,
			PageSize:     100,
		},
		PriceStore: PriceStoreConfig{TTL: 24 * time.Hour},
		Log:        logging.DefaultConfig(),
	}
}

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("input", "instances.csv")

	cfg, err := Load(v, "")
	require.NoError(t, err)

	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, 5, cfg.Workers)
	assert.Equal(t, 3, cfg.Pricing.MaxAttempts)
	assert.Equal(t, 2*time.Second, cfg.Pricing.RetryBackoff)
	assert.Equal(t, 500*time.Millisecond, cfg.Pricing.PagePause)
	assert.Equal(t, int32(100), cfg.Pricing.PageSize)
	assert.Equal(t, 24*time.Hour, cfg.PriceStore.TTL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_ConfigFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gadvisor.yaml")
	content := `
source: csv
input: fleet.csv
output: report.md
regions: [us-east-1, ap-northeast-2]
workers: 3
pricing:
  max-attempts: 5
  retry-backoff: 1s
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("GADVISOR_WORKERS", "8")

	cfg, err := Load(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "fleet.csv", cfg.Input)
	assert.Equal(t, "report.md", cfg.Output)
	assert.Equal(t, []string{"us-east-1", "ap-northeast-2"}, cfg.Regions)
	assert.Equal(t, 8, cfg.Workers, "env should override the config file")
	assert.Equal(t, 5, cfg.Pricing.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Pricing.RetryBackoff)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "ec2 source needs no input", mutate: func(c *Config) { c.Source = SourceEC2; c.Input = "" }},
		{name: "missing input", mutate: func(c *Config) { c.Input = "" }, wantErr: "input file is required"},
		{name: "unknown source", mutate: func(c *Config) { c.Source = "xlsx" }, wantErr: "invalid source"},
		{name: "zero workers", mutate: func(c *Config) { c.Workers = 0 }, wantErr: "workers must be at least 1"},
		{name: "zero attempts", mutate: func(c *Config) { c.Pricing.MaxAttempts = 0 }, wantErr: "max attempts"},
		{name: "negative backoff", mutate: func(c *Config) { c.Pricing.RetryBackoff = -time.Second }, wantErr: "retry backoff"},
		{name: "page size too large", mutate: func(c *Config) { c.Pricing.PageSize = 101 }, wantErr: "page size"},
		{name: "unsupported output", mutate: func(c *Config) { c.Output = "report.xlsx" }, wantErr: "unsupported report format"},
		{name: "s3 output", mutate: func(c *Config) { c.Output = "s3://bucket/reports/fleet.csv" }},
		{name: "cloudwatch region", mutate: func(c *Config) { c.CloudWatch = CloudWatchConfig{Namespace: "Gadvisor", Region: "eu-west-1"} }},
		{name: "cloudwatch region outside pricing table", mutate: func(c *Config) { c.CloudWatch.Region = "il-central-1" }},
		{name: "malformed cloudwatch region", mutate: func(c *Config) { c.CloudWatch.Region = "Frankfurt" }, wantErr: "invalid cloudwatch region"},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: "invalid log level"},
		{name: "bad log format", mutate: func(c *Config) { c.Log.Format = "logfmt" }, wantErr: "invalid log format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSplitRegions(t *testing.T) {
	cfg := validConfig()

	known, unknown := cfg.SplitRegions()
	assert.Len(t, known, 22)
	assert.Empty(t, unknown)

	cfg.Regions = []string{"us-east-1", " us-east-1", "mars-north-1", "", "eu-west-1"}
	known, unknown = cfg.SplitRegions()
	assert.Equal(t, []string{"us-east-1", "eu-west-1"}, known)
	assert.Equal(t, []string{"mars-north-1"}, unknown)
}
