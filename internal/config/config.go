// Package config loads gadvisor settings from flags, GADVISOR_* environment
// variables and an optional YAML config file, in that order of precedence.
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/younsl/gadvisor/internal/logging"
	"github.com/younsl/gadvisor/pkg/utils"
)

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "GADVISOR"

const (
	// SourceCSV reads instance records from an exported CSV file
	SourceCSV = "csv"

	// SourceEC2 reads running instances with DescribeInstances
	SourceEC2 = "ec2"
)

// Config represents the complete run configuration.
type Config struct {
	// Source selects where instance records come from: csv or ec2
	Source string `mapstructure:"source"`

	// Input is the CSV file path when Source is csv
	Input string `mapstructure:"input"`

	// Output is the report destination. The file extension selects the
	// format; s3://bucket/key uploads the report instead.
	// Empty prints tables to stdout only.
	Output string `mapstructure:"output"`

	// Regions limits the price fetch and the EC2 scan.
	// Empty means every supported region for pricing.
	Regions []string `mapstructure:"regions"`

	// Workers is the number of regions fetched in parallel
	Workers int `mapstructure:"workers"`

	Pricing PricingConfig `mapstructure:"pricing"`

	PriceStore PriceStoreConfig `mapstructure:"price-store"`

	// Pushgateway is the Prometheus Pushgateway URL; empty disables pushing
	Pushgateway string `mapstructure:"pushgateway"`

	CloudWatch CloudWatchConfig `mapstructure:"cloudwatch"`

	Log logging.Config `mapstructure:"log"`
}

// PricingConfig tunes the Pricing API fetch loop.
type PricingConfig struct {
	// MaxAttempts bounds the failed page fetches of a region, counted across
	// all of its pages, before the region is abandoned
	MaxAttempts int `mapstructure:"max-attempts"`

	// RetryBackoff is the fixed pause between attempts
	RetryBackoff time.Duration `mapstructure:"retry-backoff"`

	// PagePause is the pause between successive pages
	PagePause time.Duration `mapstructure:"page-pause"`

	// PageSize is MaxResults for GetProducts (1-100)
	PageSize int32 `mapstructure:"page-size"`
}

// PriceStoreConfig configures the optional SQLite price snapshot.
type PriceStoreConfig struct {
	// Path is the SQLite file; empty disables the store
	Path string `mapstructure:"path"`

	// TTL is how long stored prices are reused
	TTL time.Duration `mapstructure:"ttl"`
}

// CloudWatchConfig configures the run summary published as custom metrics.
type CloudWatchConfig struct {
	// Namespace is the CloudWatch metric namespace; empty disables publishing
	Namespace string `mapstructure:"namespace"`

	// Region receives the metrics. Empty uses the default region.
	Region string `mapstructure:"region"`
}

// reportFormats are the output extensions WriteReport understands
var reportFormats = map[string]bool{
	".csv":  true,
	".md":   true,
	".html": true,
	".json": true,
	".yaml": true,
	".yml":  true,
	".txt":  true,
}

// SetDefaults registers default values on v
func SetDefaults(v *viper.Viper) {
	defaults := logging.DefaultConfig()

	v.SetDefault("source", SourceCSV)
	v.SetDefault("workers", 5)
	v.SetDefault("pricing.max-attempts", 3)
	v.SetDefault("pricing.retry-backoff", "2s")
	v.SetDefault("pricing.page-pause", "500ms")
	v.SetDefault("pricing.page-size", 100)
	v.SetDefault("price-store.ttl", "24h")
	v.SetDefault("log.level", defaults.Level)
	v.SetDefault("log.format", defaults.Format)
	v.SetDefault("log.output", defaults.Output)
}

// Load reads configuration into a Config and validates it.
//
// Environment variables override the config file by upper-casing the key and
// replacing "." and "-" with "_", for example:
//   - GADVISOR_WORKERS overrides workers
//   - GADVISOR_PRICING_MAX_ATTEMPTS overrides pricing.max-attempts
//   - GADVISOR_LOG_LEVEL overrides log.level
func Load(v *viper.Viper, path string) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration is valid and returns an error if not.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceCSV:
		if c.Input == "" {
			return fmt.Errorf("input file is required when source is %q", SourceCSV)
		}
	case SourceEC2:
	default:
		return fmt.Errorf("invalid source %q, must be one of: %s, %s", c.Source, SourceCSV, SourceEC2)
	}

	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	if c.Pricing.MaxAttempts < 1 {
		return fmt.Errorf("pricing max attempts must be at least 1, got %d", c.Pricing.MaxAttempts)
	}
	if c.Pricing.RetryBackoff < 0 {
		return fmt.Errorf("pricing retry backoff must not be negative")
	}
	if c.Pricing.PagePause < 0 {
		return fmt.Errorf("pricing page pause must not be negative")
	}
	if c.Pricing.PageSize < 1 || c.Pricing.PageSize > 100 {
		return fmt.Errorf("pricing page size must be between 1 and 100, got %d", c.Pricing.PageSize)
	}

	if c.PriceStore.TTL < 0 {
		return fmt.Errorf("price store ttl must not be negative")
	}

	if c.CloudWatch.Region != "" && !utils.LooksLikeRegion(c.CloudWatch.Region) {
		return fmt.Errorf("invalid cloudwatch region %q", c.CloudWatch.Region)
	}

	if c.Output != "" {
		if _, err := c.ReportFormat(); err != nil {
			return err
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level %q, must be one of: debug, info, warn, error", c.Log.Level)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log format %q, must be one of: console, json", c.Log.Format)
	}

	return nil
}

// ReportFormat returns the lower-cased extension of Output, e.g. ".csv"
func (c *Config) ReportFormat() (string, error) {
	ext := strings.ToLower(filepath.Ext(c.Output))
	if !reportFormats[ext] {
		return "", fmt.Errorf("unsupported report format %q for output %s", ext, c.Output)
	}
	return ext, nil
}

// SplitRegions separates the configured regions into supported and unknown ones.
// With no regions configured every supported region is returned.
func (c *Config) SplitRegions() (known, unknown []string) {
	if len(c.Regions) == 0 {
		return utils.KnownRegions(), nil
	}

	seen := make(map[string]bool)
	for _, region := range c.Regions {
		region = strings.TrimSpace(region)
		if region == "" || seen[region] {
			continue
		}
		seen[region] = true

		if utils.IsValidRegion(region) {
			known = append(known, region)
		} else {
			unknown = append(unknown, region)
		}
	}
	return known, unknown
}
