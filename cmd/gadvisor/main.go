package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/younsl/gadvisor/internal/config"
	"github.com/younsl/gadvisor/internal/logging"
	"github.com/younsl/gadvisor/internal/version"
	"github.com/younsl/gadvisor/pkg/store"
	"github.com/younsl/gadvisor/pkg/utils"
)

var (
	configFile  string
	showVersion bool
)

// flagKeys maps command line flags to their configuration keys
var flagKeys = map[string]string{
	"input":                "input",
	"source":               "source",
	"output":               "output",
	"regions":              "regions",
	"workers":              "workers",
	"max-attempts":         "pricing.max-attempts",
	"retry-backoff":        "pricing.retry-backoff",
	"page-pause":           "pricing.page-pause",
	"page-size":            "pricing.page-size",
	"price-store":          "price-store.path",
	"price-store-ttl":      "price-store.ttl",
	"pushgateway":          "pushgateway",
	"cloudwatch-namespace": "cloudwatch.namespace",
	"cloudwatch-region":    "cloudwatch.region",
	"log-level":            "log.level",
	"log-format":           "log.format",
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gadvisor",
		Short: "CLI tool to find EC2 instances that can move to Graviton",
		Long: `gadvisor reads an EC2 instance inventory, fetches on-demand Linux
prices from the AWS Pricing API and reports which instances can migrate
to Graviton (arm64) instance types and how much each move saves.`,
		Example: `  gadvisor -i instances.csv -o report.csv
  gadvisor --source ec2 -r us-east-1,ap-northeast-2 -o s3://reports/graviton.md`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if showVersion {
				printVersion(cmd)
				return nil
			}

			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}

			if err := logging.Initialize(cfg.Log); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			defer logging.Sync()

			return run(cmd.Context(), cfg)
		},
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd)
		},
	})

	flags := rootCmd.Flags()
	flags.BoolVarP(&showVersion, "version", "v", false, "Show version information")
	flags.StringVar(&configFile, "config", "", "Path to a YAML config file")

	flags.StringP("input", "i", "", "CSV file with the instance inventory")
	flags.String("source", config.SourceCSV, fmt.Sprintf("Instance source (%s, %s)", config.SourceCSV, config.SourceEC2))
	flags.StringP("output", "o", "", "Report destination; the extension selects the format (.csv, .md, .html, .json, .yaml, .txt), s3://bucket/key uploads it")
	flags.StringSliceP("regions", "r", nil,
		fmt.Sprintf("AWS regions to price and scan (comma separated, default: all %d supported regions)", len(utils.KnownRegions())))
	flags.Int("workers", 5, "Regions fetched in parallel")
	flags.Int("max-attempts", 3, "Failed Pricing API page fetches per region before the region is abandoned")
	flags.Duration("retry-backoff", 2*time.Second, "Pause between Pricing API attempts")
	flags.Duration("page-pause", 500*time.Millisecond, "Pause between Pricing API pages")
	flags.Int32("page-size", 100, "Pricing API page size (1-100)")
	flags.String("price-store", "", "SQLite file caching fetched prices between runs")
	flags.Duration("price-store-ttl", store.DefaultTTL, "How long stored prices are reused")
	flags.String("pushgateway", "", "Prometheus Pushgateway URL for run metrics")
	flags.String("cloudwatch-namespace", "", "CloudWatch namespace for the run summary metrics")
	flags.String("cloudwatch-region", "", "Region receiving CloudWatch metrics (default: current region)")
	flags.String("log-level", "info", "Log level (debug, info, warn, error)")
	flags.String("log-format", "console", "Log format (console, json)")

	for flag, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(fmt.Sprintf("binding flag %s: %v", flag, err))
		}
	}

	return rootCmd
}

func printVersion(cmd *cobra.Command) {
	fmt.Fprintln(cmd.OutOrStdout(), version.Get())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(viper.New()).ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
