package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/briandowns/spinner"
	"github.com/google/uuid"
	"github.com/younsl/gadvisor/internal/config"
	"github.com/younsl/gadvisor/internal/logging"
	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/advisor"
	"github.com/younsl/gadvisor/pkg/aws"
	"github.com/younsl/gadvisor/pkg/formatter"
	"github.com/younsl/gadvisor/pkg/input"
	"github.com/younsl/gadvisor/pkg/metrics"
	"github.com/younsl/gadvisor/pkg/pricing"
	"github.com/younsl/gadvisor/pkg/store"
	"github.com/younsl/gadvisor/pkg/utils"
	"go.uber.org/zap"
)

const metricsJob = "gadvisor"

// startSpinner creates and starts a spinner with the given message
func startSpinner(message string) *spinner.Spinner {
	s := spinner.New(spinner.CharSets[9], 200*time.Millisecond)
	s.Suffix = " " + message
	s.Start()
	return s
}

// pipeline holds what one advisor pass needs
type pipeline struct {
	cfg     *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	out     io.Writer

	// newFetcher builds the per-region price fetcher; tests replace it
	newFetcher func(ctx context.Context) (pricing.RegionFetcher, error)
}

// run executes one advisor pass: read records, load prices, analyze, report
func run(ctx context.Context, cfg *config.Config) error {
	runID := uuid.NewString()
	p := &pipeline{
		cfg:     cfg,
		logger:  logging.Logger.With(zap.String("run_id", runID)),
		metrics: metrics.New(),
		out:     os.Stdout,
	}
	p.newFetcher = p.apiFetcher

	results, hourlySavings, err := p.execute(ctx)
	if err != nil {
		return err
	}

	if cfg.Pushgateway != "" {
		if err := p.metrics.Push(ctx, cfg.Pushgateway, metricsJob, runID); err != nil {
			p.logger.Warn("failed to push metrics", zap.Error(err))
		}
	}

	if cfg.CloudWatch.Namespace != "" {
		if err := publishSummary(ctx, cfg, results, hourlySavings); err != nil {
			p.logger.Warn("failed to publish CloudWatch metrics", zap.Error(err))
		}
	}

	return nil
}

// execute reads the records, loads every region's prices behind the pool
// barrier, then analyzes, prints and writes the report
func (p *pipeline) execute(ctx context.Context) ([]models.AnalysisResult, float64, error) {
	// Regions outside the pricing table stay in the run and get an empty price set
	known, unknown := p.cfg.SplitRegions()
	for _, region := range unknown {
		p.logger.Warn("region has no pricing location, its instances will have no prices",
			zap.String("region", region))
	}
	regions := append(known, unknown...)

	records, err := p.readRecords(ctx, regions)
	if err != nil {
		return nil, 0, err
	}
	p.logger.Info("instance records loaded", zap.String("source", p.cfg.Source), zap.Int("records", len(records)))

	cache, stats, err := p.loadPrices(ctx, regions)
	if err != nil {
		return nil, 0, err
	}

	// Phase 2 starts only after every region has finished loading
	analysisStart := time.Now()
	results := advisor.AnalyzeAll(records, cache, p.metrics)
	rows := advisor.Aggregate(results)
	hourlySavings := advisor.EstimatedHourlySavings(results)

	formatter.PrintResultsTable(p.out, results, analysisStart, time.Since(analysisStart))
	formatter.PrintStatusSummary(p.out, results, hourlySavings)
	formatter.PrintSummaryTable(p.out, rows)
	formatter.PrintPricingStats(p.out, stats)

	if p.cfg.Output != "" {
		if err := writeReport(ctx, p.cfg, results, rows); err != nil {
			return nil, 0, err
		}
		fmt.Fprintf(p.out, "\nReport written to %s\n", p.cfg.Output)
	}

	return results, hourlySavings, nil
}

// readRecords loads the instance inventory from the configured source
func (p *pipeline) readRecords(ctx context.Context, regions []string) ([]models.InstanceRecord, error) {
	switch p.cfg.Source {
	case config.SourceEC2:
		scanRegions := regions
		if len(p.cfg.Regions) == 0 {
			scanRegions = []string{utils.GetDefaultRegion(ctx)}
		}

		s := startSpinner(fmt.Sprintf("Listing EC2 instances in %s ...", strings.Join(scanRegions, ", ")))
		start := time.Now()
		records, err := input.NewEC2Source(scanRegions, p.logger).Records(ctx)
		s.FinalMSG = fmt.Sprintf("✓ [%d instances found] EC2 inventory read - Completed in %.2f seconds\n",
			len(records), time.Since(start).Seconds())
		s.Stop()
		if err != nil {
			return nil, fmt.Errorf("error reading EC2 instances: %w", err)
		}
		return records, nil
	default:
		records, err := input.ReadCSV(p.cfg.Input)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", p.cfg.Input, err)
		}
		return records, nil
	}
}

// apiFetcher creates a fetcher backed by the AWS Pricing API
func (p *pipeline) apiFetcher(ctx context.Context) (pricing.RegionFetcher, error) {
	client, err := pricing.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("pricing client ready", zap.String("endpoint", pricing.EndpointDescription()))

	return pricing.NewFetcher(client, pricing.FetchOptions{
		MaxAttempts:  p.cfg.Pricing.MaxAttempts,
		RetryBackoff: p.cfg.Pricing.RetryBackoff,
		PagePause:    p.cfg.Pricing.PagePause,
		PageSize:     p.cfg.Pricing.PageSize,
	}, p.logger, p.metrics), nil
}

// loadPrices runs the bounded fetch pool and waits for every region
func (p *pipeline) loadPrices(ctx context.Context, regions []string) (*pricing.PriceCache, []models.RegionPricingStats, error) {
	fetcher, err := p.newFetcher(ctx)
	if err != nil {
		return nil, nil, err
	}

	loader := &pricing.Loader{
		Fetcher: fetcher,
		Workers: p.cfg.Workers,
		Logger:  p.logger,
		Metrics: p.metrics,
	}

	if p.cfg.PriceStore.Path != "" {
		priceStore, err := store.Open(p.cfg.PriceStore.Path, p.cfg.PriceStore.TTL)
		if err != nil {
			return nil, nil, err
		}
		defer priceStore.Close()
		loader.Store = priceStore
	}

	s := startSpinner(fmt.Sprintf("Fetching on-demand prices for %d regions ...", len(regions)))
	var done atomic.Int32
	loader.OnRegionDone = func(models.RegionPricingStats) {
		n := done.Add(1)
		s.Lock()
		s.Suffix = fmt.Sprintf(" Fetching on-demand prices ... %d/%d regions", n, len(regions))
		s.Unlock()
	}

	start := time.Now()
	cache, stats := loader.LoadAll(ctx, regions)

	loaded := 0
	for _, region := range cache.Regions() {
		loaded += cache.Len(region)
	}
	s.FinalMSG = fmt.Sprintf("✓ [%d regions, %d prices loaded] Pricing data fetched - Completed in %s\n",
		len(stats), loaded, utils.FormatDuration(time.Since(start)))
	s.Stop()

	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("price loading interrupted: %w", err)
	}
	return cache, stats, nil
}

// writeReport renders the report and writes it to a file or S3
func writeReport(ctx context.Context, cfg *config.Config, results []models.AnalysisResult, rows []models.SummaryRow) error {
	format, err := cfg.ReportFormat()
	if err != nil {
		return err
	}

	if aws.IsS3URI(cfg.Output) {
		var buf bytes.Buffer
		if err := formatter.WriteReport(&buf, format, results, rows); err != nil {
			return err
		}

		uploader, err := aws.NewS3Uploader(ctx, utils.GetDefaultRegion(ctx))
		if err != nil {
			return err
		}
		return uploader.Upload(ctx, cfg.Output, buf.Bytes())
	}

	f, err := os.Create(cfg.Output)
	if err != nil {
		return fmt.Errorf("error creating report %s: %w", cfg.Output, err)
	}
	if err := writeAndClose(f, format, results, rows); err != nil {
		return fmt.Errorf("error writing report %s: %w", cfg.Output, err)
	}
	return nil
}

func writeAndClose(f io.WriteCloser, format string, results []models.AnalysisResult, rows []models.SummaryRow) error {
	if err := formatter.WriteReport(f, format, results, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// publishSummary sends the status counts and estimated savings to CloudWatch
func publishSummary(ctx context.Context, cfg *config.Config, results []models.AnalysisResult, hourlySavings float64) error {
	region := cfg.CloudWatch.Region
	if region == "" {
		region = utils.GetDefaultRegion(ctx)
	}

	publisher, err := aws.NewSummaryPublisher(ctx, region, cfg.CloudWatch.Namespace)
	if err != nil {
		return err
	}
	return publisher.Publish(ctx, aws.RunSummary{
		StatusCounts:  advisor.CountByStatus(results),
		HourlySavings: hourlySavings,
	})
}
