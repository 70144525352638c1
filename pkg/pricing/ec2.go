package pricing

import (
	"context"
	"errors"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/pricing"
	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/metrics"
	"github.com/younsl/gadvisor/pkg/utils"
	"go.uber.org/zap"
)

// ErrUnknownRegion is logged when a region has no Pricing API location
var ErrUnknownRegion = errors.New("region has no pricing location")

// FetchOptions tunes the page loop of a Fetcher
type FetchOptions struct {
	// MaxAttempts bounds the failed page fetches of one region. The count
	// is kept across pages and never resets.
	MaxAttempts int

	// RetryBackoff is the pause before retrying a failed page
	RetryBackoff time.Duration

	// PagePause is the pause between successive pages
	PagePause time.Duration

	// PageSize is MaxResults per GetProducts call
	PageSize int32
}

// DefaultFetchOptions returns the limits used by the CLI
func DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		MaxAttempts:  3,
		RetryBackoff: 2 * time.Second,
		PagePause:    500 * time.Millisecond,
		PageSize:     100,
	}
}

// Fetcher retrieves every Linux on-demand instance price of one region
type Fetcher struct {
	client  pricing.GetProductsAPIClient
	opts    FetchOptions
	logger  *zap.Logger
	metrics *metrics.Metrics

	// sleep is swapped in tests
	sleep func(ctx context.Context, d time.Duration) error
}

// NewFetcher creates a Fetcher. logger and m may be nil.
func NewFetcher(client pricing.GetProductsAPIClient, opts FetchOptions, logger *zap.Logger, m *metrics.Metrics) *Fetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	return &Fetcher{
		client:  client,
		opts:    opts,
		logger:  logger,
		metrics: m,
		sleep:   sleepContext,
	}
}

// fetchState is a step of the per-region page loop
type fetchState int

const (
	stateAttempting fetchState = iota
	stateBackingOff
	stateSucceeded
	stateAbandoned
)

// Fetch returns instance type -> hourly USD price for region.
//
// It pages through GetProducts until the continuation token runs out, pausing
// between pages. A failing page is retried with a fixed backoff until the
// region has failed MaxAttempts times in total; then it is abandoned and the prices gathered so far
// are returned. Fetch never fails: an unknown region yields an empty map
// without calling the API.
func (f *Fetcher) Fetch(ctx context.Context, region string) (map[string]float64, models.RegionPricingStats) {
	start := time.Now()
	prices := make(map[string]float64)
	stats := models.RegionPricingStats{Region: region, Source: models.PriceSourceAPI}

	location, ok := utils.LookupLocation(region)
	if !ok {
		f.logger.Warn("skipping price fetch", zap.String("region", region), zap.Error(ErrUnknownRegion))
		stats.Source = models.PriceSourceNA
		return prices, stats
	}
	stats.Location = location

	input := &pricing.GetProductsInput{
		ServiceCode: aws.String(ServiceCodeEC2),
		Filters:     instanceFilters(location),
		MaxResults:  aws.Int32(f.opts.PageSize),
	}
	paginator := pricing.NewGetProductsPaginator(f.client, input, func(o *pricing.GetProductsPaginatorOptions) {
		o.Limit = f.opts.PageSize
	})

	state := stateAttempting
	failures := 0
	var lastErr error

	for state != stateSucceeded && state != stateAbandoned {
		switch state {
		case stateAttempting:
			if !paginator.HasMorePages() {
				state = stateSucceeded
				continue
			}

			page, err := paginator.NextPage(ctx)
			if err != nil {
				lastErr = err
				failures++
				f.metrics.PageFailed(region)
				f.logger.Warn("pricing page fetch failed",
					zap.String("region", region),
					zap.Int("page", stats.Pages+1),
					zap.Int("failures", failures),
					zap.Int("maxAttempts", f.opts.MaxAttempts),
					zap.Error(err))

				if failures >= f.opts.MaxAttempts || ctx.Err() != nil {
					state = stateAbandoned
				} else {
					stats.Retries++
					state = stateBackingOff
				}
				continue
			}

			stats.Pages++
			f.metrics.PageFetched(region)

			for _, item := range page.PriceList {
				instanceType, price, ok := ExtractInstancePrice(item)
				if !ok {
					continue
				}
				// Last value wins if a type repeats across pages
				prices[instanceType] = price
			}

			// Respect Pricing API rate limits between pages
			if paginator.HasMorePages() && f.opts.PagePause > 0 {
				if err := f.sleep(ctx, f.opts.PagePause); err != nil {
					lastErr = err
					state = stateAbandoned
				}
			}

		case stateBackingOff:
			if err := f.sleep(ctx, f.opts.RetryBackoff); err != nil {
				lastErr = err
				state = stateAbandoned
				continue
			}
			state = stateAttempting
		}
	}

	if state == stateAbandoned {
		stats.Abandoned = true
		f.metrics.RegionAbandoned(region)
		f.logger.Error("abandoned price fetch, keeping partial results",
			zap.String("region", region),
			zap.Int("pages", stats.Pages),
			zap.Int("prices", len(prices)),
			zap.Error(lastErr))
	}

	stats.Prices = len(prices)
	stats.Duration = time.Since(start)
	return prices, stats
}

// sleepContext waits for d or until ctx is done
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
