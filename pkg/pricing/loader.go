package pricing

import (
	"context"
	"time"

	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultWorkers is the number of regions fetched concurrently
const DefaultWorkers = 5

// RegionFetcher fetches the price map of a single region
type RegionFetcher interface {
	Fetch(ctx context.Context, region string) (map[string]float64, models.RegionPricingStats)
}

// Loader fills a PriceCache from a RegionFetcher, one task per region,
// consulting an optional Store first.
type Loader struct {
	Fetcher RegionFetcher
	Store   Store
	Workers int
	Logger  *zap.Logger
	Metrics *metrics.Metrics

	// OnRegionDone is called after each region completes. It may be called
	// from several goroutines at once.
	OnRegionDone func(stats models.RegionPricingStats)
}

// regionSlot is the result area owned by exactly one task
type regionSlot struct {
	prices map[string]float64
	stats  models.RegionPricingStats
}

// LoadAll fetches every region with at most Workers tasks in flight and
// returns once all of them have finished. A failing region contributes an
// empty or partial map and never aborts its siblings.
func (l *Loader) LoadAll(ctx context.Context, regions []string) (*PriceCache, []models.RegionPricingStats) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	workers := l.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	regions = uniqueRegions(regions)
	slots := make([]regionSlot, len(regions))

	// Tasks never return an error so one region cannot cancel the others
	var g errgroup.Group
	g.SetLimit(workers)

	for i, region := range regions {
		g.Go(func() error {
			slots[i] = l.loadRegion(ctx, logger, region)
			if l.OnRegionDone != nil {
				l.OnRegionDone(slots[i].stats)
			}
			return nil
		})
	}

	// Barrier: nothing reads the slots before every task has returned
	_ = g.Wait()

	merged := make(map[string]map[string]float64, len(regions))
	stats := make([]models.RegionPricingStats, 0, len(regions))
	for _, slot := range slots {
		merged[slot.stats.Region] = slot.prices
		stats = append(stats, slot.stats)
		l.Metrics.PricesCached(slot.stats.Region, slot.stats.Source, len(slot.prices))
	}

	return NewPriceCache(merged), stats
}

func (l *Loader) loadRegion(ctx context.Context, logger *zap.Logger, region string) regionSlot {
	if l.Store != nil {
		start := time.Now()
		prices, ok, err := l.Store.Get(ctx, region)
		if err != nil {
			logger.Warn("price store read failed, falling back to API",
				zap.String("region", region), zap.Error(err))
		} else if ok {
			logger.Debug("using stored prices", zap.String("region", region), zap.Int("prices", len(prices)))
			return regionSlot{
				prices: prices,
				stats: models.RegionPricingStats{
					Region:   region,
					Source:   models.PriceSourceStore,
					Prices:   len(prices),
					Duration: time.Since(start),
				},
			}
		}
	}

	prices, stats := l.Fetcher.Fetch(ctx, region)
	if prices == nil {
		prices = make(map[string]float64)
	}
	if stats.Region == "" {
		stats.Region = region
	}

	// Only complete snapshots are persisted
	if l.Store != nil && !stats.Abandoned && len(prices) > 0 {
		if err := l.Store.Put(ctx, region, prices); err != nil {
			logger.Warn("price store write failed", zap.String("region", region), zap.Error(err))
		}
	}

	return regionSlot{prices: prices, stats: stats}
}

// uniqueRegions drops repeated regions so every region has a single writer
func uniqueRegions(regions []string) []string {
	seen := make(map[string]struct{}, len(regions))
	out := make([]string, 0, len(regions))
	for _, region := range regions {
		if _, ok := seen[region]; ok {
			continue
		}
		seen[region] = struct{}{}
		out = append(out, region)
	}
	return out
}
