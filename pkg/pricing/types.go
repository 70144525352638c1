package pricing

import (
	"context"
	"sort"
)

// PriceCache maps region -> instance type -> hourly USD on-demand price.
// It is built once by LoadAll and only read afterwards, so lookups need no locking.
type PriceCache struct {
	regions map[string]map[string]float64
}

// NewPriceCache wraps an already populated region map. The map must not be
// modified after the call.
func NewPriceCache(regions map[string]map[string]float64) *PriceCache {
	if regions == nil {
		regions = make(map[string]map[string]float64)
	}
	return &PriceCache{regions: regions}
}

// Price returns the hourly price of instanceType in region.
// Empty arguments and unknown keys report ok=false.
func (c *PriceCache) Price(region, instanceType string) (float64, bool) {
	if c == nil || region == "" || instanceType == "" {
		return 0, false
	}

	prices, ok := c.regions[region]
	if !ok {
		return 0, false
	}

	price, ok := prices[instanceType]
	return price, ok
}

// Regions returns the regions held in the cache, sorted
func (c *PriceCache) Regions() []string {
	if c == nil {
		return nil
	}

	regions := make([]string, 0, len(c.regions))
	for region := range c.regions {
		regions = append(regions, region)
	}
	sort.Strings(regions)
	return regions
}

// Len returns the number of prices held for region
func (c *PriceCache) Len(region string) int {
	if c == nil {
		return 0
	}
	return len(c.regions[region])
}

// Store persists complete region price maps between runs
type Store interface {
	// Get returns a fresh snapshot for region, ok=false when missing or expired
	Get(ctx context.Context, region string) (map[string]float64, bool, error)

	// Put replaces the snapshot for region
	Put(ctx context.Context, region string, prices map[string]float64) error
}
