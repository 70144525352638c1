package models

import "time"

// PriceSource records where a region's price map came from
type PriceSource string

const (
	// PriceSourceAPI indicates prices were fetched from the AWS Pricing API
	PriceSourceAPI PriceSource = "API"

	// PriceSourceStore indicates prices were read from the local price store
	PriceSourceStore PriceSource = "Store"

	// PriceSourceNA indicates no prices could be obtained
	PriceSourceNA PriceSource = "N/A"
)

// RegionPricingStats describes how one region's price map was populated
type RegionPricingStats struct {
	Region    string
	Location  string
	Source    PriceSource
	Prices    int
	Pages     int
	Retries   int
	Abandoned bool
	Duration  time.Duration
}
