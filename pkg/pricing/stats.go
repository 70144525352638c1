package pricing

import (
	"sort"

	"github.com/younsl/gadvisor/internal/models"
)

// StatsTotals summarizes the pricing phase across regions
type StatsTotals struct {
	Regions   int
	FromAPI   int
	FromStore int
	Empty     int
	Abandoned int
	Prices    int
	Pages     int
	Retries   int
}

// SortStats orders stats by region name in place
func SortStats(stats []models.RegionPricingStats) {
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].Region < stats[j].Region
	})
}

// SummarizeStats adds up per-region statistics
func SummarizeStats(stats []models.RegionPricingStats) StatsTotals {
	var totals StatsTotals
	for _, s := range stats {
		totals.Regions++
		totals.Prices += s.Prices
		totals.Pages += s.Pages
		totals.Retries += s.Retries

		switch s.Source {
		case models.PriceSourceAPI:
			totals.FromAPI++
		case models.PriceSourceStore:
			totals.FromStore++
		}
		if s.Abandoned {
			totals.Abandoned++
		}
		if s.Prices == 0 {
			totals.Empty++
		}
	}
	return totals
}
