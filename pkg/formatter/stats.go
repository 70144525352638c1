package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/pricing"
	"github.com/younsl/gadvisor/pkg/utils"
)

// PrintPricingStats prints how each region's prices were obtained
func PrintPricingStats(out io.Writer, stats []models.RegionPricingStats) {
	if len(stats) == 0 {
		return
	}

	sorted := make([]models.RegionPricingStats, len(stats))
	copy(sorted, stats)
	pricing.SortStats(sorted)

	fmt.Fprintln(out, "\n## AWS Pricing API Statistics")

	// Use tabwriter for clean tabular output
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "REGION\tLOCATION\tSOURCE\tPRICES\tPAGES\tRETRIES\tSTATUS\tDURATION")

	for _, s := range sorted {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			s.Region,
			orDash(s.Location),
			s.Source,
			humanize.Comma(int64(s.Prices)),
			s.Pages,
			s.Retries,
			fetchStatus(s),
			utils.FormatDuration(s.Duration),
		)
	}

	totals := pricing.SummarizeStats(sorted)
	fmt.Fprintf(w, "Total:\t%d regions\t%d API, %d store\t%s\t%d\t%d\t%d partial\t\n",
		totals.Regions,
		totals.FromAPI,
		totals.FromStore,
		humanize.Comma(int64(totals.Prices)),
		totals.Pages,
		totals.Retries,
		totals.Abandoned,
	)

	w.Flush()
}

// fetchStatus describes the outcome of a region's price load
func fetchStatus(s models.RegionPricingStats) string {
	switch {
	case s.Source == models.PriceSourceNA:
		return "UNSUPPORTED"
	case s.Abandoned:
		return "PARTIAL"
	case s.Prices == 0:
		return "EMPTY"
	default:
		return "OK"
	}
}
