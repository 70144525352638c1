package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/utils"
)

// PrintResultsTable prints one row per analyzed instance, in input order
func PrintResultsTable(out io.Writer, results []models.AnalysisResult, scanTime time.Time, scanDuration time.Duration) {
	if len(results) == 0 {
		fmt.Fprintln(out, "No instances analyzed.")
		return
	}

	// kubectl style tabwriter
	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)

	printTimestamp(w, scanTime, scanDuration)

	fmt.Fprintln(w, "NAME\tTYPE\tREGION\tPRICE/HR\tSTATUS\tGRAVITON2\tPRICE/HR\tSAVE\tGRAVITON3\tPRICE/HR\tSAVE\tGRAVITON4\tPRICE/HR\tSAVE")

	for _, r := range results {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			displayName(r.InstanceName),
			orDash(r.InstanceType),
			orDash(r.Region),
			formatPrice(r.OriginalPrice),
			r.Status,
			formatType(r.Graviton2.InstanceType),
			formatPrice(r.Graviton2.Price),
			formatPct(r.Graviton2.SavingsPct),
			formatType(r.Graviton3.InstanceType),
			formatPrice(r.Graviton3.Price),
			formatPct(r.Graviton3.SavingsPct),
			formatType(r.Graviton4.InstanceType),
			formatPrice(r.Graviton4.Price),
			formatPct(r.Graviton4.SavingsPct),
		)
	}

	w.Flush()
}

// PrintStatusSummary prints how many instances ended in each status and the
// estimated saving of moving every convertible instance to its cheapest candidate
func PrintStatusSummary(out io.Writer, results []models.AnalysisResult, hourlySavings float64) {
	if len(results) == 0 {
		return
	}

	counts := make(map[models.Status]int)
	for _, r := range results {
		counts[r.Status]++
	}

	fmt.Fprintln(out, "\n## Migration Status Summary")

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "STATUS\tINSTANCE COUNT")

	for _, status := range models.AllStatuses {
		fmt.Fprintf(w, "%s\t%s\n", status, humanize.Comma(int64(counts[status])))
	}
	fmt.Fprintf(w, "Total:\t%s\n", humanize.Comma(int64(len(results))))
	w.Flush()

	if hourlySavings > 0 {
		fmt.Fprintf(out, "\nEstimated on-demand savings: $%s/hr (~$%s/mo)\n",
			humanize.CommafWithDigits(hourlySavings, 4),
			humanize.CommafWithDigits(utils.MonthlyCost(hourlySavings), 2))
	}
}
