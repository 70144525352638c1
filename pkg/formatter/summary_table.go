package formatter

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/younsl/gadvisor/internal/models"
)

// PrintSummaryTable prints the convertible instances grouped by type and region
func PrintSummaryTable(out io.Writer, rows []models.SummaryRow) {
	if len(rows) == 0 {
		fmt.Fprintln(out, "\nNo convertible instances found.")
		return
	}

	fmt.Fprintln(out, "\n## Convertible Instance Groups")

	w := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TYPE\tREGION\tCOUNT\tPRICE/HR\tGRAVITON2\tSAVE\tGRAVITON3\tSAVE\tGRAVITON4\tSAVE")

	total := 0
	for _, row := range rows {
		total += row.Count
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			row.InstanceType,
			row.Region,
			row.Count,
			formatPrice(row.OriginalPrice),
			formatType(row.Graviton2.InstanceType),
			formatPct(row.Graviton2.SavingsPct),
			formatType(row.Graviton3.InstanceType),
			formatPct(row.Graviton3.SavingsPct),
			formatType(row.Graviton4.InstanceType),
			formatPct(row.Graviton4.SavingsPct),
		)
	}

	fmt.Fprintf(w, "Total:\t\t%d\n", total)
	w.Flush()
}
