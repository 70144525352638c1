package formatter

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
)

// maxNameWidth defines the maximum display width of the Name column
const maxNameWidth = 24

// printTimestamp prints the scan timestamp and duration
func printTimestamp(w io.Writer, scanStartTime time.Time, scanDuration time.Duration) {
	fmt.Fprintf(w, "Analyzed at %s (took %.2fs)\n",
		scanStartTime.Format("2006-01-02 15:04:05"),
		scanDuration.Seconds())
}

// displayName returns a name truncated to maxNameWidth display cells,
// or <unnamed> if empty. CJK names count two cells per rune.
func displayName(name string) string {
	if name == "" {
		return "<unnamed>"
	}
	return runewidth.Truncate(name, maxNameWidth, "..")
}

// orDash returns s or "-" when s is empty
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// formatPrice formats an hourly USD price for tables
func formatPrice(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("$%.4f", *p)
}

// formatPct formats a savings percentage for tables
func formatPct(p *float64) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f%%", *p)
}

// formatType dereferences a candidate type for tables
func formatType(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

// rawFloat formats a nullable number for machine-readable reports; nil is empty
func rawFloat(p *float64) string {
	if p == nil {
		return ""
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

// rawString dereferences a nullable string for machine-readable reports
func rawString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
