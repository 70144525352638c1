package utils

import (
	"fmt"
	"time"
)

// MonthlyHours is the number of hours in an average month (365 days / 12 months * 24 hours)
const MonthlyHours = 730.0

// MonthlyCost converts an hourly price to an approximate monthly cost
func MonthlyCost(hourly float64) float64 {
	return hourly * MonthlyHours
}

// FormatDuration formats a duration for tables, e.g. "850ms", "12.40s" or "3m05s"
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	default:
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
}
