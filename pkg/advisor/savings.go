package advisor

import "github.com/shopspring/decimal"

// SavingsPct returns the percentage saved by moving from original to
// candidate, rounded half away from zero to two decimals.
// ok is false when either price is missing or zero.
func SavingsPct(original, candidate *float64) (float64, bool) {
	if original == nil || candidate == nil || *original == 0 || *candidate == 0 {
		return 0, false
	}

	orig := decimal.NewFromFloat(*original)
	cand := decimal.NewFromFloat(*candidate)

	pct := decimal.NewFromInt(1).
		Sub(cand.Div(orig)).
		Mul(decimal.NewFromInt(100)).
		Round(2)

	return pct.InexactFloat64(), true
}

// HourlySaving returns original minus candidate in USD per hour
func HourlySaving(original, candidate float64) float64 {
	return decimal.NewFromFloat(original).Sub(decimal.NewFromFloat(candidate)).InexactFloat64()
}
