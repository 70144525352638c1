// Package advisor decides, per instance, whether a move to Graviton is
// possible and what it would save, and groups the convertible instances.
package advisor

import (
	"strings"

	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/graviton"
	"github.com/younsl/gadvisor/pkg/metrics"
)

// lifecycleSpot is the EC2 InstanceLifecycle value of spot instances
const lifecycleSpot = "spot"

// PriceLookup answers hourly price queries. *pricing.PriceCache implements it.
type PriceLookup interface {
	Price(region, instanceType string) (float64, bool)
}

// Analyze produces the migration decision for one instance record.
// It performs no I/O; prices come from the already populated lookup.
func Analyze(record models.InstanceRecord, prices PriceLookup) models.AnalysisResult {
	result := models.AnalysisResult{
		InstanceName:  record.Name,
		InstanceType:  record.InstanceType,
		Region:        record.Region,
		OriginalPrice: lookup(prices, record.Region, record.InstanceType),
	}

	switch {
	case isWindows(record.Platform):
		result.Status = models.StatusOSUnsupported
		return result
	case graviton.IsGPUInstance(record.InstanceType):
		result.Status = models.StatusGPUUnsupported
		return result
	case graviton.IsGravitonInstance(record.InstanceType):
		result.Status = models.StatusAlreadyMigrated
		return result
	case record.Lifecycle == lifecycleSpot:
		result.Status = models.StatusSpotExcluded
		return result
	}

	candidates := graviton.MapCandidates(record.InstanceType)
	slots := [3]*models.Candidate{&result.Graviton2, &result.Graviton3, &result.Graviton4}

	priced := false
	for i, instanceType := range candidates.Generations() {
		if instanceType == "" {
			continue
		}

		c := slots[i]
		c.InstanceType = &instanceType
		c.Price = lookup(prices, record.Region, instanceType)
		if c.Price != nil {
			priced = true
		}
		if pct, ok := SavingsPct(result.OriginalPrice, c.Price); ok {
			c.SavingsPct = &pct
		}
	}

	if priced {
		result.Status = models.StatusConvertible
	} else {
		result.Status = models.StatusNoRegionalCandidate
	}
	return result
}

// AnalyzeAll analyzes records in order and records each status in m, which may be nil
func AnalyzeAll(records []models.InstanceRecord, prices PriceLookup, m *metrics.Metrics) []models.AnalysisResult {
	results := make([]models.AnalysisResult, 0, len(records))
	for _, record := range records {
		result := Analyze(record, prices)
		m.Analyzed(result.Status)
		results = append(results, result)
	}
	m.SetEstimatedSavings(EstimatedHourlySavings(results))
	return results
}

// CountByStatus tallies results per status
func CountByStatus(results []models.AnalysisResult) map[models.Status]int {
	counts := make(map[models.Status]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// EstimatedHourlySavings sums, over convertible results, the largest hourly
// saving among the priced candidates. Candidates dearer than the original
// contribute nothing.
func EstimatedHourlySavings(results []models.AnalysisResult) float64 {
	var total float64
	for _, r := range results {
		if r.Status != models.StatusConvertible || r.OriginalPrice == nil {
			continue
		}

		best := 0.0
		for _, c := range r.Candidates() {
			if c.Price == nil {
				continue
			}
			if saving := HourlySaving(*r.OriginalPrice, *c.Price); saving > best {
				best = saving
			}
		}
		total += best
	}
	return total
}

func lookup(prices PriceLookup, region, instanceType string) *float64 {
	if prices == nil || region == "" || instanceType == "" {
		return nil
	}
	price, ok := prices.Price(region, instanceType)
	if !ok {
		return nil
	}
	return &price
}

func isWindows(platform string) bool {
	return strings.Contains(strings.ToLower(platform), "windows")
}
