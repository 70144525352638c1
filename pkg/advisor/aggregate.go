package advisor

import "github.com/younsl/gadvisor/internal/models"

type groupKey struct {
	instanceType string
	region       string
}

// Aggregate groups convertible results by instance type and region.
// Rows keep first-seen order and carry the fields of the first result of
// their group; later results only add to Count.
func Aggregate(results []models.AnalysisResult) []models.SummaryRow {
	var rows []models.SummaryRow
	index := make(map[groupKey]int)

	for _, r := range results {
		if r.Status != models.StatusConvertible {
			continue
		}

		key := groupKey{instanceType: r.InstanceType, region: r.Region}
		if i, ok := index[key]; ok {
			rows[i].Count++
			continue
		}

		index[key] = len(rows)
		rows = append(rows, models.SummaryRow{
			InstanceType:  r.InstanceType,
			Region:        r.Region,
			Count:         1,
			OriginalPrice: r.OriginalPrice,
			Graviton2:     r.Graviton2,
			Graviton3:     r.Graviton3,
			Graviton4:     r.Graviton4,
		})
	}

	return rows
}
