package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/gadvisor/internal/config"
	"github.com/younsl/gadvisor/internal/models"
	"github.com/younsl/gadvisor/pkg/metrics"
	"github.com/younsl/gadvisor/pkg/pricing"
	"github.com/younsl/gadvisor/pkg/utils"
	"go.uber.org/zap"
)

// stubFetcher serves fixed price maps and records which regions were requested
type stubFetcher struct {
	mu      sync.Mutex
	prices  map[string]map[string]float64
	fetched []string
}

func (f *stubFetcher) Fetch(_ context.Context, region string) (map[string]float64, models.RegionPricingStats) {
	f.mu.Lock()
	f.fetched = append(f.fetched, region)
	f.mu.Unlock()

	stats := models.RegionPricingStats{Region: region, Source: models.PriceSourceAPI}
	if _, ok := utils.LookupLocation(region); !ok {
		stats.Source = models.PriceSourceNA
		return map[string]float64{}, stats
	}

	prices := make(map[string]float64)
	for k, v := range f.prices[region] {
		prices[k] = v
	}
	stats.Prices = len(prices)
	return prices, stats
}

func (f *stubFetcher) regions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.fetched...)
	sort.Strings(out)
	return out
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "instances.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestPipeline(cfg *config.Config, fetcher pricing.RegionFetcher, out *bytes.Buffer) *pipeline {
	return &pipeline{
		cfg:     cfg,
		logger:  zap.NewNop(),
		metrics: metrics.New(),
		out:     out,
		newFetcher: func(context.Context) (pricing.RegionFetcher, error) {
			return fetcher, nil
		},
	}
}

func TestPipeline_EndToEnd(t *testing.T) {
	input := writeInput(t, `InstanceName,InstanceType,Region,PlatformDetails,InstanceLifecycle
web-1,m5.large,us-east-1,Linux/UNIX,
web-2,m5.large,us-east-1,Linux/UNIX,
win-1,m5.large,us-east-1,Windows,
edge-1,m5.large,ap-south-2,Linux/UNIX,
`)
	output := filepath.Join(t.TempDir(), "report.csv")

	fetcher := &stubFetcher{prices: map[string]map[string]float64{
		"us-east-1": {"m5.large": 0.096, "m6g.large": 0.077},
	}}
	cfg := &config.Config{
		Source:  config.SourceCSV,
		Input:   input,
		Output:  output,
		Regions: []string{"us-east-1", "ap-south-2"},
		Workers: 5,
	}

	var out bytes.Buffer
	results, hourlySavings, err := newTestPipeline(cfg, fetcher, &out).execute(context.Background())
	require.NoError(t, err)

	// Unlisted regions are still loaded, as an empty price set
	assert.Equal(t, []string{"ap-south-2", "us-east-1"}, fetcher.regions())

	require.Len(t, results, 4)
	web := results[0]
	assert.Equal(t, models.StatusConvertible, web.Status)
	require.NotNil(t, web.Graviton2.InstanceType)
	assert.Equal(t, "m6g.large", *web.Graviton2.InstanceType)
	require.NotNil(t, web.Graviton2.Price)
	assert.Equal(t, 0.077, *web.Graviton2.Price)
	require.NotNil(t, web.Graviton2.SavingsPct)
	assert.Equal(t, 19.79, *web.Graviton2.SavingsPct)

	assert.Equal(t, models.StatusOSUnsupported, results[2].Status)
	assert.Equal(t, models.StatusNoRegionalCandidate, results[3].Status)
	assert.Nil(t, results[3].OriginalPrice)

	assert.InDelta(t, 0.038, hourlySavings, 1e-9)

	assert.Contains(t, out.String(), "19.79%")
	assert.Contains(t, out.String(), "Report written to "+output)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	require.NoError(t, err)

	// Header, four instances, then the Group title, header and one group row
	require.Len(t, records, 8)
	assert.Equal(t, []string{"web-1", "m5.large", "us-east-1", "0.096", "convertible", "m6g.large", "0.077", "19.79"}, records[1][:8])
	assert.Equal(t, []string{"Group"}, records[5])
	assert.Equal(t, []string{"m5.large", "us-east-1", "2"}, records[7][:3])
}

func TestPipeline_UnlistedRegionsDoNotAbort(t *testing.T) {
	fetcher := &stubFetcher{}
	cfg := &config.Config{
		Source:  config.SourceCSV,
		Input:   filepath.Join(t.TempDir(), "missing.csv"),
		Regions: []string{"ap-south-2"},
		Workers: 5,
	}

	var out bytes.Buffer
	_, _, err := newTestPipeline(cfg, fetcher, &out).execute(context.Background())

	// The only hard failure is the missing input
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.csv")
	assert.NotContains(t, err.Error(), "no supported regions")
	assert.Empty(t, fetcher.regions())
}

func TestPipeline_OnlyUnlistedRegions(t *testing.T) {
	input := writeInput(t, `InstanceName,InstanceType,Region
edge-1,m5.large,ap-south-2
`)
	fetcher := &stubFetcher{}
	cfg := &config.Config{
		Source:  config.SourceCSV,
		Input:   input,
		Regions: []string{"ap-south-2"},
		Workers: 5,
	}

	var out bytes.Buffer
	results, _, err := newTestPipeline(cfg, fetcher, &out).execute(context.Background())
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, models.StatusNoRegionalCandidate, results[0].Status)
	assert.Contains(t, out.String(), "UNSUPPORTED")
}
