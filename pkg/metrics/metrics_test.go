package metrics

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/younsl/gadvisor/internal/models"
)

func TestMetrics_Record(t *testing.T) {
	m := New()

	m.PageFetched("us-east-1")
	m.PageFetched("us-east-1")
	m.PageFailed("us-east-1")
	m.RegionAbandoned("eu-west-1")
	m.PricesCached("us-east-1", models.PriceSourceAPI, 812)
	m.Analyzed(models.StatusConvertible)
	m.Analyzed(models.StatusConvertible)
	m.Analyzed(models.StatusSpotExcluded)
	m.SetEstimatedSavings(1.25)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PricingPages.WithLabelValues("us-east-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PricingRetries.WithLabelValues("us-east-1")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PricingAbandoned.WithLabelValues("eu-west-1")))
	assert.Equal(t, 812.0, testutil.ToFloat64(m.PricesLoaded.WithLabelValues("us-east-1", "API")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.InstancesAnalyzed.WithLabelValues(string(models.StatusConvertible))))
	assert.Equal(t, 1.25, testutil.ToFloat64(m.EstimatedSavings))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.PageFetched("us-east-1")
		m.PageFailed("us-east-1")
		m.RegionAbandoned("us-east-1")
		m.PricesCached("us-east-1", models.PriceSourceAPI, 1)
		m.Analyzed(models.StatusConvertible)
		m.SetEstimatedSavings(1)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.Push(context.Background(), "http://unused", "job", "run"))
}

func TestMetrics_Push(t *testing.T) {
	var gotPath string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := New()
	m.Analyzed(models.StatusConvertible)

	err := m.Push(context.Background(), server.URL, "gadvisor", "run-1")
	require.NoError(t, err)

	assert.Equal(t, "/metrics/job/gadvisor/run_id/run-1", gotPath)
	assert.NotEmpty(t, gotBody)
}

func TestMetrics_PushError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	err := New().Push(context.Background(), server.URL, "gadvisor", "run-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error pushing metrics")
}
