// Package metrics records Prometheus metrics for a single advisor run.
// Metrics live on a private registry so a run can be pushed to a Pushgateway
// as one batch job and tests can create independent instances.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/younsl/gadvisor/internal/models"
)

const namespace = "gadvisor"

// Metrics holds every collector of a run. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	// PricingPages counts GetProducts pages fetched successfully.
	// Labels: region
	PricingPages *prometheus.CounterVec

	// PricingRetries counts failed page fetches that were retried or abandoned.
	// Labels: region
	PricingRetries *prometheus.CounterVec

	// PricingAbandoned counts regions whose fetch gave up after exhausting attempts.
	// Labels: region
	PricingAbandoned *prometheus.CounterVec

	// PricesLoaded is the number of instance type prices held per region.
	// Labels: region, source
	PricesLoaded *prometheus.GaugeVec

	// InstancesAnalyzed counts analysis results by status.
	// Labels: status
	InstancesAnalyzed *prometheus.CounterVec

	// EstimatedSavings is the best hourly saving per convertible instance, summed.
	EstimatedSavings prometheus.Gauge
}

// New creates the collectors and registers them on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		PricingPages: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_pages_total",
			Help:      "Pricing API pages fetched successfully.",
		}, []string{"region"}),
		PricingRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_page_failures_total",
			Help:      "Pricing API page fetches that failed.",
		}, []string{"region"}),
		PricingAbandoned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_regions_abandoned_total",
			Help:      "Regions whose price fetch was abandoned after exhausting retries.",
		}, []string{"region"}),
		PricesLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "prices_loaded",
			Help:      "Instance type prices held in the price cache.",
		}, []string{"region", "source"}),
		InstancesAnalyzed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "instances_analyzed_total",
			Help:      "Instances analyzed by migration status.",
		}, []string{"status"}),
		EstimatedSavings: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "estimated_hourly_savings_usd",
			Help:      "Sum of the best hourly on-demand saving across convertible instances.",
		}),
	}

	m.registry.MustRegister(
		m.PricingPages,
		m.PricingRetries,
		m.PricingAbandoned,
		m.PricesLoaded,
		m.InstancesAnalyzed,
		m.EstimatedSavings,
	)

	return m
}

// Registry returns the registry holding the run's collectors
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// PageFetched records a successful page for region
func (m *Metrics) PageFetched(region string) {
	if m == nil {
		return
	}
	m.PricingPages.WithLabelValues(region).Inc()
}

// PageFailed records a failed page attempt for region
func (m *Metrics) PageFailed(region string) {
	if m == nil {
		return
	}
	m.PricingRetries.WithLabelValues(region).Inc()
}

// RegionAbandoned records that region's fetch gave up
func (m *Metrics) RegionAbandoned(region string) {
	if m == nil {
		return
	}
	m.PricingAbandoned.WithLabelValues(region).Inc()
}

// PricesCached records how many prices a region contributed and where they came from
func (m *Metrics) PricesCached(region string, source models.PriceSource, count int) {
	if m == nil {
		return
	}
	m.PricesLoaded.WithLabelValues(region, string(source)).Set(float64(count))
}

// Analyzed records one analysis result
func (m *Metrics) Analyzed(status models.Status) {
	if m == nil {
		return
	}
	m.InstancesAnalyzed.WithLabelValues(string(status)).Inc()
}

// SetEstimatedSavings records the summed best hourly saving
func (m *Metrics) SetEstimatedSavings(usdPerHour float64) {
	if m == nil {
		return
	}
	m.EstimatedSavings.Set(usdPerHour)
}

// Push sends every collector to a Pushgateway, grouped by run ID
func (m *Metrics) Push(ctx context.Context, url, job, runID string) error {
	if m == nil {
		return nil
	}

	err := push.New(url, job).
		Gatherer(m.registry).
		Grouping("run_id", runID).
		PushContext(ctx)
	if err != nil {
		return fmt.Errorf("error pushing metrics to %s: %w", url, err)
	}
	return nil
}
