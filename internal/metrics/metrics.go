package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Lookups        *prometheus.CounterVec   // provider, outcome: ok|error
	LookupDuration *prometheus.HistogramVec // provider

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	ReportsAssembled prometheus.Counter
	UnavailableDays  prometheus.Counter

	SavedPlans    prometheus.Gauge
	PlanRefreshes *prometheus.CounterVec // outcome: ok|error

	RefreshInterval prometheus.Gauge // seconds
}

func NewCollector(refreshInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripweather_provider_lookups_total",
			Help: "Provider lookups by outcome.",
		}, []string{"provider", "outcome"}),
		LookupDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "tripweather_provider_lookup_duration_seconds",
			Help:    "Duration of a single provider lookup, retries included.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
		}, []string{"provider"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripweather_forecast_cache_hits_total",
			Help: "Daily forecasts served from the cache.",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripweather_forecast_cache_misses_total",
			Help: "Daily forecasts that had to be fetched.",
		}),
		ReportsAssembled: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripweather_reports_assembled_total",
			Help: "Trip reports assembled.",
		}),
		UnavailableDays: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripweather_unavailable_days_total",
			Help: "Report days without a forecast.",
		}),
		SavedPlans: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tripweather_saved_plans",
			Help: "Number of saved plans.",
		}),
		PlanRefreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tripweather_plan_refreshes_total",
			Help: "Scheduled plan refreshes by outcome.",
		}, []string{"outcome"}),
		RefreshInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tripweather_refresh_interval_seconds",
			Help: "Plan refresh interval in seconds.",
		}),
	}

	reg.MustRegister(
		c.Lookups, c.LookupDuration,
		c.CacheHits, c.CacheMisses,
		c.ReportsAssembled, c.UnavailableDays,
		c.SavedPlans, c.PlanRefreshes, c.RefreshInterval,
	)

	c.RefreshInterval.Set(refreshInterval.Seconds())

	return c
}

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// LookupObserve records one provider lookup.
func (c *Collector) LookupObserve(provider string, d time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.Lookups.WithLabelValues(provider, outcome).Inc()
	c.LookupDuration.WithLabelValues(provider).Observe(d.Seconds())
}

func (c *Collector) CacheHit()  { c.CacheHits.Inc() }
func (c *Collector) CacheMiss() { c.CacheMisses.Inc() }

// ReportObserve records an assembled report and how many of its days had no forecast.
func (c *Collector) ReportObserve(unavailable int) {
	c.ReportsAssembled.Inc()
	c.UnavailableDays.Add(float64(unavailable))
}

func (c *Collector) PlansSet(n int) { c.SavedPlans.Set(float64(n)) }

func (c *Collector) RefreshObserve(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.PlanRefreshes.WithLabelValues(outcome).Inc()
}
