package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	c := NewCollector(3 * time.Hour)

	c.LookupObserve("openmeteo", 120*time.Millisecond, nil)
	c.LookupObserve("openmeteo", time.Second, errors.New("boom"))
	c.LookupObserve("weatherapi", 80*time.Millisecond, nil)
	c.CacheHit()
	c.CacheMiss()
	c.CacheMiss()
	c.ReportObserve(2)
	c.PlansSet(4)
	c.RefreshObserve(nil)

	if got := testutil.ToFloat64(c.Lookups.WithLabelValues("openmeteo", "error")); got != 1 {
		t.Errorf("expected 1 failed openmeteo lookup, got %v", got)
	}
	if got := testutil.ToFloat64(c.Lookups.WithLabelValues("openmeteo", "ok")); got != 1 {
		t.Errorf("expected 1 successful openmeteo lookup, got %v", got)
	}
	if got := testutil.ToFloat64(c.CacheMisses); got != 2 {
		t.Errorf("expected 2 cache misses, got %v", got)
	}
	if got := testutil.ToFloat64(c.UnavailableDays); got != 2 {
		t.Errorf("expected 2 unavailable days, got %v", got)
	}
	if got := testutil.ToFloat64(c.SavedPlans); got != 4 {
		t.Errorf("expected 4 saved plans, got %v", got)
	}
	if got := testutil.ToFloat64(c.RefreshInterval); got != 10800 {
		t.Errorf("expected refresh interval 10800s, got %v", got)
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := NewCollector(time.Hour)
	c.CacheHit()

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "tripweather_forecast_cache_hits_total 1") {
		t.Errorf("expected cache hit counter in output, got:\n%s", body)
	}
}
