package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestObserveRequestRecordsCountAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "/api/v1/products", 200, 150*time.Millisecond)
	m.ObserveRequest("GET", "/api/v1/products", 200, 50*time.Millisecond)
	m.ObserveRequest("POST", "/api/v1/orders", 201, 20*time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	counter, ok := byName["http_requests_total"]
	if !ok {
		t.Fatal("expected http_requests_total to be registered")
	}
	var getCount float64
	for _, metric := range counter.GetMetric() {
		labels := map[string]string{}
		for _, lp := range metric.GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		if labels["method"] == "GET" && labels["route"] == "/api/v1/products" && labels["status"] == "200" {
			getCount = metric.GetCounter().GetValue()
		}
	}
	if getCount != 2 {
		t.Fatalf("expected 2 GET requests recorded, got %v", getCount)
	}

	hist, ok := byName["http_request_duration_seconds"]
	if !ok {
		t.Fatal("expected http_request_duration_seconds to be registered")
	}
	var sampleCount uint64
	for _, metric := range hist.GetMetric() {
		sampleCount += metric.GetHistogram().GetSampleCount()
	}
	if sampleCount != 3 {
		t.Fatalf("expected 3 duration samples, got %d", sampleCount)
	}
}

func TestObserveRequestNormalizesEmptyRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)

	m.ObserveRequest("GET", "", 404, time.Millisecond)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, fam := range families {
		if fam.GetName() != "http_requests_total" {
			continue
		}
		for _, metric := range fam.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "route" && lp.GetValue() == "unknown" {
					found = true
				}
			}
		}
	}
	if !found {
		t.Fatal("expected empty route to be labelled unknown")
	}
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *HTTPMetrics
	m.ObserveRequest("GET", "/x", 200, time.Second)

	m = NewHTTPMetrics(nil)
	m.ObserveRequest("GET", "/x", 200, time.Second)
}
