package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestStorefrontMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewStorefrontMetrics(reg)
	metrics.IncItemAdded("crescent")
	metrics.IncItemAdded("crescent")
	metrics.ObserveOrder("crescent", "storefront", 1500)
	metrics.IncTenantResolution(TenantUnknown)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_items_added_total", "vendor", "crescent"); err != nil {
		t.Fatalf("fetch items added: %v", err)
	} else if got != 2 {
		t.Fatalf("expected items added=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "orders_created_total", "channel", "storefront"); err != nil {
		t.Fatalf("fetch orders: %v", err)
	} else if got != 1 {
		t.Fatalf("expected orders=1, got %f", got)
	}

	if got, err := fetchHistogramSum(mfs, "order_value_cents", "channel", "storefront"); err != nil {
		t.Fatalf("fetch order value: %v", err)
	} else if got != 1500 {
		t.Fatalf("expected order value sum 1500, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "tenant_resolutions_total", "outcome", TenantUnknown); err != nil {
		t.Fatalf("fetch tenant outcome: %v", err)
	} else if got != 1 {
		t.Fatalf("expected unknown tenant=1, got %f", got)
	}
}

func TestNilStorefrontMetricsIsNoop(t *testing.T) {
	var metrics *StorefrontMetrics
	metrics.IncItemAdded("x")
	metrics.ObserveOrder("x", "whatsapp", 100)
	metrics.IncTenantResolution(TenantBare)

	NewStorefrontMetrics(nil).IncItemAdded("x")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
