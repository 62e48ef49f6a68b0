package metrics

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestCartMetricsExportsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewCartMetrics(reg)

	metrics.IncOperation("add_item")
	metrics.IncOperation("add_item")
	metrics.IncPersistFailure("add_item")
	metrics.IncCouponRejected("minimum_purchase")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "cart_operations_total", "op", "add_item"); err != nil {
		t.Fatalf("fetch operations: %v", err)
	} else if got != 2 {
		t.Fatalf("expected operations=2, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_persist_failures_total", "op", "add_item"); err != nil {
		t.Fatalf("fetch failures: %v", err)
	} else if got != 1 {
		t.Fatalf("expected failures=1, got %f", got)
	}

	if got, err := fetchCounterValue(mfs, "cart_coupon_rejections_total", "reason", "minimum_purchase"); err != nil {
		t.Fatalf("fetch rejections: %v", err)
	} else if got != 1 {
		t.Fatalf("expected rejections=1, got %f", got)
	}
}

func TestCartMetricsNilReceiverIsSafe(t *testing.T) {
	var metrics *CartMetrics
	metrics.IncOperation("add_item")
	metrics.IncPersistFailure("add_item")
	metrics.IncCouponRejected("expired")

	empty := NewCartMetrics(nil)
	empty.IncOperation("")
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	for _, mf := range mfs {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if pair.GetName() == label && pair.GetValue() == value {
					return metric.GetCounter().GetValue(), nil
				}
			}
		}
	}
	return 0, fmt.Errorf("metric %q with %s=%s not found", name, label, value)
}
