package goBroker

import (
	"testing"
	"time"
)

func TestMetricsDisabledIsNoOp(t *testing.T) {
	m := NewMetrics(MetricsConfig{})

	m.Inc(MetricLoginSuccess)
	m.Observe(MetricLoginLatency, time.Second)

	if m.Enabled() {
		t.Fatal("expected a disabled instance")
	}
	if got := m.Value(MetricLoginSuccess); got != 0 {
		t.Fatalf("disabled metrics must not count, got %d", got)
	}
	snap := m.Snapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("disabled snapshot must be empty: %+v", snap)
	}
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Inc(MetricLoginSuccess)
	m.Inc(MetricLoginSuccess)
	m.Inc(MetricRefreshFailure)

	if got := m.Value(MetricLoginSuccess); got != 2 {
		t.Fatalf("expected 2, got %d", got)
	}
	snap := m.Snapshot()
	if snap.Counters[MetricLoginSuccess] != 2 || snap.Counters[MetricRefreshFailure] != 1 {
		t.Fatalf("snapshot mismatch: %+v", snap.Counters)
	}
	if snap.Counters[MetricLogout] != 0 {
		t.Fatal("untouched counters must snapshot as zero")
	}
}

func TestMetricsLatencyBuckets(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricLoginLatency, 10*time.Millisecond)
	m.Observe(MetricLoginLatency, 120*time.Millisecond)
	m.Observe(MetricLoginLatency, 3*time.Second)
	m.Observe(MetricLoginLatency, 20*time.Second)

	buckets := m.Snapshot().Histograms[MetricLoginLatency]
	if len(buckets) != 8 {
		t.Fatalf("expected 8 buckets, got %d", len(buckets))
	}
	want := []uint64{1, 0, 1, 0, 0, 0, 1, 1}
	for i, w := range want {
		if buckets[i] != w {
			t.Fatalf("bucket %d: expected %d, got %d (all: %v)", i, w, buckets[i], buckets)
		}
	}
}

func TestMetricsObserveOnlyLatencyID(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true, EnableLatencyHistograms: true})

	m.Observe(MetricLoginSuccess, time.Second)

	snap := m.Snapshot()
	for _, b := range snap.Histograms[MetricLoginLatency] {
		if b != 0 {
			t.Fatalf("counter ids must not record samples: %v", snap.Histograms)
		}
	}
}

func TestMetricsLatencyDisabledSeparately(t *testing.T) {
	m := NewMetrics(MetricsConfig{Enabled: true})

	m.Observe(MetricLoginLatency, time.Second)

	snap := m.Snapshot()
	if len(snap.Histograms) != 0 {
		t.Fatalf("histograms must stay empty without the latency toggle: %+v", snap.Histograms)
	}
}
