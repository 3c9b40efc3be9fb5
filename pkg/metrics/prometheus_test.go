package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordFetch("stocks", "ready", 0.2)
	r.RecordFetch("stocks", "ready", 0.1)
	r.RecordFetch("trends", "transport", 1)
	r.RecordDispatch("trends")
	r.RecordStale("stocks")

	if got := testutil.ToFloat64(r.fetchTotal.WithLabelValues("stocks", "ready")); got != 2 {
		t.Fatalf("stocks ready = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.fetchTotal.WithLabelValues("trends", "transport")); got != 1 {
		t.Fatalf("trends transport = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.dispatchTotal.WithLabelValues("trends")); got != 1 {
		t.Fatalf("dispatch = %v, want 1", got)
	}
	if got := testutil.ToFloat64(r.staleTotal.WithLabelValues("stocks")); got != 1 {
		t.Fatalf("stale = %v, want 1", got)
	}
}

func TestNewOnSeparateRegistries(t *testing.T) {
	// Each recorder owns its collectors, so building two must not panic.
	New(prometheus.NewRegistry())
	New(prometheus.NewRegistry())
}
