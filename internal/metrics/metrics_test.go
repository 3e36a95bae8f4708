package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder_Counts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := New(reg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	r.GatewayOutcome("served")
	r.GatewayOutcome("served")
	r.GatewayOutcome("redirected")
	r.Upload("local", 1024, nil)
	r.Upload("local", 10, errors.New("boom"))
	r.StorageOperation("local", "store", 5*time.Millisecond, errors.New("boom"))

	if got := testutil.ToFloat64(r.gatewayOutcomes.WithLabelValues("served")); got != 2 {
		t.Errorf("served = %v; want 2", got)
	}
	if got := testutil.ToFloat64(r.uploads.WithLabelValues("local", "error")); got != 1 {
		t.Errorf("upload errors = %v; want 1", got)
	}
	if got := testutil.ToFloat64(r.uploadedBytes); got != 1024 {
		t.Errorf("uploaded bytes = %v; want 1024", got)
	}
	if got := testutil.ToFloat64(r.storageErrors.WithLabelValues("local", "store")); got != 1 {
		t.Errorf("storage errors = %v; want 1", got)
	}
}

func TestNew_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := New(reg)
	if err != nil {
		t.Fatalf("first New: %v", err)
	}
	second, err := New(reg)
	if err != nil {
		t.Fatalf("second New: %v", err)
	}

	second.GatewayOutcome("not_found")
	if got := testutil.ToFloat64(first.gatewayOutcomes.WithLabelValues("not_found")); got != 1 {
		t.Errorf("collectors not shared, got %v", got)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	r.GatewayOutcome("served")
	r.Upload("local", 1, nil)
	r.StorageOperation("local", "delete", time.Second, nil)
}
