package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "talkcart_medias"

// Recorder exports gateway, upload and storage metrics. A nil *Recorder records nothing.
type Recorder struct {
	gatewayOutcomes *prometheus.CounterVec
	uploads         *prometheus.CounterVec
	uploadedBytes   prometheus.Counter
	storageDuration *prometheus.HistogramVec
	storageErrors   *prometheus.CounterVec
}

// New registers the collectors on reg (the default registerer when nil).
func New(reg prometheus.Registerer) (*Recorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	r := &Recorder{
		gatewayOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_gateway_outcomes_total",
			Help:      "Static asset requests by resolution outcome.",
		}, []string{"outcome"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Upload attempts by backend and result.",
		}, []string{"backend", "result"}),
		uploadedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploaded_bytes_total",
			Help:      "Cumulative payload size successfully stored.",
		}),
		storageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "storage_operation_duration_seconds",
			Help:      "Latency of storage backend operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"backend", "operation"}),
		storageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_operation_errors_total",
			Help:      "Failed storage backend operations.",
		}, []string{"backend", "operation"}),
	}

	var err error
	if r.gatewayOutcomes, err = register(reg, r.gatewayOutcomes); err != nil {
		return nil, err
	}
	if r.uploads, err = register(reg, r.uploads); err != nil {
		return nil, err
	}
	if r.uploadedBytes, err = register(reg, r.uploadedBytes); err != nil {
		return nil, err
	}
	if r.storageDuration, err = register(reg, r.storageDuration); err != nil {
		return nil, err
	}
	if r.storageErrors, err = register(reg, r.storageErrors); err != nil {
		return nil, err
	}
	return r, nil
}

// register reuses an already registered collector of the same shape.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

func (r *Recorder) GatewayOutcome(outcome string) {
	if r == nil {
		return
	}
	r.gatewayOutcomes.WithLabelValues(outcome).Inc()
}

func (r *Recorder) Upload(backend string, size int64, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.uploads.WithLabelValues(backend, "error").Inc()
		return
	}
	r.uploads.WithLabelValues(backend, "ok").Inc()
	r.uploadedBytes.Add(float64(size))
}

func (r *Recorder) StorageOperation(backend, op string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.storageDuration.WithLabelValues(backend, op).Observe(d.Seconds())
	if err != nil {
		r.storageErrors.WithLabelValues(backend, op).Inc()
	}
}
