package store

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector exports store metrics to a Prometheus registerer.
type PrometheusCollector struct {
	ops      *prometheus.CounterVec
	bytes    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewPrometheusCollector creates the collectors and registers them with reg.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	p := &PrometheusCollector{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Number of store operations by operation and result.",
		}, []string{"op", "result"}),
		bytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "bytes_total",
			Help:      "Encoded table bytes written or read.",
		}, []string{"op"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"op"}),
	}
	for _, c := range []prometheus.Collector{p.ops, p.bytes, p.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *PrometheusCollector) record(op string, bytes int64, d time.Duration, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.ops.WithLabelValues(op, result).Inc()
	if bytes > 0 {
		p.bytes.WithLabelValues(op).Add(float64(bytes))
	}
	p.duration.WithLabelValues(op).Observe(d.Seconds())
}

// RecordSave implements MetricsCollector.
func (p *PrometheusCollector) RecordSave(bytes int64, d time.Duration, err error) {
	p.record("save", bytes, d, err)
}

// RecordLoad implements MetricsCollector.
func (p *PrometheusCollector) RecordLoad(bytes int64, d time.Duration, err error) {
	p.record("load", bytes, d, err)
}

// RecordDelete implements MetricsCollector.
func (p *PrometheusCollector) RecordDelete(d time.Duration, err error) {
	p.record("delete", 0, d, err)
}
