// Package prometheus exports generator metrics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	mc, err := walkprom.NewCollector(reg, "walkgen")
//	gen, _ := walkgen.New(ctx, g, walkgen.WithMetricsCollector(mc))
//	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/walkgen"
)

// Collector implements walkgen.MetricsCollector with Prometheus metrics.
type Collector struct {
	batchLatency  *prometheus.HistogramVec
	walks         prometheus.Counter
	refillLatency prometheus.Histogram
	refillRows    prometheus.Counter
	refillShards  prometheus.Histogram
	epoch         prometheus.Gauge
}

var _ walkgen.MetricsCollector = (*Collector)(nil)

// NewCollector creates the metrics under namespace and registers them on reg.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	c := &Collector{
		batchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_latency_seconds",
			Help:      "Latency of NextBatch calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		walks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "walks_total",
			Help:      "Total walks handed out",
		}),
		refillLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refill_latency_seconds",
			Help:      "Latency of ring buffer refills",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}),
		refillRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refill_rows_total",
			Help:      "Total walks computed by refills",
		}),
		refillShards: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refill_shards",
			Help:      "Number of shards per refill",
			Buckets:   prometheus.LinearBuckets(1, 1, 16),
		}),
		epoch: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "epoch",
			Help:      "Completed passes over the valid start nodes",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.batchLatency, c.walks, c.refillLatency, c.refillRows, c.refillShards, c.epoch,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordBatch implements walkgen.MetricsCollector.
func (c *Collector) RecordBatch(size int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.batchLatency.WithLabelValues(status).Observe(d.Seconds())
	if err == nil {
		c.walks.Add(float64(size))
	}
}

// RecordRefill implements walkgen.MetricsCollector.
func (c *Collector) RecordRefill(rows, shards int, d time.Duration) {
	c.refillLatency.Observe(d.Seconds())
	c.refillRows.Add(float64(rows))
	c.refillShards.Observe(float64(shards))
}

// RecordEpoch implements walkgen.MetricsCollector.
func (c *Collector) RecordEpoch(epoch int64) {
	c.epoch.Set(float64(epoch))
}
