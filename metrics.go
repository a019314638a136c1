package walkgen

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives operational metrics from a Generator.
// Implement this interface to integrate with a monitoring system; see
// metrics/prometheus for a Prometheus implementation.
type MetricsCollector interface {
	// RecordBatch is called after each NextBatch with the requested size.
	RecordBatch(size int, duration time.Duration, err error)

	// RecordRefill is called after each ring buffer refill.
	RecordRefill(rows, shards int, duration time.Duration)

	// RecordEpoch is called when the epoch counter advances.
	RecordEpoch(epoch int64)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordBatch(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRefill(int, int, time.Duration)  {}
func (NoopMetricsCollector) RecordEpoch(int64)                     {}

// BasicMetricsCollector keeps counters in memory.
// Useful for debugging and tests without external dependencies.
type BasicMetricsCollector struct {
	BatchCount       atomic.Int64
	BatchErrors      atomic.Int64
	BatchRows        atomic.Int64
	BatchTotalNanos  atomic.Int64
	RefillCount      atomic.Int64
	RefillRows       atomic.Int64
	RefillShards     atomic.Int64
	RefillTotalNanos atomic.Int64
	Epoch            atomic.Int64
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(size int, duration time.Duration, err error) {
	b.BatchCount.Add(1)
	b.BatchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.BatchErrors.Add(1)
		return
	}
	b.BatchRows.Add(int64(size))
}

// RecordRefill implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRefill(rows, shards int, duration time.Duration) {
	b.RefillCount.Add(1)
	b.RefillRows.Add(int64(rows))
	b.RefillShards.Add(int64(shards))
	b.RefillTotalNanos.Add(duration.Nanoseconds())
}

// RecordEpoch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEpoch(epoch int64) {
	b.Epoch.Store(epoch)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		BatchCount:     b.BatchCount.Load(),
		BatchErrors:    b.BatchErrors.Load(),
		BatchRows:      b.BatchRows.Load(),
		BatchAvgNanos:  avg(b.BatchTotalNanos.Load(), b.BatchCount.Load()),
		RefillCount:    b.RefillCount.Load(),
		RefillRows:     b.RefillRows.Load(),
		RefillShards:   b.RefillShards.Load(),
		RefillAvgNanos: avg(b.RefillTotalNanos.Load(), b.RefillCount.Load()),
		Epoch:          b.Epoch.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	BatchCount     int64
	BatchErrors    int64
	BatchRows      int64
	BatchAvgNanos  int64
	RefillCount    int64
	RefillRows     int64
	RefillShards   int64
	RefillAvgNanos int64
	Epoch          int64
}
