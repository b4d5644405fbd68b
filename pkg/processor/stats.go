package processor

import (
	"sync/atomic"
	"time"
)

// Stats is a point-in-time snapshot of pipeline counters.
type Stats struct {
	Processed      uint64        `json:"processed"`
	Delivered      uint64        `json:"delivered"`
	Batched        uint64        `json:"batched"`
	Deduplicated   uint64        `json:"deduplicated"`
	RateLimited    uint64        `json:"rate_limited"`
	Filtered       uint64        `json:"filtered"`
	Failed         uint64        `json:"failed"`
	BatchesCreated uint64        `json:"batches_created"`
	BatchesSent    uint64        `json:"batches_sent"`
	QueueDepth     int           `json:"queue_depth"`
	Uptime         time.Duration `json:"uptime"`
	PerSecond      float64       `json:"per_second"`
}

// counters holds the atomic counters the workers and sweeps bump. Snapshots
// are taken field by field, so a snapshot is approximate under load.
type counters struct {
	processed      atomic.Uint64
	delivered      atomic.Uint64
	batched        atomic.Uint64
	deduplicated   atomic.Uint64
	rateLimited    atomic.Uint64
	filtered       atomic.Uint64
	failed         atomic.Uint64
	batchesCreated atomic.Uint64
	batchesSent    atomic.Uint64
}

func (c *counters) snapshot(queueDepth int, uptime time.Duration) Stats {
	s := Stats{
		Processed:      c.processed.Load(),
		Delivered:      c.delivered.Load(),
		Batched:        c.batched.Load(),
		Deduplicated:   c.deduplicated.Load(),
		RateLimited:    c.rateLimited.Load(),
		Filtered:       c.filtered.Load(),
		Failed:         c.failed.Load(),
		BatchesCreated: c.batchesCreated.Load(),
		BatchesSent:    c.batchesSent.Load(),
		QueueDepth:     queueDepth,
		Uptime:         uptime,
	}
	if secs := uptime.Seconds(); secs > 0 {
		s.PerSecond = float64(s.Processed) / secs
	}
	return s
}

func (c *counters) reset() {
	c.processed.Store(0)
	c.delivered.Store(0)
	c.batched.Store(0)
	c.deduplicated.Store(0)
	c.rateLimited.Store(0)
	c.filtered.Store(0)
	c.failed.Store(0)
	c.batchesCreated.Store(0)
	c.batchesSent.Store(0)
}

// MetricsSink receives periodic stats snapshots from the metrics sweep.
// Implementations must not block; the sweep calls them inline.
type MetricsSink interface {
	RecordStats(s Stats)
}

// MetricsSinkFunc adapts a function to the MetricsSink interface.
type MetricsSinkFunc func(s Stats)

func (f MetricsSinkFunc) RecordStats(s Stats) { f(s) }
