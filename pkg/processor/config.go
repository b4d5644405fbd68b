package processor

import "time"

// Config tunes the processing orchestrator. Zero values are replaced with
// the defaults below, so an empty Config is always usable.
type Config struct {
	// Workers is the number of pipeline worker goroutines.
	Workers int `env:"NOTIFIER_WORKERS" envDefault:"4"`

	// QueueSize bounds the in-memory submission queue. When the queue is
	// full, Process rejects instead of blocking the caller.
	QueueSize int `env:"NOTIFIER_QUEUE_SIZE" envDefault:"10000"`

	// BatchSweepInterval is how often ready batches are flushed.
	BatchSweepInterval time.Duration `env:"NOTIFIER_BATCH_SWEEP_INTERVAL" envDefault:"1s"`

	// MetricsInterval is how often pipeline stats are logged.
	MetricsInterval time.Duration `env:"NOTIFIER_METRICS_INTERVAL" envDefault:"30s"`

	// HealthInterval is how often stale limiter and session state is reaped.
	HealthInterval time.Duration `env:"NOTIFIER_HEALTH_INTERVAL" envDefault:"1m"`

	// LimiterIdleTimeout is how long a user's rate limit state may sit idle
	// before the health sweep evicts it.
	LimiterIdleTimeout time.Duration `env:"NOTIFIER_LIMITER_IDLE_TIMEOUT" envDefault:"24h"`
}

const (
	DefaultWorkers            = 4
	DefaultQueueSize          = 10000
	DefaultBatchSweepInterval = time.Second
	DefaultMetricsInterval    = 30 * time.Second
	DefaultHealthInterval     = time.Minute
	DefaultLimiterIdleTimeout = 24 * time.Hour
)

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.BatchSweepInterval <= 0 {
		c.BatchSweepInterval = DefaultBatchSweepInterval
	}
	if c.MetricsInterval <= 0 {
		c.MetricsInterval = DefaultMetricsInterval
	}
	if c.HealthInterval <= 0 {
		c.HealthInterval = DefaultHealthInterval
	}
	if c.LimiterIdleTimeout <= 0 {
		c.LimiterIdleTimeout = DefaultLimiterIdleTimeout
	}
	return c
}
