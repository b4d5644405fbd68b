package processor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sonetlabs/notifier/pkg/async"
	"github.com/sonetlabs/notifier/pkg/batch"
	"github.com/sonetlabs/notifier/pkg/channel"
	"github.com/sonetlabs/notifier/pkg/dedup"
	"github.com/sonetlabs/notifier/pkg/notification"
	"github.com/sonetlabs/notifier/pkg/ratelimit"
	"github.com/sonetlabs/notifier/pkg/realtime"
	"github.com/sonetlabs/notifier/pkg/repository"
	"github.com/sonetlabs/notifier/pkg/rules"
)

// Processor runs the notification pipeline: a bounded submission queue, a
// fixed worker pool applying rate limiting, deduplication and batching, and
// three background sweeps (batch flush, metrics, health).
type Processor struct {
	cfg        Config
	rules      *rules.Set
	dispatcher *channel.Dispatcher
	limiter    *ratelimit.Limiter
	dedup      *dedup.Cache
	batches    *batch.Manager
	registry   *realtime.Registry
	repo       repository.Repository
	sink       MetricsSink
	log        *slog.Logger
	now        func() time.Time

	queue     chan notification.Notification
	quit      chan struct{}
	wg        sync.WaitGroup
	running   atomic.Bool
	lifecycle sync.Mutex
	startedAt time.Time

	stats counters
}

// Option configures the processor.
type Option func(*Processor)

// WithRepository attaches the storage collaborator. Without it the pipeline
// still delivers but records no status transitions.
func WithRepository(repo repository.Repository) Option {
	return func(p *Processor) { p.repo = repo }
}

// WithRegistry attaches the realtime session registry so the health sweep
// can ping and reap stale sessions.
func WithRegistry(r *realtime.Registry) Option {
	return func(p *Processor) { p.registry = r }
}

// WithMetricsSink attaches a sink the metrics sweep reports snapshots to.
func WithMetricsSink(sink MetricsSink) Option {
	return func(p *Processor) { p.sink = sink }
}

// WithLogger sets the logger for pipeline diagnostics.
func WithLogger(log *slog.Logger) Option {
	return func(p *Processor) { p.log = log }
}

// WithClock overrides the time source. The override propagates to the
// limiter, dedup cache and batch manager the processor creates.
func WithClock(now func() time.Time) Option {
	return func(p *Processor) { p.now = now }
}

// New creates a processor over the given rule set and dispatcher.
func New(cfg Config, ruleSet *rules.Set, dispatcher *channel.Dispatcher, opts ...Option) (*Processor, error) {
	if dispatcher == nil {
		return nil, ErrMissingDispatcher
	}
	if ruleSet == nil {
		ruleSet = rules.Defaults()
	}

	p := &Processor{
		cfg:        cfg.withDefaults(),
		rules:      ruleSet,
		dispatcher: dispatcher,
		log:        slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.limiter = ratelimit.New(ratelimit.WithClock(p.now))
	p.dedup = dedup.New(dedup.WithClock(p.now))
	p.batches = batch.NewManager(batch.WithClock(p.now))
	p.queue = make(chan notification.Notification, p.cfg.QueueSize)

	return p, nil
}

// Start launches the worker pool and sweep loops. Calling Start on a
// running processor returns ErrAlreadyRunning.
func (p *Processor) Start() error {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if !p.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}

	p.quit = make(chan struct{})
	p.startedAt = p.now()

	for i := 0; i < p.cfg.Workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.wg.Add(3)
	go p.batchSweep()
	go p.metricsSweep()
	go p.healthSweep()

	p.log.Info("processor started",
		slog.Int("workers", p.cfg.Workers),
		slog.Int("queue_size", p.cfg.QueueSize),
	)
	return nil
}

// Stop shuts the pipeline down. Workers finish the item they hold and
// return; items still queued stay queued, with their stored status
// untouched. Stop blocks until every goroutine has exited.
func (p *Processor) Stop() error {
	p.lifecycle.Lock()
	defer p.lifecycle.Unlock()

	if !p.running.CompareAndSwap(true, false) {
		return ErrNotRunning
	}

	close(p.quit)
	p.wg.Wait()

	p.log.Info("processor stopped",
		slog.Int("queued_remaining", len(p.queue)),
	)
	return nil
}

// Running reports whether the pipeline is accepting work.
func (p *Processor) Running() bool { return p.running.Load() }

// QueueSize returns the number of notifications waiting in the queue.
func (p *Processor) QueueSize() int { return len(p.queue) }

// Process validates and enqueues a notification. It never blocks: a full
// queue or a stopped processor rejects with false.
func (p *Processor) Process(n notification.Notification) bool {
	if !p.running.Load() {
		return false
	}
	if err := n.Validate(); err != nil {
		p.log.Warn("rejected invalid notification",
			slog.String("notification_id", n.ID),
			slog.Any("error", err),
		)
		return false
	}

	select {
	case p.queue <- n:
		return true
	default:
		p.log.Warn("queue full, notification rejected",
			slog.String("notification_id", n.ID),
			slog.String("user_id", n.UserID),
		)
		return false
	}
}

// ProcessBulk enqueues a slice of notifications and reports acceptance
// per item.
func (p *Processor) ProcessBulk(ns []notification.Notification) []bool {
	accepted := make([]bool, len(ns))
	for i, n := range ns {
		accepted[i] = p.Process(n)
	}
	return accepted
}

// SendImmediate bypasses the queue and every pipeline gate (rate limits,
// dedup, batching) and dispatches the notification right away. The returned
// future resolves to true once at least one channel delivered it.
func (p *Processor) SendImmediate(ctx context.Context, n notification.Notification) *async.Future[bool] {
	if err := n.Validate(); err != nil {
		return async.Resolved(false, err)
	}

	return async.Go(ctx, func(ctx context.Context) (bool, error) {
		prefs := p.preferences(ctx, n.UserID)
		p.persist(ctx, n)

		if !p.dispatcher.Dispatch(ctx, n, prefs) {
			p.stats.failed.Add(1)
			p.markStatus(ctx, n.ID, notification.StatusFailed, "immediate delivery failed")
			return false, ErrDeliveryFailed
		}

		p.stats.delivered.Add(1)
		p.markStatus(ctx, n.ID, notification.StatusDelivered, "")
		return true, nil
	})
}

// ForceFlushUser delivers the user's open batches immediately, regardless
// of their batch windows. Returns the number of batches flushed.
func (p *Processor) ForceFlushUser(userID string) int {
	flushed := p.batches.FlushUser(userID)
	for _, b := range flushed {
		p.deliverBatch(context.Background(), b)
	}
	return len(flushed)
}

// ThrottleUser suppresses all of the user's notifications for the duration.
func (p *Processor) ThrottleUser(userID string, d time.Duration) {
	p.limiter.Throttle(userID, d)
}

// UnthrottleUser lifts a throttle ahead of its expiry.
func (p *Processor) UnthrottleUser(userID string) {
	p.limiter.Unthrottle(userID)
}

// Stats returns a snapshot of the pipeline counters.
func (p *Processor) Stats() Stats {
	var uptime time.Duration
	if p.running.Load() {
		uptime = p.now().Sub(p.startedAt)
	}
	return p.stats.snapshot(len(p.queue), uptime)
}

// ResetStats zeroes every pipeline counter.
func (p *Processor) ResetStats() { p.stats.reset() }

func (p *Processor) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case <-p.quit:
			return
		case n := <-p.queue:
			p.handle(n)
		}
	}
}

// handle runs one notification through the pipeline. A panic in any stage
// fails that notification only; the worker keeps going.
func (p *Processor) handle(n notification.Notification) {
	defer func() {
		if r := recover(); r != nil {
			p.stats.failed.Add(1)
			p.log.Error("pipeline panic",
				slog.String("notification_id", n.ID),
				slog.String("user_id", n.UserID),
				slog.Any("panic", r),
			)
		}
	}()

	ctx := context.Background()
	p.stats.processed.Add(1)

	if n.IsExpired() {
		p.stats.filtered.Add(1)
		p.markStatus(ctx, n.ID, notification.StatusCancelled, "")
		return
	}

	prefs := p.preferences(ctx, n.UserID)
	if n.SenderID != "" && prefs.SenderBlocked(n.SenderID) {
		p.stats.filtered.Add(1)
		p.markStatus(ctx, n.ID, notification.StatusCancelled, "")
		return
	}

	rule, hasRule := p.rules.Get(n.Type)

	if !p.limiter.Allow(n.UserID, n.Type, rule, hasRule) {
		p.stats.rateLimited.Add(1)
		p.markStatus(ctx, n.ID, notification.StatusFailed, "rate limited")
		return
	}

	if hasRule && rule.Deduplicate && p.dedup.IsDuplicate(&n, rule.DedupWindow) {
		p.stats.deduplicated.Add(1)
		p.markStatus(ctx, n.ID, notification.StatusCancelled, "")
		return
	}

	// Quiet hours hold back interruptive channels; the in-app feed still
	// receives the notification. Urgent traffic ignores quiet hours.
	if n.Priority < notification.PriorityUrgent && prefs.InQuietHours(p.now()) {
		n.Channels = n.Channels.Without(notification.ChannelPush).Without(notification.ChannelEmail)
	}

	p.persist(ctx, n)

	if hasRule && rule.Batching {
		full, err := p.batches.Put(n, rule)
		if err != nil {
			p.stats.failed.Add(1)
			p.markStatus(ctx, n.ID, notification.StatusFailed, fmt.Sprintf("batching: %v", err))
			return
		}
		p.stats.batched.Add(1)
		p.stats.batchesCreated.Store(p.batches.Created())
		if full != nil {
			p.deliverBatch(ctx, full)
		}
		return
	}

	p.dispatch(ctx, n, prefs)
}

func (p *Processor) dispatch(ctx context.Context, n notification.Notification, prefs notification.Preferences) {
	if p.dispatcher.Dispatch(ctx, n, prefs) {
		p.stats.delivered.Add(1)
		p.markStatus(ctx, n.ID, notification.StatusDelivered, "")
		return
	}
	p.stats.failed.Add(1)
	p.markStatus(ctx, n.ID, notification.StatusFailed, "all channels failed")
}

func (p *Processor) deliverBatch(ctx context.Context, b *notification.Batch) {
	prefs := p.preferences(ctx, b.UserID)

	if p.dispatcher.DispatchBatch(ctx, b, prefs) {
		b.MarkDelivered()
		p.stats.batchesSent.Add(1)
		p.stats.delivered.Add(1)
		for _, m := range b.Members {
			p.markStatus(ctx, m.ID, notification.StatusDelivered, "")
		}
		return
	}

	b.MarkFailed()
	p.stats.failed.Add(1)
	for _, m := range b.Members {
		p.markStatus(ctx, m.ID, notification.StatusFailed, "batch delivery failed")
	}
}

func (p *Processor) batchSweep() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.BatchSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case <-ticker.C:
			for _, b := range p.batches.FlushReady() {
				p.deliverBatch(context.Background(), b)
			}
		}
	}
}

func (p *Processor) metricsSweep() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.MetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case <-ticker.C:
			s := p.Stats()
			p.log.Info("pipeline stats",
				slog.Uint64("processed", s.Processed),
				slog.Uint64("delivered", s.Delivered),
				slog.Uint64("batched", s.Batched),
				slog.Uint64("deduplicated", s.Deduplicated),
				slog.Uint64("rate_limited", s.RateLimited),
				slog.Uint64("failed", s.Failed),
				slog.Uint64("batches_sent", s.BatchesSent),
				slog.Int("queue_depth", s.QueueDepth),
				slog.Float64("per_second", s.PerSecond),
			)
			if p.sink != nil {
				p.sink.RecordStats(s)
			}
		}
	}
}

func (p *Processor) healthSweep() {
	defer p.wg.Done()

	ticker := time.NewTicker(p.cfg.HealthInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.quit:
			return
		case <-ticker.C:
			evicted := p.limiter.CleanupStale(p.cfg.LimiterIdleTimeout)
			swept := p.dedup.Sweep()
			if p.registry != nil {
				p.registry.PingAll()
				p.registry.ReapStale()
			}
			if p.repo != nil {
				if _, err := p.repo.CleanupExpired(context.Background()); err != nil {
					p.log.Warn("expired cleanup failed", slog.Any("error", err))
				}
			}
			p.log.Debug("health sweep",
				slog.Int("limiter_evicted", evicted),
				slog.Int("dedup_swept", swept),
			)
		}
	}
}

// preferences resolves the user's delivery preferences, falling back to the
// defaults when none are stored or no repository is attached.
func (p *Processor) preferences(ctx context.Context, userID string) notification.Preferences {
	if p.repo == nil {
		return notification.DefaultPreferences(userID)
	}
	prefs, err := p.repo.GetPreferences(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrPreferencesNotFound) {
			p.log.Warn("preference lookup failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		return notification.DefaultPreferences(userID)
	}
	return *prefs
}

func (p *Processor) persist(ctx context.Context, n notification.Notification) {
	if p.repo == nil {
		return
	}
	if err := p.repo.Create(ctx, n); err != nil && !errors.Is(err, repository.ErrAlreadyExists) {
		p.log.Warn("persist failed",
			slog.String("notification_id", n.ID),
			slog.Any("error", err),
		)
	}
}

func (p *Processor) markStatus(ctx context.Context, id string, status notification.Status, reason string) {
	if p.repo == nil {
		return
	}
	if err := p.repo.UpdateStatus(ctx, id, status, reason); err != nil && !errors.Is(err, repository.ErrNotFound) {
		p.log.Warn("status update failed",
			slog.String("notification_id", id),
			slog.String("status", string(status)),
			slog.Any("error", err),
		)
	}
}
