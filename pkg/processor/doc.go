// Package processor orchestrates notification processing: a bounded
// submission queue feeding a fixed worker pool, plus three background
// sweeps for batch flushing, metrics reporting and state hygiene.
//
// Each worker runs the pipeline per notification: expiry and blocked-sender
// filtering, per-user per-type rate limiting, content deduplication, then
// either accumulation into a batch or an immediate fan-out through the
// channel dispatcher. Policy rejections are counted in Stats, not surfaced
// as errors.
//
// Usage:
//
//	cfg := config.MustLoad[processor.Config]()
//	p, _ := processor.New(cfg, rules.Defaults(), dispatcher,
//		processor.WithRepository(repo),
//		processor.WithRegistry(registry),
//	)
//	_ = p.Start()
//	defer p.Stop()
//
//	accepted := p.Process(notification.NewLike(userID, likerID, noteID))
//
// Stop is cooperative: workers finish the notification they hold and exit,
// queued items stay queued, and Stop returns only after every goroutine has
// terminated.
package processor
