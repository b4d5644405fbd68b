// Package channel implements the delivery channels a notification can be
// sent through and the dispatcher that fans a notification out across them.
//
// Each channel occupies one bit in the notification channel bitset. The
// dispatcher intersects three sets to decide where a notification goes:
// the channels the notification itself requests, the channels the type's
// rule allows, and the channels the user's preferences enable.
//
// Three channel implementations are provided:
//
//   - Realtime pushes JSON envelopes to live sessions via realtime.Registry,
//     optionally publishing through a Redis bridge for sessions held by
//     other instances.
//   - Push submits to a mobile push provider and waits on the async
//     acknowledgement with a bounded timeout.
//   - Email sends high and urgent priority notifications through an
//     EmailSender, metered by a token bucket provider budget. A Postmark
//     backed sender and a log-only dev sender are included.
//
// Usage:
//
//	rt := channel.NewRealtime(registry)
//	em, _ := channel.NewEmail(channel.MustNewPostmarkSender(cfg), resolver)
//	d := channel.NewDispatcher(ruleSet, []channel.Channel{rt, em})
//	d.Dispatch(ctx, n, prefs)
package channel
