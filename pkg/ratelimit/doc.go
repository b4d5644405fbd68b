// Package ratelimit implements the per-user, per-type notification rate
// limiter: sliding hourly and daily counters with lazy window reset, plus an
// explicit throttle that suppresses a user entirely for a duration.
//
// Allow never returns an error; rejection is a plain boolean surfaced through
// the processor's counters. State for idle users is evicted by CleanupStale,
// which the processor's health sweep calls periodically.
package ratelimit
