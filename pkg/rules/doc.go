// Package rules holds the per-type processing policy table that drives the
// delivery pipeline: batching windows and caps, dedup windows, hourly and
// daily rate limits, allowed channels and default priority.
//
// The table is immutable after load. Defaults() reproduces the production
// policy; FromYAML lets operations ship an edited table without a rebuild.
// A type absent from the table is processed as "send immediately, unlimited".
package rules
