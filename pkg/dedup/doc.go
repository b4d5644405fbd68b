// Package dedup implements the TTL-keyed cache that prevents re-delivery of
// semantically identical notifications within a configurable window.
//
// Cleanup is opportunistic: every Nth lookup sweeps expired keys under the
// same lock, so memory stays bounded without a dedicated goroutine and the
// hot path never blocks on a full scan.
package dedup
