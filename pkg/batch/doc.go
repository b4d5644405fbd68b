// Package batch implements time-windowed grouping of compatible
// notifications into single delivery units.
//
// A notification is batch-eligible only when its type's rule enables
// batching. Open batches are keyed by (user, type); a batch that reaches the
// rule's size cap is flushed immediately, batches that age past their window
// are collected by the processor's periodic sweep. A batch is one logical
// delivery: its members succeed or fail together.
package batch
