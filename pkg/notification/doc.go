// Package notification defines the domain model for the delivery core:
// the Notification unit of work, the Batch aggregate, user Preferences,
// and the closed Type/Priority/Status/Channel enumerations.
//
// The model is transport- and storage-agnostic. Lifecycle mutation happens
// through the Mark* methods so status transitions stay consistent with the
// attempt counter and timestamps.
//
// Event constructors (NewLike, NewFollow, ...) are the canonical way for
// domain services to produce notifications: they pre-set type, priority,
// requested channels, content references and the grouping key so the
// processing pipeline can make batching and dedup decisions without
// inspecting event payloads.
package notification
