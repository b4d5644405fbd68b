// Package repository defines the storage collaborator interface consumed by
// the delivery core, plus an in-memory implementation for development and
// tests. Persistence itself is owned by the storage service; the core only
// reads preferences, creates notifications and records status transitions.
package repository
