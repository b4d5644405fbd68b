// Package realtime is the live delivery substrate: a connection registry
// mapping users to duplex sessions, the wire envelope format, the gateway
// hooks the transport layer calls on connect/disconnect/ping, and an
// optional Redis pub/sub bridge for multi-instance fan-out.
//
// The registry holds two maps (session to connection, user to sessions)
// that always mutate together under one lock. No I/O happens with the lock
// held: sends and pings operate on snapshots, and a failing session is
// flagged inactive for the periodic reaper instead of being torn down on the
// send path.
package realtime
