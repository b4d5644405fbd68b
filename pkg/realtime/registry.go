package realtime

import (
	"log/slog"
	"sync"
	"time"

	"github.com/sonetlabs/notifier/pkg/logger"
)

// DefaultStaleTimeout is how long a session may go without liveness before
// the reaper removes it.
const DefaultStaleTimeout = 60 * time.Second

// Session is the live duplex transport handle owned by the out-of-scope
// gateway. Implementations must tolerate concurrent Send calls.
type Session interface {
	ID() string
	Send(data []byte) error
	Ping() error
	Close() error
}

// Conn ties a session to its user with liveness bookkeeping. The registry is
// the sole owner of Conn records.
type Conn struct {
	Session     Session
	UserID      string
	ConnectedAt time.Time
	LastSeen    time.Time
	Metadata    map[string]string

	active bool // guarded by the registry mutex
}

// Registry tracks live sessions per user and supports targeted send,
// broadcast, liveness pings and stale-session reaping. Both internal maps
// mutate together under one mutex; no I/O happens while it is held. Sends
// and pings operate on a snapshot taken inside the critical section.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Conn    // session id -> conn
	users    map[string][]string // user id -> session ids

	staleTimeout time.Duration
	totalAdded   uint64
	log          *slog.Logger
	now          func() time.Time
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithStaleTimeout overrides the liveness timeout used by ReapStale.
func WithStaleTimeout(d time.Duration) RegistryOption {
	return func(r *Registry) {
		if d > 0 {
			r.staleTimeout = d
		}
	}
}

// WithLogger sets the registry logger.
func WithLogger(log *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// NewRegistry creates a connection registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions:     make(map[string]*Conn),
		users:        make(map[string][]string),
		staleTimeout: DefaultStaleTimeout,
		log:          slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Add registers a session for a user. A user may hold any number of
// concurrent sessions (multi-device).
func (r *Registry) Add(sess Session, userID string, metadata map[string]string) {
	now := r.now()
	conn := &Conn{
		Session:     sess,
		UserID:      userID,
		ConnectedAt: now,
		LastSeen:    now,
		Metadata:    metadata,
		active:      true,
	}

	r.mu.Lock()
	r.sessions[sess.ID()] = conn
	r.users[userID] = append(r.users[userID], sess.ID())
	r.totalAdded++
	r.mu.Unlock()

	r.log.Debug("session registered",
		logger.Component("realtime"),
		logger.SessionID(sess.ID()),
		logger.UserID(userID))
}

// Remove drops a session, cleaning up the reverse index.
func (r *Registry) Remove(sessionID string) {
	r.mu.Lock()
	conn, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
		r.dropUserSession(conn.UserID, sessionID)
	}
	r.mu.Unlock()

	if ok {
		r.log.Debug("session removed",
			logger.Component("realtime"),
			logger.SessionID(sessionID),
			logger.UserID(conn.UserID))
	}
}

// RemoveUser drops every session the user holds.
func (r *Registry) RemoveUser(userID string) {
	r.mu.Lock()
	for _, sid := range r.users[userID] {
		delete(r.sessions, sid)
	}
	delete(r.users, userID)
	r.mu.Unlock()
}

// SendToUser fans the payload out to every live session of the user and
// reports whether at least one send succeeded. A failing session is marked
// inactive rather than removed; the reaper collects it later.
func (r *Registry) SendToUser(userID string, data []byte) bool {
	r.mu.Lock()
	conns := make([]*Conn, 0, len(r.users[userID]))
	for _, sid := range r.users[userID] {
		if conn, ok := r.sessions[sid]; ok && conn.active {
			conns = append(conns, conn)
		}
	}
	r.mu.Unlock()

	sentAny := false
	for _, conn := range conns {
		if err := conn.Session.Send(data); err != nil {
			r.markInactive(conn.Session.ID())
			r.log.Debug("session send failed",
				logger.Component("realtime"),
				logger.SessionID(conn.Session.ID()),
				logger.Error(err))
			continue
		}
		sentAny = true
	}
	return sentAny
}

// Broadcast sends the payload to every listed user.
func (r *Registry) Broadcast(userIDs []string, data []byte) {
	for _, userID := range userIDs {
		r.SendToUser(userID, data)
	}
}

// IsOnline reports whether the user has at least one active session.
func (r *Registry) IsOnline(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, sid := range r.users[userID] {
		if conn, ok := r.sessions[sid]; ok && conn.active {
			return true
		}
	}
	return false
}

// Touch refreshes a session's liveness timestamp, e.g. on an inbound client
// ping.
func (r *Registry) Touch(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conn, ok := r.sessions[sessionID]; ok {
		conn.LastSeen = r.now()
	}
}

// PingAll sends a liveness ping to every active session. Sessions that fail
// the ping are marked inactive.
func (r *Registry) PingAll() {
	r.mu.Lock()
	conns := make([]*Conn, 0, len(r.sessions))
	for _, conn := range r.sessions {
		if conn.active {
			conns = append(conns, conn)
		}
	}
	now := r.now()
	r.mu.Unlock()

	for _, conn := range conns {
		if err := conn.Session.Ping(); err != nil {
			r.markInactive(conn.Session.ID())
			continue
		}
		r.mu.Lock()
		if c, ok := r.sessions[conn.Session.ID()]; ok {
			c.LastSeen = now
		}
		r.mu.Unlock()
	}
}

// ReapStale removes sessions that are inactive or have gone silent longer
// than the stale timeout, cleaning up the reverse index as well. Returns the
// number of sessions removed.
func (r *Registry) ReapStale() int {
	cutoff := r.now().Add(-r.staleTimeout)

	r.mu.Lock()
	var doomed []*Conn
	for sid, conn := range r.sessions {
		if !conn.active || conn.LastSeen.Before(cutoff) {
			doomed = append(doomed, conn)
			delete(r.sessions, sid)
			r.dropUserSession(conn.UserID, sid)
		}
	}
	r.mu.Unlock()

	for _, conn := range doomed {
		// Close outside the lock, errors are irrelevant at this point.
		_ = conn.Session.Close()
	}

	if len(doomed) > 0 {
		r.log.Info("reaped stale sessions",
			logger.Component("realtime"),
			logger.Count(len(doomed)))
	}
	return len(doomed)
}

// Stats describes the registry's current population.
type Stats struct {
	ActiveSessions int    `json:"active_sessions"`
	TotalSessions  int    `json:"total_sessions"`
	UniqueUsers    int    `json:"unique_users"`
	LifetimeAdded  uint64 `json:"lifetime_added"`
}

// Stats returns a snapshot of the registry population.
func (r *Registry) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()

	active := 0
	for _, conn := range r.sessions {
		if conn.active {
			active++
		}
	}
	return Stats{
		ActiveSessions: active,
		TotalSessions:  len(r.sessions),
		UniqueUsers:    len(r.users),
		LifetimeAdded:  r.totalAdded,
	}
}

// UserSessionCount returns the number of active sessions the user holds.
func (r *Registry) UserSessionCount(userID string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := 0
	for _, sid := range r.users[userID] {
		if conn, ok := r.sessions[sid]; ok && conn.active {
			count++
		}
	}
	return count
}

func (r *Registry) markInactive(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if conn, ok := r.sessions[sessionID]; ok {
		conn.active = false
	}
}

// dropUserSession removes one session id from the user's list.
// Caller must hold r.mu.
func (r *Registry) dropUserSession(userID, sessionID string) {
	ids := r.users[userID]
	for i, sid := range ids {
		if sid == sessionID {
			r.users[userID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(r.users[userID]) == 0 {
		delete(r.users, userID)
	}
}
