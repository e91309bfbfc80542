// Package session implements the per-client Session and the Manager that
// owns the session table: creation on first reference, touch-based
// activity tracking, an unbounded single-consumer outbound queue, and
// explicit or idle-driven termination.
//
// Generalizes the teacher's internal/session.Session, which couples a
// session directly to one live http.ResponseWriter/http.Flusher pair, into
// a transport-agnostic session whose queue any number of SSE readers can
// drain across reconnects (the session, not the stream, is durable).
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Session is a logical conversation identified by an opaque id. It owns an
// unbounded FIFO outbound queue; a GET /mcp stream observes the session by
// draining the queue, but does not own it.
type Session struct {
	ID        string
	CreatedAt time.Time

	lastAccessedMu sync.RWMutex
	lastAccessed   time.Time

	mu     sync.Mutex
	queue  []interface{}
	active bool
	notify chan struct{}
}

// newSession constructs a Session with the given id, active and empty.
func newSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		CreatedAt:    now,
		lastAccessed: now,
		active:       true,
		notify:       make(chan struct{}, 1),
	}
}

// Touch records observable activity, resetting the idle clock. Any
// server-observable activity on a session (POST, GET, SSE delivery, SSE
// ping) calls Touch.
func (s *Session) Touch() {
	s.lastAccessedMu.Lock()
	s.lastAccessed = time.Now()
	s.lastAccessedMu.Unlock()
}

// LastAccessed returns the last time Touch was called.
func (s *Session) LastAccessed() time.Time {
	s.lastAccessedMu.RLock()
	defer s.lastAccessedMu.RUnlock()
	return s.lastAccessed
}

// Active reports whether the session is still live.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// Enqueue appends msg to the outbound queue, preserving enqueue order. It
// is a no-op on an inactive session.
func (s *Session) Enqueue(msg interface{}) {
	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Dequeue blocks for up to timeout waiting for a message, returning
// (msg, true) if one became available, or (nil, false) on timeout or if
// nothing was ever enqueued within the window. It never blocks past
// timeout.
func (s *Session) Dequeue(timeout time.Duration) (interface{}, bool) {
	return s.DequeueContext(context.Background(), timeout)
}

// DequeueContext behaves like Dequeue but also returns early, with ok
// false, if ctx is cancelled before a message arrives or the timeout
// elapses — used by the SSE stream to stop promptly on client disconnect
// instead of waiting out the full poll window.
func (s *Session) DequeueContext(ctx context.Context, timeout time.Duration) (interface{}, bool) {
	if msg, ok := s.tryDequeue(); ok {
		return msg, true
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-s.notify:
		return s.tryDequeue()
	case <-timer.C:
		return nil, false
	case <-ctx.Done():
		return nil, false
	}
}

func (s *Session) tryDequeue() (interface{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.queue) == 0 {
		return nil, false
	}
	msg := s.queue[0]
	s.queue = s.queue[1:]
	return msg, true
}

// Terminate marks the session inactive and discards any undelivered
// messages. Subsequent Enqueue calls are no-ops.
func (s *Session) Terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = false
	s.queue = nil
}

// Manager owns the session table: creation, lookup, removal, and idle
// sweeping.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates an empty session table.
func NewManager() *Manager {
	return &Manager{sessions: make(map[string]*Session)}
}

// GetOrCreate returns the session for id if it exists (touching it), or
// creates and registers a new one otherwise. If id is empty a new UUID is
// generated. This realizes the resolved ambiguity around a client-supplied
// session id colliding with a live session: reuse the existing session
// rather than rejecting or silently replacing it.
func (m *Manager) GetOrCreate(id string) *Session {
	if id != "" {
		if sess, ok := m.Get(id); ok {
			sess.Touch()
			return sess
		}
	} else {
		id = uuid.NewString()
	}

	sess := newSession(id)

	m.mu.Lock()
	if existing, ok := m.sessions[id]; ok {
		m.mu.Unlock()
		existing.Touch()
		return existing
	}
	m.sessions[id] = sess
	m.mu.Unlock()

	return sess
}

// Get returns the session for id, or false if absent. It does not touch
// the session.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	sess, ok := m.sessions[id]
	return sess, ok
}

// Remove deletes and terminates the session for id, if present. Returns
// true if a session was found and removed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	if ok {
		sess.Terminate()
	}
	return ok
}

// Snapshot returns every currently registered session, for fan-out.
func (m *Manager) Snapshot() []*Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		out = append(out, sess)
	}
	return out
}

// ReapIdle removes and terminates every session whose LastAccessed is
// older than maxAge, returning the number reaped.
func (m *Manager) ReapIdle(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)

	m.mu.Lock()
	var stale []*Session
	for id, sess := range m.sessions {
		if sess.LastAccessed().Before(cutoff) {
			stale = append(stale, sess)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, sess := range stale {
		sess.Terminate()
	}
	return len(stale)
}
