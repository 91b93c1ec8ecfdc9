// internal/domain/session/manager.go
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// entry pairs a session with its last-touched time
type entry struct {
	session  *Session
	lastSeen time.Time
}

// Manager hands out sessions keyed by bearer token, so a shopper's cart
// snapshot and in-flight guards survive across requests. Idle sessions
// are evicted after the configured TTL; eviction only drops the
// in-memory holder, the cached cart snapshot in Redis outlives it.
type Manager struct {
	deps Deps
	ttl  time.Duration

	mu       sync.Mutex
	sessions map[string]*entry
	stop     chan struct{}
	stopOnce sync.Once
}

// NewManager creates a session manager and starts its eviction janitor
func NewManager(deps Deps, ttl, cleanupInterval time.Duration) *Manager {
	m := &Manager{
		deps:     deps,
		ttl:      ttl,
		sessions: make(map[string]*entry),
		stop:     make(chan struct{}),
	}

	go m.janitor(cleanupInterval)

	return m
}

// Get returns the session for a bearer token, creating it on first use.
// An empty token always yields a fresh anonymous session.
func (m *Manager) Get(ctx context.Context, tok string) *Session {
	if tok == "" {
		return New(ctx, m.deps, "")
	}

	key := sessionKey(tok)

	m.mu.Lock()
	if e, ok := m.sessions[key]; ok {
		e.lastSeen = time.Now()
		m.mu.Unlock()
		return e.session
	}
	m.mu.Unlock()

	// Built outside the lock; the upstream seed call must not block
	// other shoppers' lookups.
	sess := New(ctx, m.deps, tok)

	m.mu.Lock()
	defer m.mu.Unlock()
	if e, ok := m.sessions[key]; ok {
		e.lastSeen = time.Now()
		return e.session
	}
	m.sessions[key] = &entry{session: sess, lastSeen: time.Now()}
	return sess
}

// Drop removes a token's session, used on logout
func (m *Manager) Drop(tok string) {
	if tok == "" {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionKey(tok))
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops the eviction janitor
func (m *Manager) Close() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

func (m *Manager) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.stop:
			return
		}
	}
}

func (m *Manager) evictIdle() {
	cutoff := time.Now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(m.sessions, key)
		}
	}
}

// sessionKey hashes the bearer token so raw tokens never sit in the map
// as keys or show up in debug dumps.
func sessionKey(tok string) string {
	sum := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(sum[:])
}
