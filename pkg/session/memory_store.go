package session

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MemoryStore implements Store using process-local memory. It exists for
// tests and single-instance deployments; shared-store semantics require the
// Mongo or Redis store.
type MemoryStore struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxInactive time.Duration
	ticker      *time.Ticker
	done        chan struct{}
}

// NewMemoryStore creates an in-memory session store. New sessions get the
// given default inactivity timeout. A positive cleanupInterval starts a
// background sweep of expired records.
func NewMemoryStore(maxInactive, cleanupInterval time.Duration) *MemoryStore {
	store := &MemoryStore{
		sessions:    make(map[string]*Session),
		maxInactive: maxInactive,
		done:        make(chan struct{}),
	}

	if cleanupInterval > 0 {
		store.ticker = time.NewTicker(cleanupInterval)
		go store.cleanupLoop()
	}

	return store
}

// Create allocates and stores a new session.
func (m *MemoryStore) Create(ctx context.Context) (*Session, error) {
	sess := NewSession(m.maxInactive)

	m.mu.Lock()
	m.sessions[sess.ID] = copySession(sess)
	m.mu.Unlock()

	return sess, nil
}

// FindByID retrieves a live session by id. The expiry check and the deep
// copy happen under the read lock: Touch mutates stored records in place
// under the write lock, so the record must not be inspected unlocked.
func (m *MemoryStore) FindByID(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	sess, exists := m.sessions[id]
	if !exists {
		m.mu.RUnlock()
		return nil, ErrSessionNotFound
	}

	if sess.IsExpired() {
		m.mu.RUnlock()
		m.mu.Lock()
		// Re-check under the write lock: the id may have been re-saved with
		// a fresh record in the meantime.
		if cur, ok := m.sessions[id]; ok && cur.IsExpired() {
			delete(m.sessions, id)
		}
		m.mu.Unlock()
		return nil, ErrSessionNotFound
	}

	cp := copySession(sess)
	m.mu.RUnlock()
	return cp, nil
}

// Save upserts the full record by id.
func (m *MemoryStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidSession
	}

	sess.ExpiresAt = sess.expiryFrom(sess.LastAccessedAt)

	m.mu.Lock()
	m.sessions[sess.ID] = copySession(sess)
	m.mu.Unlock()

	return nil
}

// DeleteByID removes the record. Absent ids are ignored.
func (m *MemoryStore) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

// Touch updates the last accessed time and expiry of a stored session.
func (m *MemoryStore) Touch(ctx context.Context, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, exists := m.sessions[id]
	if !exists {
		return ErrSessionNotFound
	}

	sess.Touch(at)
	return nil
}

// DeleteExpired removes all expired sessions.
func (m *MemoryStore) DeleteExpired(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for id, sess := range m.sessions {
		if sess.IsExpiredAt(now) {
			delete(m.sessions, id)
		}
	}

	return nil
}

// Len returns the number of stored sessions, expired or not.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close stops the cleanup goroutine.
func (m *MemoryStore) Close() error {
	if m.ticker != nil {
		m.ticker.Stop()
		close(m.done)
	}
	return nil
}

func (m *MemoryStore) cleanupLoop() {
	for {
		select {
		case <-m.ticker.C:
			_ = m.DeleteExpired(context.Background())
		case <-m.done:
			return
		}
	}
}

// copySession returns a deep copy so callers never share the stored map.
func copySession(sess *Session) *Session {
	cp := *sess
	if sess.Attributes != nil {
		cp.Attributes = make(map[string]any, len(sess.Attributes))
		maps.Copy(cp.Attributes, sess.Attributes)
	}
	return &cp
}
