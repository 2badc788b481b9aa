package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Manager orchestrates the session lifecycle: resolving candidate ids from
// a request, loading or creating the backing record, persisting mutations,
// and writing the id back onto the response.
//
// Concurrent requests for the same session race on read-modify-write of the
// attribute bag; the last full-record save wins. Store access is serialized
// per call through the ambient request context only.
type Manager struct {
	store         Store
	resolver      Resolver
	config        Config
	cookies       *cookie.Manager
	cookieOptions []cookie.Option
	log           *slog.Logger
	touchChan     chan touchUpdate
	done          chan struct{}
}

// touchUpdate carries an asynchronous access-time bump.
type touchUpdate struct {
	id string
	at time.Time
}

// New creates a session manager with the given options. Without WithStore
// an in-memory store is used; without WithResolver a hybrid header+cookie
// resolver is built from the configured channel names.
func New(opts ...Option) *Manager {
	m := &Manager{
		config:    DefaultConfig(),
		touchChan: make(chan touchUpdate, 1000),
		done:      make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}

	if m.store == nil {
		m.store = NewMemoryStore(m.config.MaxInactiveInterval, m.config.CleanupInterval)
	}

	if m.resolver == nil {
		if m.cookies == nil {
			m.cookies = cookie.New()
		}
		cookieOpts := m.cookieOptions
		if m.config.SecureCookies {
			cookieOpts = append([]cookie.Option{cookie.WithSecure(true)}, cookieOpts...)
		}
		m.resolver = NewHybridResolver(
			NewHeaderResolver(m.config.HeaderName),
			NewCookieResolver(m.cookies, m.config.CookieName, cookieOpts...),
		)
	}

	go m.touchWorker()

	return m
}

// Load resolves candidate ids from the request and returns the first live
// session. A missing or expired record yields ErrSessionNotFound; store
// connectivity failures propagate as-is and are never downgraded to
// "no session".
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, error) {
	for _, id := range m.resolver.ResolveSessionIDs(r) {
		sess, err := m.store.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, ErrSessionNotFound) {
				continue
			}
			return nil, err
		}

		now := time.Now()
		sess.Touch(now)
		m.queueTouch(sess.ID, now)
		return sess, nil
	}

	return nil, ErrSessionNotFound
}

// Init creates a brand-new session and writes its id onto the response
// through every configured channel.
func (m *Manager) Init(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	if m.store == nil {
		return nil, ErrNoStore
	}

	sess, err := m.store.Create(ctx)
	if err != nil {
		return nil, err
	}

	if err := m.resolver.SetSessionID(w, r, sess.ID); err != nil {
		_ = m.store.DeleteByID(ctx, sess.ID)
		return nil, err
	}

	m.log.DebugContext(ctx, "session created", slog.String("session_id", sess.ID))
	return sess, nil
}

// Ensure loads the request's session or creates a new one when no channel
// yields a live record.
func (m *Manager) Ensure(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess, err := m.Load(ctx, r)
	if err == nil {
		// Re-establish both channels so a client that arrived on one can
		// resume through the other.
		if err := m.resolver.SetSessionID(w, r, sess.ID); err != nil {
			return nil, err
		}
		return sess, nil
	}
	if !errors.Is(err, ErrSessionNotFound) {
		return nil, err
	}

	return m.Init(ctx, w, r)
}

// Put ensures a session exists, stores the attribute, and persists the full
// record before returning.
func (m *Manager) Put(ctx context.Context, w http.ResponseWriter, r *http.Request, key string, value any) error {
	return m.PutAll(ctx, w, r, map[string]any{key: value})
}

// PutAll ensures a session exists, stores all given attributes, and
// persists the full record with a single save.
func (m *Manager) PutAll(ctx context.Context, w http.ResponseWriter, r *http.Request, values map[string]any) error {
	sess, err := m.Ensure(ctx, w, r)
	if err != nil {
		return err
	}

	for k, v := range values {
		sess.Set(k, v)
	}
	sess.Touch(time.Now())

	return m.store.Save(ctx, sess)
}

// Value loads the session and reads a single attribute. Missing session and
// missing attribute are both reported as not-ok.
func (m *Manager) Value(ctx context.Context, r *http.Request, key string) (any, bool) {
	sess, err := m.Load(ctx, r)
	if err != nil {
		return nil, false
	}
	return sess.Get(key)
}

// Destroy deletes the record for every resolved candidate id and expires
// the identity on every channel (logout).
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var deleteErr error
	for _, id := range m.resolver.ResolveSessionIDs(r) {
		if err := m.store.DeleteByID(ctx, id); err != nil {
			deleteErr = err
		}
	}

	if err := m.resolver.ExpireSession(w, r); err != nil {
		return err
	}
	return deleteErr
}

// RegenerateID rotates the session id: the record is re-saved under a new
// id, the old document is removed, and both channels are rewritten.
func (m *Manager) RegenerateID(ctx context.Context, w http.ResponseWriter, r *http.Request) (*Session, error) {
	sess, err := m.Load(ctx, r)
	if err != nil {
		return nil, err
	}

	old := sess.RegenerateID()
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	if err := m.store.DeleteByID(ctx, old); err != nil {
		return nil, err
	}

	if err := m.resolver.SetSessionID(w, r, sess.ID); err != nil {
		return nil, err
	}

	m.log.DebugContext(ctx, "session id rotated",
		slog.String("old_session_id", old),
		slog.String("session_id", sess.ID),
	)
	return sess, nil
}

// queueTouch queues an asynchronous access-time bump. A full channel drops
// the update rather than blocking the request path.
func (m *Manager) queueTouch(id string, at time.Time) {
	select {
	case m.touchChan <- touchUpdate{id: id, at: at}:
	default:
	}
}

// touchWorker persists access-time bumps off the request path.
func (m *Manager) touchWorker() {
	apply := func(u touchUpdate) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.store.Touch(ctx, u.id, u.at); err != nil && !errors.Is(err, ErrSessionNotFound) {
			m.log.Warn("session touch failed",
				slog.String("session_id", u.id),
				slog.Any("error", err),
			)
		}
	}

	for {
		select {
		case u := <-m.touchChan:
			apply(u)
		case <-m.done:
			// Drain remaining updates for graceful shutdown.
			for {
				select {
				case u := <-m.touchChan:
					apply(u)
				default:
					return
				}
			}
		}
	}
}

// Close gracefully shuts down the manager's background worker.
func (m *Manager) Close() error {
	select {
	case <-m.done:
		return nil
	default:
		close(m.done)
		return nil
	}
}
