package session

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// Option is a functional option for configuring the Manager.
type Option func(*Manager)

// WithStore sets a custom session store.
func WithStore(store Store) Option {
	return func(m *Manager) {
		m.store = store
	}
}

// WithResolver sets a custom session id resolver.
func WithResolver(resolver Resolver) Option {
	return func(m *Manager) {
		m.resolver = resolver
	}
}

// WithConfig sets custom configuration.
func WithConfig(config Config) Option {
	return func(m *Manager) {
		m.config = config
	}
}

// WithHeaderName sets the session id header name.
func WithHeaderName(name string) Option {
	return func(m *Manager) {
		m.config.HeaderName = name
	}
}

// WithCookieName sets the session cookie name.
func WithCookieName(name string) Option {
	return func(m *Manager) {
		m.config.CookieName = name
	}
}

// WithMaxInactiveInterval sets the default inactivity timeout for new
// sessions. A negative value means sessions never expire.
func WithMaxInactiveInterval(d time.Duration) Option {
	return func(m *Manager) {
		m.config.MaxInactiveInterval = d
	}
}

// WithCleanupInterval sets the background sweep interval for the default
// in-memory store.
func WithCleanupInterval(interval time.Duration) Option {
	return func(m *Manager) {
		m.config.CleanupInterval = interval
	}
}

// WithCookieManager sets the cookie manager used by the default hybrid
// resolver's cookie channel.
func WithCookieManager(cookies *cookie.Manager, opts ...cookie.Option) Option {
	return func(m *Manager) {
		m.cookies = cookies
		m.cookieOptions = opts
	}
}

// WithLogger supplies a structured logger for background operations.
func WithLogger(log *slog.Logger) Option {
	return func(m *Manager) {
		m.log = log
	}
}
