package session

import "time"

// Config holds session configuration.
type Config struct {
	// HeaderName is the header carrying the raw session id (default: "X-Auth-Token").
	HeaderName string `env:"SESSION_HEADER_NAME" envDefault:"X-Auth-Token"`

	// CookieName is the cookie carrying the base64-encoded session id (default: "SESSION").
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"SESSION"`

	// MaxInactiveInterval is the default inactivity timeout for new sessions.
	// A negative value is the never-expire sentinel and is preserved as such.
	MaxInactiveInterval time.Duration `env:"SESSION_MAX_INACTIVE_INTERVAL" envDefault:"30m"`

	// CleanupInterval for the background sweep of expired sessions (0 to disable).
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" envDefault:"5m"`

	// SecureCookies enables the Secure flag on session cookies.
	SecureCookies bool `env:"SESSION_SECURE_COOKIES" envDefault:"false"`
}

// DefaultConfig returns default session configuration matching the classic
// servlet-container defaults (30 minute inactivity timeout).
func DefaultConfig() Config {
	return Config{
		HeaderName:          DefaultHeaderName,
		CookieName:          DefaultCookieName,
		MaxInactiveInterval: 30 * time.Minute,
		CleanupInterval:     5 * time.Minute,
		SecureCookies:       false,
	}
}

// NewFromConfig creates a new Manager from the provided Config.
func NewFromConfig(cfg Config, opts ...Option) *Manager {
	configOpts := []Option{
		WithConfig(cfg),
	}

	configOpts = append(configOpts, opts...)

	return New(configOpts...)
}
