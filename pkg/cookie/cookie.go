package cookie

import (
	"encoding/base64"
	"errors"
	"net/http"
	"time"
)

// Manager issues and reads HTTP cookies with a set of default options.
// It carries no secrets: session identifiers are opaque random values, so
// the cookie layer only handles transport-level encoding, not integrity.
type Manager struct {
	defaults Options
}

// New creates a cookie manager. Defaults are Path=/, HttpOnly and
// SameSite=Lax; options override them for every cookie the manager writes.
func New(opts ...Option) *Manager {
	defaults := Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	defaults = applyOptions(defaults, opts)

	return &Manager{defaults: defaults}
}

// Set writes a cookie with the manager's defaults, overridden by opts.
func (m *Manager) Set(w http.ResponseWriter, name, value string, opts ...Option) error {
	options := applyOptions(m.defaults, opts)

	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     options.Path,
		Domain:   options.Domain,
		MaxAge:   options.MaxAge,
		Secure:   options.Secure,
		HttpOnly: options.HttpOnly,
		SameSite: options.SameSite,
	})
	return nil
}

// Get reads a cookie value from the request.
func (m *Manager) Get(r *http.Request, name string) (string, error) {
	cookie, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return cookie.Value, nil
}

// Delete expires the cookie on the client: empty value, MaxAge -1 and an
// epoch Expires stamp.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
		Secure:   m.defaults.Secure,
	})
}

// SetEncoded base64-encodes the value before writing, matching the wire
// format browsers receive from servlet-style session cookies.
func (m *Manager) SetEncoded(w http.ResponseWriter, name, value string, opts ...Option) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(value))
	return m.Set(w, name, encoded, opts...)
}

// GetEncoded reads and base64-decodes a cookie value.
func (m *Manager) GetEncoded(r *http.Request, name string) (string, error) {
	encoded, err := m.Get(r, name)
	if err != nil {
		return "", err
	}

	value, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", ErrInvalidFormat
	}
	return string(value), nil
}
