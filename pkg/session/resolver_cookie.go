package session

import (
	"encoding/base64"
	"net/http"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
)

// DefaultCookieName carries the base64-encoded session id for browsers.
const DefaultCookieName = "SESSION"

// CookieResolver transmits the session id through a cookie. The cookie
// value is the base64-encoded id; a value that fails to decode is treated
// as no session.
type CookieResolver struct {
	cookies    *cookie.Manager
	cookieName string
	options    []cookie.Option
}

// NewCookieResolver creates a cookie-based resolver. An empty name falls
// back to DefaultCookieName. Extra cookie options are applied on every Set.
func NewCookieResolver(cookies *cookie.Manager, cookieName string, opts ...cookie.Option) *CookieResolver {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &CookieResolver{
		cookies:    cookies,
		cookieName: cookieName,
		options:    opts,
	}
}

// ResolveSessionIDs extracts and decodes the session id from the cookie.
func (c *CookieResolver) ResolveSessionIDs(r *http.Request) []string {
	value, err := c.cookies.Get(r, c.cookieName)
	if err != nil || value == "" {
		return nil
	}

	id, err := base64.StdEncoding.DecodeString(value)
	if err != nil || len(id) == 0 {
		return nil
	}

	return []string{string(id)}
}

// SetSessionID stores the base64-encoded session id in the cookie.
func (c *CookieResolver) SetSessionID(w http.ResponseWriter, r *http.Request, id string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(id))
	return c.cookies.Set(w, c.cookieName, encoded, c.options...)
}

// ExpireSession deletes the cookie on the response.
func (c *CookieResolver) ExpireSession(w http.ResponseWriter, r *http.Request) error {
	c.cookies.Delete(w, c.cookieName)
	return nil
}
