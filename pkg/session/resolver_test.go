package session_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/pkg/cookie"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func TestHeaderResolver(t *testing.T) {
	resolver := session.NewHeaderResolver("")

	t.Run("resolve raw header value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(session.DefaultHeaderName, "abc-123")

		assert.Equal(t, []string{"abc-123"}, resolver.ResolveSessionIDs(r))
	})

	t.Run("no header means no candidates", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, resolver.ResolveSessionIDs(r))
	})

	t.Run("set writes raw id to response", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, resolver.SetSessionID(w, r, "abc-123"))
		assert.Equal(t, "abc-123", w.Header().Get(session.DefaultHeaderName))
	})

	t.Run("expire blanks the header", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, resolver.SetSessionID(w, r, "abc-123"))
		require.NoError(t, resolver.ExpireSession(w, r))
		assert.Equal(t, "", w.Header().Get(session.DefaultHeaderName))
	})

	t.Run("custom header name", func(t *testing.T) {
		custom := session.NewHeaderResolver("X-Session-Id")
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("X-Session-Id", "abc-123")

		assert.Equal(t, []string{"abc-123"}, custom.ResolveSessionIDs(r))
	})
}

func TestCookieResolver(t *testing.T) {
	resolver := session.NewCookieResolver(cookie.New(), "")

	t.Run("set stores base64 of the id", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, resolver.SetSessionID(w, r, "abc-123"))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.DefaultCookieName, cookies[0].Name)
		assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("abc-123")), cookies[0].Value)
		assert.True(t, cookies[0].HttpOnly)
	})

	t.Run("resolve decodes the cookie value", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{
			Name:  session.DefaultCookieName,
			Value: base64.StdEncoding.EncodeToString([]byte("abc-123")),
		})

		assert.Equal(t, []string{"abc-123"}, resolver.ResolveSessionIDs(r))
	})

	t.Run("undecodable cookie means no candidates", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: "%%%not-base64%%%"})

		assert.Empty(t, resolver.ResolveSessionIDs(r))
	})

	t.Run("no cookie means no candidates", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Empty(t, resolver.ResolveSessionIDs(r))
	})

	t.Run("expire deletes the cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		require.NoError(t, resolver.ExpireSession(w, r))

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, session.DefaultCookieName, cookies[0].Name)
		assert.Empty(t, cookies[0].Value)
		assert.Negative(t, cookies[0].MaxAge)
	})
}

func newHybridResolver() *session.HybridResolver {
	return session.NewHybridResolver(
		session.NewHeaderResolver(""),
		session.NewCookieResolver(cookie.New(), ""),
	)
}

func TestHybridResolver_HeaderWinsOverCookie(t *testing.T) {
	resolver := newHybridResolver()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set(session.DefaultHeaderName, "header-id")
	r.AddCookie(&http.Cookie{
		Name:  session.DefaultCookieName,
		Value: base64.StdEncoding.EncodeToString([]byte("cookie-id")),
	})

	assert.Equal(t, []string{"header-id"}, resolver.ResolveSessionIDs(r))
}

func TestHybridResolver_CookieFallback(t *testing.T) {
	resolver := newHybridResolver()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{
		Name:  session.DefaultCookieName,
		Value: base64.StdEncoding.EncodeToString([]byte("cookie-id")),
	})

	assert.Equal(t, []string{"cookie-id"}, resolver.ResolveSessionIDs(r))
}

func TestHybridResolver_SetFansOutToBothChannels(t *testing.T) {
	resolver := newHybridResolver()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, resolver.SetSessionID(w, r, "abc-123"))

	assert.Equal(t, "abc-123", w.Header().Get(session.DefaultHeaderName))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("abc-123")), cookies[0].Value)
}

// A client that captured either channel of a set response must be able to
// resume the session through that channel alone.
func TestHybridResolver_SetIsRecoverablePerChannel(t *testing.T) {
	resolver := newHybridResolver()

	w := httptest.NewRecorder()
	require.NoError(t, resolver.SetSessionID(w, httptest.NewRequest(http.MethodGet, "/", nil), "abc-123"))

	t.Run("header only", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set(session.DefaultHeaderName, w.Header().Get(session.DefaultHeaderName))

		assert.Equal(t, []string{"abc-123"}, resolver.ResolveSessionIDs(r))
	})

	t.Run("cookie only", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range w.Result().Cookies() {
			r.AddCookie(c)
		}

		assert.Equal(t, []string{"abc-123"}, resolver.ResolveSessionIDs(r))
	})
}

func TestHybridResolver_ExpireClearsBothChannels(t *testing.T) {
	resolver := newHybridResolver()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, resolver.ExpireSession(w, r))

	assert.Equal(t, "", w.Header().Get(session.DefaultHeaderName))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}
