package member_test

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/sessionkit/modules/member"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

type testEnv struct {
	server   *httptest.Server
	registry *member.Registry
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store := session.NewMemoryStore(30*time.Minute, 0)
	sessions := session.New(session.WithStore(store))

	registry := member.NewRegistry()
	svc := member.NewService(sessions, registry, nil)

	r := chi.NewRouter()
	r.Mount("/session", svc.Router())

	server := httptest.NewServer(r)
	t.Cleanup(func() {
		server.Close()
		_ = sessions.Close()
		_ = store.Close()
	})

	return &testEnv{server: server, registry: registry}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *http.Response {
	t.Helper()
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func sessionCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	return nil
}

func TestInitSession(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session/init", nil)
	resp := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody[map[string]string](t, resp)
	sessionID := body["sessionId"]
	require.NotEmpty(t, sessionID)

	// Header carries the raw id.
	assert.Equal(t, sessionID, resp.Header.Get(session.DefaultHeaderName))

	// Cookie carries the same id base64-encoded.
	c := sessionCookie(resp)
	require.NotNil(t, c)
	decoded, err := base64.StdEncoding.DecodeString(c.Value)
	require.NoError(t, err)
	assert.Equal(t, sessionID, string(decoded))
}

func TestInitSession_ReusesExisting(t *testing.T) {
	env := newTestEnv(t)

	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session/init", nil)
	first := env.do(t, req)
	firstID := decodeBody[map[string]string](t, first)["sessionId"]

	req, _ = http.NewRequest(http.MethodGet, env.server.URL+"/session/init", nil)
	req.Header.Set(session.DefaultHeaderName, firstID)
	second := env.do(t, req)

	secondID := decodeBody[map[string]string](t, second)["sessionId"]
	assert.Equal(t, firstID, secondID)
}

func TestJoinAndFind(t *testing.T) {
	env := newTestEnv(t)

	// Establish a session.
	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session/init", nil)
	init := env.do(t, req)
	token := init.Header.Get(session.DefaultHeaderName)
	cookie := sessionCookie(init)
	require.NotEmpty(t, token)
	require.NotNil(t, cookie)

	// Join a member through the header channel.
	payload := `{"id":"sinnake","password":"password!","phoneNumber":"01012341234"}`
	req, _ = http.NewRequest(http.MethodPost, env.server.URL+"/session", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(session.DefaultHeaderName, token)
	join := env.do(t, req)
	require.Equal(t, http.StatusOK, join.StatusCode)
	assert.True(t, decodeBody[bool](t, join))

	want := member.Member{ID: "sinnake", Password: "password!", PhoneNumber: "01012341234"}

	t.Run("read via header", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
		req.Header.Set(session.DefaultHeaderName, token)
		resp := env.do(t, req)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, want, decodeBody[member.Member](t, resp))
	})

	t.Run("read via cookie only", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
		req.AddCookie(cookie)
		resp := env.do(t, req)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, want, decodeBody[member.Member](t, resp))
	})

	t.Run("member registered", func(t *testing.T) {
		require.Equal(t, 1, env.registry.Len())
		assert.Equal(t, want, env.registry.All()[0])
	})
}

func TestJoinWithoutSessionCreatesOne(t *testing.T) {
	env := newTestEnv(t)

	payload := `{"id":"sinnake","password":"password!","phoneNumber":"01012341234"}`
	req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/session", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	join := env.do(t, req)
	require.Equal(t, http.StatusOK, join.StatusCode)
	assert.True(t, decodeBody[bool](t, join))

	// The on-the-fly session is usable for reads.
	token := join.Header.Get(session.DefaultHeaderName)
	require.NotEmpty(t, token)

	req, _ = http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
	req.Header.Set(session.DefaultHeaderName, token)
	resp := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	m := decodeBody[member.Member](t, resp)
	assert.Equal(t, "sinnake", m.ID)
}

func TestJoin_InvalidBody(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"id":`},
		{"unknown field", `{"id":"a","password":"b","phoneNumber":"c","extra":true}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/session", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			resp := env.do(t, req)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestFindSessionData_NotFound(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no session id at all", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
		resp := env.do(t, req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("unknown session id", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
		req.Header.Set(session.DefaultHeaderName, "stale-or-forged-id")
		resp := env.do(t, req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("session without a joined member", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session/init", nil)
		init := env.do(t, req)
		token := init.Header.Get(session.DefaultHeaderName)

		req, _ = http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
		req.Header.Set(session.DefaultHeaderName, token)
		resp := env.do(t, req)

		// Indistinguishable from an absent session.
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		body := decodeBody[map[string]string](t, resp)
		assert.Equal(t, "session not found", body["error"])
	})
}

func TestSessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t)

	join := func(payload string) string {
		req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/session", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := env.do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return resp.Header.Get(session.DefaultHeaderName)
	}

	tokenA := join(`{"id":"alice","password":"pw-a","phoneNumber":"111"}`)
	tokenB := join(`{"id":"bob","password":"pw-b","phoneNumber":"222"}`)
	require.NotEqual(t, tokenA, tokenB)

	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
	req.Header.Set(session.DefaultHeaderName, tokenA)
	resp := env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", decodeBody[member.Member](t, resp).ID)

	req, _ = http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
	req.Header.Set(session.DefaultHeaderName, tokenB)
	resp = env.do(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "bob", decodeBody[member.Member](t, resp).ID)

	assert.Equal(t, 2, env.registry.Len())
}

func TestHeaderWinsOverCookieOnRead(t *testing.T) {
	env := newTestEnv(t)

	join := func(payload string) (string, *http.Cookie) {
		req, _ := http.NewRequest(http.MethodPost, env.server.URL+"/session", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		resp := env.do(t, req)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		return resp.Header.Get(session.DefaultHeaderName), sessionCookie(resp)
	}

	tokenA, _ := join(`{"id":"alice","password":"pw-a","phoneNumber":"111"}`)
	_, cookieB := join(`{"id":"bob","password":"pw-b","phoneNumber":"222"}`)
	require.NotNil(t, cookieB)

	// Desynchronized channels: header points at alice, cookie at bob.
	req, _ := http.NewRequest(http.MethodGet, env.server.URL+"/session", nil)
	req.Header.Set(session.DefaultHeaderName, tokenA)
	req.AddCookie(cookieB)
	resp := env.do(t, req)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", decodeBody[member.Member](t, resp).ID)
}
