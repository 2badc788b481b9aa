package member

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

// Service exposes the session demo REST surface: establishing a session,
// joining a member into it, and reading the member back.
type Service struct {
	sessions *session.Manager
	registry *Registry
	log      *slog.Logger
}

// NewService creates the member service. A nil logger discards logs.
func NewService(sessions *session.Manager, registry *Registry, log *slog.Logger) *Service {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Service{
		sessions: sessions,
		registry: registry,
		log:      log,
	}
}

// sessionInfo is the init response body.
type sessionInfo struct {
	SessionID string `json:"sessionId"`
}

// Router returns the routes to mount under the session path prefix:
//
//	GET  /init  establish a session and return its id
//	GET  /      read the joined member from the session
//	POST /      join a member into the session
func (s *Service) Router() chi.Router {
	r := chi.NewRouter()
	r.Get("/init", s.initSession)
	r.Get("/", s.findSessionData)
	r.Post("/", s.join)
	return r
}

// initSession loads or creates a session and returns its id. Both identity
// channels are (re)established on the response.
func (s *Service) initSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Ensure(r.Context(), w, r)
	if err != nil {
		s.log.ErrorContext(r.Context(), "init session failed", logger.Error(err))
		respondError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	s.log.InfoContext(r.Context(), "session initialized", logger.SessionID(sess.ID))
	respondJSON(w, http.StatusOK, sessionInfo{SessionID: sess.ID})
}

// findSessionData reads the joined member back from the session. A request
// without a live session, or a session that never saw a join, yields the
// same not-found response: callers cannot distinguish "never existed" from
// "expired" and never see another session's data.
func (s *Service) findSessionData(w http.ResponseWriter, r *http.Request) {
	sess, err := s.sessions.Load(r.Context(), r)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			respondError(w, http.StatusNotFound, "session not found")
			return
		}
		s.log.ErrorContext(r.Context(), "session load failed", logger.Error(err))
		respondError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	m, err := memberFromSession(sess)
	if err != nil {
		// The session exists but was never joined. Surfaced the same way as
		// an absent session so no session-existence information leaks.
		s.log.WarnContext(r.Context(), "member attributes missing",
			logger.SessionID(sess.ID), logger.Error(err))
		respondError(w, http.StatusNotFound, "session not found")
		return
	}

	s.log.InfoContext(r.Context(), "session data read", logger.SessionID(sess.ID))
	respondJSON(w, http.StatusOK, m)
}

// join stores the posted member in the session attribute bag, appends it to
// the in-memory registry, and answers with a plain boolean. A session is
// created on the fly when the request carries no usable id.
func (s *Service) join(w http.ResponseWriter, r *http.Request) {
	var m Member
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.sessions.PutAll(r.Context(), w, r, m.attributes()); err != nil {
		s.log.ErrorContext(r.Context(), "join failed", logger.Error(err))
		respondError(w, http.StatusServiceUnavailable, "session store unavailable")
		return
	}

	s.registry.Append(m)

	s.log.InfoContext(r.Context(), "member joined", slog.String("member_id", m.ID))
	respondJSON(w, http.StatusOK, true)
}

// errorResponse is the REST error envelope. Internal store errors are never
// exposed verbatim.
type errorResponse struct {
	Error string `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}
