package session

import (
	"net/http"
)

// Resolver maps a request to candidate session identifiers and writes
// identifiers onto a response. Resolution failure is not an error, it simply
// yields no candidates.
type Resolver interface {
	// ResolveSessionIDs extracts candidate session ids from the request in
	// priority order. An empty slice means no session.
	ResolveSessionIDs(r *http.Request) []string

	// SetSessionID writes the session id onto the response.
	SetSessionID(w http.ResponseWriter, r *http.Request, id string) error

	// ExpireSession invalidates the session id on the response.
	ExpireSession(w http.ResponseWriter, r *http.Request) error
}

// HybridResolver combines several resolvers: resolution queries them in
// fixed priority order and short-circuits on the first non-empty result,
// while writes fan out to every resolver unconditionally so a client using
// any single channel can resume the session.
type HybridResolver struct {
	resolvers []Resolver
}

// NewHybridResolver creates a resolver over the given strategies. The order
// of the arguments is the resolution priority order.
func NewHybridResolver(resolvers ...Resolver) *HybridResolver {
	return &HybridResolver{resolvers: resolvers}
}

// ResolveSessionIDs returns the candidates of the first strategy that
// yields any. If channels disagree, the earlier strategy silently wins.
func (h *HybridResolver) ResolveSessionIDs(r *http.Request) []string {
	for _, resolver := range h.resolvers {
		if ids := resolver.ResolveSessionIDs(r); len(ids) > 0 {
			return ids
		}
	}
	return nil
}

// SetSessionID writes the id via every strategy. This is a deliberate
// fan-out, not a fallback.
func (h *HybridResolver) SetSessionID(w http.ResponseWriter, r *http.Request, id string) error {
	var lastErr error
	for _, resolver := range h.resolvers {
		if err := resolver.SetSessionID(w, r, id); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// ExpireSession invalidates the id on every strategy.
func (h *HybridResolver) ExpireSession(w http.ResponseWriter, r *http.Request) error {
	var lastErr error
	for _, resolver := range h.resolvers {
		if err := resolver.ExpireSession(w, r); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
