package session

import (
	"net/http"
)

// DefaultHeaderName carries the raw session id for cookie-unaware clients.
const DefaultHeaderName = "X-Auth-Token"

// HeaderResolver transmits the session id through an HTTP header. The
// header value is the raw id, no prefix and no encoding.
type HeaderResolver struct {
	headerName string
}

// NewHeaderResolver creates a header-based resolver. An empty name falls
// back to DefaultHeaderName.
func NewHeaderResolver(headerName string) *HeaderResolver {
	if headerName == "" {
		headerName = DefaultHeaderName
	}
	return &HeaderResolver{headerName: headerName}
}

// ResolveSessionIDs extracts the session id from the request header.
func (h *HeaderResolver) ResolveSessionIDs(r *http.Request) []string {
	value := r.Header.Get(h.headerName)
	if value == "" {
		return nil
	}
	return []string{value}
}

// SetSessionID writes the session id into the response header.
func (h *HeaderResolver) SetSessionID(w http.ResponseWriter, r *http.Request, id string) error {
	w.Header().Set(h.headerName, id)
	return nil
}

// ExpireSession blanks the header value on the response.
func (h *HeaderResolver) ExpireSession(w http.ResponseWriter, r *http.Request) error {
	w.Header().Set(h.headerName, "")
	return nil
}
