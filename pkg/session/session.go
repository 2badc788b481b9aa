package session

import (
	"time"

	"github.com/google/uuid"
)

// Session is a server-side session record shared between stateless
// application instances through an external store.
type Session struct {
	ID                  string         `json:"id"`
	Attributes          map[string]any `json:"attributes,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	LastAccessedAt      time.Time      `json:"last_accessed_at"`
	MaxInactiveInterval time.Duration  `json:"max_inactive_interval"`
	ExpiresAt           time.Time      `json:"expires_at"`
}

// NewSession creates a new session with a freshly generated identifier.
// A negative maxInactive means the session never expires.
func NewSession(maxInactive time.Duration) *Session {
	now := time.Now()
	s := &Session{
		ID:                  newSessionID(),
		Attributes:          make(map[string]any),
		CreatedAt:           now,
		LastAccessedAt:      now,
		MaxInactiveInterval: maxInactive,
	}
	s.ExpiresAt = s.expiryFrom(now)
	return s
}

// newSessionID returns a collision-resistant random identifier.
func newSessionID() string {
	return uuid.NewString()
}

// IsExpired reports whether the session is expired at the current time.
func (s *Session) IsExpired() bool {
	return s.IsExpiredAt(time.Now())
}

// IsExpiredAt reports whether the session is expired at the given time.
// It is the single source of truth for observable absence: an expired
// record must be treated as missing by every lookup, whether or not it
// has been physically deleted yet.
func (s *Session) IsExpiredAt(now time.Time) bool {
	if s == nil {
		return false
	}
	if s.MaxInactiveInterval < 0 {
		return false
	}
	return now.After(s.LastAccessedAt.Add(s.MaxInactiveInterval))
}

// Touch updates the last accessed time and recomputes the expiry deadline.
func (s *Session) Touch(at time.Time) {
	if s == nil {
		return
	}
	s.LastAccessedAt = at
	s.ExpiresAt = s.expiryFrom(at)
}

// SetMaxInactiveInterval changes the inactivity timeout and recomputes the
// expiry deadline from the current last accessed time. A negative interval
// means the session never expires.
func (s *Session) SetMaxInactiveInterval(d time.Duration) {
	if s == nil {
		return
	}
	s.MaxInactiveInterval = d
	s.ExpiresAt = s.expiryFrom(s.LastAccessedAt)
}

// RegenerateID assigns a new identifier to the session and returns the old
// one. Used for id rotation after privilege changes.
func (s *Session) RegenerateID() (old string) {
	old = s.ID
	s.ID = newSessionID()
	return old
}

// Get retrieves a value from the attribute bag.
func (s *Session) Get(key string) (any, bool) {
	if s == nil || s.Attributes == nil {
		return nil, false
	}
	val, ok := s.Attributes[key]
	return val, ok
}

// GetRequired retrieves a value that the caller expects to exist.
// A missing key returns ErrAttributeNotFound, signalling a caller bug
// rather than ordinary session state.
func (s *Session) GetRequired(key string) (any, error) {
	val, ok := s.Get(key)
	if !ok {
		return nil, ErrAttributeNotFound
	}
	return val, nil
}

// GetString retrieves a string value from the attribute bag.
func (s *Session) GetString(key string) (string, bool) {
	val, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := val.(string)
	return str, ok
}

// GetInt retrieves an int value from the attribute bag. Numeric values
// round-tripped through JSON or BSON decode as int32/int64/float64, so all
// of them are accepted.
func (s *Session) GetInt(key string) (int, bool) {
	val, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch v := val.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

// GetBool retrieves a bool value from the attribute bag.
func (s *Session) GetBool(key string) (bool, bool) {
	val, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := val.(bool)
	return b, ok
}

// Set stores a value in the attribute bag.
func (s *Session) Set(key string, value any) {
	if s == nil {
		return
	}
	if s.Attributes == nil {
		s.Attributes = make(map[string]any)
	}
	s.Attributes[key] = value
}

// Delete removes a value from the attribute bag.
func (s *Session) Delete(key string) {
	if s == nil || s.Attributes == nil {
		return
	}
	delete(s.Attributes, key)
}

// Clear removes all attributes from the session.
func (s *Session) Clear() {
	if s == nil {
		return
	}
	s.Attributes = make(map[string]any)
}

func (s *Session) expiryFrom(at time.Time) time.Time {
	if s.MaxInactiveInterval < 0 {
		return time.Time{}
	}
	return at.Add(s.MaxInactiveInterval)
}
