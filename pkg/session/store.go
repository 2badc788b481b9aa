package session

import (
	"context"
	"time"
)

// Store defines the persistence contract for session records. Every method
// may block on network I/O and must honor the context's deadline.
type Store interface {
	// Create allocates a new session with the store's default inactivity
	// timeout and persists it immediately.
	Create(ctx context.Context) (*Session, error)

	// FindByID retrieves a live session by id. Missing and expired records
	// are both reported as ErrSessionNotFound; an expired record triggers
	// best-effort physical deletion.
	FindByID(ctx context.Context, id string) (*Session, error)

	// Save upserts the full record by id, recomputing the expiry deadline
	// before writing. There is no partial-field merge.
	Save(ctx context.Context, s *Session) error

	// DeleteByID removes the record unconditionally. Deleting an absent id
	// is not an error.
	DeleteByID(ctx context.Context, id string) error

	// Touch updates only the last accessed time and the derived expiry.
	Touch(ctx context.Context, id string, at time.Time) error

	// DeleteExpired physically removes expired records. It backs the
	// optional background sweep; lazy checks at read time remain the
	// authoritative enforcement point.
	DeleteExpired(ctx context.Context) error
}
