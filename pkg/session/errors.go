package session

import "errors"

var (
	// ErrSessionNotFound indicates no live session exists for the resolved id.
	// Expired and never-existed sessions are deliberately indistinguishable.
	ErrSessionNotFound = errors.New("session.not_found")

	// ErrInvalidSession indicates a malformed or empty session record.
	ErrInvalidSession = errors.New("session.invalid")

	// ErrAttributeNotFound indicates a required attribute is missing from the
	// attribute bag. This signals a caller bug, not ordinary absence.
	ErrAttributeNotFound = errors.New("session.attribute_not_found")

	// ErrNoStore indicates no store is configured.
	ErrNoStore = errors.New("session.no_store")

	// ErrStoreFailure wraps infrastructure-level store errors so callers can
	// distinguish them from plain absence.
	ErrStoreFailure = errors.New("session.store_failure")
)
